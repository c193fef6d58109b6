// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opnprint/printd/internal/authz"
	"github.com/opnprint/printd/internal/credential"
	"github.com/opnprint/printd/internal/hostmask"
	"github.com/opnprint/printd/internal/identity"
	"github.com/opnprint/printd/internal/location"
)

type fakeDB struct{ users map[string]*identity.PasswdEntry }

func (f *fakeDB) LookupUser(username string) (*identity.PasswdEntry, bool) {
	u, ok := f.users[username]
	return u, ok
}
func (f *fakeDB) LookupGroup(string) (*identity.GroupEntry, bool) { return nil, false }

type fakeMD5 struct{}

func (fakeMD5) Lookup(string, string) (string, bool) { return "", false }

type fakeBasic struct{ allow bool }

func (f fakeBasic) Authenticate(ctx context.Context, username, password string) (credential.Outcome, error) {
	if f.allow {
		return credential.OutcomeOK, nil
	}
	return credential.OutcomeDenied, nil
}

func newTestOrchestrator(allow bool) *authz.Orchestrator {
	db := &fakeDB{users: map[string]*identity.PasswdEntry{
		"alice": {Username: "alice", PasswordHash: "x"},
	}}
	verifier := credential.NewVerifier(fakeBasic{allow: allow}, fakeMD5{}, nil)
	cfg := authz.Config{ServerName: "print.example", DefaultAuthType: location.TypeBasic}
	return authz.New(cfg, hostmask.StaticSource(nil), db, fakeMD5{}, verifier, nil)
}

func TestAuthorizeAllowsWhenNoLocationMatches(t *testing.T) {
	orch := newTestOrchestrator(true)
	table := location.NewTable()

	handler := Authorize(orch, table, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "localhost:1234"
	rec := httptest.NewRecorder()

	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorizeRejectsUnauthenticatedUnderUserLevel(t *testing.T) {
	orch := newTestOrchestrator(true)
	table := location.NewTable()
	ref := table.Add("/admin")
	loc := table.Get(ref)
	loc.Limit = location.LimitAll
	loc.Order = location.OrderAllowDeny
	loc.Level = location.LevelUser
	loc.Type = location.TypeBasic
	loc.Satisfy = location.SatisfyAll
	loc.AddName("alice")

	called := false
	handler := Authorize(orch, table, nil, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	rec := httptest.NewRecorder()

	handler(rec, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestAuthorizePassesThroughOnSuccess(t *testing.T) {
	orch := newTestOrchestrator(true)
	table := location.NewTable()
	ref := table.Add("/admin")
	loc := table.Get(ref)
	loc.Limit = location.LimitAll
	loc.Order = location.OrderAllowDeny
	loc.Level = location.LevelUser
	loc.Type = location.TypeBasic
	loc.AddName("alice")

	called := false
	handler := Authorize(orch, table, nil, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("alice", "secret")
	req.RemoteAddr = "10.0.0.5:5555"
	rec := httptest.NewRecorder()

	handler(rec, req)
	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientFromRequestParsesBasicAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "secret")
	req.RemoteAddr = "192.168.1.10:4433"

	client := clientFromRequest(req)
	assert.Equal(t, "alice", client.Username)
	assert.Equal(t, "secret", client.Password)
	assert.Equal(t, "192.168.1.10", client.Hostname)
}

func TestClientFromRequestParsesDigestAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", `Digest username="alice", realm="CUPS", nonce="abc123", response="deadbeef"`)
	req.RemoteAddr = "127.0.0.1:9999"

	client := clientFromRequest(req)
	assert.Equal(t, "alice", client.Username)
	assert.Equal(t, "abc123", client.Nonce)
	assert.Equal(t, "deadbeef", client.Response)
}
