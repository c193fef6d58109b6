// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opnprint/printd/internal/identity"
)

func TestNewAuthenticatorCryptKinds(t *testing.T) {
	db := &fakeDB{users: map[string]*identity.PasswdEntry{}}

	for _, kind := range []string{"", "crypt"} {
		a, err := NewAuthenticator(kind, nil, HostAuthenticatorConfig{}, db, nil)
		require.NoError(t, err)
		assert.IsType(t, &CryptAuthenticator{}, a)
	}
}

func TestNewAuthenticatorHostKind(t *testing.T) {
	db := &fakeDB{users: map[string]*identity.PasswdEntry{}}
	host := &fakeHost{}

	a, err := NewAuthenticator("host", host, DefaultHostAuthenticatorConfig(), db, nil)
	require.NoError(t, err)
	assert.IsType(t, &HostAuthenticator{}, a)
}

func TestNewAuthenticatorHostKindWithoutHostErrors(t *testing.T) {
	db := &fakeDB{users: map[string]*identity.PasswdEntry{}}

	_, err := NewAuthenticator("host", nil, HostAuthenticatorConfig{}, db, nil)
	require.Error(t, err)
}

func TestNewAuthenticatorUnknownKindErrors(t *testing.T) {
	db := &fakeDB{users: map[string]*identity.PasswdEntry{}}

	_, err := NewAuthenticator("pam", nil, HostAuthenticatorConfig{}, db, nil)
	require.Error(t, err)
}
