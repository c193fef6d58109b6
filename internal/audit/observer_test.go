// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opnprint/printd/internal/authz"
)

// observe sends one decision through a fresh Logger backed by store
// and waits for the async writer to catch up.
func observe(t *testing.T, store Store, result authz.DecisionResult) {
	t.Helper()
	logger := NewLogger(store, DefaultConfig())
	defer logger.Close()

	observer := NewAuthzObserver(logger)
	observer.Observe(context.Background(), result)
	logger.Close()
}

func TestAuthzObserverSavesGrantedDecision(t *testing.T) {
	store := NewMemoryStore(100)
	observe(t, store, authz.DecisionResult{
		Decision: authz.DecisionOK,
		Username: "alice",
		Hostname: "10.0.0.5",
		Path:     "/admin",
		Method:   "GET",
		Reason:   "principal match: alice",
	})

	events, err := store.Query(context.Background(), DefaultQueryFilter())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAuthzGranted, events[0].Type)
	assert.Equal(t, OutcomeSuccess, events[0].Outcome)
	assert.Equal(t, "alice", events[0].Actor.Name)
}

func TestAuthzObserverSavesDeniedDecision(t *testing.T) {
	store := NewMemoryStore(100)
	observe(t, store, authz.DecisionResult{
		Decision: authz.DecisionUnauthorized,
		Path:     "/admin",
		Method:   "GET",
		Reason:   "no username presented",
	})

	events, err := store.Query(context.Background(), DefaultQueryFilter())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAuthzDenied, events[0].Type)
	assert.Equal(t, OutcomeFailure, events[0].Outcome)
	assert.Equal(t, SeverityWarning, events[0].Severity)
}

func TestAuthzObserverSamplesGrantedDecisions(t *testing.T) {
	store := NewMemoryStore(100)
	cfg := DefaultConfig()
	cfg.SampleRate = 0
	logger := NewLogger(store, cfg)
	observer := NewAuthzObserver(logger)

	observer.Observe(context.Background(), authz.DecisionResult{
		Decision: authz.DecisionOK,
		Username: "bob",
		Path:     "/printers",
		Method:   "GET",
	})
	logger.Close()

	if store.Len() != 0 {
		t.Errorf("expected sampling to drop the granted decision, store has %d events", store.Len())
	}
}
