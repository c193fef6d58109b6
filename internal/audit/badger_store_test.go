// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mkEvent(id string, ts time.Time, typ EventType) *Event {
	return &Event{
		ID:        id,
		Timestamp: ts,
		Type:      typ,
		Severity:  SeverityInfo,
		Outcome:   OutcomeSuccess,
		Actor:     Actor{ID: "alice", Type: "user"},
		Source:    Source{IPAddress: "127.0.0.1"},
		Action:    "authenticate",
	}
}

func TestBadgerStoreSaveAndGet(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	event := mkEvent("evt-1", time.Now(), EventTypeAuthSuccess)
	require.NoError(t, store.Save(ctx, event))

	got, err := store.Get(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Type, got.Type)
}

func TestBadgerStoreGetMissingReturnsError(t *testing.T) {
	store := newTestBadgerStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestBadgerStoreQueryOrdersNewestFirst(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Save(ctx, mkEvent("evt-1", base, EventTypeAuthSuccess)))
	require.NoError(t, store.Save(ctx, mkEvent("evt-2", base.Add(time.Second), EventTypeAuthSuccess)))
	require.NoError(t, store.Save(ctx, mkEvent("evt-3", base.Add(2*time.Second), EventTypeAuthSuccess)))

	results, err := store.Query(ctx, DefaultQueryFilter())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "evt-3", results[0].ID)
	assert.Equal(t, "evt-2", results[1].ID)
	assert.Equal(t, "evt-1", results[2].ID)
}

func TestBadgerStoreQueryFiltersByType(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Save(ctx, mkEvent("evt-1", base, EventTypeAuthSuccess)))
	require.NoError(t, store.Save(ctx, mkEvent("evt-2", base.Add(time.Second), EventTypeAuthzDenied)))

	filter := DefaultQueryFilter()
	filter.Types = []EventType{EventTypeAuthzDenied}
	results, err := store.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "evt-2", results[0].ID)
}

func TestBadgerStoreQueryRespectsLimit(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, mkEvent(
			"evt-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Second), EventTypeAuthSuccess)))
	}

	filter := DefaultQueryFilter()
	filter.Limit = 2
	results, err := store.Query(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBadgerStoreCount(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Save(ctx, mkEvent("evt-1", base, EventTypeAuthSuccess)))
	require.NoError(t, store.Save(ctx, mkEvent("evt-2", base.Add(time.Second), EventTypeAuthFailure)))

	count, err := store.Count(ctx, DefaultQueryFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBadgerStoreDeleteRemovesOlderEvents(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Save(ctx, mkEvent("evt-old", base, EventTypeAuthSuccess)))
	require.NoError(t, store.Save(ctx, mkEvent("evt-new", base.Add(time.Hour), EventTypeAuthSuccess)))

	removed, err := store.Delete(ctx, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.Get(ctx, "evt-old")
	assert.Error(t, err)

	got, err := store.Get(ctx, "evt-new")
	require.NoError(t, err)
	assert.Equal(t, "evt-new", got.ID)
}
