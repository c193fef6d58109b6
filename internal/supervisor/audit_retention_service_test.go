// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

type fakeAuditPruner struct {
	calls    int
	removed  int64
	deleteOK bool
}

func (f *fakeAuditPruner) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	f.calls++
	if !f.deleteOK {
		return 0, errors.New("store unavailable")
	}
	return f.removed, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAuditRetentionServiceSweepsOnInterval(t *testing.T) {
	pruner := &fakeAuditPruner{deleteOK: true, removed: 3}
	svc := NewAuditRetentionService(pruner, time.Hour, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	_ = svc.Serve(ctx)

	if pruner.calls < 2 {
		t.Errorf("expected at least 2 sweeps, got %d", pruner.calls)
	}
}

func TestAuditRetentionServiceToleratesDeleteErrors(t *testing.T) {
	pruner := &fakeAuditPruner{deleteOK: false}
	svc := NewAuditRetentionService(pruner, time.Hour, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestAuditRetentionServiceString(t *testing.T) {
	svc := NewAuditRetentionService(&fakeAuditPruner{}, time.Hour, time.Minute, testLogger())
	if svc.String() != "audit-retention" {
		t.Errorf("unexpected String(): %q", svc.String())
	}
}
