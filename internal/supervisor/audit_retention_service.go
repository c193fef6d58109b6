// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package supervisor

import (
	"context"
	"log/slog"
	"time"
)

// auditPruner is satisfied by audit.Store. Declared locally so this
// package doesn't import internal/audit.
type auditPruner interface {
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// AuditRetentionService periodically removes audit events older than
// the configured retention window, keeping the badger store's disk
// footprint bounded.
type AuditRetentionService struct {
	store     auditPruner
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewAuditRetentionService returns a service that prunes events older
// than retention, sweeping on the given interval.
func NewAuditRetentionService(store auditPruner, retention, interval time.Duration, logger *slog.Logger) *AuditRetentionService {
	return &AuditRetentionService{store: store, retention: retention, interval: interval, logger: logger}
}

// Serve implements suture.Service.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *AuditRetentionService) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.store.Delete(ctx, cutoff)
	if err != nil {
		s.logger.Warn("audit retention sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("audit retention sweep removed events", "count", removed, "cutoff", cutoff)
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *AuditRetentionService) String() string {
	return "audit-retention"
}
