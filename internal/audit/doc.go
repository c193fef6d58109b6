// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

// Package audit provides security audit logging for printd's authorization
// decisions.
//
// It records every is_authorized outcome and the credential verification
// attempts that feed it, giving operators a forensic trail of who could
// print where and why a request was denied.
//
// # Overview
//
// The audit system provides:
//   - Structured event logging with typed event categories
//   - Pluggable persistence (in-memory for tests, Badger for production)
//   - Asynchronous buffered writes for minimal latency impact on is_authorized
//   - Sampling of granted decisions, with denials always kept at full rate
//   - SIEM integration via Common Event Format (CEF) export
//   - Flexible querying with multi-dimensional filters
//
// # Event Types
//
// Authentication events, recorded through Logger.LogAuthSuccess,
// LogAuthFailure and LogAuthLockout by whichever caller wires them in:
//   - auth.success: credential verification succeeded
//   - auth.failure: credential verification failed
//   - auth.lockout: a subject was throttled after repeated failures
//
// Authorization events, emitted by AuthzObserver on every is_authorized call:
//   - authz.granted: access granted
//   - authz.denied: access denied with Unauthorized (credentials missing or
//     rejected, or the user is not an allowed principal)
//   - authz.forbidden: access denied with Forbidden (client host refused)
//   - authz.upgrade_required: request must be retried over a secure channel
//
// Administrative events:
//   - breaker.tripped: a circuit breaker opened against a backing service
//   - config.changed: a configuration reload or admin-triggered change
//   - admin.action: a request through an "@SYSTEM"-gated endpoint
//
// # Architecture
//
// The audit system uses a producer-consumer pattern:
//
//	Logger.Log() -> Event Buffer (chan) -> Async Writer -> Store
//	                     |                      |
//	                 Non-blocking           Background goroutine
//
// Events are buffered in a channel to avoid blocking the authorization path.
// A background goroutine drains the buffer and persists events to the store,
// optionally mirroring each one through the structured logger.
//
// # Usage Example
//
//	store, err := audit.NewBadgerStore(cfg.Audit.DBPath)
//	if err != nil {
//	    return err
//	}
//	logger := audit.NewLogger(store, audit.DefaultConfig())
//	defer logger.Close()
//
//	observer := audit.NewAuthzObserver(logger)
//	orch := authz.New(orchCfg, ifaceCache, db, md5Store, verifier, observer)
//
// Querying audit logs:
//
//	filter := audit.QueryFilter{
//	    Types:     []audit.EventType{audit.EventTypeAuthzDenied},
//	    StartTime: &startTime,
//	    EndTime:   &endTime,
//	    ActorID:   "jsmith",
//	    Limit:     100,
//	    OrderDesc: true,
//	}
//	events, err := logger.Query(ctx, filter)
//
// # Configuration
//
//	cfg := audit.Config{
//	    Enabled:     true,  // Enable audit logging
//	    LogGranted:  true,  // Log successful decisions (subject to sampling)
//	    LogDenied:   true,  // Always log denials at full rate
//	    SampleRate:  0.1,   // Log 10% of granted decisions
//	    BufferSize:  1000,  // Event buffer size
//	    LogToStdout: true,  // Also mirror through the structured logger
//	}
//
// # SIEM Integration
//
// Export events in Common Event Format (CEF) for SIEM integration:
//
//	exporter := audit.NewCEFExporter()
//	events, _ := logger.Query(ctx, filter)
//	cefData, _ := exporter.Export(events)
//
// # Retention
//
// Retention is handled outside this package by
// internal/supervisor.AuditRetentionService, which periodically calls
// Store.Delete against a configured retention window.
//
// # Thread Safety
//
// All exported functions are safe for concurrent use:
//   - Logger uses a buffered channel for non-blocking writes
//   - Store implementations use appropriate synchronization
//   - Query operations use read locks for concurrent access
//
// # See Also
//
//   - internal/authz: the is_authorized decision source
//   - internal/credential: the credential verification that auth.* events describe
//   - internal/supervisor: retention and service lifecycle
package audit
