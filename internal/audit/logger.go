// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/opnprint/printd/internal/logging"
	"github.com/opnprint/printd/internal/metrics"
)

// Config tunes Logger's sampling and buffering behavior.
type Config struct {
	// Enabled controls whether audit logging is active at all.
	Enabled bool `json:"enabled"`

	// LogGranted controls whether successful decisions are logged.
	LogGranted bool `json:"log_granted"`

	// LogDenied controls whether denied/forbidden/upgrade decisions
	// are logged. These are always logged at full rate when true;
	// SampleRate does not apply to them.
	LogDenied bool `json:"log_denied"`

	// SampleRate is the fraction of granted decisions to log, from
	// 0.0 to 1.0. Only applies when LogGranted is true; 1.0 logs all.
	SampleRate float64 `json:"sample_rate"`

	// BufferSize is the size of the async write buffer. Events are
	// dropped, not blocked on, when the buffer is full.
	BufferSize int `json:"buffer_size"`

	// LogToStdout also writes every logged event through the
	// structured logger, independent of store persistence.
	LogToStdout bool `json:"log_to_stdout"`
}

// DefaultConfig returns sensible defaults: log everything, unsampled.
func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		LogGranted:  true,
		LogDenied:   true,
		SampleRate:  1.0,
		BufferSize:  1000,
		LogToStdout: true,
	}
}

// Logger buffers audit events and writes them asynchronously to a
// Store, sampling granted decisions to bound volume while always
// keeping denials. AuthzObserver is its primary producer, but the
// LogAuthSuccess/LogAuthFailure/LogAuthLockout/LogAuthzDenied/
// LogConfigChange/LogAdminAction helpers below let other callers
// (the credential verifier, the config loader, admin endpoints) feed
// it the same way.
type Logger struct {
	mu       sync.RWMutex
	config   *Config
	store    Store
	events   chan *Event
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLogger creates a Logger writing to store. If config is nil,
// DefaultConfig is used. The async writer goroutine starts
// immediately and runs until Close.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.SampleRate < 0 {
		config.SampleRate = 0
	}
	if config.SampleRate > 1.0 {
		config.SampleRate = 1.0
	}

	l := &Logger{
		config:   config,
		store:    store,
		events:   make(chan *Event, config.BufferSize),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.processEvents()

	return l
}

// Log records an audit event asynchronously, subject to the granted/
// denied gates and sampling. Non-blocking: a full buffer drops the
// event rather than stalling the caller.
func (l *Logger) Log(event *Event) {
	l.mu.RLock()
	config := l.config
	l.mu.RUnlock()

	if !config.Enabled {
		return
	}

	if event.Outcome == OutcomeSuccess {
		if !config.LogGranted {
			return
		}
		if event.ID == "" {
			event.ID = generateEventID()
		}
		if config.SampleRate < 1.0 && mathrand.Float64() >= config.SampleRate {
			return
		}
	} else if !config.LogDenied {
		return
	}

	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case l.events <- event:
	default:
		logging.Warn().Str("event_id", event.ID).Msg("audit event buffer full, dropping event")
	}
}

// processEvents drains the event channel until Close is called, then
// flushes whatever remains before returning.
func (l *Logger) processEvents() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			l.drainEvents()
			return
		case event := <-l.events:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) drainEvents() {
	for {
		select {
		case event := <-l.events:
			l.writeEvent(event)
		default:
			return
		}
	}
}

// writeEvent persists event to the store and, if configured, mirrors
// it through the structured logger at a level matching its outcome.
func (l *Logger) writeEvent(event *Event) {
	l.mu.RLock()
	config := l.config
	l.mu.RUnlock()

	if config.LogToStdout {
		l.logEvent(event)
	}

	if l.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		metrics.RecordAuditWriteError()
		logging.Error().Err(err).Str("event_id", event.ID).Msg("failed to persist audit event")
	}
}

func (l *Logger) logEvent(event *Event) {
	logEvent := logging.Info()
	if event.Outcome != OutcomeSuccess {
		logEvent = logging.Warn()
	}
	if event.Severity == SeverityCritical {
		logEvent = logging.Error()
	}

	logEvent.
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("actor", event.Actor.Name).
		Str("action", event.Action).
		Str("outcome", string(event.Outcome)).
		Str("request_id", event.RequestID).
		Msg(event.Description)
}

// Close stops the async writer, flushing any buffered events first.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}

// Query retrieves events matching filter from the backing store.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// SetEnabled enables or disables logging without rebuilding the Logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Enabled = enabled
}

// Enabled reports whether logging is currently active.
func (l *Logger) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config.Enabled
}

func generateEventID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}

// LogAuthSuccess logs a successful credential verification.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogAuthSuccess(ctx context.Context, actor Actor, source Source, authMethod string) {
	l.Log(&Event{
		Type:        EventTypeAuthSuccess,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Action:      "authenticate",
		Description: "credential verification succeeded",
		Metadata:    mustJSON(map[string]string{"method": authMethod}),
		RequestID:   getRequestID(ctx),
	})
}

// LogAuthFailure logs a failed credential verification attempt.
func (l *Logger) LogAuthFailure(ctx context.Context, actorID, actorName string, source Source, reason string) {
	l.Log(&Event{
		Type:     EventTypeAuthFailure,
		Severity: SeverityWarning,
		Outcome:  OutcomeFailure,
		Actor: Actor{
			ID:   actorID,
			Type: "user",
			Name: actorName,
		},
		Source:      source,
		Action:      "authenticate",
		Description: "credential verification failed: " + reason,
		Metadata:    mustJSON(map[string]string{"reason": reason}),
		RequestID:   getRequestID(ctx),
	})
}

// LogAuthLockout logs a subject tripping credential.Throttle.
func (l *Logger) LogAuthLockout(ctx context.Context, actorID, actorName string, source Source, duration time.Duration, attempts int) {
	l.Log(&Event{
		Type:     EventTypeAuthLockout,
		Severity: SeverityCritical,
		Outcome:  OutcomeFailure,
		Actor: Actor{
			ID:   actorID,
			Type: "user",
			Name: actorName,
		},
		Source:      source,
		Action:      "throttle",
		Description: "subject throttled after repeated failed attempts",
		Metadata: mustJSON(map[string]interface{}{
			"duration_seconds": duration.Seconds(),
			"failed_attempts":  attempts,
		}),
		RequestID: getRequestID(ctx),
	})
}

// LogAuthzDenied logs an is_authorized denial outside the normal
// AuthzObserver path (for callers that decide off the HTTP request
// cycle, e.g. a CLI admin tool).
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogAuthzDenied(ctx context.Context, actor Actor, source Source, resource, action string) {
	l.Log(&Event{
		Type:     EventTypeAuthzDenied,
		Severity: SeverityWarning,
		Outcome:  OutcomeFailure,
		Actor:    actor,
		Source:   source,
		Action:   "authorize",
		Target: &Target{
			ID:   resource,
			Type: "location",
		},
		Description: "authorization denied for " + action + " on " + resource,
		Metadata: mustJSON(map[string]string{
			"resource":         resource,
			"requested_action": action,
		}),
		RequestID: getRequestID(ctx),
	})
}

// LogConfigChange logs a configuration reload or admin-triggered change.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogConfigChange(ctx context.Context, actor Actor, source Source, configKey, oldValue, newValue string) {
	l.Log(&Event{
		Type:     EventTypeConfigChanged,
		Severity: SeverityWarning,
		Outcome:  OutcomeSuccess,
		Actor:    actor,
		Source:   source,
		Action:   "update",
		Target: &Target{
			ID:   configKey,
			Type: "config",
		},
		Description: "configuration changed: " + configKey,
		Metadata: mustJSON(map[string]string{
			"key":       configKey,
			"old_value": oldValue,
			"new_value": newValue,
		}),
		RequestID: getRequestID(ctx),
	})
}

// LogAdminAction logs a request through an "@SYSTEM"-gated endpoint.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogAdminAction(ctx context.Context, actor Actor, source Source, action, description string, metadata map[string]interface{}) {
	l.Log(&Event{
		Type:        EventTypeAdminAction,
		Severity:    SeverityWarning,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Action:      action,
		Description: description,
		Metadata:    mustJSON(metadata),
		RequestID:   getRequestID(ctx),
	})
}

// mustJSON converts v to JSON, returning an empty object on error.
func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

func getRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

type contextKey string

// RequestIDKey is the context key carrying the originating HTTP
// request's ID, set by internal/middleware.RequestID.
const RequestIDKey contextKey = "request_id"

// SourceFromRequest builds a Source from an inbound HTTP request.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip = xff
	} else if xri := r.Header.Get("X-Real-IP"); xri != "" {
		ip = xri
	}

	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		Hostname:  r.Host,
	}
}

// ActorFromUser builds an Actor from resolved user information.
func ActorFromUser(id, name string, roles []string, authMethod, sessionID string) Actor {
	return Actor{
		ID:         id,
		Type:       "user",
		Name:       name,
		Roles:      roles,
		AuthMethod: authMethod,
		SessionID:  sessionID,
	}
}

// SystemActor returns an Actor representing printd itself, for events
// with no requesting user (startup, config reload, scheduled sweeps).
func SystemActor() Actor {
	return Actor{
		ID:   "system",
		Type: "system",
		Name: "printd",
	}
}
