// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleConfig tunes the failed-credential throttle. Rate-limiting is
// deliberately kept out of the orchestrator's own semantics; this
// decorator lives outside the core and is wired in only by the
// daemon's HTTP layer.
type ThrottleConfig struct {
	// Rate is the sustained rate of permitted attempts per subject.
	Rate rate.Limit
	// Burst is the number of attempts allowed before Rate kicks in.
	Burst int
	// Idle is how long a subject's bucket is kept after its last attempt.
	Idle time.Duration
}

// DefaultThrottleConfig permits one attempt per two seconds with a
// burst of three, per subject.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{Rate: rate.Every(2 * time.Second), Burst: 3, Idle: 10 * time.Minute}
}

type bucket struct {
	limiter *rate.Limiter
	touched time.Time
}

// Throttle wraps an Authenticator and denies authentication attempts
// once a subject (typically "user:<name>" or "ip:<addr>") exceeds its
// configured rate, without ever reporting OutcomeOK itself.
type Throttle struct {
	inner Authenticator
	cfg   ThrottleConfig

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewThrottle wraps inner with subject-keyed rate limiting per cfg.
func NewThrottle(inner Authenticator, cfg ThrottleConfig) *Throttle {
	return &Throttle{inner: inner, cfg: cfg, buckets: make(map[string]*bucket)}
}

// Allow reports whether subject may attempt authentication right now,
// consuming one token if so. Callers check this before invoking the
// wrapped Authenticator.
func (t *Throttle) Allow(subject string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[subject]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.cfg.Rate, t.cfg.Burst)}
		t.buckets[subject] = b
	}
	b.touched = time.Now()
	return b.limiter.Allow()
}

// Sweep removes buckets idle longer than cfg.Idle; callers run this
// periodically (e.g. from a supervised background task) to bound
// memory use.
func (t *Throttle) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-t.cfg.Idle)
	for subject, b := range t.buckets {
		if b.touched.Before(cutoff) {
			delete(t.buckets, subject)
			removed++
		}
	}
	return removed
}

// Authenticate implements Authenticator, delegating to inner. Throttle
// decisions are made via Allow, kept separate so callers can reject
// with a throttling-specific outcome distinct from OutcomeDenied.
func (t *Throttle) Authenticate(ctx context.Context, username, password string) (Outcome, error) {
	return t.inner.Authenticate(ctx, username, password)
}
