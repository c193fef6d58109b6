// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential verifies presented Basic/Digest/BasicDigest
// credentials against the pluggable host authentication service or the
// local passwd/shadow and MD5 stores.
package credential

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/opnprint/printd/internal/logging"
)

// Outcome is the result of a Basic-credential authentication attempt.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeDenied
	OutcomeError
)

// Authenticator is the pluggable Basic-authentication trait;
// pluggable-host and crypt+shadow are its two concrete forms (AIX
// usersec.h emulation is explicitly not reproduced here).
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Outcome, error)
}

// ErrHostUnavailable is returned when the pluggable authentication host
// cannot be reached at all (distinct from a credential rejection).
var ErrHostUnavailable = errors.New("credential: pluggable authentication host unavailable")

// ConversationCallback answers the pluggable host's PAM-like prompts:
// echo-on prompts receive the username, echo-off prompts the password.
type ConversationCallback func(prompt string, echo bool) (string, error)

// PluggableHost is the injected pluggable authentication host:
// start/authenticate/account-check/end lifecycle.
type PluggableHost interface {
	Start(ctx context.Context, username string) error
	Authenticate(ctx context.Context, converse ConversationCallback) error
	AccountCheck(ctx context.Context, username string) error
	End(ctx context.Context)
}

// HostAuthenticator drives a PluggableHost's full lifecycle for one
// Basic credential, guarded by a circuit breaker so a wedged host
// cannot stall every request indefinitely.
type HostAuthenticator struct {
	host    PluggableHost
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// HostAuthenticatorConfig tunes the circuit breaker wrapping the
// pluggable host dialogue.
type HostAuthenticatorConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultHostAuthenticatorConfig returns conservative defaults.
func DefaultHostAuthenticatorConfig() HostAuthenticatorConfig {
	return HostAuthenticatorConfig{
		Name:             "pluggable-auth-host",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 5,
	}
}

// NewHostAuthenticator wraps host with a circuit breaker per cfg.
func NewHostAuthenticator(host PluggableHost, cfg HostAuthenticatorConfig) *HostAuthenticator {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("credential: pluggable auth host breaker state change")
		},
	}
	return &HostAuthenticator{host: host, breaker: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Authenticate implements Authenticator. A start failure, a breaker
// trip, or a host dialogue error all fail closed (Unauthorized), never
// OK.
func (a *HostAuthenticator) Authenticate(ctx context.Context, username, password string) (Outcome, error) {
	_, err := a.breaker.Execute(func() (struct{}, error) {
		if startErr := a.host.Start(ctx, username); startErr != nil {
			return struct{}{}, startErr
		}
		defer a.host.End(ctx)

		converse := func(prompt string, echo bool) (string, error) {
			if echo {
				return username, nil
			}
			return password, nil
		}
		if authErr := a.host.Authenticate(ctx, converse); authErr != nil {
			return struct{}{}, authErr
		}
		return struct{}{}, a.host.AccountCheck(ctx, username)
	})
	if err == nil {
		return OutcomeOK, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return OutcomeError, ErrHostUnavailable
	}
	return OutcomeDenied, nil
}
