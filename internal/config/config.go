// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the daemon's process-wide configuration: server
// identity, the location table, and the ambient subsystems (logging,
// metrics, audit, pluggable-auth breaker, throttling). The parsing of
// configuration files that populate the location table is treated as
// an external collaborator elsewhere; this package is that
// collaborator made concrete.
package config

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/opnprint/printd/internal/credential"
	"github.com/opnprint/printd/internal/logging"
)

// Config is the full, immutable-once-loaded daemon configuration.
type Config struct {
	ServerName      string   `koanf:"server_name" validate:"required,hostname_rfc1123"`
	DefaultAuthType string   `koanf:"default_auth_type" validate:"omitempty,oneof=none basic digest basic-digest"`
	SystemGroups    []string `koanf:"system_groups"`
	RootUsername    string   `koanf:"root_username"`
	PasswordMD5Path string   `koanf:"password_md5_path"`

	Locations []LocationConfig `koanf:"locations" validate:"dive"`

	PluggableAuth PluggableAuthConfig `koanf:"pluggable_auth"`
	Breaker       BreakerConfig       `koanf:"breaker"`
	Throttle      ThrottleConfig      `koanf:"throttle"`
	Logging       LoggingConfig       `koanf:"logging"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Audit         AuditConfig         `koanf:"audit"`
	HTTP          HTTPConfig          `koanf:"http"`
}

// PluggableAuthConfig selects the Basic-authentication backend: the
// external pluggable host or the local crypt/shadow fallback.
type PluggableAuthConfig struct {
	// Kind is "host" (external pluggable authentication host) or
	// "crypt" (local passwd/shadow + MD5-crypt/bcrypt fallback).
	Kind string `koanf:"kind" validate:"omitempty,oneof=host crypt"`
}

// BreakerConfig tunes the circuit breaker wrapping pluggable-host
// dialogue.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// ThrottleConfig tunes failed-credential throttling, applied outside
// the orchestrator's own logic.
type ThrottleConfig struct {
	Enabled         bool          `koanf:"enabled"`
	AttemptsPerIdle time.Duration `koanf:"attempts_per_idle"`
	Burst           int           `koanf:"burst"`
	Idle            time.Duration `koanf:"idle"`
}

// ToCredentialThrottleConfig converts to internal/credential.ThrottleConfig.
// AttemptsPerIdle is the sustained interval between permitted attempts
// (rate.Every's argument), not a count.
func (c ThrottleConfig) ToCredentialThrottleConfig() credential.ThrottleConfig {
	cfg := credential.DefaultThrottleConfig()
	if c.AttemptsPerIdle > 0 {
		cfg.Rate = rate.Every(c.AttemptsPerIdle)
	}
	if c.Burst > 0 {
		cfg.Burst = c.Burst
	}
	if c.Idle > 0 {
		cfg.Idle = c.Idle
	}
	return cfg
}

// LoggingConfig mirrors internal/logging.Config for koanf unmarshaling.
type LoggingConfig struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// ToLoggingConfig converts to internal/logging.Config.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format, Caller: l.Caller, Timestamp: l.Timestamp}
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`
}

// AuditConfig controls the durable audit trail.
type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	DBPath  string `koanf:"db_path"`
}

// HTTPConfig controls the HTTP demonstration layer.
type HTTPConfig struct {
	Listen           string   `koanf:"listen"`
	CORSOrigins      []string `koanf:"cors_origins"`
	RateLimitPerMin  int      `koanf:"rate_limit_per_min"`
	EnableSwagger    bool     `koanf:"enable_swagger"`
}

// ToHostAuthenticatorConfig converts to internal/credential.HostAuthenticatorConfig.
func (c BreakerConfig) ToHostAuthenticatorConfig(name string) credential.HostAuthenticatorConfig {
	cfg := credential.DefaultHostAuthenticatorConfig()
	cfg.Name = name
	if c.MaxRequests > 0 {
		cfg.MaxRequests = c.MaxRequests
	}
	if c.Interval > 0 {
		cfg.Interval = c.Interval
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.FailureThreshold > 0 {
		cfg.FailureThreshold = c.FailureThreshold
	}
	return cfg
}
