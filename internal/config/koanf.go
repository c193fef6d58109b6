// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/opnprint/printd/internal/validation"
)

// DefaultConfigPaths lists the paths searched for a config file, in
// priority order. The first one found is used.
var DefaultConfigPaths = []string{
	"printd.yaml",
	"printd.yml",
	"/etc/printd/printd.yaml",
	"/etc/printd/printd.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "PRINTD_CONFIG_PATH"

// defaultConfig returns baseline defaults, applied before the config
// file and environment layers.
func defaultConfig() *Config {
	return &Config{
		ServerName:      "localhost",
		DefaultAuthType: "basic",
		RootUsername:    "root",
		PasswordMD5Path: "/etc/printd/passwd.md5",
		PluggableAuth:   PluggableAuthConfig{Kind: "crypt"},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         30 * time.Second,
			Timeout:          15 * time.Second,
			FailureThreshold: 5,
		},
		Throttle: ThrottleConfig{
			Enabled:         true,
			AttemptsPerIdle: 2 * time.Second,
			Burst:           3,
			Idle:            10 * time.Minute,
		},
		Logging: LoggingConfig{Level: "info", Format: "json", Timestamp: true},
		Metrics: MetricsConfig{Enabled: true, Listen: ":9090"},
		Audit:   AuditConfig{Enabled: true, DBPath: "/var/lib/printd/audit"},
		HTTP:    HTTPConfig{Listen: ":631", RateLimitPerMin: 120},
	}
}

// Load applies, in increasing priority: built-in defaults, an optional
// YAML config file, then environment variables (prefixed "PRINTD_"),
// then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("PRINTD_", ".", envKeyTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validation.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	for i := range cfg.Locations {
		if _, err := cfg.Locations[i].Build(); err != nil {
			return nil, fmt.Errorf("config: validate: %w", err)
		}
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKeyTransform converts "PRINTD_SERVER_NAME" into "server_name" and
// "PRINTD_HTTP_LISTEN" into "http.listen", matching the nesting depth
// koanf struct tags use for top-level sub-config blocks.
func envKeyTransform(s string) string {
	return topLevelEnvMap(strings.TrimPrefix(s, "PRINTD_"))
}
