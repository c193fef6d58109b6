// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opnprint/printd/internal/credential"
)

func TestLoadAppliesDefaultsWithNoFileOrEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.ServerName)
	assert.Equal(t, "basic", cfg.DefaultAuthType)
	assert.Equal(t, "root", cfg.RootUsername)
	assert.True(t, cfg.Throttle.Enabled)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printd.yaml")
	contents := "server_name: print.example\nsystem_groups:\n  - lp\n  - sys\nlocations:\n  - path: /admin\n    level: user\n    names:\n      - alice\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "print.example", cfg.ServerName)
	assert.Equal(t, []string{"lp", "sys"}, cfg.SystemGroups)
	require.Len(t, cfg.Locations, 1)
	assert.Equal(t, "/admin", cfg.Locations[0].Path)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_name: from-file\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PRINTD_SERVER_NAME", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ServerName)
}

func TestLoadRejectsInvalidLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locations:\n  - path: no-leading-slash\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	_, err := Load()
	assert.Error(t, err)
}

func TestThrottleConfigToCredentialThrottleConfigAppliesOverrides(t *testing.T) {
	cfg := ThrottleConfig{AttemptsPerIdle: 5 * time.Second, Burst: 7, Idle: time.Minute}
	credCfg := cfg.ToCredentialThrottleConfig()
	assert.Equal(t, 7, credCfg.Burst)
	assert.Equal(t, time.Minute, credCfg.Idle)
}

func TestThrottleConfigToCredentialThrottleConfigUsesDefaultsWhenZero(t *testing.T) {
	credCfg := ThrottleConfig{}.ToCredentialThrottleConfig()
	assert.Equal(t, credential.DefaultThrottleConfig().Burst, credCfg.Burst)
}

func TestEnvKeyTransformNestsKnownPrefixes(t *testing.T) {
	assert.Equal(t, "logging.level", topLevelEnvMap("LOGGING_LEVEL"))
	assert.Equal(t, "http.listen", topLevelEnvMap("HTTP_LISTEN"))
	assert.Equal(t, "server_name", topLevelEnvMap("SERVER_NAME"))
}
