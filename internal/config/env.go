// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "strings"

// envPrefixes maps an environment variable's lower-cased suffix prefix
// (after stripping "PRINTD_") to the koanf dotted path of the nested
// config block it belongs to.
var envPrefixes = []string{
	"logging_", "metrics_", "audit_", "http_", "breaker_", "throttle_", "pluggable_auth_",
}

// topLevelEnvMap converts e.g. "LOGGING_LEVEL" to "logging.level" and
// "SERVER_NAME" (no known nested prefix) to "server_name".
func topLevelEnvMap(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range envPrefixes {
		if strings.HasPrefix(lower, prefix) {
			block := strings.TrimSuffix(prefix, "_")
			return block + "." + strings.TrimPrefix(lower, prefix)
		}
	}
	return lower
}
