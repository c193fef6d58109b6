// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package metrics provides Prometheus instrumentation for the
authorization orchestrator, credential verification, and the MD5
password file reader.

# Metrics Endpoint

When Metrics.Enabled is set in the configuration, metrics are exposed
in Prometheus text format at the /metrics endpoint of the main HTTP
listener (default :631):

	curl http://localhost:631/metrics

# Available Metrics

Authorization:
  - printd_authz_decisions_total: decisions by outcome (counter)
  - printd_authz_decision_duration_seconds: is_authorized latency (histogram)

Credential verification:
  - printd_credential_verifications_total: attempts by scheme and outcome (counter)
  - printd_credential_verification_duration_seconds: verification latency (histogram)

Circuit breaker:
  - printd_breaker_state_transitions_total: breaker state changes (counter)

Throttle:
  - printd_throttle_rejections_total: rate-limited attempts (counter)

MD5 password file:
  - printd_md5_file_reads_total: reads by outcome (counter)
  - printd_md5_file_read_duration_seconds: read latency (histogram)

Audit:
  - printd_audit_write_errors_total: failed event persistence attempts (counter)

Location table:
  - printd_location_table_size: configured location count (gauge)

# Usage

Record an authorization decision from the Observer implementation that
wires the orchestrator to this package:

	metrics.RecordAuthzDecision(decision.String(), time.Since(start))
*/
package metrics
