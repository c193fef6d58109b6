// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the authorization orchestrator,
// credential verification, and the MD5 password file reader.

var (
	// AuthzDecisions counts every is_authorized outcome.
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printd_authz_decisions_total",
			Help: "Total number of authorization decisions by outcome",
		},
		[]string{"decision"}, // ok, unauthorized, forbidden, upgrade_required
	)

	// AuthzDecisionDuration measures is_authorized latency.
	AuthzDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printd_authz_decision_duration_seconds",
			Help:    "Duration of is_authorized evaluations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"decision"},
	)

	// CredentialVerifications counts Verifier.Verify calls by scheme and result.
	CredentialVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printd_credential_verifications_total",
			Help: "Total number of credential verification attempts",
		},
		[]string{"scheme", "outcome"}, // basic|digest|basic-digest, ok|denied|error
	)

	// CredentialVerificationDuration measures Verifier.Verify latency.
	CredentialVerificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printd_credential_verification_duration_seconds",
			Help:    "Duration of credential verification attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scheme"},
	)

	// BreakerStateTransitions counts gobreaker state changes for host
	// authenticators.
	BreakerStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printd_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"breaker", "from", "to"},
	)

	// ThrottleRejections counts requests denied by a credential Throttle.
	ThrottleRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printd_throttle_rejections_total",
			Help: "Total number of authentication attempts rejected by rate limiting",
		},
		[]string{"subject_kind"}, // username, host
	)

	// MD5FileReads counts MD5 password file reads by result.
	MD5FileReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printd_md5_file_reads_total",
			Help: "Total number of MD5 password file read attempts",
		},
		[]string{"outcome"}, // ok, error
	)

	// MD5FileReadDuration measures MD5 password file read latency.
	MD5FileReadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "printd_md5_file_read_duration_seconds",
			Help:    "Duration of MD5 password file reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AuditWriteErrors counts failures persisting an audit event.
	AuditWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printd_audit_write_errors_total",
			Help: "Total number of audit event persistence failures",
		},
	)

	// LocationTableSize tracks the number of configured locations.
	LocationTableSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "printd_location_table_size",
			Help: "Current number of entries in the location table",
		},
	)

	// APIRequestsTotal counts HTTP requests served by the demo API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printd_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// APIRequestDuration measures HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printd_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIActiveRequests tracks requests currently being served.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "printd_api_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)
)

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordAPIRequest records an HTTP request's outcome and latency.
func RecordAPIRequest(method, path, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAuthzDecision records an is_authorized outcome and its latency.
func RecordAuthzDecision(decision string, duration time.Duration) {
	AuthzDecisions.WithLabelValues(decision).Inc()
	AuthzDecisionDuration.WithLabelValues(decision).Observe(duration.Seconds())
}

// RecordCredentialVerification records a Verifier.Verify attempt.
func RecordCredentialVerification(scheme, outcome string, duration time.Duration) {
	CredentialVerifications.WithLabelValues(scheme, outcome).Inc()
	CredentialVerificationDuration.WithLabelValues(scheme).Observe(duration.Seconds())
}

// RecordBreakerStateTransition records a circuit breaker transition.
func RecordBreakerStateTransition(breaker, from, to string) {
	BreakerStateTransitions.WithLabelValues(breaker, from, to).Inc()
}

// RecordThrottleRejection records a rate-limited authentication attempt.
func RecordThrottleRejection(subjectKind string) {
	ThrottleRejections.WithLabelValues(subjectKind).Inc()
}

// RecordMD5FileRead records an MD5 password file read attempt.
func RecordMD5FileRead(err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	MD5FileReads.WithLabelValues(outcome).Inc()
	MD5FileReadDuration.Observe(duration.Seconds())
}

// RecordAuditWriteError records a failure to persist an audit event.
func RecordAuditWriteError() {
	AuditWriteErrors.Inc()
}

// SetLocationTableSize sets the current location table size gauge.
func SetLocationTableSize(n int) {
	LocationTableSize.Set(float64(n))
}
