// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"context"
	"time"

	"github.com/opnprint/printd/internal/authz"
	"github.com/opnprint/printd/internal/metrics"
)

// AuthzObserver adapts authz.Observer onto a Logger, feeding it one
// Event per is_authorized call (buffered and sampled the same as any
// other Logger producer) and recording the matching decision metric.
type AuthzObserver struct {
	logger *Logger
}

// NewAuthzObserver returns an Observer that logs every decision
// through logger.
func NewAuthzObserver(logger *Logger) *AuthzObserver {
	return &AuthzObserver{logger: logger}
}

// Observe implements authz.Observer.
func (o *AuthzObserver) Observe(_ context.Context, result authz.DecisionResult) {
	start := time.Now()
	event := &Event{
		Timestamp: start,
		Type:      eventTypeForDecision(result.Decision),
		Severity:  severityForDecision(result.Decision),
		Outcome:   outcomeForDecision(result.Decision),
		Actor: Actor{
			ID:         result.Username,
			Type:       "user",
			Name:       result.Username,
			AuthMethod: "pluggable-auth",
		},
		Target: &Target{
			ID:   result.Path,
			Type: "location",
			Name: result.Path,
		},
		Source: Source{
			Hostname: result.Hostname,
		},
		Action:      result.Method,
		Description: result.Reason,
	}

	metrics.RecordAuthzDecision(result.Decision.String(), time.Since(start))

	o.logger.Log(event)
}

func eventTypeForDecision(d authz.Decision) EventType {
	switch d {
	case authz.DecisionOK:
		return EventTypeAuthzGranted
	case authz.DecisionUnauthorized:
		return EventTypeAuthzDenied
	case authz.DecisionForbidden:
		return EventTypeAuthzForbid
	case authz.DecisionUpgradeRequired:
		return EventTypeAuthzUpgrade
	default:
		return EventTypeAuthzDenied
	}
}

func severityForDecision(d authz.Decision) Severity {
	if d == authz.DecisionOK {
		return SeverityInfo
	}
	return SeverityWarning
}

func outcomeForDecision(d authz.Decision) Outcome {
	if d == authz.DecisionOK {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
