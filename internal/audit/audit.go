// Package audit records an append-only trail of assessment and attestation
// activity. Events are published asynchronously so the request path never
// blocks on the audit sink.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit trail.
const (
	ActionAssessmentSubmitted   = "assessment.submitted"
	ActionReportPinned          = "report.pinned"
	ActionAttestationRegistered = "attestation.registered"
	ActionAttestationVerified   = "attestation.verified"
)

// Event is a single audit record. ID and Timestamp are assigned by the
// publisher.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Company     string    `json:"company,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	CID         string    `json:"cid,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
	ClientAgent string    `json:"client_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
