package domain

import "time"

// AnalyticsEvent is one append-only audit record. Events are write-only:
// nothing in the service reads them back.
type AnalyticsEvent struct {
	ID        string
	EventType string
	Payload   map[string]any
	CreatedAt time.Time
}

// Well-known event types emitted by the waitlist workflow. Clients may also
// post arbitrary event types through the analytics endpoint.
const (
	EventDemandSubmission   = "demand_submission"
	EventSupplySubmission   = "supply_submission"
	EventDemandApproved     = "demand_approved"
	EventSupplyApproved     = "supply_approved"
	EventPainPointSubmitted = "pain_point_submitted"
)
