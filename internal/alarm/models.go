package alarm

import "time"

// Event is an immutable, append-only operational alarm record.
//
// Invariants:
// - Events are never updated or deleted.
// - facility_id is required; an alarm always points at one installation.
type Event struct {
	ID         string `json:"id"`
	FacilityID int64  `json:"facilityId"`

	Type     EventType `json:"type"`
	Severity Severity  `json:"severity"`

	// Message is a short human-readable description for the operator feed.
	Message string `json:"message"`

	// Metadata is optional JSON with sensor context.
	Metadata string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type EventType string

const (
	EventTypeStackFault   EventType = "stack_fault"
	EventTypePowerDropout EventType = "power_dropout"
	EventTypePriceSpike   EventType = "price_spike"
	EventTypeMaintenance  EventType = "maintenance"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)
