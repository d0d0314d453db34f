package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and sampling.
type EventCategory string

const (
	// CategoryCompliance covers record level outcomes that back a payment
	// file. These are never sampled.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers single field checks, useful for usage
	// statistics. These can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Action names what was validated.
type Action string

const (
	ActionRecordValidated Action = "record_validated"
	ActionBatchValidated  Action = "batch_validated"
	ActionFieldChecked    Action = "field_checked"
)

var actionCategories = map[Action]EventCategory{
	ActionRecordValidated: CategoryCompliance,
	ActionBatchValidated:  CategoryCompliance,
	ActionFieldChecked:    CategoryOperations,
}

// Category returns the EventCategory for this action.
// Unknown actions default to CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted by the validation service after each run. It never carries
// field values, only field names, so account data stays out of the trail.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	ReportID   string    `json:"report_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Version    string    `json:"version,omitempty"`
	Valid      bool      `json:"valid"`
	FieldCount int       `json:"field_count"`
	Invalid    []string  `json:"invalid,omitempty"`
	Missing    []string  `json:"missing,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
}

// Category derives the category from the action.
func (e Event) Category() EventCategory {
	return e.Action.Category()
}

// Sink receives events. Sinks may be remote and fail.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a Sink that can also be queried.
type Store interface {
	Sink
	ListByReport(ctx context.Context, reportID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
