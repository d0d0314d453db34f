package models

import (
	"time"

	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/sepa/field"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
)

// RequiredKeys selects which required-key set a record is checked against.
type RequiredKeys string

const (
	RequiredNone       RequiredKeys = ""
	RequiredCollection RequiredKeys = "collection"
	RequiredPayment    RequiredKeys = "payment"
)

// ParseRequiredKeys accepts "", "collection" or "payment".
func ParseRequiredKeys(s string) (RequiredKeys, error) {
	switch r := RequiredKeys(s); r {
	case RequiredNone, RequiredCollection, RequiredPayment:
		return r, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "required must be %q or %q", RequiredCollection, RequiredPayment)
	}
}

// Report is the stored outcome of validating one record.
// Invariant: Valid is true iff Invalid and Missing are both empty.
type Report struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Version   schema.Version `json:"version,omitempty"`
	Required  RequiredKeys   `json:"required,omitempty"`
	Valid     bool           `json:"valid"`
	Values    field.Record   `json:"values"`
	Invalid   []string       `json:"invalid"`
	Missing   []string       `json:"missing"`
}

// FieldRequest asks for one field value to be checked.
// A nil Flags means the service default.
type FieldRequest struct {
	Field    string
	Value    field.Value
	Version  schema.Version
	Flags    *translit.Flags
	Sanitize bool
	Options  field.Options
}

// FieldResult is the outcome of a single field check. Value is set only when
// Valid; Reason only when not.
type FieldResult struct {
	Field     string
	Kind      field.Kind
	Valid     bool
	Sanitized bool
	Value     field.Value
	Reason    string
}

// RecordRequest asks for one record to be validated and stored.
type RecordRequest struct {
	Fields   field.Record
	Version  schema.Version
	Flags    *translit.Flags
	Required RequiredKeys
	Options  field.Options
}

// BatchRequest validates several records under shared settings.
type BatchRequest struct {
	Records  []field.Record
	Version  schema.Version
	Flags    *translit.Flags
	Required RequiredKeys
	Options  field.Options
}

// Record returns the per-record request for the i-th record.
func (b BatchRequest) Record(i int) RecordRequest {
	return RecordRequest{
		Fields:   b.Records[i],
		Version:  b.Version,
		Flags:    b.Flags,
		Required: b.Required,
		Options:  b.Options,
	}
}
