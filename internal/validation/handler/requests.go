package handler

import (
	"strings"

	"sepacheck/internal/validation/models"
	dErrors "sepacheck/pkg/domain-errors"
	platformstrings "sepacheck/pkg/platform/strings"
	"sepacheck/pkg/sepa/field"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
)

const maxFieldNameLength = 64

// settings are the request-level knobs shared by every validation endpoint.
type settings struct {
	Version  string        `json:"version"`
	Flags    []string      `json:"flags"`
	Options  field.Options `json:"options"`
	version  schema.Version
	flags    *translit.Flags
	required models.RequiredKeys
}

// parse resolves version and flags. Flags stay nil when the request sends
// none so the service default applies.
func (s *settings) parse() error {
	v, err := schema.ParseVersion(s.Version)
	if err != nil {
		return err
	}
	s.version = v

	if s.Flags != nil {
		f, err := translit.ParseFlags(platformstrings.DedupeAndTrimLower(s.Flags)...)
		if err != nil {
			return err
		}
		s.flags = &f
	}
	return nil
}

func (s *settings) parseRequired(raw string) error {
	required, err := models.ParseRequiredKeys(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return err
	}
	s.required = required
	return nil
}

// CheckFieldRequest is the body of POST /v1/fields/check.
type CheckFieldRequest struct {
	settings
	Field    string      `json:"field"`
	Value    field.Value `json:"value"`
	Sanitize bool        `json:"sanitize"`
}

// Validate implements httputil.Validatable.
func (r *CheckFieldRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Field = strings.TrimSpace(r.Field)
	if r.Field == "" {
		return dErrors.New(dErrors.CodeValidation, "field is required")
	}
	if len(r.Field) > maxFieldNameLength {
		return dErrors.Newf(dErrors.CodeValidation, "field must be at most %d characters", maxFieldNameLength)
	}
	return r.parse()
}

func (r *CheckFieldRequest) ToModel() models.FieldRequest {
	return models.FieldRequest{
		Field:    r.Field,
		Value:    r.Value,
		Version:  r.version,
		Flags:    r.flags,
		Sanitize: r.Sanitize,
		Options:  r.Options,
	}
}

// ValidateRecordRequest is the body of POST /v1/records/validate.
type ValidateRecordRequest struct {
	settings
	Fields   field.Record `json:"fields"`
	Required string       `json:"required"`
}

// Validate implements httputil.Validatable.
func (r *ValidateRecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "fields is required")
	}
	if err := r.parseRequired(r.Required); err != nil {
		return err
	}
	return r.parse()
}

func (r *ValidateRecordRequest) ToModel() models.RecordRequest {
	return models.RecordRequest{
		Fields:   r.Fields,
		Version:  r.version,
		Flags:    r.flags,
		Required: r.required,
		Options:  r.Options,
	}
}

// ValidateBatchRequest is the body of POST /v1/records/batch. The batch size
// limit is enforced by the service.
type ValidateBatchRequest struct {
	settings
	Records  []field.Record `json:"records"`
	Required string         `json:"required"`
}

// Validate implements httputil.Validatable.
func (r *ValidateBatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Records) == 0 {
		return dErrors.New(dErrors.CodeValidation, "records is required")
	}
	if err := r.parseRequired(r.Required); err != nil {
		return err
	}
	return r.parse()
}

func (r *ValidateBatchRequest) ToModel() models.BatchRequest {
	return models.BatchRequest{
		Records:  r.Records,
		Version:  r.version,
		Flags:    r.flags,
		Required: r.required,
		Options:  r.Options,
	}
}
