package handler

import (
	"time"

	"sepacheck/internal/validation/models"
	"sepacheck/pkg/platform/audit"
	"sepacheck/pkg/sepa/field"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/validator"
)

// FieldResponse is the HTTP response for POST /v1/fields/check.
type FieldResponse struct {
	Field     string       `json:"field"`
	Kind      string       `json:"kind"`
	Valid     bool         `json:"valid"`
	Sanitized bool         `json:"sanitized,omitempty"`
	Value     *field.Value `json:"value,omitempty"`
	Reason    string       `json:"reason,omitempty"`
}

// FromFieldResult converts a field check result to an HTTP response.
func FromFieldResult(result *models.FieldResult) *FieldResponse {
	resp := &FieldResponse{
		Field:     result.Field,
		Kind:      result.Kind.String(),
		Valid:     result.Valid,
		Sanitized: result.Sanitized,
		Reason:    result.Reason,
	}
	if result.Valid {
		v := result.Value
		resp.Value = &v
	}
	return resp
}

// ReportResponse is a stored validation report.
type ReportResponse struct {
	ReportID  string       `json:"report_id"`
	CreatedAt time.Time    `json:"created_at"`
	Version   string       `json:"version,omitempty"`
	Required  string       `json:"required,omitempty"`
	Valid     bool         `json:"valid"`
	Values    field.Record `json:"values"`
	Invalid   []string     `json:"invalid"`
	Missing   []string     `json:"missing"`
}

// FromReport converts a domain report to an HTTP response.
func FromReport(report *models.Report) *ReportResponse {
	resp := &ReportResponse{
		ReportID:  report.ID,
		CreatedAt: report.CreatedAt,
		Version:   string(report.Version),
		Required:  string(report.Required),
		Valid:     report.Valid,
		Values:    report.Values,
		Invalid:   report.Invalid,
		Missing:   report.Missing,
	}
	if resp.Values == nil {
		resp.Values = field.Record{}
	}
	if resp.Invalid == nil {
		resp.Invalid = []string{}
	}
	if resp.Missing == nil {
		resp.Missing = []string{}
	}
	return resp
}

// BatchResponse is the HTTP response for POST /v1/records/batch.
type BatchResponse struct {
	Reports      []*ReportResponse `json:"reports"`
	ValidCount   int               `json:"valid_count"`
	InvalidCount int               `json:"invalid_count"`
}

func FromReports(reports []*models.Report) *BatchResponse {
	resp := &BatchResponse{Reports: make([]*ReportResponse, 0, len(reports))}
	for _, r := range reports {
		resp.Reports = append(resp.Reports, FromReport(r))
		if r.Valid {
			resp.ValidCount++
		} else {
			resp.InvalidCount++
		}
	}
	return resp
}

type SettlementDayResponse struct {
	Date          string `json:"date"`
	SettlementDay bool   `json:"settlement_day"`
}

type DateResponse struct {
	Date string `json:"date"`
}

func formatDate(t time.Time) string {
	return t.Format(validator.DateLayout)
}

// VersionResponse describes one supported schema version.
type VersionResponse struct {
	Version         string   `json:"version"`
	Code            int      `json:"code"`
	MessageType     string   `json:"message_type"`
	TransactionType string   `json:"transaction_type"`
	CollectionKeys  []string `json:"collection_keys,omitempty"`
	PaymentKeys     []string `json:"payment_keys,omitempty"`
}

type VersionsResponse struct {
	Versions []VersionResponse `json:"versions"`
}

// FromVersions describes every version. Versions without a required-key set
// omit it.
func FromVersions(versions []schema.Version) *VersionsResponse {
	resp := &VersionsResponse{Versions: make([]VersionResponse, 0, len(versions))}
	for _, v := range versions {
		msgType, _ := v.MessageType()
		txType, _ := v.TransactionType()
		collection, _ := v.RequiredCollectionKeys()
		payment, _ := v.RequiredPaymentKeys()
		resp.Versions = append(resp.Versions, VersionResponse{
			Version:         string(v),
			Code:            v.Code(),
			MessageType:     msgType,
			TransactionType: string(txType),
			CollectionKeys:  collection,
			PaymentKeys:     payment,
		})
	}
	return resp
}

type AuditTrailResponse struct {
	ReportID string        `json:"report_id"`
	Events   []audit.Event `json:"events"`
}

func FromAuditEvents(reportID string, events []audit.Event) *AuditTrailResponse {
	if events == nil {
		events = []audit.Event{}
	}
	return &AuditTrailResponse{ReportID: reportID, Events: events}
}
