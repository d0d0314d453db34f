package ports

import (
	"context"

	"sepacheck/internal/validation/models"
	"sepacheck/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// ReportStore persists validation reports. Get returns sentinel.ErrNotFound
// for unknown or expired reports.
type ReportStore interface {
	Save(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
}

// AuditPublisher emits audit events. The validation service never fails a
// request because of an audit error.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
