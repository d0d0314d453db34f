package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	audit "sepacheck/pkg/platform/audit"
	txcontext "sepacheck/pkg/platform/tx"
)

// Store implements audit.Store on the validation_audit table.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `
	SELECT id, occurred_at, action, report_id, request_id, schema_version,
		   valid, field_count, invalid_fields, missing_fields, client_ip
	FROM validation_audit`

// Append inserts an event. It joins a transaction carried by ctx and is
// idempotent on the event ID.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO validation_audit (
			id, occurred_at, action, report_id, request_id, schema_version,
			valid, field_count, invalid_fields, missing_fields, client_ip
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := txcontext.ExecutorFor(ctx, s.db).ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.Action),
		event.ReportID,
		event.RequestID,
		event.Version,
		event.Valid,
		event.FieldCount,
		pq.Array(nonNil(event.Invalid)),
		pq.Array(nonNil(event.Missing)),
		event.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByReport returns events for one report, oldest first.
func (s *Store) ListByReport(ctx context.Context, reportID string) ([]audit.Event, error) {
	rows, err := txcontext.ExecutorFor(ctx, s.db).QueryContext(ctx,
		selectColumns+` WHERE report_id = $1 ORDER BY occurred_at ASC, id ASC`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := txcontext.ExecutorFor(ctx, s.db).QueryContext(ctx,
		selectColumns+` ORDER BY occurred_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event  audit.Event
			action string
		)
		err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&action,
			&event.ReportID,
			&event.RequestID,
			&event.Version,
			&event.Valid,
			&event.FieldCount,
			pq.Array(&event.Invalid),
			pq.Array(&event.Missing),
			&event.ClientIP,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = audit.Action(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
