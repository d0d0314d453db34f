package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sepacheck/internal/validation/metrics"
	"sepacheck/internal/validation/models"
	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/platform/audit"
	"sepacheck/pkg/platform/sentinel"
	"sepacheck/pkg/sepa/field"
)

// CheckField validates one value. A rejected value is a normal result with
// Valid false and a reason; only an unknown field name is an error.
func (s *Service) CheckField(ctx context.Context, req models.FieldRequest) (*models.FieldResult, error) {
	kind, err := field.ParseKind(req.Field)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	opts.Version = s.resolveVersion(ctx, req.Version)

	result := &models.FieldResult{Field: req.Field, Kind: kind}
	outcome := metrics.OutcomeValid

	checked, checkErr := field.Check(kind, req.Value, opts)
	switch {
	case checkErr == nil:
		result.Valid = true
		result.Value = checked
		if !checked.Equal(req.Value) {
			outcome = metrics.OutcomeNormalized
		}
	case req.Sanitize && kind.Sanitizable():
		sanitized, sanErr := field.Sanitize(kind, req.Value, s.resolveFlags(req.Flags))
		if sanErr != nil {
			result.Reason = reasonOf(sanErr)
			outcome = metrics.OutcomeInvalid
			break
		}
		result.Valid = true
		result.Sanitized = true
		result.Value = sanitized
		outcome = metrics.OutcomeSanitized
	default:
		result.Reason = reasonOf(checkErr)
		outcome = metrics.OutcomeInvalid
	}

	s.metrics.IncrementFieldCheck(kind.String(), outcome)

	event := audit.Event{
		Action:     audit.ActionFieldChecked,
		Version:    string(opts.Version),
		Valid:      result.Valid,
		FieldCount: 1,
	}
	if !result.Valid {
		event.Invalid = []string{req.Field}
	}
	s.emitAudit(ctx, event)

	return result, nil
}

// ValidateRecord checks and sanitizes every field of a record, optionally
// looks for the required keys of its version, and stores the report.
func (s *Service) ValidateRecord(ctx context.Context, req models.RecordRequest) (*models.Report, error) {
	ctx, span := s.tracer.Start(ctx, "validation.ValidateRecord",
		trace.WithAttributes(attribute.Int("sepa.field_count", len(req.Fields))))
	defer span.End()

	report, err := s.validateRecord(ctx, req, audit.ActionRecordValidated)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record validation failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("sepa.version", string(report.Version)),
		attribute.Bool("sepa.valid", report.Valid),
	)
	return report, nil
}

// ValidateBatch validates records concurrently. Reports keep the order of the
// input; the first failing record aborts the batch.
func (s *Service) ValidateBatch(ctx context.Context, req models.BatchRequest) ([]*models.Report, error) {
	switch n := len(req.Records); {
	case n == 0:
		return nil, dErrors.New(dErrors.CodeValidation, "records is required")
	case n > MaxBatchRecords:
		return nil, dErrors.Newf(dErrors.CodeValidation, "records must contain at most %d entries", MaxBatchRecords)
	}

	ctx, span := s.tracer.Start(ctx, "validation.ValidateBatch",
		trace.WithAttributes(attribute.Int("sepa.batch_size", len(req.Records))))
	defer span.End()
	s.metrics.ObserveBatchSize(len(req.Records))

	// one timestamp for the whole batch
	now := s.now(ctx)
	reports := make([]*models.Report, len(req.Records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i := range req.Records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.validateRecordAt(gctx, req.Record(i), audit.ActionBatchValidated, now)
			if err != nil {
				return recordError(i, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch validation failed")
		return nil, err
	}
	return reports, nil
}

// GetReport returns a stored report.
func (s *Service) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "report id is required")
	}
	report, err := s.reports.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
		return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "report store unavailable")
	}
	return report, nil
}

func (s *Service) validateRecord(ctx context.Context, req models.RecordRequest, action audit.Action) (*models.Report, error) {
	return s.validateRecordAt(ctx, req, action, s.now(ctx))
}

func (s *Service) validateRecordAt(ctx context.Context, req models.RecordRequest, action audit.Action, now time.Time) (*models.Report, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRecordLatency(time.Since(start)) }()

	report, err := s.buildReport(ctx, req, now)
	if err != nil {
		return nil, err
	}

	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.ErrorContext(ctx, "failed to store report",
			"report_id", report.ID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "report store unavailable")
	}
	s.metrics.IncrementReportsStored()
	s.metrics.IncrementRecord(report.Valid)

	s.emitAudit(ctx, audit.Event{
		Action:     action,
		ReportID:   report.ID,
		Version:    string(report.Version),
		Valid:      report.Valid,
		FieldCount: len(req.Fields),
		Invalid:    report.Invalid,
		Missing:    report.Missing,
	})
	return report, nil
}

func (s *Service) buildReport(ctx context.Context, req models.RecordRequest, now time.Time) (*models.Report, error) {
	if len(req.Fields) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "fields is required")
	}

	version := s.resolveVersion(ctx, req.Version)
	opts := req.Options
	opts.Version = version

	result := field.CheckAndSanitizeAll(req.Fields, s.resolveFlags(req.Flags), opts)

	missing := []string{}
	var err error
	switch req.Required {
	case models.RequiredCollection:
		missing, err = field.CheckRequiredCollectionKeys(req.Fields, version)
	case models.RequiredPayment:
		missing, err = field.CheckRequiredPaymentKeys(req.Fields, version)
	}
	if err != nil {
		return nil, err
	}

	s.observeFields(req.Fields, result)

	return &models.Report{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Version:   version,
		Required:  req.Required,
		Valid:     result.Valid() && len(missing) == 0,
		Values:    result.Values,
		Invalid:   result.Invalid,
		Missing:   missing,
	}, nil
}

func (s *Service) observeFields(in field.Record, result field.Report) {
	if s.metrics == nil {
		return
	}
	invalid := make(map[string]bool, len(result.Invalid))
	for _, name := range result.Invalid {
		invalid[name] = true
	}
	for name, v := range in {
		label := "unknown"
		if k, err := field.ParseKind(name); err == nil {
			label = k.String()
		}
		switch {
		case invalid[name]:
			s.metrics.IncrementFieldCheck(label, metrics.OutcomeInvalid)
		case v.Equal(result.Values[name]):
			s.metrics.IncrementFieldCheck(label, metrics.OutcomeValid)
		default:
			s.metrics.IncrementFieldCheck(label, metrics.OutcomeNormalized)
		}
	}
}

func reasonOf(err error) string {
	if de, ok := dErrors.As(err); ok {
		return de.Message
	}
	return err.Error()
}

func recordError(i int, err error) error {
	if de, ok := dErrors.As(err); ok {
		return &dErrors.Error{Code: de.Code, Message: fmt.Sprintf("record %d: %s", i, de.Message), Err: de.Err}
	}
	return fmt.Errorf("record %d: %w", i, err)
}
