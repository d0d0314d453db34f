package store

import (
	"context"
	"errors"
	"log/slog"

	"sepacheck/internal/validation/models"
	"sepacheck/internal/validation/ports"
	"sepacheck/pkg/platform/circuit"
	"sepacheck/pkg/platform/sentinel"
)

// FallbackReportStore writes to a primary store, usually Redis, and switches
// to an in-process store when the primary fails. Reports written during an
// outage stay readable from the instance that wrote them.
type FallbackReportStore struct {
	primary  ports.ReportStore
	fallback ports.ReportStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackReportStore(primary, fallback ports.ReportStore, breaker *circuit.Breaker, logger *slog.Logger) *FallbackReportStore {
	if breaker == nil {
		breaker = circuit.New("report-store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackReportStore{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

// Degraded reports whether the circuit is open.
func (s *FallbackReportStore) Degraded() bool {
	return s.breaker.IsOpen()
}

func (s *FallbackReportStore) Save(ctx context.Context, report *models.Report) error {
	if s.breaker.Allow() {
		err := s.primary.Save(ctx, report)
		if err == nil {
			s.recordSuccess(ctx)
			return nil
		}
		s.recordFailure(ctx, err)
	}
	return s.fallback.Save(ctx, report)
}

func (s *FallbackReportStore) Get(ctx context.Context, id string) (*models.Report, error) {
	if s.breaker.Allow() {
		report, err := s.primary.Get(ctx, id)
		switch {
		case err == nil:
			s.recordSuccess(ctx)
			return report, nil
		case errors.Is(err, sentinel.ErrNotFound):
			s.recordSuccess(ctx)
		default:
			s.recordFailure(ctx, err)
		}
	}
	return s.fallback.Get(ctx, id)
}

func (s *FallbackReportStore) recordFailure(ctx context.Context, err error) {
	_, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "report store circuit opened, using in-memory fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
		return
	}
	s.logger.DebugContext(ctx, "report store primary failed", "error", err)
}

func (s *FallbackReportStore) recordSuccess(ctx context.Context) {
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "report store circuit closed, primary restored",
			"breaker", s.breaker.Name(),
		)
	}
}
