// Package service runs field and record validation for the HTTP layer,
// stores the resulting reports and emits the audit trail.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"sepacheck/internal/validation/metrics"
	"sepacheck/internal/validation/ports"
	"sepacheck/pkg/requestcontext"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
)

// Type aliases for interfaces from ports package.
type (
	ReportStore    = ports.ReportStore
	AuditPublisher = ports.AuditPublisher
)

const (
	defaultBatchConcurrency = 8
	// MaxBatchRecords bounds a single batch request.
	MaxBatchRecords = 1000
)

type Service struct {
	reports          ReportStore
	auditPublisher   AuditPublisher
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	clock            func() time.Time
	batchConcurrency int
	defaultVersion   schema.Version
	defaultFlags     translit.Flags
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithClock fixes report timestamps. Without it the request time from the
// context is used.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.clock = now
	}
}

// WithBatchConcurrency bounds the records validated in parallel per batch.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithDefaults sets the version and sanitize flags used when a request
// carries neither.
func WithDefaults(version schema.Version, flags translit.Flags) Option {
	return func(s *Service) {
		s.defaultVersion = version
		s.defaultFlags = flags
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func New(reports ReportStore, opts ...Option) (*Service, error) {
	if reports == nil {
		return nil, errors.New("report store is required")
	}

	svc := &Service{
		reports:          reports,
		logger:           slog.Default(),
		tracer:           otel.Tracer("sepacheck/validation"),
		batchConcurrency: defaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc, nil
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

// resolveVersion picks the request version, then the version header carried
// in the context, then the configured default.
func (s *Service) resolveVersion(ctx context.Context, v schema.Version) schema.Version {
	if !v.IsNil() {
		return v
	}
	if fromHeader := requestcontext.SchemaVersion(ctx); !fromHeader.IsNil() {
		return fromHeader
	}
	return s.defaultVersion
}

func (s *Service) resolveFlags(flags *translit.Flags) translit.Flags {
	if flags != nil {
		return *flags
	}
	return s.defaultFlags
}
