package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/twmb/franz-go/pkg/kgo"

	"sepacheck/internal/platform/config"
	"sepacheck/internal/platform/httpserver"
	"sepacheck/internal/platform/kafka"
	"sepacheck/internal/platform/logger"
	"sepacheck/internal/platform/metrics"
	"sepacheck/internal/platform/postgres"
	redisclient "sepacheck/internal/platform/redis"
	"sepacheck/internal/validation/handler"
	validationMetrics "sepacheck/internal/validation/metrics"
	"sepacheck/internal/validation/service"
	"sepacheck/internal/validation/store"
	"sepacheck/pkg/platform/audit"
	"sepacheck/pkg/platform/audit/publisher"
	kafkasink "sepacheck/pkg/platform/audit/publishers/kafka"
	auditmemory "sepacheck/pkg/platform/audit/store/memory"
	auditpostgres "sepacheck/pkg/platform/audit/store/postgres"
	"sepacheck/pkg/platform/circuit"
	"sepacheck/pkg/platform/httputil"
	"sepacheck/pkg/platform/middleware/metadata"
	"sepacheck/pkg/platform/middleware/request"
	"sepacheck/pkg/platform/middleware/requesttime"
	"sepacheck/pkg/platform/middleware/version"
)

// buildVersion is set with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("sepacheck stopped", "error", err)
		os.Exit(1)
	}
}

// infra holds the optional backends; nil fields are not configured.
type infra struct {
	redis *redisclient.Client
	db    *sql.DB
	kafka *kgo.Client
}

func (i *infra) close(log *slog.Logger) {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	backends, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.close(log)

	httpMetrics := metrics.New()
	httpMetrics.SetBuildInfo(buildVersion)

	reports := buildReportStore(ctx, cfg, backends, log)

	auditPublisher := buildAuditPublisher(cfg, backends, log)
	defer auditPublisher.Close()

	svc, err := service.New(reports,
		service.WithLogger(log),
		service.WithMetrics(validationMetrics.New()),
		service.WithAuditPublisher(auditPublisher),
		service.WithBatchConcurrency(cfg.Validation.BatchConcurrency),
		service.WithDefaults(cfg.Validation.DefaultVersion, cfg.Validation.SanitizeFlags),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(request.Recovery(log))
	router.Use(request.RequestID)
	router.Use(metadata.ClientMetadata)
	router.Use(requesttime.Middleware)
	router.Use(request.Logger(log))
	router.Use(request.Timeout(requestTimeout))
	router.Use(httpMetrics.Middleware)

	router.Get("/healthz", healthHandler(backends))
	router.Handle("/metrics", metrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(version.ExtractSchemaVersion(log))
		handler.New(svc, log, handler.WithAuditTrail(auditPublisher)).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting sepacheck",
			"addr", cfg.Addr,
			"env", cfg.Env,
			"version", buildVersion,
			"redis", backends.redis != nil,
			"postgres", backends.db != nil,
			"kafka", backends.kafka != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// connect opens the configured backends. Postgres migrations run here so
// the audit store can write on the first request.
func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	i := &infra{}
	var err error

	if i.redis, err = redisclient.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}

	if i.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		i.close(log)
		return nil, err
	}
	if i.db != nil {
		if err := postgres.Migrate(ctx, i.db); err != nil {
			i.close(log)
			return nil, err
		}
	}

	if i.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		i.close(log)
		return nil, err
	}
	if i.kafka != nil {
		if err := kafka.EnsureTopic(ctx, i.kafka, cfg.Kafka.AuditTopic, 3, 1); err != nil {
			log.Warn("could not ensure audit topic", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
	}
	return i, nil
}

// buildReportStore keeps reports in Redis when configured, falling back to
// process memory while Redis is unreachable.
func buildReportStore(ctx context.Context, cfg config.Server, i *infra, log *slog.Logger) service.ReportStore {
	memory := store.NewInMemoryReportStore(cfg.Validation.ReportTTL)
	go sweep(ctx, memory, log)

	if i.redis == nil {
		return memory
	}
	breaker := circuit.New("redis-report-store", circuit.WithCooldown(5*time.Second))
	return store.NewFallbackReportStore(
		store.NewRedisReportStore(i.redis.Client, cfg.Validation.ReportTTL),
		memory,
		breaker,
		log,
	)
}

func sweep(ctx context.Context, s *store.InMemoryReportStore, log *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Debug("swept expired reports", "count", n)
			}
		}
	}
}

func buildAuditPublisher(cfg config.Server, i *infra, log *slog.Logger) *publisher.Publisher {
	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if i.db != nil {
		auditStore = auditpostgres.New(i.db)
	}

	auditMetrics := publisher.NewMetrics()
	sampler := publisher.NewSampler(1)
	sampler.SetRate(audit.ActionFieldChecked, cfg.Audit.FieldSampleRate)

	opts := []publisher.Option{
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithSampler(sampler),
		publisher.WithMetrics(auditMetrics),
		publisher.WithLogger(log),
	}
	if i.kafka != nil {
		sink := kafkasink.New(i.kafka, cfg.Kafka.AuditTopic,
			kafkasink.WithBreaker(circuit.New(kafkasink.SinkName, circuit.WithCooldown(10*time.Second))),
			kafkasink.WithMetrics(auditMetrics),
			kafkasink.WithLogger(log),
		)
		opts = append(opts, publisher.WithSink(kafkasink.SinkName, sink))
	}
	return publisher.NewPublisher(auditStore, opts...)
}

// healthHandler reports 503 while a configured backend is unreachable.
func healthHandler(i *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		record := func(name string, err error) {
			if err != nil {
				checks[name] = err.Error()
				healthy = false
				return
			}
			checks[name] = "ok"
		}
		if i.redis != nil {
			record("redis", i.redis.Health(ctx))
		}
		if i.db != nil {
			record("postgres", i.db.PingContext(ctx))
		}
		if i.kafka != nil {
			record("kafka", i.kafka.Ping(ctx))
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, map[string]any{"status": status, "checks": checks})
	}
}
