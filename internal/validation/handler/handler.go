package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sepacheck/internal/validation/models"
	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/platform/audit"
	"sepacheck/pkg/platform/httputil"
	"sepacheck/pkg/requestcontext"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/target2"
	"sepacheck/pkg/sepa/validator"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// maxCalendarOffset bounds offsets of the calendar endpoints.
const maxCalendarOffset = 365

// Service defines the interface for validation operations.
type Service interface {
	CheckField(ctx context.Context, req models.FieldRequest) (*models.FieldResult, error)
	ValidateRecord(ctx context.Context, req models.RecordRequest) (*models.Report, error)
	ValidateBatch(ctx context.Context, req models.BatchRequest) ([]*models.Report, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
}

// AuditTrail lists the audit events recorded for a report.
type AuditTrail interface {
	List(ctx context.Context, reportID string) ([]audit.Event, error)
}

// Handler wires the validation, calendar and version endpoints.
type Handler struct {
	service Service
	trail   AuditTrail
	logger  *slog.Logger
}

type Option func(*Handler)

// WithAuditTrail enables GET /v1/reports/{id}/audit.
func WithAuditTrail(trail AuditTrail) Option {
	return func(h *Handler) {
		h.trail = trail
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the v1 endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/fields/check", h.HandleCheckField)
		r.Post("/records/validate", h.HandleValidateRecord)
		r.Post("/records/batch", h.HandleValidateBatch)
		r.Get("/reports/{id}", h.HandleGetReport)
		if h.trail != nil {
			r.Get("/reports/{id}/audit", h.HandleReportAudit)
		}

		r.Get("/calendar/settlement-day", h.HandleSettlementDay)
		r.Get("/calendar/next", h.HandleNextSettlementDay)
		r.Get("/calendar/earliest", h.HandleEarliestSettlementDate)

		r.Get("/versions", h.HandleVersions)
	})
}

// HandleCheckField handles POST /v1/fields/check.
func (h *Handler) HandleCheckField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckFieldRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CheckField(ctx, req.ToModel())
	if err != nil {
		h.logger.WarnContext(ctx, "field check failed",
			"request_id", requestID,
			"field", req.Field,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromFieldResult(result))
}

// HandleValidateRecord handles POST /v1/records/validate.
func (h *Handler) HandleValidateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ValidateRecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.ValidateRecord(ctx, req.ToModel())
	if err != nil {
		h.logError(ctx, "record validation failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "record validated",
		"request_id", requestID,
		"report_id", report.ID,
		"valid", report.Valid,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}

// HandleValidateBatch handles POST /v1/records/batch.
func (h *Handler) HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ValidateBatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reports, err := h.service.ValidateBatch(ctx, req.ToModel())
	if err != nil {
		h.logError(ctx, "batch validation failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	resp := FromReports(reports)
	h.logger.InfoContext(ctx, "batch validated",
		"request_id", requestID,
		"records", len(reports),
		"invalid", resp.InvalidCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetReport handles GET /v1/reports/{id}.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	report, err := h.service.GetReport(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logError(ctx, "failed to load report", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}

// HandleReportAudit handles GET /v1/reports/{id}/audit. The report must
// still be stored; its audit events outlive it.
func (h *Handler) HandleReportAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	if _, err := h.service.GetReport(ctx, id); err != nil {
		h.logError(ctx, "failed to load report", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	events, err := h.trail.List(ctx, id)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeUnavailable, "audit store unavailable")
		h.logError(ctx, "failed to list audit events", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAuditEvents(id, events))
}

// HandleSettlementDay handles GET /v1/calendar/settlement-day?date=.
func (h *Handler) HandleSettlementDay(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", nil)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SettlementDayResponse{
		Date:          formatDate(date),
		SettlementDay: target2.IsSettlementDay(date),
	})
}

// HandleNextSettlementDay handles GET /v1/calendar/next?from=&offset=.
// from defaults to the request date.
func (h *Handler) HandleNextSettlementDay(w http.ResponseWriter, r *http.Request) {
	today := requestcontext.Now(r.Context())
	from, err := dateParam(r, "from", &today)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	offset, err := offsetParam(r, "offset")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DateResponse{Date: formatDate(target2.NextSettlementDay(from, offset))})
}

// HandleEarliestSettlementDate handles
// GET /v1/calendar/earliest?target=&min_offset=&today=.
func (h *Handler) HandleEarliestSettlementDate(w http.ResponseWriter, r *http.Request) {
	now := requestcontext.Now(r.Context())
	target, err := dateParam(r, "target", nil)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	minOffset, err := offsetParam(r, "min_offset")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	today, err := dateParam(r, "today", &now)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DateResponse{
		Date: formatDate(target2.EarliestSettlementDate(target, minOffset, today)),
	})
}

// HandleVersions handles GET /v1/versions.
func (h *Handler) HandleVersions(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromVersions(schema.All()))
}

func (h *Handler) logError(ctx context.Context, msg, requestID string, err error) {
	level := slog.LevelWarn
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg, "request_id", requestID, "error", err)
}

// dateParam parses a YYYY-MM-DD query parameter. A missing parameter yields
// def, or a validation error when def is nil.
func dateParam(r *http.Request, name string, def *time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if def == nil {
			return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "%s is required", name)
		}
		return target2.Date(*def), nil
	}
	t, err := time.Parse(validator.DateLayout, raw)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a date in YYYY-MM-DD format", name)
	}
	return t, nil
}

// offsetParam parses an optional settlement-day offset, defaulting to 0.
func offsetParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > maxCalendarOffset {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be an integer between 0 and %d", name, maxCalendarOffset)
	}
	return n, nil
}
