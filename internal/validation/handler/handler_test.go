package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sepacheck/internal/validation/handler/mocks"
	"sepacheck/internal/validation/models"
	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/platform/audit"
	"sepacheck/pkg/sepa/field"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
	"sepacheck/pkg/testutil"
)

// HandlerSuite covers HTTP concerns: parsing, status mapping and response
// shape. Validation semantics are tested in the service package.
type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	trail   *mocks.MockAuditTrail
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.trail = mocks.NewMockAuditTrail(s.ctrl)

	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), WithAuditTrail(s.trail)).Register(r)
	s.router = r
}

// =============================================================================
// POST /v1/fields/check
// =============================================================================

func (s *HandlerSuite) TestCheckField() {
	s.Run("maps request and result", func() {
		s.service.EXPECT().CheckField(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.FieldRequest) (*models.FieldResult, error) {
				s.Equal("ccy", req.Field)
				s.True(field.Text("eur").Equal(req.Value))
				s.Equal(schema.Pain00800202, req.Version)
				s.Require().NotNil(req.Flags)
				s.Equal(translit.AltReplacementGerman, *req.Flags)
				s.True(req.Sanitize)
				return &models.FieldResult{Field: "ccy", Kind: field.KindCurrency, Valid: true, Value: field.Text("EUR")}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/fields/check", map[string]any{
			"field":    " ccy ",
			"value":    "eur",
			"version":  "pain.008.002.02",
			"flags":    []string{"alt-german"},
			"sanitize": true,
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal("ccy", (*resp)["field"])
		s.Equal("ccy", (*resp)["kind"])
		s.Equal(true, (*resp)["valid"])
		s.Equal("EUR", (*resp)["value"])
		s.NotContains(*resp, "reason")
	})

	s.Run("missing flags keep the service default", func() {
		s.service.EXPECT().CheckField(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.FieldRequest) (*models.FieldResult, error) {
				s.Nil(req.Flags)
				s.True(req.Version.IsNil())
				return &models.FieldResult{Field: "iban", Kind: field.KindIBAN, Reason: "iban: malformed IBAN"}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/fields/check", map[string]any{"field": "iban", "value": "ASDF"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(false, (*resp)["valid"])
		s.Equal("iban: malformed IBAN", (*resp)["reason"])
		s.NotContains(*resp, "value")
	})

	s.Run("unknown field from service is bad request", func() {
		s.service.EXPECT().CheckField(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidInput, `unknown field "bogus"`))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/fields/check", map[string]any{"field": "bogus", "value": "x"})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "invalid_input")
	})

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"field":`, http.StatusBadRequest, "bad_request"},
		{"missing field", map[string]any{"value": "x"}, http.StatusUnprocessableEntity, "validation_error"},
		{"unknown version", map[string]any{"field": "iban", "version": "pain.999"}, http.StatusBadRequest, "invalid_input"},
		{"unknown flag", map[string]any{"field": "dbtr", "flags": []string{"klingon"}}, http.StatusBadRequest, "invalid_input"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/fields/check", tt.body)
			testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), tt.wantStatus, tt.wantCode)
		})
	}
}

// =============================================================================
// POST /v1/records/validate and /v1/records/batch
// =============================================================================

func (s *HandlerSuite) TestValidateRecord() {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Run("returns the report", func() {
		s.service.EXPECT().ValidateRecord(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.RecordRequest) (*models.Report, error) {
				s.Equal(models.RequiredCollection, req.Required)
				s.Len(req.Fields, 2)
				return &models.Report{
					ID:        "r-1",
					CreatedAt: created,
					Version:   schema.Pain00100203,
					Required:  models.RequiredCollection,
					Values:    field.Record{"ccy": field.Text("EUR")},
					Invalid:   []string{"iban"},
					Missing:   []string{"bic"},
				}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/records/validate", map[string]any{
			"required": "Collection",
			"fields":   map[string]any{"ccy": "eur", "iban": "ASDF"},
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[ReportResponse](s.T(), rr)
		s.Equal("r-1", resp.ReportID)
		s.False(resp.Valid)
		s.Equal([]string{"iban"}, resp.Invalid)
		s.Equal([]string{"bic"}, resp.Missing)
		s.True(field.Text("EUR").Equal(resp.Values["ccy"]))
		s.True(created.Equal(resp.CreatedAt))
	})

	s.Run("store outage is service unavailable", func() {
		s.service.EXPECT().ValidateRecord(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "report store unavailable"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/records/validate", map[string]any{"fields": map[string]any{"ccy": "EUR"}})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusServiceUnavailable, "unavailable")
	})

	s.Run("empty fields are rejected before the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/records/validate", map[string]any{"fields": map[string]any{}})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusUnprocessableEntity, "validation_error")
	})

	s.Run("unknown required set is rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/records/validate", map[string]any{
			"fields":   map[string]any{"ccy": "EUR"},
			"required": "everything",
		})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusUnprocessableEntity, "validation_error")
	})
}

func (s *HandlerSuite) TestValidateBatch() {
	s.Run("returns reports with counts", func() {
		s.service.EXPECT().ValidateBatch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.BatchRequest) ([]*models.Report, error) {
				s.Len(req.Records, 2)
				return []*models.Report{
					{ID: "a", Valid: true},
					{ID: "b", Invalid: []string{"ccy"}},
				}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/records/batch", map[string]any{
			"records": []map[string]any{{"ccy": "EUR"}, {"ccy": "EURO"}},
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[BatchResponse](s.T(), rr)
		s.Require().Len(resp.Reports, 2)
		s.Equal("a", resp.Reports[0].ReportID)
		s.Equal("b", resp.Reports[1].ReportID)
		s.Equal(1, resp.ValidCount)
		s.Equal(1, resp.InvalidCount)
		s.Empty(resp.Reports[0].Missing)
	})

	s.Run("empty batch is rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/records/batch", map[string]any{"records": []any{}})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusUnprocessableEntity, "validation_error")
	})
}

// =============================================================================
// GET /v1/reports/{id}
// =============================================================================

func (s *HandlerSuite) TestGetReport() {
	s.Run("found", func() {
		s.service.EXPECT().GetReport(gomock.Any(), "r-1").Return(&models.Report{ID: "r-1", Valid: true}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/reports/r-1", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("r-1", testutil.UnmarshalResponse[ReportResponse](s.T(), rr).ReportID)
	})

	s.Run("not found", func() {
		s.service.EXPECT().GetReport(gomock.Any(), "gone").Return(nil, dErrors.New(dErrors.CodeNotFound, "report not found"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/reports/gone", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestReportAudit() {
	s.Run("lists events of a stored report", func() {
		s.service.EXPECT().GetReport(gomock.Any(), "r-1").Return(&models.Report{ID: "r-1"}, nil)
		s.trail.EXPECT().List(gomock.Any(), "r-1").Return([]audit.Event{
			{ID: "e-1", Action: audit.ActionRecordValidated, ReportID: "r-1", Valid: true, FieldCount: 4},
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/reports/r-1/audit", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[AuditTrailResponse](s.T(), rr)
		s.Equal("r-1", resp.ReportID)
		s.Require().Len(resp.Events, 1)
		s.Equal(audit.ActionRecordValidated, resp.Events[0].Action)
	})

	s.Run("unknown report is not found", func() {
		s.service.EXPECT().GetReport(gomock.Any(), "gone").Return(nil, dErrors.New(dErrors.CodeNotFound, "report not found"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/reports/gone/audit", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("store failure is unavailable", func() {
		s.service.EXPECT().GetReport(gomock.Any(), "r-2").Return(&models.Report{ID: "r-2"}, nil)
		s.trail.EXPECT().List(gomock.Any(), "r-2").Return(nil, errors.New("connection refused"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/reports/r-2/audit", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
	})
}

func TestAuditRouteRequiresTrail(t *testing.T) {
	r := chi.NewRouter()
	New(nil, nil).Register(r)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/v1/reports/r-1/audit", nil))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

// =============================================================================
// Calendar and versions
// =============================================================================

func (s *HandlerSuite) TestCalendar() {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   map[string]any
		wantCode   string
	}{
		{
			name:       "good friday is closed",
			path:       "/v1/calendar/settlement-day?date=2024-03-29",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"date": "2024-03-29", "settlement_day": false},
		},
		{
			name:       "ordinary tuesday is open",
			path:       "/v1/calendar/settlement-day?date=2024-04-02",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"date": "2024-04-02", "settlement_day": true},
		},
		{
			name:       "settlement-day requires a date",
			path:       "/v1/calendar/settlement-day",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "malformed date",
			path:       "/v1/calendar/settlement-day?date=29.03.2024",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_input",
		},
		{
			name:       "next skips easter",
			path:       "/v1/calendar/next?from=2024-03-28&offset=1",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"date": "2024-04-02"},
		},
		{
			name:       "negative offset is rejected",
			path:       "/v1/calendar/next?from=2024-03-28&offset=-1",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_input",
		},
		{
			name:       "earliest clamps to minimum offset",
			path:       "/v1/calendar/earliest?target=2024-03-27&min_offset=2&today=2024-03-27",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"date": "2024-04-02"},
		},
		{
			name:       "earliest moves a holiday target",
			path:       "/v1/calendar/earliest?target=2024-05-01&min_offset=2&today=2024-04-25",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"date": "2024-05-02"},
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, tt.path, nil))
			if tt.wantCode != "" {
				testutil.AssertStatusAndError(s.T(), rr, tt.wantStatus, tt.wantCode)
				return
			}
			testutil.AssertStatus(s.T(), rr, tt.wantStatus)
			s.Equal(tt.wantBody, *testutil.UnmarshalResponse[map[string]any](s.T(), rr))
		})
	}

	s.Run("next defaults to the request date", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/calendar/next", nil)
		req = testutil.WithRequestTime(req, time.Date(2024, 12, 24, 15, 30, 0, 0, time.UTC))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("2024-12-24", testutil.UnmarshalResponse[DateResponse](s.T(), rr).Date)
	})
}

func (s *HandlerSuite) TestVersions() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/v1/versions", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[VersionsResponse](s.T(), rr)
	s.Len(resp.Versions, len(schema.All()))

	byVersion := map[string]VersionResponse{}
	for _, v := range resp.Versions {
		byVersion[v.Version] = v
	}

	gbic := byVersion["pain.008.001.02.gbic"]
	s.Equal("pain.008.001.02", gbic.MessageType)
	s.Equal("direct_debit", gbic.TransactionType)
	s.Equal(8001021, gbic.Code)

	s.Equal([]string{"pmtInfId", "dbtr", "iban", "bic"}, byVersion["pain.001.002.03"].CollectionKeys)
	s.Empty(byVersion["pain.008.001.02.austrian.003"].CollectionKeys)
}
