package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Field check outcomes.
const (
	OutcomeValid      = "valid"
	OutcomeNormalized = "normalized"
	OutcomeSanitized  = "sanitized"
	OutcomeInvalid    = "invalid"
)

// Metrics provides observability for the validation module.
type Metrics struct {
	// Field checks by canonical field name and outcome
	FieldChecks *prometheus.CounterVec

	// Record outcomes: valid, invalid
	RecordsValidated *prometheus.CounterVec

	RecordLatency prometheus.Histogram

	ReportsStored prometheus.Counter

	// Batch sizes in records
	BatchSize prometheus.Histogram
}

// New creates a new Metrics instance with all validation metrics registered.
func New() *Metrics {
	return &Metrics{
		FieldChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sepacheck_field_checks_total",
			Help: "Total field checks by field and outcome",
		}, []string{"field", "outcome"}),

		RecordsValidated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sepacheck_records_validated_total",
			Help: "Total records validated by outcome",
		}, []string{"outcome"}),

		RecordLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sepacheck_record_validation_duration_seconds",
			Help:    "Duration of record validation including report storage",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		ReportsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sepacheck_reports_stored_total",
			Help: "Total validation reports written to the report store",
		}),

		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sepacheck_batch_size_records",
			Help:    "Number of records per batch validation request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
	}
}

// IncrementFieldCheck records one field check outcome.
func (m *Metrics) IncrementFieldCheck(field, outcome string) {
	if m != nil {
		m.FieldChecks.WithLabelValues(field, outcome).Inc()
	}
}

// IncrementRecord records a record outcome.
func (m *Metrics) IncrementRecord(valid bool) {
	if m == nil {
		return
	}
	outcome := OutcomeValid
	if !valid {
		outcome = OutcomeInvalid
	}
	m.RecordsValidated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRecordLatency(d time.Duration) {
	if m != nil {
		m.RecordLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementReportsStored() {
	if m != nil {
		m.ReportsStored.Inc()
	}
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
