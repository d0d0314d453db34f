package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "sepacheck/pkg/platform/audit"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Emitted      *prometheus.CounterVec
	SampledOut   prometheus.Counter
	Dropped      prometheus.Counter
	SinkFailures *prometheus.CounterVec
	CircuitOpen  *prometheus.GaugeVec
}

// NewMetrics creates and registers the audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sepacheck_audit_events_emitted_total",
			Help: "Total number of audit events accepted for publishing",
		}, []string{"category"}),
		SampledOut: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sepacheck_audit_events_sampled_out_total",
			Help: "Total number of operations audit events dropped by sampling",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sepacheck_audit_events_dropped_total",
			Help: "Total number of audit events dropped because the buffer was full",
		}),
		SinkFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sepacheck_audit_sink_failures_total",
			Help: "Total number of failed deliveries to secondary audit sinks",
		}, []string{"sink"}),
		CircuitOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sepacheck_audit_sink_circuit_open",
			Help: "Circuit breaker state per audit sink (0=closed, 1=open)",
		}, []string{"sink"}),
	}
}

func (m *Metrics) IncEmitted(category audit.EventCategory) {
	if m == nil {
		return
	}
	m.Emitted.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) IncSampledOut() {
	if m == nil {
		return
	}
	m.SampledOut.Inc()
}

func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *Metrics) IncSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.SinkFailures.WithLabelValues(sink).Inc()
}

// SetCircuitOpen sets the circuit state gauge of a sink.
func (m *Metrics) SetCircuitOpen(sink string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.CircuitOpen.WithLabelValues(sink).Set(v)
}
