package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements the Recorder interface using Prometheus
// metrics on a private registry, so several engines in one process never
// collide on registration.
type PrometheusRecorder struct {
	registry          *prometheus.Registry
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	matchTierTotal    *prometheus.CounterVec
	guardTotal        *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splice_operations_total",
				Help: "Total number of edit operations by kind and status",
			},
			[]string{"kind", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splice_operation_duration_seconds",
				Help:    "Duration of edit operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		matchTierTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splice_match_tier_total",
				Help: "Edit blocks located, by matcher tier",
			},
			[]string{"tier"},
		),
		guardTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splice_guard_decisions_total",
				Help: "Write guard decisions for full overwrites",
			},
			[]string{"decision"},
		),
	}
	p.registry.MustRegister(p.operationsTotal, p.operationDuration, p.matchTierTotal, p.guardTotal)
	return p
}

// Registry exposes the recorder's registry for custom exporters.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveOperation records metrics for a finished operation.
func (p *PrometheusRecorder) ObserveOperation(kind, status string, duration time.Duration) {
	p.operationsTotal.WithLabelValues(kind, status).Inc()
	p.operationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// IncMatchTier counts a located block.
func (p *PrometheusRecorder) IncMatchTier(tier string) {
	p.matchTierTotal.WithLabelValues(tier).Inc()
}

// IncGuardDecision counts a guard outcome.
func (p *PrometheusRecorder) IncGuardDecision(decision string) {
	p.guardTotal.WithLabelValues(decision).Inc()
}

// WriteTextfile writes every metric in the Prometheus text format, for the
// node exporter's textfile collector. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}
