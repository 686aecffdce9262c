package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus instruments for session operations.
// Both the MCP and HTTP adapters record through it.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewMetrics creates the instruments on a private registry, so tests
// can run several instances without duplicate-registration panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxstore_operations_total",
				Help: "Session operations by name and outcome.",
			},
			[]string{"op", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ctxstore_operation_seconds",
				Help:    "Session operation latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	reg.MustRegister(m.operations, m.durations)
	return m
}

// Record counts one finished operation and observes its latency.
// Outcome is "ok", "invalid", "not_found" or "error".
func (m *Metrics) Record(op, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, outcome).Inc()
	m.durations.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Registry exposes the underlying prometheus registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Gatherer is the read side for promhttp handlers.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
