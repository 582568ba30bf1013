package policy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for policy decisions.
type Metrics struct {
	decisionTotal    *prometheus.CounterVec
	decisionDuration *prometheus.HistogramVec
	registry         *prometheus.Registry
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "securehello"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.decisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "decision_total",
			Help:      "Total number of access policy decisions",
		},
		[]string{"variant", "decision"},
	)

	m.decisionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "decision_duration_seconds",
			Help:      "Access policy decision duration in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"variant", "decision"},
	)

	m.registry.MustRegister(
		m.decisionTotal,
		m.decisionDuration,
	)

	return m
}

// RecordDecision records an access policy decision.
func (m *Metrics) RecordDecision(variant, decision string, duration time.Duration) {
	m.decisionTotal.WithLabelValues(variant, decision).Inc()
	m.decisionDuration.WithLabelValues(variant, decision).Observe(duration.Seconds())
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
