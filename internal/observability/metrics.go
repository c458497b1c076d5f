package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks outbound billing-provider calls. Every call is
// counted by operation and outcome so divergence between provider success and
// local-write failure is visible on a dashboard.
type ProviderMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec

	// Incremented when a provider call succeeded but the following local
	// write failed. Non-zero values need operator attention.
	divergences prometheus.Counter
}

func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	m := &ProviderMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breeze",
			Subsystem: "billing",
			Name:      "provider_calls_total",
			Help:      "Outbound billing provider calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "breeze",
			Subsystem: "billing",
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of billing provider calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		divergences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "breeze",
			Subsystem: "billing",
			Name:      "state_divergence_total",
			Help:      "Local writes that failed after a successful provider call.",
		}),
	}
	reg.MustRegister(m.calls, m.duration, m.divergences)
	return m
}

func (m *ProviderMetrics) ObserveCall(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *ProviderMetrics) RecordDivergence() {
	m.divergences.Inc()
}
