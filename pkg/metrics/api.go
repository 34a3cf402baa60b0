package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records calls made to the remote marketplace API.
type APIMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
}

// NewAPIMetrics registers the marketplace API metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Duration of marketplace API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_request_failures_total",
		Help: "Failed marketplace API calls by error code.",
	}, []string{"operation", "code"})
	reg.MustRegister(duration, failure)
	return &APIMetrics{
		duration: duration,
		failure:  failure,
	}
}

// Observe records one call. outcome is "ok" or "error".
func (a *APIMetrics) Observe(operation, outcome string, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	a.duration.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncFailure counts a failed call by its error code.
func (a *APIMetrics) IncFailure(operation, code string) {
	if a == nil || a.failure == nil {
		return
	}
	a.failure.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
