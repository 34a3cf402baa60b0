package metrics

import "github.com/prometheus/client_golang/prometheus"

// CoordinatorMetrics counts client state events that are otherwise invisible.
type CoordinatorMetrics struct {
	staleDiscards *prometheus.CounterVec
	rollbacks     *prometheus.CounterVec
	workspaces    prometheus.Gauge
}

// NewCoordinatorMetrics registers the coordinator metrics on the provided registerer.
func NewCoordinatorMetrics(reg prometheus.Registerer) *CoordinatorMetrics {
	if reg == nil {
		return &CoordinatorMetrics{}
	}
	staleDiscards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_stale_responses_discarded_total",
		Help: "Responses dropped because a newer request superseded them.",
	}, []string{"coordinator"})
	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_optimistic_rollbacks_total",
		Help: "Optimistic mutations reverted after a failed server call.",
	}, []string{"mutation"})
	workspaces := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_workspaces_active",
		Help: "Live session workspaces.",
	})
	reg.MustRegister(staleDiscards, rollbacks, workspaces)
	return &CoordinatorMetrics{
		staleDiscards: staleDiscards,
		rollbacks:     rollbacks,
		workspaces:    workspaces,
	}
}

// IncStaleDiscard counts a superseded response.
func (c *CoordinatorMetrics) IncStaleDiscard(coordinator string) {
	if c == nil || c.staleDiscards == nil {
		return
	}
	c.staleDiscards.WithLabelValues(normalizeLabel(coordinator)).Inc()
}

// IncRollback counts a reverted optimistic mutation.
func (c *CoordinatorMetrics) IncRollback(mutation string) {
	if c == nil || c.rollbacks == nil {
		return
	}
	c.rollbacks.WithLabelValues(normalizeLabel(mutation)).Inc()
}

// SetWorkspaces reports the number of live workspaces.
func (c *CoordinatorMetrics) SetWorkspaces(n int) {
	if c == nil || c.workspaces == nil {
		return
	}
	c.workspaces.Set(float64(n))
}
