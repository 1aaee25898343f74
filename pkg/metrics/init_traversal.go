package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTraversalMetrics() {
	r.TraversalsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathways_traversals_total",
			Help: "Total number of graph traversals",
		},
		[]string{"algorithm", "status"},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathways_traversal_duration_seconds",
			Help:    "Traversal duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"algorithm"},
	)

	r.TraversalResultNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathways_traversal_result_nodes",
			Help:    "Number of nodes in a traversal result",
			Buckets: []float64{0, 10, 100, 1000, 10000, 100000},
		},
		[]string{"algorithm"},
	)

	r.TruncatedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathways_truncated_total",
			Help: "Operations stopped early by a limit, timeout or cancellation",
		},
		[]string{"operation"},
	)

	r.SlowOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathways_slow_operations_total",
			Help: "Searches and traversals that took longer than one second",
		},
		[]string{"operation"},
	)
}
