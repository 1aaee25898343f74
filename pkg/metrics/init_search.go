package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSearchMetrics() {
	r.SearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathways_searches_total",
			Help: "Total number of pattern searches",
		},
		[]string{"mode", "status"},
	)

	r.SearchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathways_search_duration_seconds",
			Help:    "Pattern search duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"mode"},
	)

	r.SearchMatches = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathways_search_matches",
			Help:    "Number of matches returned per search",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
		},
		[]string{"mode"},
	)

	r.SearchSteps = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathways_search_steps",
			Help:    "Number of candidate bindings tried per search",
			Buckets: prometheus.ExponentialBuckets(10, 10, 7),
		},
		[]string{"mode"},
	)
}
