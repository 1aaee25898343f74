package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by every operation counter.
const (
	StatusOK        = "ok"
	StatusTruncated = "truncated"
	StatusError     = "error"
)

// Registry holds the metrics of the matching and traversal engine.
type Registry struct {
	// Pattern search
	SearchesTotal  *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	SearchMatches  *prometheus.HistogramVec
	SearchSteps    *prometheus.HistogramVec

	// Traversals
	TraversalsTotal      *prometheus.CounterVec
	TraversalDuration    *prometheus.HistogramVec
	TraversalResultNodes *prometheus.HistogramVec

	// Shared
	TruncatedTotal      *prometheus.CounterVec
	SlowOperationsTotal *prometheus.CounterVec

	// Inputs
	GraphObjects     *prometheus.GaugeVec
	BlacklistEntries prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric initialized. Each
// registry owns its Prometheus registry, so tests can create as many as
// they like.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initSearchMetrics()
	r.initTraversalMetrics()
	r.initGraphMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
