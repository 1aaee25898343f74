package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphObjects = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pathways_graph_objects",
			Help: "Objects in the most recently built graph",
		},
		[]string{"kind"},
	)

	r.BlacklistEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pathways_blacklist_entries",
			Help: "Entries in the active ubiquity blacklist",
		},
	)
}
