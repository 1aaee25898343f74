package metrics

import (
	"time"
)

// SlowThreshold is the duration above which an operation counts as slow.
const SlowThreshold = time.Second

// Status maps the outcome of an operation to its status label.
func Status(err error, truncated bool) string {
	switch {
	case err != nil:
		return StatusError
	case truncated:
		return StatusTruncated
	default:
		return StatusOK
	}
}

// RecordSearch records one pattern search. mode is "single", "all" or
// "parallel".
func (r *Registry) RecordSearch(mode, status string, duration time.Duration, matches int, steps int64) {
	r.SearchesTotal.WithLabelValues(mode, status).Inc()
	r.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.SearchMatches.WithLabelValues(mode).Observe(float64(matches))
	r.SearchSteps.WithLabelValues(mode).Observe(float64(steps))

	r.recordOutcome("search", status, duration)
}

// RecordTraversal records one traversal run.
func (r *Registry) RecordTraversal(algorithm, status string, duration time.Duration, resultNodes int) {
	r.TraversalsTotal.WithLabelValues(algorithm, status).Inc()
	r.TraversalDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	r.TraversalResultNodes.WithLabelValues(algorithm).Observe(float64(resultNodes))

	r.recordOutcome(algorithm, status, duration)
}

func (r *Registry) recordOutcome(operation, status string, duration time.Duration) {
	if status == StatusTruncated {
		r.TruncatedTotal.WithLabelValues(operation).Inc()
	}
	if duration > SlowThreshold {
		r.SlowOperationsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordGraph records the size of a freshly built graph.
func (r *Registry) RecordGraph(nodes, edges int) {
	r.GraphObjects.WithLabelValues("node").Set(float64(nodes))
	r.GraphObjects.WithLabelValues("edge").Set(float64(edges))
}

// RecordBlacklist records the size of the active blacklist.
func (r *Registry) RecordBlacklist(entries int) {
	r.BlacklistEntries.Set(float64(entries))
}
