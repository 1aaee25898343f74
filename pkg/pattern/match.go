package pattern

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Match is one complete binding of a pattern's slots.
type Match struct {
	values  []graph.Handle
	pattern *Pattern
	graph   *graph.Graph
}

// Get returns the handle bound to a label, or graph.None for an unknown
// label.
func (m Match) Get(label string) graph.Handle {
	i, ok := m.pattern.IndexOf(label)
	if !ok {
		return graph.None
	}
	return m.values[i]
}

// Object returns the domain object bound to a label, or nil.
func (m Match) Object(label string) any {
	h := m.Get(label)
	if h == graph.None {
		return nil
	}
	return m.graph.Unwrap(h)
}

// At returns the handle in a slot.
func (m Match) At(slot int) graph.Handle { return m.values[slot] }

// Values returns the handles in slot order.
func (m Match) Values() []graph.Handle { return append([]graph.Handle(nil), m.values...) }

// Len returns the number of slots.
func (m Match) Len() int { return len(m.values) }

func (m Match) Pattern() *Pattern   { return m.pattern }
func (m Match) Graph() *graph.Graph { return m.graph }

// Key renders the bound handles, usable as a map key.
func (m Match) Key() string { return tupleKey(m.values) }

func (m Match) String() string {
	parts := make([]string, len(m.values))
	for i, h := range m.values {
		parts[i] = m.pattern.Label(i) + "=" + m.graph.ID(h)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func tupleKey(values []graph.Handle) string {
	var b strings.Builder
	for i, h := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", h)
	}
	return b.String()
}

func lessTuple(a, b []graph.Handle) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
