// Package graphtest builds small named graphs for tests.
//
//	g := graphtest.New().Edge("A", "B").Edge("B", "C").MustBuild(t, graph.Directed)
package graphtest

import (
	"sort"
	"testing"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// DefaultType is the type given to nodes created implicitly by Edge.
const DefaultType = "Node"

// Node is a named test entity.
type Node struct {
	Name  string
	Type  string
	Props map[string][]any
}

func (n *Node) String() string { return n.Name }

// Model is a graph.Model over named nodes and synthetic edges.
type Model struct {
	nodes      []*Node
	byName     map[string]*Node
	links      map[*Node][]graph.Link
	parents    map[string]string
	nonBreadth map[string]bool
}

// New returns an empty model.
func New() *Model {
	return &Model{
		byName:     make(map[string]*Node),
		links:      make(map[*Node][]graph.Link),
		parents:    make(map[string]string),
		nonBreadth: make(map[string]bool),
	}
}

// Node adds a node of the given type, or retypes an existing one.
func (m *Model) Node(name, typ string) *Model {
	if typ == "" {
		typ = DefaultType
	}
	if n, ok := m.byName[name]; ok {
		n.Type = typ
		return m
	}
	n := &Node{Name: name, Type: typ, Props: make(map[string][]any)}
	m.nodes = append(m.nodes, n)
	m.byName[name] = n
	return m
}

func (m *Model) ensure(name string) *Node {
	if _, ok := m.byName[name]; !ok {
		m.Node(name, DefaultType)
	}
	return m.byName[name]
}

// Edge adds a directed edge labelled "link", creating missing nodes.
func (m *Model) Edge(from, to string) *Model {
	return m.LabeledEdge(from, to, "link")
}

// LabeledEdge adds a directed edge with the given label.
func (m *Model) LabeledEdge(from, to, label string) *Model {
	f, t := m.ensure(from), m.ensure(to)
	m.links[f] = append(m.links[f], graph.Link{Target: t, Label: label})
	return m
}

// Chain adds edges between consecutive names.
func (m *Model) Chain(names ...string) *Model {
	for i := 1; i < len(names); i++ {
		m.Edge(names[i-1], names[i])
	}
	return m
}

// Subtype declares typ as a subtype of parent.
func (m *Model) Subtype(typ, parent string) *Model {
	m.parents[typ] = parent
	return m
}

// NonBreadth marks nodes of typ as not counting towards distance.
func (m *Model) NonBreadth(typ string) *Model {
	m.nonBreadth[typ] = true
	return m
}

// Set assigns a property. Values that are node names are not resolved;
// use Ref to store a node.
func (m *Model) Set(name, prop string, values ...any) *Model {
	n := m.ensure(name)
	n.Props[prop] = append(n.Props[prop], values...)
	return m
}

// Ref stores the named nodes as values of a property of name.
func (m *Model) Ref(name, prop string, targets ...string) *Model {
	n := m.ensure(name)
	for _, t := range targets {
		n.Props[prop] = append(n.Props[prop], m.ensure(t))
	}
	return m
}

// Get returns the named node, or nil.
func (m *Model) Get(name string) *Node { return m.byName[name] }

// Objects returns every node in insertion order.
func (m *Model) Objects() []any {
	out := make([]any, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n
	}
	return out
}

// Build builds a graph rooted at every node.
func (m *Model) Build(view graph.View) (*graph.Graph, error) {
	return graph.Build(m, m.Objects(), graph.Config{View: view})
}

// MustBuild builds the graph or fails the test.
func (m *Model) MustBuild(tb testing.TB, view graph.View) *graph.Graph {
	tb.Helper()
	g, err := m.Build(view)
	if err != nil {
		tb.Fatalf("failed to build test graph: %v", err)
	}
	return g
}

// ID implements graph.Model.
func (m *Model) ID(obj any) string {
	if n, ok := obj.(*Node); ok {
		return n.Name
	}
	return ""
}

// TypeOf implements graph.Model.
func (m *Model) TypeOf(obj any) string {
	if n, ok := obj.(*Node); ok {
		return n.Type
	}
	return ""
}

// IsA implements graph.Model.
func (m *Model) IsA(obj any, typ string) bool {
	n, ok := obj.(*Node)
	if !ok {
		return false
	}
	for t := n.Type; t != ""; t = m.parents[t] {
		if t == typ {
			return true
		}
	}
	return false
}

// Property implements graph.Model.
func (m *Model) Property(obj any, name string) []any {
	n, ok := obj.(*Node)
	if !ok {
		return nil
	}
	if name == "name" {
		return []any{n.Name}
	}
	return n.Props[name]
}

// Links implements graph.Model.
func (m *Model) Links(obj any) []graph.Link {
	n, ok := obj.(*Node)
	if !ok {
		return nil
	}
	return m.links[n]
}

// IsBreadth implements graph.BreadthModel.
func (m *Model) IsBreadth(obj any) bool {
	n, ok := obj.(*Node)
	return !ok || !m.nonBreadth[n.Type]
}

// Handles wraps the named nodes of m in g.
func Handles(tb testing.TB, g *graph.Graph, m *Model, names ...string) []graph.Handle {
	tb.Helper()
	out := make([]graph.Handle, 0, len(names))
	for _, name := range names {
		n := m.Get(name)
		if n == nil {
			tb.Fatalf("unknown test node %q", name)
		}
		h, err := g.Wrap(n)
		if err != nil {
			tb.Fatalf("wrap %q: %v", name, err)
		}
		out = append(out, h)
	}
	return out
}

// Handle wraps one named node.
func Handle(tb testing.TB, g *graph.Graph, m *Model, name string) graph.Handle {
	tb.Helper()
	return Handles(tb, g, m, name)[0]
}

// Names returns the sorted node names of the given handles.
func Names(g *graph.Graph, hs []graph.Handle) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, g.ID(h))
	}
	sort.Strings(out)
	return out
}

// Edge returns the handle of the synthetic edge from -> to labelled "link".
func Edge(tb testing.TB, g *graph.Graph, m *Model, from, to string) graph.Handle {
	tb.Helper()
	h, err := g.Wrap(graph.SyntheticEdge{From: m.Get(from), To: m.Get(to), Label: "link"})
	if err != nil {
		tb.Fatalf("wrap edge %s->%s: %v", from, to, err)
	}
	return h
}
