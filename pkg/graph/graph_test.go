package graph_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/graph/graphtest"
)

func TestBuild_WrapIsMemoized(t *testing.T) {
	m := graphtest.New().Chain("A", "B", "C")
	g := m.MustBuild(t, graph.Directed)

	h1, err := g.Wrap(m.Get("B"))
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	h2, err := g.Wrap(m.Get("B"))
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Expected identical handles, got %d and %d", h1, h2)
	}
	if g.Unwrap(h1) != m.Get("B") {
		t.Error("Unwrap did not return the wrapped object")
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("Expected 3 nodes and 2 edges, got %d and %d", g.NodeCount(), g.EdgeCount())
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model graph.Model
		roots []any
		want  error
	}{
		{"nil model", nil, []any{1}, graph.ErrNilModel},
		{"no roots", graphtest.New(), nil, graph.ErrNoRoots},
		{"non comparable root", graphtest.New(), []any{[]int{1}}, graph.ErrNotComparable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.Build(tt.model, tt.roots, graph.Config{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWrap_NotInGraph(t *testing.T) {
	m := graphtest.New().Edge("A", "B").Node("C", "")
	g, err := graph.Build(m, []any{m.Get("A")}, graph.Config{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := g.Wrap(m.Get("B")); err != nil {
		t.Errorf("B is reachable from the roots, got %v", err)
	}

	_, err = g.Wrap(m.Get("C"))
	if !graph.IsNotInGraph(err) {
		t.Fatalf("Expected ErrNotInGraph, got %v", err)
	}
	var gerr *graph.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *graph.Error, got %T", err)
	}
	if gerr.Op != "wrap" || gerr.Object != "C" {
		t.Errorf("Unexpected error fields: %+v", gerr)
	}

	if _, err := g.WrapAll([]any{m.Get("A"), m.Get("C")}); !graph.IsNotInGraph(err) {
		t.Errorf("WrapAll should fail on C, got %v", err)
	}
}

func TestEdges_DirectedView(t *testing.T) {
	m := graphtest.New().Edge("A", "B").Edge("C", "B").Edge("B", "D")
	g := m.MustBuild(t, graph.Directed)
	b := graphtest.Handle(t, g, m, "B")

	if got := graphtest.Names(g, g.Neighbors(b, graph.Downstream)); !reflect.DeepEqual(got, []string{"D"}) {
		t.Errorf("Downstream: expected [D], got %v", got)
	}
	if got := graphtest.Names(g, g.Neighbors(b, graph.Upstream)); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("Upstream: expected [A C], got %v", got)
	}
	if got := graphtest.Names(g, g.Neighbors(b, graph.Both)); !reflect.DeepEqual(got, []string{"A", "C", "D"}) {
		t.Errorf("Both: expected [A C D], got %v", got)
	}
	if g.Degree(b) != 3 {
		t.Errorf("Expected degree 3, got %d", g.Degree(b))
	}

	for _, e := range g.Edges(b, graph.Upstream) {
		if g.Target(e) != b {
			t.Errorf("Upstream edge %d does not end at B", e)
		}
	}
}

func TestEdges_UndirectedView(t *testing.T) {
	m := graphtest.New().Edge("A", "B").Edge("B", "C")
	g := m.MustBuild(t, graph.Undirected)
	b := graphtest.Handle(t, g, m, "B")

	down := graphtest.Names(g, g.Neighbors(b, graph.Downstream))
	up := graphtest.Names(g, g.Neighbors(b, graph.Upstream))
	if !reflect.DeepEqual(down, []string{"A", "C"}) || !reflect.DeepEqual(up, down) {
		t.Errorf("Undirected view should ignore direction, got down=%v up=%v", down, up)
	}
}

func TestNeighbors_ParallelEdgesAndSelfLoop(t *testing.T) {
	m := graphtest.New().
		LabeledEdge("A", "B", "binds").
		LabeledEdge("A", "B", "activates").
		LabeledEdge("A", "A", "self")
	g := m.MustBuild(t, graph.Directed)
	a := graphtest.Handle(t, g, m, "A")

	if len(g.Edges(a, graph.Downstream)) != 3 {
		t.Errorf("Expected 3 outgoing edges, got %d", len(g.Edges(a, graph.Downstream)))
	}
	if len(g.Edges(a, graph.Both)) != 3 {
		t.Errorf("Self loop should be reported once, got %d edges", len(g.Edges(a, graph.Both)))
	}
	if got := graphtest.Names(g, g.Neighbors(a, graph.Downstream)); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Expected [A B], got %v", got)
	}
}

func TestSyntheticEdge(t *testing.T) {
	m := graphtest.New().LabeledEdge("A", "B", "binds")
	g := m.MustBuild(t, graph.Directed)

	e, err := g.Wrap(graph.SyntheticEdge{From: m.Get("A"), To: m.Get("B"), Label: "binds"})
	if err != nil {
		t.Fatalf("Wrap edge failed: %v", err)
	}
	if !g.IsEdge(e) || g.IsNode(e) {
		t.Fatal("Expected an edge handle")
	}
	if g.ID(e) != "A-binds->B" {
		t.Errorf("Unexpected edge id %q", g.ID(e))
	}
	if !g.IsA(e, "binds") || g.Type(e) != "binds" {
		t.Error("Synthetic edges should be typed by label")
	}
	if g.Property(e, "name") != nil {
		t.Error("Synthetic edges have no properties")
	}
	a := graphtest.Handle(t, g, m, "A")
	if g.Other(e, a) != g.Target(e) || g.Source(e) != a {
		t.Error("Endpoints mismatch")
	}
}

func TestBreadth(t *testing.T) {
	m := graphtest.New().
		Node("R", "Reaction").
		Node("P", "Protein").
		Edge("P", "R").
		NonBreadth("Reaction")
	g := m.MustBuild(t, graph.Directed)

	if g.Breadth(graphtest.Handle(t, g, m, "R")) {
		t.Error("Reaction nodes should not count")
	}
	if !g.Breadth(graphtest.Handle(t, g, m, "P")) {
		t.Error("Protein nodes should count")
	}
}

func TestTypeHierarchy(t *testing.T) {
	m := graphtest.New().Node("P", "Protein").Subtype("Protein", "PhysicalEntity")
	g := m.MustBuild(t, graph.Directed)
	p := graphtest.Handle(t, g, m, "P")

	if !g.IsA(p, "PhysicalEntity") || !g.IsA(p, "Protein") {
		t.Error("Expected P to be a Protein and a PhysicalEntity")
	}
	if g.IsA(p, "SmallMolecule") {
		t.Error("P is not a SmallMolecule")
	}
}

func TestSet(t *testing.T) {
	s := graph.NewSet(3, 1)
	if !s.Add(2) || s.Add(2) {
		t.Error("Add should report insertion once")
	}
	if got := s.Sorted(); !reflect.DeepEqual(got, []graph.Handle{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", got)
	}
	u := graph.Union(s, graph.NewSet(9))
	if u.Len() != 4 || s.Len() != 3 {
		t.Errorf("Union should not modify inputs, got %d and %d", u.Len(), s.Len())
	}
}

func TestDirection(t *testing.T) {
	if graph.Downstream.Reverse() != graph.Upstream || graph.Both.Reverse() != graph.Both {
		t.Error("Reverse mismatch")
	}
	if d, ok := graph.ParseDirection("upstream"); !ok || d != graph.Upstream {
		t.Errorf("ParseDirection(upstream) = %v, %v", d, ok)
	}
	if _, ok := graph.ParseDirection("sideways"); ok {
		t.Error("ParseDirection should reject unknown values")
	}
}
