package algorithms

import (
	"sort"
	"testing"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/graph/graphtest"
)

type fixture struct {
	t *testing.T
	g *graph.Graph
	m *graphtest.Model
}

func build(t *testing.T, m *graphtest.Model) fixture {
	t.Helper()
	return fixture{t: t, g: m.MustBuild(t, graph.Directed), m: m}
}

func (f fixture) h(name string) graph.Handle {
	f.t.Helper()
	return graphtest.Handle(f.t, f.g, f.m, name)
}

func (f fixture) hs(names ...string) []graph.Handle {
	f.t.Helper()
	return graphtest.Handles(f.t, f.g, f.m, names...)
}

func (f fixture) e(from, to string) graph.Handle {
	f.t.Helper()
	return graphtest.Edge(f.t, f.g, f.m, from, to)
}

// names lists sorted node names.
func (f fixture) names(hs []graph.Handle) []string { return graphtest.Names(f.g, hs) }

// edges lists sorted "from->to" names.
func (f fixture) edges(hs []graph.Handle) []string {
	out := make([]string, len(hs))
	for i, e := range hs {
		out[i] = f.g.ID(f.g.Source(e)) + "->" + f.g.ID(f.g.Target(e))
	}
	sort.Strings(out)
	return out
}

// nodes builds a model whose nodes are created in the given order, so
// their handles ascend in that order.
func nodes(names ...string) *graphtest.Model {
	m := graphtest.New()
	for _, n := range names {
		m.Node(n, graphtest.DefaultType)
	}
	return m
}
