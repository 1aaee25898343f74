package algorithms

import (
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Subgraph is the evidence a traversal returns: a set of nodes and a set of
// edges of one graph. Edges are kept only between member nodes once a query
// finishes.
type Subgraph struct {
	nodes graph.Set
	edges graph.Set
}

// NewSubgraph returns an empty subgraph.
func NewSubgraph() *Subgraph {
	return &Subgraph{nodes: graph.NewSet(), edges: graph.NewSet()}
}

func (s *Subgraph) AddNode(n graph.Handle) { s.nodes.Add(n) }
func (s *Subgraph) AddEdge(e graph.Handle) { s.edges.Add(e) }

// RemoveNode removes a node and every member edge touching it.
func (s *Subgraph) RemoveNode(g *graph.Graph, n graph.Handle) {
	s.nodes.Remove(n)
	for _, e := range g.Edges(n, graph.Both) {
		s.edges.Remove(e)
	}
}

func (s *Subgraph) RemoveEdge(e graph.Handle) { s.edges.Remove(e) }

func (s *Subgraph) HasNode(n graph.Handle) bool { return s.nodes.Has(n) }
func (s *Subgraph) HasEdge(e graph.Handle) bool { return s.edges.Has(e) }

// Contains reports whether a node or an edge is a member.
func (s *Subgraph) Contains(h graph.Handle) bool { return s.nodes.Has(h) || s.edges.Has(h) }

// Nodes returns the member nodes, ascending.
func (s *Subgraph) Nodes() []graph.Handle { return s.nodes.Sorted() }

// Edges returns the member edges, ascending.
func (s *Subgraph) Edges() []graph.Handle { return s.edges.Sorted() }

// Objects returns nodes and edges together, ascending.
func (s *Subgraph) Objects() []graph.Handle { return graph.Union(s.nodes, s.edges).Sorted() }

func (s *Subgraph) NodeCount() int { return s.nodes.Len() }
func (s *Subgraph) EdgeCount() int { return s.edges.Len() }

// Empty reports whether the subgraph has no node.
func (s *Subgraph) Empty() bool { return s.nodes.Len() == 0 }

// Merge adds every member of other.
func (s *Subgraph) Merge(other *Subgraph) {
	for n := range other.nodes {
		s.nodes.Add(n)
	}
	for e := range other.edges {
		s.edges.Add(e)
	}
}

// Clone returns an independent copy.
func (s *Subgraph) Clone() *Subgraph {
	return &Subgraph{nodes: s.nodes.Clone(), edges: s.edges.Clone()}
}

// out returns the member edges leaving n, ascending.
func (s *Subgraph) out(g *graph.Graph, n graph.Handle) []graph.Handle {
	return s.member(g.Edges(n, graph.Downstream))
}

// in returns the member edges entering n, ascending.
func (s *Subgraph) in(g *graph.Graph, n graph.Handle) []graph.Handle {
	return s.member(g.Edges(n, graph.Upstream))
}

func (s *Subgraph) member(edges []graph.Handle) []graph.Handle {
	var out []graph.Handle
	for _, e := range edges {
		if s.edges.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// dropDangling removes edges whose endpoints are not both members.
func (s *Subgraph) dropDangling(g *graph.Graph) {
	for e := range s.edges {
		if !s.nodes.Has(g.Source(e)) || !s.nodes.Has(g.Target(e)) {
			s.edges.Remove(e)
		}
	}
}

// dropUbiquitous removes ubiquitous nodes outside keep, with their edges.
func (s *Subgraph) dropUbiquitous(g *graph.Graph, f graph.Filter, keep graph.Set) {
	if f == nil {
		return
	}
	for n := range s.nodes {
		if !keep.Has(n) && f.IsUbiquitous(g, n) {
			s.RemoveNode(g, n)
		}
	}
}

// passesThrough reports whether n has a member edge in and a member edge
// out. Without direction any two member edges qualify.
func (s *Subgraph) passesThrough(g *graph.Graph, n graph.Handle) bool {
	if g.View() == graph.Undirected {
		return len(s.member(g.Edges(n, graph.Both))) >= 2
	}
	return len(s.out(g, n)) > 0 && len(s.in(g, n)) > 0
}
