package algorithms

import (
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

const (
	white = iota // unvisited
	gray         // on the DFS stack
	black        // finished
)

type dfsFrame struct {
	node  graph.Handle
	edges []graph.Handle
	next  int
}

// BreakCycles removes cycle edges of sub that the paths between boundary
// nodes do not need, and returns how many it removed.
//
// It runs a three-colour DFS over the member edges, from the boundary
// nodes first and then from the other nodes, in handle order. A back edge
// is kept when the cycle it closes passes through a boundary node, or when
// removing it would disconnect a node from the boundary (reachable from
// it, or reaching it). Every other back edge is removed. In the undirected
// view there are no cycles to break.
func BreakCycles(g *graph.Graph, sub *Subgraph, boundary []graph.Handle) int {
	if g.View() == graph.Undirected {
		return 0
	}
	bset := graph.NewSet(boundary...)
	var order []graph.Handle
	for _, b := range bset.Sorted() {
		if sub.HasNode(b) {
			order = append(order, b)
		}
	}
	for _, n := range sub.Nodes() {
		if !bset.Has(n) {
			order = append(order, n)
		}
	}

	connected := connectedToBoundary(g, sub, bset).Len()
	color := make(map[graph.Handle]int, sub.NodeCount())
	depth := make(map[graph.Handle]int) // position on the stack of gray nodes
	removed := 0

	for _, root := range order {
		if color[root] != white {
			continue
		}
		color[root] = gray
		depth[root] = 0
		stack := []dfsFrame{{node: root, edges: sub.out(g, root)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.edges) {
				color[top.node] = black
				delete(depth, top.node)
				stack = stack[:len(stack)-1]
				continue
			}
			e := top.edges[top.next]
			top.next++
			if !sub.HasEdge(e) {
				continue
			}
			v := g.Target(e)
			if !sub.HasNode(v) {
				continue
			}

			switch color[v] {
			case white:
				color[v] = gray
				depth[v] = len(stack)
				stack = append(stack, dfsFrame{node: v, edges: sub.out(g, v)})
			case gray:
				if closesThroughBoundary(stack[depth[v]:], bset) {
					continue
				}
				sub.RemoveEdge(e)
				if connectedToBoundary(g, sub, bset).Len() < connected {
					sub.AddEdge(e)
					continue
				}
				removed++
			}
		}
	}
	return removed
}

func closesThroughBoundary(cycle []dfsFrame, boundary graph.Set) bool {
	for _, f := range cycle {
		if boundary.Has(f.node) {
			return true
		}
	}
	return false
}

// connectedToBoundary returns the member nodes reachable from a boundary
// node or reaching one over member edges.
func connectedToBoundary(g *graph.Graph, sub *Subgraph, boundary graph.Set) graph.Set {
	seen := graph.NewSet()
	for _, dir := range []graph.Direction{graph.Downstream, graph.Upstream} {
		visited := graph.NewSet()
		var queue []graph.Handle
		for b := range boundary {
			if sub.HasNode(b) {
				visited.Add(b)
				queue = append(queue, b)
			}
		}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			seen.Add(n)
			for _, e := range sub.member(g.Edges(n, dir)) {
				next := g.Step(n, e, dir)
				if sub.HasNode(next) && visited.Add(next) {
					queue = append(queue, next)
				}
			}
		}
	}
	return seen
}
