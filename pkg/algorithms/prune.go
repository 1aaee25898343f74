package algorithms

import (
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Prune repeatedly removes the non-boundary nodes of sub that lack a member
// edge in or a member edge out, with their edges, until none is left. It
// also drops edges whose endpoints are not both members. It returns the
// number of nodes removed.
func Prune(g *graph.Graph, sub *Subgraph, boundary []graph.Handle) int {
	keep := graph.NewSet(boundary...)
	removed := 0
	for {
		sub.dropDangling(g)
		var dead []graph.Handle
		for _, n := range sub.Nodes() {
			if !keep.Has(n) && !sub.passesThrough(g, n) {
				dead = append(dead, n)
			}
		}
		if len(dead) == 0 {
			return removed
		}
		for _, n := range dead {
			sub.RemoveNode(g, n)
		}
		removed += len(dead)
	}
}
