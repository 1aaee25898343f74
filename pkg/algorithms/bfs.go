package algorithms

import (
	"container/list"
	"context"
	"fmt"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// BFSOptions configures BFS.
type BFSOptions struct {
	Sources   []graph.Handle
	Direction graph.Direction
	// Limit bounds distances. Zero labels the sources only.
	Limit int
	// Stop nodes are labelled but not expanded.
	Stop []graph.Handle
	// Filter marks ubiquitous nodes, which are labelled but not expanded
	// unless they are sources.
	Filter graph.Filter
}

// BFSResult holds the distances a BFS assigned.
type BFSResult struct {
	dist  map[graph.Handle]int
	edges graph.Set
	// Truncated is set when the context ended the search early; the
	// distances found so far are kept.
	Truncated bool
}

// Dist returns the distance of h, or Infinite when h was not reached.
func (r *BFSResult) Dist(h graph.Handle) int {
	if d, ok := r.dist[h]; ok {
		return d
	}
	return Infinite
}

// Reached returns every labelled node, ascending.
func (r *BFSResult) Reached() []graph.Handle {
	set := make(graph.Set, len(r.dist))
	for h := range r.dist {
		set.Add(h)
	}
	return set.Sorted()
}

// Len returns the number of labelled nodes.
func (r *BFSResult) Len() int { return len(r.dist) }

// ByDistance groups the labelled nodes by distance, each group ascending.
func (r *BFSResult) ByDistance() map[int][]graph.Handle {
	out := make(map[int][]graph.Handle)
	for _, h := range r.Reached() {
		d := r.dist[h]
		out[d] = append(out[d], h)
	}
	return out
}

// Edges returns the edges crossed within the limit, ascending.
func (r *BFSResult) Edges() []graph.Handle { return r.edges.Sorted() }

// BFS labels the nodes reachable from the sources with their distance.
//
// Distance counts breadth nodes: Downstream and Both steps add the cost of
// the node entered, Upstream steps the cost of the node left, so a forward
// and a reverse distance add up to the length of the joined path.
// Steps that cost nothing are explored first (0-1 BFS).
func BFS(ctx context.Context, g *graph.Graph, opts BFSOptions) (*BFSResult, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidOptions, opts.Limit)
	}
	if err := validateDirection(opts.Direction); err != nil {
		return nil, err
	}
	sources, err := nodeSet(g, opts.Sources)
	if err != nil {
		return nil, err
	}
	stop, err := nodeSet(g, opts.Stop)
	if err != nil {
		return nil, err
	}

	res := &BFSResult{dist: make(map[graph.Handle]int, len(sources)), edges: graph.NewSet()}
	deque := list.New()
	for _, s := range sources.Sorted() {
		res.dist[s] = 0
		deque.PushBack(s)
	}
	if opts.Limit == 0 {
		return res, nil
	}

	done := graph.NewSet()
	for deque.Len() > 0 {
		if ctx.Err() != nil {
			res.Truncated = true
			return res, nil
		}
		current := deque.Remove(deque.Front()).(graph.Handle)
		if !done.Add(current) {
			continue
		}
		if !sources.Has(current) && (stop.Has(current) || ubiquitous(g, opts.Filter, current)) {
			continue
		}

		d := res.dist[current]
		for _, e := range g.Edges(current, opts.Direction) {
			next := g.Step(current, e, opts.Direction)
			step := cost(g, next)
			if opts.Direction == graph.Upstream {
				step = cost(g, current)
			}
			nd := d + step
			if nd > opts.Limit {
				continue
			}
			res.edges.Add(e)
			if old, ok := res.dist[next]; ok && old <= nd {
				continue
			}
			res.dist[next] = nd
			if step == 0 {
				deque.PushFront(next)
			} else {
				deque.PushBack(next)
			}
		}
	}
	return res, nil
}
