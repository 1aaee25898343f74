package algorithms

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// NeighborhoodOptions configures Neighborhood and the common stream
// queries.
type NeighborhoodOptions struct {
	// Direction Both unions a downstream and an upstream search; the
	// common stream queries reject it.
	Direction graph.Direction
	Limit     int
	Filter    graph.Filter
}

func (o NeighborhoodOptions) validate() error {
	if o.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidOptions, o.Limit)
	}
	return validateDirection(o.Direction)
}

// Neighborhood returns the nodes within Limit of any source and the edges
// crossed to reach them.
func Neighborhood(ctx context.Context, g *graph.Graph, sources []graph.Handle, opts NeighborhoodOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	keep, err := nodeSet(g, sources)
	if err != nil {
		return nil, err
	}

	dirs := []graph.Direction{opts.Direction}
	if opts.Direction == graph.Both {
		dirs = []graph.Direction{graph.Downstream, graph.Upstream}
	}
	res := &Result{Subgraph: NewSubgraph()}
	for _, dir := range dirs {
		bfs, err := BFS(ctx, g, BFSOptions{Sources: sources, Direction: dir, Limit: opts.Limit, Filter: opts.Filter})
		if err != nil {
			return nil, err
		}
		res.Truncated = res.Truncated || bfs.Truncated
		for h := range bfs.dist {
			res.AddNode(h)
		}
		for e := range bfs.edges {
			res.AddEdge(e)
		}
	}

	res.dropUbiquitous(g, opts.Filter, keep)
	res.dropDangling(g)
	return res, nil
}

// CommonStream returns the nodes within Limit of every source, searching
// in Direction. The result has no edges.
func CommonStream(ctx context.Context, g *graph.Graph, sources []graph.Handle, opts NeighborhoodOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Direction == graph.Both {
		return nil, fmt.Errorf("%w: common stream needs upstream or downstream", ErrInvalidOptions)
	}
	keep, err := nodeSet(g, sources)
	if err != nil {
		return nil, err
	}

	res := &Result{Subgraph: NewSubgraph()}
	if keep.Len() == 0 {
		return res, nil
	}
	count := make(map[graph.Handle]int)
	for _, s := range keep.Sorted() {
		bfs, err := BFS(ctx, g, BFSOptions{Sources: []graph.Handle{s}, Direction: opts.Direction, Limit: opts.Limit, Filter: opts.Filter})
		if err != nil {
			return nil, err
		}
		res.Truncated = res.Truncated || bfs.Truncated
		for h := range bfs.dist {
			count[h]++
		}
	}
	for h, n := range count {
		if n == keep.Len() {
			res.AddNode(h)
		}
	}

	res.dropUbiquitous(g, opts.Filter, keep)
	return res, nil
}

// CommonStreamWithPaths returns the paths between the sources and their
// common stream: from the sources down to it, or from it up to the
// sources. Paths may not pass through another endpoint.
func CommonStreamWithPaths(ctx context.Context, g *graph.Graph, sources []graph.Handle, opts NeighborhoodOptions) (*Result, error) {
	common, err := CommonStream(ctx, g, sources, opts)
	if err != nil {
		return nil, err
	}
	if common.Empty() {
		return common, nil
	}

	popts := PathsOptions{LimitType: LimitNormal, Limit: opts.Limit, Strict: true, Filter: opts.Filter}
	var res *Result
	if opts.Direction == graph.Upstream {
		res, err = PathsFromTo(ctx, g, common.Nodes(), sources, popts)
	} else {
		res, err = PathsFromTo(ctx, g, sources, common.Nodes(), popts)
	}
	if err != nil {
		return nil, err
	}
	res.Truncated = res.Truncated || common.Truncated
	return res, nil
}
