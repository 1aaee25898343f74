package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Result is the evidence subgraph of a path or neighbourhood query.
type Result struct {
	*Subgraph
	// Truncated is set when the context ended a search early.
	Truncated bool
}

// PathsBetween returns the paths that lead from any group to a different
// group. With a single group the result is empty; pass a group twice to
// get the paths among its own members.
func PathsBetween(ctx context.Context, g *graph.Graph, groups [][]graph.Handle, opts PathsOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	boundary := graph.NewSet()
	for _, group := range groups {
		set, err := nodeSet(g, group)
		if err != nil {
			return nil, err
		}
		for h := range set {
			boundary.Add(h)
		}
	}

	res := &Result{Subgraph: NewSubgraph()}
	depth := searchDepth(opts)
	fwd := make([]*BFSResult, len(groups))
	rev := make([]*BFSResult, len(groups))
	for i, group := range groups {
		var err error
		fwd[i], err = BFS(ctx, g, BFSOptions{Sources: group, Direction: graph.Downstream, Limit: depth, Filter: opts.Filter})
		if err != nil {
			return nil, err
		}
		rev[i], err = BFS(ctx, g, BFSOptions{Sources: group, Direction: graph.Upstream, Limit: depth, Filter: opts.Filter})
		if err != nil {
			return nil, err
		}
		if fwd[i].Truncated || rev[i].Truncated {
			res.Truncated = true
		}
	}

	for i := range groups {
		for j := range groups {
			if i == j {
				continue
			}
			if bound, ok := pathBound(g, fwd[i], rev[j], boundary, opts); ok {
				collectPaths(g, res.Subgraph, fwd[i], rev[j], bound)
			}
		}
	}

	finish(g, res.Subgraph, boundary, opts.Filter)
	return res, nil
}

// PathsFromTo returns the paths that lead from a source to a target.
func PathsFromTo(ctx context.Context, g *graph.Graph, from, to []graph.Handle, opts PathsOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	sources, err := nodeSet(g, from)
	if err != nil {
		return nil, err
	}
	targets, err := nodeSet(g, to)
	if err != nil {
		return nil, err
	}

	fwdOpts := BFSOptions{Sources: from, Direction: graph.Downstream, Limit: searchDepth(opts), Filter: opts.Filter}
	revOpts := BFSOptions{Sources: to, Direction: graph.Upstream, Limit: searchDepth(opts), Filter: opts.Filter}
	if opts.Strict {
		fwdOpts.Stop = to
		revOpts.Stop = from
	}
	fwd, err := BFS(ctx, g, fwdOpts)
	if err != nil {
		return nil, err
	}
	rev, err := BFS(ctx, g, revOpts)
	if err != nil {
		return nil, err
	}

	res := &Result{Subgraph: NewSubgraph(), Truncated: fwd.Truncated || rev.Truncated}
	boundary := graph.Union(sources, targets)
	if bound, ok := pathBound(g, fwd, rev, boundary, opts); ok {
		collectPaths(g, res.Subgraph, fwd, rev, bound)
	}
	finish(g, res.Subgraph, boundary, opts.Filter)
	return res, nil
}

func searchDepth(opts PathsOptions) int {
	if opts.LimitType == LimitNormal {
		return opts.Limit
	}
	if opts.SearchDepth > 0 {
		return opts.SearchDepth
	}
	return ShortestSearchLimit
}

// pathBound returns the length bound of paths from fwd's sources to rev's
// sources. Under LimitShortestPlusK it is false when no path exists.
// Paths meeting at a ubiquitous intermediate do not count.
func pathBound(g *graph.Graph, fwd, rev *BFSResult, boundary graph.Set, opts PathsOptions) (int, bool) {
	if opts.LimitType == LimitNormal {
		return opts.Limit, true
	}
	shortest := Infinite
	for h, d := range fwd.dist {
		if !boundary.Has(h) && ubiquitous(g, opts.Filter, h) {
			continue
		}
		if sum := addDist(d, rev.Dist(h)); sum < shortest {
			shortest = sum
		}
	}
	if shortest >= Infinite {
		return 0, false
	}
	return shortest + opts.Limit, true
}

// collectPaths adds the nodes and edges lying on a path of length at most
// bound. An edge must have been crossed by both searches, so it never
// leaves a stop node.
func collectPaths(g *graph.Graph, sub *Subgraph, fwd, rev *BFSResult, bound int) {
	for h, d := range fwd.dist {
		if addDist(d, rev.Dist(h)) <= bound {
			sub.AddNode(h)
		}
	}
	for e := range fwd.edges {
		if !rev.edges.Has(e) {
			continue
		}
		if onPath(g, fwd, rev, g.Source(e), g.Target(e), bound) ||
			(g.View() == graph.Undirected && onPath(g, fwd, rev, g.Target(e), g.Source(e), bound)) {
			sub.AddEdge(e)
		}
	}
}

func onPath(g *graph.Graph, fwd, rev *BFSResult, u, v graph.Handle, bound int) bool {
	return addDist(addDist(fwd.Dist(u), cost(g, v)), rev.Dist(v)) <= bound
}

// addDist sums two distances, staying Infinite when either is.
func addDist(a, b int) int {
	if a >= Infinite || b >= Infinite {
		return Infinite
	}
	return a + b
}

// finish applies the clean-up every path query shares: ubiquitous
// intermediates go, then cycles are broken and dead ends pruned.
func finish(g *graph.Graph, sub *Subgraph, boundary graph.Set, f graph.Filter) {
	sub.dropUbiquitous(g, f, boundary)
	sub.dropDangling(g)
	BreakCycles(g, sub, boundary.Sorted())
	Prune(g, sub, boundary.Sorted())
}
