package query

import (
	"context"
	"errors"

	"github.com/dd0wney/cluso-pathways/pkg/algorithms"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

func (e *Executor) pathsOptions(opts TraversalOptions) algorithms.PathsOptions {
	return algorithms.PathsOptions{
		LimitType:   opts.LimitType,
		Limit:       opts.Limit,
		SearchDepth: e.cfg.Traversal.ShortestSearchLimit,
		Strict:      opts.Strict,
		Filter:      e.filter(opts),
	}
}

func (e *Executor) neighborhoodOptions(opts TraversalOptions) algorithms.NeighborhoodOptions {
	return algorithms.NeighborhoodOptions{
		Direction: opts.Direction,
		Limit:     opts.Limit,
		Filter:    e.filter(opts),
	}
}

// subgraph runs a query that yields an evidence subgraph and unwraps it.
func (e *Executor) subgraph(ctx context.Context, algorithm string, opts TraversalOptions, run func(context.Context, TraversalOptions) (*algorithms.Result, error)) (*SubgraphResult, error) {
	var res *algorithms.Result
	runID, out, elapsed, err := e.observe(ctx, algorithm, &opts, func(ctx context.Context) (traversal, error) {
		var err error
		res, err = run(ctx, opts)
		if err != nil {
			return traversal{}, err
		}
		return traversal{nodes: res.NodeCount(), truncated: res.Truncated}, nil
	})
	if err != nil {
		return nil, err
	}
	return &SubgraphResult{
		Nodes:     e.g.UnwrapAll(res.Nodes()),
		Edges:     e.g.UnwrapAll(res.Edges()),
		Truncated: out.truncated,
		RunID:     runID,
		Duration:  elapsed,
	}, nil
}

// Neighborhood returns the objects within the limit of any source.
func (e *Executor) Neighborhood(ctx context.Context, sources []any, opts TraversalOptions) (*SubgraphResult, error) {
	return e.subgraph(ctx, AlgoNeighborhood, opts, func(ctx context.Context, opts TraversalOptions) (*algorithms.Result, error) {
		hs, err := e.g.WrapAll(sources)
		if err != nil {
			return nil, err
		}
		return algorithms.Neighborhood(ctx, e.g, hs, e.neighborhoodOptions(opts))
	})
}

// PathsBetween returns the paths between any two of the sources.
func (e *Executor) PathsBetween(ctx context.Context, sources []any, opts TraversalOptions) (*SubgraphResult, error) {
	groups := make([][]any, len(sources))
	for i, s := range sources {
		groups[i] = []any{s}
	}
	return e.PathsBetweenGroups(ctx, groups, opts)
}

// PathsBetweenGroups returns the paths from any group to a different
// group.
func (e *Executor) PathsBetweenGroups(ctx context.Context, groups [][]any, opts TraversalOptions) (*SubgraphResult, error) {
	return e.subgraph(ctx, AlgoPathsBetween, opts, func(ctx context.Context, opts TraversalOptions) (*algorithms.Result, error) {
		hgroups := make([][]graph.Handle, len(groups))
		for i, group := range groups {
			var err error
			if hgroups[i], err = e.g.WrapAll(group); err != nil {
				return nil, err
			}
		}
		return algorithms.PathsBetween(ctx, e.g, hgroups, e.pathsOptions(opts))
	})
}

// PathsFromTo returns the paths leading from a source to a target.
func (e *Executor) PathsFromTo(ctx context.Context, from, to []any, opts TraversalOptions) (*SubgraphResult, error) {
	return e.subgraph(ctx, AlgoPathsFromTo, opts, func(ctx context.Context, opts TraversalOptions) (*algorithms.Result, error) {
		fh, err := e.g.WrapAll(from)
		if err != nil {
			return nil, err
		}
		th, err := e.g.WrapAll(to)
		if err != nil {
			return nil, err
		}
		return algorithms.PathsFromTo(ctx, e.g, fh, th, e.pathsOptions(opts))
	})
}

// CommonStream returns the objects within the limit of every source in
// the given direction, which must be upstream or downstream.
func (e *Executor) CommonStream(ctx context.Context, sources []any, opts TraversalOptions) (*SubgraphResult, error) {
	return e.subgraph(ctx, AlgoCommonStream, opts, func(ctx context.Context, opts TraversalOptions) (*algorithms.Result, error) {
		hs, err := e.g.WrapAll(sources)
		if err != nil {
			return nil, err
		}
		return algorithms.CommonStream(ctx, e.g, hs, e.neighborhoodOptions(opts))
	})
}

// CommonStreamWithPaths is CommonStream plus the paths that connect the
// sources with their common stream.
func (e *Executor) CommonStreamWithPaths(ctx context.Context, sources []any, opts TraversalOptions) (*SubgraphResult, error) {
	return e.subgraph(ctx, AlgoCommonStreamPaths, opts, func(ctx context.Context, opts TraversalOptions) (*algorithms.Result, error) {
		hs, err := e.g.WrapAll(sources)
		if err != nil {
			return nil, err
		}
		return algorithms.CommonStreamWithPaths(ctx, e.g, hs, e.neighborhoodOptions(opts))
	})
}

// AllPaths collects up to MaxResults simple paths from a source to a
// target, as domain object sequences.
func (e *Executor) AllPaths(ctx context.Context, from, to []any, opts TraversalOptions) (*PathsResult, error) {
	var paths [][]any
	runID, out, elapsed, err := e.observe(ctx, AlgoAllPaths, &opts, func(ctx context.Context) (traversal, error) {
		fh, err := e.g.WrapAll(from)
		if err != nil {
			return traversal{}, err
		}
		th, err := e.g.WrapAll(to)
		if err != nil {
			return traversal{}, err
		}

		it := algorithms.AllPaths(ctx, e.g, fh, th, algorithms.AllPathsOptions{
			Direction: opts.Direction,
			Limit:     opts.Limit,
			Filter:    e.filter(opts),
		})
		var out traversal
		seen := graph.NewSet()
		for p := range it.All() {
			if len(paths) == opts.MaxResults {
				out.truncated = true
				break
			}
			paths = append(paths, e.g.UnwrapAll(p))
			for _, h := range p {
				seen.Add(h)
			}
		}
		if err := it.Err(); err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				return traversal{}, err
			}
			out.truncated = true
		}
		out.nodes = seen.Len()
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return &PathsResult{Paths: paths, Truncated: out.truncated, RunID: runID, Duration: elapsed}, nil
}
