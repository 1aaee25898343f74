package algorithms

import (
	"context"
	"fmt"
	"iter"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// AllPathsOptions configures AllPaths.
type AllPathsOptions struct {
	Direction graph.Direction
	// Limit bounds path length, counted like BFS distances.
	Limit  int
	Filter graph.Filter
}

type pathFrame struct {
	node graph.Handle
	next []graph.Handle
	pos  int
	dist int
}

// PathIterator enumerates simple paths lazily. It is finite and cannot be
// restarted; it is not safe for concurrent use.
type PathIterator struct {
	ctx     context.Context
	g       *graph.Graph
	opts    AllPathsOptions
	sources []graph.Handle
	targets graph.Set
	started int
	stack   []pathFrame
	onPath  graph.Set
	err     error
	done    bool
}

// AllPaths returns an iterator over every simple path from a node of from
// to a node of to whose length is within Limit. Paths have at least one
// edge. Ubiquitous nodes may only end a path, or start one as a source.
// Paths come out source by source in handle order, depth first.
func AllPaths(ctx context.Context, g *graph.Graph, from, to []graph.Handle, opts AllPathsOptions) *PathIterator {
	it := &PathIterator{ctx: ctx, g: g, opts: opts, onPath: graph.NewSet()}
	if opts.Limit < 0 {
		it.fail(fmt.Errorf("%w: negative limit %d", ErrInvalidOptions, opts.Limit))
		return it
	}
	if err := validateDirection(opts.Direction); err != nil {
		it.fail(err)
		return it
	}
	sources, err := nodeSet(g, from)
	if err != nil {
		it.fail(err)
		return it
	}
	if it.targets, err = nodeSet(g, to); err != nil {
		it.fail(err)
		return it
	}
	it.sources = sources.Sorted()
	return it
}

func (it *PathIterator) fail(err error) {
	it.err, it.done = err, true
}

// Next returns the next path as a node sequence, or false when the
// enumeration is over. Err tells whether it ended early.
func (it *PathIterator) Next() ([]graph.Handle, bool) {
	for !it.done {
		if err := it.ctx.Err(); err != nil {
			it.fail(err)
			break
		}
		if len(it.stack) == 0 {
			if it.started == len(it.sources) {
				it.done = true
				break
			}
			s := it.sources[it.started]
			it.started++
			it.push(s, 0)
			continue
		}

		top := &it.stack[len(it.stack)-1]
		if top.pos >= len(top.next) {
			it.onPath.Remove(top.node)
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		v := top.next[top.pos]
		top.pos++
		if it.onPath.Has(v) {
			continue
		}
		d := top.dist + cost(it.g, v)
		if it.opts.Direction == graph.Upstream {
			d = top.dist + cost(it.g, top.node)
		}
		if d > it.opts.Limit {
			continue
		}

		var path []graph.Handle
		if it.targets.Has(v) {
			path = it.path(v)
		}
		if !ubiquitous(it.g, it.opts.Filter, v) {
			it.push(v, d)
		}
		if path != nil {
			return path, true
		}
	}
	return nil, false
}

func (it *PathIterator) push(n graph.Handle, dist int) {
	it.onPath.Add(n)
	it.stack = append(it.stack, pathFrame{node: n, next: it.g.Neighbors(n, it.opts.Direction), dist: dist})
}

func (it *PathIterator) path(last graph.Handle) []graph.Handle {
	out := make([]graph.Handle, 0, len(it.stack)+1)
	for _, f := range it.stack {
		out = append(out, f.node)
	}
	return append(out, last)
}

// Err returns the error that ended the enumeration: invalid options or the
// context's error.
func (it *PathIterator) Err() error { return it.err }

// All adapts the iterator to a range-over-func sequence.
func (it *PathIterator) All() iter.Seq[[]graph.Handle] {
	return func(yield func([]graph.Handle) bool) {
		for {
			p, ok := it.Next()
			if !ok || !yield(p) {
				return
			}
		}
	}
}

// Collect drains the iterator.
func (it *PathIterator) Collect() ([][]graph.Handle, error) {
	var out [][]graph.Handle
	for p := range it.All() {
		out = append(out, p)
	}
	return out, it.Err()
}
