package algorithms

import (
	"errors"
	"fmt"
	"math"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Infinite is the distance of a node a traversal did not reach. Distances
// are summed with addDist, which keeps it Infinite.
const Infinite = math.MaxInt32

// ShortestSearchLimit caps the breadth-first searches that look for the
// shortest distance under LimitShortestPlusK.
const ShortestSearchLimit = 25

// ErrInvalidOptions is wrapped by every rejected traversal input.
var ErrInvalidOptions = errors.New("invalid traversal options")

// LimitType selects how a path query bounds path length.
type LimitType uint8

const (
	// LimitShortestPlusK keeps paths at most K longer than the shortest one
	LimitShortestPlusK LimitType = iota
	// LimitNormal keeps every path up to Limit
	LimitNormal
)

func (l LimitType) String() string {
	if l == LimitNormal {
		return "normal"
	}
	return "shortest+k"
}

// PathsOptions configures PathsBetween and PathsFromTo.
type PathsOptions struct {
	LimitType LimitType
	// Limit is K under LimitShortestPlusK and the length bound under
	// LimitNormal. Length counts breadth nodes after the first node.
	Limit int
	// SearchDepth caps the breadth-first searches under
	// LimitShortestPlusK. Zero means ShortestSearchLimit.
	SearchDepth int
	// Strict forbids paths of PathsFromTo from passing through another
	// source or target.
	Strict bool
	// Filter marks ubiquitous nodes, which may end a path but never sit
	// inside one. Nil means no filtering.
	Filter graph.Filter
}

func (o PathsOptions) validate() error {
	if o.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidOptions, o.Limit)
	}
	if o.SearchDepth < 0 {
		return fmt.Errorf("%w: negative search depth %d", ErrInvalidOptions, o.SearchDepth)
	}
	if o.LimitType > LimitNormal {
		return fmt.Errorf("%w: unknown limit type %d", ErrInvalidOptions, o.LimitType)
	}
	return nil
}

func validateDirection(dir graph.Direction) error {
	if dir > graph.Both {
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidOptions, dir)
	}
	return nil
}

// nodeSet checks that every handle is a node of g and returns them as a set.
func nodeSet(g *graph.Graph, hs []graph.Handle) (graph.Set, error) {
	set := graph.NewSet()
	for _, h := range hs {
		if !g.IsNode(h) {
			return nil, fmt.Errorf("%w: %d is not a node: %w", ErrInvalidOptions, h, graph.ErrInvalidHandle)
		}
		set.Add(h)
	}
	return set, nil
}

func ubiquitous(g *graph.Graph, f graph.Filter, h graph.Handle) bool {
	return f != nil && f.IsUbiquitous(g, h)
}

// cost is what entering a node adds to a distance.
func cost(g *graph.Graph, h graph.Handle) int {
	if g.Breadth(h) {
		return 1
	}
	return 0
}
