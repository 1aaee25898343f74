package blacklist

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Defaults of the computed strategy.
const (
	DefaultDegreeThreshold = 30
	DefaultContextRatio    = 10.0
)

// ErrInvalidOptions is returned by Compute for unusable options.
var ErrInvalidOptions = errors.New("invalid blacklist options")

// Options configures Compute.
type Options struct {
	// DegreeThreshold marks nodes whose incoming plus outgoing degree
	// exceeds it. Zero or less disables the degree rule.
	DegreeThreshold int
	// ExcludedTypes marks every node of these types (or their subtypes).
	ExcludedTypes []string
	// ContextRatio decides the role: a node with more than ContextRatio times
	// as many upstream-only as downstream-only neighbours is ubiquitous as an
	// output, and the mirror case as an input.
	ContextRatio float64
}

// DefaultOptions returns the default computed strategy.
func DefaultOptions() Options {
	return Options{
		DegreeThreshold: DefaultDegreeThreshold,
		ContextRatio:    DefaultContextRatio,
	}
}

// Compute derives a blacklist from the structure of g. The result depends
// only on g and opts.
func Compute(g *graph.Graph, opts Options) (*Blacklist, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidOptions)
	}
	if opts.ContextRatio < 0 {
		return nil, fmt.Errorf("%w: negative context ratio %v", ErrInvalidOptions, opts.ContextRatio)
	}
	if opts.ContextRatio == 0 {
		opts.ContextRatio = DefaultContextRatio
	}

	var entries []Entry
	for _, n := range g.Nodes() {
		excluded := false
		for _, typ := range opts.ExcludedTypes {
			if g.IsA(n, typ) {
				excluded = true
				break
			}
		}
		if !excluded && (opts.DegreeThreshold <= 0 || g.Degree(n) <= opts.DegreeThreshold) {
			continue
		}
		entries = append(entries, classify(g, n, opts.ContextRatio))
	}
	return New(entries...), nil
}

func classify(g *graph.Graph, n graph.Handle, ratio float64) Entry {
	up := graph.NewSet(g.Neighbors(n, graph.Upstream)...)
	down := graph.NewSet(g.Neighbors(n, graph.Downstream)...)
	all := graph.Union(up, down)

	upOnly, downOnly := 0, 0
	for h := range up {
		if !down.Has(h) {
			upOnly++
		}
	}
	for h := range down {
		if !up.Has(h) {
			downOnly++
		}
	}

	ctx := Both
	switch {
	case float64(upOnly) > ratio*float64(downOnly):
		ctx = Output
	case float64(downOnly) > ratio*float64(upOnly):
		ctx = Input
	}
	return Entry{ID: g.ID(n), Score: all.Len(), Context: ctx}
}
