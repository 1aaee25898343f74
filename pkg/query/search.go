package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/logging"
	"github.com/dd0wney/cluso-pathways/pkg/pattern"
)

// SearchOptions configures one pattern search.
type SearchOptions struct {
	// Seeds binds labels to domain objects in advance and must include
	// the start label. Without seeds the whole graph is searched.
	Seeds   map[string]any
	Timeout time.Duration
}

// SearchResult holds the matches of one search.
type SearchResult struct {
	Pattern   string
	Matches   []pattern.Match
	Truncated bool
	Steps     int64
	RunID     string
	Duration  time.Duration
}

// Search runs the pattern registered under name.
func (e *Executor) Search(ctx context.Context, name string, opts SearchOptions) (*SearchResult, error) {
	p, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return e.SearchPattern(ctx, name, p, opts)
}

// SearchPattern runs p, reporting it under name.
func (e *Executor) SearchPattern(ctx context.Context, name string, p *pattern.Pattern, opts SearchOptions) (*SearchResult, error) {
	runID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "query.Search",
		trace.WithAttributes(
			attribute.String("query.pattern", name),
			attribute.String("query.run_id", runID),
			attribute.Bool("query.seeded", opts.Seeds != nil),
		),
	)
	defer span.End()
	logger := e.logger.With(logging.RunID(runID), logging.Pattern(name))

	res, err := e.search(ctx, p, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("search failed", logging.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("query.matches", len(res.Matches)),
		attribute.Bool("query.truncated", res.Truncated),
	)
	logger.Debug("search finished", logging.Matches(len(res.Matches)), logging.Truncated(res.Truncated))
	return &SearchResult{
		Pattern:   name,
		Matches:   res.Matches,
		Truncated: res.Truncated,
		Steps:     res.Steps,
		RunID:     runID,
		Duration:  res.Duration,
	}, nil
}

func (e *Executor) search(ctx context.Context, p *pattern.Pattern, opts SearchOptions) (*pattern.Result, error) {
	ctx, cancel := withTimeout(ctx, ValidateTimeout(opts.Timeout, e.searchTimeout))
	defer cancel()

	if opts.Seeds == nil {
		if e.cfg.Search.Workers > 1 {
			return e.searcher.SearchAllParallel(ctx, e.g, p)
		}
		return e.searcher.SearchAll(ctx, e.g, p)
	}

	seeds := make(map[string]graph.Handle, len(opts.Seeds))
	for label, obj := range opts.Seeds {
		h, err := e.g.Wrap(obj)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", label, err)
		}
		seeds[label] = h
	}
	return e.searcher.Search(ctx, e.g, p, seeds)
}

// Collect returns the distinct objects bound to label over the matches of
// the named pattern started from each of starts.
func (e *Executor) Collect(ctx context.Context, name string, starts []any, label string) ([]any, bool, error) {
	p, err := e.registry.Get(name)
	if err != nil {
		return nil, false, err
	}
	hs, err := e.g.WrapAll(starts)
	if err != nil {
		return nil, false, err
	}
	ctx, cancel := withTimeout(ctx, ValidateTimeout(0, e.searchTimeout))
	defer cancel()

	out, truncated, err := e.searcher.Collect(ctx, e.g, p, hs, label)
	if err != nil {
		return nil, false, err
	}
	return e.g.UnwrapAll(out), truncated, nil
}
