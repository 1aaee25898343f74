// Package query runs traversals and pattern searches over domain objects.
//
// An Executor binds a graph to its blacklist, configuration and
// observability. Each call wraps the domain objects it is given, applies
// the configured limits and timeout, and unwraps the result:
//
//	exec, err := query.NewExecutor(g, query.Options{Blacklist: bl, Registry: patterns.Default(bl)})
//	res, err := exec.PathsBetween(ctx, []any{egfr, erk}, query.TraversalOptions{Limit: query.UseDefaultLimit})
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-pathways/pkg/blacklist"
	"github.com/dd0wney/cluso-pathways/pkg/config"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/logging"
	"github.com/dd0wney/cluso-pathways/pkg/metrics"
	"github.com/dd0wney/cluso-pathways/pkg/pattern"
	"github.com/dd0wney/cluso-pathways/pkg/patterns"
)

const tracerName = "github.com/dd0wney/cluso-pathways/pkg/query"

// Algorithm names, used as metric labels and span names.
const (
	AlgoNeighborhood      = "neighborhood"
	AlgoPathsBetween      = "paths_between"
	AlgoPathsFromTo       = "paths_from_to"
	AlgoCommonStream      = "common_stream"
	AlgoCommonStreamPaths = "common_stream_paths"
	AlgoAllPaths          = "all_paths"
)

// ErrNilGraph is returned by NewExecutor without a graph.
var ErrNilGraph = errors.New("executor needs a graph")

// Options configures an Executor. Unset fields fall back to defaults.
type Options struct {
	// Config defaults to config.Default().
	Config    *config.Config
	Blacklist *blacklist.Blacklist
	// Registry resolves the pattern names given to Search. It defaults to
	// the library patterns named by Config.Search.Patterns.
	Registry *pattern.Registry

	// Logger defaults to one built from Config.Logging.
	Logger         logging.Logger
	Metrics        *metrics.Registry
	TracerProvider trace.TracerProvider
}

// Executor runs queries against one graph. It is safe for concurrent use.
type Executor struct {
	g         *graph.Graph
	blacklist *blacklist.Blacklist
	registry  *pattern.Registry
	cfg       config.Config

	searcher      *pattern.Searcher
	searchTimeout TimeoutConfig
	travTimeout   TimeoutConfig
	logger        logging.Logger
	metrics       *metrics.Registry
	tracer        trace.Tracer
}

// NewExecutor creates an executor over g.
func NewExecutor(g *graph.Graph, opts Options) (*Executor, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	searchTimeout := TimeoutConfig{Max: cfg.Search.MaxTimeout, Default: cfg.Search.Timeout}
	if err := searchTimeout.Validate(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	travTimeout := DefaultQueryTimeoutConfig()
	travTimeout.Default = cfg.Traversal.Timeout
	if err := travTimeout.Validate(); err != nil {
		return nil, fmt.Errorf("traversal: %w", err)
	}

	registry := opts.Registry
	if registry == nil {
		var err error
		if registry, err = patterns.Select(opts.Blacklist, cfg.Search.Patterns); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Logging); err != nil {
			return nil, err
		}
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	e := &Executor{
		g:         g,
		blacklist: opts.Blacklist,
		registry:  registry,
		cfg:       cfg,
		searcher: pattern.NewSearcher(pattern.Options{
			MaxMatches:     cfg.Search.MaxMatches,
			CheckInterval:  cfg.Search.CheckInterval,
			Workers:        cfg.Search.Workers,
			Logger:         logger,
			Metrics:        opts.Metrics,
			TracerProvider: tp,
		}),
		searchTimeout: searchTimeout,
		travTimeout:   travTimeout,
		logger:        logger.With(logging.Component("executor")),
		metrics:       opts.Metrics,
		tracer:        tp.Tracer(tracerName),
	}
	if e.metrics != nil {
		e.metrics.RecordGraph(g.NodeCount(), g.EdgeCount())
		e.metrics.RecordBlacklist(e.blacklist.Len())
	}
	return e, nil
}

// Graph returns the graph the executor queries.
func (e *Executor) Graph() *graph.Graph { return e.g }

func (e *Executor) filter(opts TraversalOptions) graph.Filter {
	if opts.NoFilter || e.blacklist == nil {
		return nil
	}
	return e.blacklist
}

// withTimeout bounds ctx; a zero timeout only adds cancellation.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// traversal is the outcome of one traversal body.
type traversal struct {
	nodes     int
	truncated bool
}

// observe validates opts and runs body inside the query's span, timeout,
// log lines and metrics.
func (e *Executor) observe(ctx context.Context, algorithm string, opts *TraversalOptions, body func(context.Context) (traversal, error)) (string, traversal, time.Duration, error) {
	runID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "query."+algorithm,
		trace.WithAttributes(
			attribute.String("query.algorithm", algorithm),
			attribute.String("query.run_id", runID),
		),
	)
	defer span.End()

	logger := e.logger.With(logging.RunID(runID), logging.Query(algorithm))
	timer := logging.StartTimer(logger, "traversal")

	var out traversal
	capped, err := ValidateTraversalOptions(opts, e.cfg.Traversal.DefaultLimit, e.cfg.Traversal.MaxLimit)
	if err == nil {
		if capped {
			logger.Warn("max results capped", logging.Count(MaxAllowedResults))
		}
		span.SetAttributes(
			attribute.String("query.direction", opts.Direction.String()),
			attribute.Int("query.limit", opts.Limit),
		)
		tctx, cancel := withTimeout(ctx, ValidateTimeout(opts.Timeout, e.travTimeout))
		out, err = body(tctx)
		cancel()
	}
	elapsed := timer.Elapsed()

	if e.metrics != nil {
		e.metrics.RecordTraversal(algorithm, metrics.Status(err, out.truncated), elapsed, out.nodes)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		timer.EndError(err)
		return runID, out, elapsed, err
	}

	span.SetAttributes(
		attribute.Int("query.result_nodes", out.nodes),
		attribute.Bool("query.truncated", out.truncated),
	)
	fields := []logging.Field{logging.Count(out.nodes), logging.Limit(opts.Limit)}
	if out.truncated {
		timer.EndWithLevel(logging.WarnLevel, "traversal truncated", append(fields, logging.Truncated(true))...)
	} else {
		timer.EndWithLevel(logging.DebugLevel, "traversal finished", fields...)
	}
	return runID, out, elapsed, nil
}
