package pattern

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/logging"
	"github.com/dd0wney/cluso-pathways/pkg/metrics"
	"github.com/dd0wney/cluso-pathways/pkg/parallel"
)

const tracerName = "github.com/dd0wney/cluso-pathways/pkg/pattern"

// Search modes, used as metric and span labels.
const (
	ModeSingle   = "single"
	ModeAll      = "all"
	ModeParallel = "parallel"
)

// Defaults applied by NewSearcher.
const (
	DefaultCheckInterval = 1
	DefaultWorkers       = 4
)

// ErrInvalidSeed is returned when seeds name unknown labels, miss the start
// label or hold handles outside the graph.
var ErrInvalidSeed = errors.New("invalid search seed")

// Options configures a Searcher.
type Options struct {
	// MaxMatches stops the search once this many distinct matches are
	// found. Zero means unlimited.
	MaxMatches int
	// CheckInterval is the number of backtracking steps between checks of
	// the context and ShouldContinue.
	CheckInterval int
	// ShouldContinue is polled with the context; returning false stops the
	// search. SearchAllParallel calls it from several goroutines.
	ShouldContinue func() bool
	// Workers bounds SearchAllParallel.
	Workers int

	Logger         logging.Logger
	Metrics        *metrics.Registry
	TracerProvider trace.TracerProvider
}

// Result is the outcome of one search.
type Result struct {
	Matches []Match
	// Truncated is set when the search stopped before exhausting the
	// space: on cancellation, on ShouldContinue returning false, or on
	// reaching MaxMatches.
	Truncated bool
	Steps     int64
	// Starts counts the start objects tried, in handle order, before the
	// search ended.
	Starts   int
	Duration time.Duration
}

// Searcher finds every binding of a pattern by depth-first backtracking.
// A Searcher holds no per-search state and may be shared.
type Searcher struct {
	opts   Options
	logger logging.Logger
	tracer trace.Tracer
}

// NewSearcher creates a searcher, filling unset options with defaults.
func NewSearcher(opts Options) *Searcher {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = DefaultCheckInterval
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxMatches < 0 {
		opts.MaxMatches = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Searcher{
		opts:   opts,
		logger: logger.With(logging.Component("searcher")),
		tracer: tp.Tracer(tracerName),
	}
}

// Search finds the matches of p with the labelled slots of seeds bound in
// advance. Seeds must bind the start label. A start object that is not of
// the pattern's start type yields no matches.
func (s *Searcher) Search(ctx context.Context, g *graph.Graph, p *Pattern, seeds map[string]graph.Handle) (*Result, error) {
	return s.observe(ctx, ModeSingle, g, p, func(ctx context.Context, r *run) error {
		binding, seeded, err := bindSeeds(g, p, seeds)
		if err != nil {
			return err
		}
		r.starts = 1
		if startMatches(g, p, binding[0]) {
			r.search(binding, seeded)
		}
		return nil
	})
}

// SearchFrom finds the matches of p that start at one object.
func (s *Searcher) SearchFrom(ctx context.Context, g *graph.Graph, p *Pattern, start graph.Handle) (*Result, error) {
	return s.Search(ctx, g, p, map[string]graph.Handle{p.Label(0): start})
}

// SearchAll tries every node of the pattern's start type as start, in
// handle order.
func (s *Searcher) SearchAll(ctx context.Context, g *graph.Graph, p *Pattern) (*Result, error) {
	return s.observe(ctx, ModeAll, g, p, func(ctx context.Context, r *run) error {
		for _, start := range Starts(g, p) {
			if r.stopped {
				break
			}
			r.starts++
			binding, seeded := freshBinding(p, start)
			r.search(binding, seeded)
		}
		return nil
	})
}

// SearchAllParallel is SearchAll with the starts spread over Workers
// goroutines. Its result equals SearchAll's.
func (s *Searcher) SearchAllParallel(ctx context.Context, g *graph.Graph, p *Pattern) (*Result, error) {
	return s.observe(ctx, ModeParallel, g, p, func(ctx context.Context, r *run) error {
		starts := Starts(g, p)

		perStart := s.opts
		if len(p.symmetric) > 0 {
			// Deduplication across starts can drop matches of one start in
			// favour of another, so no per-start cap is safe.
			perStart.MaxMatches = 0
		}
		parts, err := parallel.Map(ctx, s.opts.Workers, s.logger, starts, func(ctx context.Context, start graph.Handle) *run {
			sub := newRun(ctx, g, p, perStart)
			binding, seeded := freshBinding(p, start)
			sub.search(binding, seeded)
			return sub
		})
		if err != nil && !errors.Is(err, ctx.Err()) {
			return err
		}

		for _, part := range parts {
			if r.stopped {
				// MaxMatches reached; later starts are not part of the result.
				break
			}
			r.starts++
			if part == nil {
				// not started before cancellation
				r.truncated = true
				continue
			}
			r.steps += part.steps
			if part.truncated && !part.capped {
				r.truncated = true
			}
			for _, tuple := range part.tuples {
				r.collect(tuple)
			}
		}
		if err != nil {
			r.truncated = true
		}
		return nil
	})
}

// Collect returns the distinct objects bound to label over the matches of
// every given start, ascending. The flag reports truncation.
func (s *Searcher) Collect(ctx context.Context, g *graph.Graph, p *Pattern, starts []graph.Handle, label string) ([]graph.Handle, bool, error) {
	slot, ok := p.IndexOf(label)
	if !ok {
		return nil, false, fmt.Errorf("%w: unknown label %q", ErrInvalidSeed, label)
	}
	out := graph.NewSet()
	truncated := false
	for _, start := range starts {
		res, err := s.SearchFrom(ctx, g, p, start)
		if err != nil {
			return nil, false, err
		}
		for _, m := range res.Matches {
			out.Add(m.At(slot))
		}
		if res.Truncated {
			truncated = true
			break
		}
	}
	return out.Sorted(), truncated, nil
}

// HasSolution reports whether the seeded pattern has at least one match.
func (s *Searcher) HasSolution(ctx context.Context, g *graph.Graph, p *Pattern, seeds map[string]graph.Handle) (bool, error) {
	one := *s
	one.opts.MaxMatches = 1
	res, err := one.Search(ctx, g, p, seeds)
	if err != nil {
		return false, err
	}
	return len(res.Matches) > 0, nil
}

// Starts lists the nodes of g that can start p, ascending.
func Starts(g *graph.Graph, p *Pattern) []graph.Handle {
	var out []graph.Handle
	for _, n := range g.Nodes() {
		if startMatches(g, p, n) {
			out = append(out, n)
		}
	}
	return out
}

func startMatches(g *graph.Graph, p *Pattern, h graph.Handle) bool {
	return p.startType == "" || g.IsA(h, p.startType)
}

func freshBinding(p *Pattern, start graph.Handle) ([]graph.Handle, []bool) {
	binding := make([]graph.Handle, p.Size())
	seeded := make([]bool, p.Size())
	binding[0], seeded[0] = start, true
	return binding, seeded
}

func bindSeeds(g *graph.Graph, p *Pattern, seeds map[string]graph.Handle) ([]graph.Handle, []bool, error) {
	binding := make([]graph.Handle, p.Size())
	seeded := make([]bool, p.Size())
	for label, h := range seeds {
		slot, ok := p.IndexOf(label)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown label %q", ErrInvalidSeed, label)
		}
		if !g.Contains(h) {
			return nil, nil, fmt.Errorf("%w: label %q: %w", ErrInvalidSeed, label, graph.ErrInvalidHandle)
		}
		binding[slot], seeded[slot] = h, true
	}
	if !seeded[0] {
		return nil, nil, fmt.Errorf("%w: start label %q not bound", ErrInvalidSeed, p.Label(0))
	}
	return binding, seeded, nil
}

// observe wraps a search body with its span, run id, log lines and
// metrics, then sorts the collected matches.
func (s *Searcher) observe(ctx context.Context, mode string, g *graph.Graph, p *Pattern, body func(context.Context, *run) error) (*Result, error) {
	runID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "pattern.Search",
		trace.WithAttributes(
			attribute.String("search.mode", mode),
			attribute.String("search.run_id", runID),
			attribute.String("pattern.start_type", p.startType),
			attribute.Int("pattern.size", p.Size()),
		),
	)
	defer span.End()

	logger := s.logger.With(logging.RunID(runID), logging.Query(mode))
	timer := logging.StartTimer(logger, "search", logging.String("start_type", p.startType))

	r := newRun(ctx, g, p, s.opts)
	err := body(ctx, r)
	res := r.result()
	res.Duration = timer.Elapsed()

	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordSearch(mode, metrics.Status(err, res.Truncated), res.Duration, len(res.Matches), res.Steps)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		timer.EndError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("search.matches", len(res.Matches)),
		attribute.Int64("search.steps", res.Steps),
		attribute.Bool("search.truncated", res.Truncated),
	)
	fields := []logging.Field{logging.Matches(len(res.Matches)), logging.Steps(res.Steps), logging.Count(res.Starts)}
	if res.Truncated {
		timer.EndWithLevel(logging.WarnLevel, "search truncated", append(fields, logging.Truncated(true))...)
	} else {
		timer.EndWithLevel(logging.DebugLevel, "search finished", fields...)
	}
	return res, nil
}

// run is the state of one search; it is never shared between goroutines.
type run struct {
	ctx     context.Context
	g       *graph.Graph
	p       *Pattern
	opts    Options
	tuples  [][]graph.Handle
	seen    map[string]int // canonical key -> index in tuples
	steps   int64
	starts  int
	stopped bool
	// truncated is set whenever the search stops early; capped tells that
	// the stop came from MaxMatches.
	truncated bool
	capped    bool
}

type frame struct {
	pos   int
	cands []graph.Handle
	next  int
}

// checked is the single candidate of a frame whose constraint only checks.
var checked = []graph.Handle{graph.None}

func newRun(ctx context.Context, g *graph.Graph, p *Pattern, opts Options) *run {
	r := &run{ctx: ctx, g: g, p: p, opts: opts}
	if len(p.symmetric) > 0 {
		r.seen = make(map[string]int)
	}
	return r
}

// tick counts a step and polls for cancellation every CheckInterval steps.
func (r *run) tick() bool {
	if r.stopped {
		return false
	}
	r.steps++
	if r.steps%int64(r.opts.CheckInterval) == 0 {
		if r.ctx.Err() != nil || (r.opts.ShouldContinue != nil && !r.opts.ShouldContinue()) {
			r.stopped, r.truncated = true, true
			return false
		}
	}
	return true
}

func (r *run) frame(pos int, binding []graph.Handle, seeded []bool) frame {
	e := r.p.entries[pos]
	if e.produces >= 0 && !seeded[e.produces] {
		inputs := make([]graph.Handle, len(e.slots)-1)
		for i, slot := range e.slots[:len(e.slots)-1] {
			inputs[i] = binding[slot]
		}
		return frame{pos: pos, cands: generate(r.g, e.c, inputs)}
	}

	args := make([]graph.Handle, len(e.slots))
	for i, slot := range e.slots {
		args[i] = binding[slot]
	}
	if satisfies(r.g, e.c, args) {
		return frame{pos: pos, cands: checked}
	}
	return frame{pos: pos}
}

// search enumerates every completion of a partial binding with an explicit
// stack of frames, one per pattern entry.
func (r *run) search(binding []graph.Handle, seeded []bool) {
	entries := r.p.entries
	if len(entries) == 0 {
		if r.tick() {
			r.collect(binding)
		}
		return
	}

	stack := []frame{r.frame(0, binding, seeded)}
	for len(stack) > 0 {
		if !r.tick() {
			return
		}
		top := &stack[len(stack)-1]
		e := entries[top.pos]
		binds := e.produces >= 0 && !seeded[e.produces]

		if top.next >= len(top.cands) {
			if binds {
				binding[e.produces] = graph.None
			}
			stack = stack[:len(stack)-1]
			continue
		}
		h := top.cands[top.next]
		top.next++
		if binds {
			binding[e.produces] = h
		}

		if top.pos == len(entries)-1 {
			r.collect(binding)
			if r.stopped {
				return
			}
			continue
		}
		stack = append(stack, r.frame(top.pos+1, binding, seeded))
	}
}

// collect records a complete binding, collapsing symmetric duplicates onto
// the smallest tuple.
func (r *run) collect(binding []graph.Handle) {
	tuple := append([]graph.Handle(nil), binding...)
	if r.seen != nil {
		key := tupleKey(r.canonical(tuple))
		if i, ok := r.seen[key]; ok {
			if lessTuple(tuple, r.tuples[i]) {
				r.tuples[i] = tuple
			}
			return
		}
		r.seen[key] = len(r.tuples)
	}
	r.tuples = append(r.tuples, tuple)

	if r.opts.MaxMatches > 0 && len(r.tuples) >= r.opts.MaxMatches {
		r.stopped, r.truncated, r.capped = true, true, true
	}
}

func (r *run) canonical(tuple []graph.Handle) []graph.Handle {
	c := append([]graph.Handle(nil), tuple...)
	for _, group := range r.p.symmetric {
		vals := make([]graph.Handle, len(group))
		for i, slot := range group {
			vals[i] = c[slot]
		}
		graph.SortHandles(vals)
		slots := append([]int(nil), group...)
		sort.Ints(slots)
		for i, slot := range slots {
			c[slot] = vals[i]
		}
	}
	return c
}

func (r *run) result() *Result {
	sort.Slice(r.tuples, func(i, j int) bool { return lessTuple(r.tuples[i], r.tuples[j]) })
	tuples := r.tuples
	if r.opts.MaxMatches > 0 && len(tuples) > r.opts.MaxMatches {
		tuples = tuples[:r.opts.MaxMatches]
	}
	if r.opts.MaxMatches > 0 && len(tuples) == r.opts.MaxMatches {
		r.truncated = true
	}

	res := &Result{Truncated: r.truncated, Steps: r.steps, Starts: r.starts}
	res.Matches = make([]Match, len(tuples))
	for i, t := range tuples {
		res.Matches[i] = Match{values: t, pattern: r.p, graph: r.g}
	}
	return res
}
