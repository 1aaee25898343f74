package pattern

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// ErrInvalidConstraint is returned for constraints whose shape cannot be
// evaluated, such as a mapping with the wrong arity.
var ErrInvalidConstraint = errors.New("invalid constraint")

func invalid(c Constraint, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidConstraint, describeConstraint(c), fmt.Sprintf(format, args...))
}

func describeConstraint(c Constraint) string {
	if c == nil {
		return "<nil>"
	}
	return c.String()
}

// Validate checks that a constraint and all of its members are well formed.
func Validate(c Constraint) error {
	if c == nil {
		return invalid(c, "nil constraint")
	}
	switch c := c.(type) {
	case And:
		if len(c.Members) == 0 {
			return invalid(c, "no members")
		}
		return validateMembers(c.Members)
	case Or:
		if len(c.Members) == 0 {
			return invalid(c, "no members")
		}
		if err := validateMembers(c.Members); err != nil {
			return err
		}
		return validateBranches(c, c.Members)
	case Xor:
		members := []Mapped{c.A, c.B}
		if err := validateMembers(members); err != nil {
			return err
		}
		return validateBranches(c, members)
	case Not:
		if c.C == nil {
			return invalid(c, "nil operand")
		}
		return Validate(c.C)
	case Empty:
		return validateGenerator(c, c.C)
	case SelfOrThis:
		return validateGenerator(c, c.C)
	case Size:
		if c.Min < 0 || (c.Max >= 0 && c.Max < c.Min) {
			return invalid(c, "bad bounds")
		}
		if c.Of != nil {
			return validateGenerator(c, c.Of)
		}
		if !c.Path.valid() {
			return invalid(c, "no path")
		}
	case PathConstraint:
		if !c.Path.valid() {
			return invalid(c, "no path")
		}
	case MultiPath:
		if len(c.Paths) == 0 {
			return invalid(c, "no paths")
		}
		for _, p := range c.Paths {
			if !p.valid() {
				return invalid(c, "empty path")
			}
		}
	case Field:
		if !c.Path.valid() {
			return invalid(c, "no path")
		}
		if c.Mode == FieldIntersect && !c.Other.valid() {
			return invalid(c, "no second path")
		}
		if c.Mode > FieldIntersect {
			return invalid(c, "unknown mode %d", c.Mode)
		}
	case ModificationChange:
		if !c.Path.valid() {
			return invalid(c, "no path")
		}
	case Activity:
		if c.Property == "" {
			return invalid(c, "no property")
		}
	case Adjacent:
		if c.Dir > graph.Both {
			return invalid(c, "unknown direction")
		}
	case Incident:
		if c.Dir > graph.Both {
			return invalid(c, "unknown direction")
		}
	case Type, Equality, IDIn, NonUbique, Endpoint, ConversionSide:
	default:
		return invalid(c, "unsupported constraint %T", c)
	}
	return nil
}

func validateMembers(members []Mapped) error {
	for _, m := range members {
		if m.C == nil {
			return invalid(nil, "nil member")
		}
		if err := Validate(m.C); err != nil {
			return err
		}
		if len(m.Idx) != m.C.Size() {
			return invalid(m.C, "mapped to %d slots, needs %d", len(m.Idx), m.C.Size())
		}
		for _, i := range m.Idx {
			if i < 0 {
				return invalid(m.C, "negative slot %d", i)
			}
		}
	}
	return nil
}

// validateBranches requires that, when a disjunction produces its last slot,
// every branch produces it.
func validateBranches(c Constraint, members []Mapped) error {
	if !c.Generative() {
		return nil
	}
	last := c.Size() - 1
	for _, m := range members {
		if !m.generates(last) {
			return invalid(c, "branch %s does not produce the last slot", m)
		}
	}
	return nil
}

func validateGenerator(c, sub Constraint) error {
	if sub == nil {
		return invalid(c, "nil operand")
	}
	if err := Validate(sub); err != nil {
		return err
	}
	if !sub.Generative() || sub.Size() < 2 {
		return invalid(c, "operand must be generative")
	}
	return nil
}

// Evaluate applies a constraint to concrete handles. With Size() inputs it
// returns the input tuple when the constraint holds. With Size()-1 inputs it
// returns one tuple per generated object for the last slot, ascending.
func Evaluate(g *graph.Graph, c Constraint, inputs ...graph.Handle) ([][]graph.Handle, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	for _, h := range inputs {
		if !g.Contains(h) {
			return nil, fmt.Errorf("%w: %d", graph.ErrInvalidHandle, h)
		}
	}
	switch len(inputs) {
	case c.Size():
		if satisfies(g, c, inputs) {
			return [][]graph.Handle{append([]graph.Handle(nil), inputs...)}, nil
		}
		return nil, nil
	case c.Size() - 1:
		if !c.Generative() {
			return nil, invalid(c, "cannot generate from %d inputs", len(inputs))
		}
		var out [][]graph.Handle
		for _, h := range generate(g, c, inputs) {
			tuple := append(append([]graph.Handle(nil), inputs...), h)
			out = append(out, tuple)
		}
		return out, nil
	default:
		return nil, invalid(c, "got %d inputs, needs %d", len(inputs), c.Size())
	}
}

func project(args []graph.Handle, idx []int) []graph.Handle {
	out := make([]graph.Handle, len(idx))
	for i, j := range idx {
		out[i] = args[j]
	}
	return out
}

// generate returns the sorted distinct objects valid for the last slot of
// a generative constraint, given the others in args.
func generate(g *graph.Graph, c Constraint, args []graph.Handle) []graph.Handle {
	switch c := c.(type) {
	case And:
		return generateAnd(g, c, args)
	case Or:
		last := c.Size() - 1
		out := graph.NewSet()
		for _, m := range c.Members {
			if m.generates(last) {
				for _, h := range generate(g, m.C, project(args, m.Idx[:len(m.Idx)-1])) {
					out.Add(h)
				}
			}
		}
		return out.Sorted()
	case Xor:
		last := c.Size() - 1
		if !c.A.generates(last) || !c.B.generates(last) {
			return nil
		}
		a := graph.NewSet(generate(g, c.A.C, project(args, c.A.Idx[:len(c.A.Idx)-1]))...)
		b := graph.NewSet(generate(g, c.B.C, project(args, c.B.Idx[:len(c.B.Idx)-1]))...)
		out := graph.NewSet()
		for h := range a {
			if !b.Has(h) {
				out.Add(h)
			}
		}
		for h := range b {
			if !a.Has(h) {
				out.Add(h)
			}
		}
		return out.Sorted()
	case PathConstraint:
		return c.Path.Objects(g, args[0])
	case MultiPath:
		out := graph.NewSet()
		for _, p := range c.Paths {
			for _, h := range p.Objects(g, args[0]) {
				out.Add(h)
			}
		}
		return out.Sorted()
	case SelfOrThis:
		out := graph.NewSet(generate(g, c.C, args)...)
		out.Add(args[0])
		return out.Sorted()
	case Adjacent:
		if !g.IsNode(args[0]) {
			return nil
		}
		out := graph.NewSet()
		for _, e := range g.Edges(args[0], c.Dir) {
			if c.Label == "" || g.Label(e) == c.Label {
				out.Add(g.Step(args[0], e, c.Dir))
			}
		}
		return out.Sorted()
	case Incident:
		if !g.IsNode(args[0]) {
			return nil
		}
		var out []graph.Handle
		for _, e := range g.Edges(args[0], c.Dir) {
			if c.Label == "" || g.Label(e) == c.Label {
				out = append(out, e)
			}
		}
		return out
	case Endpoint:
		if !g.IsEdge(args[0]) {
			return nil
		}
		if c.Source {
			return []graph.Handle{g.Source(args[0])}
		}
		return []graph.Handle{g.Target(args[0])}
	case ConversionSide:
		return conversionSide(g, c, args[0], args[1])
	default:
		return nil
	}
}

func generateAnd(g *graph.Graph, c And, args []graph.Handle) []graph.Handle {
	last := c.Size() - 1
	var producers, filters []Mapped
	for _, m := range c.Members {
		switch {
		case m.generates(last):
			producers = append(producers, m)
		case m.touches(last):
			filters = append(filters, m)
		default:
			if !satisfies(g, m.C, project(args, m.Idx)) {
				return nil
			}
		}
	}
	if len(producers) == 0 {
		return nil
	}

	var candidates graph.Set
	for _, m := range producers {
		got := graph.NewSet(generate(g, m.C, project(args, m.Idx[:len(m.Idx)-1]))...)
		if candidates == nil {
			candidates = got
		} else {
			for h := range candidates {
				if !got.Has(h) {
					candidates.Remove(h)
				}
			}
		}
		if candidates.Len() == 0 {
			return nil
		}
	}

	full := make([]graph.Handle, last+1)
	copy(full, args)
	sorted := candidates.Sorted()
	out := sorted[:0]
	for _, h := range sorted {
		full[last] = h
		ok := true
		for _, m := range filters {
			if !satisfies(g, m.C, project(full, m.Idx)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, h)
		}
	}
	return out
}

// satisfies reports whether a fully bound tuple satisfies c.
func satisfies(g *graph.Graph, c Constraint, args []graph.Handle) bool {
	switch c := c.(type) {
	case And:
		for _, m := range c.Members {
			if !satisfies(g, m.C, project(args, m.Idx)) {
				return false
			}
		}
		return true
	case Or:
		for _, m := range c.Members {
			if satisfies(g, m.C, project(args, m.Idx)) {
				return true
			}
		}
		return false
	case Xor:
		return satisfies(g, c.A.C, project(args, c.A.Idx)) != satisfies(g, c.B.C, project(args, c.B.Idx))
	case Not:
		return !satisfies(g, c.C, args)
	case Empty:
		return len(generate(g, c.C, args)) == 0
	case Size:
		if c.Of != nil {
			return c.within(len(generate(g, c.Of, args)))
		}
		return c.within(len(c.Path.Values(g, args[0])))
	case Field:
		return fieldHolds(g, c, args) != c.Negate
	case Type:
		return g.IsA(args[0], c.Name)
	case Equality:
		return (args[0] == args[1]) == c.Equal
	case IDIn:
		_, ok := c.IDs[g.ID(args[0])]
		return ok
	case NonUbique:
		return !c.Blacklist.IsUbiquitousIn(g, args[0], c.Context)
	case Activity:
		return (len(g.Property(args[0], c.Property)) > 0) == c.Active
	case ModificationChange:
		return modificationChanged(g, c, args[0], args[1])
	default:
		if c.Generative() {
			n := len(args) - 1
			return containsHandle(generate(g, c, args[:n]), args[n])
		}
		return false
	}
}

func containsHandle(sorted []graph.Handle, h graph.Handle) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= h })
	return i < len(sorted) && sorted[i] == h
}

func fieldHolds(g *graph.Graph, c Field, args []graph.Handle) bool {
	values := c.Path.Values(g, args[0])
	switch c.Mode {
	case FieldEmpty:
		return len(values) == 0
	case FieldSecondArg:
		for _, v := range values {
			if h, ok := g.Lookup(v); ok && h == args[1] {
				return true
			}
		}
		return false
	case FieldIntersect:
		others := c.Other.Values(g, args[1])
		for _, v := range values {
			for _, o := range others {
				if valueEqual(v, o) {
					return true
				}
			}
		}
		return false
	default:
		for _, v := range values {
			if valueMatches(v, c.Value) {
				return true
			}
		}
		return false
	}
}

func modificationTerms(g *graph.Graph, p Path, h graph.Handle) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, v := range p.Values(g, h) {
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		terms[strings.ToLower(s)] = struct{}{}
	}
	return terms
}

func modificationChanged(g *graph.Graph, c ModificationChange, before, after graph.Handle) bool {
	was := modificationTerms(g, c.Path, before)
	now := modificationTerms(g, c.Path, after)

	var changed []string
	if c.Kind == Gain || c.Kind == AnyChange {
		for t := range now {
			if _, ok := was[t]; !ok {
				changed = append(changed, t)
			}
		}
	}
	if c.Kind == Loss || c.Kind == AnyChange {
		for t := range was {
			if _, ok := now[t]; !ok {
				changed = append(changed, t)
			}
		}
	}
	if len(changed) == 0 {
		return false
	}
	if len(c.Terms) == 0 {
		return true
	}
	for _, t := range changed {
		for _, want := range c.Terms {
			if strings.Contains(t, want) {
				return true
			}
		}
	}
	return false
}

func conversionSide(g *graph.Graph, c ConversionSide, pe, conv graph.Handle) []graph.Handle {
	participant := g.Unwrap(pe)
	left := g.Property(conv, c.Left)
	right := g.Property(conv, c.Right)

	var side []any
	switch {
	case containsValue(left, participant):
		side = left
		if c.Other {
			side = right
		}
	case containsValue(right, participant):
		side = right
		if c.Other {
			side = left
		}
	default:
		return nil
	}

	out := graph.NewSet()
	for _, v := range side {
		if h, ok := g.Lookup(v); ok && h != pe {
			out.Add(h)
		}
	}
	return out.Sorted()
}

func containsValue(values []any, v any) bool {
	for _, x := range values {
		if valueEqual(x, v) {
			return true
		}
	}
	return false
}
