package pattern

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// ErrInvalidPath is returned by ParsePath.
var ErrInvalidPath = errors.New("invalid property path")

type step struct {
	prop       string
	transitive bool
	filter     string
}

// Path is a parsed property accessor of the form
//
//	StartType/prop/prop*:FilterType
//
// The first token restricts the start object's type. Each following token
// navigates a property; a trailing '*' takes the transitive closure (one or
// more applications) and ':T' keeps only values of type T.
type Path struct {
	raw   string
	start string
	steps []step
}

// ParsePath parses a property accessor.
func ParsePath(s string) (Path, error) {
	tokens := strings.Split(s, "/")
	if len(tokens) < 2 {
		return Path{}, fmt.Errorf("%w %q: need a start type and at least one property", ErrInvalidPath, s)
	}
	p := Path{raw: s, start: strings.TrimSpace(tokens[0])}
	for _, tok := range tokens[1:] {
		var st step
		name := tok
		if i := strings.IndexByte(tok, ':'); i >= 0 {
			name, st.filter = tok[:i], tok[i+1:]
			if st.filter == "" {
				return Path{}, fmt.Errorf("%w %q: empty type filter", ErrInvalidPath, s)
			}
		}
		if strings.HasSuffix(name, "*") {
			st.transitive = true
			name = strings.TrimSuffix(name, "*")
		}
		if name == "" {
			return Path{}, fmt.Errorf("%w %q: empty property name", ErrInvalidPath, s)
		}
		st.prop = name
		p.steps = append(p.steps, st)
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error. It is meant for
// statically known accessors.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the accessor text.
func (p Path) String() string { return p.raw }

// StartType returns the type restriction of the start object.
func (p Path) StartType() string { return p.start }

func (p Path) valid() bool { return len(p.steps) > 0 }

// Values returns the distinct values reached from h, in discovery order.
// Literal values are returned as is; objects as domain objects.
func (p Path) Values(g *graph.Graph, h graph.Handle) []any {
	if p.start != "" && !g.IsA(h, p.start) {
		return nil
	}
	model := g.Model()
	current := []any{g.Unwrap(h)}
	if g.IsEdge(h) {
		if _, ok := current[0].(graph.SyntheticEdge); ok {
			return nil
		}
	}

	for _, st := range p.steps {
		var next []any
		seen := make(map[any]struct{})
		add := func(v any) bool {
			if isHashable(v) {
				if _, ok := seen[v]; ok {
					return false
				}
				seen[v] = struct{}{}
			}
			next = append(next, v)
			return true
		}

		for _, obj := range current {
			frontier := model.Property(obj, st.prop)
			for len(frontier) > 0 {
				var more []any
				for _, v := range frontier {
					if add(v) && st.transitive && isHashable(v) {
						more = append(more, model.Property(v, st.prop)...)
					}
				}
				frontier = more
			}
		}

		if st.filter != "" {
			kept := next[:0]
			for _, v := range next {
				if model.IsA(v, st.filter) {
					kept = append(kept, v)
				}
			}
			next = kept
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// Objects returns the values of the path that are objects of g, as sorted
// distinct handles.
func (p Path) Objects(g *graph.Graph, h graph.Handle) []graph.Handle {
	values := p.Values(g, h)
	set := make(graph.Set, len(values))
	for _, v := range values {
		if w, ok := g.Lookup(v); ok {
			set.Add(w)
		}
	}
	return set.Sorted()
}

func isHashable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}

// valueEqual compares values by identity when they are comparable and
// structurally otherwise.
func valueEqual(a, b any) bool {
	if isHashable(a) && isHashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// valueMatches reports whether v equals want, or any element of want when
// want is a slice.
func valueMatches(v, want any) bool {
	rv := reflect.ValueOf(want)
	if want != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		for i := 0; i < rv.Len(); i++ {
			if valueEqual(v, rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return valueEqual(v, want)
}
