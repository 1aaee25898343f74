// Package graph wraps the objects of a domain model as nodes and edges of an
// immutable in-memory graph.
//
// Objects live in an arena and are addressed by Handle. Wrapping is memoized:
// the same domain object always maps to the same handle within one Graph.
// A Graph never changes after Build, so any number of goroutines may query it.
package graph

import (
	"fmt"
	"reflect"
)

type object struct {
	kind    Kind
	value   any
	source  Handle // edges only
	target  Handle // edges only
	label   string // edges only
	out     []Handle
	in      []Handle
	breadth bool
}

// Graph is the arena of wrapped nodes and edges built from one Model.
type Graph struct {
	model   Model
	view    View
	objects []object
	index   map[any]Handle
	nodes   []Handle
	edges   []Handle
}

// Build wraps every object reachable from roots through Model.Links.
//
// Handles are assigned breadth-first: roots in the given order, then link
// targets in the order the model reports them.
func Build(m Model, roots []any, cfg Config) (*Graph, error) {
	if m == nil {
		return nil, &Error{Op: "build", Cause: ErrNilModel}
	}
	if len(roots) == 0 {
		return nil, &Error{Op: "build", Cause: ErrNoRoots}
	}

	g := &Graph{
		model: m,
		view:  cfg.View,
		index: make(map[any]Handle, len(roots)),
	}
	breadth, _ := m.(BreadthModel)

	queue := make([]Handle, 0, len(roots))
	for _, r := range roots {
		h, fresh, err := g.addNode(r, breadth)
		if err != nil {
			return nil, err
		}
		if fresh {
			queue = append(queue, h)
		}
	}

	for i := 0; i < len(queue); i++ {
		n := queue[i]
		for _, link := range m.Links(g.objects[n-1].value) {
			t, fresh, err := g.addNode(link.Target, breadth)
			if err != nil {
				return nil, err
			}
			if fresh {
				queue = append(queue, t)
			}
			if err := g.addEdge(n, t, link); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func hashable(obj any) bool {
	return obj != nil && reflect.TypeOf(obj).Comparable()
}

func (g *Graph) addNode(obj any, breadth BreadthModel) (Handle, bool, error) {
	if !hashable(obj) {
		return None, false, newError("build", obj, ErrNotComparable)
	}
	if h, ok := g.index[obj]; ok {
		if g.objects[h-1].kind != KindNode {
			return None, false, newError("build", obj, ErrKindConflict)
		}
		return h, false, nil
	}

	g.objects = append(g.objects, object{
		kind:    KindNode,
		value:   obj,
		breadth: breadth == nil || breadth.IsBreadth(obj),
	})
	h := Handle(len(g.objects))
	g.index[obj] = h
	g.nodes = append(g.nodes, h)
	return h, true, nil
}

func (g *Graph) addEdge(from, to Handle, link Link) error {
	key := link.Via
	if key == nil {
		key = SyntheticEdge{From: g.objects[from-1].value, To: g.objects[to-1].value, Label: link.Label}
	} else if !hashable(key) {
		return newError("build", key, ErrNotComparable)
	}

	if h, ok := g.index[key]; ok {
		o := g.objects[h-1]
		if o.kind != KindEdge {
			return newError("build", key, ErrKindConflict)
		}
		if o.source == from && o.target == to {
			return nil
		}
		return newError("build", key, fmt.Errorf("edge reported with different endpoints"))
	}

	g.objects = append(g.objects, object{
		kind:   KindEdge,
		value:  key,
		source: from,
		target: to,
		label:  link.Label,
	})
	h := Handle(len(g.objects))
	g.index[key] = h
	g.edges = append(g.edges, h)
	g.objects[from-1].out = append(g.objects[from-1].out, h)
	g.objects[to-1].in = append(g.objects[to-1].in, h)
	return nil
}

// Model returns the domain model the graph was built from.
func (g *Graph) Model() Model { return g.model }

// View returns the direction policy of the graph.
func (g *Graph) View() View { return g.view }

// Len returns the number of wrapped objects, nodes and edges.
func (g *Graph) Len() int { return len(g.objects) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns every node handle in ascending order.
func (g *Graph) Nodes() []Handle {
	out := make([]Handle, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// EdgeHandles returns every edge handle in ascending order.
func (g *Graph) EdgeHandles() []Handle {
	out := make([]Handle, len(g.edges))
	copy(out, g.edges)
	return out
}

// Contains reports whether h refers to an object of this graph.
func (g *Graph) Contains(h Handle) bool {
	return h != None && int(h) <= len(g.objects)
}

func (g *Graph) get(h Handle) *object {
	if !g.Contains(h) {
		panic(fmt.Sprintf("graph: invalid handle %d", h))
	}
	return &g.objects[h-1]
}

// Lookup returns the handle of a wrapped object without failing.
func (g *Graph) Lookup(obj any) (Handle, bool) {
	if !hashable(obj) {
		return None, false
	}
	h, ok := g.index[obj]
	return h, ok
}

// Wrap returns the handle of a domain object (entity, relationship or
// SyntheticEdge). Objects outside the graph fail with ErrNotInGraph.
func (g *Graph) Wrap(obj any) (Handle, error) {
	if h, ok := g.Lookup(obj); ok {
		return h, nil
	}
	return None, newError("wrap", obj, ErrNotInGraph)
}

// WrapAll wraps every object, failing on the first unknown one.
func (g *Graph) WrapAll(objs []any) ([]Handle, error) {
	out := make([]Handle, 0, len(objs))
	for _, obj := range objs {
		h, err := g.Wrap(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Unwrap returns the domain object behind a handle.
func (g *Graph) Unwrap(h Handle) any { return g.get(h).value }

// UnwrapAll unwraps a handle slice in order.
func (g *Graph) UnwrapAll(hs []Handle) []any {
	out := make([]any, len(hs))
	for i, h := range hs {
		out[i] = g.Unwrap(h)
	}
	return out
}

// Kind returns whether h is a node or an edge.
func (g *Graph) Kind(h Handle) Kind { return g.get(h).kind }

// IsNode reports whether h is a node of this graph.
func (g *Graph) IsNode(h Handle) bool { return g.Contains(h) && g.objects[h-1].kind == KindNode }

// IsEdge reports whether h is an edge of this graph.
func (g *Graph) IsEdge(h Handle) bool { return g.Contains(h) && g.objects[h-1].kind == KindEdge }

func (g *Graph) synthetic(o *object) bool {
	_, ok := o.value.(SyntheticEdge)
	return ok
}

// Type returns the model type of the object. Synthetic edges report their label.
func (g *Graph) Type(h Handle) string {
	o := g.get(h)
	if o.kind == KindEdge && g.synthetic(o) {
		return o.label
	}
	return g.model.TypeOf(o.value)
}

// IsA reports whether the object is of the given type or a subtype.
func (g *Graph) IsA(h Handle, typ string) bool {
	o := g.get(h)
	if o.kind == KindEdge && g.synthetic(o) {
		return o.label == typ
	}
	return g.model.IsA(o.value, typ)
}

// ID returns the model identifier of the object.
func (g *Graph) ID(h Handle) string {
	o := g.get(h)
	if o.kind == KindEdge && g.synthetic(o) {
		return g.ID(o.source) + "-" + o.label + "->" + g.ID(o.target)
	}
	return g.model.ID(o.value)
}

// Property returns the values of a named property. Synthetic edges have none.
func (g *Graph) Property(h Handle, name string) []any {
	o := g.get(h)
	if o.kind == KindEdge && g.synthetic(o) {
		return nil
	}
	return g.model.Property(o.value, name)
}

// Breadth reports whether stepping onto the node counts as a hop.
func (g *Graph) Breadth(h Handle) bool { return g.get(h).breadth }

// Source returns the source node of an edge.
func (g *Graph) Source(e Handle) Handle { return g.get(e).source }

// Target returns the target node of an edge.
func (g *Graph) Target(e Handle) Handle { return g.get(e).target }

// Label returns the relationship name of an edge.
func (g *Graph) Label(e Handle) string { return g.get(e).label }

// Other returns the endpoint of e that is not n.
func (g *Graph) Other(e, n Handle) Handle {
	o := g.get(e)
	if o.source == n {
		return o.target
	}
	return o.source
}

// Degree returns the number of incoming plus outgoing edges of a node.
func (g *Graph) Degree(n Handle) int {
	o := g.get(n)
	return len(o.out) + len(o.in)
}

// Edges returns the edges of a node in the given direction, ascending.
// In the undirected view every direction yields all incident edges.
func (g *Graph) Edges(n Handle, dir Direction) []Handle {
	o := g.get(n)
	if g.view == Undirected {
		dir = Both
	}
	switch dir {
	case Downstream:
		return append([]Handle(nil), o.out...)
	case Upstream:
		return append([]Handle(nil), o.in...)
	default:
		return mergeSorted(o.out, o.in)
	}
}

// Step returns the node reached from n over e when moving in dir.
func (g *Graph) Step(n, e Handle, dir Direction) Handle {
	if g.view == Undirected || dir == Both {
		return g.Other(e, n)
	}
	if dir == Upstream {
		return g.Source(e)
	}
	return g.Target(e)
}

// Neighbors returns the distinct nodes adjacent to n in the given direction.
func (g *Graph) Neighbors(n Handle, dir Direction) []Handle {
	edges := g.Edges(n, dir)
	seen := make(map[Handle]struct{}, len(edges))
	out := make([]Handle, 0, len(edges))
	for _, e := range edges {
		m := g.Step(n, e, dir)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	SortHandles(out)
	return out
}

func mergeSorted(a, b []Handle) []Handle {
	out := make([]Handle, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next Handle
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			next = a[i]
			i++
		case i >= len(a) || b[j] < a[i]:
			next = b[j]
			j++
		default:
			next = a[i]
			i++
			j++
		}
		if len(out) == 0 || out[len(out)-1] != next {
			out = append(out, next)
		}
	}
	return out
}
