package graph

// Handle identifies a wrapped node or edge inside one Graph.
// Handles are 1-based arena indices; None marks an unbound slot.
type Handle uint64

// None is the zero handle. It never refers to a graph object.
const None Handle = 0

// Kind distinguishes nodes from edges.
type Kind uint8

const (
	// KindNode marks a wrapped domain entity
	KindNode Kind = iota + 1
	// KindEdge marks a wrapped relationship between two nodes
	KindEdge
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Direction selects which edges of a node a traversal follows.
type Direction uint8

const (
	// Downstream follows edges from source to target
	Downstream Direction = iota
	// Upstream follows edges from target to source
	Upstream
	// Both follows edges either way
	Both
)

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case Downstream:
		return "downstream"
	case Upstream:
		return "upstream"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// Reverse swaps Downstream and Upstream. Both is its own reverse.
func (d Direction) Reverse() Direction {
	switch d {
	case Downstream:
		return Upstream
	case Upstream:
		return Downstream
	default:
		return d
	}
}

// ParseDirection converts a string to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "downstream", "DOWNSTREAM", "out":
		return Downstream, true
	case "upstream", "UPSTREAM", "in":
		return Upstream, true
	case "both", "BOTHSTREAM", "BOTH":
		return Both, true
	default:
		return Downstream, false
	}
}

// View is the direction policy of a Graph, fixed at construction.
type View uint8

const (
	// Directed keeps the source/target orientation of every edge
	Directed View = iota
	// Undirected makes every edge traversable in both directions
	Undirected
)

// String returns the string representation of a view
func (v View) String() string {
	if v == Undirected {
		return "undirected"
	}
	return "directed"
}

// Model is the domain collaborator a Graph is built from.
//
// Domain objects are used as map keys, so they must be comparable.
// Pointers to entities are the usual choice and give reference identity.
type Model interface {
	// ID returns a stable identifier of the object
	ID(obj any) string
	// TypeOf returns the most specific type name of the object
	TypeOf(obj any) string
	// IsA reports whether the object is an instance of the type or a subtype
	IsA(obj any, typ string) bool
	// Property returns the values of a named property, objects or literals
	Property(obj any, name string) []any
	// Links enumerates the outgoing relationships of the object
	Links(obj any) []Link
}

// BreadthModel is implemented by models in which some nodes do not count
// towards traversal distance. Nodes of models that do not implement it
// all count.
type BreadthModel interface {
	IsBreadth(obj any) bool
}

// Link is one outgoing relationship reported by a Model.
type Link struct {
	Target any    // domain object at the far end
	Label  string // relationship name
	Via    any    // domain object representing the relationship, nil for a synthetic edge
}

// SyntheticEdge is the identity of an edge that has no domain object of its
// own. Wrap accepts it like any other domain object.
type SyntheticEdge struct {
	From  any
	To    any
	Label string
}

// Filter decides whether a node is an uninformative hub.
type Filter interface {
	IsUbiquitous(g *Graph, node Handle) bool
}

// Config configures Build.
type Config struct {
	View View
}
