package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-pathways/pkg/blacklist"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Constraint is an immutable rule over an ordered tuple of graph objects.
//
// Size is the number of slots the constraint is mapped to. A generative
// constraint can produce every valid object for its last slot from the
// others; any constraint can check a fully bound tuple. The set of
// constraints is closed: every variant is declared in this package and
// evaluated by one switch.
type Constraint interface {
	Size() int
	Generative() bool
	String() string
	constraint()
}

// Mapped places a sub-constraint on slots of a composite.
type Mapped struct {
	C   Constraint
	Idx []int
}

// Map maps c onto the composite slots idx.
func Map(c Constraint, idx ...int) Mapped {
	return Mapped{C: c, Idx: idx}
}

func (m Mapped) maxIndex() int {
	max := -1
	for _, i := range m.Idx {
		if i > max {
			max = i
		}
	}
	return max
}

func (m Mapped) touches(slot int) bool {
	for _, i := range m.Idx {
		if i == slot {
			return true
		}
	}
	return false
}

// generates reports whether the member produces the composite slot and
// nothing else refers to it.
func (m Mapped) generates(slot int) bool {
	if m.C == nil || !m.C.Generative() || len(m.Idx) == 0 || m.Idx[len(m.Idx)-1] != slot {
		return false
	}
	for _, i := range m.Idx[:len(m.Idx)-1] {
		if i == slot {
			return false
		}
	}
	return true
}

func (m Mapped) String() string {
	return fmt.Sprintf("%s%v", describeConstraint(m.C), m.Idx)
}

func compositeSize(members []Mapped) int {
	size := 0
	for _, m := range members {
		if n := m.maxIndex() + 1; n > size {
			size = n
		}
	}
	return size
}

func anyGenerates(members []Mapped, slot int) bool {
	for _, m := range members {
		if m.generates(slot) {
			return true
		}
	}
	return false
}

// operandSize is zero for a missing operand, which Validate rejects.
func operandSize(c Constraint) int {
	if c == nil {
		return 0
	}
	return c.Size()
}

func joinMembers(op string, members []Mapped) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

// And holds when every member holds. When members produce the last slot,
// its candidates are the join of every producing member.
type And struct{ Members []Mapped }

// NewAnd builds a conjunction.
func NewAnd(members ...Mapped) And { return And{Members: members} }

func (c And) Size() int        { return compositeSize(c.Members) }
func (c And) Generative() bool { return anyGenerates(c.Members, c.Size()-1) }
func (c And) String() string   { return joinMembers("AND", c.Members) }
func (And) constraint()        {}

// Or holds when any member holds; generated candidates are the union.
type Or struct{ Members []Mapped }

// NewOr builds a disjunction.
func NewOr(members ...Mapped) Or { return Or{Members: members} }

func (c Or) Size() int        { return compositeSize(c.Members) }
func (c Or) Generative() bool { return anyGenerates(c.Members, c.Size()-1) }
func (c Or) String() string   { return joinMembers("OR", c.Members) }
func (Or) constraint()        {}

// Xor holds when exactly one of two branches holds.
type Xor struct{ A, B Mapped }

// NewXor builds an exclusive disjunction.
func NewXor(a, b Mapped) Xor { return Xor{A: a, B: b} }

func (c Xor) Size() int        { return compositeSize([]Mapped{c.A, c.B}) }
func (c Xor) Generative() bool { return anyGenerates([]Mapped{c.A, c.B}, c.Size()-1) }
func (c Xor) String() string   { return joinMembers("XOR", []Mapped{c.A, c.B}) }
func (Xor) constraint()        {}

// Not holds when its sub-constraint yields nothing for the bound tuple.
// It never generates.
type Not struct{ C Constraint }

// NewNot negates c.
func NewNot(c Constraint) Not { return Not{C: c} }

func (c Not) Size() int      { return operandSize(c.C) }
func (Not) Generative() bool { return false }
func (c Not) String() string { return "NOT(" + describeConstraint(c.C) + ")" }
func (Not) constraint()      {}

// Empty holds when a generative constraint produces nothing from the
// remaining slots. Its size is one less than the wrapped constraint's.
type Empty struct{ C Constraint }

// NewEmpty wraps a generative constraint.
func NewEmpty(c Constraint) Empty { return Empty{C: c} }

func (c Empty) Size() int      { return operandSize(c.C) - 1 }
func (Empty) Generative() bool { return false }
func (c Empty) String() string { return "EMPTY(" + describeConstraint(c.C) + ")" }
func (Empty) constraint()      {}

// PathConstraint navigates a property path from slot 0 and produces the
// graph objects reached in slot 1.
type PathConstraint struct{ Path Path }

// NewPathConstraint builds a path constraint from a parsed accessor.
func NewPathConstraint(p Path) PathConstraint { return PathConstraint{Path: p} }

// NewPath builds a path constraint from accessor text, panicking when the
// text does not parse.
func NewPath(accessor string) PathConstraint { return PathConstraint{Path: MustParsePath(accessor)} }

func (PathConstraint) Size() int        { return 2 }
func (PathConstraint) Generative() bool { return true }
func (c PathConstraint) String() string { return "Path(" + c.Path.String() + ")" }
func (PathConstraint) constraint()      {}

// MultiPath is the union of several accessors from slot 0.
type MultiPath struct{ Paths []Path }

// NewMultiPath builds a MultiPath from accessor texts.
func NewMultiPath(accessors ...string) MultiPath {
	paths := make([]Path, len(accessors))
	for i, a := range accessors {
		paths[i] = MustParsePath(a)
	}
	return MultiPath{Paths: paths}
}

func (MultiPath) Size() int        { return 2 }
func (MultiPath) Generative() bool { return true }
func (c MultiPath) String() string {
	parts := make([]string, len(c.Paths))
	for i, p := range c.Paths {
		parts[i] = p.String()
	}
	return "MultiPath(" + strings.Join(parts, " | ") + ")"
}
func (MultiPath) constraint() {}

// SelfOrThis produces what a generative constraint produces plus the
// object in slot 0.
type SelfOrThis struct{ C Constraint }

// NewSelfOrThis wraps a generative constraint.
func NewSelfOrThis(c Constraint) SelfOrThis { return SelfOrThis{C: c} }

func (c SelfOrThis) Size() int      { return operandSize(c.C) }
func (SelfOrThis) Generative() bool { return true }
func (c SelfOrThis) String() string { return "SelfOr(" + describeConstraint(c.C) + ")" }
func (SelfOrThis) constraint()      {}

// FieldMode selects what a Field compares.
type FieldMode uint8

const (
	// FieldValue compares path values with a literal
	FieldValue FieldMode = iota
	// FieldEmpty requires the path to yield nothing
	FieldEmpty
	// FieldSecondArg requires the path values to contain the object in slot 1
	FieldSecondArg
	// FieldIntersect requires two paths, from slots 0 and 1, to share a value
	FieldIntersect
)

// Field tests the values of a property path.
type Field struct {
	Path   Path
	Other  Path // FieldIntersect only
	Mode   FieldMode
	Value  any // FieldValue only; a slice matches any element
	Negate bool
}

// FieldEquals holds when any value of the path equals value.
func FieldEquals(accessor string, value any) Field {
	return Field{Path: MustParsePath(accessor), Mode: FieldValue, Value: value}
}

// FieldIsEmpty holds when the path yields no value.
func FieldIsEmpty(accessor string) Field {
	return Field{Path: MustParsePath(accessor), Mode: FieldEmpty}
}

// FieldContainsSecond holds when the path from slot 0 reaches slot 1.
func FieldContainsSecond(accessor string) Field {
	return Field{Path: MustParsePath(accessor), Mode: FieldSecondArg}
}

// FieldShares holds when the two paths, from slots 0 and 1, share a value.
func FieldShares(accessor, other string) Field {
	return Field{Path: MustParsePath(accessor), Other: MustParsePath(other), Mode: FieldIntersect}
}

// Not returns the negated field test.
func (c Field) Not() Field {
	c.Negate = !c.Negate
	return c
}

func (c Field) Size() int {
	if c.Mode == FieldSecondArg || c.Mode == FieldIntersect {
		return 2
	}
	return 1
}
func (Field) Generative() bool { return false }
func (c Field) String() string {
	neg := ""
	if c.Negate {
		neg = "!"
	}
	switch c.Mode {
	case FieldEmpty:
		return fmt.Sprintf("%sField(%s is empty)", neg, c.Path)
	case FieldSecondArg:
		return fmt.Sprintf("%sField(%s contains $1)", neg, c.Path)
	case FieldIntersect:
		return fmt.Sprintf("%sField(%s shares %s)", neg, c.Path, c.Other)
	default:
		return fmt.Sprintf("%sField(%s = %v)", neg, c.Path, c.Value)
	}
}
func (Field) constraint() {}

// Size bounds a cardinality: the number of objects a generative constraint
// produces, or the number of values of a property path. Max below zero
// means unbounded.
type Size struct {
	Of       Constraint
	Path     Path
	Min, Max int
}

// SizeOf bounds the output of a generative constraint.
func SizeOf(c Constraint, min, max int) Size { return Size{Of: c, Min: min, Max: max} }

// PropertySize bounds the number of values of a property path.
func PropertySize(accessor string, min, max int) Size {
	return Size{Path: MustParsePath(accessor), Min: min, Max: max}
}

func (c Size) Size() int {
	if c.Of != nil {
		return c.Of.Size() - 1
	}
	return 1
}
func (Size) Generative() bool { return false }
func (c Size) String() string {
	target := c.Path.String()
	if c.Of != nil {
		target = c.Of.String()
	}
	return fmt.Sprintf("Size(%s in [%d,%d])", target, c.Min, c.Max)
}
func (Size) constraint() {}

func (c Size) within(n int) bool {
	return n >= c.Min && (c.Max < 0 || n <= c.Max)
}

// Type holds when the object is of the named type or a subtype.
type Type struct{ Name string }

// OfType builds a type test.
func OfType(name string) Type { return Type{Name: name} }

func (Type) Size() int        { return 1 }
func (Type) Generative() bool { return false }
func (c Type) String() string { return "Type(" + c.Name + ")" }
func (Type) constraint()      {}

// Equality holds when slots 0 and 1 hold the same object (Equal) or
// different objects (!Equal).
type Equality struct{ Equal bool }

// Equal builds an equality test.
func Equal(equal bool) Equality { return Equality{Equal: equal} }

func (Equality) Size() int        { return 2 }
func (Equality) Generative() bool { return false }
func (c Equality) String() string {
	if c.Equal {
		return "Equal"
	}
	return "NotEqual"
}
func (Equality) constraint() {}

// IDIn holds when the object's model identifier is in the set.
type IDIn struct{ IDs map[string]struct{} }

// HasID builds an identifier membership test.
func HasID(ids ...string) IDIn {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return IDIn{IDs: set}
}

func (IDIn) Size() int        { return 1 }
func (IDIn) Generative() bool { return false }
func (c IDIn) String() string {
	ids := make([]string, 0, len(c.IDs))
	for id := range c.IDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return "ID in [" + strings.Join(ids, ",") + "]"
}
func (IDIn) constraint() {}

// NonUbique holds when the node is not ubiquitous in the given role.
type NonUbique struct {
	Blacklist *blacklist.Blacklist
	Context   blacklist.Context
}

// NotUbiquitous builds a ubiquity test against bl in every role.
func NotUbiquitous(bl *blacklist.Blacklist) NonUbique {
	return NonUbique{Blacklist: bl, Context: blacklist.Both}
}

func (NonUbique) Size() int        { return 1 }
func (NonUbique) Generative() bool { return false }
func (c NonUbique) String() string { return "NonUbique(" + c.Context.String() + ")" }
func (NonUbique) constraint()      {}

// Adjacent produces the graph neighbours of slot 0 in a direction,
// optionally only over edges with the given label.
type Adjacent struct {
	Dir   graph.Direction
	Label string
}

// Neighbors builds an Adjacent constraint.
func Neighbors(dir graph.Direction, label string) Adjacent { return Adjacent{Dir: dir, Label: label} }

func (Adjacent) Size() int        { return 2 }
func (Adjacent) Generative() bool { return true }
func (c Adjacent) String() string { return fmt.Sprintf("Adjacent(%s,%q)", c.Dir, c.Label) }
func (Adjacent) constraint()      {}

// Incident produces the edges of the node in slot 0.
type Incident struct {
	Dir   graph.Direction
	Label string
}

// EdgesOf builds an Incident constraint.
func EdgesOf(dir graph.Direction, label string) Incident { return Incident{Dir: dir, Label: label} }

func (Incident) Size() int        { return 2 }
func (Incident) Generative() bool { return true }
func (c Incident) String() string { return fmt.Sprintf("Incident(%s,%q)", c.Dir, c.Label) }
func (Incident) constraint()      {}

// Endpoint produces the source or target node of the edge in slot 0.
type Endpoint struct{ Source bool }

// SourceOf and TargetOf build Endpoint constraints.
func SourceOf() Endpoint { return Endpoint{Source: true} }
func TargetOf() Endpoint { return Endpoint{Source: false} }

func (Endpoint) Size() int        { return 2 }
func (Endpoint) Generative() bool { return true }
func (c Endpoint) String() string {
	if c.Source {
		return "Source"
	}
	return "Target"
}
func (Endpoint) constraint() {}

// DefaultActivityProperty lists the controls an entity participates in as
// controller.
const DefaultActivityProperty = "controllerOf"

// Activity holds when whether the entity has controller activity equals
// Active.
type Activity struct {
	Active   bool
	Property string
}

// HasActivity builds an Activity test over DefaultActivityProperty.
func HasActivity(active bool) Activity {
	return Activity{Active: active, Property: DefaultActivityProperty}
}

func (Activity) Size() int        { return 1 }
func (Activity) Generative() bool { return false }
func (c Activity) String() string { return fmt.Sprintf("Activity(%t)", c.Active) }
func (Activity) constraint()      {}

// ChangeKind selects which modification changes count.
type ChangeKind uint8

const (
	// Gain counts modifications present after but not before
	Gain ChangeKind = iota
	// Loss counts modifications present before but not after
	Loss
	// AnyChange counts both
	AnyChange
)

func (k ChangeKind) String() string {
	switch k {
	case Gain:
		return "gain"
	case Loss:
		return "loss"
	default:
		return "any"
	}
}

// DefaultModificationPath reaches the modification terms of an entity.
const DefaultModificationPath = "PhysicalEntity/feature:ModificationFeature/modificationType"

// ModificationChange holds when the modification terms of slot 0 (before)
// and slot 1 (after) changed in the wanted way, and a changed term contains
// one of Terms. With no Terms, any change qualifies. Terms match
// case-insensitively.
type ModificationChange struct {
	Kind  ChangeKind
	Terms []string
	Path  Path
}

// ModificationChanged builds a ModificationChange over DefaultModificationPath.
func ModificationChanged(kind ChangeKind, terms ...string) ModificationChange {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	return ModificationChange{Kind: kind, Terms: lowered, Path: MustParsePath(DefaultModificationPath)}
}

func (ModificationChange) Size() int        { return 2 }
func (ModificationChange) Generative() bool { return false }
func (c ModificationChange) String() string {
	return fmt.Sprintf("ModificationChange(%s %v)", c.Kind, c.Terms)
}
func (ModificationChange) constraint() {}

// ConversionSide takes a participant (slot 0) and a conversion (slot 1) and
// produces the participants on the same side, or on the other side, of the
// conversion. The participant itself is never produced.
type ConversionSide struct {
	Other       bool
	Left, Right string
}

// SameSide and OtherSide build ConversionSide constraints over the "left"
// and "right" properties.
func SameSide() ConversionSide  { return ConversionSide{Other: false, Left: "left", Right: "right"} }
func OtherSide() ConversionSide { return ConversionSide{Other: true, Left: "left", Right: "right"} }

func (ConversionSide) Size() int        { return 3 }
func (ConversionSide) Generative() bool { return true }
func (c ConversionSide) String() string {
	if c.Other {
		return "OtherSide"
	}
	return "SameSide"
}
func (ConversionSide) constraint() {}
