// Package model is an in-memory biological entity model.
//
// It implements graph.Model so a graph can be built directly from it:
//
//	m := model.New(model.Biological())
//	p := m.MustAdd("P1", model.TypeProtein)
//	...
//	g, err := graph.Build(m, m.Roots(), graph.Config{})
package model

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Sentinel errors
var (
	ErrDuplicateID     = errors.New("duplicate entity id")
	ErrUnknownType     = errors.New("unknown type")
	ErrUnknownProperty = errors.New("unknown property")
	ErrDomainMismatch  = errors.New("property not defined for entity type")
	ErrLiteral         = errors.New("property kind mismatch")
)

// Error provides structured information about a failed model operation.
type Error struct {
	Op       string
	EntityID string
	Property string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s %s.%s: %v", e.Op, e.EntityID, e.Property, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.EntityID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Entity is one typed object of the model.
type Entity struct {
	id    string
	typ   string
	props map[string][]any
	links []graph.Link
}

// ID returns the entity identifier.
func (e *Entity) ID() string { return e.id }

// Type returns the entity type name.
func (e *Entity) Type() string { return e.typ }

// Values returns the values of a property.
func (e *Entity) Values(prop string) []any { return e.props[prop] }

func (e *Entity) String() string { return e.id }

// Model holds entities conforming to a Schema.
type Model struct {
	schema   *Schema
	entities []*Entity
	byID     map[string]*Entity
}

// New returns an empty model over the given schema.
func New(schema *Schema) *Model {
	return &Model{
		schema: schema,
		byID:   make(map[string]*Entity),
	}
}

// Schema returns the schema of the model.
func (m *Model) Schema() *Schema { return m.schema }

// Add creates an entity.
func (m *Model) Add(id, typ string) (*Entity, error) {
	if _, ok := m.byID[id]; ok {
		return nil, &Error{Op: "add", EntityID: id, Cause: ErrDuplicateID}
	}
	if !m.schema.HasType(typ) {
		return nil, &Error{Op: "add", EntityID: id, Cause: fmt.Errorf("%w: %s", ErrUnknownType, typ)}
	}
	e := &Entity{id: id, typ: typ, props: make(map[string][]any)}
	m.entities = append(m.entities, e)
	m.byID[id] = e
	return e, nil
}

// MustAdd is like Add but panics on error. It is meant for fixtures.
func (m *Model) MustAdd(id, typ string) *Entity {
	e, err := m.Add(id, typ)
	if err != nil {
		panic(err)
	}
	return e
}

// Get looks up an entity by id.
func (m *Model) Get(id string) (*Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// Entities returns every entity in insertion order.
func (m *Model) Entities() []*Entity {
	out := make([]*Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Roots returns every entity as a graph root, in insertion order.
func (m *Model) Roots() []any {
	out := make([]any, len(m.entities))
	for i, e := range m.entities {
		out[i] = e
	}
	return out
}

func (m *Model) property(op string, e *Entity, prop string, literal bool) (PropertyDef, error) {
	def, ok := m.schema.Property(prop)
	if !ok {
		return def, &Error{Op: op, EntityID: e.id, Property: prop, Cause: ErrUnknownProperty}
	}
	if def.Domain != "" && !m.schema.IsA(e.typ, def.Domain) {
		return def, &Error{Op: op, EntityID: e.id, Property: prop, Cause: ErrDomainMismatch}
	}
	if def.Literal != literal {
		return def, &Error{Op: op, EntityID: e.id, Property: prop, Cause: ErrLiteral}
	}
	return def, nil
}

// SetLiteral appends literal values to a literal property.
func (m *Model) SetLiteral(e *Entity, prop string, values ...any) error {
	if _, err := m.property("set", e, prop, true); err != nil {
		return err
	}
	e.props[prop] = append(e.props[prop], values...)
	return nil
}

// Relate appends entity values to an object property, maintaining its
// super-properties, inverses and graph links.
func (m *Model) Relate(e *Entity, prop string, targets ...*Entity) error {
	def, err := m.property("relate", e, prop, false)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if t == nil {
			return &Error{Op: "relate", EntityID: e.id, Property: prop, Cause: errors.New("nil target")}
		}
		if !appendUnique(e, prop, t) {
			continue
		}
		if def.Inverse != "" {
			appendUnique(t, def.Inverse, e)
		}
		for super := def.Super; super != ""; {
			sdef, _ := m.schema.Property(super)
			appendUnique(e, super, t)
			if sdef.Inverse != "" {
				appendUnique(t, sdef.Inverse, e)
			}
			super = sdef.Super
		}
		switch def.Link {
		case LinkForward:
			e.links = append(e.links, graph.Link{Target: t, Label: prop})
		case LinkReverse:
			t.links = append(t.links, graph.Link{Target: e, Label: prop})
		}
	}
	return nil
}

// MustRelate is like Relate but panics on error.
func (m *Model) MustRelate(e *Entity, prop string, targets ...*Entity) {
	if err := m.Relate(e, prop, targets...); err != nil {
		panic(err)
	}
}

func appendUnique(e *Entity, prop string, v *Entity) bool {
	for _, existing := range e.props[prop] {
		if existing == v {
			return false
		}
	}
	e.props[prop] = append(e.props[prop], v)
	return true
}

// ID implements graph.Model.
func (m *Model) ID(obj any) string {
	if e, ok := obj.(*Entity); ok {
		return e.id
	}
	return fmt.Sprint(obj)
}

// TypeOf implements graph.Model.
func (m *Model) TypeOf(obj any) string {
	if e, ok := obj.(*Entity); ok {
		return e.typ
	}
	return ""
}

// IsA implements graph.Model.
func (m *Model) IsA(obj any, typ string) bool {
	e, ok := obj.(*Entity)
	return ok && m.schema.IsA(e.typ, typ)
}

// Property implements graph.Model.
func (m *Model) Property(obj any, name string) []any {
	e, ok := obj.(*Entity)
	if !ok {
		return nil
	}
	return e.props[name]
}

// Links implements graph.Model.
func (m *Model) Links(obj any) []graph.Link {
	e, ok := obj.(*Entity)
	if !ok {
		return nil
	}
	return e.links
}

// IsBreadth implements graph.BreadthModel.
func (m *Model) IsBreadth(obj any) bool {
	e, ok := obj.(*Entity)
	if !ok {
		return true
	}
	def, ok := m.schema.Type(e.typ)
	return !ok || def.Breadth
}
