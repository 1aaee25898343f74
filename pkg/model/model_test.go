package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

func TestAdd_Errors(t *testing.T) {
	m := New(Biological())
	_, err := m.Add("P1", TypeProtein)
	require.NoError(t, err)

	_, err = m.Add("P1", TypeProtein)
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = m.Add("X", "Spaceship")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRelate_SuperPropertiesAndInverses(t *testing.T) {
	m := New(Biological())
	kinase := m.MustAdd("kinase", TypeProtein)
	ctrl := m.MustAdd("ctrl", TypeCatalysis)
	rxn := m.MustAdd("rxn", TypeBiochemicalReaction)

	require.NoError(t, m.Relate(ctrl, PropController, kinase))
	require.NoError(t, m.Relate(ctrl, PropControlled, rxn))

	assert.Equal(t, []any{kinase}, ctrl.Values(PropController))
	assert.Equal(t, []any{kinase, rxn}, ctrl.Values(PropParticipant))
	assert.Equal(t, []any{ctrl}, kinase.Values(PropControllerOf))
	assert.Equal(t, []any{ctrl}, kinase.Values(PropParticipantOf))
	assert.Equal(t, []any{ctrl}, rxn.Values(PropControlledOf))

	// relating twice is a no-op
	require.NoError(t, m.Relate(ctrl, PropController, kinase))
	assert.Len(t, kinase.Values(PropControllerOf), 1)
}

func TestRelate_Validation(t *testing.T) {
	m := New(Biological())
	p := m.MustAdd("P", TypeProtein)
	sm := m.MustAdd("S", TypeSmallMolecule)

	err := m.Relate(p, "nonsense", sm)
	assert.ErrorIs(t, err, ErrUnknownProperty)

	err = m.Relate(p, PropController, sm)
	assert.ErrorIs(t, err, ErrDomainMismatch)

	err = m.Relate(p, PropName, sm)
	assert.ErrorIs(t, err, ErrLiteral)

	err = m.SetLiteral(p, PropEntityReference, "x")
	assert.ErrorIs(t, err, ErrLiteral)

	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "P", merr.EntityID)
}

func TestLinks_FollowMatterAndControl(t *testing.T) {
	m := New(Biological())
	in := m.MustAdd("in", TypeProtein)
	out := m.MustAdd("out", TypeProtein)
	rxn := m.MustAdd("rxn", TypeBiochemicalReaction)
	enzyme := m.MustAdd("enzyme", TypeProtein)
	cat := m.MustAdd("cat", TypeCatalysis)

	m.MustRelate(rxn, PropLeft, in)
	m.MustRelate(rxn, PropRight, out)
	m.MustRelate(cat, PropController, enzyme)
	m.MustRelate(cat, PropControlled, rxn)

	g, err := graph.Build(m, m.Roots(), graph.Config{})
	require.NoError(t, err)

	wrap := func(e *Entity) graph.Handle {
		h, err := g.Wrap(e)
		require.NoError(t, err)
		return h
	}

	assert.Equal(t, []graph.Handle{wrap(rxn)}, g.Neighbors(wrap(in), graph.Downstream))
	assert.Equal(t, []graph.Handle{wrap(out)}, g.Neighbors(wrap(rxn), graph.Downstream))
	assert.Equal(t, []graph.Handle{wrap(cat)}, g.Neighbors(wrap(enzyme), graph.Downstream))
	assert.Equal(t, []graph.Handle{wrap(rxn)}, g.Neighbors(wrap(cat), graph.Downstream))
	assert.ElementsMatch(t, []graph.Handle{wrap(in), wrap(cat)}, g.Neighbors(wrap(rxn), graph.Upstream))

	assert.True(t, g.Breadth(wrap(in)))
	assert.False(t, g.Breadth(wrap(rxn)))
	assert.False(t, g.Breadth(wrap(cat)))
	assert.True(t, g.IsA(wrap(cat), TypeControl))
	assert.True(t, g.IsA(wrap(cat), TypeInteraction))
	assert.False(t, g.IsA(wrap(cat), TypeConversion))
}

func TestSchema_IsA(t *testing.T) {
	s := Biological()
	assert.True(t, s.IsA(TypeBiochemicalReaction, TypeEntity))
	assert.True(t, s.IsA(TypeProteinReference, TypeEntityReference))
	assert.False(t, s.IsA(TypeProteinReference, TypeEntity))
	assert.Contains(t, s.Types(), TypeModificationFeature)
}

func TestSchema_Errors(t *testing.T) {
	s := NewSchema()
	assert.ErrorIs(t, s.AddType(TypeDef{Name: "Child", Parent: "Missing"}), ErrUnknownType)
	require.NoError(t, s.AddType(TypeDef{Name: "Root"}))
	assert.Error(t, s.AddType(TypeDef{Name: "Root"}))
	assert.ErrorIs(t, s.AddProperty(PropertyDef{Name: "p", Super: "missing"}), ErrUnknownProperty)
	assert.Error(t, s.AddProperty(PropertyDef{Name: "q", Literal: true, Link: LinkForward}))
}
