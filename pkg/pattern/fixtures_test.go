package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
	"github.com/dd0wney/cluso-pathways/pkg/graph/graphtest"
	"github.com/dd0wney/cluso-pathways/pkg/model"
)

// controlGraph: A controls B and C, B and C bind D. A, B and D are
// proteins, C is a small molecule.
func controlGraph(t *testing.T) (*graph.Graph, *graphtest.Model) {
	t.Helper()
	m := graphtest.New().
		Node("A", "Protein").Node("B", "Protein").Node("C", "SmallMolecule").Node("D", "Protein").
		Subtype("Protein", "PhysicalEntity").Subtype("SmallMolecule", "PhysicalEntity").
		LabeledEdge("A", "B", "controls").
		LabeledEdge("A", "C", "controls").
		LabeledEdge("B", "D", "binds").
		LabeledEdge("C", "D", "binds").
		Set("A", "score", 5).
		Ref("A", "partner", "D")
	return m.MustBuild(t, graph.Directed), m
}

type bio struct {
	g        *graph.Graph
	entities map[string]*model.Entity
}

func (b bio) h(t *testing.T, id string) graph.Handle {
	t.Helper()
	e, ok := b.entities[id]
	require.True(t, ok, "unknown fixture entity %s", id)
	h, err := b.g.Wrap(e)
	require.NoError(t, err)
	return h
}

// phosphorylation: a kinase catalyses sub + ATP -> sub-p + ADP, where sub-p
// carries a phospho-serine feature.
func phosphorylation(t *testing.T) bio {
	t.Helper()
	m := model.New(model.Biological())
	add := func(id, typ string) *model.Entity { return m.MustAdd(id, typ) }

	kinase := add("kinase", model.TypeProtein)
	sub := add("sub", model.TypeProtein)
	subP := add("sub-p", model.TypeProtein)
	mf := add("mf", model.TypeModificationFeature)
	require.NoError(t, m.SetLiteral(mf, model.PropModificationType, "O-Phospho-L-serine"))
	m.MustRelate(subP, model.PropFeature, mf)
	atp := add("ATP", model.TypeSmallMolecule)
	adp := add("ADP", model.TypeSmallMolecule)
	rxn := add("rxn", model.TypeBiochemicalReaction)
	m.MustRelate(rxn, model.PropLeft, sub, atp)
	m.MustRelate(rxn, model.PropRight, subP, adp)
	cat := add("cat", model.TypeCatalysis)
	m.MustRelate(cat, model.PropController, kinase)
	m.MustRelate(cat, model.PropControlled, rxn)

	g, err := graph.Build(m, m.Roots(), graph.Config{})
	require.NoError(t, err)

	b := bio{g: g, entities: make(map[string]*model.Entity)}
	for _, e := range m.Entities() {
		b.entities[e.ID()] = e
	}
	return b
}
