package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

func controlsPattern() *Pattern {
	return New("Protein", "A").
		MustAdd(Neighbors(graph.Downstream, "controls"), "A", "B").
		MustAdd(OfType("Protein"), "B")
}

func TestPattern_Add(t *testing.T) {
	p := controlsPattern()

	assert.Equal(t, "Protein", p.StartType())
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"A", "B"}, p.Labels())

	i, ok := p.IndexOf("B")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = p.IndexOf("Z")
	assert.False(t, ok)
	assert.Equal(t, "A", p.Label(0))

	entries := p.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Produces)
	assert.Equal(t, []string{"A", "B"}, entries[0].Labels)
	assert.Empty(t, entries[1].Produces)

	s := p.String()
	assert.Contains(t, s, "Pattern(Protein A)")
	assert.Contains(t, s, "-> B")
}

func TestPattern_AddErrors(t *testing.T) {
	tests := []struct {
		name   string
		c      Constraint
		labels []string
	}{
		{"malformed", NewAnd(), []string{"A"}},
		{"too few labels", Neighbors(graph.Downstream, ""), []string{"A"}},
		{"too many labels", OfType("Protein"), []string{"A", "B"}},
		{"empty label", Neighbors(graph.Downstream, ""), []string{"A", ""}},
		{"unbound input", Neighbors(graph.Downstream, ""), []string{"X", "B"}},
		{"check binds new label", OfType("Protein"), []string{"C"}},
		{"check with unbound second", Equal(false), []string{"A", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := controlsPattern()
			before := p.String()

			err := p.Add(tt.c, tt.labels...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)

			var cfg *ConfigurationError
			require.True(t, errors.As(err, &cfg))
			assert.Equal(t, 2, cfg.Entry)
			assert.Equal(t, tt.labels, cfg.Labels)
			assert.NotEmpty(t, cfg.Reason)

			assert.Equal(t, before, p.String(), "pattern changed by a rejected constraint")
		})
	}
}

func TestPattern_AddMalformedWrapsCause(t *testing.T) {
	err := New("Protein", "A").Add(NewAnd(), "A")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}

func TestPattern_AddNilOperand(t *testing.T) {
	for _, c := range []Constraint{NewNot(nil), Empty{}, SelfOrThis{}, NewAnd(Mapped{Idx: []int{0}})} {
		t.Run(describeConstraint(c), func(t *testing.T) {
			p := New("Protein", "A")
			before := p.String()
			var err error
			require.NotPanics(t, func() { err = p.Add(c, "A") })
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.ErrorIs(t, err, ErrInvalidConstraint)
			var cfg *ConfigurationError
			require.ErrorAs(t, err, &cfg)
			assert.Contains(t, cfg.Constraint, "<nil>")
			assert.Equal(t, before, p.String())
		})
	}
}

func TestPattern_MustAddPanics(t *testing.T) {
	assert.Panics(t, func() {
		New("Protein", "A").MustAdd(OfType("Protein"), "B")
	})
}

func TestPattern_Insert(t *testing.T) {
	p := New("Protein", "A").
		MustAdd(Neighbors(graph.Downstream, ""), "A", "B").
		MustAdd(Neighbors(graph.Downstream, ""), "B", "C")

	require.NoError(t, p.Insert(1, OfType("Protein"), "B"))
	require.Equal(t, 3, p.Len())
	assert.Equal(t, "Type(Protein)", p.Entries()[1].Constraint.String())
	assert.Equal(t, "C", p.Entries()[2].Produces)

	// C is bound by the entry now at position 2
	err := p.Insert(2, OfType("Protein"), "C")
	assert.ErrorIs(t, err, ErrConfiguration)
	require.NoError(t, p.Insert(3, OfType("Protein"), "C"))

	assert.ErrorIs(t, p.Insert(-1, OfType("Protein"), "A"), ErrConfiguration)
	assert.ErrorIs(t, p.Insert(99, OfType("Protein"), "A"), ErrConfiguration)
	assert.ErrorIs(t, p.Insert(0, Neighbors(graph.Downstream, ""), "A", "D"), ErrConfiguration, "insert cannot bind")
}

func TestPattern_Append(t *testing.T) {
	p := controlsPattern()

	require.NoError(t, p.Append(New("Protein", "B").MustAdd(Neighbors(graph.Downstream, "binds"), "B", "C")))
	assert.Equal(t, []string{"A", "B", "C"}, p.Labels())
	assert.Equal(t, 3, p.Len())

	err := p.Append(New("Protein", "Z").MustAdd(OfType("Protein"), "Z"))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 3, p.Len(), "failed append leaves the pattern unchanged")
}

func TestPattern_AppendSharesLabels(t *testing.T) {
	p := New("Protein", "A").
		MustAdd(Neighbors(graph.Downstream, ""), "A", "B").
		MustAdd(Neighbors(graph.Downstream, ""), "A", "C")
	other := New("Protein", "A").
		MustAdd(Neighbors(graph.Downstream, ""), "A", "C").
		MustAdd(Neighbors(graph.Downstream, ""), "C", "D")
	require.NoError(t, other.MarkSymmetric("A", "C"))

	require.NoError(t, p.Append(other))
	assert.Equal(t, []string{"A", "B", "C", "D"}, p.Labels())
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, "", p.Entries()[2].Produces, "C is already bound, the appended entry only checks")
	assert.Equal(t, [][]int{{0, 2}}, p.symmetric)
}

func TestPattern_MarkSymmetric(t *testing.T) {
	p := New("Protein", "A").
		MustAdd(Neighbors(graph.Both, ""), "A", "B")

	assert.ErrorIs(t, p.MarkSymmetric("A"), ErrConfiguration)
	assert.ErrorIs(t, p.MarkSymmetric("A", "A"), ErrConfiguration)
	assert.ErrorIs(t, p.MarkSymmetric("A", "Z"), ErrConfiguration)
	require.NoError(t, p.MarkSymmetric("B", "A"))
	assert.Equal(t, [][]int{{1, 0}}, p.symmetric)
}

func TestPattern_Clone(t *testing.T) {
	p := controlsPattern()
	require.NoError(t, p.MarkSymmetric("A", "B"))
	c := p.Clone()

	require.NoError(t, c.Add(Neighbors(graph.Downstream, ""), "B", "C"))
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, 3, c.Size())
	_, ok := p.IndexOf("C")
	assert.False(t, ok)
	assert.Equal(t, p.symmetric, c.symmetric)
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{
		Entry:      3,
		Constraint: "Type(Protein)",
		Labels:     []string{"X"},
		Reason:     "label \"X\" is not bound yet",
		Cause:      ErrInvalidConstraint,
	}
	assert.Equal(t, `pattern entry 3 Type(Protein) on [X]: label "X" is not bound yet: invalid constraint`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidConstraint)
	assert.ErrorIs(t, err, ErrConfiguration)
}
