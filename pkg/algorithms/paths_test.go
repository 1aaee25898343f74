package algorithms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathways/pkg/blacklist"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

func diamond(t *testing.T) fixture {
	return build(t, nodes("A", "B", "C", "D").Chain("A", "B", "C", "D").Edge("A", "D"))
}

func TestPathsBetween_Shortest(t *testing.T) {
	f := diamond(t)
	res, err := PathsBetween(context.Background(), f.g, [][]graph.Handle{f.hs("A"), f.hs("D")}, PathsOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "D"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"A->D"}, f.edges(res.Edges()))
	assert.False(t, res.Truncated)
}

func TestPathsBetween_ShortestPlusK(t *testing.T) {
	f := diamond(t)
	res, err := PathsBetween(context.Background(), f.g, [][]graph.Handle{f.hs("A"), f.hs("D")}, PathsOptions{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"A->B", "A->D", "B->C", "C->D"}, f.edges(res.Edges()))
}

func TestPathsBetween_Normal(t *testing.T) {
	f := diamond(t)
	ctx := context.Background()
	groups := [][]graph.Handle{f.hs("A"), f.hs("D")}

	res, err := PathsBetween(ctx, f.g, groups, PathsOptions{LimitType: LimitNormal, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, f.names(res.Nodes()))

	res, err = PathsBetween(ctx, f.g, groups, PathsOptions{LimitType: LimitNormal, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, f.names(res.Nodes()))
}

func TestPathsBetween_Groups(t *testing.T) {
	f := diamond(t)
	ctx := context.Background()

	res, err := PathsBetween(ctx, f.g, [][]graph.Handle{f.hs("A"), f.hs("A")}, PathsOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, f.names(res.Nodes()), "a node is a trivial path to itself")
	assert.Empty(t, res.Edges())

	res, err = PathsBetween(ctx, f.g, [][]graph.Handle{f.hs("A", "D")}, PathsOptions{})
	require.NoError(t, err)
	assert.True(t, res.Empty(), "paths inside one group are not wanted")

	res, err = PathsBetween(ctx, f.g, [][]graph.Handle{f.hs("D"), f.hs("A")}, PathsOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, f.names(res.Nodes()), "group order does not matter")
}

func TestPathsBetween_UbiquitousIntermediate(t *testing.T) {
	f := build(t, nodes("A", "U", "B", "X", "Y").Chain("A", "U", "B").Chain("A", "X", "Y", "B"))
	bl := blacklist.FromIDs("U")
	ctx := context.Background()

	res, err := PathsBetween(ctx, f.g, [][]graph.Handle{f.hs("A"), f.hs("B")}, PathsOptions{Filter: bl})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "X", "Y"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"A->X", "X->Y", "Y->B"}, f.edges(res.Edges()))

	res, err = PathsFromTo(ctx, f.g, f.hs("A"), f.hs("U"), PathsOptions{Filter: bl})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "U"}, f.names(res.Nodes()), "a ubiquitous endpoint is kept")
	assert.Equal(t, []string{"A->U"}, f.edges(res.Edges()))
}

func TestPathsBetween_OnlyThroughUbiquitous(t *testing.T) {
	f := build(t, nodes("A", "U", "B").Chain("A", "U", "B"))
	res, err := PathsBetween(context.Background(), f.g, [][]graph.Handle{f.hs("A"), f.hs("B")},
		PathsOptions{Filter: blacklist.FromIDs("U")})
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestPathsFromTo_Strict(t *testing.T) {
	f := build(t, nodes("S1", "S2", "X", "T").Chain("S1", "S2", "T").Chain("S1", "X", "T"))
	ctx := context.Background()
	opts := PathsOptions{LimitType: LimitNormal, Limit: 2}

	res, err := PathsFromTo(ctx, f.g, f.hs("S1", "S2"), f.hs("T"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1->S2", "S1->X", "S2->T", "X->T"}, f.edges(res.Edges()))

	opts.Strict = true
	res, err = PathsFromTo(ctx, f.g, f.hs("S1", "S2"), f.hs("T"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2", "T", "X"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"S1->X", "S2->T", "X->T"}, f.edges(res.Edges()), "paths may not cross another source")
}

func TestPathsFromTo_Direction(t *testing.T) {
	f := diamond(t)
	res, err := PathsFromTo(context.Background(), f.g, f.hs("D"), f.hs("A"), PathsOptions{})
	require.NoError(t, err)
	assert.True(t, res.Empty(), "edges are followed downstream only")
}

func TestPathsFromTo_Undirected(t *testing.T) {
	m := nodes("A", "B", "C").Chain("A", "B").Chain("C", "B")
	g := m.MustBuild(t, graph.Undirected)
	f := fixture{t: t, g: g, m: m}

	res, err := PathsFromTo(context.Background(), g, f.hs("A"), f.hs("C"), PathsOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"A->B", "C->B"}, f.edges(res.Edges()))
}

func TestPaths_InvalidOptions(t *testing.T) {
	f := diamond(t)
	ctx := context.Background()

	_, err := PathsBetween(ctx, f.g, [][]graph.Handle{f.hs("A"), f.hs("D")}, PathsOptions{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = PathsFromTo(ctx, f.g, f.hs("A"), f.hs("D"), PathsOptions{LimitType: LimitType(7)})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = PathsFromTo(ctx, f.g, f.hs("A"), []graph.Handle{f.e("A", "D")}, PathsOptions{})
	assert.ErrorIs(t, err, graph.ErrInvalidHandle)

	assert.Equal(t, "shortest+k", LimitShortestPlusK.String())
	assert.Equal(t, "normal", LimitNormal.String())
}

func TestAddDist(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want int
	}{
		{"finite", 2, 3, 5},
		{"left unreached", Infinite, 1, Infinite},
		{"right unreached", 4, Infinite, Infinite},
		{"both unreached", Infinite, Infinite, Infinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addDist(tt.a, tt.b))
		})
	}
}
