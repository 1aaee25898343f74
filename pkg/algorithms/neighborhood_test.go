package algorithms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathways/pkg/blacklist"
	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

func TestNeighborhood(t *testing.T) {
	f := build(t, nodes("A", "B", "C", "D").Chain("A", "B", "C", "D"))
	ctx := context.Background()

	tests := []struct {
		name  string
		dir   graph.Direction
		limit int
		nodes []string
		edges []string
	}{
		{"downstream", graph.Downstream, 1, []string{"B", "C"}, []string{"B->C"}},
		{"upstream", graph.Upstream, 1, []string{"A", "B"}, []string{"A->B"}},
		{"both", graph.Both, 1, []string{"A", "B", "C"}, []string{"A->B", "B->C"}},
		{"both, further", graph.Both, 2, []string{"A", "B", "C", "D"}, []string{"A->B", "B->C", "C->D"}},
		{"limit 0", graph.Both, 0, []string{"B"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Neighborhood(ctx, f.g, f.hs("B"), NeighborhoodOptions{Direction: tt.dir, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.nodes, f.names(res.Nodes()))
			if tt.edges == nil {
				assert.Empty(t, res.Edges())
			} else {
				assert.Equal(t, tt.edges, f.edges(res.Edges()))
			}
		})
	}
}

func TestNeighborhood_Ubiquitous(t *testing.T) {
	f := build(t, nodes("A", "U", "B").Chain("A", "U", "B"))
	ctx := context.Background()
	bl := blacklist.FromIDs("U")

	res, err := Neighborhood(ctx, f.g, f.hs("A"), NeighborhoodOptions{Limit: 3, Filter: bl})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, f.names(res.Nodes()))
	assert.Empty(t, res.Edges())

	res, err = Neighborhood(ctx, f.g, f.hs("U"), NeighborhoodOptions{Limit: 3, Filter: bl})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "U"}, f.names(res.Nodes()), "a ubiquitous source is kept and expanded")
}

func TestNeighborhood_Invalid(t *testing.T) {
	f := build(t, nodes("A", "B").Chain("A", "B"))
	_, err := Neighborhood(context.Background(), f.g, f.hs("A"), NeighborhoodOptions{Limit: -2})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func commonFixture(t *testing.T) fixture {
	return build(t, nodes("A", "B", "C", "D").Edge("A", "C").Edge("B", "C").Edge("A", "D"))
}

func TestCommonStream(t *testing.T) {
	f := commonFixture(t)
	ctx := context.Background()

	res, err := CommonStream(ctx, f.g, f.hs("A", "B"), NeighborhoodOptions{Direction: graph.Downstream, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, f.names(res.Nodes()))
	assert.Empty(t, res.Edges())

	res, err = CommonStream(ctx, f.g, f.hs("C", "D"), NeighborhoodOptions{Direction: graph.Upstream, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, f.names(res.Nodes()))

	res, err = CommonStream(ctx, f.g, f.hs("A"), NeighborhoodOptions{Direction: graph.Downstream, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, f.names(res.Nodes()), "one source is its own common stream")

	res, err = CommonStream(ctx, f.g, nil, NeighborhoodOptions{Direction: graph.Downstream, Limit: 1})
	require.NoError(t, err)
	assert.True(t, res.Empty())

	_, err = CommonStream(ctx, f.g, f.hs("A", "B"), NeighborhoodOptions{Direction: graph.Both, Limit: 1})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestCommonStreamWithPaths(t *testing.T) {
	f := commonFixture(t)
	ctx := context.Background()

	res, err := CommonStreamWithPaths(ctx, f.g, f.hs("A", "B"), NeighborhoodOptions{Direction: graph.Downstream, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"A->C", "B->C"}, f.edges(res.Edges()))

	res, err = CommonStreamWithPaths(ctx, f.g, f.hs("C", "D"), NeighborhoodOptions{Direction: graph.Upstream, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, f.names(res.Nodes()))
	assert.Equal(t, []string{"A->C", "A->D"}, f.edges(res.Edges()))

	res, err = CommonStreamWithPaths(ctx, f.g, f.hs("C", "D"), NeighborhoodOptions{Direction: graph.Downstream, Limit: 1})
	require.NoError(t, err)
	assert.True(t, res.Empty(), "no common downstream")
}
