package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() *Graph {
	g := New()
	g.AddEdge("A", "B", Length(100))
	g.AddEdge("B", "C", Length(100))
	g.AddEdge("A", "D", Length(50))
	g.AddEdge("D", "C", Length(300))
	return g
}

func TestAddEdge_MissingEndpoints_AddsNodesInOrder(t *testing.T) {
	g := New()
	g.AddEdge("A", "B", Length(10))

	assert.Equal(t, []NodeID{"A", "B"}, g.Nodes())
	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("B", "A"), "edges are directed")
}

func TestAddNode_Duplicate_IsIdempotentAndMergesAttrs(t *testing.T) {
	g := New()
	g.AddNode("A", Type(NodeTypeStation))
	g.AddNode("A", Loc(1, 2))

	require.Equal(t, 1, g.NumNodes())
	d, ok := g.Node("A")
	require.True(t, ok)
	assert.Equal(t, NodeTypeStation, d.Type)
	assert.Equal(t, &Coordinate{X: 1, Y: 2}, d.Loc)
}

func TestAddEdge_Duplicate_OverwritesAttrsWithoutReordering(t *testing.T) {
	g := New()
	g.AddEdge("A", "B", Length(10))
	g.AddEdge("A", "C", Length(20))
	g.AddEdge("A", "B", Length(99), SpeedLimit(5))

	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []NodeID{"B", "C"}, g.Successors("A"))
	d, ok := g.Edge("A", "B")
	require.True(t, ok)
	assert.Equal(t, 99.0, *d.Length)
	assert.Equal(t, 5.0, *d.SpeedLimit)
}

func TestEdges_IterationOrder_FollowsSourceNodeOrder(t *testing.T) {
	g := New()
	g.AddNode("B")
	g.AddNode("A")
	g.AddEdge("A", "B", Length(1))
	g.AddEdge("B", "A", Length(1))

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "B->A", edges[0].ID())
	assert.Equal(t, "A->B", edges[1].ID())
}

func TestEdge_ReturnsCopy(t *testing.T) {
	g := New()
	g.AddEdge("A", "B", Length(10), EdgeExtra("track", "up"))

	d, _ := g.Edge("A", "B")
	*d.Length = 500
	d.Extra["track"] = "down"

	again, _ := g.Edge("A", "B")
	assert.Equal(t, 10.0, *again.Length)
	assert.Equal(t, "up", again.Extra["track"])
}

func TestRemoveNode_DropsIncidentEdges(t *testing.T) {
	g := square()

	require.True(t, g.RemoveNode("B"))

	assert.False(t, g.HasNode("B"))
	assert.False(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("B", "C"))
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []NodeID{"A", "C", "D"}, g.Nodes())
	assert.False(t, g.RemoveNode("B"))
}

func TestRemoveEdge_Missing_ReturnsFalse(t *testing.T) {
	g := square()
	assert.False(t, g.RemoveEdge("C", "A"))
	assert.True(t, g.RemoveEdge("A", "B"))
	assert.Equal(t, []NodeID{"D"}, g.Successors("A"))
}

func TestShortestPath_PicksLowestTotalLength(t *testing.T) {
	g := square()

	p, err := g.ShortestPath("A", "C")
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"A", "B", "C"}, p.Route)
	assert.InDelta(t, 200.0, p.Length, 1e-9)
	assert.Equal(t, "A->C", p.ID)
}

func TestShortestPath_SameNode_ZeroLength(t *testing.T) {
	p, err := square().ShortestPath("A", "A")
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"A"}, p.Route)
	assert.Zero(t, p.Length)
}

func TestShortestPath_Unreachable_ReturnsError(t *testing.T) {
	_, err := square().ShortestPath("C", "A")
	assert.Error(t, err)
}

func TestShortestPath_UnknownNode_ReturnsError(t *testing.T) {
	_, err := square().ShortestPath("A", "Z")
	assert.ErrorContains(t, err, `node "Z" not found`)
}

func TestShortestPath_MissingLength_ReturnsMissingAttrError(t *testing.T) {
	g := square()
	g.AddEdge("C", "E")

	_, err := g.ShortestPath("A", "C")

	var missing *MissingAttrError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "C", missing.U)
	assert.Equal(t, "E", missing.V)
	assert.Equal(t, `edge ("C", "E") is missing required attribute "length"`, err.Error())
}

func TestShortestPath_IndexRebuiltAfterMutation(t *testing.T) {
	g := square()
	_, err := g.ShortestPath("A", "C")
	require.NoError(t, err)

	g.AddEdge("A", "C", Length(10))

	p, err := g.ShortestPath("A", "C")
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"A", "C"}, p.Route)
}
