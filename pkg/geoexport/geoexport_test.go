package geoexport

import (
	"encoding/json"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/service"
)

func line() *graph.Graph {
	g := graph.New()
	g.AddNode("A", graph.Loc(0, 0), graph.Type(graph.NodeTypeStation))
	g.AddNode("B", graph.Loc(1000, 0))
	g.AddNode("C") // no location
	g.AddEdge("A", "B", graph.Length(1000), graph.SpeedLimit(20))
	g.AddEdge("B", "A", graph.Length(1000))
	g.AddEdge("B", "C", graph.Length(10))
	return g
}

func byKind(fc *geojson.FeatureCollection, kind string) []*geojson.Feature {
	var out []*geojson.Feature
	for _, f := range fc.Features {
		if f.Properties["kind"] == kind {
			out = append(out, f)
		}
	}
	return out
}

func TestNetwork_LocatedNodesAndEdgesOnly(t *testing.T) {
	fc := Network(line())

	nodes := byKind(fc, KindNode)
	require.Len(t, nodes, 2)
	assert.Equal(t, "A", nodes[0].Properties["node_id"])
	assert.Equal(t, "station", nodes[0].Properties["type"])
	assert.Equal(t, []float64{1000, 0}, nodes[1].Geometry.Point)

	edges := byKind(fc, KindEdge)
	require.Len(t, edges, 2, "B->C has an unlocated endpoint")
	assert.Equal(t, "A->B", edges[0].Properties["edge_id"])
	assert.Equal(t, 20.0, edges[0].Properties["speed_limit"])
	assert.NotContains(t, edges[1].Properties, "speed_limit")
	assert.Equal(t, [][]float64{{0, 0}, {1000, 0}}, edges[0].Geometry.LineString)
}

func TestSnapshot_InterpolatesAlongEdge(t *testing.T) {
	row := engine.LogRow{Timestamp: 42, ServiceLogs: []service.ServiceLog{
		{ServiceID: "S1", CurrentPosition: service.Position{Edge: "A->B", DistanceAlongEdge: 250},
			State: service.StateCruising, Velocity: 12},
		{ServiceID: "S2", CurrentPosition: service.Position{Edge: "B->A", DistanceAlongEdge: 5000}},
		{ServiceID: "S3", CurrentPosition: service.Position{Edge: "B->C"}},
		{ServiceID: "S4", CurrentPosition: service.Position{Edge: "X->Y"}},
	}}

	svcs := byKind(Snapshot(line(), row), KindService)

	require.Len(t, svcs, 2)
	assert.Equal(t, "S1", svcs[0].Properties["service_id"])
	assert.Equal(t, []float64{250, 0}, svcs[0].Geometry.Point)
	assert.Equal(t, "cruising", svcs[0].Properties["state"])
	assert.Equal(t, 12.0, svcs[0].Properties["velocity"])
	assert.Equal(t, []float64{0, 0}, svcs[1].Geometry.Point, "clamped to the edge end")
}

func TestSnapshot_MarshalsAsFeatureCollection(t *testing.T) {
	b, err := Snapshot(line(), engine.LogRow{}).MarshalJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	assert.Len(t, doc["features"], 4)
}

func TestRowAt(t *testing.T) {
	log := engine.Log{Output: []engine.LogRow{{Timestamp: 0}, {Timestamp: 1}, {Timestamp: 2}}}

	row, ok := RowAt(log, 1.5)
	require.True(t, ok)
	assert.Equal(t, 1.0, row.Timestamp)

	row, _ = RowAt(log, -3)
	assert.Equal(t, 0.0, row.Timestamp)

	row, _ = RowAt(log, 99)
	assert.Equal(t, 2.0, row.Timestamp)

	_, ok = RowAt(engine.Log{}, 0)
	assert.False(t, ok)
}
