package network

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/service"
)

func train() service.Vehicle {
	return service.Vehicle{Name: "Train", Length: 50, VMax: 20, AAcc: 0.5, ADcc: 0.7}
}

func shuttle() service.Service {
	return service.Service{
		ServiceID:       "S1",
		Vehicle:         train(),
		InitialPosition: "A",
		Route:           []service.RouteStop{{NodeID: "B", TDwell: 30}, {NodeID: "A", TDwell: 30}},
	}
}

// simpleNetwork is the two-node A↔B loop with one shuttle service.
func simpleNetwork(opts ...Option) *Network {
	net := New(opts...)
	net.AddNode("A")
	net.AddNode("B")
	net.AddEdge("A", "B", graph.Length(1000))
	net.AddEdge("B", "A", graph.Length(1000))
	net.AddService(shuttle())
	return net
}

// requestMap builds the request and decodes it back into generic JSON.
func requestMap(t *testing.T, net *Network) map[string]any {
	t.Helper()
	req, err := net.BuildRequest("x", 300, 1)
	require.NoError(t, err)
	b, err := json.Marshal(req)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func edgesByID(t *testing.T, m map[string]any) map[string]map[string]any {
	t.Helper()
	out := make(map[string]map[string]any)
	for _, e := range m["graph_data"].(map[string]any)["edges"].([]any) {
		edge := e.(map[string]any)
		out[edge["edge_id"].(string)] = edge
	}
	return out
}

func TestNetwork_NodesAndEdgeAttributes(t *testing.T) {
	net := simpleNetwork()

	assert.True(t, net.HasNode("A"))
	assert.True(t, net.HasNode("B"))
	d, ok := net.Edge("A", "B")
	require.True(t, ok)
	assert.Equal(t, 1000.0, *d.Length)
	assert.Nil(t, d.SpeedLimit)
}

func TestNetwork_SpeedLimitOptional(t *testing.T) {
	net := New()
	net.AddEdge("A", "B", graph.Length(500), graph.SpeedLimit(10))

	d, _ := net.Edge("A", "B")
	assert.Equal(t, 10.0, *d.SpeedLimit)
}

func TestBuildRequest_MetaFields(t *testing.T) {
	req, err := simpleNetwork().BuildRequest("test-run", 300, 1)
	require.NoError(t, err)
	assert.Equal(t, engine.SimulationMeta{SimulationID: "test-run", RunTime: 300, TimeStep: 1}, req.Meta)
}

func TestBuildRequest_GraphNodes(t *testing.T) {
	m := requestMap(t, simpleNetwork())
	assert.Equal(t, []any{
		map[string]any{"node_id": "A"},
		map[string]any{"node_id": "B"},
	}, m["graph_data"].(map[string]any)["nodes"])
}

func TestBuildRequest_GraphEdges_SpeedLimitAbsentWhenUnset(t *testing.T) {
	edges := edgesByID(t, requestMap(t, simpleNetwork()))

	require.Contains(t, edges, "A->B")
	assert.Equal(t, map[string]any{"edge_id": "A->B", "u": "A", "v": "B", "length": 1000.0}, edges["A->B"])
	assert.NotContains(t, edges["A->B"], "speed_limit")
}

func TestBuildRequest_SpeedLimitIncludedWhenSet(t *testing.T) {
	net := New()
	net.AddEdge("A", "B", graph.Length(500), graph.SpeedLimit(10))

	edges := edgesByID(t, requestMap(t, net))
	assert.Equal(t, 10.0, edges["A->B"]["speed_limit"])
}

func TestBuildRequest_ZeroSpeedLimitIsStillSent(t *testing.T) {
	net := New()
	net.AddEdge("A", "B", graph.Length(500), graph.SpeedLimit(0))

	edges := edgesByID(t, requestMap(t, net))
	assert.Contains(t, edges["A->B"], "speed_limit")
}

func TestBuildRequest_ReverseEdgeIsSeparateEntry(t *testing.T) {
	net := New()
	net.AddEdge("A", "B", graph.Length(1000))
	net.AddEdge("B", "A", graph.Length(900))

	req, err := net.BuildRequest("x", 1, 1)
	require.NoError(t, err)
	require.Len(t, req.GraphData.Edges, 2)
	assert.Equal(t, graph.Edge{ID: "A->B", U: "A", V: "B", Length: 1000}, req.GraphData.Edges[0])
	assert.Equal(t, graph.Edge{ID: "B->A", U: "B", V: "A", Length: 900}, req.GraphData.Edges[1])
}

func TestBuildRequest_MissingLength_ReturnsValidationError(t *testing.T) {
	net := New()
	net.AddNode("A")
	net.AddNode("B")
	net.AddEdge("A", "B")

	_, err := net.BuildRequest("x", 300, 1)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "A", verr.U)
	assert.Equal(t, "B", verr.V)
	assert.Contains(t, err.Error(), `missing required attribute "length"`)
}

func TestBuildRequest_ServiceList(t *testing.T) {
	m := requestMap(t, simpleNetwork())
	list := m["service_list"].([]any)
	require.Len(t, list, 1)
	svc := list[0].(map[string]any)
	assert.Equal(t, "S1", svc["service_id"])
	assert.NotContains(t, svc, "departure_delay")
}

func TestBuildRequest_EmptyNetwork_UsesEmptyArrays(t *testing.T) {
	req, err := New().BuildRequest("x", 1, 1)
	require.NoError(t, err)
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"simulation_meta":{"simulation_id":"x","run_time":1,"time_step":1},
		"graph_data":{"nodes":[],"edges":[]},"service_list":[]}`, string(b))
}

func TestAddService_DuplicateIDsPassThroughInOrder(t *testing.T) {
	net := simpleNetwork()
	second := shuttle()
	second.DepartureDelay = 120
	net.AddService(second)

	req, err := net.BuildRequest("x", 1, 1)
	require.NoError(t, err)
	require.Len(t, req.ServiceList, 2)
	assert.Equal(t, "S1", req.ServiceList[0].ServiceID)
	assert.Equal(t, "S1", req.ServiceList[1].ServiceID)
	assert.Equal(t, 120.0, req.ServiceList[1].DepartureDelay)
}

func TestAddService_StoresCopy(t *testing.T) {
	net := New()
	svc := shuttle()
	net.AddService(svc)
	svc.Route[0].NodeID = "Z"

	assert.Equal(t, "B", net.Services()[0].Route[0].NodeID)
}

func TestBuildRequest_LaterMutationDoesNotAffectRequest(t *testing.T) {
	net := simpleNetwork()
	req, err := net.BuildRequest("x", 1, 1)
	require.NoError(t, err)

	net.AddEdge("A", "B", graph.Length(5), graph.SpeedLimit(3))

	assert.Equal(t, 1000.0, req.GraphData.Edges[0].Length)
	assert.Nil(t, req.GraphData.Edges[0].SpeedLimit)
}

func TestNetwork_ShortestPath_PassesThrough(t *testing.T) {
	p, err := simpleNetwork().ShortestPath("A", "B")
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{"A", "B"}, p.Route)
	assert.Equal(t, 1000.0, p.Length)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, simpleNetwork().Validate())

	net := simpleNetwork()
	net.AddEdge("B", "C")
	bad := shuttle()
	bad.ServiceID = "S2"
	bad.InitialPosition = "Q"
	bad.Route = append(bad.Route, service.RouteStop{NodeID: "Z"})
	net.AddService(bad)

	err := net.Validate()
	require.Error(t, err)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), `initial position "Q"`)
	assert.Contains(t, err.Error(), `route[2] node "Z"`)
}

func TestValidate_NotCalledByRun(t *testing.T) {
	net := New(WithRunner(engine.RunnerFunc(func(context.Context, []byte) ([]byte, error) {
		return []byte(`{"simulation_meta":{},"output":[]}`), nil
	})))
	net.AddService(service.Service{ServiceID: "S1", InitialPosition: "nowhere"})

	_, err := net.Run(context.Background(), 10, 1)
	assert.NoError(t, err)
}
