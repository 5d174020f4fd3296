package network

import (
	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/service"
)

// BuildRequest assembles the engine request for the current graph and services.
// It fails with a *ValidationError naming the first edge without a length.
// The returned document shares nothing with the network.
func (n *Network) BuildRequest(simulationID string, runTime, timeStep float64) (*engine.Request, error) {
	nodes := make([]graph.Node, 0, n.g.NumNodes())
	for _, id := range n.g.Nodes() {
		nodes = append(nodes, graph.Node{ID: id})
	}

	edges := make([]graph.Edge, 0, n.g.NumEdges())
	for _, e := range n.g.Edges() {
		if e.Data.Length == nil {
			return nil, &ValidationError{U: e.U, V: e.V, Attr: "length"}
		}
		edges = append(edges, graph.Edge{
			ID:         e.ID(),
			U:          e.U,
			V:          e.V,
			Length:     *e.Data.Length,
			SpeedLimit: e.Data.SpeedLimit,
		})
	}

	services := make([]service.ServiceWire, 0, len(n.services))
	for _, svc := range n.services {
		services = append(services, svc.ToWire())
	}

	return &engine.Request{
		Meta: engine.SimulationMeta{
			SimulationID: simulationID,
			RunTime:      runTime,
			TimeStep:     timeStep,
		},
		GraphData:   graph.GraphData{Nodes: nodes, Edges: edges},
		ServiceList: services,
	}, nil
}
