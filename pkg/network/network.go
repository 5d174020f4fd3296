// Package network models a transport network for the TMS engine: a directed
// graph of nodes and attributed edges plus the services that run over it.
//
// A Network is built from a single goroutine and must not be mutated while a
// Run on it is in progress. Concurrent Runs on an unchanging Network are fine;
// each one starts its own engine process.
package network

import (
	"slices"

	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/service"
)

// ValidationError reports an edge that lacks a required attribute. It is
// returned before any engine process is started.
type ValidationError = graph.MissingAttrError

// Network is a directed graph with attached services. Edge attributes:
//   - length (metres): required by the engine
//   - speed_limit (m/s): optional
type Network struct {
	g        *graph.Graph
	services []service.Service
	runner   engine.Runner
}

// Option configures a Network.
type Option func(*Network)

// WithRunner sets the Runner used by Run. The default runs the tms-engine
// binary as a subprocess.
func WithRunner(r engine.Runner) Option {
	return func(n *Network) { n.runner = r }
}

// New returns an empty network.
func New(opts ...Option) *Network {
	n := &Network{g: graph.New()}
	for _, opt := range opts {
		opt(n)
	}
	if n.runner == nil {
		n.runner = engine.NewSubprocess(nil, nil)
	}
	return n
}

// Graph exposes the underlying graph for analysis beyond the methods below.
func (n *Network) Graph() *graph.Graph { return n.g }

// AddNode adds a node, or updates the attributes of an existing one.
func (n *Network) AddNode(id graph.NodeID, attrs ...graph.NodeAttr) { n.g.AddNode(id, attrs...) }

// AddEdge adds the directed edge u→v, creating missing endpoints. Adding an
// existing edge updates its attributes.
func (n *Network) AddEdge(u, v graph.NodeID, attrs ...graph.EdgeAttr) { n.g.AddEdge(u, v, attrs...) }

// RemoveNode deletes a node and its incident edges.
func (n *Network) RemoveNode(id graph.NodeID) bool { return n.g.RemoveNode(id) }

// RemoveEdge deletes the directed edge u→v.
func (n *Network) RemoveEdge(u, v graph.NodeID) bool { return n.g.RemoveEdge(u, v) }

func (n *Network) HasNode(id graph.NodeID) bool                { return n.g.HasNode(id) }
func (n *Network) HasEdge(u, v graph.NodeID) bool              { return n.g.HasEdge(u, v) }
func (n *Network) Node(id graph.NodeID) (graph.NodeData, bool) { return n.g.Node(id) }
func (n *Network) Edge(u, v graph.NodeID) (graph.EdgeData, bool) {
	return n.g.Edge(u, v)
}
func (n *Network) Nodes() []graph.NodeID                    { return n.g.Nodes() }
func (n *Network) Edges() []graph.EdgeRef                   { return n.g.Edges() }
func (n *Network) Successors(u graph.NodeID) []graph.NodeID { return n.g.Successors(u) }
func (n *Network) NumNodes() int                            { return n.g.NumNodes() }
func (n *Network) NumEdges() int                            { return n.g.NumEdges() }

// ShortestPath returns the length-weighted shortest path between two nodes.
func (n *Network) ShortestPath(start, end graph.NodeID) (graph.PathInfo, error) {
	return n.g.ShortestPath(start, end)
}

// AddService attaches a service. Services keep insertion order and are not
// deduplicated; none of their node references are checked here.
func (n *Network) AddService(svc service.Service) {
	svc.Route = slices.Clone(svc.Route)
	n.services = append(n.services, svc)
}

// Services returns copies of the attached services in insertion order.
func (n *Network) Services() []service.Service {
	out := make([]service.Service, len(n.services))
	for i, svc := range n.services {
		svc.Route = slices.Clone(svc.Route)
		out[i] = svc
	}
	return out
}
