// Package graph provides the directed graph container behind a TMS network, along
// with the wire types the engine expects for nodes and edges.
//
// A Graph is not safe for concurrent mutation. Callers build it from a single
// goroutine and treat it as read-only once a simulation run starts.
package graph

import (
	"fmt"
	"maps"
	"slices"
)

// NodeID, EdgeID, PathID are string aliases used as identifiers.
type (
	NodeID = string
	EdgeID = string
	PathID = string
)

// NodeType classifies a node in the network.
type NodeType string

const (
	NodeTypeMain    NodeType = "main"
	NodeTypeStation NodeType = "station"
	NodeTypeSide    NodeType = "side"
)

// Coordinate is a 2D position. Imported networks store longitude in X and latitude in Y.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is the wire form of a node in the simulation request.
type Node struct {
	ID NodeID `json:"node_id"`
}

// Edge is the wire form of a directed edge in the simulation request.
// SpeedLimit is optional: nil means the edge imposes no limit and the key is
// left out of the document entirely.
type Edge struct {
	ID         EdgeID   `json:"edge_id"`
	U          NodeID   `json:"u"`
	V          NodeID   `json:"v"`
	Length     float64  `json:"length"`                // metres
	SpeedLimit *float64 `json:"speed_limit,omitempty"` // m/s; nil = no restriction
}

// GraphData is the serialisable representation of a network graph.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MakeEdgeID returns the engine identifier of the directed edge u→v.
func MakeEdgeID(u, v NodeID) EdgeID { return u + "->" + v }

// NodeData holds the attributes attached to a node. None of them are sent to
// the engine; they exist for import, export and analysis.
type NodeData struct {
	Loc   *Coordinate
	Type  NodeType
	Extra map[string]any
}

// EdgeData holds the attributes attached to a directed edge.
type EdgeData struct {
	Length     *float64 // metres; required by the engine
	SpeedLimit *float64 // m/s; optional
	Extra      map[string]any
}

func (d NodeData) clone() NodeData {
	if d.Loc != nil {
		loc := *d.Loc
		d.Loc = &loc
	}
	d.Extra = maps.Clone(d.Extra)
	return d
}

func (d EdgeData) clone() EdgeData {
	d.Length = cloneFloat(d.Length)
	d.SpeedLimit = cloneFloat(d.SpeedLimit)
	d.Extra = maps.Clone(d.Extra)
	return d
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// NodeAttr sets one attribute on a node.
type NodeAttr func(*NodeData)

// EdgeAttr sets one attribute on an edge.
type EdgeAttr func(*EdgeData)

// Loc places a node at (x, y).
func Loc(x, y float64) NodeAttr {
	return func(d *NodeData) { d.Loc = &Coordinate{X: x, Y: y} }
}

// Type classifies a node.
func Type(t NodeType) NodeAttr {
	return func(d *NodeData) { d.Type = t }
}

// NodeExtra sets a free-form node attribute.
func NodeExtra(key string, value any) NodeAttr {
	return func(d *NodeData) {
		if d.Extra == nil {
			d.Extra = make(map[string]any)
		}
		d.Extra[key] = value
	}
}

// Length sets the edge length in metres.
func Length(metres float64) EdgeAttr {
	return func(d *EdgeData) { d.Length = &metres }
}

// SpeedLimit sets the edge speed limit in m/s.
func SpeedLimit(mps float64) EdgeAttr {
	return func(d *EdgeData) { d.SpeedLimit = &mps }
}

// EdgeExtra sets a free-form edge attribute.
func EdgeExtra(key string, value any) EdgeAttr {
	return func(d *EdgeData) {
		if d.Extra == nil {
			d.Extra = make(map[string]any)
		}
		d.Extra[key] = value
	}
}

// EdgeRef is a directed edge together with a copy of its attributes.
type EdgeRef struct {
	U    NodeID
	V    NodeID
	Data EdgeData
}

// ID returns the engine identifier of the edge.
func (e EdgeRef) ID() EdgeID { return MakeEdgeID(e.U, e.V) }

// MissingAttrError reports a directed edge that lacks an attribute the engine requires.
type MissingAttrError struct {
	U    NodeID
	V    NodeID
	Attr string
}

func (e *MissingAttrError) Error() string {
	return fmt.Sprintf("edge (%q, %q) is missing required attribute %q", e.U, e.V, e.Attr)
}

// Graph is a directed graph with attributed nodes and edges. Nodes iterate in
// insertion order; edges iterate by source node order, then by the order in
// which each out-edge was first added.
type Graph struct {
	nodes    []NodeID
	nodeData map[NodeID]*NodeData
	succ     map[NodeID][]NodeID
	edgeData map[NodeID]map[NodeID]*EdgeData
	numEdges int
	// Shortest-path index; nil until first needed, dropped whenever topology or lengths change.
	paths *pathIndex
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodeData: make(map[NodeID]*NodeData),
		succ:     make(map[NodeID][]NodeID),
		edgeData: make(map[NodeID]map[NodeID]*EdgeData),
	}
}

// AddNode adds a node, or updates the attributes of an existing one.
func (g *Graph) AddNode(id NodeID, attrs ...NodeAttr) {
	d, ok := g.nodeData[id]
	if !ok {
		d = &NodeData{}
		g.nodes = append(g.nodes, id)
		g.nodeData[id] = d
		g.paths = nil
	}
	for _, attr := range attrs {
		attr(d)
	}
}

// AddEdge adds the directed edge u→v, creating missing endpoints. Adding an
// edge that already exists updates its attributes in place.
func (g *Graph) AddEdge(u, v NodeID, attrs ...EdgeAttr) {
	g.AddNode(u)
	g.AddNode(v)
	out := g.edgeData[u]
	if out == nil {
		out = make(map[NodeID]*EdgeData)
		g.edgeData[u] = out
	}
	d, ok := out[v]
	if !ok {
		d = &EdgeData{}
		out[v] = d
		g.succ[u] = append(g.succ[u], v)
		g.numEdges++
	}
	for _, attr := range attrs {
		attr(d)
	}
	g.paths = nil
}

// RemoveEdge deletes the directed edge u→v. It reports whether the edge existed.
func (g *Graph) RemoveEdge(u, v NodeID) bool {
	if _, ok := g.edgeData[u][v]; !ok {
		return false
	}
	delete(g.edgeData[u], v)
	g.succ[u] = slices.DeleteFunc(g.succ[u], func(n NodeID) bool { return n == v })
	g.numEdges--
	g.paths = nil
	return true
}

// RemoveNode deletes a node and every edge incident to it. It reports whether the node existed.
func (g *Graph) RemoveNode(id NodeID) bool {
	if _, ok := g.nodeData[id]; !ok {
		return false
	}
	for _, v := range slices.Clone(g.succ[id]) {
		g.RemoveEdge(id, v)
	}
	for _, u := range g.nodes {
		g.RemoveEdge(u, id)
	}
	delete(g.nodeData, id)
	delete(g.succ, id)
	delete(g.edgeData, id)
	g.nodes = slices.DeleteFunc(g.nodes, func(n NodeID) bool { return n == id })
	g.paths = nil
	return true
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodeData[id]
	return ok
}

// HasEdge reports whether the directed edge u→v exists.
func (g *Graph) HasEdge(u, v NodeID) bool {
	_, ok := g.edgeData[u][v]
	return ok
}

// Node returns a copy of the attributes of a node.
func (g *Graph) Node(id NodeID) (NodeData, bool) {
	d, ok := g.nodeData[id]
	if !ok {
		return NodeData{}, false
	}
	return d.clone(), true
}

// Edge returns a copy of the attributes of the directed edge u→v.
func (g *Graph) Edge(u, v NodeID) (EdgeData, bool) {
	d, ok := g.edgeData[u][v]
	if !ok {
		return EdgeData{}, false
	}
	return d.clone(), true
}

// Nodes returns the node IDs in insertion order.
func (g *Graph) Nodes() []NodeID { return slices.Clone(g.nodes) }

// Successors returns the targets of u's out-edges in insertion order.
func (g *Graph) Successors(u NodeID) []NodeID { return slices.Clone(g.succ[u]) }

// Edges returns every directed edge in iteration order.
func (g *Graph) Edges() []EdgeRef {
	edges := make([]EdgeRef, 0, g.numEdges)
	for _, u := range g.nodes {
		for _, v := range g.succ[u] {
			edges = append(edges, EdgeRef{U: u, V: v, Data: g.edgeData[u][v].clone()})
		}
	}
	return edges
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of directed edges.
func (g *Graph) NumEdges() int { return g.numEdges }
