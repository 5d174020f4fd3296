package graph

import (
	"fmt"
	"math"

	"github.com/LdDl/ch"
)

// PathInfo holds the result of a shortest-path computation.
type PathInfo struct {
	ID     PathID
	Route  []NodeID // ordered node IDs from start to end
	Length float64  // total path length in metres
}

// pathIndex is a contraction-hierarchies view of the graph keyed by node position.
type pathIndex struct {
	g     *ch.Graph
	label map[NodeID]int64
	ids   []NodeID
}

// pathKey returns a canonical string key for a start→end pair.
func pathKey(start, end NodeID) PathID { return start + "->" + end }

func (g *Graph) buildPathIndex() (*pathIndex, error) {
	idx := &pathIndex{
		g:     &ch.Graph{},
		label: make(map[NodeID]int64, len(g.nodes)),
		ids:   make([]NodeID, len(g.nodes)),
	}
	for i, id := range g.nodes {
		label := int64(i)
		if err := idx.g.CreateVertex(label); err != nil {
			return nil, fmt.Errorf("creating vertex for node %q: %w", id, err)
		}
		idx.label[id] = label
		idx.ids[i] = id
	}
	for _, u := range g.nodes {
		for _, v := range g.succ[u] {
			d := g.edgeData[u][v]
			if d.Length == nil {
				return nil, &MissingAttrError{U: u, V: v, Attr: "length"}
			}
			if err := idx.g.AddEdge(idx.label[u], idx.label[v], *d.Length); err != nil {
				return nil, fmt.Errorf("adding edge %q: %w", MakeEdgeID(u, v), err)
			}
		}
	}
	idx.g.PrepareContractionHierarchies()
	return idx, nil
}

func (g *Graph) ensurePathIndex() (*pathIndex, error) {
	if g.paths != nil {
		return g.paths, nil
	}
	idx, err := g.buildPathIndex()
	if err != nil {
		return nil, err
	}
	g.paths = idx
	return idx, nil
}

// ShortestPath returns the length-weighted shortest path from start to end.
// Every edge must carry a length. Returns an error if either node is missing
// or no path exists.
func (g *Graph) ShortestPath(start, end NodeID) (PathInfo, error) {
	for _, n := range []NodeID{start, end} {
		if !g.HasNode(n) {
			return PathInfo{}, fmt.Errorf("node %q not found", n)
		}
	}
	if start == end {
		return PathInfo{ID: pathKey(start, end), Route: []NodeID{start}, Length: 0}, nil
	}
	idx, err := g.ensurePathIndex()
	if err != nil {
		return PathInfo{}, err
	}
	cost, labels := idx.g.ShortestPath(idx.label[start], idx.label[end])
	if cost < 0 || math.IsInf(cost, 1) || len(labels) == 0 {
		return PathInfo{}, fmt.Errorf("no path from %q to %q", start, end)
	}
	route := make([]NodeID, len(labels))
	for i, l := range labels {
		route[i] = idx.ids[l]
	}
	return PathInfo{ID: pathKey(start, end), Route: route, Length: cost}, nil
}
