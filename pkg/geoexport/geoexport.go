// Package geoexport renders networks and simulation snapshots as GeoJSON.
//
// Only nodes with a location are drawn. Coordinates are written as [x, y],
// which for imported OSM networks is [lon, lat].
package geoexport

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/graph"
)

// Feature kinds, stored in the "kind" property.
const (
	KindNode    = "node"
	KindEdge    = "edge"
	KindService = "service"
)

// Network returns one Point feature per located node and one LineString
// feature per edge whose endpoints are both located.
func Network(g *graph.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	addNetwork(fc, g)
	return fc
}

// Snapshot returns the network plus one Point feature per service in row,
// placed along its current edge in proportion to the distance travelled.
// Services on an unknown or unlocated edge are left out.
func Snapshot(g *graph.Graph, row engine.LogRow) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	addNetwork(fc, g)

	edges := make(map[graph.EdgeID]graph.EdgeRef, g.NumEdges())
	for _, e := range g.Edges() {
		edges[e.ID()] = e
	}
	for _, sl := range row.ServiceLogs {
		e, ok := edges[sl.CurrentPosition.Edge]
		if !ok {
			continue
		}
		p, q, ok := endpoints(g, e.U, e.V)
		if !ok {
			continue
		}
		frac := 0.0
		if e.Data.Length != nil && *e.Data.Length > 0 {
			frac = clamp(sl.CurrentPosition.DistanceAlongEdge / *e.Data.Length)
		}
		f := geojson.NewPointFeature([]float64{p.X + frac*(q.X-p.X), p.Y + frac*(q.Y-p.Y)})
		f.SetProperty("kind", KindService)
		f.SetProperty("service_id", sl.ServiceID)
		f.SetProperty("state", string(sl.State))
		f.SetProperty("velocity", sl.Velocity)
		f.SetProperty("edge_id", e.ID())
		f.SetProperty("timestamp", row.Timestamp)
		fc.AddFeature(f)
	}
	return fc
}

// RowAt returns the last row logged at or before t, or the first row when t
// precedes every timestamp. It reports false for an empty log.
func RowAt(log engine.Log, t float64) (engine.LogRow, bool) {
	if len(log.Output) == 0 {
		return engine.LogRow{}, false
	}
	row := log.Output[0]
	for _, r := range log.Output[1:] {
		if r.Timestamp > t {
			break
		}
		row = r
	}
	return row, true
}

func addNetwork(fc *geojson.FeatureCollection, g *graph.Graph) {
	for _, id := range g.Nodes() {
		d, _ := g.Node(id)
		if d.Loc == nil {
			continue
		}
		f := geojson.NewPointFeature([]float64{d.Loc.X, d.Loc.Y})
		f.SetProperty("kind", KindNode)
		f.SetProperty("node_id", id)
		if d.Type != "" {
			f.SetProperty("type", string(d.Type))
		}
		fc.AddFeature(f)
	}
	for _, e := range g.Edges() {
		p, q, ok := endpoints(g, e.U, e.V)
		if !ok {
			continue
		}
		f := geojson.NewLineStringFeature([][]float64{{p.X, p.Y}, {q.X, q.Y}})
		f.SetProperty("kind", KindEdge)
		f.SetProperty("edge_id", e.ID())
		if e.Data.Length != nil {
			f.SetProperty("length", *e.Data.Length)
		}
		if e.Data.SpeedLimit != nil {
			f.SetProperty("speed_limit", *e.Data.SpeedLimit)
		}
		fc.AddFeature(f)
	}
}

func endpoints(g *graph.Graph, u, v graph.NodeID) (graph.Coordinate, graph.Coordinate, bool) {
	du, _ := g.Node(u)
	dv, _ := g.Node(v)
	if du.Loc == nil || dv.Loc == nil {
		return graph.Coordinate{}, graph.Coordinate{}, false
	}
	return *du.Loc, *dv.Loc, true
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
