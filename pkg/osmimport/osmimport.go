// Package osmimport builds a TMS network from an OpenStreetMap XML extract.
//
// Every way carrying the configured tag becomes a chain of directed edges
// between consecutive way nodes. Edge lengths are great-circle distances in
// metres and nodes are placed at Loc{X: lon, Y: lat}.
package osmimport

import (
	"context"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"

	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/network"
)

const (
	kmhToMps = 1000.0 / 3600.0
	mphToMps = 0.44704
)

// Config selects which ways are imported.
type Config struct {
	// TagKey is the tag a way must carry; "highway" when empty. Use "railway" for rail networks.
	TagKey string
	// Values restricts the accepted values of TagKey. Empty accepts any value.
	Values []string
}

func (cfg Config) tagKey() string {
	if cfg.TagKey == "" {
		return "highway"
	}
	return cfg.TagKey
}

// CheckTag reports whether a tag value is accepted.
func (cfg Config) CheckTag(value string) bool {
	if len(cfg.Values) == 0 {
		return true
	}
	for _, v := range cfg.Values {
		if v == value {
			return true
		}
	}
	return false
}

type wayData struct {
	id       osm.WayID
	nodes    []osm.NodeID
	oneway   int // 0 both directions, 1 forward, -1 reverse
	maxspeed *float64
}

// ImportFile reads an .osm file.
func ImportFile(ctx context.Context, path string, cfg Config, opts ...network.Option) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()
	net, err := Import(ctx, f, cfg, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "importing %s", path)
	}
	return net, nil
}

// Import reads OSM XML from r. Segments touching a node absent from the
// extract are skipped. opts are passed to network.New.
func Import(ctx context.Context, r io.Reader, cfg Config, opts ...network.Option) (*network.Network, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	key := cfg.tagKey()
	coords := make(map[osm.NodeID]orb.Point)
	ways := []wayData{}
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			coords[obj.ID] = orb.Point{obj.Lon, obj.Lat}
		case *osm.Way:
			tag := obj.Tags.Find(key)
			if tag == "" || !cfg.CheckTag(tag) {
				continue
			}
			way := wayData{
				id:       obj.ID,
				nodes:    make([]osm.NodeID, len(obj.Nodes)),
				oneway:   parseOneway(obj.Tags.Find("oneway")),
				maxspeed: ParseMaxSpeed(obj.Tags.Find("maxspeed")),
			}
			for i, wn := range obj.Nodes {
				way.nodes[i] = wn.ID
			}
			ways = append(ways, way)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Scanner error")
	}

	net := network.New(opts...)
	for _, way := range ways {
		for i := 1; i < len(way.nodes); i++ {
			from, to := way.nodes[i-1], way.nodes[i]
			p, okP := coords[from]
			q, okQ := coords[to]
			if !okP || !okQ || from == to {
				continue
			}
			u, v := nodeID(from), nodeID(to)
			net.AddNode(u, graph.Loc(p[0], p[1]))
			net.AddNode(v, graph.Loc(q[0], q[1]))

			attrs := []graph.EdgeAttr{
				graph.Length(geo.Distance(p, q)),
				graph.EdgeExtra("way_id", int64(way.id)),
			}
			if way.maxspeed != nil {
				attrs = append(attrs, graph.SpeedLimit(*way.maxspeed))
			}
			if way.oneway >= 0 {
				net.AddEdge(u, v, attrs...)
			}
			if way.oneway <= 0 {
				net.AddEdge(v, u, attrs...)
			}
		}
	}
	return net, nil
}

func nodeID(id osm.NodeID) graph.NodeID {
	return strconv.FormatInt(int64(id), 10)
}

func parseOneway(v string) int {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "1", "true":
		return 1
	case "-1":
		return -1
	}
	return 0
}

// ParseMaxSpeed converts an OSM maxspeed value to m/s. Plain numbers are km/h;
// a "mph" suffix switches to miles per hour. Only the first of several
// semicolon-separated values is read. Symbolic values such as "none" or
// "RU:urban" yield nil.
func ParseMaxSpeed(v string) *float64 {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	factor := kmhToMps
	switch {
	case strings.HasSuffix(v, "mph"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "mph"))
		factor = mphToMps
	case strings.HasSuffix(v, "km/h"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "km/h"))
	case strings.HasSuffix(v, "kmh"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "kmh"))
	}
	speed, err := strconv.ParseFloat(v, 64)
	if err != nil || !(speed > 0) || math.IsInf(speed, 0) {
		return nil
	}
	mps := speed * factor
	return &mps
}
