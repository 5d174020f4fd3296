// Package scenario reads YAML scenario files: a network, a vehicle fleet, the
// services that run on it, and the run parameters for one simulation.
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/network"
	"github.com/cxd309/gotms/pkg/service"
)

// Simulation holds the run parameters.
type Simulation struct {
	ID       string  `yaml:"id,omitempty"`
	RunTime  float64 `yaml:"run_time"`            // seconds
	TimeStep float64 `yaml:"time_step,omitempty"` // seconds; network.DefaultTimeStep when zero
}

type Node struct {
	ID   string         `yaml:"id"`
	X    *float64       `yaml:"x,omitempty"`
	Y    *float64       `yaml:"y,omitempty"`
	Type graph.NodeType `yaml:"type,omitempty"`
}

// Edge describes u→v, plus v→u when Bidirectional is set.
type Edge struct {
	U             string   `yaml:"u"`
	V             string   `yaml:"v"`
	Length        *float64 `yaml:"length,omitempty"`      // metres
	SpeedLimit    *float64 `yaml:"speed_limit,omitempty"` // m/s
	Bidirectional bool     `yaml:"bidirectional,omitempty"`
}

type Vehicle struct {
	Length float64 `yaml:"length"` // metres
	VMax   float64 `yaml:"v_max"`  // m/s
	AAcc   float64 `yaml:"a_acc"`  // m/s²
	ADcc   float64 `yaml:"a_dcc"`  // m/s²
}

type Stop struct {
	Node  string  `yaml:"node"`
	Dwell float64 `yaml:"dwell,omitempty"` // seconds
}

// Service refers to its vehicle by name in the Vehicles map.
type Service struct {
	ID              string  `yaml:"id"`
	Vehicle         string  `yaml:"vehicle"`
	InitialPosition string  `yaml:"initial_position"`
	Route           []Stop  `yaml:"route"`
	DepartureDelay  float64 `yaml:"departure_delay,omitempty"` // seconds
}

// Scenario is the top level of a scenario file.
type Scenario struct {
	Simulation Simulation         `yaml:"simulation"`
	Nodes      []Node             `yaml:"nodes,omitempty"`
	Edges      []Edge             `yaml:"edges"`
	Vehicles   map[string]Vehicle `yaml:"vehicles,omitempty"`
	Services   []Service          `yaml:"services,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario")
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	return sc, nil
}

// Parse decodes a scenario document. Unrecognised keys are rejected, as are
// services that name a vehicle missing from the fleet.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty scenario document")
		}
		return nil, errors.Wrap(err, "parsing scenario")
	}
	if err := sc.check(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) check() error {
	for i, n := range sc.Nodes {
		if n.ID == "" {
			return fmt.Errorf("nodes[%d]: id is required", i)
		}
		if (n.X == nil) != (n.Y == nil) {
			return fmt.Errorf("nodes[%d] %q: x and y must be given together", i, n.ID)
		}
	}
	for i, e := range sc.Edges {
		if e.U == "" || e.V == "" {
			return fmt.Errorf("edges[%d]: u and v are required", i)
		}
	}
	for i, s := range sc.Services {
		if s.ID == "" {
			return fmt.Errorf("services[%d]: id is required", i)
		}
		if _, ok := sc.Vehicles[s.Vehicle]; !ok {
			return fmt.Errorf("service %q: unknown vehicle %q", s.ID, s.Vehicle)
		}
	}
	return nil
}

// Network builds a Network from the scenario. Nodes listed explicitly are
// added first, in file order; edge endpoints not listed are added as edges
// are read.
func (sc *Scenario) Network(opts ...network.Option) *network.Network {
	net := network.New(opts...)
	for _, n := range sc.Nodes {
		var attrs []graph.NodeAttr
		if n.X != nil && n.Y != nil {
			attrs = append(attrs, graph.Loc(*n.X, *n.Y))
		}
		if n.Type != "" {
			attrs = append(attrs, graph.Type(n.Type))
		}
		net.AddNode(n.ID, attrs...)
	}
	for _, e := range sc.Edges {
		var attrs []graph.EdgeAttr
		if e.Length != nil {
			attrs = append(attrs, graph.Length(*e.Length))
		}
		if e.SpeedLimit != nil {
			attrs = append(attrs, graph.SpeedLimit(*e.SpeedLimit))
		}
		net.AddEdge(e.U, e.V, attrs...)
		if e.Bidirectional {
			net.AddEdge(e.V, e.U, attrs...)
		}
	}
	for _, s := range sc.Services {
		v := sc.Vehicles[s.Vehicle]
		route := make([]service.RouteStop, len(s.Route))
		for i, stop := range s.Route {
			route[i] = service.RouteStop{NodeID: stop.Node, TDwell: stop.Dwell}
		}
		net.AddService(service.Service{
			ServiceID: s.ID,
			Vehicle: service.Vehicle{
				Name: s.Vehicle, Length: v.Length, VMax: v.VMax, AAcc: v.AAcc, ADcc: v.ADcc,
			},
			InitialPosition: s.InitialPosition,
			Route:           route,
			DepartureDelay:  s.DepartureDelay,
		})
	}
	return net
}

// TimeStep returns the configured step, or network.DefaultTimeStep when unset.
func (sc *Scenario) TimeStep() float64 {
	if sc.Simulation.TimeStep == 0 {
		return network.DefaultTimeStep
	}
	return sc.Simulation.TimeStep
}

// FromGraph renders a graph as a scenario with no fleet or services, for
// editing by hand. Edges carrying the same attributes in both directions are
// collapsed into one bidirectional entry.
func FromGraph(g *graph.Graph, runTime float64) *Scenario {
	sc := &Scenario{Simulation: Simulation{RunTime: runTime, TimeStep: network.DefaultTimeStep}}
	for _, id := range g.Nodes() {
		d, _ := g.Node(id)
		n := Node{ID: id, Type: d.Type}
		if d.Loc != nil {
			x, y := d.Loc.X, d.Loc.Y
			n.X, n.Y = &x, &y
		}
		sc.Nodes = append(sc.Nodes, n)
	}
	merged := make(map[graph.EdgeID]bool)
	for _, e := range g.Edges() {
		if merged[e.ID()] {
			continue
		}
		edge := Edge{U: e.U, V: e.V, Length: e.Data.Length, SpeedLimit: e.Data.SpeedLimit}
		if back, ok := g.Edge(e.V, e.U); ok && e.U != e.V && sameAttrs(e.Data, back) {
			edge.Bidirectional = true
			merged[graph.MakeEdgeID(e.V, e.U)] = true
		}
		sc.Edges = append(sc.Edges, edge)
	}
	return sc
}

func sameAttrs(a, b graph.EdgeData) bool {
	return floatEq(a.Length, b.Length) && floatEq(a.SpeedLimit, b.SpeedLimit)
}

func floatEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Write encodes the scenario as YAML.
func (sc *Scenario) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return errors.Wrap(err, "encoding scenario")
	}
	return enc.Close()
}

// VehicleNames returns the fleet names in sorted order.
func (sc *Scenario) VehicleNames() []string {
	names := make([]string, 0, len(sc.Vehicles))
	for name := range sc.Vehicles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
