package engine

import (
	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/service"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id"`
	RunTime      float64 `json:"run_time"`  // seconds
	TimeStep     float64 `json:"time_step"` // seconds
}

// Request is the JSON document written to the engine's standard input.
type Request struct {
	Meta        SimulationMeta        `json:"simulation_meta"`
	GraphData   graph.GraphData       `json:"graph_data"`
	ServiceList []service.ServiceWire `json:"service_list"`
}

// LogRow is the state of all services at a single simulation timestep.
type LogRow struct {
	Timestamp   float64              `json:"timestamp"` // seconds
	ServiceLogs []service.ServiceLog `json:"service_logs"`
}

// Log is the typed form of the engine's response document.
type Log struct {
	Meta   SimulationMeta `json:"simulation_meta"`
	Output []LogRow       `json:"output"`
}

// Document is a decoded response document, kept as generic JSON values so that
// fields this package does not know about survive untouched.
type Document = map[string]any
