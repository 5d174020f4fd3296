package service

import "github.com/cxd309/gotms/pkg/graph"

// ServiceState describes the motion state the engine reports for a service.
type ServiceState string

const (
	StateStationary   ServiceState = "stationary"
	StateDwelling     ServiceState = "dwelling"
	StateAccelerating ServiceState = "accelerating"
	StateDecelerating ServiceState = "decelerating"
	StateCruising     ServiceState = "cruising"
)

// Position is a point along a directed edge in the graph.
type Position struct {
	Edge              graph.EdgeID `json:"edge"`
	DistanceAlongEdge float64      `json:"distance_along_edge"` // metres
}

// ServiceLog is a point-in-time snapshot of a service as reported by the engine.
type ServiceLog struct {
	ServiceID       ServiceID    `json:"service_id"`
	CurrentPosition Position     `json:"current_position"`
	State           ServiceState `json:"state"`
	Velocity        float64      `json:"velocity"`        // m/s
	RemainingDwell  float64      `json:"remaining_dwell"` // seconds
	NextStop        graph.NodeID `json:"next_stop"`
}
