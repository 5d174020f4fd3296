// Package service defines the vehicle, route stop and service values attached to a
// network, and their wire form in the engine request.
package service

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cxd309/gotms/pkg/graph"
	"github.com/cxd309/gotms/pkg/kinematics"
)

// ServiceID is a unique string identifier for a service.
type ServiceID = string

// RouteStop is a node on a service's route with a dwell time. The zero TDwell
// means the service does not wait at the stop.
type RouteStop struct {
	NodeID graph.NodeID `json:"node_id"`
	TDwell float64      `json:"t_dwell"` // seconds
}

// Vehicle holds the static parameters of a vehicle. Kinematics are always
// sent under the constant-acceleration model.
type Vehicle struct {
	Name   string
	Length float64 // metres
	VMax   float64 // m/s
	AAcc   float64 // m/s²
	ADcc   float64 // m/s²
}

// VehicleWire is the JSON shape of a vehicle in the engine request.
type VehicleWire struct {
	Name       string           `json:"name"`
	Length     float64          `json:"length"` // metres
	Kinematics kinematics.Model `json:"kinematics"`
}

// UnmarshalJSON resolves the "kinematics" object through its model
// discriminator, so request documents can be read back.
func (w *VehicleWire) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name       string          `json:"name"`
		Length     float64         `json:"length"`
		Kinematics json.RawMessage `json:"kinematics"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.Name = aux.Name
	w.Length = aux.Length
	if len(aux.Kinematics) == 0 {
		return fmt.Errorf("vehicle %q: missing \"kinematics\" field", w.Name)
	}
	k, err := kinematics.Decode(aux.Kinematics)
	if err != nil {
		return fmt.Errorf("vehicle %q: %w", w.Name, err)
	}
	w.Kinematics = k
	return nil
}

// Kinematics returns the vehicle's motion model.
func (v Vehicle) Kinematics() kinematics.Model {
	return kinematics.Constant{VMax: v.VMax, AAcc: v.AAcc, ADcc: v.ADcc}
}

// ToWire converts the vehicle to its request representation.
func (v Vehicle) ToWire() VehicleWire {
	return VehicleWire{Name: v.Name, Length: v.Length, Kinematics: v.Kinematics()}
}

// Validate reports values the engine would reject. It is never called
// implicitly; a malformed vehicle passes through to the engine unchanged.
func (v Vehicle) Validate() error {
	if v.Name == "" {
		return &ValidationError{Field: "vehicle.name", Reason: "must not be empty"}
	}
	if math.IsNaN(v.Length) || math.IsInf(v.Length, 0) || v.Length <= 0 {
		return &ValidationError{Field: "vehicle.length", Reason: fmt.Sprintf("must be finite and positive, got %v", v.Length)}
	}
	if err := v.Kinematics().Validate(); err != nil {
		return fmt.Errorf("vehicle %q: %w", v.Name, err)
	}
	return nil
}

// Service is the static definition of a scheduled service.
type Service struct {
	ServiceID       ServiceID
	Vehicle         Vehicle
	InitialPosition graph.NodeID
	Route           []RouteStop
	// DepartureDelay is the number of simulation-seconds the service waits
	// stationary before beginning to move. Zero = immediate.
	DepartureDelay float64 // seconds
}

// ServiceWire is the JSON shape of a service in the engine request.
// A zero DepartureDelay is omitted from the document rather than sent as 0.
type ServiceWire struct {
	ServiceID       ServiceID    `json:"service_id"`
	Vehicle         VehicleWire  `json:"vehicle"`
	InitialPosition graph.NodeID `json:"initial_position"`
	Route           []RouteStop  `json:"route"`
	DepartureDelay  float64      `json:"departure_delay,omitempty"` // seconds
}

// ToWire converts the service to its request representation, copying the route.
func (s Service) ToWire() ServiceWire {
	route := make([]RouteStop, len(s.Route))
	copy(route, s.Route)
	return ServiceWire{
		ServiceID:       s.ServiceID,
		Vehicle:         s.Vehicle.ToWire(),
		InitialPosition: s.InitialPosition,
		Route:           route,
		DepartureDelay:  s.DepartureDelay,
	}
}

// Validate checks the service in isolation. Whether its nodes exist is a
// property of the network it is attached to.
func (s Service) Validate() error {
	if s.ServiceID == "" {
		return &ValidationError{Field: "service_id", Reason: "must not be empty"}
	}
	if err := s.Vehicle.Validate(); err != nil {
		return fmt.Errorf("service %q: %w", s.ServiceID, err)
	}
	if len(s.Route) == 0 {
		return &ValidationError{ServiceID: s.ServiceID, Field: "route", Reason: "has no stops"}
	}
	for i, stop := range s.Route {
		if math.IsNaN(stop.TDwell) || math.IsInf(stop.TDwell, 0) || stop.TDwell < 0 {
			return &ValidationError{ServiceID: s.ServiceID, Field: fmt.Sprintf("route[%d].t_dwell", i),
				Reason: fmt.Sprintf("must be finite and non-negative, got %v", stop.TDwell)}
		}
	}
	if math.IsNaN(s.DepartureDelay) || math.IsInf(s.DepartureDelay, 0) || s.DepartureDelay < 0 {
		return &ValidationError{ServiceID: s.ServiceID, Field: "departure_delay",
			Reason: fmt.Sprintf("must be finite and non-negative, got %v", s.DepartureDelay)}
	}
	return nil
}

// ValidationError reports a service or vehicle field the engine would reject.
type ValidationError struct {
	ServiceID ServiceID
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.ServiceID == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("service %q: %s %s", e.ServiceID, e.Field, e.Reason)
}
