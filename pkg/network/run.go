package network

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/results"
)

// DefaultTimeStep is the customary engine timestep in seconds.
const DefaultTimeStep = 1.0

type runConfig struct {
	simulationID string
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

// WithSimulationID sets the simulation id instead of generating one.
func WithSimulationID(id string) RunOption {
	return func(c *runConfig) { c.simulationID = id }
}

// Run simulates the network for runTime seconds in steps of timeStep seconds.
// It invokes the engine exactly once and blocks until it returns. A random
// simulation id is generated unless WithSimulationID is given.
//
// A missing edge length fails with *ValidationError before the engine starts.
// Engine failures are wrapped with the simulation id and still match
// engine.ErrBinaryNotFound, *engine.ExecError and *engine.DecodeError.
func (n *Network) Run(ctx context.Context, runTime, timeStep float64, opts ...RunOption) (*results.SimulationResult, error) {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.simulationID == "" {
		cfg.simulationID = uuid.NewString()
	}

	req, err := n.BuildRequest(cfg.simulationID, runTime, timeStep)
	if err != nil {
		return nil, err
	}
	doc, err := engine.Run(ctx, n.runner, req)
	if err != nil {
		return nil, fmt.Errorf("simulation %s: %w", cfg.simulationID, err)
	}
	return results.New(doc), nil
}
