// Package kinematics describes the vehicle traction and braking models understood
// by the engine.
//
// Only the wire representation and parameter checks live here. The physics itself
// runs inside the engine; adding a model means implementing Model and teaching the
// engine the new discriminator.
package kinematics

import (
	"encoding/json"
	"fmt"
	"math"
)

// Model is a kinematics block as sent to the engine. Implementations marshal to a
// JSON object whose "model" key carries ModelName.
type Model interface {
	// ModelName returns the JSON discriminator string for the model.
	ModelName() string

	// Validate reports parameters the engine would reject.
	Validate() error
}

// ValidationError reports a kinematic parameter that is not a finite positive number.
type ValidationError struct {
	Model string
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s kinematics: %s must be finite and positive, got %v", e.Model, e.Field, e.Value)
}

func checkPositive(model, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &ValidationError{Model: model, Field: field, Value: v}
	}
	return nil
}

// Decode reads a kinematics object, selecting the concrete model from its
// "model" discriminator.
//
// Supported models:
//   - "constant": fixed a_acc / a_dcc rates.
func Decode(data []byte) (Model, error) {
	var disc struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return nil, fmt.Errorf("reading kinematics model discriminator: %w", err)
	}
	switch disc.Model {
	case ConstantModelName:
		var c Constant
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing constant kinematics: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown kinematics model %q", disc.Model)
	}
}
