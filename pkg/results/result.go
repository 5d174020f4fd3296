// Package results wraps the engine's response document in a read-only view.
package results

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cxd309/gotms/pkg/engine"
)

// ErrMissingKey is matched by every KeyError.
var ErrMissingKey = errors.New("simulation result: missing key")

// KeyError reports an accessor invoked on a document that lacks an expected
// key, or holds it with an unexpected type.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("simulation result: missing or malformed %q", e.Key)
}

func (e *KeyError) Is(target error) bool { return target == ErrMissingKey }

// SimulationResult is a view over a decoded response document. Construction
// never fails; missing keys surface when an accessor needs them. Nothing is
// recomputed or cached.
type SimulationResult struct {
	raw engine.Document
}

// New wraps a decoded response document.
func New(doc engine.Document) *SimulationResult {
	return &SimulationResult{raw: doc}
}

// Meta returns the simulation_meta object.
func (r *SimulationResult) Meta() (map[string]any, error) {
	meta, ok := r.raw["simulation_meta"].(map[string]any)
	if !ok {
		return nil, &KeyError{Key: "simulation_meta"}
	}
	return meta, nil
}

// Output returns the ordered time-step log entries.
func (r *SimulationResult) Output() ([]map[string]any, error) {
	rows, ok := r.raw["output"].([]any)
	if !ok {
		return nil, &KeyError{Key: "output"}
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return nil, &KeyError{Key: fmt.Sprintf("output[%d]", i)}
		}
		out[i] = m
	}
	return out, nil
}

// Raw returns the whole document unchanged.
func (r *SimulationResult) Raw() engine.Document { return r.raw }

// MarshalJSON writes the document back out unchanged.
func (r *SimulationResult) MarshalJSON() ([]byte, error) { return json.Marshal(r.raw) }

// Log decodes the document into the engine's typed log.
func (r *SimulationResult) Log() (engine.Log, error) {
	if _, err := r.Meta(); err != nil {
		return engine.Log{}, err
	}
	if _, err := r.Output(); err != nil {
		return engine.Log{}, err
	}
	b, err := json.Marshal(r.raw)
	if err != nil {
		return engine.Log{}, fmt.Errorf("re-encoding result: %w", err)
	}
	var log engine.Log
	if err := json.Unmarshal(b, &log); err != nil {
		return engine.Log{}, fmt.Errorf("decoding typed log: %w", err)
	}
	return log, nil
}

// Timestamps returns the timestamp of every output row, in order.
func (r *SimulationResult) Timestamps() ([]float64, error) {
	rows, err := r.Output()
	if err != nil {
		return nil, err
	}
	ts := make([]float64, len(rows))
	for i, row := range rows {
		v, ok := row["timestamp"].(float64)
		if !ok {
			return nil, &KeyError{Key: fmt.Sprintf("output[%d].timestamp", i)}
		}
		ts[i] = v
	}
	return ts, nil
}

// ServiceIDs returns the service ids logged at output row step.
func (r *SimulationResult) ServiceIDs(step int) ([]string, error) {
	rows, err := r.Output()
	if err != nil {
		return nil, err
	}
	if step < 0 || step >= len(rows) {
		return nil, fmt.Errorf("simulation result: step %d out of range [0, %d)", step, len(rows))
	}
	key := fmt.Sprintf("output[%d].service_logs", step)
	logs, ok := rows[step]["service_logs"].([]any)
	if !ok {
		return nil, &KeyError{Key: key}
	}
	ids := make([]string, 0, len(logs))
	for i, l := range logs {
		m, ok := l.(map[string]any)
		if !ok {
			return nil, &KeyError{Key: fmt.Sprintf("%s[%d]", key, i)}
		}
		id, ok := m["service_id"].(string)
		if !ok {
			return nil, &KeyError{Key: fmt.Sprintf("%s[%d].service_id", key, i)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *SimulationResult) String() string {
	id, steps := "?", "?"
	if meta, err := r.Meta(); err == nil {
		if s, ok := meta["simulation_id"].(string); ok {
			id = s
		}
	}
	if rows, ok := r.raw["output"].([]any); ok {
		steps = fmt.Sprint(len(rows))
	}
	return fmt.Sprintf("SimulationResult(simulation_id=%q, steps=%s)", id, steps)
}
