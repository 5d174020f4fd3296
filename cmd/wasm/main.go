//go:build js && wasm

// Command wasm exposes request construction to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	buildSimulationRequest(scenarioYAML) -> requestJSON
//
// The output is the same document `tms request` prints, ready to hand to the
// engine's own runSimulation(requestJSON).
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/google/uuid"

	"github.com/cxd309/gotms/internal/scenario"
)

func main() {
	js.Global().Set("buildSimulationRequest", js.FuncOf(buildSimulationRequest))
	select {} // keep the WASM module alive until the page is closed
}

func buildSimulationRequest(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	sc, err := scenario.Parse([]byte(args[0].String()))
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	id := sc.Simulation.ID
	if id == "" {
		id = uuid.NewString()
	}
	req, err := sc.Network().BuildRequest(id, sc.Simulation.RunTime, sc.TimeStep())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	out, err := json.Marshal(req)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return string(out)
}
