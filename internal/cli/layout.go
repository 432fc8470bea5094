package cli

import (
	"fmt"
	"os"

	"qrtx/internal/circuit"
	"qrtx/internal/config"
	"qrtx/internal/wire"
)

func serializeOptions(cfg *config.Config) circuit.SerializeOptions {
	return circuit.SerializeOptions{Lenient: cfg.Serialize.Lenient}
}

// loadRequest reads a layout file, replays it on a fresh workspace and serializes
// the result. A layout without a qubit count uses circuit.default_qubits.
func loadRequest(path string, cfg *config.Config) (wire.CircuitRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return wire.CircuitRequest{}, fmt.Errorf("failed to open layout: %w", err)
	}
	defer func() { _ = f.Close() }()

	layout, err := circuit.ReadLayout(f)
	if err != nil {
		return wire.CircuitRequest{}, fmt.Errorf("%s: %w", path, err)
	}

	ws := circuit.NewWorkspace(cfg.Circuit.DefaultQubits, serializeOptions(cfg))
	if err := layout.Apply(&ws); err != nil {
		return wire.CircuitRequest{}, fmt.Errorf("%s: %w", path, err)
	}
	req, err := ws.Request()
	if err != nil {
		return wire.CircuitRequest{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}
