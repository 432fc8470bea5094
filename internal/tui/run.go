// Package tui is the interactive circuit composer.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"qrtx/internal/circuit"
	"qrtx/internal/history"
	"qrtx/internal/preview"
	"qrtx/internal/wire"
)

// DefaultExportPath is where ctrl+s writes the OpenQASM rendering.
const DefaultExportPath = "circuit.qasm"

// Simulator runs a circuit on the backend. Implementations report every failure
// inside the result.
type Simulator interface {
	Simulate(ctx context.Context, req wire.CircuitRequest) *wire.SimulationResult
}

// Saver stores a circuit and its last run.
type Saver interface {
	Save(ctx context.Context, label string, req wire.CircuitRequest, res *wire.SimulationResult, qasm string) (*history.Record, error)
}

// Options configures the composer.
type Options struct {
	Qubits    int
	Serialize circuit.SerializeOptions
	Simulator Simulator
	// History is optional; without it ctrl+s only writes ExportPath.
	History Saver
	Preview preview.Previewer
	// ExportPath is optional; without it ctrl+s only records history.
	ExportPath string
	Logger     *slog.Logger
}

// Run starts the composer and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
