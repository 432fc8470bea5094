package circuit

import (
	"fmt"

	"qrtx/internal/wire"
)

// DropResult says what a drop did.
type DropResult int

const (
	// Placed means the gate was written to the grid.
	Placed DropResult = iota
	// ControlChosen means a CNOT control was picked and a target is now awaited.
	ControlChosen
)

// Workspace is the whole editor state: qubit counts, the grid, the pending CNOT
// selection and the last simulation run. Every change goes through its methods.
type Workspace struct {
	Qubits     QubitCounter
	Grid       State
	Selection  Selector
	Simulating bool
	Result     *wire.SimulationResult

	opts SerializeOptions
}

// NewWorkspace returns an empty workspace sized to qubits.
func NewWorkspace(qubits int, opts SerializeOptions) Workspace {
	return Workspace{Qubits: NewQubitCounter(qubits), opts: opts}
}

func (w *Workspace) checkCell(qubit, column int) error {
	if qubit < 0 || qubit >= w.Qubits.Confirmed || column < 0 || column >= Columns {
		return fmt.Errorf("q%d/c%d: %w", qubit, column, ErrOutOfRange)
	}
	return nil
}

// Drop handles a palette tile dropped on (qubit, column). A CNOT only names the
// control here; ChooseTarget completes it.
func (w *Workspace) Drop(kind GateKind, qubit, column int) (DropResult, error) {
	if err := w.checkCell(qubit, column); err != nil {
		return Placed, err
	}
	if w.Selection.Selecting() {
		return Placed, ErrSelectionPending
	}
	if kind == CNOT {
		sel, err := w.Selection.ChooseControl(qubit, column)
		if err != nil {
			return Placed, err
		}
		w.Selection = sel
		return ControlChosen, nil
	}
	grid, err := w.Grid.ApplyDrop(kind, qubit, column, nil)
	if err != nil {
		return Placed, err
	}
	w.Grid = grid
	return Placed, nil
}

// ChooseTarget completes a pending CNOT with (qubit, column) as its target.
func (w *Workspace) ChooseTarget(qubit, column int) error {
	if err := w.checkCell(qubit, column); err != nil {
		return err
	}
	sel, pairing, err := w.Selection.ChooseTarget(qubit, column)
	if err != nil {
		return err
	}
	grid, err := w.Grid.ApplyDrop(CNOT, qubit, column, &pairing)
	if err != nil {
		return err
	}
	w.Grid = grid
	w.Selection = sel
	return nil
}

// CancelSelection drops a pending CNOT control without writing anything.
func (w *Workspace) CancelSelection() {
	w.Selection = w.Selection.Reset()
}

// Remove empties one cell.
func (w *Workspace) Remove(qubit, column int) error {
	if err := w.checkCell(qubit, column); err != nil {
		return err
	}
	w.Grid = w.Grid.Remove(qubit, column)
	return nil
}

// IncrementQubits raises the selected (unconfirmed) qubit count.
func (w *Workspace) IncrementQubits() { w.Qubits = w.Qubits.Increment() }

// DecrementQubits lowers the selected (unconfirmed) qubit count.
func (w *Workspace) DecrementQubits() { w.Qubits = w.Qubits.Decrement() }

// ConfirmQubits applies the selected qubit count. The grid is always cleared,
// even when the count did not change.
func (w *Workspace) ConfirmQubits() {
	w.Qubits = w.Qubits.Confirm()
	w.Grid = State{}
	w.Selection = w.Selection.Reset()
}

// Clear empties the grid and forgets the pending selection and the last result.
func (w *Workspace) Clear() {
	w.Grid = State{}
	w.Selection = w.Selection.Reset()
	w.Result = nil
}

// Request serializes the grid for the confirmed qubit count.
func (w *Workspace) Request() (wire.CircuitRequest, error) {
	return Serialize(w.Grid, w.Qubits.Confirmed, w.opts)
}

// BeginRun marks a simulation as started and returns the request to send. It
// fails with ErrRunInProgress while another run is outstanding. A circuit that
// cannot be serialized is recorded as a failed result.
func (w *Workspace) BeginRun() (wire.CircuitRequest, error) {
	if w.Simulating {
		return wire.CircuitRequest{}, ErrRunInProgress
	}
	req, err := w.Request()
	if err != nil {
		w.Result = wire.Failure(fmt.Sprintf("Failed to simulate circuit: %v", err))
		return wire.CircuitRequest{}, err
	}
	w.Simulating = true
	return req, nil
}

// FinishRun stores the outcome of the run started by BeginRun.
func (w *Workspace) FinishRun(res *wire.SimulationResult) {
	w.Simulating = false
	w.Result = res
}
