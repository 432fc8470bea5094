package circuit

import "fmt"

// Grid bounds.
const (
	MaxQubits = 25
	Columns   = 10
)

// Pairing names the control cell of a CNOT whose target is being dropped.
type Pairing struct {
	ControlQubit  int
	ControlColumn int
}

type cell struct {
	set bool
	p   Placement
}

// State is the circuit grid. It is a plain value: every mutation returns a new
// State, so a reader holding the old value never sees a half-applied update.
type State struct {
	cells [MaxQubits][Columns]cell
}

func inRange(qubit, column int) bool {
	return qubit >= 0 && qubit < MaxQubits && column >= 0 && column < Columns
}

// At returns the placement at (qubit, column) and whether one exists.
func (s State) At(qubit, column int) (Placement, bool) {
	if !inRange(qubit, column) {
		return Placement{}, false
	}
	c := s.cells[qubit][column]
	return c.p, c.set
}

// ApplyDrop places kind at (qubit, column). Non-CNOT gates overwrite whatever was
// there. A CNOT needs pairing to name its control; the control and target are
// written together and any older CNOT in that column is removed first.
func (s State) ApplyDrop(kind GateKind, qubit, column int, pairing *Pairing) (State, error) {
	if !inRange(qubit, column) {
		return s, fmt.Errorf("drop %s at q%d/c%d: %w", kind, qubit, column, ErrOutOfRange)
	}
	if kind != CNOT {
		s.cells[qubit][column] = cell{set: true, p: Placement{Kind: kind}}
		return s, nil
	}

	if pairing == nil {
		return s, ErrMissingPairing
	}
	if !inRange(pairing.ControlQubit, pairing.ControlColumn) {
		return s, fmt.Errorf("CNOT control q%d/c%d: %w", pairing.ControlQubit, pairing.ControlColumn, ErrOutOfRange)
	}
	if pairing.ControlColumn != column {
		return s, ErrColumnNotAllowed
	}
	if pairing.ControlQubit == qubit {
		return s, ErrSameQubit
	}

	for q := range MaxQubits {
		if c := s.cells[q][column]; c.set && c.p.Kind == CNOT {
			s.cells[q][column] = cell{}
		}
	}
	s.cells[pairing.ControlQubit][column] = cell{set: true, p: Placement{Kind: CNOT, Role: RoleControl}}
	s.cells[qubit][column] = cell{set: true, p: Placement{Kind: CNOT, Role: RoleTarget}}
	return s, nil
}

// Remove empties a single cell. Removing half of a CNOT leaves the other half in place.
func (s State) Remove(qubit, column int) State {
	if inRange(qubit, column) {
		s.cells[qubit][column] = cell{}
	}
	return s
}

// IsEmpty reports whether no cell holds a gate.
func (s State) IsEmpty() bool {
	return s.Count() == 0
}

// Count returns the number of occupied cells.
func (s State) Count() int {
	n := 0
	for q := range MaxQubits {
		for c := range Columns {
			if s.cells[q][c].set {
				n++
			}
		}
	}
	return n
}

// UsedColumns returns, in ascending order, the columns holding at least one gate
// on qubits below numQubits.
func (s State) UsedColumns(numQubits int) []int {
	numQubits = min(max(numQubits, 0), MaxQubits)
	var cols []int
	for c := range Columns {
		for q := range numQubits {
			if s.cells[q][c].set {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

// ControlIn returns the first qubit below numQubits holding a CNOT control in column.
func (s State) ControlIn(column, numQubits int) (int, bool) {
	numQubits = min(max(numQubits, 0), MaxQubits)
	if column < 0 || column >= Columns {
		return -1, false
	}
	for q := range numQubits {
		if c := s.cells[q][column]; c.set && c.p.IsControl() {
			return q, true
		}
	}
	return -1, false
}

// TargetIn returns the first qubit below numQubits holding a CNOT target in column.
func (s State) TargetIn(column, numQubits int) (int, bool) {
	numQubits = min(max(numQubits, 0), MaxQubits)
	if column < 0 || column >= Columns {
		return -1, false
	}
	for q := range numQubits {
		if c := s.cells[q][column]; c.set && c.p.IsTarget() {
			return q, true
		}
	}
	return -1, false
}
