package circuit

import (
	"fmt"

	"qrtx/internal/wire"
)

// SerializeOptions tunes Serialize.
type SerializeOptions struct {
	// Lenient emits a CNOT target without control fields when its column has no
	// control, instead of failing with ErrOrphanTarget.
	Lenient bool
}

// Serialize converts the grid into the request sent to the simulator. Columns come
// out in ascending order and gates within a column by ascending qubit. CNOT controls
// are not emitted on their own; they are folded into the target entry. numQubits
// must be in [1, MaxQubits].
func Serialize(s State, numQubits int, opts SerializeOptions) (wire.CircuitRequest, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return wire.CircuitRequest{}, fmt.Errorf("qubit count %d: %w", numQubits, ErrOutOfRange)
	}
	n := numQubits
	req := wire.CircuitRequest{NumQubits: n, Operations: []wire.ColumnOperation{}}

	for _, col := range s.UsedColumns(n) {
		var gates []wire.GateOperation
		for q := range n {
			p, ok := s.At(q, col)
			if !ok || p.IsControl() {
				continue
			}
			op := wire.GateOperation{Qubit: q, Gate: string(p.Kind)}
			if p.IsTarget() {
				if cq, found := s.ControlIn(col, n); found {
					op.ControlQubit = intPtr(cq)
					op.ControlColumn = intPtr(col)
				} else if !opts.Lenient {
					return wire.CircuitRequest{}, fmt.Errorf("column %d, qubit %d: %w", col, q, ErrOrphanTarget)
				}
			}
			gates = append(gates, op)
		}
		if len(gates) > 0 {
			req.Operations = append(req.Operations, wire.ColumnOperation{Column: col, Gates: gates})
		}
	}
	return req, nil
}

func intPtr(v int) *int { return &v }
