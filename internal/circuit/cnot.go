package circuit

// Selector tracks the two-step CNOT placement: a CNOT drop names the control,
// then choosing a cell in the same column names the target. The zero value is idle.
type Selector struct {
	pending *Pairing
}

// Pending returns the chosen control, if a selection is in progress.
func (s Selector) Pending() (Pairing, bool) {
	if s.pending == nil {
		return Pairing{}, false
	}
	return *s.pending, true
}

// Selecting reports whether a control has been chosen and a target is awaited.
func (s Selector) Selecting() bool { return s.pending != nil }

// Allows reports whether (qubit, column) may be chosen as a target. While idle every
// cell is allowed; while selecting only the control's column is.
func (s Selector) Allows(qubit, column int) bool {
	if s.pending == nil {
		return true
	}
	return column == s.pending.ControlColumn
}

// ChooseControl starts a selection with (qubit, column) as the control.
func (s Selector) ChooseControl(qubit, column int) (Selector, error) {
	if !inRange(qubit, column) {
		return s, ErrOutOfRange
	}
	return Selector{pending: &Pairing{ControlQubit: qubit, ControlColumn: column}}, nil
}

// ChooseTarget resolves the pending selection with (qubit, column) as the target and
// returns the pairing to hand to State.ApplyDrop. On error the selection stays pending.
func (s Selector) ChooseTarget(qubit, column int) (Selector, Pairing, error) {
	if s.pending == nil {
		return s, Pairing{}, ErrNoSelection
	}
	if column != s.pending.ControlColumn {
		return s, Pairing{}, ErrColumnNotAllowed
	}
	if qubit == s.pending.ControlQubit {
		return s, Pairing{}, ErrSameQubit
	}
	if !inRange(qubit, column) {
		return s, Pairing{}, ErrOutOfRange
	}
	return Selector{}, *s.pending, nil
}

// Reset abandons any pending selection.
func (s Selector) Reset() Selector { return Selector{} }
