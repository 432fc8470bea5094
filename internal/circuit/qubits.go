package circuit

// DefaultQubits is the qubit count a new workspace starts with.
const DefaultQubits = 5

// QubitCounter keeps the edited qubit count apart from the confirmed one that
// sizes the grid.
type QubitCounter struct {
	Selected  int
	Confirmed int
}

// NewQubitCounter returns a counter with both values set to n, clamped to [1, MaxQubits].
func NewQubitCounter(n int) QubitCounter {
	n = clampQubits(n)
	return QubitCounter{Selected: n, Confirmed: n}
}

// Increment raises the selected count, stopping at MaxQubits.
func (c QubitCounter) Increment() QubitCounter {
	c.Selected = clampQubits(c.Selected + 1)
	return c
}

// Decrement lowers the selected count, stopping at 1.
func (c QubitCounter) Decrement() QubitCounter {
	c.Selected = clampQubits(c.Selected - 1)
	return c
}

// Confirm copies the selected count into the confirmed count.
func (c QubitCounter) Confirm() QubitCounter {
	c.Confirmed = c.Selected
	return c
}

// Dirty reports whether the selection differs from what is confirmed.
func (c QubitCounter) Dirty() bool { return c.Selected != c.Confirmed }

func clampQubits(n int) int {
	return min(max(n, 1), MaxQubits)
}
