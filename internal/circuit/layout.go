package circuit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LayoutGate is one placement in a layout file. Control is only read for CNOT and
// names the control qubit in the same column.
type LayoutGate struct {
	Gate    string `yaml:"gate"`
	Qubit   int    `yaml:"qubit"`
	Column  int    `yaml:"column"`
	Control *int   `yaml:"control,omitempty"`
}

// Layout is a circuit written down as a list of drops, for headless use.
type Layout struct {
	Qubits int          `yaml:"qubits"`
	Gates  []LayoutGate `yaml:"gates"`
}

// ReadLayout decodes a YAML layout.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && err != io.EOF {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// Apply replays the layout onto w through the same drop and target-select steps the
// editor uses. The qubit count is confirmed first, which clears w.
func (l Layout) Apply(w *Workspace) error {
	if l.Qubits > 0 {
		w.Qubits.Selected = clampQubits(l.Qubits)
		w.ConfirmQubits()
	}
	for i, g := range l.Gates {
		kind, err := ParseGateKind(g.Gate)
		if err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
		if kind != CNOT {
			if _, err := w.Drop(kind, g.Qubit, g.Column); err != nil {
				return fmt.Errorf("gate %d: %w", i, err)
			}
			continue
		}
		if g.Control == nil {
			return fmt.Errorf("gate %d: %w", i, ErrMissingPairing)
		}
		if _, err := w.Drop(CNOT, *g.Control, g.Column); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
		if err := w.ChooseTarget(g.Qubit, g.Column); err != nil {
			w.CancelSelection()
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}
