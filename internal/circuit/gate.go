// Package circuit holds the circuit grid, the two-step CNOT placement protocol,
// qubit-count control and the serialization into a simulator request.
package circuit

import (
	"fmt"
	"strings"
)

// GateKind identifies a gate tile.
type GateKind string

// Gate kinds offered by the palette. The string values are sent to the backend verbatim.
const (
	H    GateKind = "H"
	X    GateKind = "X"
	Y    GateKind = "Y"
	Z    GateKind = "Z"
	CNOT GateKind = "CNOT"
	SWAP GateKind = "SWAP"
	T    GateKind = "T"
	S    GateKind = "S"
	Rx   GateKind = "Rx"
	Ry   GateKind = "Ry"
	Rz   GateKind = "Rz"
)

// AllGateKinds lists every kind in palette order.
var AllGateKinds = []GateKind{H, X, Y, Z, CNOT, SWAP, T, S, Rx, Ry, Rz}

// ParseGateKind resolves a gate name case-insensitively.
func ParseGateKind(name string) (GateKind, error) {
	for _, k := range AllGateKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown gate %q", name)
}

// Role marks the half of a CNOT pair a placement represents.
type Role int

const (
	RoleNone Role = iota
	RoleControl
	RoleTarget
)

func (r Role) String() string {
	switch r {
	case RoleControl:
		return "control"
	case RoleTarget:
		return "target"
	default:
		return "none"
	}
}

// Placement is a gate occupying one grid cell. Role is RoleNone unless Kind is CNOT.
type Placement struct {
	Kind GateKind
	Role Role
}

// IsControl reports whether p is the control half of a CNOT.
func (p Placement) IsControl() bool { return p.Kind == CNOT && p.Role == RoleControl }

// IsTarget reports whether p is the target half of a CNOT.
func (p Placement) IsTarget() bool { return p.Kind == CNOT && p.Role == RoleTarget }

// Symbol returns the glyph drawn on the grid.
func (p Placement) Symbol() string {
	switch {
	case p.IsControl():
		return "●"
	case p.IsTarget():
		return "⊕"
	default:
		return string(p.Kind)
	}
}
