package circuit

import (
	"fmt"
	"strings"

	"qrtx/internal/wire"
)

// ToQASM renders a serialized request as OpenQASM 2.0. Rotation gates carry no
// angle on the wire, so angle is used for every Rx/Ry/Rz. Every qubit is measured
// at the end, matching what the simulator does.
func ToQASM(req wire.CircuitRequest, angle float64) string {
	n := max(req.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", n)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", n)

	for _, col := range req.Operations {
		fmt.Fprintf(&sb, "// column %d\n", col.Column)
		for _, g := range col.Gates {
			writeGateQASM(&sb, g, angle)
		}
	}

	sb.WriteString("\nbarrier q;\n")
	sb.WriteString("measure q -> c;\n")
	return sb.String()
}

func writeGateQASM(sb *strings.Builder, g wire.GateOperation, angle float64) {
	switch GateKind(g.Gate) {
	case H, X, Y, Z, S, T:
		fmt.Fprintf(sb, "%s q[%d];\n", strings.ToLower(g.Gate), g.Qubit)
	case Rx, Ry, Rz:
		fmt.Fprintf(sb, "%s(%s) q[%d];\n", strings.ToLower(g.Gate), FormatAngle(angle), g.Qubit)
	case CNOT:
		if g.ControlQubit == nil {
			fmt.Fprintf(sb, "// cx target q[%d] has no control\n", g.Qubit)
			return
		}
		fmt.Fprintf(sb, "cx q[%d], q[%d];\n", *g.ControlQubit, g.Qubit)
	case SWAP:
		if g.ControlQubit == nil {
			fmt.Fprintf(sb, "// swap q[%d] has no partner\n", g.Qubit)
			return
		}
		fmt.Fprintf(sb, "swap q[%d], q[%d];\n", *g.ControlQubit, g.Qubit)
	default:
		fmt.Fprintf(sb, "// unsupported gate %s on q[%d]\n", g.Gate, g.Qubit)
	}
}
