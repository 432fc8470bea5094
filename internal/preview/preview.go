package preview

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"qrtx/internal/circuit"
	"qrtx/internal/wire"
)

// bytesPerAmplitude is the size of one complex128 amplitude.
const bytesPerAmplitude = 16

// Run applies req to a fresh statevector. Rotation gates use angle. CNOT targets
// without a control and SWAP entries without a partner are skipped, as are gate
// names it does not know.
func Run(req wire.CircuitRequest, angle float64) *StateVector {
	sv := NewStateVector(max(req.NumQubits, 1))
	for _, col := range req.Operations {
		for _, g := range col.Gates {
			if g.Qubit < 0 || g.Qubit >= sv.NumQubits {
				continue
			}
			applyGate(sv, g, angle)
		}
	}
	return sv
}

func applyGate(sv *StateVector, g wire.GateOperation, angle float64) {
	switch circuit.GateKind(g.Gate) {
	case circuit.H:
		sv.apply(g.Qubit, hadamard)
	case circuit.X:
		sv.apply(g.Qubit, pauliX)
	case circuit.Y:
		sv.apply(g.Qubit, pauliY)
	case circuit.Z:
		sv.apply(g.Qubit, pauliZ)
	case circuit.S:
		sv.apply(g.Qubit, phaseS)
	case circuit.T:
		sv.apply(g.Qubit, phaseT)
	case circuit.Rx:
		sv.apply(g.Qubit, rx(angle))
	case circuit.Ry:
		sv.apply(g.Qubit, ry(angle))
	case circuit.Rz:
		sv.apply(g.Qubit, rz(angle))
	case circuit.CNOT:
		if c, ok := partner(sv, g); ok {
			sv.cx(c, g.Qubit)
		}
	case circuit.SWAP:
		if c, ok := partner(sv, g); ok {
			sv.swap(c, g.Qubit)
		}
	}
}

func partner(sv *StateVector, g wire.GateOperation) (int, bool) {
	if g.ControlQubit == nil {
		return 0, false
	}
	c := *g.ControlQubit
	return c, c >= 0 && c < sv.NumQubits && c != g.Qubit
}

// Estimate summarizes what a statevector run of a circuit costs.
type Estimate struct {
	Qubits     int
	StateBytes uint64
	Gates      int
	Depth      int
}

// EstimateFor returns the resource estimate for req.
func EstimateFor(req wire.CircuitRequest) Estimate {
	n := min(max(req.NumQubits, 0), circuit.MaxQubits)
	return Estimate{
		Qubits:     n,
		StateBytes: bytesPerAmplitude << uint(n),
		Gates:      req.GateCount(),
		Depth:      len(req.Operations),
	}
}

// Memory renders StateBytes with a binary unit.
func (e Estimate) Memory() string {
	return humanize.IBytes(e.StateBytes)
}

// ampOpsPerSecond is a rough single-GPU throughput for statevector updates.
const ampOpsPerSecond = 1e9

// ComputeTime guesses the wall time of a run: every gate touches every amplitude.
func (e Estimate) ComputeTime() string {
	secs := float64(e.Gates) * float64(uint64(1)<<uint(e.Qubits)) / ampOpsPerSecond
	if secs < 1 {
		return "< 1s"
	}
	return fmt.Sprintf("~%.0fs", math.Ceil(secs))
}

// Probabilities is the result of a local preview run.
type Probabilities struct {
	// Prob1 holds P(1) per qubit, or nil when the preview was skipped.
	Prob1 []float64
	// Skipped is set when the register is larger than the preview limit.
	Skipped bool
}

// LimitQubits is the largest register a preview will ever simulate (1 MiB of state).
const LimitQubits = 16

// Previewer runs local previews under a qubit limit. MaxQubits above LimitQubits
// is treated as LimitQubits.
type Previewer struct {
	MaxQubits int
	Angle     float64
}

// Preview runs req when it fits under the limit.
func (p Previewer) Preview(req wire.CircuitRequest) Probabilities {
	if req.NumQubits > min(p.MaxQubits, LimitQubits) {
		return Probabilities{Skipped: true}
	}
	return Probabilities{Prob1: Run(req, p.Angle).Prob1()}
}
