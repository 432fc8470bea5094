// Package preview runs small circuits locally on a dense statevector so the editor
// can show qubit probabilities and resource estimates before anything is submitted.
package preview

import (
	"math"
	"math/cmplx"
)

// StateVector holds 2^n amplitudes. Qubit q is bit q of the basis index.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0...0⟩ on n qubits.
func NewStateVector(n int) *StateVector {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: n}
}

type matrix2 [2][2]complex128

var (
	hadamard = matrix2{{1 / math.Sqrt2, 1 / math.Sqrt2}, {1 / math.Sqrt2, -1 / math.Sqrt2}}
	pauliX   = matrix2{{0, 1}, {1, 0}}
	pauliY   = matrix2{{0, -1i}, {1i, 0}}
	pauliZ   = matrix2{{1, 0}, {0, -1}}
	phaseS   = matrix2{{1, 0}, {0, 1i}}
	phaseT   = matrix2{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
)

func rx(theta float64) matrix2 {
	c, s := complex(math.Cos(theta/2), 0), complex(0, -math.Sin(theta/2))
	return matrix2{{c, s}, {s, c}}
}

func ry(theta float64) matrix2 {
	c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	return matrix2{{c, -s}, {s, c}}
}

func rz(theta float64) matrix2 {
	p := cmplx.Exp(complex(0, theta/2))
	return matrix2{{cmplx.Conj(p), 0}, {0, p}}
}

// apply multiplies m into qubit q.
func (s *StateVector) apply(q int, m matrix2) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
		s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (s *StateVector) cx(control, target int) {
	cBit, tBit := 1<<control, 1<<target
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) swap(a, b int) {
	aBit, bBit := 1<<a, 1<<b
	for i := range s.Amplitudes {
		if i&aBit != 0 && i&bBit == 0 {
			j := (i &^ aBit) | bBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// Prob1 returns P(qubit q measures 1) for every qubit.
func (s *StateVector) Prob1() []float64 {
	probs := make([]float64, s.NumQubits)
	for i, amp := range s.Amplitudes {
		p := real(amp * cmplx.Conj(amp))
		if p == 0 {
			continue
		}
		for q := range s.NumQubits {
			if i&(1<<q) != 0 {
				probs[q] += p
			}
		}
	}
	return probs
}
