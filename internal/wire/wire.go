// Package wire defines the JSON payloads exchanged with the simulation backend.
package wire

import (
	"slices"
	"strings"
)

// GateOperation is a single gate application inside a column.
// ControlQubit and ControlColumn are only set on CNOT targets.
type GateOperation struct {
	Qubit         int    `json:"qubit" yaml:"qubit"`
	Gate          string `json:"gate" yaml:"gate"`
	ControlQubit  *int   `json:"controlQubit,omitempty" yaml:"controlQubit,omitempty"`
	ControlColumn *int   `json:"controlColumn,omitempty" yaml:"controlColumn,omitempty"`
}

// ColumnOperation groups the gates applied in one column.
type ColumnOperation struct {
	Column int             `json:"column" yaml:"column"`
	Gates  []GateOperation `json:"gates" yaml:"gates"`
}

// CircuitRequest is the body of POST /simulate-circuit and /analyze-circuit.
type CircuitRequest struct {
	NumQubits  int               `json:"num_qubits" yaml:"num_qubits"`
	Operations []ColumnOperation `json:"operations" yaml:"operations"`
}

// GateCount returns the number of gate entries across all columns.
func (r CircuitRequest) GateCount() int {
	n := 0
	for _, op := range r.Operations {
		n += len(op.Gates)
	}
	return n
}

// Outcome is one entry of top_results.
type Outcome struct {
	Bitstring   string  `json:"bitstring"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// SimulationResult is the response of POST /simulate-circuit. Failed runs
// carry only Success=false and ErrorMessage.
type SimulationResult struct {
	Success           bool           `json:"success"`
	TotalShots        int            `json:"total_shots"`
	ExecutionTime     float64        `json:"execution_time"`
	MeasurementCounts map[string]int `json:"measurement_counts"`
	TopResults        []Outcome      `json:"top_results"`
	ErrorMessage      string         `json:"error_message,omitempty"`
}

// Failure builds a synthetic failed result.
func Failure(msg string) *SimulationResult {
	return &SimulationResult{Success: false, ErrorMessage: msg}
}

// UniqueOutcomes returns the number of distinct measured bitstrings.
func (r *SimulationResult) UniqueOutcomes() int {
	if r == nil {
		return 0
	}
	return len(r.MeasurementCounts)
}

// SortedOutcomes returns a copy of TopResults ordered by probability, highest first.
// Ties keep no particular order.
func (r *SimulationResult) SortedOutcomes() []Outcome {
	if r == nil {
		return nil
	}
	out := slices.Clone(r.TopResults)
	slices.SortFunc(out, func(a, b Outcome) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return 0
	})
	return out
}

// FormatBitstring keeps only the text before the first whitespace. The backend
// appends padding after a space (e.g. "01 00000").
func FormatBitstring(bits string) string {
	if i := strings.IndexFunc(bits, isSpace); i >= 0 {
		return bits[:i]
	}
	return bits
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Connection is one control/target link reported by the analyzer.
type Connection struct {
	Control int `json:"control"`
	Target  int `json:"target"`
	Column  int `json:"column"`
}

// CircuitAnalysis is the response of POST /analyze-circuit. Only the summary
// fields are decoded; the per-qubit timelines are ignored.
type CircuitAnalysis struct {
	TotalGates          int            `json:"total_gates"`
	GatesPerQubit       map[string]int `json:"gates_per_qubit"`
	GateTypesUsed       map[string]int `json:"gate_types_used"`
	CircuitWidth        int            `json:"circuit_width"`
	CircuitDepth        int            `json:"circuit_depth"`
	TwoQubitGateCount   int            `json:"two_qubit_gate_count"`
	EstimatedComplexity string         `json:"estimated_complexity"`
	Connectivity        []Connection   `json:"connectivity"`
}

// Health is the response of GET /health.
type Health struct {
	Status string `json:"status"`
}
