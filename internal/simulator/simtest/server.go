// Package simtest provides an in-process fake of the simulation backend.
package simtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"qrtx/internal/wire"
)

// Server is a fake backend. Call FailWith, Respond or RespondAnalysis before
// issuing requests to change what it answers; by default it is healthy and
// measures the all-zero bitstring on every shot.
type Server struct {
	URL string

	mu       sync.Mutex
	status   int
	result   *wire.SimulationResult
	analysis *wire.CircuitAnalysis
	requests []wire.CircuitRequest
}

// NewServer starts a fake backend that is shut down when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{}
	r := chi.NewRouter()
	r.Post("/simulate-circuit", s.simulate)
	r.Post("/analyze-circuit", s.analyze)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, wire.Health{Status: "healthy"})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	s.URL = ts.URL
	return s
}

// FailWith makes every simulate and analyze call answer with the given status.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Respond fixes the body returned by /simulate-circuit.
func (s *Server) Respond(res *wire.SimulationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
}

// RespondAnalysis fixes the body returned by /analyze-circuit.
func (s *Server) RespondAnalysis(a *wire.CircuitAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = a
}

// Requests returns the simulate and analyze bodies received so far.
func (s *Server) Requests() []wire.CircuitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wire.CircuitRequest(nil), s.requests...)
}

func (s *Server) record(w http.ResponseWriter, r *http.Request) (wire.CircuitRequest, bool) {
	var req wire.CircuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return req, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.status != 0 {
		http.Error(w, http.StatusText(s.status), s.status)
		return req, false
	}
	return req, true
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.record(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	res := s.result
	s.mu.Unlock()
	if res == nil {
		res = groundState(req.NumQubits)
	}
	writeJSON(w, res)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.record(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	a := s.analysis
	s.mu.Unlock()
	if a == nil {
		a = &wire.CircuitAnalysis{
			TotalGates:   req.GateCount(),
			CircuitWidth: req.NumQubits,
			CircuitDepth: len(req.Operations),
		}
	}
	writeJSON(w, a)
}

// groundState is what the backend reports for a circuit that leaves every qubit
// in |0⟩ after 1024 shots.
func groundState(n int) *wire.SimulationResult {
	bits := strings.Repeat("0", max(n, 1))
	return &wire.SimulationResult{
		Success:           true,
		TotalShots:        1024,
		ExecutionTime:     0.01,
		MeasurementCounts: map[string]int{bits: 1024},
		TopResults:        []wire.Outcome{{Bitstring: bits, Count: 1024, Probability: 1}},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
