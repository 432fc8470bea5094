package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrtx/internal/circuit"
	"qrtx/internal/history"
	"qrtx/internal/simulator/simtest"
	"qrtx/internal/wire"
)

const bellLayout = `qubits: 2
gates:
  - {gate: H, qubit: 0, column: 0}
  - {gate: CNOT, qubit: 1, column: 1, control: 0}
`

type fixture struct {
	dir     string
	srv     *simtest.Server
	layout  string
	history string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	layout := filepath.Join(dir, "bell.yaml")
	require.NoError(t, os.WriteFile(layout, []byte(bellLayout), 0600))

	return &fixture{
		dir:     dir,
		srv:     simtest.NewServer(t),
		layout:  layout,
		history: filepath.Join(dir, "history.db"),
	}
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--base-url", f.srv.URL, "--history", f.history, "--log-level", "debug"}, args...))
	err := cmd.Execute()
	if errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

func bellResult() *wire.SimulationResult {
	return &wire.SimulationResult{
		Success:           true,
		TotalShots:        1024,
		ExecutionTime:     0.123,
		MeasurementCounts: map[string]int{"00 000": 410, "11 000": 614},
		TopResults: []wire.Outcome{
			{Bitstring: "00 000", Count: 410, Probability: 0.4},
			{Bitstring: "11 000", Count: 614, Probability: 0.6},
		},
	}
}

func TestVersionCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "qrtx v"+Version)
}

func TestSerializeCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "serialize", f.layout)
	require.NoError(t, err)

	var req wire.CircuitRequest
	require.NoError(t, json.Unmarshal([]byte(out), &req))
	assert.Equal(t, 2, req.NumQubits)
	require.Len(t, req.Operations, 2)
	assert.Equal(t, "CNOT", req.Operations[1].Gates[0].Gate)
	assert.Empty(t, f.srv.Requests(), "serialize never contacts the backend")
}

func TestSerializeCommandQASM(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "serialize", "--qasm", f.layout)
	require.NoError(t, err)
	assert.Contains(t, out, "cx q[0], q[1];")
}

func TestSimulateCommandTable(t *testing.T) {
	f := newFixture(t)
	f.srv.Respond(bellResult())

	out, err := f.run(t, "simulate", f.layout)
	require.NoError(t, err)

	assert.Contains(t, out, "Total shots:     1024")
	assert.Contains(t, out, "Execution time:  0.12s")
	assert.Contains(t, out, "Unique outcomes: 2")
	assert.Contains(t, out, "|11⟩")
	assert.NotContains(t, out, "000⟩", "padding after the space is dropped")
	assert.Less(t, strings.Index(out, "|11⟩"), strings.Index(out, "|00⟩"), "most likely outcome first")
	assert.Contains(t, out, "Circuit analysis")

	// simulate + analyze
	assert.Len(t, f.srv.Requests(), 2)
}

func TestSimulateCommandJSONAndSave(t *testing.T) {
	f := newFixture(t)
	f.srv.Respond(bellResult())

	out, err := f.run(t, "-o", "json", "simulate", "--analyze=false", "--save", "--label", "bell", f.layout)
	require.NoError(t, err)

	var got simulateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.Success)
	assert.Nil(t, got.Analysis)
	require.NotEmpty(t, got.SavedAs)
	assert.Len(t, f.srv.Requests(), 1)

	out, err = f.run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, got.SavedAs)
	assert.Contains(t, out, "bell")
	assert.Contains(t, out, "(1 runs)")

	out, err = f.run(t, "history", "show", got.SavedAs)
	require.NoError(t, err)
	assert.Contains(t, out, "Label:  bell")
	assert.Contains(t, out, "Total shots:     1024")

	out, err = f.run(t, "history", "show", "--qasm", got.SavedAs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "OPENQASM 2.0;"))
}

func TestSimulateCommandHTTPError(t *testing.T) {
	f := newFixture(t)
	f.srv.FailWith(http.StatusInternalServerError)

	out, err := f.run(t, "simulate", "--save", f.layout)
	require.ErrorIs(t, err, ErrSimulationFailed)
	assert.Contains(t, out, "Simulation failed: Failed to simulate circuit: HTTP error! status: 500")

	store, err := history.Open(f.history, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	recs, err := store.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, recs, 1, "failed runs are still saved")
	assert.False(t, recs[0].Result.Success)
}

func TestSimulateCommandBadLayout(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("qubits: 2\ngates:\n  - {gate: CNOT, qubit: 1, column: 0, control: 1}\n"), 0600))

	_, err := f.run(t, "simulate", bad)
	assert.ErrorIs(t, err, circuit.ErrSameQubit)
	assert.Empty(t, f.srv.Requests())
}

func TestHealthCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "health")
	require.NoError(t, err)
	assert.Equal(t, f.srv.URL+": healthy\n", out)
}

func TestHistoryShowUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "history", "show", "missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestInvalidConfigFlag(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "--qubits", "40", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit.default_qubits")
}
