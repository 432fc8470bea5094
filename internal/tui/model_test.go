package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrtx/internal/circuit"
	"qrtx/internal/history"
	"qrtx/internal/preview"
	"qrtx/internal/testutil"
	"qrtx/internal/wire"
)

type fakeSimulator struct {
	res  *wire.SimulationResult
	reqs []wire.CircuitRequest
}

func (f *fakeSimulator) Simulate(_ context.Context, req wire.CircuitRequest) *wire.SimulationResult {
	f.reqs = append(f.reqs, req)
	return f.res
}

type fakeSaver struct {
	labels  []string
	qasm    []string
	results []*wire.SimulationResult
}

func (f *fakeSaver) Save(_ context.Context, label string, req wire.CircuitRequest, res *wire.SimulationResult, qasm string) (*history.Record, error) {
	f.labels = append(f.labels, label)
	f.qasm = append(f.qasm, qasm)
	f.results = append(f.results, res)
	return &history.Record{ID: "0123456789abcdef", Label: label, Request: req, Result: res, QASM: qasm}, nil
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	up        = tea.KeyMsg{Type: tea.KeyUp}
	down      = tea.KeyMsg{Type: tea.KeyDown}
	left      = tea.KeyMsg{Type: tea.KeyLeft}
	right     = tea.KeyMsg{Type: tea.KeyRight}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	ctrlR     = tea.KeyMsg{Type: tea.KeyCtrlR}
	ctrlS     = tea.KeyMsg{Type: tea.KeyCtrlS}
	windowMsg = tea.WindowSizeMsg{Width: 160, Height: 60}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, qubits int, sim Simulator, saver Saver) Model {
	t.Helper()
	m := New(t.Context(), Options{
		Qubits:     qubits,
		Simulator:  sim,
		History:    saver,
		Preview:    preview.Previewer{MaxQubits: 12, Angle: 1.5707963267948966},
		ExportPath: filepath.Join(t.TempDir(), DefaultExportPath),
		Logger:     testutil.NewTestLogger(t),
	})
	m, _ = press(t, m, windowMsg)
	return m
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		next, c := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
		cmd = c
	}
	return m, cmd
}

// drain runs cmd and returns every message it produces, flattening batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

// pickCNOT opens the palette and drops the CNOT tile.
func pickCNOT(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = press(t, m, runes("a"), down, down, down, down, enter)
	return m
}

func TestPlaceGateFromPalette(t *testing.T) {
	m := newTestModel(t, 2, nil, nil)

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, focusPalette, m.focus)
	assert.Contains(t, ansi.Strip(m.View()), "Hadamard")

	m, _ = press(t, m, enter)
	assert.Equal(t, focusCircuit, m.focus)
	p, ok := m.ws.Grid.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, circuit.H, p.Kind)
	assert.Contains(t, m.status, "Placed H")

	m, _ = press(t, m, right, down, runes("a"), right, enter)
	p, ok = m.ws.Grid.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, circuit.T, p.Kind, "second section starts with T")

	m, _ = press(t, m, backspace)
	_, ok = m.ws.Grid.At(1, 1)
	assert.False(t, ok)
}

func TestPaletteEscapeLeavesGridUntouched(t *testing.T) {
	m := newTestModel(t, 2, nil, nil)
	m, _ = press(t, m, runes("a"), down, esc)
	assert.Equal(t, focusCircuit, m.focus)
	assert.True(t, m.ws.Grid.IsEmpty())
}

func TestCNOTTwoStepWithKeys(t *testing.T) {
	m := newTestModel(t, 3, nil, nil)
	m, _ = press(t, m, right, right)

	m = pickCNOT(t, m)
	require.True(t, m.ws.Selection.Selecting())
	assert.True(t, m.ws.Grid.IsEmpty())
	assert.Contains(t, ansi.Strip(m.View()), "Select target qubit")

	m, _ = press(t, m, left)
	assert.Equal(t, 2, m.cursorCol, "the cursor stays in the control column")
	assert.True(t, m.statusErr)

	m, _ = press(t, m, enter)
	assert.True(t, m.ws.Selection.Selecting(), "target on the control qubit is rejected")
	assert.True(t, m.statusErr)

	m, _ = press(t, m, down, down, enter)
	assert.False(t, m.ws.Selection.Selecting())

	req, err := m.ws.Request()
	require.NoError(t, err)
	require.Len(t, req.Operations, 1)
	g := req.Operations[0].Gates[0]
	assert.Equal(t, 2, req.Operations[0].Column)
	assert.Equal(t, 2, g.Qubit)
	require.NotNil(t, g.ControlQubit)
	assert.Equal(t, 0, *g.ControlQubit)
	require.NotNil(t, g.ControlColumn)
	assert.Equal(t, 2, *g.ControlColumn)
}

func TestCNOTCancel(t *testing.T) {
	m := newTestModel(t, 2, nil, nil)
	m = pickCNOT(t, m)
	require.True(t, m.ws.Selection.Selecting())

	m, _ = press(t, m, esc)
	assert.False(t, m.ws.Selection.Selecting())
	assert.True(t, m.ws.Grid.IsEmpty())
}

func TestRunShowsSortedResults(t *testing.T) {
	sim := &fakeSimulator{res: &wire.SimulationResult{
		Success:           true,
		TotalShots:        1000,
		ExecutionTime:     0.25,
		MeasurementCounts: map[string]int{"00": 100, "11": 900},
		TopResults: []wire.Outcome{
			{Bitstring: "00 000", Count: 100, Probability: 0.1},
			{Bitstring: "11 000", Count: 900, Probability: 0.9},
		},
	}}
	m := newTestModel(t, 2, sim, nil)
	m, _ = press(t, m, runes("a"), enter)

	m, cmd := press(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.ws.Simulating)
	assert.Contains(t, ansi.Strip(m.View()), "Simulating circuit")

	m, again := press(t, m, runes("r"))
	assert.Nil(t, again)
	assert.Equal(t, "Simulation already running", m.status)

	done := find[simulationDoneMsg](t, drain(cmd))
	m, _ = press(t, m, done)
	assert.False(t, m.ws.Simulating)
	require.Len(t, sim.reqs, 1)
	assert.Equal(t, 2, sim.reqs[0].NumQubits)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Simulation Results")
	assert.Contains(t, view, "0.25s")
	hi := strings.Index(view, "|11⟩")
	lo := strings.Index(view, "|00⟩")
	require.True(t, hi >= 0 && lo >= 0, view)
	assert.Less(t, hi, lo, "most probable outcome first")
	assert.Contains(t, view, "900 shots")
	assert.Contains(t, view, "90.0%")
}

func TestRunFailureShowsError(t *testing.T) {
	sim := &fakeSimulator{res: wire.Failure("Failed to simulate circuit: HTTP error! status: 500")}
	m := newTestModel(t, 1, sim, nil)

	m, cmd := press(t, m, runes("r"))
	m, _ = press(t, m, find[simulationDoneMsg](t, drain(cmd)))

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Simulation Failed")
	assert.Contains(t, view, "HTTP error! status: 500")
	assert.NotContains(t, view, "Simulation Results")
}

func TestRunUnserializableCircuit(t *testing.T) {
	sim := &fakeSimulator{}
	m := newTestModel(t, 2, sim, nil)
	m = pickCNOT(t, m)
	m, _ = press(t, m, down, enter, up, backspace)

	m, cmd := press(t, m, runes("r"))
	assert.Nil(t, cmd)
	assert.Empty(t, sim.reqs)
	require.NotNil(t, m.ws.Result)
	assert.False(t, m.ws.Result.Success)
}

func TestClearResetsResult(t *testing.T) {
	sim := &fakeSimulator{res: &wire.SimulationResult{Success: true, TotalShots: 1}}
	m := newTestModel(t, 2, sim, nil)
	m, _ = press(t, m, runes("a"), enter)
	m, cmd := press(t, m, runes("r"))
	m, _ = press(t, m, find[simulationDoneMsg](t, drain(cmd)))
	require.NotNil(t, m.ws.Result)

	m, _ = press(t, m, ctrlR)
	assert.True(t, m.ws.Grid.IsEmpty())
	assert.Nil(t, m.ws.Result)
	assert.Contains(t, ansi.Strip(m.View()), "Place gates to build your circuit.")
}

func TestConfirmQubitsClearsGrid(t *testing.T) {
	m := newTestModel(t, 3, nil, nil)
	m, _ = press(t, m, down, down, runes("a"), enter)
	require.False(t, m.ws.Grid.IsEmpty())

	m, _ = press(t, m, runes("+"))
	assert.Equal(t, 4, m.ws.Qubits.Selected)
	assert.Equal(t, 3, m.ws.Qubits.Confirmed)
	assert.False(t, m.ws.Grid.IsEmpty(), "selecting a count does not touch the grid")

	m, _ = press(t, m, runes("-"), runes("-"), runes("c"))
	assert.Equal(t, 2, m.ws.Qubits.Confirmed)
	assert.True(t, m.ws.Grid.IsEmpty())
	assert.Equal(t, 1, m.cursorQubit, "cursor clamped to the new register")
}

func TestSaveWritesQASMAndHistory(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, 2, nil, saver)
	m, _ = press(t, m, runes("a"), enter)

	m, _ = press(t, m, ctrlS)
	assert.Equal(t, focusLabel, m.focus)
	m, _ = press(t, m, runes("bell"))
	m, cmd := press(t, m, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, focusCircuit, m.focus)

	saved := find[savedMsg](t, drain(cmd))
	require.NoError(t, saved.err)
	m, _ = press(t, m, saved)
	assert.Equal(t, "Saved "+m.opts.ExportPath+" (run 01234567)", m.status)

	data, err := os.ReadFile(m.opts.ExportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "h q[0];")
	assert.Equal(t, []string{"bell"}, saver.labels)
	assert.Equal(t, string(data), saver.qasm[0])
	assert.Nil(t, saver.results[0], "nothing has been run yet")
}

func TestSaveCancel(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, 2, nil, saver)
	m, _ = press(t, m, ctrlS, runes("q"), esc)
	assert.Equal(t, focusCircuit, m.focus)
	assert.Empty(t, saver.labels)
}

func TestPreviewToggle(t *testing.T) {
	m := newTestModel(t, 2, nil, nil)
	m, _ = press(t, m, runes("a"), enter)

	req, err := m.ws.Request()
	require.NoError(t, err)
	assert.Contains(t, m.previewContent(req, nil), `"num_qubits": 2`)

	m, _ = press(t, m, runes("v"))
	assert.True(t, m.showQASM)
	assert.Contains(t, m.previewContent(req, nil), "OPENQASM 2.0;")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusPreview, m.focus)
	m, _ = press(t, m, runes("v"), esc)
	assert.False(t, m.showQASM)
	assert.Equal(t, focusCircuit, m.focus)
}

func TestPreviewRecomputedOnlyOnChange(t *testing.T) {
	m := newTestModel(t, 2, nil, nil)
	require.Len(t, m.probs.Prob1, 2)
	first := m.probsFor

	m, _ = press(t, m, right, down, left)
	assert.Equal(t, first, m.probsFor, "cursor moves keep the cached preview")

	m, _ = press(t, m, runes("a"), down, enter)
	assert.NotEqual(t, first, m.probsFor)
	assert.InDelta(t, 1, m.probs.Prob1[1], 1e-9, "X on q1")
	assert.InDelta(t, 0, m.probs.Prob1[0], 1e-9)
}

func TestRenderResultsNil(t *testing.T) {
	assert.Empty(t, renderResults(nil, 80))
}

func TestOverlayAt(t *testing.T) {
	bg := "abcdef\n" + gateStyle.Render("ghijkl")
	got := overlayAt(bg, "XY\nZW", 2, 0)
	lines := strings.Split(ansi.Strip(got), "\n")
	assert.Equal(t, []string{"abXYef", "ghZWkl"}, lines)

	got = overlayAt("ab", "XY", 4, 0)
	assert.Equal(t, "ab  XY", ansi.Strip(got))
}

func TestOverlayAtWideRunes(t *testing.T) {
	got := overlayAt(activeStyle.Render("量子回路"), "XY", 2, 0)
	assert.Equal(t, "量XY回路", ansi.Strip(got))
	assert.Equal(t, 8, visibleLen(got))

	// A wide rune split by the popup edge becomes padding.
	got = overlayAt("量子回路", "XY", 1, 0)
	assert.Equal(t, " XY 回路", ansi.Strip(got))
}

func TestVisibleLenCountsCells(t *testing.T) {
	assert.Equal(t, 10, visibleLen("label 量子"))
	assert.Equal(t, 4, visibleLen(activeStyle.Render("回路")))
}

func TestHeaderFillsWidth(t *testing.T) {
	m := newTestModel(t, 2, nil, nil)
	m.width = 60
	assert.Equal(t, 60, visibleLen(m.renderHeader(m.width)))
}
