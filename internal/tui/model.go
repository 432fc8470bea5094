package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qrtx/internal/circuit"
	"qrtx/internal/history"
	"qrtx/internal/preview"
	"qrtx/internal/wire"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusPalette
	focusPreview
	focusLabel
)

type simulationDoneMsg struct {
	res *wire.SimulationResult
}

type savedMsg struct {
	path   string
	record *history.Record
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger

	ws          circuit.Workspace
	cursorQubit int
	cursorCol   int
	focus       focus
	width       int
	height      int

	// Palette state
	paletteSection int
	paletteItem    int

	spinner  spinner.Model
	viewport viewport.Model
	label    textarea.Model
	help     help.Model
	keys     keyMap
	showQASM bool

	// Local preview of the last serialized request, recomputed only when it changes.
	probs    preview.Probabilities
	probsFor string

	status    string
	statusErr bool
}

// New returns a composer with an empty grid of opts.Qubits qubits.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = activeStyle

	ta := textarea.New()
	ta.Placeholder = "label (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 64
	ta.SetWidth(36)
	ta.SetHeight(1)

	m := Model{
		ctx:      ctx,
		opts:     opts,
		logger:   logger,
		ws:       circuit.NewWorkspace(opts.Qubits, opts.Serialize),
		spinner:  spin,
		viewport: viewport.New(sidePanelW-4, 12),
		label:    ta,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
	m.syncPreview()
	return m
}

// Workspace returns the editor state.
func (m Model) Workspace() circuit.Workspace { return m.ws }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) qasm(req wire.CircuitRequest) string {
	return circuit.ToQASM(req, m.opts.Preview.Angle)
}

func marshalRequest(req wire.CircuitRequest) (string, error) {
	b, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return string(b), nil
}

// syncPreview refreshes the request viewport and the local preview from the grid.
func (m *Model) syncPreview() {
	req, err := m.ws.Request()
	m.viewport.SetContent(m.previewContent(req, err))
	if err != nil {
		return
	}
	if body, err := marshalRequest(req); err == nil && body != m.probsFor {
		m.probs = m.opts.Preview.Preview(req)
		m.probsFor = body
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = sidePanelW - 4
		m.viewport.Height = max(msg.Height/3, 5)

	case spinner.TickMsg:
		if m.ws.Simulating {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd

	case simulationDoneMsg:
		if msg.res == nil {
			msg.res = wire.Failure("Failed to simulate circuit: empty response")
		}
		m.ws.FinishRun(msg.res)
		if msg.res.Success {
			m.logger.Info("simulation finished", "shots", msg.res.TotalShots, "outcomes", msg.res.UniqueOutcomes())
			m.setStatus("Simulation complete")
		} else {
			m.logger.Warn("simulation failed", "error", msg.res.ErrorMessage)
			m.status, m.statusErr = "Simulation failed", true
		}

	case savedMsg:
		switch {
		case msg.err != nil:
			m.logger.Error("save failed", "error", msg.err)
			m.setError(msg.err)
		case msg.record != nil:
			m.logger.Info("circuit saved", "path", msg.path, "id", msg.record.ID)
			m.setStatus("Saved %s (run %s)", msg.path, shortID(msg.record.ID))
		default:
			m.setStatus("Saved %s", msg.path)
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusLabel:
			return m.updateLabel(msg)
		case focusPalette:
			m.updatePalette(msg)
		case focusPreview:
			return m.updatePreview(msg)
		default:
			return m.updateCircuit(msg)
		}
	}

	m.syncPreview()
	return m, cmd
}

func (m Model) updateCircuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if m.ws.Selection.Selecting() {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursorQubit = max(m.cursorQubit-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.cursorQubit = min(m.cursorQubit+1, m.ws.Qubits.Confirmed-1)
		case key.Matches(msg, m.keys.Place):
			if err := m.ws.ChooseTarget(m.cursorQubit, m.cursorCol); err != nil {
				m.setError(err)
				break
			}
			m.logger.Debug("cnot placed", "target", m.cursorQubit, "column", m.cursorCol)
			m.setStatus("Placed CNOT in column %d", m.cursorCol)
		case key.Matches(msg, m.keys.Cancel):
			m.ws.CancelSelection()
			m.setStatus("CNOT cancelled")
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		default:
			m.setError(circuit.ErrSelectionPending)
		}
		m.syncPreview()
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.cursorQubit = max(m.cursorQubit-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursorQubit = min(m.cursorQubit+1, m.ws.Qubits.Confirmed-1)
	case key.Matches(msg, m.keys.Left):
		m.cursorCol = max(m.cursorCol-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursorCol = min(m.cursorCol+1, circuit.Columns-1)
	case key.Matches(msg, m.keys.Palette), key.Matches(msg, m.keys.Place):
		m.focus = focusPalette
		m.paletteSection, m.paletteItem = 0, 0
	case key.Matches(msg, m.keys.Remove):
		if err := m.ws.Remove(m.cursorQubit, m.cursorCol); err != nil {
			m.setError(err)
		}
	case key.Matches(msg, m.keys.More):
		m.ws.IncrementQubits()
	case key.Matches(msg, m.keys.Fewer):
		m.ws.DecrementQubits()
	case key.Matches(msg, m.keys.Confirm):
		m.ws.ConfirmQubits()
		m.cursorQubit = min(m.cursorQubit, m.ws.Qubits.Confirmed-1)
		m.logger.Debug("qubits confirmed", "qubits", m.ws.Qubits.Confirmed)
		m.setStatus("Circuit reset to %d qubits", m.ws.Qubits.Confirmed)
	case key.Matches(msg, m.keys.Clear):
		m.ws.Clear()
		m.setStatus("Circuit cleared")
	case key.Matches(msg, m.keys.Run):
		cmd = m.run()
	case key.Matches(msg, m.keys.Save):
		m.focus = focusLabel
		m.label.Reset()
		cmd = m.label.Focus()
	case key.Matches(msg, m.keys.Preview):
		m.focus = focusPreview
	case key.Matches(msg, m.keys.ShowJSON):
		m.showQASM = !m.showQASM
	}

	m.syncPreview()
	return m, cmd
}

// run starts a simulation of the grid.
func (m *Model) run() tea.Cmd {
	req, err := m.ws.BeginRun()
	if err != nil {
		if errors.Is(err, circuit.ErrRunInProgress) {
			m.setStatus("Simulation already running")
		} else {
			m.logger.Warn("circuit not runnable", "error", err)
		}
		return nil
	}
	m.logger.Info("simulating circuit", "qubits", req.NumQubits, "gates", req.GateCount())

	ctx, sim := m.ctx, m.opts.Simulator
	simulate := func() tea.Msg {
		if sim == nil {
			return simulationDoneMsg{res: wire.Failure("Failed to simulate circuit: no simulator configured")}
		}
		return simulationDoneMsg{res: sim.Simulate(ctx, req)}
	}
	return tea.Batch(m.spinner.Tick, simulate)
}

func (m *Model) updatePalette(msg tea.KeyMsg) {
	items := palette[m.paletteSection].items
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focus = focusCircuit
	case key.Matches(msg, m.keys.Up):
		m.paletteItem = (m.paletteItem - 1 + len(items)) % len(items)
	case key.Matches(msg, m.keys.Down):
		m.paletteItem = (m.paletteItem + 1) % len(items)
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if key.Matches(msg, m.keys.Left) {
			m.paletteSection = (m.paletteSection - 1 + len(palette)) % len(palette)
		} else {
			m.paletteSection = (m.paletteSection + 1) % len(palette)
		}
		m.paletteItem = min(m.paletteItem, len(palette[m.paletteSection].items)-1)
	case key.Matches(msg, m.keys.Place):
		m.focus = focusCircuit
		m.drop(m.selectedGate())
	}
}

// drop places kind at the cursor. A CNOT only picks the control.
func (m *Model) drop(kind circuit.GateKind) {
	res, err := m.ws.Drop(kind, m.cursorQubit, m.cursorCol)
	if err != nil {
		m.setError(err)
		return
	}
	if res == circuit.ControlChosen {
		m.setStatus("Control on q%d, choose a target", m.cursorQubit)
		return
	}
	m.logger.Debug("gate placed", "gate", kind, "qubit", m.cursorQubit, "column", m.cursorCol)
	m.setStatus("Placed %s on q%d", kind, m.cursorQubit)
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Preview), key.Matches(msg, m.keys.Cancel):
		m.focus = focusCircuit
		return m, nil
	case key.Matches(msg, m.keys.ShowJSON):
		m.showQASM = !m.showQASM
		m.syncPreview()
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateLabel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusCircuit
		m.label.Blur()
		return m, nil
	case tea.KeyEnter:
		m.focus = focusCircuit
		m.label.Blur()
		return m, m.save(strings.TrimSpace(m.label.Value()))
	}
	var cmd tea.Cmd
	m.label, cmd = m.label.Update(msg)
	return m, cmd
}

// save writes the OpenQASM export and records the circuit with its last result.
func (m Model) save(label string) tea.Cmd {
	req, err := m.ws.Request()
	if err != nil {
		return func() tea.Msg { return savedMsg{err: fmt.Errorf("save circuit: %w", err)} }
	}
	qasm := m.qasm(req)
	ctx, store, path, res := m.ctx, m.opts.History, m.opts.ExportPath, m.ws.Result

	return func() tea.Msg {
		msg := savedMsg{path: path}
		if path != "" {
			if err := os.WriteFile(path, []byte(qasm), 0o644); err != nil {
				return savedMsg{err: fmt.Errorf("write %s: %w", path, err)}
			}
		}
		if store != nil {
			msg.record, msg.err = store.Save(ctx, label, req, res, qasm)
		}
		return msg
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	req, reqErr := m.ws.Request()

	sideW := sidePanelW
	circuitW := max(m.width-sideW-4, 40)

	var results string
	if m.ws.Simulating {
		results = m.renderRunning(m.width - 4)
	} else {
		results = renderResults(m.ws.Result, m.width-4)
	}
	resources := m.renderResources(req, reqErr, sideW-2)
	previewH := max(m.viewport.Height+4, 8)
	previewPanel := m.renderPreviewPanel(sideW-2, previewH)
	side := lipgloss.JoinVertical(lipgloss.Left, resources, previewPanel)

	circuitH := max(lipgloss.Height(side)-2, 8)
	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderCircuitPanel(circuitW, circuitH), side)

	parts := []string{m.renderHeader(m.width), top}
	if results != "" {
		parts = append(parts, results)
	}
	parts = append(parts, m.help.View(m.keys))
	frame := lipgloss.JoinVertical(lipgloss.Left, parts...)

	switch m.focus {
	case focusPalette:
		frame = overlayAt(frame, m.renderPalette(), 2, 3)
	case focusLabel:
		frame = overlayAt(frame, m.renderLabelPrompt(), 4, 4)
	}
	return frame
}
