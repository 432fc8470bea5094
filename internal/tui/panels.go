package tui

import (
	"fmt"
	"math"
	"strings"

	"qrtx/internal/preview"
	"qrtx/internal/wire"
)

const appTitle = "Q-RTX: A cuQuantum Simulation"

func (m Model) renderHeader(width int) string {
	left := headerStyle.Render(appTitle)
	q := fmt.Sprintf("qubits %d", m.ws.Qubits.Selected)
	if m.ws.Qubits.Dirty() {
		q = warnStyle.Render(q + " (c to apply)")
	} else {
		q = dimStyle.Render(q)
	}
	gap := max(width-visibleLen(left)-visibleLen(q), 1)
	return left + strings.Repeat(" ", gap) + q
}

// renderResults renders the last simulation run. It returns "" when nothing has
// been run yet.
func renderResults(res *wire.SimulationResult, width int) string {
	if res == nil {
		return ""
	}
	if !res.Success {
		var sb strings.Builder
		sb.WriteString(titleStyle.Render("Simulation Failed"))
		sb.WriteString("\n\n")
		sb.WriteString(res.ErrorMessage)
		return errorPanelStyle.Width(width).Render(sb.String())
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Simulation Results"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s %d   %s %.2fs   %s %d\n\n",
		dimStyle.Render("Shots"), res.TotalShots,
		dimStyle.Render("Time"), res.ExecutionTime,
		dimStyle.Render("Unique"), res.UniqueOutcomes())

	for _, o := range res.SortedOutcomes() {
		fmt.Fprintf(&sb, "|%s⟩  %6d shots  %s %5.1f%%\n",
			gateStyle.Render(wire.FormatBitstring(o.Bitstring)),
			o.Count,
			renderBar(o.Probability, resultBarW),
			o.Probability*100)
	}
	return resultsStyle.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

// renderBar draws a horizontal bar for a value in [0, 1].
func renderBar(p float64, width int) string {
	p = math.Max(0, math.Min(1, p))
	filled := int(math.Round(p * float64(width)))
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderRunning(width int) string {
	return resultsStyle.Width(width).Render(m.spinner.View() + " Simulating circuit...")
}

// renderResources shows the estimated cost of the circuit and, for small
// registers, the locally computed P(1) per qubit.
func (m Model) renderResources(req wire.CircuitRequest, reqErr error, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Resources"))
	sb.WriteString("\n\n")

	if reqErr != nil {
		sb.WriteString(warnStyle.Render(reqErr.Error()))
		return resourceStyle.Width(width).Render(sb.String())
	}

	est := preview.EstimateFor(req)
	sb.WriteString(resourceRow("Memory Required", est.Memory()) + "\n")
	sb.WriteString(resourceRow("Est. Compute Time", est.ComputeTime()) + "\n")
	sb.WriteString(resourceRow("Gates", fmt.Sprint(est.Gates)) + "\n")
	sb.WriteString(resourceRow("Depth", fmt.Sprint(est.Depth)))

	probs := m.probs
	sb.WriteString("\n\n")
	if probs.Skipped {
		limit := min(m.opts.Preview.MaxQubits, preview.LimitQubits)
		sb.WriteString(dimStyle.Render(fmt.Sprintf("Local preview off above %d qubits", limit)))
		return resourceStyle.Width(width).Render(sb.String())
	}
	sb.WriteString(dimStyle.Render("P(1) per qubit"))
	for q, p := range probs.Prob1 {
		fmt.Fprintf(&sb, "\nq%-3d %s %5.1f%%", q, renderBar(p, resultBarW/2), p*100)
	}
	return resourceStyle.Width(width).Render(sb.String())
}

func resourceRow(label, value string) string {
	return dimStyle.Render(fmt.Sprintf("%-18s", label)) + " " + value
}

// previewContent is what the request viewport shows: the JSON body sent to the
// backend or the equivalent OpenQASM.
func (m Model) previewContent(req wire.CircuitRequest, reqErr error) string {
	if reqErr != nil {
		return warnStyle.Render(reqErr.Error())
	}
	if m.showQASM {
		return m.qasm(req)
	}
	body, err := marshalRequest(req)
	if err != nil {
		return warnStyle.Render(err.Error())
	}
	return body
}

func (m Model) renderPreviewPanel(width, height int) string {
	var sb strings.Builder
	title := "Request JSON"
	if m.showQASM {
		title = "OpenQASM"
	}
	if m.focus == focusPreview {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	return previewStyle.Width(width).Height(height).Render(sb.String())
}

// renderLabelPrompt renders the save dialog.
func (m Model) renderLabelPrompt() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Save Circuit"))
	sb.WriteString("\n\n")
	sb.WriteString(m.label.View())
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s", dimStyle.Render(fmt.Sprintf("Writes %s and a history entry", m.opts.ExportPath)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("⏎ Save  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
