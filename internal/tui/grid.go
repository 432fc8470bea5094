package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"qrtx/internal/circuit"
)

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return string([]rune(s)[:width])
	}
	total := width - n
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
	hlDisabled
)

// cellInfo describes what occupies a single (qubit, column) cell.
type cellInfo struct {
	placement   *circuit.Placement
	pending     bool // control chosen, target not yet
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// columnSpan returns the qubit range joined by the CNOT in column, if any.
func columnSpan(g circuit.State, column, numQubits int) (lo, hi int, ok bool) {
	c, okC := g.ControlIn(column, numQubits)
	t, okT := g.TargetIn(column, numQubits)
	if !okC || !okT {
		return 0, 0, false
	}
	return min(c, t), max(c, t), true
}

func (m Model) cellInfo(qubit, column int) cellInfo {
	var info cellInfo
	n := m.ws.Qubits.Confirmed

	if p, ok := m.ws.Grid.At(qubit, column); ok {
		info.placement = &p
	}
	if pend, ok := m.ws.Selection.Pending(); ok && pend.ControlQubit == qubit && pend.ControlColumn == column {
		info.pending = true
	}

	if lo, hi, ok := columnSpan(m.ws.Grid, column, n); ok && qubit >= lo && qubit <= hi {
		info.vertAbove = qubit > lo
		info.vertBelow = qubit < hi
		info.passThrough = qubit > lo && qubit < hi
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each cellW wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.pending:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + targetSelectStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.placement != nil && info.placement.Kind == circuit.CNOT:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(info.placement.Symbol()) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.placement != nil:
			name := padCenter(info.placement.Symbol(), innerW-4)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.pending:
		top, bot = emptyRow, emptyRow
		mid = strings.Repeat("─", dashL) + targetSelectStyle.Render("●") + strings.Repeat("─", dashR)

	case info.placement != nil && info.placement.Kind == circuit.CNOT:
		top, bot = emptyRow, emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(info.placement.Symbol()) + strings.Repeat("─", dashR)

	case info.placement != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.placement.Symbol(), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top, bot = vertRow, vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)

	default:
		top, bot = emptyRow, emptyRow
		mid = strings.Repeat("─", cellW)
	}

	if hl == hlDisabled {
		top, mid, bot = dimStyle.Render(ansi.Strip(top)), dimStyle.Render(ansi.Strip(mid)), dimStyle.Render(ansi.Strip(bot))
	}
	return
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	title := fmt.Sprintf("Quantum Circuit (%d qubits)", m.ws.Qubits.Confirmed)
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	maxCols := min(max(availWidth/cellW, 1), circuit.Columns)

	startCol := 0
	if m.cursorCol >= maxCols {
		startCol = m.cursorCol - maxCols + 1
	}
	endCol := startCol + maxCols

	if startCol > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d-%d\n", startCol, endCol-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for col := startCol; col < endCol; col++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", col), cellW))
	}
	sb.WriteString(header + "\n")

	selecting := m.ws.Selection.Selecting()
	for qubit := range m.ws.Qubits.Confirmed {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q%d", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for col := startCol; col < endCol; col++ {
			hl := hlNone
			switch {
			case col == m.cursorCol && qubit == m.cursorQubit && selecting:
				hl = hlTargetSelect
			case col == m.cursorCol && qubit == m.cursorQubit && m.focus != focusPreview:
				hl = hlCursor
			case !m.ws.Selection.Allows(qubit, col):
				hl = hlDisabled
			}

			top, mid, bot := renderCell(m.cellInfo(qubit, col), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	if m.ws.Grid.IsEmpty() && !selecting {
		sb.WriteString("\n  " + dimStyle.Render("Place gates to build your circuit."))
	}

	if selecting {
		sb.WriteString("\n  ")
		sb.WriteString(targetSelectStyle.Render("CNOT"))
		sb.WriteString("  Select target qubit: ")
		sb.WriteString(targetSelectStyle.Render(fmt.Sprintf("q%d", m.cursorQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: Column %d, Qubit %d", m.cursorCol, m.cursorQubit)
		if m.status != "" {
			st := activeStyle
			if m.statusErr {
				st = warnStyle
			}
			fmt.Fprintf(&sb, "  │  %s", st.Render(m.status))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}
