package tui

import (
	"fmt"
	"strings"

	"qrtx/internal/circuit"
)

// paletteItem is a single gate tile in the palette.
type paletteItem struct {
	name   string
	kind   circuit.GateKind
	symbol string
}

// paletteSection groups tiles under a tab.
type paletteSection struct {
	name  string
	items []paletteItem
}

// palette lists every gate the backend accepts.
var palette = []paletteSection{
	{
		name: "Basic Gates",
		items: []paletteItem{
			{name: "Hadamard", kind: circuit.H, symbol: "H"},
			{name: "Pauli-X (NOT)", kind: circuit.X, symbol: "X"},
			{name: "Pauli-Y", kind: circuit.Y, symbol: "Y"},
			{name: "Pauli-Z", kind: circuit.Z, symbol: "Z"},
			{name: "CNOT", kind: circuit.CNOT, symbol: "●─⊕"},
			{name: "SWAP", kind: circuit.SWAP, symbol: "×"},
		},
	},
	{
		name: "Advanced Gates",
		items: []paletteItem{
			{name: "T Gate", kind: circuit.T, symbol: "T"},
			{name: "Phase (S)", kind: circuit.S, symbol: "S"},
			{name: "Rotate X", kind: circuit.Rx, symbol: "Rx"},
			{name: "Rotate Y", kind: circuit.Ry, symbol: "Ry"},
			{name: "Rotate Z", kind: circuit.Rz, symbol: "Rz"},
		},
	},
}

// renderPalette renders the floating gate palette popup.
func (m Model) renderPalette() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Gates"))
	sb.WriteString("\n")

	for i, sec := range palette {
		name := " " + sec.name + " "
		if i == m.paletteSection {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(palette)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 32)))
	sb.WriteString("\n")

	sec := palette[m.paletteSection]
	for i, item := range sec.items {
		if i == m.paletteItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.kind == circuit.CNOT {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Section  ⏎ Drop  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

func (m Model) selectedGate() circuit.GateKind {
	return palette[m.paletteSection].items[m.paletteItem].kind
}
