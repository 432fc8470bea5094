package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayAt composites overlay on top of bg with its top-left corner at (x, y).
// Positions are terminal cells, so ANSI styling and wide runes in bg are respected.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		idx := y + i
		if idx < 0 || idx >= len(bgLines) {
			continue
		}
		bgLines[idx] = spliceLineAt(bgLines[idx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces the cells of bgLine starting at x with overlay. A wide
// rune cut by either edge is replaced with padding.
func spliceLineAt(bgLine, overlay string, x int) string {
	prefix := ansi.Truncate(bgLine, x, "")
	if w := visibleLen(prefix); w < x {
		prefix += strings.Repeat(" ", x-w)
	}

	end := x + visibleLen(overlay)
	suffix := ansi.TruncateLeft(bgLine, end, "")
	if total := visibleLen(bgLine); total > end {
		if visibleLen(suffix) > total-end {
			// TruncateLeft keeps a wide rune that starts left of end.
			suffix = ansi.TruncateLeft(bgLine, end+1, "")
		}
		if w := visibleLen(suffix); w < total-end {
			suffix = strings.Repeat(" ", total-end-w) + suffix
		}
	}

	return prefix + overlay + "\x1b[0m" + suffix
}

// visibleLen is the number of terminal cells s occupies.
func visibleLen(s string) int {
	return lipgloss.Width(s)
}
