package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"qrtx/internal/history"
	"qrtx/internal/wire"
)

const barWidth = 20

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderResult prints the run summary followed by the outcomes, most likely first.
func renderResult(w io.Writer, res *wire.SimulationResult) {
	if res == nil {
		_, _ = fmt.Fprintln(w, "(not simulated)")
		return
	}
	if !res.Success {
		_, _ = fmt.Fprintf(w, "Simulation failed: %s\n", res.ErrorMessage)
		return
	}

	_, _ = fmt.Fprintf(w, "Total shots:     %d\n", res.TotalShots)
	_, _ = fmt.Fprintf(w, "Execution time:  %.2fs\n", res.ExecutionTime)
	_, _ = fmt.Fprintf(w, "Unique outcomes: %d\n", res.UniqueOutcomes())

	outcomes := res.SortedOutcomes()
	if len(outcomes) == 0 {
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Outcome", "Shots", "Probability", ""})
	for _, o := range outcomes {
		t.AppendRow(table.Row{
			"|" + wire.FormatBitstring(o.Bitstring) + "⟩",
			o.Count,
			fmt.Sprintf("%.1f%%", o.Probability*100),
			bar(o.Probability),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func bar(p float64) string {
	n := int(p*barWidth + 0.5)
	n = min(max(n, 0), barWidth)
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

func renderAnalysis(w io.Writer, a *wire.CircuitAnalysis) {
	t := newTable(w)
	t.SetTitle("Circuit analysis")
	t.AppendRow(table.Row{"Total gates", a.TotalGates})
	t.AppendRow(table.Row{"Width", a.CircuitWidth})
	t.AppendRow(table.Row{"Depth", a.CircuitDepth})
	t.AppendRow(table.Row{"Two-qubit gates", a.TwoQubitGateCount})
	if a.EstimatedComplexity != "" {
		t.AppendRow(table.Row{"Complexity", a.EstimatedComplexity})
	}
	if len(a.GateTypesUsed) > 0 {
		t.AppendRow(table.Row{"Gate types", formatCounts(a.GateTypesUsed)})
	}
	t.Render()
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}

func runStatus(res *wire.SimulationResult) string {
	switch {
	case res == nil:
		return "not run"
	case res.Success:
		return "ok"
	default:
		return "failed"
	}
}

func renderHistory(w io.Writer, recs []history.Record) {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "(no saved runs)")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Label", "Saved", "Qubits", "Gates", "Status"})
	for _, r := range recs {
		t.AppendRow(table.Row{
			r.ID,
			r.Label,
			r.CreatedAt.Local().Format(time.DateTime),
			r.NumQubits,
			r.Gates,
			runStatus(r.Result),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d runs)\n", len(recs))
}

func renderRecord(w io.Writer, r *history.Record) {
	_, _ = fmt.Fprintf(w, "ID:     %s\n", r.ID)
	if r.Label != "" {
		_, _ = fmt.Fprintf(w, "Label:  %s\n", r.Label)
	}
	_, _ = fmt.Fprintf(w, "Saved:  %s\n", r.CreatedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(w, "Qubits: %d\n", r.NumQubits)
	_, _ = fmt.Fprintf(w, "Gates:  %d\n\n", r.Gates)
	renderResult(w, r.Result)
}
