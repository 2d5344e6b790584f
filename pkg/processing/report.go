package processing

import (
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/systemstart/ttgen/pkg/api"
)

// StatusTable renders results as a table. The age column is relative to now.
func StatusTable(results []Result, now time.Time) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Spec", "Status", "Action", "Output", "Modified", "Error"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Spec.Name,
			statusCell(r),
			r.Action.String(),
			outputCell(r),
			ageCell(r, now),
			errorCell(r.Err),
		})
	}

	return tw.Render()
}

func statusCell(r Result) string {
	if kind, ok := api.KindOf(r.Err); ok && kind == api.KindMissing {
		return "missing inputs"
	}
	return r.Status.State.String()
}

func outputCell(r Result) string {
	if !r.Spec.HasOutput() {
		return "(stdout)"
	}
	return r.Spec.Output
}

func ageCell(r Result, now time.Time) string {
	if !r.Spec.HasOutput() {
		return "-"
	}
	info, err := os.Stat(r.Spec.Output)
	if err != nil {
		return "-"
	}
	return humanize.RelTime(info.ModTime(), now, "ago", "from now")
}

func errorCell(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", "; ")
}
