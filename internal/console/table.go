package console

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// StepRow is one line of the rebuild summary.
type StepRow struct {
	Name     string
	Command  string
	Status   string
	Duration time.Duration
}

// Step statuses shown in the summary.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// RenderSteps writes the rebuild summary table to w.
func RenderSteps(w io.Writer, rows []StepRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Step", "Command", "Status", "Took"})

	for i, row := range rows {
		took := "-"
		if row.Status != StatusSkipped {
			took = row.Duration.Round(time.Millisecond).String()
		}

		tw.AppendRow(table.Row{i + 1, row.Name, row.Command, colorStatus(w, row.Status), took})
	}

	tw.Render()
}

func colorStatus(w io.Writer, status string) string {
	if !IsTerminal(w) {
		return status
	}

	switch status {
	case StatusOK:
		return text.FgGreen.Sprint(status)
	case StatusFailed:
		return text.FgRed.Sprint(status)
	default:
		return text.FgHiBlack.Sprint(status)
	}
}
