package cli

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DirStatus is one required directory of a step.
type DirStatus struct {
	Key    string
	Path   string
	Exists bool
}

// StepRow is one line of the steps table.
type StepRow struct {
	Event  string
	Action string
	Dirs   []DirStatus
}

// RenderSteps writes the steps table to w. Colours are used only when the
// console is decorated.
func (c *Console) RenderSteps(w io.Writer, rows []StepRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if c.decorated {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{
		c.colorize(text.FgHiCyan, "EVENT"),
		c.colorize(text.FgHiCyan, "ACTION"),
		c.colorize(text.FgHiCyan, "REQUIRES"),
		c.colorize(text.FgHiCyan, "READY"),
	})

	for _, row := range rows {
		dirs := make([]string, 0, len(row.Dirs))
		ready := true
		for _, d := range row.Dirs {
			mark := "✓"
			if !d.Exists {
				mark = "✗"
				ready = false
			}
			dirs = append(dirs, d.Key+"="+d.Path+" "+mark)
		}
		status := c.colorize(text.FgGreen, "yes")
		if !ready {
			status = c.colorize(text.FgYellow, "no (skipped)")
		}
		t.AppendRow(table.Row{row.Event, row.Action, strings.Join(dirs, "\n"), status})
	}

	t.Render()
}
