package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sydlexius/retune/internal/engine"
	"github.com/sydlexius/retune/internal/resolver"
)

// WriteTable renders the report as a terminal table followed by a one-line
// summary. colored enables ANSI styling for interactive terminals.
func WriteTable(w io.Writer, report *engine.Report, colored bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Folder", "Proposed", "Decision", "Reason", "Score"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Score", Align: text.AlignRight},
	})
	if colored {
		t.SetStyle(table.StyleColoredDark)
	} else {
		t.SetStyle(table.StyleLight)
	}

	for _, r := range report.Results {
		proposed := r.ProposedName
		if proposed == r.Folder.Name {
			proposed = ""
		}
		score := ""
		if r.Confidence > 0 {
			score = fmt.Sprintf("%.2f", r.Confidence)
		}
		t.AppendRow(table.Row{r.Folder.Name, proposed, string(r.Decision), r.Reason, score})
	}
	t.Render()

	fmt.Fprintln(w, summaryLine(report))
}

// summaryLine folds the decision counts into a single stable line, e.g.
// "12 folders: 4 rename, 6 skip, 1 manual-review, 1 error".
func summaryLine(report *engine.Report) string {
	order := []resolver.Decision{
		resolver.DecisionRename,
		resolver.DecisionSkip,
		resolver.DecisionManualReview,
		resolver.DecisionError,
	}
	line := fmt.Sprintf("%d folders:", len(report.Results))
	first := true
	for _, d := range order {
		n := report.Summary[d]
		if n == 0 {
			continue
		}
		if !first {
			line += ","
		}
		line += fmt.Sprintf(" %d %s", n, d)
		first = false
	}
	// Unknown decisions still show up instead of silently vanishing.
	var extra []string
	for d := range report.Summary {
		known := false
		for _, k := range order {
			if d == k {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, fmt.Sprintf(" %d %s", report.Summary[d], d))
		}
	}
	sort.Strings(extra)
	for _, e := range extra {
		if !first {
			line += ","
		}
		line += e
		first = false
	}
	if first {
		line += " nothing to do"
	}
	return line
}
