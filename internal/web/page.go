package web

// page.go renders the host page with templ components assembled in Go.
// The computed HTML column is trusted output from the rich text renderer
// and passes through templ.Raw; every other cell is escaped.

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/richsheet/internal/pipeline"
)

const pageTop = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Submissions</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a2e; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #d0d0d8; padding: 0.5rem 0.75rem; text-align: left; vertical-align: top; }
th { background: #f4f4f8; }
.stats { color: #666; font-size: 0.85rem; margin-bottom: 1rem; }
.empty { color: #666; font-style: italic; }
</style>
</head>
<body>
<h1>Submissions</h1>
`

const pageBottom = `</body>
</html>
`

// TablePage is the full host page for the published table. computedColumn
// names the header whose cells are rendered as raw HTML.
func TablePage(table pipeline.Table, stats pipeline.Stats, computedColumn string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.writeString(pageTop)
		if ew.err != nil {
			return ew.err
		}
		if err := statsStrip(stats).Render(ctx, w); err != nil {
			return err
		}
		if err := tableSection(table, computedColumn).Render(ctx, w); err != nil {
			return err
		}
		ew.writeString(pageBottom)
		return ew.err
	})
}

// statsStrip summarizes cache state above the table.
func statsStrip(stats pipeline.Stats) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<p class=\"stats\">cache primary: %s | backup: %s | rows: %d | refreshed: %s</p>\n",
			presence(stats.PrimaryPresent),
			presence(stats.BackupPresent),
			stats.RowCount,
			templ.EscapeString(stats.Timestamp),
		)
		return err
	})
}

// tableSection renders the table body, or a placeholder when the table has
// no columns.
func tableSection(table pipeline.Table, computedColumn string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(table.Header) == 0 {
			_, err := io.WriteString(w, "<p class=\"empty\">No data available.</p>\n")
			return err
		}

		htmlCol := computedColumnIndex(table.Header, computedColumn)

		ew := &errWriter{w: w}
		ew.writeString("<table>\n<thead>\n<tr>")
		for _, name := range table.Header {
			ew.writeString("<th>")
			ew.writeString(templ.EscapeString(name))
			ew.writeString("</th>")
		}
		ew.writeString("</tr>\n</thead>\n<tbody>\n")

		for _, row := range table.Rows {
			ew.writeString("<tr>")
			for i, cell := range row {
				ew.writeString("<td>")
				if i == htmlCol {
					if ew.err == nil {
						ew.err = templ.Raw(cell).Render(ctx, w)
					}
				} else {
					ew.writeString(templ.EscapeString(cell))
				}
				ew.writeString("</td>")
			}
			ew.writeString("</tr>\n")
		}

		ew.writeString("</tbody>\n</table>\n")
		return ew.err
	})
}

// computedColumnIndex locates the computed HTML column in the header, -1 if
// absent.
func computedColumnIndex(header []string, name string) int {
	want := strings.TrimSpace(name)
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}

// errWriter collects the first write error so render loops stay flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) writeString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
