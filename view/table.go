package view

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable prints the columns of doc side by side.
func WriteTable(w io.Writer, doc *Document) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if doc.Header != "" {
		t.SetTitle(doc.Header)
	}

	header := make(table.Row, 0, len(doc.Columns))
	depth := 0
	for _, c := range doc.Columns {
		header = append(header, c.Heading())
		if len(c.Items) > depth {
			depth = len(c.Items)
		}
	}
	t.AppendHeader(header)

	for i := 0; i < depth; i++ {
		row := make(table.Row, 0, len(doc.Columns))
		for _, c := range doc.Columns {
			if i < len(c.Items) {
				row = append(row, c.Items[i].Title)
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}
