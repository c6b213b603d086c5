package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/sqlview/pkg/result"
)

// renderTable lays out fields and rows as an HTML table fragment.
//
// The header holds one leading empty cell for the row-index column, then
// one cell per field with the field name and its display type beneath as
// secondary text. Body rows are numbered from 1 in iteration order; the
// numbering is positional, not taken from the data, and restarts for
// every table. Each data cell carries a class derived from the field's
// formatting class, passed through unchanged.
//
// rows may be empty, which yields a header-only table.
func (r *Renderer) renderTable(fields []result.FieldInfo, rows [][]any) (string, error) {
	var b strings.Builder

	b.WriteString(`<table class="results">`)
	b.WriteString("<thead><tr>")
	b.WriteString("<th></th>") // row-index column
	for _, f := range fields {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString(`<div class="type">`)
		b.WriteString(html.EscapeString(f.DisplayType))
		b.WriteString("</div></th>")
	}
	b.WriteString("</tr></thead>")

	b.WriteString("<tbody>")
	for i, row := range rows {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, `<th class="index">%d</th>`, i+1)
		for j, f := range fields {
			var raw any
			if j < len(row) {
				raw = row[j]
			}
			cell, err := r.formatter.Format(f, raw, false)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, `<td class="cell-%s">%s</td>`, f.Format, html.EscapeString(cell))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	return b.String(), nil
}
