// Package render turns a batch of statement results into the
// presentation document the host viewport displays.
//
// The pipeline has two stages. Renderer.RenderBatch dispatches each
// result by command kind into an HTML fragment, concatenated with a
// divider between consecutive statements. Assembler.Assemble wraps the
// concatenated fragment into a complete document: state metadata, script
// reference, stylesheet, body.
//
// Both stages are pure and total over their inputs: every command tag,
// recognized or not, yields a fragment. The only error sources are
// collaborators (field formatter, state serialization, asset resolution),
// and those errors propagate to the caller unchanged.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	sverrors "github.com/ha1tch/sqlview/pkg/errors"
	"github.com/ha1tch/sqlview/pkg/format"
	"github.com/ha1tch/sqlview/pkg/result"
)

// Divider separates consecutive statement fragments. It appears exactly
// N-1 times for a batch of N results, never leading or trailing.
const Divider = `<hr class="divider" />`

// Renderer dispatches statement results to fragment generators.
type Renderer struct {
	formatter format.Formatter
}

// NewRenderer creates a renderer using the given field formatter.
// A nil formatter falls back to the default value formatter.
func NewRenderer(f format.Formatter) *Renderer {
	if f == nil {
		f = format.New()
	}
	return &Renderer{formatter: f}
}

// RenderBatch renders every result in order and joins the fragments with
// dividers.
func (r *Renderer) RenderBatch(batch result.Batch) (string, error) {
	var b strings.Builder
	for i := range batch {
		if i > 0 {
			b.WriteString(Divider)
		}
		frag, err := r.renderResult(&batch[i])
		if err != nil {
			return "", err
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}

// renderResult selects a generator by command kind. Unknown kinds fall
// through to the structural dump; there is no error arm for the tag.
func (r *Renderer) renderResult(res *result.StatementResult) (string, error) {
	switch res.Command {
	case result.CommandMessage:
		return `<div class="message">` + html.EscapeString(res.Message) + `</div>`, nil
	case result.CommandInsert:
		return r.renderAffected(res, "inserted")
	case result.CommandUpdate:
		return r.renderAffected(res, "updated")
	case result.CommandDelete:
		return r.renderAffected(res, "deleted")
	case result.CommandCreate:
		// CREATE carries no row-shaped payload; never tabulate.
		return summary(res.RowCount, "created"), nil
	case result.CommandExplain:
		return renderPlan(res), nil
	case result.CommandSelect:
		table, err := r.renderTable(res.Fields, res.Rows)
		if err != nil {
			return "", err
		}
		return summary(res.RowCount, "returned") + table, nil
	default:
		return renderDump(res)
	}
}

// renderAffected renders the row-count summary for INSERT/UPDATE/DELETE,
// followed by a table when the statement returned row-shaped output.
func (r *Renderer) renderAffected(res *result.StatementResult, verb string) (string, error) {
	frag := summary(res.RowCount, verb)
	if res.HasRowData() {
		table, err := r.renderTable(res.Fields, res.Rows)
		if err != nil {
			return "", err
		}
		frag += table
	}
	return frag, nil
}

// summary renders the row-count line. Singular only for exactly one row;
// zero is plural.
func summary(count int, verb string) string {
	noun := "rows"
	if count == 1 {
		noun = "row"
	}
	return fmt.Sprintf(`<div class="summary">%d %s %s</div>`, count, noun, verb)
}

// renderPlan joins plan rows into one preformatted block, one row per
// line. Plan output is line-oriented text, not tabular data.
func renderPlan(res *result.StatementResult) string {
	lines := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = fmt.Sprintf("%v", v)
		}
		lines[i] = strings.Join(parts, "\t")
	}
	return `<pre class="plan">` + html.EscapeString(strings.Join(lines, "\n")) + `</pre>`
}

// renderDump is the fallback for unrecognized command kinds: a structural
// dump of the whole result. Row payloads are dumped in full, so hosts
// running unbounded statements of unknown kinds may want to cap rows
// upstream.
func renderDump(res *result.StatementResult) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", sverrors.Wrap(err, sverrors.ErrCodeResultDump, "dump unrecognized result").
			WithOp("Renderer.renderResult").
			WithField("command", res.Command.String()).
			Err()
	}
	return `<pre class="dump">` + html.EscapeString(string(data)) + `</pre>`, nil
}

// Render is the single external surface of the pipeline:
// (batch, state) → complete document string.
func Render(r *Renderer, a *Assembler, batch result.Batch, state any) (string, error) {
	fragment, err := r.RenderBatch(batch)
	if err != nil {
		return "", err
	}
	return a.Assemble(fragment, state)
}
