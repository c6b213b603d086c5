package render

import "github.com/ha1tch/sqlview/pkg/config"

// baseStyle is the static portion of the document stylesheet.
const baseStyle = `body { font-family: sans-serif; font-size: 13px; margin: 8px; }
.summary { margin: 6px 0; font-weight: bold; }
.message { margin: 6px 0; font-style: italic; }
.divider { border: none; border-top: 1px solid #888; margin: 12px 0; }
table.results { border-collapse: collapse; margin: 6px 0; }
table.results th, table.results td { border: 1px solid #bbb; padding: 2px 8px; text-align: left; vertical-align: top; }
table.results thead th { background: #eee; }
table.results th .type { font-weight: normal; font-size: 11px; color: #666; }
table.results th.index { background: #eee; font-weight: normal; color: #666; }
td.cell-timestamptz { white-space: nowrap; }
pre.plan, pre.dump { font-family: monospace; margin: 6px 0; }
`

// prettyJSONStyle forces whitespace-preserving rendering on JSON-class
// cells. Appended only when the pretty-print option is enabled.
const prettyJSONStyle = `td.cell-json, td.cell-jsonb { white-space: pre-wrap; font-family: monospace; }
`

// stylesheet builds the document stylesheet from configuration-derived
// options.
func (a *Assembler) stylesheet() string {
	if a.settings != nil && a.settings.GetBool(config.KeyPrettyPrintJSON) {
		return baseStyle + prettyJSONStyle
	}
	return baseStyle
}
