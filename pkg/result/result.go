// Package result defines the statement result model consumed by the
// rendering pipeline.
//
// A StatementResult is produced upstream by statement execution and is
// immutable input to the renderer; nothing in this module mutates it.
package result

import (
	sverrors "github.com/ha1tch/sqlview/pkg/errors"
)

// Command identifies the kind of statement a result came from.
type Command string

const (
	CommandInsert  Command = "INSERT"
	CommandUpdate  Command = "UPDATE"
	CommandCreate  Command = "CREATE"
	CommandDelete  Command = "DELETE"
	CommandExplain Command = "EXPLAIN"
	CommandSelect  Command = "SELECT"
	CommandMessage Command = "ext-message" // informational text, no row payload
)

// Known reports whether the command tag is one of the recognized kinds.
// Unknown tags are not errors; they render as a structural dump.
func (c Command) Known() bool {
	switch c {
	case CommandInsert, CommandUpdate, CommandCreate, CommandDelete,
		CommandExplain, CommandSelect, CommandMessage:
		return true
	}
	return false
}

func (c Command) String() string {
	return string(c)
}

// Formatting classes carried in FieldInfo.Format. The table renderer
// passes the class through to the cell tag unchanged; the formatter and
// stylesheet give JSON-like and timestamp classes special treatment.
const (
	FormatText        = "text"
	FormatJSON        = "json"
	FormatJSONB       = "jsonb"
	FormatTimestamptz = "timestamptz"
	FormatDate        = "date"
)

// FieldInfo describes one column of row-shaped output.
type FieldInfo struct {
	Name        string `json:"name"`
	DisplayType string `json:"display_type"`
	Format      string `json:"format"`
}

// StatementResult is the outcome of executing a single statement.
//
// RowCount is meaningful for INSERT/UPDATE/CREATE/DELETE/SELECT. Fields
// and Rows are present only for row-shaped output (SELECT, or
// INSERT/UPDATE/DELETE with RETURNING-style output). Message is used
// only by the ext-message command.
type StatementResult struct {
	Command  Command     `json:"command"`
	RowCount int         `json:"rowCount"`
	Fields   []FieldInfo `json:"fields,omitempty"`
	Rows     [][]any     `json:"rows,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// HasRowData reports whether the result carries both fields and rows.
func (r *StatementResult) HasRowData() bool {
	return len(r.Fields) > 0 && len(r.Rows) > 0
}

// CheckAligned verifies the fields/rows alignment precondition: when both
// are populated, every row tuple must hold exactly len(Fields) values.
// The renderer itself does not validate (misalignment is an upstream
// bug); callers that want a defensive check run this before rendering.
func (r *StatementResult) CheckAligned() error {
	if len(r.Fields) == 0 {
		return nil
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Fields) {
			return sverrors.Newf(sverrors.ErrCodeResultMisaligned,
				"row %d has %d values, expected %d", i, len(row), len(r.Fields)).
				WithOp("StatementResult.CheckAligned").
				WithField("command", r.Command.String()).
				Err()
		}
	}
	return nil
}

// Batch is an ordered sequence of statement results. Presentation
// preserves input order; there is no other ordering invariant.
type Batch []StatementResult

// CheckAligned runs CheckAligned on every result in the batch.
func (b Batch) CheckAligned() error {
	for i := range b {
		if err := b[i].CheckAligned(); err != nil {
			return err
		}
	}
	return nil
}
