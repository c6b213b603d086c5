package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ha1tch/sqlview/pkg/result"
)

func TestTableShape(t *testing.T) {
	fields := []result.FieldInfo{
		{Name: "id", DisplayType: "int4", Format: "text"},
		{Name: "payload", DisplayType: "jsonb", Format: "jsonb"},
		{Name: "created_at", DisplayType: "timestamptz", Format: "timestamptz"},
	}
	rows := [][]any{
		{1, `{"a":1}`, "2024-01-01 00:00:00+00:00"},
		{2, `{"b":2}`, "2024-01-02 00:00:00+00:00"},
	}

	out, err := NewRenderer(nil).renderTable(fields, rows)
	if err != nil {
		t.Fatalf("renderTable failed: %v", err)
	}

	// Header: one empty index cell plus one cell per field.
	head := out[:strings.Index(out, "</thead>")]
	if got, want := strings.Count(head, "<th>"), len(fields)+1; got != want {
		t.Errorf("header cell count = %d, want %d", got, want)
	}
	if !strings.HasPrefix(head, `<table class="results"><thead><tr><th></th>`) {
		t.Errorf("missing leading empty header cell: %q", head)
	}

	// One body row per input row.
	body := out[strings.Index(out, "<tbody>"):]
	if got, want := strings.Count(body, "<tr>"), len(rows); got != want {
		t.Errorf("body row count = %d, want %d", got, want)
	}
}

func TestTableHeaderShowsNameAndType(t *testing.T) {
	out, err := NewRenderer(nil).renderTable(
		[]result.FieldInfo{{Name: "email", DisplayType: "varchar", Format: "text"}}, nil)
	if err != nil {
		t.Fatalf("renderTable failed: %v", err)
	}

	if !strings.Contains(out, `<th>email<div class="type">varchar</div></th>`) {
		t.Errorf("header cell missing name/type layout: %q", out)
	}
}

func TestRowIndexNumberingIsPositional(t *testing.T) {
	fields := []result.FieldInfo{{Name: "id", DisplayType: "int4", Format: "text"}}
	// Data values deliberately unrelated to the index.
	rows := [][]any{{900}, {17}, {42}}

	out, err := NewRenderer(nil).renderTable(fields, rows)
	if err != nil {
		t.Fatalf("renderTable failed: %v", err)
	}

	for i := 1; i <= len(rows); i++ {
		want := fmt.Sprintf(`<th class="index">%d</th>`, i)
		if !strings.Contains(out, want) {
			t.Errorf("output missing index cell %q", want)
		}
	}
	if strings.Contains(out, `<th class="index">900</th>`) {
		t.Error("index column derived from data values")
	}
}

func TestCellClassPassThrough(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", `<td class="cell-text">`},
		{"jsonb", `<td class="cell-jsonb">`},
		{"timestamptz", `<td class="cell-timestamptz">`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := NewRenderer(nil).renderTable(
				[]result.FieldInfo{{Name: "c", DisplayType: "t", Format: tt.format}},
				[][]any{{"v"}})
			if err != nil {
				t.Fatalf("renderTable failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestNilValueRendersEmptyCell(t *testing.T) {
	out, err := NewRenderer(nil).renderTable(
		[]result.FieldInfo{{Name: "c", DisplayType: "text", Format: "text"}},
		[][]any{{nil}})
	if err != nil {
		t.Fatalf("renderTable failed: %v", err)
	}

	if !strings.Contains(out, `<td class="cell-text"></td>`) {
		t.Errorf("nil value should render an empty cell: %q", out)
	}
}

func TestEmptyRowsYieldHeaderOnlyTable(t *testing.T) {
	out, err := NewRenderer(nil).renderTable(
		[]result.FieldInfo{{Name: "id", DisplayType: "int4", Format: "text"}}, nil)
	if err != nil {
		t.Fatalf("renderTable failed: %v", err)
	}

	if !strings.Contains(out, "<tbody></tbody>") {
		t.Errorf("expected empty body, got %q", out)
	}
	if !strings.Contains(out, "<thead>") {
		t.Errorf("expected header, got %q", out)
	}
}

func TestCellValuesAreEscaped(t *testing.T) {
	out, err := NewRenderer(nil).renderTable(
		[]result.FieldInfo{{Name: "c", DisplayType: "text", Format: "text"}},
		[][]any{{"<b>&</b>"}})
	if err != nil {
		t.Fatalf("renderTable failed: %v", err)
	}

	if strings.Contains(out, "<b>") {
		t.Errorf("cell markup leaked into output: %q", out)
	}
	if !strings.Contains(out, "&lt;b&gt;&amp;&lt;/b&gt;") {
		t.Errorf("cell not escaped: %q", out)
	}
}

// failingFormatter always errors, standing in for a collaborator fault.
type failingFormatter struct{}

func (failingFormatter) Format(field result.FieldInfo, value any, pretty bool) (string, error) {
	return "", errors.New("formatter exploded")
}

func TestFormatterErrorPropagates(t *testing.T) {
	r := NewRenderer(failingFormatter{})
	_, err := r.RenderBatch(result.Batch{{
		Command:  result.CommandSelect,
		RowCount: 1,
		Fields:   []result.FieldInfo{{Name: "id", DisplayType: "int4", Format: "text"}},
		Rows:     [][]any{{1}},
	}})

	if err == nil {
		t.Fatal("expected formatter error to propagate")
	}
	if !strings.Contains(err.Error(), "formatter exploded") {
		t.Errorf("unexpected error: %v", err)
	}
}
