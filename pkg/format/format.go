// Package format converts raw field values into display strings for the
// rendering pipeline.
//
// The Formatter interface is the seam between the renderer and value
// presentation: the table renderer calls it once per cell and embeds
// whatever comes back. The default implementation understands the value
// types the upstream execution layer produces, including pgx's pgtype
// wrappers and shopspring decimals.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	sverrors "github.com/ha1tch/sqlview/pkg/errors"
	"github.com/ha1tch/sqlview/pkg/result"
)

// Formatter maps a typed field value to a display string.
// Implementations must be pure and total over any value the upstream
// execution layer can produce. An empty result renders as an empty cell.
type Formatter interface {
	Format(field result.FieldInfo, value any, pretty bool) (string, error)
}

// ValueFormatter is the default Formatter.
type ValueFormatter struct{}

// New creates the default value formatter.
func New() *ValueFormatter {
	return &ValueFormatter{}
}

// Time layouts by formatting class. Timestamps with a zone keep their
// offset; dates drop the time portion entirely.
const (
	layoutTimestamp   = "2006-01-02 15:04:05.999999"
	layoutTimestamptz = "2006-01-02 15:04:05.999999-07:00"
	layoutDate        = "2006-01-02"
)

// Format renders value for display. A nil value yields the empty string.
func (f *ValueFormatter) Format(field result.FieldInfo, value any, pretty bool) (string, error) {
	if value == nil {
		return "", nil
	}

	if isJSONClass(field.Format) {
		return formatJSON(field, value, pretty)
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return formatTime(field, v), nil
	case decimal.Decimal:
		return v.String(), nil
	case pgtype.Numeric:
		return formatNumeric(field, v)
	case pgtype.Timestamptz:
		if !v.Valid {
			return "", nil
		}
		return formatTime(field, v.Time), nil
	case pgtype.Date:
		if !v.Valid {
			return "", nil
		}
		return v.Time.Format(layoutDate), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	// Structured values (decoded arrays, composite types) read best as JSON.
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return formatJSON(field, value, pretty)
	}

	return fmt.Sprintf("%v", value), nil
}

func isJSONClass(class string) bool {
	return class == result.FormatJSON || class == result.FormatJSONB
}

// formatTime picks a layout from the field's formatting class.
func formatTime(field result.FieldInfo, t time.Time) string {
	switch field.Format {
	case result.FormatTimestamptz:
		return t.Format(layoutTimestamptz)
	case result.FormatDate:
		return t.Format(layoutDate)
	default:
		return t.Format(layoutTimestamp)
	}
}

// formatNumeric renders a pgtype.Numeric through its driver value.
func formatNumeric(field result.FieldInfo, n pgtype.Numeric) (string, error) {
	if !n.Valid {
		return "", nil
	}
	dv, err := n.Value()
	if err != nil {
		return "", sverrors.Wrap(err, sverrors.ErrCodeFormatValue, "format numeric value").
			WithOp("ValueFormatter.Format").
			WithField("field", field.Name).
			Err()
	}
	return fmt.Sprintf("%v", dv), nil
}

// formatJSON normalizes a JSON-class value: compact by default, indented
// when pretty is requested. Values that are not valid JSON pass through
// as plain text rather than failing.
func formatJSON(field result.FieldInfo, value any, pretty bool) (string, error) {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", sverrors.Wrap(err, sverrors.ErrCodeFormatValue, "marshal json value").
				WithOp("ValueFormatter.Format").
				WithField("field", field.Name).
				Err()
		}
		raw = data
	}

	var buf bytes.Buffer
	if pretty {
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return string(raw), nil
		}
	} else {
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw), nil
		}
	}
	return buf.String(), nil
}
