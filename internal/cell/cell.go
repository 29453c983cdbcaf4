// Package cell models a single spreadsheet cell as read from a workbook,
// CSV file or remote sheet. A cell is exactly one of text, number or
// timestamp; readers decide the kind, normalizers branch on it.
package cell

import (
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "empty"
	}
}

// Value is the tagged union. The zero value is an empty cell.
type Value struct {
	kind    Kind
	text    string
	number  float64
	instant time.Time
	display string
}

func Text(value string) Value {
	if value == "" {
		return Value{}
	}
	return Value{kind: KindText, text: value, display: value}
}

func Number(value float64) Value {
	return Value{kind: KindNumber, number: value, display: strconv.FormatFloat(value, 'f', -1, 64)}
}

// NumberWithDisplay keeps the formatted text a spreadsheet showed for the
// number, e.g. "9:30 AM" for 0.3958.
func NumberWithDisplay(value float64, display string) Value {
	v := Number(value)
	if strings.TrimSpace(display) != "" {
		v.display = display
	}
	return v
}

func Time(value time.Time) Value {
	return Value{kind: KindTime, instant: value, display: value.Format(time.RFC3339)}
}

// TimeWithDisplay keeps the formatted text shown for a date-formatted cell.
func TimeWithDisplay(value time.Time, display string) Value {
	v := Time(value)
	if strings.TrimSpace(display) != "" {
		v.display = display
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty || (v.kind == KindText && strings.TrimSpace(v.text) == "")
}

func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}

func (v Value) Time() (time.Time, bool) {
	return v.instant, v.kind == KindTime
}

// String returns the display form of the cell, trimmed.
func (v Value) String() string {
	return strings.TrimSpace(v.display)
}

// Parse turns loosely typed values (decoded JSON, Sheets API cells) into a Value.
func Parse(raw any) Value {
	switch typed := raw.(type) {
	case nil:
		return Value{}
	case Value:
		return typed
	case string:
		return Text(typed)
	case float64:
		return Number(typed)
	case float32:
		return Number(float64(typed))
	case int:
		return Number(float64(typed))
	case int64:
		return Number(float64(typed))
	case bool:
		return Text(strconv.FormatBool(typed))
	case time.Time:
		return Time(typed)
	default:
		return Value{}
	}
}

// Row is a convenience for building rows in tests and readers.
func Row(values ...any) []Value {
	out := make([]Value, len(values))
	for i, raw := range values {
		out[i] = Parse(raw)
	}
	return out
}

// Strings returns the display strings of a row.
func Strings(row []Value) []string {
	out := make([]string, len(row))
	for i, value := range row {
		out[i] = value.String()
	}
	return out
}

// At returns the cell at index or an empty cell when the row is short.
func At(row []Value, index int) Value {
	if index < 0 || index >= len(row) {
		return Value{}
	}
	return row[index]
}
