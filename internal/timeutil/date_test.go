package timeutil

import (
	"testing"
	"time"

	"voltrack/internal/cell"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  cell.Value
		want   string
		wantOK bool
	}{
		{name: "canonical unchanged", input: cell.Text("2024-03-15"), want: "2024-03-15", wantOK: true},
		{name: "day first", input: cell.Text("15/03/2024"), want: "2024-03-15", wantOK: true},
		{name: "day first single digits", input: cell.Text("5/3/2024"), want: "2024-03-05", wantOK: true},
		{name: "ambiguous slash stays day first", input: cell.Text("03/04/2024"), want: "2024-04-03", wantOK: true},
		{name: "iso datetime", input: cell.Text("2024-03-15T10:00:00"), want: "2024-03-15", wantOK: true},
		{name: "long month", input: cell.Text("March 15, 2024"), want: "2024-03-15", wantOK: true},
		{name: "day month year words", input: cell.Text("15 Mar 2024"), want: "2024-03-15", wantOK: true},
		{name: "year first slash", input: cell.Text("2024/03/15"), want: "2024-03-15", wantOK: true},
		{name: "serial date", input: cell.Number(45366), want: "2024-03-15", wantOK: true},
		{name: "temporal", input: cell.Time(time.Date(2024, 3, 15, 8, 0, 0, 0, time.Local)), want: "2024-03-15", wantOK: true},
		{name: "impossible day", input: cell.Text("31/02/2024"), wantOK: false},
		{name: "fraction is not a date", input: cell.Number(0.5), wantOK: false},
		{name: "garbage", input: cell.Text("next tuesday"), wantOK: false},
		{name: "empty", input: cell.Value{}, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := NormalizeDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got ok=%v (value %q)", tt.wantOK, ok, got)
			}
			if ok && got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeDateRoundTrip(t *testing.T) {
	t.Parallel()

	first, ok := NormalizeDateString("15/03/2024")
	if !ok {
		t.Fatalf("expected day-first date to normalize")
	}
	second, ok := NormalizeDateString(first)
	if !ok || second != first {
		t.Fatalf("expected %q to stay unchanged, got %q", first, second)
	}
}
