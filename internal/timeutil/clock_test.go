package timeutil

import (
	"testing"
	"time"

	"voltrack/internal/cell"
)

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  cell.Value
		want   string
		wantOK bool
	}{
		{name: "24h", input: cell.Text("17:45"), want: "17:45", wantOK: true},
		{name: "single digit hour", input: cell.Text("9:05"), want: "09:05", wantOK: true},
		{name: "am", input: cell.Text("9:00 AM"), want: "09:00", wantOK: true},
		{name: "noon", input: cell.Text("12:00 PM"), want: "12:00", wantOK: true},
		{name: "midnight", input: cell.Text("12:00 AM"), want: "00:00", wantOK: true},
		{name: "pm lowercase", input: cell.Text("5:30pm"), want: "17:30", wantOK: true},
		{name: "seconds ignored", input: cell.Text("08:15:59"), want: "08:15", wantOK: true},
		{name: "missing minute", input: cell.Text("7:"), want: "07:00", wantOK: true},
		{name: "apostrophe text marker", input: cell.Text("'09:30"), want: "09:30", wantOK: true},
		{name: "iso datetime", input: cell.Text("2024-03-15T14:20:00"), want: "14:20", wantOK: true},
		{name: "day fraction", input: cell.Number(0.375), want: "09:00", wantOK: true},
		{name: "day fraction zero", input: cell.Number(0), want: "00:00", wantOK: true},
		{name: "decimal hours", input: cell.Number(9.5), want: "09:30", wantOK: true},
		{name: "decimal hours text", input: cell.Text("9.5"), want: "09:30", wantOK: true},
		{name: "day fraction text", input: cell.Text("0.375"), want: "09:00", wantOK: true},
		{name: "temporal", input: cell.Time(time.Date(1899, 12, 30, 16, 45, 0, 0, time.Local)), want: "16:45", wantOK: true},
		{name: "hour out of range", input: cell.Text("25:00"), wantOK: false},
		{name: "minute out of range", input: cell.Text("10:75"), wantOK: false},
		{name: "twenty four", input: cell.Number(24), wantOK: false},
		{name: "number too large", input: cell.Number(37), wantOK: false},
		{name: "negative", input: cell.Number(-0.2), wantOK: false},
		{name: "garbage", input: cell.Text("garbage"), wantOK: false},
		{name: "bad timestamp", input: cell.Text("Tomorrow"), wantOK: false},
		{name: "empty", input: cell.Value{}, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := NormalizeTime(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got ok=%v (value %q)", tt.wantOK, ok, got)
			}
			if ok && got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeTimeIsIdempotent(t *testing.T) {
	t.Parallel()

	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 7 {
			input := Clock{Hour: hour, Minute: minute}.String()
			first, ok := NormalizeTimeString(input)
			if !ok {
				t.Fatalf("expected %q to normalize", input)
			}
			second, ok := NormalizeTimeString(first)
			if !ok || second != first {
				t.Fatalf("normalize not idempotent for %q: %q then %q", input, first, second)
			}
		}
	}
}

func TestDayFractionRoundsToNearestMinute(t *testing.T) {
	t.Parallel()

	// 9:30 stored with float noise.
	got, ok := NormalizeTime(cell.Number(0.39583333))
	if !ok || got != "09:30" {
		t.Fatalf("expected 09:30, got %q (%v)", got, ok)
	}
}

func TestDecimalHoursCarriesRoundedMinute(t *testing.T) {
	t.Parallel()

	got, ok := NormalizeTime(cell.Number(9.999))
	if !ok || got != "10:00" {
		t.Fatalf("expected 10:00, got %q (%v)", got, ok)
	}
}
