package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestMinutesFromMidnight(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 13, 25, 0, 0, time.Local)
	if got := MinutesFromMidnight(input); got != 805 {
		t.Fatalf("expected 805, got %d", got)
	}
}

func TestAtPlacesClockOnDay(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 22, 10, 0, 0, time.Local)
	got := At(day, Clock{Hour: 17, Minute: 30})
	want := time.Date(2026, 3, 1, 17, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if ClockOf(got) != (Clock{Hour: 17, Minute: 30}) {
		t.Fatalf("unexpected clock %v", ClockOf(got))
	}
}
