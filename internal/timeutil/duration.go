package timeutil

import (
	"math"
	"strconv"

	"voltrack/internal/cell"
)

// CalculateHours returns worked hours between check-in and check-out,
// rounded to two decimals. A check-out earlier than check-in wraps past
// midnight once. A valid break window is deducted. Unreadable check-in or
// check-out yields 0.
func CalculateHours(checkIn, checkOut, breakStart, breakEnd cell.Value) float64 {
	in, ok := ParseClock(checkIn)
	if !ok {
		return 0
	}
	out, ok := ParseClock(checkOut)
	if !ok {
		return 0
	}

	diff := out.Minutes() - in.Minutes()
	if diff < 0 {
		diff += minutesPerDay
	}

	if !breakStart.IsEmpty() && !breakEnd.IsEmpty() {
		bs, bsOK := ParseClock(breakStart)
		be, beOK := ParseClock(breakEnd)
		if bsOK && beOK {
			breakMinutes := be.Minutes() - bs.Minutes()
			if breakMinutes < 0 {
				breakMinutes = -breakMinutes
			}
			if breakMinutes > 0 {
				diff -= breakMinutes
			}
		}
	}
	if diff < 0 {
		diff = 0
	}

	return roundHours(float64(diff) / 60)
}

// BreakMinutes returns the break length in minutes, or 0 when either bound
// is unreadable or the window is not strictly positive.
func BreakMinutes(breakStart, breakEnd cell.Value) int {
	if breakStart.IsEmpty() || breakEnd.IsEmpty() {
		return 0
	}
	bs, ok := ParseClock(breakStart)
	if !ok {
		return 0
	}
	be, ok := ParseClock(breakEnd)
	if !ok {
		return 0
	}
	if minutes := be.Minutes() - bs.Minutes(); minutes > 0 {
		return minutes
	}
	return 0
}

// HoursBetween is CalculateHours over stored "HH:MM" strings.
func HoursBetween(checkIn, checkOut, breakStart, breakEnd string) float64 {
	return CalculateHours(cell.Text(checkIn), cell.Text(checkOut), cell.Text(breakStart), cell.Text(breakEnd))
}

// BreakMinutesBetween is BreakMinutes over stored "HH:MM" strings.
func BreakMinutesBetween(breakStart, breakEnd string) int {
	return BreakMinutes(cell.Text(breakStart), cell.Text(breakEnd))
}

// FormatHours renders hours with two decimals, e.g. "7.50".
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}
