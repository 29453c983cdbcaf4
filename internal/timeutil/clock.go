package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"voltrack/internal/cell"
)

const minutesPerDay = 24 * 60

var meridiemPattern = regexp.MustCompile(`(?i)\s*(AM|PM)\s*`)

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// ParseClock reads a time of day out of a raw cell. Priority: colon text
// (with optional AM/PM), timestamps, day fractions, decimal hours, then
// numeric text. Anything else is reported as invalid.
func ParseClock(value cell.Value) (Clock, bool) {
	switch value.Kind() {
	case cell.KindText:
		text, _ := value.Text()
		return parseClockText(text)
	case cell.KindTime:
		instant, _ := value.Time()
		return ClockOf(instant), true
	case cell.KindNumber:
		number, _ := value.Number()
		return clockFromNumber(number)
	default:
		return Clock{}, false
	}
}

// NormalizeTime returns the canonical "HH:MM" form of a raw cell.
func NormalizeTime(value cell.Value) (string, bool) {
	clock, ok := ParseClock(value)
	if !ok {
		return "", false
	}
	return clock.String(), true
}

// NormalizeTimeString is NormalizeTime for plain text input.
func NormalizeTimeString(raw string) (string, bool) {
	return NormalizeTime(cell.Text(raw))
}

func parseClockText(raw string) (Clock, bool) {
	text := strings.TrimPrefix(strings.TrimSpace(raw), "'")
	if text == "" {
		return Clock{}, false
	}

	// ISO datetimes carry both 'T' and ':'; the timestamp reading wins.
	if strings.Contains(text, "T") {
		if instant, ok := parseTimestamp(text); ok {
			return ClockOf(instant.Local()), true
		}
	}

	if strings.Contains(text, ":") {
		return parseColonClock(text)
	}

	if strings.Contains(text, "T") {
		return Clock{}, false
	}

	if number, err := strconv.ParseFloat(text, 64); err == nil {
		return clockFromNumber(number)
	}
	return Clock{}, false
}

func parseColonClock(text string) (Clock, bool) {
	upper := strings.ToUpper(text)
	isPM := strings.Contains(upper, "PM")
	isAM := strings.Contains(upper, "AM")
	cleaned := strings.TrimSpace(meridiemPattern.ReplaceAllString(upper, ""))

	parts := strings.Split(cleaned, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, false
	}
	minute := 0
	if len(parts) > 1 {
		if parsed, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minute = parsed
		}
	}

	if isPM && hour != 12 {
		hour += 12
	}
	if isAM && hour == 12 {
		hour = 0
	}
	return validClock(hour, minute)
}

func clockFromNumber(value float64) (Clock, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Clock{}, false
	}
	switch {
	case value >= 0 && value < 1:
		total := int(math.Round(value * minutesPerDay))
		return validClock(total/60, total%60)
	case value >= 1 && value <= 24:
		hour := int(math.Floor(value))
		minute := int(math.Round((value - float64(hour)) * 60))
		if minute == 60 {
			hour++
			minute = 0
		}
		return validClock(hour, minute)
	default:
		return Clock{}, false
	}
}

func validClock(hour, minute int) (Clock, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(text string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
