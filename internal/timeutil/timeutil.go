package timeutil

import "time"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func MinutesFromMidnight(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

// ClockOf returns the wall-clock time of day of value.
func ClockOf(value time.Time) Clock {
	minutes := MinutesFromMidnight(value)
	return Clock{Hour: minutes / 60, Minute: minutes % 60}
}

// At places clock on the calendar day of day.
func At(day time.Time, clock Clock) time.Time {
	return StartOfDay(day).Add(time.Duration(clock.Minutes()) * time.Minute)
}
