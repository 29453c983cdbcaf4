// Package review turns ended shifts into logged hours once a manager has
// confirmed who attended.
package review

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"voltrack/internal/cell"
	"voltrack/internal/timeutil"
	"voltrack/volunteer"
)

// Attendee is one confirmed volunteer of a reviewed shift. Blank times fall
// back to the shift's own times.
type Attendee struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	BreakStart  string `json:"breakStart"`
	BreakEnd    string `json:"breakEnd"`
}

// Skipped explains why an attendee produced no hours entry.
type Skipped struct {
	VolunteerID string `json:"volunteerId"`
	Reason      string `json:"reason"`
}

// Logged is an hours entry created for an attendee.
type Logged struct {
	VolunteerID string
	Entry       volunteer.HoursEntry
}

type Result struct {
	ShiftID     string
	HoursLogged int
	Entries     []Logged
	Skipped     []Skipped
}

// End is the instant a shift finishes, in the local zone.
func End(shift volunteer.Shift) (time.Time, bool) {
	date, ok := timeutil.NormalizeDateString(shift.Date)
	if !ok {
		return time.Time{}, false
	}
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return time.Time{}, false
	}
	clock, ok := timeutil.ParseClock(cell.Text(shift.EndTime))
	if !ok {
		return time.Time{}, false
	}
	return timeutil.At(day, clock), true
}

// Pending lists unreviewed shifts that ended before now, earliest first.
// Shifts with an unreadable date or end time are left out.
func Pending(shifts []volunteer.Shift, now time.Time) []volunteer.Shift {
	type pending struct {
		shift volunteer.Shift
		end   time.Time
	}
	out := make([]pending, 0)
	for _, shift := range shifts {
		if shift.Reviewed {
			continue
		}
		end, ok := End(shift)
		if !ok || !end.Before(now) {
			continue
		}
		out = append(out, pending{shift: shift, end: end})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].end.Before(out[j].end)
	})

	shiftsOut := make([]volunteer.Shift, 0, len(out))
	for _, item := range out {
		shiftsOut = append(shiftsOut, item.shift)
	}
	return shiftsOut
}

// Submit logs an hours entry per attendee on the shift's date and marks the
// shift reviewed. Attendees whose volunteer is unknown or whose times cannot
// be read are skipped. The shift is marked reviewed even when nobody attended.
func Submit(reg *volunteer.Registry, shiftID string, attendees []Attendee) (Result, error) {
	shift, ok := reg.Shift(shiftID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", volunteer.ErrShiftNotFound, shiftID)
	}
	date, ok := timeutil.NormalizeDateString(shift.Date)
	if !ok {
		return Result{}, fmt.Errorf("%w: shift %s has unreadable date %q", volunteer.ErrInvalidShift, shiftID, shift.Date)
	}

	result := Result{ShiftID: shiftID}
	for _, attendee := range attendees {
		volunteerID := strings.TrimSpace(attendee.VolunteerID)
		if _, ok := reg.Volunteer(volunteerID); !ok {
			result.Skipped = append(result.Skipped, Skipped{VolunteerID: volunteerID, Reason: "volunteer not found"})
			continue
		}

		checkIn, ok := timeutil.NormalizeTimeString(withDefault(attendee.CheckIn, shift.StartTime))
		if !ok {
			result.Skipped = append(result.Skipped, Skipped{VolunteerID: volunteerID, Reason: "unreadable check-in time"})
			continue
		}
		checkOut, ok := timeutil.NormalizeTimeString(withDefault(attendee.CheckOut, shift.EndTime))
		if !ok {
			result.Skipped = append(result.Skipped, Skipped{VolunteerID: volunteerID, Reason: "unreadable check-out time"})
			continue
		}
		breakStart, _ := timeutil.NormalizeTimeString(withDefault(attendee.BreakStart, shift.BreakStart))
		breakEnd, _ := timeutil.NormalizeTimeString(withDefault(attendee.BreakEnd, shift.BreakEnd))

		entry, err := reg.AddHours(volunteerID, volunteer.HoursEntry{
			Date:       date,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			BreakStart: breakStart,
			BreakEnd:   breakEnd,
		})
		if err != nil {
			return result, fmt.Errorf("log hours for %s: %w", volunteerID, err)
		}
		result.Entries = append(result.Entries, Logged{VolunteerID: volunteerID, Entry: entry})
		result.HoursLogged++
	}

	if err := reg.MarkReviewed(shiftID); err != nil {
		return result, err
	}
	return result, nil
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
