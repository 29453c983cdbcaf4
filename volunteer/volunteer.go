package volunteer

import (
	"sort"
	"strings"
	"time"

	"voltrack/internal/timeutil"
)

// NotAvailable marks a contact field with no known value.
const NotAvailable = "N/A"

// DefaultVolunteersNeeded is the shift capacity used when none is given.
const DefaultVolunteersNeeded = 5

// Volunteer is the identity record. Contact fields hold a value or NotAvailable.
type Volunteer struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	Address          string
	Suburb           string
	EmergencyContact string
	Hours            []HoursEntry
}

// HoursEntry is one worked session. Date is YYYY-MM-DD, times are HH:MM.
type HoursEntry struct {
	ID         string
	Date       string
	CheckIn    string
	CheckOut   string
	BreakStart string
	BreakEnd   string
}

type Shift struct {
	ID               string
	Date             string
	StartTime        string
	EndTime          string
	VolunteersNeeded int
	Description      string
	BreakStart       string
	BreakEnd         string
	Applicants       []Applicant
	CreatedAt        time.Time
	Reviewed         bool
}

type Applicant struct {
	VolunteerID   string
	VolunteerName string
	Notes         string
	AppliedAt     time.Time
}

// Fields are the editable attributes of a volunteer.
type Fields struct {
	Name             string
	Phone            string
	Email            string
	Address          string
	Suburb           string
	EmergencyContact string
}

// IsMissing reports whether a stored contact value carries no information.
func IsMissing(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == NotAvailable
}

func orNotAvailable(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return NotAvailable
	}
	return trimmed
}

func (v Volunteer) Fields() Fields {
	return Fields{
		Name:             v.Name,
		Phone:            v.Phone,
		Email:            v.Email,
		Address:          v.Address,
		Suburb:           v.Suburb,
		EmergencyContact: v.EmergencyContact,
	}
}

// HasSession reports whether an entry with the same date and times exists.
func (v Volunteer) HasSession(date, checkIn, checkOut string) bool {
	for _, entry := range v.Hours {
		if entry.Date == date && entry.CheckIn == checkIn && entry.CheckOut == checkOut {
			return true
		}
	}
	return false
}

// SortedHours returns the entries ordered by date, then check-in.
func (v Volunteer) SortedHours() []HoursEntry {
	out := append([]HoursEntry(nil), v.Hours...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CheckIn < out[j].CheckIn
	})
	return out
}

func (e HoursEntry) Hours() float64 {
	return timeutil.HoursBetween(e.CheckIn, e.CheckOut, e.BreakStart, e.BreakEnd)
}

func (e HoursEntry) BreakMinutes() int {
	return timeutil.BreakMinutesBetween(e.BreakStart, e.BreakEnd)
}

func (v Volunteer) TotalHours() float64 {
	total := 0.0
	for _, entry := range v.Hours {
		total += entry.Hours()
	}
	return total
}

func (v Volunteer) TotalBreakMinutes() int {
	total := 0
	for _, entry := range v.Hours {
		total += entry.BreakMinutes()
	}
	return total
}

func (s Shift) HasApplicant(volunteerID string) bool {
	for _, applicant := range s.Applicants {
		if applicant.VolunteerID == volunteerID {
			return true
		}
	}
	return false
}

// OpenSlots is the remaining capacity, never negative.
func (s Shift) OpenSlots() int {
	open := s.VolunteersNeeded - len(s.Applicants)
	if open < 0 {
		return 0
	}
	return open
}

func (v Volunteer) clone() Volunteer {
	v.Hours = append([]HoursEntry(nil), v.Hours...)
	return v
}

func (s Shift) clone() Shift {
	s.Applicants = append([]Applicant(nil), s.Applicants...)
	return s
}
