package web

import (
	"math"
	"sort"
	"strings"
	"time"

	"voltrack/review"
	"voltrack/volunteer"
)

type VolunteerRow struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	Suburb            string  `json:"suburb"`
	Sessions          int     `json:"sessions"`
	TotalHours        float64 `json:"totalHours"`
	TotalBreakMinutes int     `json:"totalBreakMinutes"`
	LastWorked        string  `json:"lastWorked,omitempty"`
}

type EntryRow struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"checkIn"`
	CheckOut     string  `json:"checkOut"`
	BreakStart   string  `json:"breakStart,omitempty"`
	BreakEnd     string  `json:"breakEnd,omitempty"`
	Hours        float64 `json:"hours"`
	BreakMinutes int     `json:"breakMinutes"`
}

type VolunteerDetail struct {
	VolunteerRow
	Address          string     `json:"address"`
	EmergencyContact string     `json:"emergencyContact"`
	Hours            []EntryRow `json:"hours"`
}

type ApplicantRow struct {
	VolunteerID   string    `json:"volunteerId"`
	VolunteerName string    `json:"volunteerName"`
	Notes         string    `json:"notes,omitempty"`
	AppliedAt     time.Time `json:"appliedAt"`
}

type ShiftRow struct {
	ID               string         `json:"id"`
	Date             string         `json:"date"`
	StartTime        string         `json:"startTime"`
	EndTime          string         `json:"endTime"`
	BreakStart       string         `json:"breakStart,omitempty"`
	BreakEnd         string         `json:"breakEnd,omitempty"`
	Description      string         `json:"description,omitempty"`
	VolunteersNeeded int            `json:"volunteersNeeded"`
	OpenSlots        int            `json:"openSlots"`
	Reviewed         bool           `json:"reviewed"`
	Applicants       []ApplicantRow `json:"applicants"`
}

// BuildVolunteerRows lists volunteers by name with their hour totals.
func BuildVolunteerRows(volunteers []volunteer.Volunteer) []VolunteerRow {
	rows := make([]VolunteerRow, 0, len(volunteers))
	for _, v := range volunteers {
		rows = append(rows, volunteerRow(v))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows
}

func BuildVolunteerDetail(v volunteer.Volunteer) VolunteerDetail {
	detail := VolunteerDetail{
		VolunteerRow:     volunteerRow(v),
		Address:          v.Address,
		EmergencyContact: v.EmergencyContact,
		Hours:            make([]EntryRow, 0, len(v.Hours)),
	}
	for _, entry := range v.SortedHours() {
		detail.Hours = append(detail.Hours, EntryRow{
			ID:           entry.ID,
			Date:         entry.Date,
			CheckIn:      entry.CheckIn,
			CheckOut:     entry.CheckOut,
			BreakStart:   entry.BreakStart,
			BreakEnd:     entry.BreakEnd,
			Hours:        roundHours(entry.Hours()),
			BreakMinutes: entry.BreakMinutes(),
		})
	}
	return detail
}

// BuildShiftRows lists shifts by date and start time.
func BuildShiftRows(shifts []volunteer.Shift) []ShiftRow {
	sorted := append([]volunteer.Shift(nil), shifts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	rows := make([]ShiftRow, 0, len(sorted))
	for _, shift := range sorted {
		rows = append(rows, shiftRow(shift))
	}
	return rows
}

// BuildPendingRows lists shifts awaiting review, earliest end first.
func BuildPendingRows(shifts []volunteer.Shift, now time.Time) []ShiftRow {
	pending := review.Pending(shifts, now)
	rows := make([]ShiftRow, 0, len(pending))
	for _, shift := range pending {
		rows = append(rows, shiftRow(shift))
	}
	return rows
}

func volunteerRow(v volunteer.Volunteer) VolunteerRow {
	row := VolunteerRow{
		ID:                v.ID,
		Name:              v.Name,
		Phone:             v.Phone,
		Email:             v.Email,
		Suburb:            v.Suburb,
		Sessions:          len(v.Hours),
		TotalHours:        roundHours(v.TotalHours()),
		TotalBreakMinutes: v.TotalBreakMinutes(),
	}
	if sorted := v.SortedHours(); len(sorted) > 0 {
		row.LastWorked = sorted[len(sorted)-1].Date
	}
	return row
}

func shiftRow(shift volunteer.Shift) ShiftRow {
	row := ShiftRow{
		ID:               shift.ID,
		Date:             shift.Date,
		StartTime:        shift.StartTime,
		EndTime:          shift.EndTime,
		BreakStart:       shift.BreakStart,
		BreakEnd:         shift.BreakEnd,
		Description:      shift.Description,
		VolunteersNeeded: shift.VolunteersNeeded,
		OpenSlots:        shift.OpenSlots(),
		Reviewed:         shift.Reviewed,
		Applicants:       make([]ApplicantRow, 0, len(shift.Applicants)),
	}
	for _, applicant := range shift.Applicants {
		row.Applicants = append(row.Applicants, ApplicantRow{
			VolunteerID:   applicant.VolunteerID,
			VolunteerName: applicant.VolunteerName,
			Notes:         applicant.Notes,
			AppliedAt:     applicant.AppliedAt,
		})
	}
	return row
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}
