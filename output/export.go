package output

import (
	"voltrack/internal/timeutil"
	"voltrack/volunteer"
)

const (
	// BackupSheetName is the sheet restore looks for in an exported workbook.
	BackupSheetName  = "Volunteer Hours"
	SummarySheetName = "Summary"
)

// ExportHeaders label the hours sheet. Restore and backup detection match
// them case-insensitively, so they must not change.
var ExportHeaders = []string{
	"Name", "Phone", "Email", "Address", "Suburb", "Emergency Contact",
	"Date", "Check In", "Check Out", "Hours Worked",
}

var SummaryHeaders = []string{
	"Name", "Phone", "Email", "Address", "Suburb", "Emergency Contact",
	"Total Sessions", "Total Hours",
}

// HoursRow is one line of the hours sheet.
type HoursRow struct {
	Name             string
	Phone            string
	Email            string
	Address          string
	Suburb           string
	EmergencyContact string
	Date             string
	CheckIn          string
	CheckOut         string
	HoursWorked      float64
}

func (r HoursRow) Values() []any {
	return []any{
		r.Name, r.Phone, r.Email, r.Address, r.Suburb, r.EmergencyContact,
		r.Date, r.CheckIn, r.CheckOut, r.HoursWorked,
	}
}

// BuildHoursRows flattens volunteers into hours rows, sorted by date per
// volunteer. A volunteer without entries still gets one row with zero hours.
func BuildHoursRows(volunteers []volunteer.Volunteer) []HoursRow {
	rows := make([]HoursRow, 0, len(volunteers))
	for _, v := range volunteers {
		base := HoursRow{
			Name:             v.Name,
			Phone:            orNotAvailable(v.Phone),
			Email:            orNotAvailable(v.Email),
			Address:          orNotAvailable(v.Address),
			Suburb:           orNotAvailable(v.Suburb),
			EmergencyContact: orNotAvailable(v.EmergencyContact),
		}
		if len(v.Hours) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, entry := range v.SortedHours() {
			row := base
			row.Date = entry.Date
			row.CheckIn = entry.CheckIn
			row.CheckOut = entry.CheckOut
			row.HoursWorked = entry.Hours()
			rows = append(rows, row)
		}
	}
	return rows
}

// VolunteerSummary is one line of the summary sheet.
type VolunteerSummary struct {
	Name             string
	Phone            string
	Email            string
	Address          string
	Suburb           string
	EmergencyContact string
	Sessions         int
	TotalHours       float64
}

func (s VolunteerSummary) Values() []any {
	return []any{
		s.Name, s.Phone, s.Email, s.Address, s.Suburb, s.EmergencyContact,
		s.Sessions, timeutil.FormatHours(s.TotalHours),
	}
}

func BuildVolunteerSummaries(volunteers []volunteer.Volunteer) []VolunteerSummary {
	out := make([]VolunteerSummary, 0, len(volunteers))
	for _, v := range volunteers {
		out = append(out, VolunteerSummary{
			Name:             v.Name,
			Phone:            orNotAvailable(v.Phone),
			Email:            orNotAvailable(v.Email),
			Address:          orNotAvailable(v.Address),
			Suburb:           orNotAvailable(v.Suburb),
			EmergencyContact: orNotAvailable(v.EmergencyContact),
			Sessions:         len(v.Hours),
			TotalHours:       roundHours(v.TotalHours()),
		})
	}
	return out
}

func orNotAvailable(value string) string {
	if value == "" {
		return volunteer.NotAvailable
	}
	return value
}
