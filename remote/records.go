package remote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"voltrack/volunteer"
)

// FlexibleString accepts the loosely typed cells the cloud store returns:
// strings, numbers (phones typed into a sheet), booleans or null.
type FlexibleString string

func (s FlexibleString) String() string { return string(s) }

func (s *FlexibleString) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch text {
	case "", "null":
		*s = ""
		return nil
	case "true", "false":
		*s = FlexibleString(text)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = FlexibleString(asString)
		return nil
	}

	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*s = FlexibleString(strconv.FormatFloat(number, 'f', -1, 64))
		return nil
	}

	return fmt.Errorf("unsupported value %s", text)
}

type VolunteerRecord struct {
	ID               FlexibleString `json:"id"`
	Name             FlexibleString `json:"name"`
	Phone            FlexibleString `json:"phone"`
	Email            FlexibleString `json:"email"`
	Address          FlexibleString `json:"address"`
	Suburb           FlexibleString `json:"suburb"`
	EmergencyContact FlexibleString `json:"emergencyContact"`
	Hours            []HoursRecord  `json:"hours,omitempty"`
}

type HoursRecord struct {
	ID          FlexibleString `json:"id"`
	VolunteerID FlexibleString `json:"volunteerId,omitempty"`
	Date        FlexibleString `json:"date"`
	CheckIn     FlexibleString `json:"checkIn"`
	CheckOut    FlexibleString `json:"checkOut"`
	BreakStart  FlexibleString `json:"breakStart"`
	BreakEnd    FlexibleString `json:"breakEnd"`
}

type ApplicantRecord struct {
	VolunteerID   FlexibleString `json:"volunteerId"`
	VolunteerName FlexibleString `json:"volunteerName"`
	Notes         FlexibleString `json:"notes"`
	AppliedAt     FlexibleString `json:"appliedAt"`
}

type ShiftRecord struct {
	ID               FlexibleString    `json:"id"`
	Date             FlexibleString    `json:"date"`
	StartTime        FlexibleString    `json:"startTime"`
	EndTime          FlexibleString    `json:"endTime"`
	VolunteersNeeded int               `json:"volunteersNeeded"`
	Description      FlexibleString    `json:"description"`
	BreakStart       FlexibleString    `json:"breakStart"`
	BreakEnd         FlexibleString    `json:"breakEnd"`
	Applicants       []ApplicantRecord `json:"applicants"`
	CreatedAt        FlexibleString    `json:"createdAt"`
}

// Snapshot is the getData payload.
type Snapshot struct {
	Volunteers  []VolunteerRecord `json:"volunteers"`
	Shifts      []ShiftRecord     `json:"shifts"`
	LastUpdated FlexibleString    `json:"lastUpdated"`
}

type PendingApplicant struct {
	VolunteerID   FlexibleString `json:"volunteerId"`
	VolunteerName FlexibleString `json:"volunteerName"`
	Notes         FlexibleString `json:"notes"`
}

// PendingShift is an ended shift awaiting attendance review. Date is the
// display form; RawDate is the stored cell.
type PendingShift struct {
	ID          FlexibleString     `json:"id"`
	Date        FlexibleString     `json:"date"`
	RawDate     FlexibleString     `json:"rawDate"`
	StartTime   FlexibleString     `json:"startTime"`
	EndTime     FlexibleString     `json:"endTime"`
	BreakStart  FlexibleString     `json:"breakStart"`
	BreakEnd    FlexibleString     `json:"breakEnd"`
	Description FlexibleString     `json:"description"`
	Applicants  []PendingApplicant `json:"applicants"`
}

type Attendee struct {
	VolunteerID string `json:"volunteerId"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	BreakStart  string `json:"breakStart,omitempty"`
	BreakEnd    string `json:"breakEnd,omitempty"`
}

type ShiftReview struct {
	ShiftID   string     `json:"shiftId"`
	Attendees []Attendee `json:"attendees"`
}

// VolunteerFromModel converts a registry volunteer. "N/A" is sent as empty.
func VolunteerFromModel(v volunteer.Volunteer) VolunteerRecord {
	record := VolunteerRecord{
		ID:               FlexibleString(v.ID),
		Name:             FlexibleString(v.Name),
		Phone:            FlexibleString(available(v.Phone)),
		Email:            FlexibleString(available(v.Email)),
		Address:          FlexibleString(available(v.Address)),
		Suburb:           FlexibleString(available(v.Suburb)),
		EmergencyContact: FlexibleString(available(v.EmergencyContact)),
	}
	for _, entry := range v.Hours {
		record.Hours = append(record.Hours, HoursFromModel(v.ID, entry))
	}
	return record
}

func HoursFromModel(volunteerID string, entry volunteer.HoursEntry) HoursRecord {
	return HoursRecord{
		ID:          FlexibleString(entry.ID),
		VolunteerID: FlexibleString(volunteerID),
		Date:        FlexibleString(entry.Date),
		CheckIn:     FlexibleString(entry.CheckIn),
		CheckOut:    FlexibleString(entry.CheckOut),
		BreakStart:  FlexibleString(entry.BreakStart),
		BreakEnd:    FlexibleString(entry.BreakEnd),
	}
}

func ShiftFromModel(shift volunteer.Shift) ShiftRecord {
	record := ShiftRecord{
		ID:               FlexibleString(shift.ID),
		Date:             FlexibleString(shift.Date),
		StartTime:        FlexibleString(shift.StartTime),
		EndTime:          FlexibleString(shift.EndTime),
		VolunteersNeeded: shift.VolunteersNeeded,
		Description:      FlexibleString(shift.Description),
		BreakStart:       FlexibleString(shift.BreakStart),
		BreakEnd:         FlexibleString(shift.BreakEnd),
		Applicants:       make([]ApplicantRecord, 0, len(shift.Applicants)),
		CreatedAt:        FlexibleString(formatInstant(shift.CreatedAt)),
	}
	for _, applicant := range shift.Applicants {
		record.Applicants = append(record.Applicants, ApplicantRecord{
			VolunteerID:   FlexibleString(applicant.VolunteerID),
			VolunteerName: FlexibleString(applicant.VolunteerName),
			Notes:         FlexibleString(applicant.Notes),
			AppliedAt:     FlexibleString(formatInstant(applicant.AppliedAt)),
		})
	}
	return record
}

func available(value string) string {
	if volunteer.IsMissing(value) {
		return ""
	}
	return value
}

func formatInstant(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
