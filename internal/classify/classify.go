package classify

import (
	"strings"

	"voltrack/internal/cell"
	"voltrack/internal/timeutil"
	"voltrack/remote"
	"voltrack/volunteer"
)

// HoursOverlap pairs a local entry with the remote entry whose session it
// intersects on the same day.
type HoursOverlap struct {
	Local    remote.HoursRecord
	Existing remote.HoursRecord
}

// ClassifyVolunteers splits local volunteers into records that must be saved
// and a count of records identical to the remote snapshot.
func ClassifyVolunteers(local, existing []remote.VolunteerRecord) ([]remote.VolunteerRecord, int) {
	byID := make(map[string]remote.VolunteerRecord, len(existing))
	for _, record := range existing {
		byID[strings.TrimSpace(record.ID.String())] = record
	}

	toSave := make([]remote.VolunteerRecord, 0, len(local))
	unchanged := 0
	for _, candidate := range local {
		current, ok := byID[strings.TrimSpace(candidate.ID.String())]
		if ok && VolunteersEquivalent(current, candidate) {
			unchanged++
			continue
		}
		toSave = append(toSave, candidate)
	}
	return toSave, unchanged
}

// VolunteersEquivalent compares identity and contact fields. An empty value
// and "N/A" are the same.
func VolunteersEquivalent(left, right remote.VolunteerRecord) bool {
	return sameValue(left.ID, right.ID) &&
		sameValue(left.Name, right.Name) &&
		sameValue(left.Phone, right.Phone) &&
		sameValue(left.Email, right.Email) &&
		sameValue(left.Address, right.Address) &&
		sameValue(left.Suburb, right.Suburb) &&
		sameValue(left.EmergencyContact, right.EmergencyContact)
}

// ClassifyHours splits local entries by push outcome against the remote
// entries. An entry is a duplicate when the remote already holds the same
// session, either under the same id with equal values or under another id.
// An entry intersecting a different remote session of the same volunteer
// and day is reported as an overlap and not saved. Everything else,
// including changed entries under an existing id, is returned for saving.
func ClassifyHours(local, existing []remote.HoursRecord) ([]remote.HoursRecord, []HoursOverlap, int) {
	toSave := make([]remote.HoursRecord, 0, len(local))
	overlaps := make([]HoursOverlap, 0)
	duplicates := 0

	for _, candidate := range local {
		updatesExisting := false
		isDuplicate := false
		for _, existingEntry := range existing {
			if strings.TrimSpace(existingEntry.ID.String()) != strings.TrimSpace(candidate.ID.String()) {
				continue
			}
			if HoursEquivalent(existingEntry, candidate) {
				isDuplicate = true
			} else {
				updatesExisting = true
			}
			break
		}
		if !isDuplicate && !updatesExisting {
			for _, existingEntry := range existing {
				if sameSession(existingEntry, candidate) {
					isDuplicate = true
					break
				}
			}
		}
		if isDuplicate {
			duplicates++
			continue
		}
		if updatesExisting {
			toSave = append(toSave, candidate)
			continue
		}

		hasOverlap := false
		for _, existingEntry := range existing {
			if SessionsOverlap(candidate, existingEntry) {
				overlaps = append(overlaps, HoursOverlap{Local: candidate, Existing: existingEntry})
				hasOverlap = true
				break
			}
		}
		if hasOverlap {
			continue
		}

		toSave = append(toSave, candidate)
	}

	return toSave, overlaps, duplicates
}

// HoursEquivalent reports whether two entries describe the same session with
// the same breaks, after normalizing dates and times.
func HoursEquivalent(left, right remote.HoursRecord) bool {
	return sameSession(left, right) &&
		normalizedTime(left.BreakStart) == normalizedTime(right.BreakStart) &&
		normalizedTime(left.BreakEnd) == normalizedTime(right.BreakEnd)
}

// SessionsOverlap reports whether two entries of the same volunteer and day
// share worked time. Touching sessions do not overlap; a check-out earlier
// than the check-in runs past midnight.
func SessionsOverlap(left, right remote.HoursRecord) bool {
	if !sameVolunteer(left, right) || normalizedDate(left.Date) != normalizedDate(right.Date) {
		return false
	}
	leftStart, leftEnd, ok := sessionMinutes(left)
	if !ok {
		return false
	}
	rightStart, rightEnd, ok := sessionMinutes(right)
	if !ok {
		return false
	}
	return leftStart < rightEnd && rightStart < leftEnd
}

// FlattenHours lists the snapshot's hours with their owning volunteer id set.
func FlattenHours(volunteers []remote.VolunteerRecord) []remote.HoursRecord {
	out := make([]remote.HoursRecord, 0)
	for _, record := range volunteers {
		for _, entry := range record.Hours {
			entry.VolunteerID = record.ID
			out = append(out, entry)
		}
	}
	return out
}

func sameSession(left, right remote.HoursRecord) bool {
	if !sameVolunteer(left, right) {
		return false
	}
	date := normalizedDate(left.Date)
	return date != "" &&
		date == normalizedDate(right.Date) &&
		normalizedTime(left.CheckIn) == normalizedTime(right.CheckIn) &&
		normalizedTime(left.CheckOut) == normalizedTime(right.CheckOut)
}

func sameVolunteer(left, right remote.HoursRecord) bool {
	return strings.TrimSpace(left.VolunteerID.String()) == strings.TrimSpace(right.VolunteerID.String())
}

func sessionMinutes(record remote.HoursRecord) (int, int, bool) {
	checkIn, ok := timeutil.ParseClock(cell.Text(record.CheckIn.String()))
	if !ok {
		return 0, 0, false
	}
	checkOut, ok := timeutil.ParseClock(cell.Text(record.CheckOut.String()))
	if !ok {
		return 0, 0, false
	}
	start := checkIn.Minutes()
	end := checkOut.Minutes()
	if end < start {
		end += 24 * 60
	}
	return start, end, true
}

func normalizedDate(value remote.FlexibleString) string {
	if date, ok := timeutil.NormalizeDateString(value.String()); ok {
		return date
	}
	return strings.TrimSpace(value.String())
}

func normalizedTime(value remote.FlexibleString) string {
	if clock, ok := timeutil.NormalizeTimeString(value.String()); ok {
		return clock
	}
	return strings.TrimSpace(value.String())
}

func sameValue(left, right remote.FlexibleString) bool {
	return contactValue(left) == contactValue(right)
}

func contactValue(value remote.FlexibleString) string {
	if volunteer.IsMissing(value.String()) {
		return ""
	}
	return strings.TrimSpace(value.String())
}
