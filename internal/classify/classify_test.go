package classify

import (
	"testing"

	"voltrack/remote"
)

func baseRemoteHours() remote.HoursRecord {
	return remote.HoursRecord{
		ID:          "h-remote",
		VolunteerID: "v1",
		Date:        "2026-03-01",
		CheckIn:     "'09:00",
		CheckOut:    "12:00",
	}
}

func TestClassifyHours_DuplicateUnderOtherID(t *testing.T) {
	t.Parallel()

	existing := []remote.HoursRecord{baseRemoteHours()}
	local := []remote.HoursRecord{{
		ID:          "h-local",
		VolunteerID: "v1",
		Date:        "01/03/2026",
		CheckIn:     "9:00 AM",
		CheckOut:    "12:00 PM",
	}}

	toSave, overlaps, duplicates := ClassifyHours(local, existing)
	if duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", duplicates)
	}
	if len(overlaps) != 0 {
		t.Fatalf("expected no overlaps, got %d", len(overlaps))
	}
	if len(toSave) != 0 {
		t.Fatalf("expected nothing to save, got %d", len(toSave))
	}
}

func TestClassifyHours_SameIDUnchanged(t *testing.T) {
	t.Parallel()

	existing := []remote.HoursRecord{baseRemoteHours()}
	local := []remote.HoursRecord{baseRemoteHours()}

	toSave, _, duplicates := ClassifyHours(local, existing)
	if duplicates != 1 || len(toSave) != 0 {
		t.Fatalf("expected duplicate, got toSave=%d duplicates=%d", len(toSave), duplicates)
	}
}

func TestClassifyHours_SameIDChangedIsSaved(t *testing.T) {
	t.Parallel()

	existing := []remote.HoursRecord{baseRemoteHours()}
	changed := baseRemoteHours()
	changed.BreakStart = "10:30"
	changed.BreakEnd = "10:45"

	toSave, overlaps, duplicates := ClassifyHours([]remote.HoursRecord{changed}, existing)
	if len(toSave) != 1 {
		t.Fatalf("expected update to be saved, got %d", len(toSave))
	}
	if len(overlaps) != 0 || duplicates != 0 {
		t.Fatalf("expected no overlaps/duplicates, got %d/%d", len(overlaps), duplicates)
	}
}

func TestClassifyHours_Overlap(t *testing.T) {
	t.Parallel()

	existing := []remote.HoursRecord{baseRemoteHours()}
	local := []remote.HoursRecord{{
		ID:          "h-local",
		VolunteerID: "v1",
		Date:        "2026-03-01",
		CheckIn:     "11:30",
		CheckOut:    "14:00",
	}}

	toSave, overlaps, duplicates := ClassifyHours(local, existing)
	if len(overlaps) != 1 {
		t.Fatalf("expected 1 overlap, got %d", len(overlaps))
	}
	if overlaps[0].Existing.ID != "h-remote" {
		t.Fatalf("unexpected overlap pairing: %+v", overlaps[0])
	}
	if len(toSave) != 0 || duplicates != 0 {
		t.Fatalf("expected nothing else, got toSave=%d duplicates=%d", len(toSave), duplicates)
	}
}

func TestClassifyHours_New(t *testing.T) {
	t.Parallel()

	existing := []remote.HoursRecord{baseRemoteHours()}
	local := []remote.HoursRecord{
		{ID: "a", VolunteerID: "v1", Date: "2026-03-01", CheckIn: "12:00", CheckOut: "13:00"},
		{ID: "b", VolunteerID: "v2", Date: "2026-03-01", CheckIn: "09:00", CheckOut: "12:00"},
		{ID: "c", VolunteerID: "v1", Date: "2026-03-02", CheckIn: "09:00", CheckOut: "12:00"},
	}

	toSave, overlaps, duplicates := ClassifyHours(local, existing)
	if len(toSave) != 3 {
		t.Fatalf("expected 3 entries to save, got %d", len(toSave))
	}
	if len(overlaps) != 0 || duplicates != 0 {
		t.Fatalf("expected no overlaps/duplicates, got %d/%d", len(overlaps), duplicates)
	}
}

func TestSessionsOverlap_Overnight(t *testing.T) {
	t.Parallel()

	night := remote.HoursRecord{VolunteerID: "v1", Date: "2026-03-01", CheckIn: "22:00", CheckOut: "02:00"}
	late := remote.HoursRecord{VolunteerID: "v1", Date: "2026-03-01", CheckIn: "23:00", CheckOut: "23:30"}
	early := remote.HoursRecord{VolunteerID: "v1", Date: "2026-03-01", CheckIn: "08:00", CheckOut: "09:00"}

	if !SessionsOverlap(night, late) {
		t.Fatalf("expected overnight session to overlap late session")
	}
	if SessionsOverlap(night, early) {
		t.Fatalf("did not expect overlap with morning session")
	}
}

func TestClassifyVolunteers(t *testing.T) {
	t.Parallel()

	existing := []remote.VolunteerRecord{
		{ID: "v1", Name: "Ann Lee", Phone: "0400", Email: "N/A"},
		{ID: "v2", Name: "Bo", Phone: "0411"},
	}
	local := []remote.VolunteerRecord{
		{ID: "v1", Name: "Ann Lee", Phone: "0400"},
		{ID: "v2", Name: "Bo", Phone: "0499"},
		{ID: "v3", Name: "Cy"},
	}

	toSave, unchanged := ClassifyVolunteers(local, existing)
	if unchanged != 1 {
		t.Fatalf("expected 1 unchanged, got %d", unchanged)
	}
	if len(toSave) != 2 || toSave[0].ID != "v2" || toSave[1].ID != "v3" {
		t.Fatalf("unexpected save list: %+v", toSave)
	}
}

func TestFlattenHoursSetsVolunteerID(t *testing.T) {
	t.Parallel()

	hours := FlattenHours([]remote.VolunteerRecord{
		{ID: "v1", Hours: []remote.HoursRecord{{ID: "h1"}, {ID: "h2"}}},
		{ID: "v2"},
	})
	if len(hours) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(hours))
	}
	for _, entry := range hours {
		if entry.VolunteerID != "v1" {
			t.Fatalf("expected volunteer id v1, got %q", entry.VolunteerID)
		}
	}
}
