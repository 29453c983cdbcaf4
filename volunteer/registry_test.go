package volunteer

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}
}

func newTestRegistry() *Registry {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	return NewRegistry(WithIDGenerator(sequentialIDs()), WithClock(func() time.Time { return fixed }))
}

func TestAddVolunteerTrimsAndDefaults(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	v, err := reg.AddVolunteer(Fields{Name: "  Jane Doe ", Phone: " 0400 111 222 ", Email: "   "})
	if err != nil {
		t.Fatalf("add volunteer: %v", err)
	}
	if v.ID != "id-1" || v.Name != "Jane Doe" || v.Phone != "0400 111 222" {
		t.Fatalf("unexpected volunteer: %+v", v)
	}
	for label, value := range map[string]string{"email": v.Email, "address": v.Address, "suburb": v.Suburb, "emergency": v.EmergencyContact} {
		if value != NotAvailable {
			t.Fatalf("expected %s to default to N/A, got %q", label, value)
		}
	}
}

func TestAddVolunteerRequiresName(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	if _, err := reg.AddVolunteer(Fields{Name: "  "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestFindVolunteerByNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	if _, err := reg.AddVolunteer(Fields{Name: "Tom Peacock"}); err != nil {
		t.Fatalf("add volunteer: %v", err)
	}
	got, ok := reg.FindVolunteerByName("tom PEACOCK")
	if !ok || got.Name != "Tom Peacock" {
		t.Fatalf("expected match, got %+v (%v)", got, ok)
	}
	if _, ok := reg.FindVolunteerByName("Tom"); ok {
		t.Fatalf("expected no partial-name match")
	}
}

func TestDeleteVolunteerCascadesHours(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	v, _ := reg.AddVolunteer(Fields{Name: "A"})
	if _, err := reg.AddHours(v.ID, HoursEntry{Date: "2026-03-01", CheckIn: "09:00", CheckOut: "12:00"}); err != nil {
		t.Fatalf("add hours: %v", err)
	}
	if err := reg.DeleteVolunteer(v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
	if err := reg.DeleteVolunteer(v.ID); !errors.Is(err, ErrVolunteerNotFound) {
		t.Fatalf("expected ErrVolunteerNotFound, got %v", err)
	}
}

func TestReturnedVolunteerIsACopy(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	v, _ := reg.AddVolunteer(Fields{Name: "A"})
	v.Name = "mutated"
	got, _ := reg.Volunteer(v.ID)
	if got.Name != "A" {
		t.Fatalf("registry state leaked through copy: %q", got.Name)
	}
}

func TestHoursLifecycleAndTotals(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	v, _ := reg.AddVolunteer(Fields{Name: "A"})
	if _, err := reg.AddHours(v.ID, HoursEntry{Date: "2026-03-02", CheckIn: "09:00", CheckOut: "17:00", BreakStart: "12:00", BreakEnd: "12:30"}); err != nil {
		t.Fatalf("add hours: %v", err)
	}
	second, err := reg.AddHours(v.ID, HoursEntry{Date: "2026-03-01", CheckIn: "22:00", CheckOut: "02:00"})
	if err != nil {
		t.Fatalf("add hours: %v", err)
	}
	if _, err := reg.AddHours(v.ID, HoursEntry{Date: "2026-03-01"}); !errors.Is(err, ErrInvalidHours) {
		t.Fatalf("expected ErrInvalidHours, got %v", err)
	}

	got, _ := reg.Volunteer(v.ID)
	if total := got.TotalHours(); total != 11.5 {
		t.Fatalf("expected 11.5 total hours, got %v", total)
	}
	if minutes := got.TotalBreakMinutes(); minutes != 30 {
		t.Fatalf("expected 30 break minutes, got %d", minutes)
	}
	sorted := got.SortedHours()
	if sorted[0].Date != "2026-03-01" {
		t.Fatalf("expected entries sorted by date, got %+v", sorted)
	}
	if !got.HasSession("2026-03-01", "22:00", "02:00") {
		t.Fatalf("expected session lookup to match")
	}

	if err := reg.DeleteHours(v.ID, second.ID); err != nil {
		t.Fatalf("delete hours: %v", err)
	}
	if err := reg.DeleteHours(v.ID, second.ID); !errors.Is(err, ErrHoursNotFound) {
		t.Fatalf("expected ErrHoursNotFound, got %v", err)
	}
}

func TestShiftApplyRejectsDuplicateApplicant(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	v, _ := reg.AddVolunteer(Fields{Name: "Jane"})
	shift, err := reg.CreateShift(ShiftInput{Date: "15/03/2026", StartTime: "9:00 AM", EndTime: "1:00 PM"})
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	if shift.Date != "2026-03-15" || shift.StartTime != "09:00" || shift.EndTime != "13:00" {
		t.Fatalf("expected normalized shift, got %+v", shift)
	}
	if shift.VolunteersNeeded != DefaultVolunteersNeeded {
		t.Fatalf("expected default capacity, got %d", shift.VolunteersNeeded)
	}

	applicant, err := reg.ApplyForShift(shift.ID, v.ID, " first time ")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applicant.VolunteerName != "Jane" || applicant.Notes != "first time" {
		t.Fatalf("unexpected applicant: %+v", applicant)
	}
	if _, err := reg.ApplyForShift(shift.ID, v.ID, ""); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	got, _ := reg.Shift(shift.ID)
	if len(got.Applicants) != 1 || got.OpenSlots() != DefaultVolunteersNeeded-1 {
		t.Fatalf("unexpected applicants: %+v", got.Applicants)
	}

	if err := reg.RemoveApplicant(shift.ID, v.ID); err != nil {
		t.Fatalf("remove applicant: %v", err)
	}
	if err := reg.RemoveApplicant(shift.ID, v.ID); err == nil {
		t.Fatalf("expected error removing missing applicant")
	}
}

func TestCreateShiftRejectsUnreadableTimes(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()
	if _, err := reg.CreateShift(ShiftInput{Date: "2026-03-15", StartTime: "morning", EndTime: "13:00"}); !errors.Is(err, ErrInvalidShift) {
		t.Fatalf("expected ErrInvalidShift, got %v", err)
	}
}
