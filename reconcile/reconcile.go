// Package reconcile decides whether an incoming roster row updates an
// existing volunteer or describes a new one.
package reconcile

import (
	"fmt"
	"strings"

	"voltrack/volunteer"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionMerged    Action = "merged"
	ActionUnchanged Action = "unchanged"
)

// Candidate is a row extracted from a roster, before any cleanup.
type Candidate = volunteer.Fields

type Outcome struct {
	Volunteer volunteer.Volunteer
	Action    Action
	// Filled lists the fields a merge copied into the existing record.
	Filled []string
}

// CleanName collapses a name repeated back to back, e.g. "Tom Peacock Tom
// Peacock" becomes "Tom Peacock". Needs at least four words.
func CleanName(name string) string {
	trimmed := strings.TrimSpace(name)
	words := strings.Fields(trimmed)
	if len(words) < 4 {
		return trimmed
	}
	half := len(words) / 2
	first := strings.Join(words[:half], " ")
	second := strings.Join(words[half:], " ")
	if strings.EqualFold(first, second) {
		return first
	}
	return trimmed
}

// ScrubEmergencyContact drops an emergency contact that repeats the
// volunteer's own name (any case) or phone (exact text).
func ScrubEmergencyContact(c Candidate) Candidate {
	contact := strings.TrimSpace(c.EmergencyContact)
	if contact == "" {
		return c
	}
	if strings.EqualFold(contact, strings.TrimSpace(c.Name)) || contact == c.Phone {
		c.EmergencyContact = ""
	}
	return c
}

// Normalize applies name cleanup and emergency-contact scrubbing.
func Normalize(c Candidate) Candidate {
	c.Name = CleanName(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.Suburb = strings.TrimSpace(c.Suburb)
	c.EmergencyContact = strings.TrimSpace(c.EmergencyContact)
	return ScrubEmergencyContact(c)
}

// DifferentPerson reports whether a same-named record belongs to someone
// else: both sides carry phone and email and both values differ.
func DifferentPerson(existing volunteer.Volunteer, c Candidate) bool {
	if volunteer.IsMissing(existing.Phone) || volunteer.IsMissing(existing.Email) {
		return false
	}
	if c.Phone == "" || c.Email == "" {
		return false
	}
	return existing.Phone != c.Phone && existing.Email != c.Email
}

// Merge fills gaps of existing from c. Populated fields are never overwritten.
func Merge(existing volunteer.Volunteer, c Candidate) (volunteer.Fields, []string) {
	merged := existing.Fields()
	filled := make([]string, 0, 5)

	fill := func(label string, target *string, incoming string) {
		if incoming == "" || !volunteer.IsMissing(*target) {
			return
		}
		*target = incoming
		filled = append(filled, label)
	}
	fill("phone", &merged.Phone, c.Phone)
	fill("email", &merged.Email, c.Email)
	fill("address", &merged.Address, c.Address)
	fill("suburb", &merged.Suburb, c.Suburb)
	fill("emergencyContact", &merged.EmergencyContact, c.EmergencyContact)

	return merged, filled
}

// Apply reconciles one candidate against the registry. The registry is
// touched at most once, after the decision is complete.
func Apply(registry *volunteer.Registry, in Candidate) (Outcome, error) {
	c := Normalize(in)
	if c.Name == "" {
		return Outcome{}, volunteer.ErrNameRequired
	}

	// Only the first namesake is considered; if that record belongs to
	// someone else the row becomes a new volunteer.
	existing, found := registry.FindVolunteerByName(c.Name)

	if !found || DifferentPerson(existing, c) {
		created, err := registry.AddVolunteer(c)
		if err != nil {
			return Outcome{}, fmt.Errorf("create volunteer %q: %w", c.Name, err)
		}
		return Outcome{Volunteer: created, Action: ActionCreated}, nil
	}

	merged, filled := Merge(existing, c)
	if len(filled) == 0 {
		return Outcome{Volunteer: existing, Action: ActionUnchanged}, nil
	}
	updated, err := registry.UpdateVolunteer(existing.ID, merged)
	if err != nil {
		return Outcome{}, fmt.Errorf("merge into volunteer %q: %w", existing.Name, err)
	}
	return Outcome{Volunteer: updated, Action: ActionMerged, Filled: filled}, nil
}
