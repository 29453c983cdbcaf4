package volunteer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voltrack/internal/timeutil"
)

var (
	ErrVolunteerNotFound = errors.New("volunteer not found")
	ErrHoursNotFound     = errors.New("hours entry not found")
	ErrShiftNotFound     = errors.New("shift not found")
	ErrNameRequired      = errors.New("volunteer name is required")
	ErrAlreadyApplied    = errors.New("volunteer already applied for this shift")
	ErrInvalidHours      = errors.New("hours entry needs date, check-in and check-out")
	ErrInvalidShift      = errors.New("invalid shift")
)

// Registry owns the working set of volunteers and shifts. It is not safe
// for concurrent use; callers serialize mutations.
type Registry struct {
	volunteers []*Volunteer
	shifts     []*Shift
	newID      func() string
	now        func() time.Time
}

type Option func(*Registry)

func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(r *Registry) {
		if fn != nil {
			r.now = fn
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replace swaps the whole working set, e.g. after loading from a cache.
func (r *Registry) Replace(volunteers []Volunteer, shifts []Shift) {
	r.volunteers = make([]*Volunteer, 0, len(volunteers))
	for _, v := range volunteers {
		copied := v.clone()
		r.volunteers = append(r.volunteers, &copied)
	}
	r.shifts = make([]*Shift, 0, len(shifts))
	for _, s := range shifts {
		copied := s.clone()
		r.shifts = append(r.shifts, &copied)
	}
}

func (r *Registry) Volunteers() []Volunteer {
	out := make([]Volunteer, 0, len(r.volunteers))
	for _, v := range r.volunteers {
		out = append(out, v.clone())
	}
	return out
}

func (r *Registry) Shifts() []Shift {
	out := make([]Shift, 0, len(r.shifts))
	for _, s := range r.shifts {
		out = append(out, s.clone())
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.volunteers)
}

func (r *Registry) Volunteer(id string) (Volunteer, bool) {
	v := r.volunteerByID(id)
	if v == nil {
		return Volunteer{}, false
	}
	return v.clone(), true
}

// FindVolunteer returns the first volunteer matching pred.
func (r *Registry) FindVolunteer(pred func(Volunteer) bool) (Volunteer, bool) {
	for _, v := range r.volunteers {
		if pred(*v) {
			return v.clone(), true
		}
	}
	return Volunteer{}, false
}

// FindVolunteerByName matches names case-insensitively.
func (r *Registry) FindVolunteerByName(name string) (Volunteer, bool) {
	wanted := strings.TrimSpace(name)
	return r.FindVolunteer(func(v Volunteer) bool {
		return strings.EqualFold(strings.TrimSpace(v.Name), wanted)
	})
}

// AddVolunteer trims every field and defaults blank contact fields to N/A.
func (r *Registry) AddVolunteer(fields Fields) (Volunteer, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return Volunteer{}, ErrNameRequired
	}
	v := &Volunteer{ID: r.newID()}
	applyFields(v, fields)
	r.volunteers = append(r.volunteers, v)
	return v.clone(), nil
}

// UpdateVolunteer overwrites every editable field.
func (r *Registry) UpdateVolunteer(id string, fields Fields) (Volunteer, error) {
	v := r.volunteerByID(id)
	if v == nil {
		return Volunteer{}, fmt.Errorf("%w: %s", ErrVolunteerNotFound, id)
	}
	if strings.TrimSpace(fields.Name) == "" {
		return Volunteer{}, ErrNameRequired
	}
	applyFields(v, fields)
	return v.clone(), nil
}

// DeleteVolunteer removes the volunteer together with its hours.
func (r *Registry) DeleteVolunteer(id string) error {
	for i, v := range r.volunteers {
		if v.ID == id {
			r.volunteers = append(r.volunteers[:i], r.volunteers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrVolunteerNotFound, id)
}

// AddHours appends an entry, assigning an ID when the entry has none.
func (r *Registry) AddHours(volunteerID string, entry HoursEntry) (HoursEntry, error) {
	v := r.volunteerByID(volunteerID)
	if v == nil {
		return HoursEntry{}, fmt.Errorf("%w: %s", ErrVolunteerNotFound, volunteerID)
	}
	entry.Date = strings.TrimSpace(entry.Date)
	entry.CheckIn = strings.TrimSpace(entry.CheckIn)
	entry.CheckOut = strings.TrimSpace(entry.CheckOut)
	entry.BreakStart = strings.TrimSpace(entry.BreakStart)
	entry.BreakEnd = strings.TrimSpace(entry.BreakEnd)
	if entry.Date == "" || entry.CheckIn == "" || entry.CheckOut == "" {
		return HoursEntry{}, ErrInvalidHours
	}
	if entry.ID == "" {
		entry.ID = r.newID()
	}
	v.Hours = append(v.Hours, entry)
	return entry, nil
}

func (r *Registry) DeleteHours(volunteerID, entryID string) error {
	v := r.volunteerByID(volunteerID)
	if v == nil {
		return fmt.Errorf("%w: %s", ErrVolunteerNotFound, volunteerID)
	}
	for i, entry := range v.Hours {
		if entry.ID == entryID {
			v.Hours = append(v.Hours[:i], v.Hours[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrHoursNotFound, entryID)
}

type ShiftInput struct {
	Date             string
	StartTime        string
	EndTime          string
	VolunteersNeeded int
	Description      string
	BreakStart       string
	BreakEnd         string
}

// CreateShift normalizes the date and times of in before storing it.
func (r *Registry) CreateShift(in ShiftInput) (Shift, error) {
	date, ok := timeutil.NormalizeDateString(in.Date)
	if !ok {
		return Shift{}, fmt.Errorf("%w: unreadable date %q", ErrInvalidShift, in.Date)
	}
	start, ok := timeutil.NormalizeTimeString(in.StartTime)
	if !ok {
		return Shift{}, fmt.Errorf("%w: unreadable start time %q", ErrInvalidShift, in.StartTime)
	}
	end, ok := timeutil.NormalizeTimeString(in.EndTime)
	if !ok {
		return Shift{}, fmt.Errorf("%w: unreadable end time %q", ErrInvalidShift, in.EndTime)
	}
	needed := in.VolunteersNeeded
	if needed <= 0 {
		needed = DefaultVolunteersNeeded
	}

	shift := &Shift{
		ID:               r.newID(),
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		VolunteersNeeded: needed,
		Description:      strings.TrimSpace(in.Description),
		CreatedAt:        r.now(),
	}
	if bs, ok := timeutil.NormalizeTimeString(in.BreakStart); ok {
		shift.BreakStart = bs
	}
	if be, ok := timeutil.NormalizeTimeString(in.BreakEnd); ok {
		shift.BreakEnd = be
	}
	r.shifts = append(r.shifts, shift)
	return shift.clone(), nil
}

func (r *Registry) Shift(id string) (Shift, bool) {
	s := r.shiftByID(id)
	if s == nil {
		return Shift{}, false
	}
	return s.clone(), true
}

func (r *Registry) DeleteShift(id string) error {
	for i, s := range r.shifts {
		if s.ID == id {
			r.shifts = append(r.shifts[:i], r.shifts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrShiftNotFound, id)
}

// ApplyForShift records the volunteer as applicant, snapshotting the name.
func (r *Registry) ApplyForShift(shiftID, volunteerID, notes string) (Applicant, error) {
	s := r.shiftByID(shiftID)
	if s == nil {
		return Applicant{}, fmt.Errorf("%w: %s", ErrShiftNotFound, shiftID)
	}
	v := r.volunteerByID(volunteerID)
	if v == nil {
		return Applicant{}, fmt.Errorf("%w: %s", ErrVolunteerNotFound, volunteerID)
	}
	if s.HasApplicant(volunteerID) {
		return Applicant{}, ErrAlreadyApplied
	}
	applicant := Applicant{
		VolunteerID:   v.ID,
		VolunteerName: v.Name,
		Notes:         strings.TrimSpace(notes),
		AppliedAt:     r.now(),
	}
	s.Applicants = append(s.Applicants, applicant)
	return applicant, nil
}

func (r *Registry) RemoveApplicant(shiftID, volunteerID string) error {
	s := r.shiftByID(shiftID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrShiftNotFound, shiftID)
	}
	for i, applicant := range s.Applicants {
		if applicant.VolunteerID == volunteerID {
			s.Applicants = append(s.Applicants[:i], s.Applicants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: not an applicant of shift %s", ErrVolunteerNotFound, shiftID)
}

func (r *Registry) MarkReviewed(shiftID string) error {
	s := r.shiftByID(shiftID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrShiftNotFound, shiftID)
	}
	s.Reviewed = true
	return nil
}

func (r *Registry) Now() time.Time {
	return r.now()
}

func (r *Registry) volunteerByID(id string) *Volunteer {
	for _, v := range r.volunteers {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (r *Registry) shiftByID(id string) *Shift {
	for _, s := range r.shifts {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func applyFields(v *Volunteer, fields Fields) {
	v.Name = strings.TrimSpace(fields.Name)
	v.Phone = orNotAvailable(fields.Phone)
	v.Email = orNotAvailable(fields.Email)
	v.Address = orNotAvailable(fields.Address)
	v.Suburb = orNotAvailable(fields.Suburb)
	v.EmergencyContact = orNotAvailable(fields.EmergencyContact)
}
