package syncer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"voltrack/internal/classify"
	"voltrack/internal/timeutil"
	"voltrack/remote"
	"voltrack/volunteer"
)

// Item kinds reported by push.
const (
	KindVolunteer = "volunteer"
	KindHours     = "hours"
	KindShift     = "shift"
)

// SyncFailure is one item the remote did not accept. Local state is kept.
type SyncFailure struct {
	Kind string
	ID   string
	Err  error
}

func (f SyncFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.ID, f.Err)
}

type Report struct {
	Succeeded  []string
	Failed     []SyncFailure
	Unchanged  int
	Duplicates int
	Overlaps   []classify.HoursOverlap
}

// OK reports whether every item reached the remote or needed no write.
func (r Report) OK() bool {
	return len(r.Failed) == 0 && len(r.Overlaps) == 0
}

func (r *Report) succeed(kind, id string) {
	r.Succeeded = append(r.Succeeded, kind+":"+id)
}

func (r *Report) fail(kind, id string, err error) {
	r.Failed = append(r.Failed, SyncFailure{Kind: kind, ID: id, Err: err})
}

type PullResult struct {
	Volunteers int
	Hours      int
	Shifts     int
	Skipped    int
}

type Service struct {
	client remote.Client
	logger *zap.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(client remote.Client, opts ...ServiceOption) *Service {
	s := &Service{client: client, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push mirrors volunteers, their hours and shifts to the remote. The remote
// snapshot is read first so unchanged volunteers and already logged sessions
// are skipped; when it cannot be read everything is sent. Failures are
// collected in the report, never returned.
func (s *Service) Push(ctx context.Context, volunteers []volunteer.Volunteer, shifts []volunteer.Shift) Report {
	var report Report

	snapshot, err := s.client.GetData(ctx)
	if err != nil {
		s.logger.Warn("remote snapshot unavailable, pushing everything", zap.Error(err))
		snapshot = remote.Snapshot{}
	}

	local := make([]remote.VolunteerRecord, 0, len(volunteers))
	localHours := make([]remote.HoursRecord, 0)
	for _, v := range volunteers {
		if strings.TrimSpace(v.ID) == "" || strings.TrimSpace(v.Name) == "" {
			report.fail(KindVolunteer, v.ID, fmt.Errorf("volunteer is missing id or name"))
			s.logger.Warn("skipping volunteer without id or name", zap.String("id", v.ID), zap.String("name", v.Name))
			continue
		}
		record := remote.VolunteerFromModel(v)
		localHours = append(localHours, record.Hours...)
		local = append(local, record)
	}

	toSave, unchanged := classify.ClassifyVolunteers(local, snapshot.Volunteers)
	report.Unchanged += unchanged
	for _, record := range toSave {
		id := record.ID.String()
		if err := s.client.SaveVolunteer(ctx, record); err != nil {
			report.fail(KindVolunteer, id, err)
			s.logger.Warn("volunteer sync failed", zap.String("id", id), zap.Error(err))
			continue
		}
		report.succeed(KindVolunteer, id)
	}

	hoursToSave, overlaps, duplicates := classify.ClassifyHours(localHours, classify.FlattenHours(snapshot.Volunteers))
	report.Duplicates += duplicates
	report.Overlaps = append(report.Overlaps, overlaps...)
	for _, overlap := range overlaps {
		s.logger.Warn("hours entry overlaps a remote session",
			zap.String("id", overlap.Local.ID.String()),
			zap.String("remote_id", overlap.Existing.ID.String()),
			zap.String("date", overlap.Local.Date.String()),
		)
	}
	for _, record := range hoursToSave {
		id := record.ID.String()
		if err := s.client.SaveHours(ctx, record); err != nil {
			report.fail(KindHours, id, err)
			s.logger.Warn("hours sync failed", zap.String("id", id), zap.Error(err))
			continue
		}
		report.succeed(KindHours, id)
	}

	for _, shift := range shifts {
		if err := s.client.SaveShift(ctx, remote.ShiftFromModel(shift)); err != nil {
			report.fail(KindShift, shift.ID, err)
			s.logger.Warn("shift sync failed", zap.String("id", shift.ID), zap.Error(err))
			continue
		}
		report.succeed(KindShift, shift.ID)
	}

	s.logger.Info("push finished",
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("overlaps", len(report.Overlaps)),
	)
	return report
}

// Pull replaces the registry with the remote working set. Review flags of
// shifts already known locally are kept; the remote does not store them.
func (s *Service) Pull(ctx context.Context, reg *volunteer.Registry) (PullResult, error) {
	snapshot, err := s.client.GetData(ctx)
	if err != nil {
		return PullResult{}, fmt.Errorf("fetch remote data: %w", err)
	}

	volunteers, shifts, skipped := FromSnapshot(snapshot)
	for i := range shifts {
		if local, ok := reg.Shift(shifts[i].ID); ok {
			shifts[i].Reviewed = local.Reviewed
		}
	}
	reg.Replace(volunteers, shifts)

	result := PullResult{Volunteers: len(volunteers), Shifts: len(shifts), Skipped: skipped}
	for _, v := range volunteers {
		result.Hours += len(v.Hours)
	}
	s.logger.Info("pull finished",
		zap.Int("volunteers", result.Volunteers),
		zap.Int("hours", result.Hours),
		zap.Int("shifts", result.Shifts),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// FromSnapshot converts remote records into registry values. Dates and times
// are normalized to canonical form; values that cannot be read are kept as
// sent. Volunteers without id or name are skipped and counted.
func FromSnapshot(snapshot remote.Snapshot) ([]volunteer.Volunteer, []volunteer.Shift, int) {
	volunteers := make([]volunteer.Volunteer, 0, len(snapshot.Volunteers))
	skipped := 0
	for _, record := range snapshot.Volunteers {
		id := strings.TrimSpace(record.ID.String())
		name := strings.TrimSpace(record.Name.String())
		if id == "" || name == "" {
			skipped++
			continue
		}
		v := volunteer.Volunteer{
			ID:               id,
			Name:             name,
			Phone:            contactValue(record.Phone),
			Email:            contactValue(record.Email),
			Address:          contactValue(record.Address),
			Suburb:           contactValue(record.Suburb),
			EmergencyContact: contactValue(record.EmergencyContact),
		}
		for _, entry := range record.Hours {
			v.Hours = append(v.Hours, volunteer.HoursEntry{
				ID:         strings.TrimSpace(entry.ID.String()),
				Date:       dateValue(entry.Date),
				CheckIn:    timeValue(entry.CheckIn),
				CheckOut:   timeValue(entry.CheckOut),
				BreakStart: timeValue(entry.BreakStart),
				BreakEnd:   timeValue(entry.BreakEnd),
			})
		}
		volunteers = append(volunteers, v)
	}

	shifts := make([]volunteer.Shift, 0, len(snapshot.Shifts))
	for _, record := range snapshot.Shifts {
		needed := record.VolunteersNeeded
		if needed <= 0 {
			needed = volunteer.DefaultVolunteersNeeded
		}
		shift := volunteer.Shift{
			ID:               strings.TrimSpace(record.ID.String()),
			Date:             dateValue(record.Date),
			StartTime:        timeValue(record.StartTime),
			EndTime:          timeValue(record.EndTime),
			VolunteersNeeded: needed,
			Description:      strings.TrimSpace(record.Description.String()),
			BreakStart:       timeValue(record.BreakStart),
			BreakEnd:         timeValue(record.BreakEnd),
			CreatedAt:        instantValue(record.CreatedAt),
		}
		for _, applicant := range record.Applicants {
			shift.Applicants = append(shift.Applicants, volunteer.Applicant{
				VolunteerID:   strings.TrimSpace(applicant.VolunteerID.String()),
				VolunteerName: strings.TrimSpace(applicant.VolunteerName.String()),
				Notes:         strings.TrimSpace(applicant.Notes.String()),
				AppliedAt:     instantValue(applicant.AppliedAt),
			})
		}
		shifts = append(shifts, shift)
	}

	return volunteers, shifts, skipped
}

func contactValue(value remote.FlexibleString) string {
	trimmed := strings.TrimSpace(value.String())
	if trimmed == "" {
		return volunteer.NotAvailable
	}
	return trimmed
}

func dateValue(value remote.FlexibleString) string {
	if date, ok := timeutil.NormalizeDateString(value.String()); ok {
		return date
	}
	return strings.TrimSpace(value.String())
}

func timeValue(value remote.FlexibleString) string {
	if clock, ok := timeutil.NormalizeTimeString(value.String()); ok {
		return clock
	}
	return strings.TrimSpace(value.String())
}

func instantValue(value remote.FlexibleString) time.Time {
	trimmed := strings.TrimSpace(value.String())
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
