package syncer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voltrack/remote"
	"voltrack/review"
)

// The calls below mirror a single local change. A failure is logged and
// returned as a warning; the caller keeps its local state.

func (s *Service) DeleteVolunteer(ctx context.Context, id string) error {
	return s.mirror(KindVolunteer, id, "delete", s.client.DeleteVolunteer(ctx, id))
}

func (s *Service) DeleteHours(ctx context.Context, volunteerID, entryID string) error {
	return s.mirror(KindHours, entryID, "delete", s.client.DeleteHours(ctx, volunteerID, entryID))
}

func (s *Service) DeleteShift(ctx context.Context, id string) error {
	return s.mirror(KindShift, id, "delete", s.client.DeleteShift(ctx, id))
}

func (s *Service) ApplyForShift(ctx context.Context, shiftID, volunteerID, notes string) error {
	return s.mirror(KindShift, shiftID, "apply", s.client.ApplyForShift(ctx, shiftID, volunteerID, notes))
}

func (s *Service) RemoveApplicant(ctx context.Context, shiftID, volunteerID string) error {
	return s.mirror(KindShift, shiftID, "unapply", s.client.RemoveApplicant(ctx, shiftID, volunteerID))
}

// PendingReviews lists the shifts the remote considers awaiting review.
func (s *Service) PendingReviews(ctx context.Context) ([]remote.PendingShift, error) {
	pending, err := s.client.GetPendingReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch pending reviews: %w", err)
	}
	return pending, nil
}

// SubmitReview sends the attendance that was logged locally, so the remote
// records the same sessions and marks the shift reviewed.
func (s *Service) SubmitReview(ctx context.Context, result review.Result) (int, error) {
	logged, err := s.client.SubmitShiftReview(ctx, ReviewFromResult(result))
	if err != nil {
		return 0, s.mirror(KindShift, result.ShiftID, "review", err)
	}
	s.logger.Debug("review mirrored", zap.String("shift_id", result.ShiftID), zap.Int("hours_logged", logged))
	return logged, nil
}

func ReviewFromResult(result review.Result) remote.ShiftReview {
	attendees := make([]remote.Attendee, 0, len(result.Entries))
	for _, logged := range result.Entries {
		attendees = append(attendees, remote.Attendee{
			VolunteerID: logged.VolunteerID,
			CheckIn:     logged.Entry.CheckIn,
			CheckOut:    logged.Entry.CheckOut,
			BreakStart:  logged.Entry.BreakStart,
			BreakEnd:    logged.Entry.BreakEnd,
		})
	}
	return remote.ShiftReview{ShiftID: result.ShiftID, Attendees: attendees}
}

func (s *Service) mirror(kind, id, action string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Warn("remote mirror failed",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.String("action", action),
		zap.Error(err),
	)
	return SyncFailure{Kind: kind, ID: id, Err: err}
}
