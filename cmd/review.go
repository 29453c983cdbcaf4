package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voltrack/review"
	"voltrack/volunteer"
)

var (
	reviewRemote        bool
	reviewShiftID       string
	reviewAttendees     []string
	reviewAllApplicants bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Confirm attendance of ended shifts.",
	Long: `List shifts that have ended but were not reviewed yet, and log hours for the volunteers
who attended.

Attendees default to the shift's start, end and break times. Use ID@HH:MM-HH:MM to record
different times for one attendee.`,
	Example: `
  # Shifts awaiting review
  voltrack review list

  # Ask the shared sheet instead of the local database
  voltrack review list --remote

  # Everyone who applied attended
  voltrack review submit --shift <shift-id> --applicants

  # One attendee left early
  voltrack review submit --shift <shift-id> --attendee <id> --attendee <id>@09:00-11:00
`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shifts awaiting review.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if reviewRemote {
			if err := a.requireSync(); err != nil {
				return err
			}
			pending, err := a.sync.PendingReviews(cmd.Context())
			if err != nil {
				return err
			}
			for _, shift := range pending {
				fmt.Printf("%s  %s  %s-%s  applicants: %d  %s\n",
					shift.ID.String(), shift.Date.String(), shift.StartTime.String(), shift.EndTime.String(),
					len(shift.Applicants), shift.Description.String())
			}
			fmt.Printf("Pending reviews: %d\n", len(pending))
			return nil
		}

		pending := review.Pending(a.registry.Shifts(), time.Now())
		for _, shift := range pending {
			fmt.Printf("%s  %s  %s-%s  applicants: %d  %s\n",
				shift.ID, shift.Date, shift.StartTime, shift.EndTime, len(shift.Applicants), shift.Description)
		}
		fmt.Printf("Pending reviews: %d\n", len(pending))
		return nil
	},
}

var reviewSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Log hours for attendees and mark the shift reviewed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		attendees := make([]review.Attendee, 0, len(reviewAttendees))
		if reviewAllApplicants {
			shift, ok := a.registry.Shift(reviewShiftID)
			if !ok {
				return fmt.Errorf("%w: %s", volunteer.ErrShiftNotFound, reviewShiftID)
			}
			for _, applicant := range shift.Applicants {
				attendees = append(attendees, review.Attendee{VolunteerID: applicant.VolunteerID})
			}
		}
		for _, value := range reviewAttendees {
			attendee, err := parseAttendee(value)
			if err != nil {
				return err
			}
			attendees = append(attendees, attendee)
		}

		result, err := review.Submit(a.registry, reviewShiftID, attendees)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}

		fmt.Printf("Review completed. Shift: %s, Hours logged: %d, Skipped: %d\n", result.ShiftID, result.HoursLogged, len(result.Skipped))
		for _, skipped := range result.Skipped {
			fmt.Printf("  skipped %s: %s\n", skipped.VolunteerID, skipped.Reason)
		}

		if a.sync != nil {
			logged, err := a.sync.SubmitReview(cmd.Context(), result)
			if err != nil {
				printMirrorWarning(err)
				return nil
			}
			fmt.Printf("Remote review recorded. Hours logged: %d\n", logged)
		}
		return nil
	},
}

// parseAttendee reads "ID" or "ID@HH:MM-HH:MM".
func parseAttendee(value string) (review.Attendee, error) {
	id, times, hasTimes := strings.Cut(strings.TrimSpace(value), "@")
	id = strings.TrimSpace(id)
	if id == "" {
		return review.Attendee{}, fmt.Errorf("invalid attendee %q: volunteer ID is empty", value)
	}
	attendee := review.Attendee{VolunteerID: id}
	if !hasTimes {
		return attendee, nil
	}

	checkIn, checkOut, ok := strings.Cut(times, "-")
	if !ok || strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return review.Attendee{}, fmt.Errorf("invalid attendee %q (expected ID@HH:MM-HH:MM)", value)
	}
	attendee.CheckIn = strings.TrimSpace(checkIn)
	attendee.CheckOut = strings.TrimSpace(checkOut)
	return attendee, nil
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd, reviewSubmitCmd)

	reviewListCmd.Flags().BoolVar(&reviewRemote, "remote", false, "List pending reviews from the remote instead of the local database")

	reviewSubmitCmd.Flags().StringVar(&reviewShiftID, "shift", "", "Shift ID")
	reviewSubmitCmd.Flags().StringArrayVar(&reviewAttendees, "attendee", nil, "Attendee as ID or ID@HH:MM-HH:MM (repeatable)")
	reviewSubmitCmd.Flags().BoolVar(&reviewAllApplicants, "applicants", false, "Count every applicant of the shift as attended")
	_ = reviewSubmitCmd.MarkFlagRequired("shift")
}
