package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltrack/internal/timeutil"
	"voltrack/volunteer"
)

var (
	hoursVolunteerID string
	hoursEntryID     string
	hoursDate        string
	hoursCheckIn     string
	hoursCheckOut    string
	hoursBreakStart  string
	hoursBreakEnd    string
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Log and remove worked sessions.",
	Long: `Record sessions for a volunteer.

Dates accept YYYY-MM-DD or DD/MM/YYYY; times accept HH:MM, 12-hour clock values ("9:30 AM"),
and decimal day fractions. A check-out earlier than the check-in runs past midnight.`,
	Example: `
  # Log a morning session with a half-hour break
  voltrack hours add --volunteer <id> --date 01/03/2026 --in "9:00 AM" --out 13:00 --break-start 11:00 --break-end 11:30

  # Remove a session
  voltrack hours delete --volunteer <id> --id <entry-id>
`,
}

var hoursAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log one session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := buildHoursEntry(hoursDate, hoursCheckIn, hoursCheckOut, hoursBreakStart, hoursBreakEnd)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		saved, err := a.registry.AddHours(hoursVolunteerID, entry)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Session logged: %s %s-%s (%sh), ID: %s\n",
			saved.Date, saved.CheckIn, saved.CheckOut, timeutil.FormatHours(saved.Hours()), saved.ID)

		if a.sync != nil {
			v, _ := a.registry.Volunteer(hoursVolunteerID)
			printSyncReport(a.sync.Push(cmd.Context(), []volunteer.Volunteer{v}, nil))
		}
		return nil
	},
}

var hoursDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove one session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.registry.DeleteHours(hoursVolunteerID, hoursEntryID); err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Session deleted: %s\n", hoursEntryID)

		if a.sync != nil {
			printMirrorWarning(a.sync.DeleteHours(cmd.Context(), hoursVolunteerID, hoursEntryID))
		}
		return nil
	},
}

// buildHoursEntry normalizes user input. Break bounds are optional but must
// come as a pair.
func buildHoursEntry(date, checkIn, checkOut, breakStart, breakEnd string) (volunteer.HoursEntry, error) {
	normalizedDate, ok := timeutil.NormalizeDateString(date)
	if !ok {
		return volunteer.HoursEntry{}, fmt.Errorf("%w: unreadable date %q", volunteer.ErrInvalidHours, date)
	}
	in, ok := timeutil.NormalizeTimeString(checkIn)
	if !ok {
		return volunteer.HoursEntry{}, fmt.Errorf("%w: unreadable check-in %q", volunteer.ErrInvalidHours, checkIn)
	}
	out, ok := timeutil.NormalizeTimeString(checkOut)
	if !ok {
		return volunteer.HoursEntry{}, fmt.Errorf("%w: unreadable check-out %q", volunteer.ErrInvalidHours, checkOut)
	}

	entry := volunteer.HoursEntry{Date: normalizedDate, CheckIn: in, CheckOut: out}
	if breakStart == "" && breakEnd == "" {
		return entry, nil
	}
	bs, okStart := timeutil.NormalizeTimeString(breakStart)
	be, okEnd := timeutil.NormalizeTimeString(breakEnd)
	if !okStart || !okEnd {
		return volunteer.HoursEntry{}, fmt.Errorf("%w: break needs readable start and end", volunteer.ErrInvalidHours)
	}
	entry.BreakStart = bs
	entry.BreakEnd = be
	return entry, nil
}

func init() {
	rootCmd.AddCommand(hoursCmd)
	hoursCmd.AddCommand(hoursAddCmd, hoursDeleteCmd)

	for _, cmd := range []*cobra.Command{hoursAddCmd, hoursDeleteCmd} {
		cmd.Flags().StringVar(&hoursVolunteerID, "volunteer", "", "Volunteer ID")
		_ = cmd.MarkFlagRequired("volunteer")
	}

	hoursAddCmd.Flags().StringVar(&hoursDate, "date", "", "Session date")
	hoursAddCmd.Flags().StringVar(&hoursCheckIn, "in", "", "Check-in time")
	hoursAddCmd.Flags().StringVar(&hoursCheckOut, "out", "", "Check-out time")
	hoursAddCmd.Flags().StringVar(&hoursBreakStart, "break-start", "", "Break start time (optional)")
	hoursAddCmd.Flags().StringVar(&hoursBreakEnd, "break-end", "", "Break end time (optional)")
	_ = hoursAddCmd.MarkFlagRequired("date")
	_ = hoursAddCmd.MarkFlagRequired("in")
	_ = hoursAddCmd.MarkFlagRequired("out")

	hoursDeleteCmd.Flags().StringVar(&hoursEntryID, "id", "", "Session ID")
	_ = hoursDeleteCmd.MarkFlagRequired("id")
}
