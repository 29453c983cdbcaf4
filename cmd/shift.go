package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltrack/volunteer"
)

var (
	shiftInput       volunteer.ShiftInput
	shiftID          string
	shiftVolunteerID string
	shiftNotes       string
)

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Manage shifts and their applicants.",
	Long: `Create shifts, list them with open slots, and record which volunteers applied.

A shift without --needed asks for 5 volunteers.`,
	Example: `
  # Create a Saturday morning shift
  voltrack shift create --date 2026-03-07 --start 09:00 --end 13:00 --needed 4 --description "Food bank sort"

  # Apply a volunteer
  voltrack shift apply --id <shift-id> --volunteer <volunteer-id> --notes "can drive"

  # List shifts
  voltrack shift list
`,
}

var shiftCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a shift.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		shift, err := a.registry.CreateShift(shiftInput)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Shift created: %s %s-%s, needed: %d, ID: %s\n", shift.Date, shift.StartTime, shift.EndTime, shift.VolunteersNeeded, shift.ID)

		if a.sync != nil {
			report := a.sync.Push(cmd.Context(), nil, []volunteer.Shift{shift})
			for _, failure := range report.Failed {
				printMirrorWarning(failure)
			}
		}
		return nil
	},
}

var shiftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shifts with applicants and open slots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		shifts := a.registry.Shifts()
		for _, shift := range shifts {
			status := "open"
			if shift.Reviewed {
				status = "reviewed"
			}
			fmt.Printf("%s  %s  %s-%s  %d/%d  %-8s  %s\n",
				shift.ID, shift.Date, shift.StartTime, shift.EndTime,
				len(shift.Applicants), shift.VolunteersNeeded, status, shift.Description)
			for _, applicant := range shift.Applicants {
				fmt.Printf("    - %s (%s) %s\n", applicant.VolunteerName, applicant.VolunteerID, applicant.Notes)
			}
		}
		fmt.Printf("Shifts: %d\n", len(shifts))
		return nil
	},
}

var shiftApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Add a volunteer as applicant of a shift.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		applicant, err := a.registry.ApplyForShift(shiftID, shiftVolunteerID, shiftNotes)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Applied %s to shift %s\n", applicant.VolunteerName, shiftID)

		if a.sync != nil {
			printMirrorWarning(a.sync.ApplyForShift(cmd.Context(), shiftID, shiftVolunteerID, applicant.Notes))
		}
		return nil
	},
}

var shiftUnapplyCmd = &cobra.Command{
	Use:   "unapply",
	Short: "Remove a volunteer from the applicants of a shift.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.registry.RemoveApplicant(shiftID, shiftVolunteerID); err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Removed %s from shift %s\n", shiftVolunteerID, shiftID)

		if a.sync != nil {
			printMirrorWarning(a.sync.RemoveApplicant(cmd.Context(), shiftID, shiftVolunteerID))
		}
		return nil
	},
}

var shiftDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a shift.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.registry.DeleteShift(shiftID); err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Shift deleted: %s\n", shiftID)

		if a.sync != nil {
			printMirrorWarning(a.sync.DeleteShift(cmd.Context(), shiftID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shiftCmd)
	shiftCmd.AddCommand(shiftCreateCmd, shiftListCmd, shiftApplyCmd, shiftUnapplyCmd, shiftDeleteCmd)

	shiftCreateCmd.Flags().StringVar(&shiftInput.Date, "date", "", "Shift date")
	shiftCreateCmd.Flags().StringVar(&shiftInput.StartTime, "start", "", "Start time")
	shiftCreateCmd.Flags().StringVar(&shiftInput.EndTime, "end", "", "End time")
	shiftCreateCmd.Flags().IntVar(&shiftInput.VolunteersNeeded, "needed", volunteer.DefaultVolunteersNeeded, "Volunteers needed")
	shiftCreateCmd.Flags().StringVar(&shiftInput.Description, "description", "", "Description")
	shiftCreateCmd.Flags().StringVar(&shiftInput.BreakStart, "break-start", "", "Break start time (optional)")
	shiftCreateCmd.Flags().StringVar(&shiftInput.BreakEnd, "break-end", "", "Break end time (optional)")
	_ = shiftCreateCmd.MarkFlagRequired("date")
	_ = shiftCreateCmd.MarkFlagRequired("start")
	_ = shiftCreateCmd.MarkFlagRequired("end")

	for _, cmd := range []*cobra.Command{shiftApplyCmd, shiftUnapplyCmd, shiftDeleteCmd} {
		cmd.Flags().StringVar(&shiftID, "id", "", "Shift ID")
		_ = cmd.MarkFlagRequired("id")
	}
	for _, cmd := range []*cobra.Command{shiftApplyCmd, shiftUnapplyCmd} {
		cmd.Flags().StringVar(&shiftVolunteerID, "volunteer", "", "Volunteer ID")
		_ = cmd.MarkFlagRequired("volunteer")
	}
	shiftApplyCmd.Flags().StringVar(&shiftNotes, "notes", "", "Applicant notes")
}
