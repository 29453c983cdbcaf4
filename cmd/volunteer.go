package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltrack/internal/timeutil"
	"voltrack/volunteer"
)

var (
	volunteerFields volunteer.Fields
	volunteerID     string
)

var volunteerCmd = &cobra.Command{
	Use:   "volunteer",
	Short: "Manage volunteers in the local database.",
	Long: `Add, list, show, edit, and delete volunteers.

Contact fields left empty are stored as "N/A". When remote sync is enabled, every change is
mirrored to the shared sheet; a failed mirror is reported as a warning and the local change is kept.`,
	Example: `
  # Add a volunteer
  voltrack volunteer add --name "Ann Lee" --phone "0400 111 222"

  # List volunteers with their hour totals
  voltrack volunteer list

  # Show one volunteer with every session
  voltrack volunteer show --id <id>
`,
}

var volunteerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a volunteer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.registry.AddVolunteer(volunteerFields)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Volunteer added: %s (%s)\n", v.Name, v.ID)

		if a.sync != nil {
			report := a.sync.Push(cmd.Context(), []volunteer.Volunteer{v}, nil)
			for _, failure := range report.Failed {
				printMirrorWarning(failure)
			}
		}
		return nil
	},
}

var volunteerEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Replace the contact details of a volunteer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.registry.UpdateVolunteer(volunteerID, volunteerFields)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Volunteer updated: %s (%s)\n", v.Name, v.ID)

		if a.sync != nil {
			report := a.sync.Push(cmd.Context(), []volunteer.Volunteer{v}, nil)
			for _, failure := range report.Failed {
				printMirrorWarning(failure)
			}
		}
		return nil
	},
}

var volunteerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List volunteers with sessions and total hours.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		volunteers := a.registry.Volunteers()
		fmt.Printf("%-36s  %-28s  %-16s  %8s  %8s\n", "ID", "NAME", "PHONE", "SESSIONS", "HOURS")
		for _, v := range volunteers {
			fmt.Printf("%-36s  %-28s  %-16s  %8d  %8s\n", v.ID, v.Name, v.Phone, len(v.Hours), timeutil.FormatHours(v.TotalHours()))
		}
		fmt.Printf("Volunteers: %d\n", len(volunteers))
		return nil
	},
}

var volunteerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one volunteer with every session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.store.GetVolunteer(volunteerID)
		if err != nil {
			return err
		}

		fmt.Printf("id: %s\n", v.ID)
		fmt.Printf("name: %s\n", v.Name)
		fmt.Printf("phone: %s\n", v.Phone)
		fmt.Printf("email: %s\n", v.Email)
		fmt.Printf("address: %s\n", v.Address)
		fmt.Printf("suburb: %s\n", v.Suburb)
		fmt.Printf("emergency_contact: %s\n", v.EmergencyContact)
		fmt.Printf("sessions: %d\n", len(v.Hours))
		for _, entry := range v.SortedHours() {
			breakText := ""
			if minutes := entry.BreakMinutes(); minutes > 0 {
				breakText = fmt.Sprintf(" (break %s-%s, %d min)", entry.BreakStart, entry.BreakEnd, minutes)
			}
			fmt.Printf("  %s  %s  %s-%s  %sh%s\n", entry.ID, entry.Date, entry.CheckIn, entry.CheckOut, timeutil.FormatHours(entry.Hours()), breakText)
		}
		fmt.Printf("total_hours: %s\n", timeutil.FormatHours(v.TotalHours()))
		return nil
	},
}

var volunteerDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a volunteer and all of their sessions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.registry.DeleteVolunteer(volunteerID); err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Volunteer deleted: %s\n", volunteerID)

		if a.sync != nil {
			printMirrorWarning(a.sync.DeleteVolunteer(cmd.Context(), volunteerID))
		}
		return nil
	},
}

func addVolunteerFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&volunteerFields.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&volunteerFields.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&volunteerFields.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&volunteerFields.Address, "address", "", "Street address")
	cmd.Flags().StringVar(&volunteerFields.Suburb, "suburb", "", "Suburb or city")
	cmd.Flags().StringVar(&volunteerFields.EmergencyContact, "emergency-contact", "", "Emergency contact")
	_ = cmd.MarkFlagRequired("name")
}

func init() {
	rootCmd.AddCommand(volunteerCmd)
	volunteerCmd.AddCommand(volunteerAddCmd, volunteerEditCmd, volunteerListCmd, volunteerShowCmd, volunteerDeleteCmd)

	addVolunteerFieldFlags(volunteerAddCmd)
	addVolunteerFieldFlags(volunteerEditCmd)

	for _, cmd := range []*cobra.Command{volunteerEditCmd, volunteerShowCmd, volunteerDeleteCmd} {
		cmd.Flags().StringVar(&volunteerID, "id", "", "Volunteer ID")
		_ = cmd.MarkFlagRequired("id")
	}
}
