package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the local database holds.",
	Example: `
  voltrack status
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		volunteers, hours, shifts, err := a.store.Counts()
		if err != nil {
			return err
		}
		fmt.Printf("Database: %s\n", resolveDBPath(dbPath, a.cfg.Storage.DB))
		fmt.Printf("Volunteers: %d, Hours entries: %d, Shifts: %d\n", volunteers, hours, shifts)
		if a.sync != nil {
			fmt.Printf("Remote sync: enabled (%s)\n", a.cfg.Remote.URL)
		} else {
			fmt.Println("Remote sync: disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
