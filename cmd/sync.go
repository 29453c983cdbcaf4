package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange data with the shared volunteer sheet.",
	Long: `Push local volunteers, hours and shifts to the Apps Script backend, or replace the local
database with the remote data.

Push compares against a fresh remote snapshot first: unchanged volunteers and sessions the remote
already holds are skipped, and sessions overlapping a different remote session are reported and
not sent. Requires remote.enabled and remote.url in the config.`,
	Example: `
  # Send local changes
  voltrack sync push

  # Replace the local database with the remote data
  voltrack sync pull
`,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send local volunteers, hours and shifts to the remote.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSync(); err != nil {
			return err
		}

		report := a.sync.Push(cmd.Context(), a.registry.Volunteers(), a.registry.Shifts())
		printSyncReport(report)
		if len(report.Failed) > 0 {
			return fmt.Errorf("sync push finished with %d failures", len(report.Failed))
		}
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local database with the remote data.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireSync(); err != nil {
			return err
		}

		result, err := a.sync.Pull(cmd.Context(), a.registry)
		if err != nil {
			return err
		}
		if err := a.persist(); err != nil {
			return err
		}
		fmt.Printf("Pull completed. Volunteers: %d, Hours: %d, Shifts: %d, Skipped: %d\n",
			result.Volunteers, result.Hours, result.Shifts, result.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPushCmd, syncPullCmd)
}
