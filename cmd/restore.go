package cmd

import (
	"github.com/spf13/cobra"

	"voltrack/importer"
)

var (
	restoreInputs   []string
	restoreFormat   string
	restoreSyncMode string
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore volunteers and hours from a backup export",
	Long: `Read a workbook written by "voltrack export" and add its volunteers and sessions.

Volunteers are matched by name; sessions already recorded for the same date and times are skipped,
so restoring the same backup twice adds nothing.`,
	Example: `
  # Restore a backup workbook
  voltrack restore -i ./volunteer-hours.xlsx

  # Restore the CSV variant of the backup
  voltrack restore -i ./volunteer-hours.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, importer.ModeRestore, restoreInputs, restoreFormat, restoreSyncMode)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringArrayVarP(&restoreInputs, "input", "i", nil, "Backup file path (repeatable)")
	restoreCmd.Flags().StringVarP(&restoreFormat, "format", "f", "", "Input format: csv|excel|gsheet (optional, inferred when omitted)")
	restoreCmd.Flags().StringVar(&restoreSyncMode, "sync", "auto", "Push restored volunteers and hours to the remote: auto|on|off")

	_ = restoreCmd.MarkFlagRequired("input")
}
