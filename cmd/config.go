package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage voltrack configuration file values.",
	Long: `Create, edit, display, and delete the voltrack configuration file.

The configuration stores application-wide values:
- remote.enabled / remote.url / remote.api_key / remote.timeout
- storage.db
- import.scan_rows / import.backup_sheet / import.backup_min_matches / import.sync_after_import
- import.columns.<field>.synonyms / exclusions
- google.credentials_file
- logging.level / logging.file`,
	Example: `
  # Create default config in $HOME/.voltrack.yaml
  voltrack config create

  # Show active config and source file
  voltrack config show

  # Open active config in editor (creates example if missing)
  voltrack config edit

  # Delete active config file
  voltrack config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
