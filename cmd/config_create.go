package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltrack/config"
)

var (
	createRemoteURL   string
	createAPIKey      string
	createBackupSheet string
	createNoSync      bool
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

The remote URL, API key, database path (--db) and backup sheet name can be seeded into the
template. Giving --remote-url enables remote sync. The seeded file is validated before it is
written. If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.voltrack.yaml
  voltrack config create

  # Create a config that syncs to an Apps Script deployment
  voltrack config create --remote-url https://script.google.com/macros/s/<id>/exec --api-key <key>

  # Keep the database next to the rosters and rename the backup sheet
  voltrack --db ./dropin.db config create --backup-sheet "Hours Log"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveConfigTemplate(config.Template{
			RemoteURL:       createRemoteURL,
			APIKey:          createAPIKey,
			DBPath:          dbPath,
			BackupSheet:     createBackupSheet,
			SyncAfterImport: !createNoSync,
		})
	},
}

func saveConfigTemplate(template config.Template) error {
	if strings.TrimSpace(template.APIKey) != "" && strings.TrimSpace(template.RemoteURL) == "" {
		return fmt.Errorf("--api-key needs --remote-url")
	}

	content := config.RenderYAML(template)
	if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
		return fmt.Errorf("seeded config is invalid: %w", err)
	}

	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFile(configPath, content)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		if strings.TrimSpace(template.RemoteURL) != "" {
			fmt.Printf("Remote sync enabled: %s\n", strings.TrimSpace(template.RemoteURL))
		}
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().StringVar(&createRemoteURL, "remote-url", "", "Apps Script web app URL; enables remote sync")
	configCreateCmd.Flags().StringVar(&createAPIKey, "api-key", "", "API key sent with every remote call")
	configCreateCmd.Flags().StringVar(&createBackupSheet, "backup-sheet", config.DefaultBackupSheet, "Sheet name that marks a workbook as a backup export")
	configCreateCmd.Flags().BoolVar(&createNoSync, "no-sync-after-import", false, "Do not push imported volunteers by default")
}
