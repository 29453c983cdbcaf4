package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltrack/config"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by voltrack.

Before deleting, the settings that go with the file are listed (remote URL, stored API key,
database path, column rules) and typing exactly "Y" is required, unless --yes is given.
The database itself is left alone; use "voltrack delete" for that.
If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  voltrack config delete

  # Delete config at a custom path without prompting
  voltrack --configFile ./custom-voltrack.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(viper.ConfigFileUsed(), deletePromptInput, deletePromptOutput, configDeleteYes)
	},
}

func deleteConfigFile(path string, input io.Reader, output io.Writer, assumeYes bool) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no configuration file found")
	}

	if !assumeYes {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading configuration file: %w", err)
		}
		prompt := fmt.Sprintf("Delete configuration file %q?\n", path)
		for _, line := range configLosses(content) {
			prompt += "  - " + line + "\n"
		}
		confirmed, err := confirmDeletePrompt(input, output, prompt+"Type Y to confirm: ")
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("config delete aborted: confirmation was not 'Y'")
		}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Printf("Configuration file successfully deleted: %s\n", path)
	return nil
}

// configLosses lists the settings that only live in the config file. An
// invalid file is still deletable; it is reported as such.
func configLosses(content []byte) []string {
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return []string{"file does not validate; its settings cannot be listed"}
	}

	lines := make([]string, 0, 4)
	if strings.TrimSpace(cfg.Remote.URL) != "" {
		lines = append(lines, "remote URL "+cfg.Remote.URL)
	}
	if strings.TrimSpace(cfg.Remote.APIKey) != "" {
		lines = append(lines, "stored remote API key "+maskSecret(cfg.Remote.APIKey))
	}
	if cfg.Storage.DB != config.DefaultDBPath {
		lines = append(lines, "database path "+cfg.Storage.DB+" (the database file is kept)")
	}
	if len(cfg.Import.Columns) > 0 {
		lines = append(lines, fmt.Sprintf("%d column rule extensions", len(cfg.Import.Columns)))
	}
	if len(lines) == 0 {
		lines = append(lines, "only default settings")
	}
	return lines
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&configDeleteYes, "yes", false, "Delete without the confirmation prompt")
}
