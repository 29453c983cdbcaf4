package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"sort"

	"github.com/spf13/cobra"
	"voltrack/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The remote API key is masked.`,
	Example: `
  # Show active configuration
  voltrack config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", viper.ConfigFileUsed())
		} else {
			fmt.Println("No config file loaded; showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("remote.enabled: %t\n", cfg.Remote.Enabled)
		fmt.Printf("remote.url: %s\n", cfg.Remote.URL)
		fmt.Printf("remote.api_key: %s\n", maskSecret(cfg.Remote.APIKey))
		fmt.Printf("remote.timeout: %s\n", cfg.RemoteTimeout())
		fmt.Printf("storage.db: %s\n", resolveDBPath(dbPath, cfg.Storage.DB))
		fmt.Printf("import.scan_rows: %d\n", cfg.Import.ScanRows)
		fmt.Printf("import.backup_sheet: %s\n", cfg.Import.BackupSheet)
		fmt.Printf("import.backup_min_matches: %d\n", cfg.Import.BackupMinMatches)
		fmt.Printf("import.sync_after_import: %t\n", cfg.Import.SyncAfterImport)

		fields := make([]string, 0, len(cfg.Import.Columns))
		for field := range cfg.Import.Columns {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			column := cfg.Import.Columns[field]
			fmt.Printf("import.columns.%s.synonyms: %v\n", field, column.Synonyms)
			fmt.Printf("import.columns.%s.exclusions: %v\n", field, column.Exclusions)
		}

		fmt.Printf("google.credentials_file: %s\n", cfg.Google.CredentialsFile)
		fmt.Printf("logging.level: %s\n", cfg.Logging.Level)
		fmt.Printf("logging.file: %s\n", cfg.Logging.File)
	},
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
