/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"voltrack/config"
)

var (
	cfgFile string
	dbPath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voltrack",
	Short: "Import volunteer rosters, log hours, manage shifts, and sync with the shared sheet.",
	Long: `
**********************************************
*              VOLTRACK                      *
**********************************************

This CLI imports volunteer rosters (Excel, CSV, Google Sheets) into a local SQLite database,
reconciles them against known volunteers, records worked hours and shifts, exports backups,
and mirrors changes to the Apps Script backend of the shared volunteer sheet.

Supported input formats:
- Excel: .xlsx, .xlsm
- CSV: .csv (UTF-8 or UTF-16 with BOM)
- Google Sheets: https://docs.google.com/spreadsheets/d/<id>
`,
	Example: `
  # Create configuration file
  voltrack config create

  # Import a roster
  voltrack import -i ./roster.xlsx

  # Restore a previous backup export
  voltrack restore -i ./volunteer-hours.xlsx

  # Log a session
  voltrack hours add --volunteer <id> --date 2026-03-01 --in 09:00 --out 12:30

  # Review ended shifts
  voltrack review list

  # Export a backup workbook
  voltrack export --output ./volunteer-hours.xlsx

  # Pull the shared sheet into the local database
  voltrack sync pull
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.voltrack.yaml, then ./.voltrack.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to local SQLite database (default: storage.db from config)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".voltrack" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".voltrack")
	}

	// VOLTRACK_REMOTE_API_KEY overrides remote.api_key.
	viper.SetEnvPrefix("voltrack")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: voltrack config create")
	}
}
