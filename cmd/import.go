package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voltrack/importer"
	"voltrack/volunteer"
)

var (
	importInputs   []string
	importFormat   string
	importSyncMode string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import volunteer rosters from Excel, CSV, or Google Sheets",
	Long: `Read roster sources, locate the header row, detect columns, and reconcile every row
against the volunteers already in the local database.

Rows matching a known volunteer fill in missing contact details; other rows create new volunteers.
When --format is omitted, the format is inferred from each input (extension or Sheets URL).
A file that looks like a backup export is rejected; use "voltrack restore" for those.`,
	Example: `
  # Import one roster
  voltrack import -i ./roster.xlsx

  # Import several sources, including a Google Sheet
  voltrack import -i ./roster.csv -i https://docs.google.com/spreadsheets/d/<id>

  # Import without pushing changes to the remote
  voltrack import -i ./roster.xlsx --sync off
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, importer.ModeRoster, importInputs, importFormat, importSyncMode)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path or Google Sheets URL (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel|gsheet (optional, inferred when omitted)")
	importCmd.Flags().StringVar(&importSyncMode, "sync", "auto", "Push imported volunteers to the remote: auto|on|off")

	_ = importCmd.MarkFlagRequired("input")
}

func runImport(cmd *cobra.Command, mode importer.Mode, inputs []string, format, syncMode string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	shouldSync, err := resolveSyncMode(syncMode, a.cfg.Import.SyncAfterImport)
	if err != nil {
		return err
	}
	explicit := strings.ToLower(strings.TrimSpace(syncMode))
	if shouldSync && explicit != "" && explicit != "auto" {
		if err := a.requireSync(); err != nil {
			return err
		}
	}

	service := importer.NewService(
		a.registry,
		importer.WithRules(a.cfg.Rules()),
		importer.WithScanRows(a.cfg.Import.ScanRows),
		importer.WithBackupSheet(a.cfg.Import.BackupSheet, a.cfg.Import.BackupMinMatches),
		importer.WithLogger(a.logger),
	)
	options := importer.ReaderOptions{CredentialsFile: a.cfg.Google.CredentialsFile}

	touched, err := importSources(cmd.Context(), service, mode, inputs, format, options)
	if err != nil {
		return err
	}

	if err := a.persist(); err != nil {
		return err
	}

	if shouldSync && a.sync != nil && len(touched) > 0 {
		printSyncReport(a.sync.Push(cmd.Context(), touchedVolunteers(a.registry, touched), nil))
	}
	return nil
}

// importSources runs every input through service and returns the ids of the
// volunteers created or changed, each once, in first-touched order. The
// first failing input stops the run.
func importSources(ctx context.Context, service *importer.Service, mode importer.Mode, inputs []string, format string, options importer.ReaderOptions) ([]string, error) {
	seen := make(map[string]struct{})
	touched := make([]string, 0)
	for _, input := range inputs {
		wb, err := importer.Load(ctx, input, format, options)
		if err != nil {
			return touched, err
		}
		result, err := service.Import(wb, mode)
		if err != nil {
			return touched, fmt.Errorf("%s: %w", input, err)
		}
		printImportResult(input, result)
		for _, id := range result.Touched {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			touched = append(touched, id)
		}
	}
	return touched, nil
}

func touchedVolunteers(registry *volunteer.Registry, ids []string) []volunteer.Volunteer {
	volunteers := make([]volunteer.Volunteer, 0, len(ids))
	for _, id := range ids {
		if v, ok := registry.Volunteer(id); ok {
			volunteers = append(volunteers, v)
		}
	}
	return volunteers
}

func printImportResult(input string, result *importer.Result) {
	switch result.Mode {
	case importer.ModeRestore:
		fmt.Printf("Restore completed. File: %s, Rows read: %d, Rows skipped: %d, Volunteers created: %d, Volunteers reused: %d, Hours added: %d, Hours duplicate: %d, Hours invalid: %d\n",
			input,
			result.RowsRead,
			result.RowsSkipped,
			result.Created,
			result.Reused,
			result.HoursAdded,
			result.HoursDuplicate,
			result.HoursInvalid,
		)
	default:
		fmt.Printf("Import completed. File: %s, Sheet: %s, Header row: %d, Rows read: %d, Rows skipped: %d, Created: %d, Merged: %d, Unchanged: %d\n",
			input,
			result.Sheet,
			result.HeaderRow,
			result.RowsRead,
			result.RowsSkipped,
			result.Created,
			result.Merged,
			result.Unchanged,
		)
	}
}

func resolveSyncMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid sync mode %q (supported: auto|on|off)", mode)
	}
}
