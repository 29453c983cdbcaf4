package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"voltrack/output"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export volunteers and hours to CSV/Excel",
	Long: `Export the local database.

Modes:
- backup: one row per session (volunteers without sessions get one empty row), plus a
  per-volunteer summary sheet in Excel. The file can be read back with "voltrack restore".
- daily: per-day aggregates (first check-in, last check-out, worked, break and staffed hours)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Backup workbook
  voltrack export --output ./volunteer-hours.xlsx

  # Backup as CSV
  voltrack export --output ./volunteer-hours.csv

  # Daily summary
  voltrack export --mode daily --output ./daily-summary.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		volunteers := a.registry.Volunteers()

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "backup":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, volunteers); err != nil {
				return err
			}
			fmt.Printf("Export completed. Volunteers: %d, Rows: %d, Mode: backup, Format: %s, File: %s\n",
				len(volunteers), len(output.BuildHoursRows(volunteers)), format, exportOutput)
		case "daily":
			summaries := output.BuildDailySummaries(volunteers)
			if err := output.WriteDailySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Days: %d, Mode: daily, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: backup, daily)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "excel"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "backup", "Export mode: backup|daily")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")

	_ = exportCmd.MarkFlagRequired("output")
}
