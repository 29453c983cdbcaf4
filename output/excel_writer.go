package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"voltrack/volunteer"
)

// ExcelWriter writes the hours sheet plus a per-volunteer summary sheet.
// The result can be read back by the backup restore.
type ExcelWriter struct{}

func (w *ExcelWriter) Extension() string { return "xlsx" }

func (w *ExcelWriter) Write(path string, volunteers []volunteer.Volunteer) error {
	file, err := buildWorkbook(volunteers)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}

func (w *ExcelWriter) Encode(out io.Writer, volunteers []volunteer.Volunteer) error {
	file, err := buildWorkbook(volunteers)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteTo(out); err != nil {
		return fmt.Errorf("encode excel output: %w", err)
	}
	return nil
}

func buildWorkbook(volunteers []volunteer.Volunteer) (*excelize.File, error) {
	file := excelize.NewFile()

	if err := file.SetSheetName(file.GetSheetName(0), BackupSheetName); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("rename hours sheet: %w", err)
	}
	if _, err := file.NewSheet(SummarySheetName); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	hours := BuildHoursRows(volunteers)
	hoursRows := make([][]any, 0, len(hours))
	for _, row := range hours {
		hoursRows = append(hoursRows, row.Values())
	}
	if err := writeSheet(file, BackupSheetName, ExportHeaders, hoursRows, headerStyle); err != nil {
		_ = file.Close()
		return nil, err
	}

	summaries := BuildVolunteerSummaries(volunteers)
	summaryRows := make([][]any, 0, len(summaries))
	for _, summary := range summaries {
		summaryRows = append(summaryRows, summary.Values())
	}
	if err := writeSheet(file, SummarySheetName, SummaryHeaders, summaryRows, headerStyle); err != nil {
		_ = file.Close()
		return nil, err
	}

	file.SetActiveSheet(0)
	return file, nil
}

func writeSheet(file *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	header := make([]any, len(headers))
	for i, label := range headers {
		header[i] = label
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("set excel header on %s: %w", sheet, err)
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := file.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style excel header on %s: %w", sheet, err)
	}

	for i, values := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("set excel row %s on %s: %w", cell, sheet, err)
		}
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(headers))
	if err := file.SetColWidth(sheet, "A", lastColumn, 18); err != nil {
		return fmt.Errorf("set column width on %s: %w", sheet, err)
	}
	return nil
}
