package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const dailySummarySheetName = "Daily Summary"

func writeDailySummariesExcel(path string, summaries []DailySummary) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), dailySummarySheetName); err != nil {
		return fmt.Errorf("rename daily summary sheet: %w", err)
	}

	for col, header := range dailySummaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(dailySummarySheetName, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, summary := range summaries {
		row := i + 2
		for col, value := range summary.record() {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(dailySummarySheetName, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
