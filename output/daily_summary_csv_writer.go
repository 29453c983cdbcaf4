package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

func writeDailySummariesCSV(path string, summaries []DailySummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(dailySummaryHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, summary := range summaries {
		if err := writer.Write(summary.record()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
