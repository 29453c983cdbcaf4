package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"voltrack/internal/timeutil"
	"voltrack/volunteer"
)

// CSVWriter writes the hours sheet only; summaries need the Excel format.
type CSVWriter struct{}

func (w *CSVWriter) Extension() string { return "csv" }

func (w *CSVWriter) Write(path string, volunteers []volunteer.Volunteer) error {
	return writeFile(path, func(out io.Writer) error {
		return w.Encode(out, volunteers)
	})
}

func (w *CSVWriter) Encode(out io.Writer, volunteers []volunteer.Volunteer) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write(ExportHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range BuildHoursRows(volunteers) {
		record := []string{
			row.Name,
			row.Phone,
			row.Email,
			row.Address,
			row.Suburb,
			row.EmergencyContact,
			row.Date,
			row.CheckIn,
			row.CheckOut,
			timeutil.FormatHours(row.HoursWorked),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
