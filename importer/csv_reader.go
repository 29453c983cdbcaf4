package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"voltrack/internal/cell"
)

// CSVReader reads a comma-separated roster as a single text-only sheet.
// UTF-8 and BOM-marked UTF-16 exports are both accepted.
type CSVReader struct{}

func (r *CSVReader) Read(_ context.Context, path string) (*Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open csv file %s: %v", ErrMalformedInput, path, err)
	}
	defer file.Close()

	return r.Decode(path, file)
}

func (r *CSVReader) Decode(name string, input io.Reader) (*Workbook, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(input, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]cell.Value, 0, 128)
	rowNumber := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			return nil, fmt.Errorf("%w: read csv row %d: %v", ErrMalformedInput, rowNumber, err)
		}

		values := make([]cell.Value, len(record))
		for i, value := range record {
			values[i] = cell.Text(value)
		}
		rows = append(rows, values)
	}

	sheetName := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return &Workbook{Source: name, Sheets: []Sheet{{Name: sheetName, Rows: rows}}}, nil
}
