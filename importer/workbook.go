package importer

import (
	"strings"

	"voltrack/internal/cell"
)

type Sheet struct {
	Name string
	Rows [][]cell.Value
}

// Workbook is the reader-independent view of a spreadsheet source.
type Workbook struct {
	Source string
	Sheets []Sheet
}

// Sheet returns the sheet with exactly the given name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	if w == nil {
		return nil, false
	}
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

func (w *Workbook) First() (*Sheet, bool) {
	if w == nil || len(w.Sheets) == 0 {
		return nil, false
	}
	return &w.Sheets[0], true
}

// Header returns the normalized texts of the first row.
func (s *Sheet) Header() []string {
	if s == nil || len(s.Rows) == 0 {
		return nil
	}
	headers := cell.Strings(s.Rows[0])
	for i, header := range headers {
		headers[i] = normalizeHeader(header)
	}
	return headers
}

// headerIndex finds a column by exact normalized header text.
func headerIndex(headers []string, label string) (int, bool) {
	wanted := normalizeHeader(label)
	for i, header := range headers {
		if header == wanted {
			return i, true
		}
	}
	return 0, false
}

func cellText(row []cell.Value, columns ColumnMap, field Field) string {
	column, ok := columns.Column(field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.At(row, column).String())
}
