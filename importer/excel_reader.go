package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"voltrack/internal/cell"
)

// ExcelReader reads every sheet of an xlsx workbook. Numeric cells keep
// their raw value (day fractions, serial dates) next to the displayed text.
type ExcelReader struct{}

func (r *ExcelReader) Read(_ context.Context, path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open excel file %s: %v", ErrMalformedInput, path, err)
	}
	defer file.Close()

	return readExcel(file, path)
}

func (r *ExcelReader) Decode(name string, input io.Reader) (*Workbook, error) {
	file, err := excelize.OpenReader(input)
	if err != nil {
		return nil, fmt.Errorf("%w: open excel upload %s: %v", ErrMalformedInput, name, err)
	}
	defer file.Close()

	return readExcel(file, name)
}

func readExcel(file *excelize.File, source string) (*Workbook, error) {
	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: excel file has no sheets: %s", ErrMalformedInput, source)
	}

	workbook := &Workbook{Source: source, Sheets: make([]Sheet, 0, len(names))}
	for _, name := range names {
		sheet, err := readExcelSheet(file, name)
		if err != nil {
			return nil, err
		}
		workbook.Sheets = append(workbook.Sheets, sheet)
	}
	return workbook, nil
}

func readExcelSheet(file *excelize.File, name string) (Sheet, error) {
	formatted, err := file.GetRows(name)
	if err != nil {
		return Sheet{}, fmt.Errorf("read rows from sheet %s: %w", name, err)
	}
	raw, err := file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("read raw rows from sheet %s: %w", name, err)
	}

	sheet := Sheet{Name: name, Rows: make([][]cell.Value, len(formatted))}
	for rowIndex, row := range formatted {
		var rawRow []string
		if rowIndex < len(raw) {
			rawRow = raw[rowIndex]
		}
		values := make([]cell.Value, len(row))
		for col, display := range row {
			rawValue := display
			if col < len(rawRow) {
				rawValue = rawRow[col]
			}
			values[col] = excelCell(file, name, col+1, rowIndex+1, rawValue, display)
		}
		sheet.Rows[rowIndex] = values
	}
	return sheet, nil
}

func excelCell(file *excelize.File, sheet string, col, row int, raw, display string) cell.Value {
	if strings.TrimSpace(raw) == "" {
		return cell.Text(display)
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return cell.Text(display)
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return cell.Text(display)
	}
	cellType, err := file.GetCellType(sheet, axis)
	if err == nil && (cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString) {
		return cell.Text(display)
	}
	// Full serials under a date or time format are timestamps; day fractions
	// stay numeric.
	if number >= 1 && hasDateTimeFormat(file, sheet, axis) {
		if instant, err := excelize.ExcelDateToTime(number, false); err == nil {
			return cell.TimeWithDisplay(instant, display)
		}
	}
	return cell.NumberWithDisplay(number, display)
}

// Built-in number format IDs that render a date or a time of day.
var dateTimeNumFmts = map[int]struct{}{
	14: {}, 15: {}, 16: {}, 17: {}, 18: {}, 19: {}, 20: {}, 21: {}, 22: {},
	27: {}, 28: {}, 29: {}, 30: {}, 31: {}, 32: {}, 33: {}, 34: {}, 35: {}, 36: {},
	45: {}, 46: {}, 47: {},
	50: {}, 51: {}, 52: {}, 53: {}, 54: {}, 55: {}, 56: {}, 57: {}, 58: {},
}

func hasDateTimeFormat(file *excelize.File, sheet, axis string) bool {
	styleID, err := file.GetCellStyle(sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil && isDateTimeFormatCode(*style.CustomNumFmt) {
		return true
	}
	_, ok := dateTimeNumFmts[style.NumFmt]
	return ok
}

// isDateTimeFormatCode looks for date or time tokens outside quoted
// literals and bracketed sections such as [Red] or [$-409].
func isDateTimeFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '\\':
			i++
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}
