package importer

import (
	"strings"

	"voltrack/output"
)

// DefaultBackupMinMatches is how many export headers a sheet must carry to
// count as a backup.
const DefaultBackupMinMatches = 6

// IsBackupFormat reports whether wb carries a sheet named sheetName whose
// first row holds at least minMatches of the export headers.
func IsBackupFormat(wb *Workbook, sheetName string, minMatches int) bool {
	if sheetName == "" {
		sheetName = output.BackupSheetName
	}
	if minMatches <= 0 {
		minMatches = DefaultBackupMinMatches
	}
	sheet, ok := wb.Sheet(sheetName)
	if !ok {
		return false
	}
	return countExportHeaders(sheet.Header()) >= minMatches
}

func countExportHeaders(headers []string) int {
	known := make(map[string]struct{}, len(output.ExportHeaders))
	for _, label := range output.ExportHeaders {
		known[strings.ToLower(label)] = struct{}{}
	}
	matches := 0
	for _, header := range headers {
		if _, ok := known[header]; ok {
			matches++
		}
	}
	return matches
}

// backupColumns locates restore columns by exact header text.
type backupColumns struct {
	name, phone, email, address, suburb, emergency int
	date, checkIn, checkOut                        int
}

func locateBackupColumns(headers []string) (backupColumns, bool) {
	find := func(label string) int {
		if index, ok := headerIndex(headers, label); ok {
			return index
		}
		return -1
	}
	columns := backupColumns{
		name:      find("name"),
		phone:     find("phone"),
		email:     find("email"),
		address:   find("address"),
		suburb:    find("suburb"),
		emergency: find("emergency contact"),
		date:      find("date"),
		checkIn:   find("check in"),
		checkOut:  find("check out"),
	}
	return columns, columns.name >= 0
}
