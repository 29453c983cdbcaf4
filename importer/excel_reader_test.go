package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"voltrack/internal/cell"
	"voltrack/internal/timeutil"
)

func writeRosterWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	file := excelize.NewFile()
	t.Cleanup(func() { _ = file.Close() })

	require.NoError(t, file.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Code", "Date", "Check In"}))
	require.NoError(t, file.SetCellStr("Sheet1", "A2", "Ann Lee"))
	require.NoError(t, file.SetCellStr("Sheet1", "B2", "42"))
	require.NoError(t, file.SetCellValue("Sheet1", "C2", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	dateStyle, err := file.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, file.SetCellStyle("Sheet1", "C2", "C2", dateStyle))
	require.NoError(t, file.SetCellFloat("Sheet1", "D2", 0.375, -1, 64))

	_, err = file.NewSheet("Summary")
	require.NoError(t, err)
	require.NoError(t, file.SetCellStr("Summary", "A1", "Total"))
	return file
}

func assertRosterSheet(t *testing.T, wb *Workbook) {
	t.Helper()

	require.Len(t, wb.Sheets, 2)
	assert.Equal(t, "Sheet1", wb.Sheets[0].Name)
	assert.Equal(t, "Summary", wb.Sheets[1].Name)

	rows := wb.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "code", "date", "check in"}, wb.Sheets[0].Header())

	name, ok := rows[1][0].Text()
	require.True(t, ok)
	assert.Equal(t, "Ann Lee", name)

	assert.Equal(t, cell.KindText, rows[1][1].Kind(), "numeric-looking strings stay text")
	assert.Equal(t, "42", rows[1][1].String())

	require.Equal(t, cell.KindTime, rows[1][2].Kind(), "date-formatted serials read as timestamps")
	date, ok := timeutil.NormalizeDate(rows[1][2])
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", date)

	require.Equal(t, cell.KindNumber, rows[1][3].Kind())
	clock, ok := timeutil.NormalizeTime(rows[1][3])
	require.True(t, ok)
	assert.Equal(t, "09:00", clock)
}

func TestExcelReaderReadsEverySheet(t *testing.T) {
	t.Parallel()

	file := writeRosterWorkbook(t)
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, file.SaveAs(path))

	wb, err := (&ExcelReader{}).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, wb.Source)
	assertRosterSheet(t, wb)
}

func TestExcelReaderDecodesUpload(t *testing.T) {
	t.Parallel()

	file := writeRosterWorkbook(t)
	buffer, err := file.WriteToBuffer()
	require.NoError(t, err)

	wb, err := (&ExcelReader{}).Decode("upload.xlsx", buffer)
	require.NoError(t, err)
	assertRosterSheet(t, wb)
}

func TestExcelReaderRejectsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := (&ExcelReader{}).Read(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestExcelReaderReadsFormattedTimestamps(t *testing.T) {
	t.Parallel()

	file := excelize.NewFile()
	t.Cleanup(func() { _ = file.Close() })

	clockFormat := "hh:mm"
	dateTime, err := file.NewStyle(&excelize.Style{NumFmt: 22})
	require.NoError(t, err)
	customClock, err := file.NewStyle(&excelize.Style{CustomNumFmt: &clockFormat})
	require.NoError(t, err)

	require.NoError(t, file.SetCellFloat("Sheet1", "A1", 46082.375, -1, 64))
	require.NoError(t, file.SetCellStyle("Sheet1", "A1", "A1", dateTime))
	require.NoError(t, file.SetCellFloat("Sheet1", "B1", 46082+12.5/24, -1, 64))
	require.NoError(t, file.SetCellStyle("Sheet1", "B1", "B1", customClock))
	require.NoError(t, file.SetCellFloat("Sheet1", "C1", 0.75, -1, 64))
	require.NoError(t, file.SetCellStyle("Sheet1", "C1", "C1", customClock))
	require.NoError(t, file.SetCellFloat("Sheet1", "D1", 46082.375, -1, 64))

	buffer, err := file.WriteToBuffer()
	require.NoError(t, err)
	wb, err := (&ExcelReader{}).Decode("stamps.xlsx", buffer)
	require.NoError(t, err)

	row := wb.Sheets[0].Rows[0]
	require.Len(t, row, 4)

	require.Equal(t, cell.KindTime, row[0].Kind())
	clock, ok := timeutil.NormalizeTime(row[0])
	require.True(t, ok)
	assert.Equal(t, "09:00", clock)
	date, ok := timeutil.NormalizeDate(row[0])
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", date)

	require.Equal(t, cell.KindTime, row[1].Kind())
	clock, ok = timeutil.NormalizeTime(row[1])
	require.True(t, ok)
	assert.Equal(t, "12:30", clock)

	assert.Equal(t, cell.KindNumber, row[2].Kind(), "day fractions stay numeric")
	clock, ok = timeutil.NormalizeTime(row[2])
	require.True(t, ok)
	assert.Equal(t, "18:00", clock)

	assert.Equal(t, cell.KindNumber, row[3].Kind(), "unformatted serials stay numeric")
}

func TestIsDateTimeFormatCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{code: "yyyy-mm-dd", want: true},
		{code: "h:mm AM/PM", want: true},
		{code: "[$-409]d-mmm-yy;@", want: true},
		{code: "0.00", want: false},
		{code: "#,##0.00 \"hrs\"", want: false},
		{code: "[Red]0.0", want: false},
		{code: "General", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isDateTimeFormatCode(tt.code), tt.code)
	}
}
