package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"voltrack/volunteer"
)

func TestBuildDailySummaries_CalculatesWorkedBreakAndStaffedHours(t *testing.T) {
	volunteers := []volunteer.Volunteer{
		{ID: "a", Name: "Ann", Hours: []volunteer.HoursEntry{
			{Date: "2026-01-05", CheckIn: "08:00", CheckOut: "12:00", BreakStart: "10:00", BreakEnd: "10:30"},
		}},
		{ID: "b", Name: "Bo", Hours: []volunteer.HoursEntry{
			{Date: "2026-01-05", CheckIn: "11:00", CheckOut: "13:00"},
			{Date: "2026-01-05", CheckIn: "14:00", CheckOut: "15:00"},
		}},
	}

	summaries := BuildDailySummaries(volunteers)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	assertTimeEqual(t, localTime(2026, 1, 5, 8, 0), summary.FirstCheckIn, "first check in")
	assertTimeEqual(t, localTime(2026, 1, 5, 15, 0), summary.LastCheckOut, "last check out")
	assertFloatEqual(t, 6.50, summary.WorkedHours, "worked hours")
	assertFloatEqual(t, 0.50, summary.BreakHours, "break hours")
	assertFloatEqual(t, 6.00, summary.StaffedHours, "staffed hours")
	assertFloatEqual(t, 1.00, summary.UnstaffedHours, "unstaffed hours")
	if summary.Volunteers != 2 {
		t.Fatalf("expected 2 volunteers, got %d", summary.Volunteers)
	}
	if summary.Sessions != 3 {
		t.Fatalf("expected 3 sessions, got %d", summary.Sessions)
	}
}

func TestBuildDailySummaries_GroupsByDay(t *testing.T) {
	volunteers := []volunteer.Volunteer{
		{ID: "a", Hours: []volunteer.HoursEntry{
			{Date: "2026-01-08", CheckIn: "10:00", CheckOut: "12:00"},
			{Date: "2026-01-07", CheckIn: "08:00", CheckOut: "09:00"},
		}},
	}

	summaries := BuildDailySummaries(volunteers)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	if summaries[0].Date != "2026-01-07" {
		t.Fatalf("expected first summary date 2026-01-07, got %s", summaries[0].Date)
	}
	if summaries[1].Date != "2026-01-08" {
		t.Fatalf("expected second summary date 2026-01-08, got %s", summaries[1].Date)
	}
}

func TestBuildDailySummaries_OvernightSessionEndsNextDay(t *testing.T) {
	volunteers := []volunteer.Volunteer{
		{ID: "a", Hours: []volunteer.HoursEntry{
			{Date: "2026-01-09", CheckIn: "22:00", CheckOut: "02:00"},
		}},
	}

	summaries := BuildDailySummaries(volunteers)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	assertTimeEqual(t, localTime(2026, 1, 10, 2, 0), summaries[0].LastCheckOut, "last check out")
	assertFloatEqual(t, 4.00, summaries[0].WorkedHours, "worked hours")
	assertFloatEqual(t, 4.00, summaries[0].StaffedHours, "staffed hours")
}

func TestBuildDailySummaries_SkipsUnreadableSessions(t *testing.T) {
	volunteers := []volunteer.Volunteer{
		{ID: "a", Hours: []volunteer.HoursEntry{
			{Date: "someday", CheckIn: "09:00", CheckOut: "10:00"},
			{Date: "2026-01-09", CheckIn: "late", CheckOut: "10:00"},
		}},
	}

	if summaries := BuildDailySummaries(volunteers); len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %+v", summaries)
	}
}

func TestWriteDailySummaries(t *testing.T) {
	summaries := BuildDailySummaries([]volunteer.Volunteer{
		{ID: "a", Hours: []volunteer.HoursEntry{{Date: "2026-01-05", CheckIn: "09:00", CheckOut: "11:30"}}},
	})
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "daily.csv")
	if err := WriteDailySummaries(csvPath, "csv", summaries); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 || records[1][0] != "2026-01-05" || records[1][5] != "2.50" {
		t.Fatalf("unexpected csv records: %v", records)
	}

	excelPath := filepath.Join(dir, "daily.xlsx")
	if err := WriteDailySummaries(excelPath, "excel", summaries); err != nil {
		t.Fatalf("write excel: %v", err)
	}
	workbook, err := excelize.OpenFile(excelPath)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer workbook.Close()
	value, err := workbook.GetCellValue(dailySummarySheetName, "B2")
	if err != nil {
		t.Fatalf("read excel cell: %v", err)
	}
	if value != "09:00" {
		t.Fatalf("expected first check in 09:00, got %q", value)
	}

	if err := WriteDailySummaries(filepath.Join(dir, "daily.pdf"), "pdf", summaries); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func assertFloatEqual(t *testing.T, expected, actual float64, field string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("unexpected %s: expected %.2f, got %.2f", field, expected, actual)
	}
}

func assertTimeEqual(t *testing.T, expected, actual time.Time, field string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Fatalf("unexpected %s: expected %s, got %s", field, expected.Format(time.RFC3339), actual.Format(time.RFC3339))
	}
}
