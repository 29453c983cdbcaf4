package timeutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"voltrack/internal/cell"
)

const DateLayout = "2006-01-02"

var (
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// Layouts accepted by the generic date parse. Slash-separated day/month
// forms are deliberately absent so they fall through to the day-first rule.
var genericDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate returns the canonical YYYY-MM-DD form of a raw cell.
// Numeric cells of at least 1 are spreadsheet serial dates.
func NormalizeDate(value cell.Value) (string, bool) {
	switch value.Kind() {
	case cell.KindText:
		text, _ := value.Text()
		return normalizeDateText(text)
	case cell.KindTime:
		instant, _ := value.Time()
		return instant.Format(DateLayout), true
	case cell.KindNumber:
		number, _ := value.Number()
		if number < 1 {
			return "", false
		}
		instant, err := excelize.ExcelDateToTime(number, false)
		if err != nil {
			return "", false
		}
		return instant.Format(DateLayout), true
	default:
		return "", false
	}
}

// NormalizeDateString is NormalizeDate for plain text input.
func NormalizeDateString(raw string) (string, bool) {
	return NormalizeDate(cell.Text(raw))
}

func normalizeDateText(raw string) (string, bool) {
	text := strings.TrimPrefix(strings.TrimSpace(raw), "'")
	if text == "" {
		return "", false
	}
	if isoDatePattern.MatchString(text) {
		return text, true
	}

	for _, layout := range genericDateLayouts {
		if parsed, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return parsed.Local().Format(DateLayout), true
		}
	}

	match := dayFirstDatePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Day() != day || int(date.Month()) != month {
		return "", false
	}
	return date.Format(DateLayout), true
}

// ParseDate parses a canonical YYYY-MM-DD date in the local zone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
}
