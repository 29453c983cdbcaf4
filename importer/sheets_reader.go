package importer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"voltrack/internal/cell"
)

const sheetsSourcePrefix = "gsheet:"

var spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// SheetsReader reads every tab of a Google spreadsheet. Sources are either
// "gsheet:<spreadsheet id>" or a docs.google.com spreadsheet URL.
type SheetsReader struct {
	CredentialsFile string

	// HTTPClient and Endpoint override transport and API root; tests only.
	HTTPClient *http.Client
	Endpoint   string
}

func isSheetsSource(source string) bool {
	trimmed := strings.TrimSpace(source)
	return strings.HasPrefix(trimmed, sheetsSourcePrefix) || strings.Contains(trimmed, "docs.google.com/spreadsheets/")
}

// SpreadsheetID extracts the spreadsheet id from a gsheet source.
func SpreadsheetID(source string) (string, error) {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, sheetsSourcePrefix) {
		id := strings.TrimSpace(strings.TrimPrefix(trimmed, sheetsSourcePrefix))
		if id == "" {
			return "", fmt.Errorf("empty spreadsheet id in %q", source)
		}
		return id, nil
	}
	match := spreadsheetURLPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return "", fmt.Errorf("cannot find spreadsheet id in %q", source)
	}
	return match[1], nil
}

func (r *SheetsReader) Read(ctx context.Context, source string) (*Workbook, error) {
	spreadsheetID, err := SpreadsheetID(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	service, err := r.service(ctx)
	if err != nil {
		return nil, err
	}

	meta, err := service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(meta.Sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet %s has no sheets", ErrMalformedInput, spreadsheetID)
	}

	workbook := &Workbook{Source: source, Sheets: make([]Sheet, 0, len(meta.Sheets))}
	for _, tab := range meta.Sheets {
		if tab.Properties == nil {
			continue
		}
		sheet, err := r.readTab(ctx, service, spreadsheetID, tab.Properties.Title)
		if err != nil {
			return nil, err
		}
		workbook.Sheets = append(workbook.Sheets, sheet)
	}
	return workbook, nil
}

func (r *SheetsReader) readTab(ctx context.Context, service *sheets.Service, spreadsheetID, title string) (Sheet, error) {
	raw, err := service.Spreadsheets.Values.Get(spreadsheetID, title).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return Sheet{}, fmt.Errorf("get values of %s: %w", title, err)
	}
	formatted, err := service.Spreadsheets.Values.Get(spreadsheetID, title).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return Sheet{}, fmt.Errorf("get formatted values of %s: %w", title, err)
	}

	sheet := Sheet{Name: title, Rows: make([][]cell.Value, len(raw.Values))}
	for rowIndex, row := range raw.Values {
		values := make([]cell.Value, len(row))
		for col, value := range row {
			parsed := cell.Parse(value)
			if number, ok := parsed.Number(); ok {
				parsed = cell.NumberWithDisplay(number, formattedAt(formatted.Values, rowIndex, col))
			}
			values[col] = parsed
		}
		sheet.Rows[rowIndex] = values
	}
	return sheet, nil
}

func (r *SheetsReader) service(ctx context.Context) (*sheets.Service, error) {
	opts := make([]option.ClientOption, 0, 2)
	switch {
	case r.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(r.HTTPClient))
	case strings.TrimSpace(r.CredentialsFile) != "":
		data, err := os.ReadFile(r.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials %s: %w", r.CredentialsFile, err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse google credentials: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(jwtConfig.Client(ctx)))
	default:
		return nil, fmt.Errorf("google sheets import needs a credentials file (google.credentials_file)")
	}
	if r.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.Endpoint))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func formattedAt(rows [][]interface{}, rowIndex, col int) string {
	if rowIndex >= len(rows) || col >= len(rows[rowIndex]) {
		return ""
	}
	return fmt.Sprint(rows[rowIndex][col])
}
