package importer

import (
	"errors"
	"fmt"
	"sort"

	"voltrack/internal/cell"
)

// DefaultHeaderScanRows is how many leading rows are considered as header candidates.
const DefaultHeaderScanRows = 15

// ColumnMap maps a field to its 0-based column. Absent fields have no key.
type ColumnMap map[Field]int

func (m ColumnMap) Column(field Field) (int, bool) {
	column, ok := m[field]
	return column, ok
}

func (m ColumnMap) Has(field Field) bool {
	_, ok := m[field]
	return ok
}

// HasName reports whether rows can yield a volunteer name.
func (m ColumnMap) HasName() bool {
	return m.Has(FieldFullName) || m.Has(FieldFirstName)
}

func (m ColumnMap) String() string {
	fields := make([]string, 0, len(m))
	for field, column := range m {
		fields = append(fields, fmt.Sprintf("%s=%d", field, column))
	}
	sort.Strings(fields)
	return fmt.Sprint(fields)
}

// DetectColumns assigns header columns to fields. Each field takes the
// first qualifying column; rules run in RuleSet order for every header.
func DetectColumns(headers []string, rules RuleSet) ColumnMap {
	columns := make(ColumnMap)
	for index, raw := range headers {
		header := normalizeHeader(raw)
		if header == "" {
			continue
		}
		for _, rule := range rules {
			if rule.Claims(header, index, rules, columns) {
				columns[rule.Field] = index
			}
		}
	}
	return columns
}

// Score sums the rule weights of the detected fields.
func (rs RuleSet) Score(columns ColumnMap) int {
	score := 0
	for _, rule := range rs {
		if columns.Has(rule.Field) {
			score += rule.Weight
		}
	}
	return score
}

type HeaderMatch struct {
	Row     int
	Score   int
	Columns ColumnMap
}

// NoHeaderError carries scan diagnostics for ErrNoHeaderFound.
type NoHeaderError struct {
	RowsScanned int
	BestScore   int
}

func (e *NoHeaderError) Error() string {
	return fmt.Sprintf(
		"could not find name columns: scanned first %d rows, best header score %d (expected a \"First Name\", \"Last Name\" or \"Name\" column)",
		e.RowsScanned,
		e.BestScore,
	)
}

func (e *NoHeaderError) Unwrap() error {
	return ErrNoHeaderFound
}

// FindHeaderRow scores the first scanLimit rows and returns the best one.
// Ties keep the earliest row. The winner must carry a full or first name.
func FindHeaderRow(rows [][]cell.Value, scanLimit int, rules RuleSet) (HeaderMatch, error) {
	if scanLimit <= 0 {
		scanLimit = DefaultHeaderScanRows
	}
	limit := min(scanLimit, len(rows))

	best := HeaderMatch{Row: -1}
	for index := 0; index < limit; index++ {
		columns := DetectColumns(cell.Strings(rows[index]), rules)
		score := rules.Score(columns)
		if score > best.Score {
			best = HeaderMatch{Row: index, Score: score, Columns: columns}
		}
	}

	if best.Row < 0 || !best.Columns.HasName() {
		return best, &NoHeaderError{RowsScanned: limit, BestScore: best.Score}
	}
	return best, nil
}

// IsNoHeader reports whether err came from a failed header scan.
func IsNoHeader(err error) (*NoHeaderError, bool) {
	var target *NoHeaderError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
