package importer

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voltrack/internal/cell"
	"voltrack/internal/timeutil"
	"voltrack/output"
	"voltrack/reconcile"
	"voltrack/volunteer"
)

type Mode string

const (
	ModeRoster  Mode = "roster"
	ModeRestore Mode = "restore"
)

type Result struct {
	Mode        Mode
	Sheet       string
	HeaderRow   int
	HeaderScore int
	Columns     ColumnMap

	RowsRead    int
	RowsSkipped int
	Created     int
	Merged      int
	Unchanged   int
	Reused      int

	HoursAdded     int
	HoursDuplicate int
	HoursInvalid   int

	// Touched holds IDs of volunteers created or changed, in row order.
	Touched []string
}

func (r *Result) touch(id string) {
	for _, existing := range r.Touched {
		if existing == id {
			return
		}
	}
	r.Touched = append(r.Touched, id)
}

// Service ingests workbooks into a volunteer registry. Imports against the
// same registry must not run concurrently.
type Service struct {
	registry         *volunteer.Registry
	rules            RuleSet
	scanRows         int
	backupSheet      string
	backupMinMatches int
	logger           *zap.Logger
}

type ServiceOption func(*Service)

func WithRules(rules RuleSet) ServiceOption {
	return func(s *Service) {
		if len(rules) > 0 {
			s.rules = rules
		}
	}
}

func WithScanRows(rows int) ServiceOption {
	return func(s *Service) {
		if rows > 0 {
			s.scanRows = rows
		}
	}
}

func WithBackupSheet(name string, minMatches int) ServiceOption {
	return func(s *Service) {
		if strings.TrimSpace(name) != "" {
			s.backupSheet = name
		}
		if minMatches > 0 {
			s.backupMinMatches = minMatches
		}
	}
}

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(registry *volunteer.Registry, opts ...ServiceOption) *Service {
	s := &Service{
		registry:         registry,
		rules:            DefaultRules(),
		scanRows:         DefaultHeaderScanRows,
		backupSheet:      output.BackupSheetName,
		backupMinMatches: DefaultBackupMinMatches,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Import(wb *Workbook, mode Mode) (*Result, error) {
	switch mode {
	case ModeRoster, "":
		return s.ImportRoster(wb)
	case ModeRestore:
		return s.RestoreBackup(wb)
	default:
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}
}

// ImportRoster reads the first sheet of a foreign roster, detects its
// header row and reconciles every data row into the registry.
func (s *Service) ImportRoster(wb *Workbook) (*Result, error) {
	if IsBackupFormat(wb, s.backupSheet, s.backupMinMatches) {
		return nil, ErrBackupFile
	}
	sheet, ok := wb.First()
	if !ok || len(sheet.Rows) < 2 {
		return nil, fmt.Errorf("%w: no data found in %s", ErrMalformedInput, wb.Source)
	}

	header, err := FindHeaderRow(sheet.Rows, s.scanRows, s.rules)
	if err != nil {
		return nil, err
	}
	s.logger.Info("detected header row",
		zap.String("sheet", sheet.Name),
		zap.Int("row", header.Row+1),
		zap.Int("score", header.Score),
		zap.Stringer("columns", header.Columns),
	)

	result := &Result{
		Mode:        ModeRoster,
		Sheet:       sheet.Name,
		HeaderRow:   header.Row + 1,
		HeaderScore: header.Score,
		Columns:     header.Columns,
	}
	for index := header.Row + 1; index < len(sheet.Rows); index++ {
		row := sheet.Rows[index]
		result.RowsRead++

		candidate := extractCandidate(row, header.Columns)
		if candidate.Name == "" {
			result.RowsSkipped++
			s.logger.Debug("skipping row without name", zap.Int("row", index+1))
			continue
		}

		outcome, err := reconcile.Apply(s.registry, candidate)
		if err != nil {
			return result, fmt.Errorf("row %d: %w", index+1, err)
		}
		switch outcome.Action {
		case reconcile.ActionCreated:
			result.Created++
			result.touch(outcome.Volunteer.ID)
		case reconcile.ActionMerged:
			result.Merged++
			result.touch(outcome.Volunteer.ID)
		default:
			result.Unchanged++
		}
	}

	s.logger.Info("roster import finished",
		zap.Int("created", result.Created),
		zap.Int("merged", result.Merged),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("skipped", result.RowsSkipped),
	)
	return result, nil
}

func extractCandidate(row []cell.Value, columns ColumnMap) reconcile.Candidate {
	name := cellText(row, columns, FieldFullName)
	if !columns.Has(FieldFullName) {
		first := cellText(row, columns, FieldFirstName)
		last := cellText(row, columns, FieldLastName)
		name = strings.TrimSpace(first + " " + last)
	}
	return reconcile.Candidate{
		Name:             name,
		Phone:            cellText(row, columns, FieldPhone),
		Email:            cellText(row, columns, FieldEmail),
		Address:          cellText(row, columns, FieldAddress),
		Suburb:           cellText(row, columns, FieldSuburb),
		EmergencyContact: cellText(row, columns, FieldEmergencyContact),
	}
}

// RestoreBackup reads a workbook produced by the export and merges its
// volunteers and sessions into the registry. Known volunteers are reused
// as they are; sessions already present are not added twice.
func (s *Service) RestoreBackup(wb *Workbook) (*Result, error) {
	sheet, ok := wb.Sheet(s.backupSheet)
	if !ok {
		sheet, ok = wb.First()
	}
	if !ok || len(sheet.Rows) < 2 {
		return nil, fmt.Errorf("%w: no data found in backup %s", ErrMalformedInput, wb.Source)
	}

	columns, ok := locateBackupColumns(sheet.Header())
	if !ok {
		return nil, ErrNotBackupFile
	}

	result := &Result{Mode: ModeRestore, Sheet: sheet.Name, HeaderRow: 1}
	seen := make(map[string]string)
	for index := 1; index < len(sheet.Rows); index++ {
		row := sheet.Rows[index]
		result.RowsRead++

		name := strings.TrimSpace(cell.At(row, columns.name).String())
		if name == "" {
			result.RowsSkipped++
			continue
		}

		id, err := s.restoreVolunteer(row, columns, name, seen, result)
		if err != nil {
			return result, fmt.Errorf("row %d: %w", index+1, err)
		}
		if err := s.restoreSession(row, columns, id, result); err != nil {
			return result, fmt.Errorf("row %d: %w", index+1, err)
		}
	}

	s.logger.Info("backup restore finished",
		zap.Int("volunteers_created", result.Created),
		zap.Int("volunteers_reused", result.Reused),
		zap.Int("hours_added", result.HoursAdded),
		zap.Int("hours_duplicate", result.HoursDuplicate),
		zap.Int("hours_invalid", result.HoursInvalid),
	)
	return result, nil
}

func (s *Service) restoreVolunteer(row []cell.Value, columns backupColumns, name string, seen map[string]string, result *Result) (string, error) {
	key := strings.ToLower(name)
	if id, ok := seen[key]; ok {
		return id, nil
	}
	if existing, ok := s.registry.FindVolunteerByName(name); ok {
		seen[key] = existing.ID
		result.Reused++
		return existing.ID, nil
	}

	created, err := s.registry.AddVolunteer(reconcile.ScrubEmergencyContact(volunteer.Fields{
		Name:             name,
		Phone:            optionalText(row, columns.phone),
		Email:            optionalText(row, columns.email),
		Address:          optionalText(row, columns.address),
		Suburb:           optionalText(row, columns.suburb),
		EmergencyContact: optionalText(row, columns.emergency),
	}))
	if err != nil {
		return "", err
	}
	seen[key] = created.ID
	result.Created++
	result.touch(created.ID)
	return created.ID, nil
}

func (s *Service) restoreSession(row []cell.Value, columns backupColumns, volunteerID string, result *Result) error {
	date := optionalCell(row, columns.date)
	checkIn := optionalCell(row, columns.checkIn)
	checkOut := optionalCell(row, columns.checkOut)
	if date.IsEmpty() || checkIn.IsEmpty() || checkOut.IsEmpty() {
		return nil
	}

	normalizedDate, dateOK := timeutil.NormalizeDate(date)
	normalizedIn, inOK := timeutil.NormalizeTime(checkIn)
	normalizedOut, outOK := timeutil.NormalizeTime(checkOut)
	if !dateOK || !inOK || !outOK {
		result.HoursInvalid++
		return nil
	}

	current, ok := s.registry.Volunteer(volunteerID)
	if !ok {
		return volunteer.ErrVolunteerNotFound
	}
	if current.HasSession(normalizedDate, normalizedIn, normalizedOut) {
		result.HoursDuplicate++
		return nil
	}

	_, err := s.registry.AddHours(volunteerID, volunteer.HoursEntry{
		Date:     normalizedDate,
		CheckIn:  normalizedIn,
		CheckOut: normalizedOut,
	})
	if err != nil {
		return err
	}
	result.HoursAdded++
	result.touch(volunteerID)
	return nil
}

func optionalCell(row []cell.Value, column int) cell.Value {
	if column < 0 {
		return cell.Value{}
	}
	return cell.At(row, column)
}

func optionalText(row []cell.Value, column int) string {
	return strings.TrimSpace(optionalCell(row, column).String())
}

// IsUserError reports errors caused by the input rather than the system.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrNoHeaderFound) ||
		errors.Is(err, ErrBackupFile) ||
		errors.Is(err, ErrNotBackupFile)
}
