package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"voltrack/volunteer"
)

// SQLiteStore is the local cache of the volunteer registry. Every save
// replaces the whole snapshot.
type SQLiteStore struct {
	db *sql.DB
}

var ErrVolunteerNotFound = errors.New("volunteer not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS volunteers (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT NOT NULL,
	address TEXT NOT NULL,
	suburb TEXT NOT NULL,
	emergency_contact TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS hours (
	id TEXT PRIMARY KEY,
	volunteer_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	date TEXT NOT NULL,
	check_in TEXT NOT NULL,
	check_out TEXT NOT NULL,
	break_start TEXT NOT NULL DEFAULT '',
	break_end TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS hours_volunteer ON hours(volunteer_id);
CREATE TABLE IF NOT EXISTS shifts (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	volunteers_needed INTEGER NOT NULL CHECK(volunteers_needed > 0),
	description TEXT NOT NULL DEFAULT '',
	break_start TEXT NOT NULL DEFAULT '',
	break_end TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS applicants (
	shift_id TEXT NOT NULL,
	volunteer_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	volunteer_name TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	applied_at TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (shift_id, volunteer_id)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.ensureColumn("shifts", "reviewed", `ALTER TABLE shifts ADD COLUMN reviewed INTEGER NOT NULL DEFAULT 0;`); err != nil {
		return err
	}

	return nil
}

// ensureColumn adds a column to caches created before it existed.
func (s *SQLiteStore) ensureColumn(table, column, alter string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			found = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}

	if found {
		return nil
	}

	if _, err := s.db.Exec(alter); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}

	return nil
}

// LoadRegistry replaces the contents of registry with the cached snapshot.
func (s *SQLiteStore) LoadRegistry(registry *volunteer.Registry) error {
	volunteers, shifts, err := s.Load()
	if err != nil {
		return err
	}
	registry.Replace(volunteers, shifts)
	return nil
}

// SaveRegistry writes the registry snapshot, replacing the cache.
func (s *SQLiteStore) SaveRegistry(registry *volunteer.Registry) error {
	return s.Save(registry.Volunteers(), registry.Shifts())
}

func (s *SQLiteStore) Save(volunteers []volunteer.Volunteer, shifts []volunteer.Shift) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := clearTables(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := insertVolunteers(tx, volunteers); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := insertShifts(tx, shifts); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func clearTables(tx *sql.Tx) error {
	for _, table := range []string{"applicants", "shifts", "hours", "volunteers"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s;`, table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func insertVolunteers(tx *sql.Tx, volunteers []volunteer.Volunteer) error {
	volunteerStmt, err := tx.Prepare(`
INSERT INTO volunteers (id, position, name, phone, email, address, suburb, emergency_contact)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare volunteer insert: %w", err)
	}
	defer volunteerStmt.Close()

	hoursStmt, err := tx.Prepare(`
INSERT INTO hours (id, volunteer_id, position, date, check_in, check_out, break_start, break_end)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare hours insert: %w", err)
	}
	defer hoursStmt.Close()

	for position, v := range volunteers {
		if _, err := volunteerStmt.Exec(v.ID, position, v.Name, v.Phone, v.Email, v.Address, v.Suburb, v.EmergencyContact); err != nil {
			return fmt.Errorf("insert volunteer %s: %w", v.ID, err)
		}
		for entryPosition, entry := range v.Hours {
			if _, err := hoursStmt.Exec(
				entry.ID,
				v.ID,
				entryPosition,
				entry.Date,
				entry.CheckIn,
				entry.CheckOut,
				entry.BreakStart,
				entry.BreakEnd,
			); err != nil {
				return fmt.Errorf("insert hours %s: %w", entry.ID, err)
			}
		}
	}
	return nil
}

func insertShifts(tx *sql.Tx, shifts []volunteer.Shift) error {
	shiftStmt, err := tx.Prepare(`
INSERT INTO shifts (id, position, date, start_time, end_time, volunteers_needed, description, break_start, break_end, created_at, reviewed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare shift insert: %w", err)
	}
	defer shiftStmt.Close()

	applicantStmt, err := tx.Prepare(`
INSERT INTO applicants (shift_id, volunteer_id, position, volunteer_name, notes, applied_at)
VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare applicant insert: %w", err)
	}
	defer applicantStmt.Close()

	for position, shift := range shifts {
		if _, err := shiftStmt.Exec(
			shift.ID,
			position,
			shift.Date,
			shift.StartTime,
			shift.EndTime,
			shift.VolunteersNeeded,
			shift.Description,
			shift.BreakStart,
			shift.BreakEnd,
			formatTime(shift.CreatedAt),
			boolToInt(shift.Reviewed),
		); err != nil {
			return fmt.Errorf("insert shift %s: %w", shift.ID, err)
		}
		for applicantPosition, applicant := range shift.Applicants {
			if _, err := applicantStmt.Exec(
				shift.ID,
				applicant.VolunteerID,
				applicantPosition,
				applicant.VolunteerName,
				applicant.Notes,
				formatTime(applicant.AppliedAt),
			); err != nil {
				return fmt.Errorf("insert applicant %s of shift %s: %w", applicant.VolunteerID, shift.ID, err)
			}
		}
	}
	return nil
}

// Load reads the cached snapshot in the order it was saved.
func (s *SQLiteStore) Load() ([]volunteer.Volunteer, []volunteer.Shift, error) {
	volunteers, err := s.loadVolunteers()
	if err != nil {
		return nil, nil, err
	}
	shifts, err := s.loadShifts()
	if err != nil {
		return nil, nil, err
	}
	return volunteers, shifts, nil
}

func (s *SQLiteStore) loadVolunteers() ([]volunteer.Volunteer, error) {
	rows, err := s.db.Query(`
SELECT id, name, phone, email, address, suburb, emergency_contact
FROM volunteers
ORDER BY position, id;`)
	if err != nil {
		return nil, fmt.Errorf("query volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := make([]volunteer.Volunteer, 0, 64)
	index := make(map[string]int)
	for rows.Next() {
		var v volunteer.Volunteer
		if err := rows.Scan(&v.ID, &v.Name, &v.Phone, &v.Email, &v.Address, &v.Suburb, &v.EmergencyContact); err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		index[v.ID] = len(volunteers)
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}

	hoursRows, err := s.db.Query(`
SELECT id, volunteer_id, date, check_in, check_out, break_start, break_end
FROM hours
ORDER BY volunteer_id, position;`)
	if err != nil {
		return nil, fmt.Errorf("query hours: %w", err)
	}
	defer hoursRows.Close()

	for hoursRows.Next() {
		var (
			entry       volunteer.HoursEntry
			volunteerID string
		)
		if err := hoursRows.Scan(&entry.ID, &volunteerID, &entry.Date, &entry.CheckIn, &entry.CheckOut, &entry.BreakStart, &entry.BreakEnd); err != nil {
			return nil, fmt.Errorf("scan hours: %w", err)
		}
		position, ok := index[volunteerID]
		if !ok {
			continue
		}
		volunteers[position].Hours = append(volunteers[position].Hours, entry)
	}
	if err := hoursRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hours: %w", err)
	}

	return volunteers, nil
}

func (s *SQLiteStore) loadShifts() ([]volunteer.Shift, error) {
	rows, err := s.db.Query(`
SELECT id, date, start_time, end_time, volunteers_needed, description, break_start, break_end, created_at, reviewed
FROM shifts
ORDER BY position, id;`)
	if err != nil {
		return nil, fmt.Errorf("query shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]volunteer.Shift, 0, 32)
	index := make(map[string]int)
	for rows.Next() {
		var (
			shift      volunteer.Shift
			createdRaw string
			reviewed   int
		)
		if err := rows.Scan(
			&shift.ID,
			&shift.Date,
			&shift.StartTime,
			&shift.EndTime,
			&shift.VolunteersNeeded,
			&shift.Description,
			&shift.BreakStart,
			&shift.BreakEnd,
			&createdRaw,
			&reviewed,
		); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shift.CreatedAt, err = parseTime(createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of shift %s: %w", shift.ID, err)
		}
		shift.Reviewed = reviewed != 0
		index[shift.ID] = len(shifts)
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shifts: %w", err)
	}

	applicantRows, err := s.db.Query(`
SELECT shift_id, volunteer_id, volunteer_name, notes, applied_at
FROM applicants
ORDER BY shift_id, position;`)
	if err != nil {
		return nil, fmt.Errorf("query applicants: %w", err)
	}
	defer applicantRows.Close()

	for applicantRows.Next() {
		var (
			applicant  volunteer.Applicant
			shiftID    string
			appliedRaw string
		)
		if err := applicantRows.Scan(&shiftID, &applicant.VolunteerID, &applicant.VolunteerName, &applicant.Notes, &appliedRaw); err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicant.AppliedAt, err = parseTime(appliedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse applied_at of shift %s: %w", shiftID, err)
		}
		position, ok := index[shiftID]
		if !ok {
			continue
		}
		shifts[position].Applicants = append(shifts[position].Applicants, applicant)
	}
	if err := applicantRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applicants: %w", err)
	}

	return shifts, nil
}

// GetVolunteer returns one cached volunteer with its hours.
func (s *SQLiteStore) GetVolunteer(id string) (volunteer.Volunteer, error) {
	volunteers, err := s.loadVolunteers()
	if err != nil {
		return volunteer.Volunteer{}, err
	}
	for _, v := range volunteers {
		if v.ID == id {
			return v, nil
		}
	}
	return volunteer.Volunteer{}, fmt.Errorf("%w: %s", ErrVolunteerNotFound, id)
}

// Counts reports how many volunteers, hours entries and shifts are cached.
func (s *SQLiteStore) Counts() (volunteers, hours, shifts int, err error) {
	for _, target := range []struct {
		table string
		value *int
	}{
		{table: "volunteers", value: &volunteers},
		{table: "hours", value: &hours},
		{table: "shifts", value: &shifts},
	} {
		if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s;`, target.table)).Scan(target.value); err != nil {
			return 0, 0, 0, fmt.Errorf("count %s: %w", target.table, err)
		}
	}
	return volunteers, hours, shifts, nil
}

// DeleteAll empties the cache and returns how many volunteers were removed.
func (s *SQLiteStore) DeleteAll() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	var removed int64
	if err := tx.QueryRow(`SELECT COUNT(*) FROM volunteers;`).Scan(&removed); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("count volunteers: %w", err)
	}
	if err := clearTables(tx); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete transaction: %w", err)
	}
	return removed, nil
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(time.RFC3339)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
