/*
Package sqlite provides a SQLite-backed implementation of worktime.Store.

PURPOSE:
  Durable storage for work entries, monthly pay settings and global
  settings. Every write touches one row with one statement.

INTERFACES IMPLEMENTED:
  worktime.EntryStore:    Work entries keyed by calendar date
  worktime.SettingsStore: Monthly rate/advance and global key/value pairs

KEY TABLES:
  work_entries:     One row per work day (work_date is UNIQUE)
  monthly_settings: (year, month) -> hourly_rate, advance
  global_settings:  key -> value (e.g. lunch_duration_hours)

ONE ENTRY PER DAY:
  Upsert uses INSERT ... ON CONFLICT(work_date) DO UPDATE, so replacing a
  day keeps the row id and never goes through a read-then-write window.
  Durations are not stored; they are recomputed from start/end.

DECIMALS:
  Rates and advances are stored as TEXT decimal strings (not REAL) so
  values round-trip exactly through shopspring/decimal.

LEGACY DATABASES:
  Older versions of the app stored a duration_minutes column and had no
  work_date column (one version even allowed several rows per day).
  migrateLegacyEntries() rebuilds such a table in place: the stale
  duration is dropped, work_date is backfilled from start_time and only
  the newest row per day survives.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, plus a single open connection so
  ":memory:" databases are shared by every statement.

USAGE:
  store, err := sqlite.New("./worktime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - worktime/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/worktime/hours-engine/worktime"
)

// Store implements worktime.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const workEntriesTable = `
	CREATE TABLE IF NOT EXISTS work_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		work_date TEXT NOT NULL UNIQUE,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		comment TEXT
	);
`

// migrate creates the database schema.
func (s *Store) migrate() error {
	if err := s.migrateLegacyEntries(); err != nil {
		return err
	}

	schema := workEntriesTable + `
	-- Month filtering and ordering
	CREATE INDEX IF NOT EXISTS idx_work_entries_start
		ON work_entries(start_time);

	-- Monthly settings (rate inherits forward, advance does not)
	CREATE TABLE IF NOT EXISTS monthly_settings (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		hourly_rate TEXT NOT NULL DEFAULT '0',
		advance TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (year, month)
	);

	-- Global settings
	CREATE TABLE IF NOT EXISTS global_settings (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// migrateLegacyEntries rebuilds a work_entries table created by an older
// version of the app. No-op for new or already migrated databases.
func (s *Store) migrateLegacyEntries() error {
	columns, err := s.tableColumns("work_entries")
	if err != nil {
		return err
	}
	if len(columns) == 0 || columns["work_date"] {
		return nil
	}

	log.Printf("[Store] Legacy work_entries schema detected (duration column: %v), migrating", columns["duration_minutes"])

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		`ALTER TABLE work_entries RENAME TO _work_entries_old`,
		workEntriesTable,
		`INSERT INTO work_entries (id, work_date, start_time, end_time, comment)
		 SELECT id, date(start_time), start_time, end_time, comment
		 FROM _work_entries_old
		 WHERE id IN (SELECT MAX(id) FROM _work_entries_old GROUP BY date(start_time))`,
		`DROP TABLE _work_entries_old`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(step); err != nil {
			return fmt.Errorf("failed to migrate legacy entries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	log.Printf("[Store] Legacy migration complete")
	return nil
}

func (s *Store) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

// =============================================================================
// ENTRY STORE (worktime.EntryStore interface)
// =============================================================================

// Upsert creates or replaces the entry for entry.Date, keeping its id.
func (s *Store) Upsert(ctx context.Context, entry worktime.WorkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO work_entries (work_date, start_time, end_time, comment)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(work_date) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			comment = excluded.comment
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.Date.String(),
		entry.Start.Format(worktime.TimestampLayout),
		entry.End.Format(worktime.TimestampLayout),
		nullString(entry.Comment),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// GetByDate returns the entry for date, or nil.
func (s *Store) GetByDate(ctx context.Context, date worktime.Date) (*worktime.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.queryEntries(ctx, entrySelect+" WHERE work_date = ?", date.String())
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// DeleteByDate removes the entry for date. Deleting nothing is not an error.
func (s *Store) DeleteByDate(ctx context.Context, date worktime.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM work_entries WHERE work_date = ?", date.String()); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// ListAll returns every entry ascending by date.
func (s *Store) ListAll(ctx context.Context) ([]worktime.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, entrySelect+" ORDER BY work_date ASC")
}

// ListForMonth returns entries whose start falls in month, ascending by date.
func (s *Store) ListForMonth(ctx context.Context, month worktime.YearMonth) ([]worktime.WorkEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx,
		entrySelect+" WHERE strftime('%Y-%m', start_time) = ? ORDER BY start_time ASC",
		month.String(),
	)
}

const entrySelect = "SELECT id, work_date, start_time, end_time, comment FROM work_entries"

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]worktime.WorkEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []worktime.WorkEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (worktime.WorkEntry, error) {
	var (
		e         worktime.WorkEntry
		workDate  string
		startTime string
		endTime   string
		comment   sql.NullString
	)

	if err := rows.Scan(&e.ID, &workDate, &startTime, &endTime, &comment); err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	var err error
	if e.Date, err = worktime.ParseDate(workDate); err != nil {
		return e, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	if e.Start, err = parseTimestamp(startTime); err != nil {
		return e, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	if e.End, err = parseTimestamp(endTime); err != nil {
		return e, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	e.Comment = comment.String
	return e, nil
}

// =============================================================================
// SETTINGS STORE (worktime.SettingsStore interface)
// =============================================================================

// GetGlobalSetting returns the value for key, or def when absent.
func (s *Store) GetGlobalSetting(ctx context.Context, key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT value FROM global_settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	if !value.Valid {
		return def, nil
	}
	return value.String, nil
}

// SetGlobalSetting creates or replaces the value for key.
func (s *Store) SetGlobalSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO global_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetSettingsForMonth resolves the month's advance and its (possibly inherited) rate.
func (s *Store) GetSettingsForMonth(ctx context.Context, month worktime.YearMonth) (worktime.MonthlySetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := worktime.MonthlySetting{Month: month, HourlyRate: decimal.Zero, Advance: decimal.Zero}

	// Advance: this month only.
	var advance string
	err := s.db.QueryRowContext(ctx,
		"SELECT advance FROM monthly_settings WHERE year = ? AND month = ?",
		month.Year, int(month.Month),
	).Scan(&advance)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return result, fmt.Errorf("failed to get advance for %s: %w", month, err)
	default:
		if result.Advance, err = parseDecimal("advance", advance); err != nil {
			return result, err
		}
	}

	// Rate: latest configured month at or before the target.
	var (
		rateYear  int
		rateMonth int
		rate      string
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT year, month, hourly_rate FROM monthly_settings
		WHERE (year * 100 + month) <= ?
		ORDER BY year DESC, month DESC
		LIMIT 1`,
		month.Key(),
	).Scan(&rateYear, &rateMonth, &rate)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return result, fmt.Errorf("failed to get rate for %s: %w", month, err)
	default:
		if result.HourlyRate, err = parseDecimal("hourly_rate", rate); err != nil {
			return result, err
		}
		result.RateFrom = worktime.NewYearMonth(rateYear, time.Month(rateMonth))
	}

	return result, nil
}

// SaveSettingsForMonth upserts the rate and advance for setting.Month.
func (s *Store) SaveSettingsForMonth(ctx context.Context, setting worktime.MonthlySetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO monthly_settings (year, month, hourly_rate, advance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			hourly_rate = excluded.hourly_rate,
			advance = excluded.advance
	`
	_, err := s.db.ExecContext(ctx, query,
		setting.Month.Year, int(setting.Month.Month),
		setting.HourlyRate.String(), setting.Advance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings for %s: %w", setting.Month, err)
	}
	return nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes all data. Used by demo scenarios.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"work_entries", "monthly_settings", "global_settings"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Compile-time check
var _ worktime.Store = (*Store)(nil)

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDecimal(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &worktime.SettingError{Key: column, Value: value, Err: worktime.ErrInvalidSetting}
	}
	return d, nil
}

// parseTimestamp accepts both the space and the ISO "T" separator, since
// rows written by older versions may use either.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(worktime.TimestampLayout, strings.Replace(value, "T", " ", 1))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}
