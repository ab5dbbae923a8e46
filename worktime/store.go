/*
store.go - Persistence interfaces for entries and settings

PURPOSE:
  Defines the interface between the calculator and the database.
  Different implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  EntryStore:    Work entries, one per calendar date
  SettingsStore: Monthly rate/advance and global key/value settings
  Store:         Both, as owned by a single backend

UPSERT CONTRACT:
  Upsert() is keyed by WorkEntry.Date. If the date already has an entry it
  is replaced in place and keeps its ID. A second upsert never creates a
  duplicate and never fails because one exists.

  Each write touches at most one row and must be a single atomic statement
  so concurrent callers cannot lose updates.

RATE INHERITANCE:
  GetSettingsForMonth() resolves HourlyRate from the latest month at or
  before the target that has a row. Advance is read from the target month
  only and defaults to zero.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Durable SQLite store
  - store/memory/memory.go: In-memory store for tests

SEE ALSO:
  - settings.go: Typed view over the global key/value settings
  - payroll/service.go: Main consumer
*/
package worktime

import "context"

// =============================================================================
// ENTRY STORE
// =============================================================================

// EntryStore persists work entries.
type EntryStore interface {
	// Upsert creates or replaces the entry for entry.Date.
	// Does not validate the time range; callers do that.
	Upsert(ctx context.Context, entry WorkEntry) error

	// GetByDate returns the entry for date, or nil if there is none.
	GetByDate(ctx context.Context, date Date) (*WorkEntry, error)

	// DeleteByDate removes the entry for date. No-op if absent.
	DeleteByDate(ctx context.Context, date Date) error

	// ListAll returns every entry, ascending by date.
	ListAll(ctx context.Context) ([]WorkEntry, error)

	// ListForMonth returns entries whose start falls in month, ascending by date.
	ListForMonth(ctx context.Context, month YearMonth) ([]WorkEntry, error)
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// SettingsStore persists monthly and global settings.
type SettingsStore interface {
	// GetGlobalSetting returns the stored value for key, or def if absent.
	GetGlobalSetting(ctx context.Context, key, def string) (string, error)

	// SetGlobalSetting creates or replaces the value for key.
	SetGlobalSetting(ctx context.Context, key, value string) error

	// GetSettingsForMonth resolves rate (inherited) and advance (not inherited).
	GetSettingsForMonth(ctx context.Context, month YearMonth) (MonthlySetting, error)

	// SaveSettingsForMonth upserts the row for setting.Month.
	SaveSettingsForMonth(ctx context.Context, setting MonthlySetting) error
}

// Store is the full persistence surface owned by one backend.
type Store interface {
	EntryStore
	SettingsStore
}
