// Package memory provides an in-memory worktime.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/worktime/hours-engine/worktime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	nextID   worktime.EntryID
	entries  []worktime.WorkEntry // sorted by Date
	monthly  map[worktime.YearMonth]worktime.MonthlySetting
	settings map[string]string
}

func New() *Memory {
	return &Memory{
		nextID:   1,
		monthly:  make(map[worktime.YearMonth]worktime.MonthlySetting),
		settings: make(map[string]string),
	}
}

// Upsert replaces the entry for entry.Date in place or inserts it in date order.
func (m *Memory) Upsert(_ context.Context, entry worktime.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.search(entry.Date)
	if i < len(m.entries) && m.entries[i].Date == entry.Date {
		entry.ID = m.entries[i].ID
		m.entries[i] = entry
		return nil
	}

	entry.ID = m.nextID
	m.nextID++

	m.entries = append(m.entries, worktime.WorkEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = entry
	return nil
}

func (m *Memory) GetByDate(_ context.Context, date worktime.Date) (*worktime.WorkEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.search(date)
	if i < len(m.entries) && m.entries[i].Date == date {
		e := m.entries[i]
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) DeleteByDate(_ context.Context, date worktime.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.search(date)
	if i < len(m.entries) && m.entries[i].Date == date {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
	}
	return nil
}

func (m *Memory) ListAll(_ context.Context) ([]worktime.WorkEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]worktime.WorkEntry, len(m.entries))
	copy(result, m.entries)
	return result, nil
}

func (m *Memory) ListForMonth(_ context.Context, month worktime.YearMonth) ([]worktime.WorkEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []worktime.WorkEntry
	for _, e := range m.entries {
		if month.Contains(e.Start) {
			result = append(result, e)
		}
	}
	return result, nil
}

// search returns the insertion point for date: O(log n).
func (m *Memory) search(date worktime.Date) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return !m.entries[i].Date.Before(date)
	})
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) GetGlobalSetting(_ context.Context, key, def string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.settings[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) SetGlobalSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
	return nil
}

// GetSettingsForMonth inherits the latest rate at or before month; advance is month-only.
func (m *Memory) GetSettingsForMonth(_ context.Context, month worktime.YearMonth) (worktime.MonthlySetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := worktime.MonthlySetting{Month: month, HourlyRate: decimal.Zero, Advance: decimal.Zero}
	if own, ok := m.monthly[month]; ok {
		result.Advance = own.Advance
	}

	var latest *worktime.MonthlySetting
	for k, s := range m.monthly {
		if k.Key() > month.Key() {
			continue
		}
		if latest == nil || k.Key() > latest.Month.Key() {
			s := s
			latest = &s
		}
	}
	if latest != nil {
		result.HourlyRate = latest.HourlyRate
		result.RateFrom = latest.Month
	}
	return result, nil
}

func (m *Memory) SaveSettingsForMonth(_ context.Context, setting worktime.MonthlySetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.monthly[setting.Month] = worktime.MonthlySetting{
		Month:      setting.Month,
		HourlyRate: setting.HourlyRate,
		Advance:    setting.Advance,
	}
	return nil
}

// Compile-time check
var _ worktime.Store = (*Memory)(nil)
