package payroll

import (
	"context"
	"fmt"

	"github.com/worktime/hours-engine/worktime"
)

// Service is the entry point front ends call. It validates input, talks to
// the store and runs the calculator.
type Service struct {
	store worktime.Store
}

// NewService returns a Service backed by store.
func NewService(store worktime.Store) *Service {
	return &Service{store: store}
}

// RecordDay validates and upserts the entry for date, returning it as stored.
func (s *Service) RecordDay(ctx context.Context, date worktime.Date, startClock, endClock, comment string) (*worktime.WorkEntry, error) {
	entry, err := worktime.NewWorkEntry(date, startClock, endClock, comment)
	if err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry for %s: %w", date, err)
	}
	return s.store.GetByDate(ctx, date)
}

// Entry returns the entry for date or ErrEntryNotFound.
func (s *Service) Entry(ctx context.Context, date worktime.Date) (*worktime.WorkEntry, error) {
	entry, err := s.store.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", worktime.ErrEntryNotFound, date)
	}
	return entry, nil
}

// DeleteDay removes the entry for date. Deleting an empty date is not an error.
func (s *Service) DeleteDay(ctx context.Context, date worktime.Date) error {
	return s.store.DeleteByDate(ctx, date)
}

// Entries lists every entry, or only those of month when month is non-zero.
func (s *Service) Entries(ctx context.Context, month worktime.YearMonth) ([]worktime.WorkEntry, error) {
	if month.IsZero() {
		return s.store.ListAll(ctx)
	}
	if err := month.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListForMonth(ctx, month)
}

// MonthSettings returns the resolved rate and advance for month.
func (s *Service) MonthSettings(ctx context.Context, month worktime.YearMonth) (worktime.MonthlySetting, error) {
	if err := month.Validate(); err != nil {
		return worktime.MonthlySetting{}, err
	}
	return s.store.GetSettingsForMonth(ctx, month)
}

// SaveMonthSettings validates and stores the rate and advance for a month.
func (s *Service) SaveMonthSettings(ctx context.Context, setting worktime.MonthlySetting) error {
	if err := worktime.ValidateMonthlySetting(setting); err != nil {
		return err
	}
	return s.store.SaveSettingsForMonth(ctx, setting)
}

// Settings loads the global settings.
func (s *Service) Settings(ctx context.Context) (worktime.Settings, error) {
	return worktime.LoadSettings(ctx, s.store)
}

// SaveSettings validates and stores the global settings.
func (s *Service) SaveSettings(ctx context.Context, settings worktime.Settings) error {
	return worktime.SaveSettings(ctx, s.store, settings)
}

// MonthlySummary resolves settings, loads the month's entries and aggregates them.
func (s *Service) MonthlySummary(ctx context.Context, month worktime.YearMonth) (Summary, error) {
	if err := month.Validate(); err != nil {
		return Summary{}, err
	}

	rates, err := s.store.GetSettingsForMonth(ctx, month)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to resolve settings for %s: %w", month, err)
	}

	settings, err := worktime.LoadSettings(ctx, s.store)
	if err != nil {
		return Summary{}, err
	}

	entries, err := s.store.ListForMonth(ctx, month)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load entries for %s: %w", month, err)
	}

	return Calculate(month, entries, rates, settings), nil
}
