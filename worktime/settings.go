package worktime

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Global setting keys.
const (
	SettingLunchDurationHours = "lunch_duration_hours"
)

// DefaultLunchDurationHours applies until the user configures a lunch duration.
var DefaultLunchDurationHours = decimal.NewFromInt(1)

// Settings is the typed view of the global key/value settings. Load it once
// per operation; do not cache it across operations.
type Settings struct {
	// LunchDurationHours is deducted from long shifts (see payroll.LunchPolicy).
	LunchDurationHours decimal.Decimal
}

// DefaultSettings returns the settings of a fresh database.
func DefaultSettings() Settings {
	return Settings{LunchDurationHours: DefaultLunchDurationHours}
}

// LoadSettings reads the global settings, filling defaults for missing keys.
func LoadSettings(ctx context.Context, store SettingsStore) (Settings, error) {
	s := DefaultSettings()

	raw, err := store.GetGlobalSetting(ctx, SettingLunchDurationHours, s.LunchDurationHours.String())
	if err != nil {
		return s, fmt.Errorf("failed to load %s: %w", SettingLunchDurationHours, err)
	}
	lunch, err := ParseAmount(SettingLunchDurationHours, raw)
	if err != nil {
		return s, err
	}
	s.LunchDurationHours = lunch
	return s, nil
}

// SaveSettings validates and writes every global setting.
func SaveSettings(ctx context.Context, store SettingsStore, s Settings) error {
	if err := ValidateAmount(SettingLunchDurationHours, s.LunchDurationHours); err != nil {
		return err
	}
	if err := store.SetGlobalSetting(ctx, SettingLunchDurationHours, s.LunchDurationHours.String()); err != nil {
		return fmt.Errorf("failed to save %s: %w", SettingLunchDurationHours, err)
	}
	return nil
}

// ValidateMonthlySetting checks the month range and non-negative amounts.
func ValidateMonthlySetting(s MonthlySetting) error {
	if err := s.Month.Validate(); err != nil {
		return err
	}
	if err := ValidateAmount("hourly_rate", s.HourlyRate); err != nil {
		return err
	}
	return ValidateAmount("advance", s.Advance)
}
