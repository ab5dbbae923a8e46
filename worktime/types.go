/*
Package worktime provides the domain types of the work-hours tracker.

PURPOSE:
  Everything the calculator, the store and the front ends agree on lives
  here: recorded work days, monthly pay settings, the typed global
  configuration and the persistence interfaces.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkEntry: One recorded work day (start/end timestamps, comment)
  - MonthlySetting: Hourly rate and advance configured for a month
  - Duration: Always derived from timestamps, never stored

DESIGN PRINCIPLES:
  1. One entry per calendar date: Date is the natural key
  2. Precision: Rates, advances and minutes use decimal.Decimal
  3. No stale caches: DurationMinutes() recomputes from Start/End

USAGE:
  entry, err := worktime.NewWorkEntry(worktime.NewDate(2024, time.March, 5), "09:00", "18:00", "")
  minutes := entry.DurationMinutes() // 540

SEE ALSO:
  - time.go: Date and YearMonth
  - store.go: Persistence interfaces
  - settings.go: Typed global settings
*/
package worktime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WORK ENTRY - One recorded work day
// =============================================================================

// EntryID identifies a stored work entry. Upserts on the same date keep it.
type EntryID int64

// WorkEntry is a single recorded work day.
type WorkEntry struct {
	ID      EntryID
	Date    Date
	Start   time.Time
	End     time.Time
	Comment string
}

// NewWorkEntry builds an entry for date from "HH:MM" clock strings.
// Returns a *TimeRangeError if end is not after start.
func NewWorkEntry(date Date, startClock, endClock, comment string) (WorkEntry, error) {
	start, err := date.AtClock(startClock)
	if err != nil {
		return WorkEntry{}, err
	}
	end, err := date.AtClock(endClock)
	if err != nil {
		return WorkEntry{}, err
	}
	if err := ValidateTimeRange(start, end); err != nil {
		return WorkEntry{}, err
	}
	return WorkEntry{Date: date, Start: start, End: end, Comment: comment}, nil
}

// Duration returns the raw time between start and end.
func (e WorkEntry) Duration() time.Duration { return e.End.Sub(e.Start) }

// DurationMinutes returns the raw worked minutes, exact to the second.
func (e WorkEntry) DurationMinutes() decimal.Decimal {
	seconds := decimal.NewFromInt(int64(e.Duration() / time.Second))
	return seconds.Div(sixty)
}

// Month returns the calendar month the entry belongs to.
func (e WorkEntry) Month() YearMonth { return YearMonthOf(e.Start) }

// =============================================================================
// MONTHLY SETTING - Rate and advance for one month
// =============================================================================

// MonthlySetting holds the pay settings for a month.
//
// When read through SettingsStore.GetSettingsForMonth, HourlyRate may come
// from an earlier month (rates are sticky) while Advance is always this
// month's own value or zero.
type MonthlySetting struct {
	Month      YearMonth
	HourlyRate decimal.Decimal
	Advance    decimal.Decimal

	// RateFrom is the month the rate was configured in. Zero when no rate
	// has ever been configured at or before Month.
	RateFrom YearMonth
}

// RateInherited reports whether the rate was carried over from an earlier month.
func (s MonthlySetting) RateInherited() bool {
	return !s.RateFrom.IsZero() && s.RateFrom != s.Month
}

var sixty = decimal.NewFromInt(60)
