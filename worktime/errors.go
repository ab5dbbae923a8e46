/*
errors.go - Centralized error types for the work-hours engine

PURPOSE:
  All error types in one place. Front ends classify errors with the
  helpers at the bottom instead of matching strings.

ERROR CATEGORIES:
  1. Validation errors - Rejected by callers before reaching the store
  2. Lookup errors - Missing entries where the caller needs one
  3. Store errors - Wrapped database failures (no sentinel, just %w)

USAGE:
  if worktime.IsClientError(err) {
      // 400 Bad Request
  }

SEE ALSO:
  - api/handlers.go: Maps these to HTTP status codes
*/
package worktime

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTimeRange is returned when an entry's end is not after its start.
	ErrInvalidTimeRange = errors.New("invalid time range: end must be after start")

	// ErrInvalidMonth is returned for months outside [1,12] or unparsable months.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrNegativeAmount is returned when a rate, advance or lunch duration is negative.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrInvalidFormat is returned for unparsable dates and clock times.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidSetting is returned when a stored or submitted setting is not a decimal.
	ErrInvalidSetting = errors.New("invalid setting value")

	// ErrEntryNotFound is returned by front ends when a date has no entry.
	// The store itself reports absence as a nil entry.
	ErrEntryNotFound = errors.New("entry not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TimeRangeError describes a rejected start/end pair.
type TimeRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("invalid time range: end %s is not after start %s",
		e.End.Format(TimestampLayout), e.Start.Format(TimestampLayout))
}

func (e *TimeRangeError) Unwrap() error {
	return ErrInvalidTimeRange
}

// SettingError describes a setting whose value could not be used.
type SettingError struct {
	Key   string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateTimeRange rejects end <= start.
func ValidateTimeRange(start, end time.Time) error {
	if !end.After(start) {
		return &TimeRangeError{Start: start, End: end}
	}
	return nil
}

// ValidateAmount rejects negative rates, advances and durations.
func ValidateAmount(key string, v decimal.Decimal) error {
	if v.IsNegative() {
		return &SettingError{Key: key, Value: v.String(), Err: ErrNegativeAmount}
	}
	return nil
}

// ParseAmount parses a non-negative decimal setting value.
func ParseAmount(key, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &SettingError{Key: key, Value: s, Err: ErrInvalidSetting}
	}
	if err := ValidateAmount(key, v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidSetting)
}

// IsNotFound returns true if the error indicates a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}
