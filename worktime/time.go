package worktime

import (
	"fmt"
	"time"
)

// Layouts used for parsing and persisting naive (timezone-less) values.
const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	TimestampLayout = "2006-01-02 15:04:05"
	MonthLayout     = "2006-01"
)

// =============================================================================
// DATE - A calendar day without time or zone
// =============================================================================

// Date is a calendar day. Internally it is midnight UTC; timestamps built from
// it carry no meaningful zone.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) Date { return NewDate(t.Year(), t.Month(), t.Day()) }

func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q (use YYYY-MM-DD): %v", ErrInvalidFormat, s, err)
	}
	return DateOf(t), nil
}

func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) YearMonth() YearMonth   { return YearMonth{Year: d.Year(), Month: d.Month()} }
func (d Date) Before(o Date) bool     { return d.t.Before(o.t) }
func (d Date) After(o Date) bool      { return d.t.After(o.t) }
func (d Date) AddDays(n int) Date     { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) String() string         { return d.t.Format(DateLayout) }

// At returns the timestamp at hour:minute on this day.
func (d Date) At(hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

// AtClock returns the timestamp on this day for an "HH:MM" clock string.
func (d Date) AtClock(clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.At(hour, minute), nil
}

// ParseClock parses "HH:MM" (24h) into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q (use HH:MM): %v", ErrInvalidFormat, s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// =============================================================================
// YEAR MONTH - Key of monthly settings and summaries
// =============================================================================

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// YearMonthOf returns the month a timestamp falls in.
func YearMonthOf(t time.Time) YearMonth { return YearMonth{Year: t.Year(), Month: t.Month()} }

// ParseYearMonth parses a YYYY-MM string and validates the month range.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q (use YYYY-MM)", ErrInvalidMonth, s)
	}
	return YearMonthOf(t), nil
}

// Key orders months as year*100+month. Only meaningful for valid months.
func (m YearMonth) Key() int { return m.Year*100 + int(m.Month) }

// Validate checks that the month is in [1,12]. Callers must validate before
// storing monthly settings, otherwise Key ordering breaks.
func (m YearMonth) Validate() error {
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidMonth, m.Month)
	}
	return nil
}

func (m YearMonth) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Start returns the first day of the month.
func (m YearMonth) Start() Date { return NewDate(m.Year, m.Month, 1) }

// End returns the last day of the month.
func (m YearMonth) End() Date { return NewDate(m.Year, m.Month+1, 1).AddDays(-1) }

func (m YearMonth) Next() YearMonth { return YearMonthOf(m.Start().Time().AddDate(0, 1, 0)) }
func (m YearMonth) Prev() YearMonth { return YearMonthOf(m.Start().Time().AddDate(0, -1, 0)) }

func (m YearMonth) Before(o YearMonth) bool { return m.Key() < o.Key() }

// Contains reports whether the timestamp falls inside the month.
func (m YearMonth) Contains(t time.Time) bool { return YearMonthOf(t) == m }

func (m YearMonth) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }
