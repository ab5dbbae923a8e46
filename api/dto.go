/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DECIMALS:
  Money, rates and hours are decimal.Decimal. They serialize as JSON
  strings ("3800.5") and accept both strings and numbers on input.

TIMES:
  Dates are YYYY-MM-DD, months YYYY-MM, clock times HH:MM. Timestamps
  carry no timezone.

VALIDATION:
  Validation is done in handlers (through the payroll service), not in
  DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/worktime/hours-engine/payroll"
	"github.com/worktime/hours-engine/worktime"
)

// =============================================================================
// ENTRIES
// =============================================================================

// EntryDTO represents a work day in API responses.
type EntryDTO struct {
	ID              int64           `json:"id"`
	Date            string          `json:"date"`
	Start           string          `json:"start"`
	End             string          `json:"end"`
	Comment         string          `json:"comment,omitempty"`
	DurationMinutes decimal.Decimal `json:"duration_minutes"`
}

// UpsertEntryRequest creates or replaces the entry for the date in the URL.
type UpsertEntryRequest struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Comment string `json:"comment"`
}

func toEntryDTO(e worktime.WorkEntry) EntryDTO {
	return EntryDTO{
		ID:              int64(e.ID),
		Date:            e.Date.String(),
		Start:           e.Start.Format(worktime.ClockLayout),
		End:             e.End.Format(worktime.ClockLayout),
		Comment:         e.Comment,
		DurationMinutes: e.DurationMinutes(),
	}
}

func toEntryDTOs(entries []worktime.WorkEntry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

// =============================================================================
// SETTINGS
// =============================================================================

// MonthSettingsDTO is the resolved rate and advance of a month.
type MonthSettingsDTO struct {
	Month         string          `json:"month"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	Advance       decimal.Decimal `json:"advance"`
	RateFrom      string          `json:"rate_from,omitempty"`
	RateInherited bool            `json:"rate_inherited"`
}

// SaveMonthSettingsRequest stores the rate and advance of the month in the URL.
// An omitted field keeps the month's current value (the rate may be inherited).
type SaveMonthSettingsRequest struct {
	HourlyRate decimal.NullDecimal `json:"hourly_rate"`
	Advance    decimal.NullDecimal `json:"advance"`
}

func toMonthSettingsDTO(s worktime.MonthlySetting) MonthSettingsDTO {
	dto := MonthSettingsDTO{
		Month:         s.Month.String(),
		HourlyRate:    s.HourlyRate,
		Advance:       s.Advance,
		RateInherited: s.RateInherited(),
	}
	if !s.RateFrom.IsZero() {
		dto.RateFrom = s.RateFrom.String()
	}
	return dto
}

// SettingsDTO is the global settings in API responses.
type SettingsDTO struct {
	LunchDurationHours decimal.Decimal `json:"lunch_duration_hours"`
}

// SaveSettingsRequest replaces the global settings. Every field is required.
type SaveSettingsRequest struct {
	LunchDurationHours decimal.NullDecimal `json:"lunch_duration_hours"`
}

// =============================================================================
// SUMMARY
// =============================================================================

// SummaryDTO is the monthly pay summary.
type SummaryDTO struct {
	Month                  string          `json:"month"`
	HourlyRate             decimal.Decimal `json:"hourly_rate"`
	WorkDaysCount          int             `json:"work_days_count"`
	TotalHoursWithLunch    decimal.Decimal `json:"total_hours_with_lunch"`
	TotalHoursWithoutLunch decimal.Decimal `json:"total_hours_without_lunch"`
	GrossPay               decimal.Decimal `json:"gross_pay"`
	TaxAmount              decimal.Decimal `json:"tax_amount"`
	NetPay                 decimal.Decimal `json:"net_pay"`
	Advance                decimal.Decimal `json:"advance"`
	FinalPayout            decimal.Decimal `json:"final_payout"`
	Days                   []DayDTO        `json:"days"`
}

// DayDTO is one entry's share of the summary.
type DayDTO struct {
	EntryDTO
	LunchMinutes decimal.Decimal `json:"lunch_minutes"`
	NetMinutes   decimal.Decimal `json:"net_minutes"`
}

func toSummaryDTO(s payroll.Summary) SummaryDTO {
	days := make([]DayDTO, len(s.Days))
	for i, d := range s.Days {
		days[i] = DayDTO{
			EntryDTO:     toEntryDTO(d.Entry),
			LunchMinutes: d.LunchMinutes,
			NetMinutes:   d.NetMinutes,
		}
	}
	return SummaryDTO{
		Month:                  s.Month.String(),
		HourlyRate:             s.HourlyRate,
		WorkDaysCount:          s.WorkDaysCount,
		TotalHoursWithLunch:    s.TotalHoursWithLunch,
		TotalHoursWithoutLunch: s.TotalHoursWithoutLunch,
		GrossPay:               s.GrossPay,
		TaxAmount:              s.TaxAmount,
		NetPay:                 s.NetPay,
		Advance:                s.Advance,
		FinalPayout:            s.FinalPayout,
		Days:                   days,
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
