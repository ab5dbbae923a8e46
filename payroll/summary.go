/*
summary.go - Monthly hours and pay aggregation

PURPOSE:
  Turns a month of work entries plus the resolved pay settings into the
  figures shown to the user. Pure: same inputs, identical Summary.

CALCULATION:
  For each entry:
    raw minutes  = end - start
    net minutes  = LunchPolicy.NetMinutes(raw)

  Then:
    hours_with_lunch    = sum(raw) / 60
    hours_without_lunch = sum(net) / 60
    gross_pay           = hours_without_lunch x hourly_rate
    tax_amount          = gross_pay x 13%
    net_pay             = gross_pay - tax_amount
    final_payout        = net_pay - advance

ROUNDING:
  Hours and money are rounded to 2 decimals for display, after all
  arithmetic is done on exact values. Gross pay is computed from minutes
  (minutes x rate / 60) so no rounded hour figure leaks into money.

EMPTY MONTH:
  No entries is not an error. Every figure is zero except final_payout,
  which is -advance (zero when no advance was paid).

SEE ALSO:
  - lunch.go: Lunch deduction tiers
  - service.go: Loads inputs from the store
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/worktime/hours-engine/worktime"
)

// TaxRate is the flat income tax withheld from gross pay.
var TaxRate = decimal.RequireFromString("0.13")

// displayPlaces is the rounding applied to hours and money.
const displayPlaces = 2

// =============================================================================
// SUMMARY
// =============================================================================

// Summary is the monthly aggregate of hours and pay.
type Summary struct {
	Month      worktime.YearMonth
	HourlyRate decimal.Decimal

	WorkDaysCount          int
	TotalHoursWithLunch    decimal.Decimal
	TotalHoursWithoutLunch decimal.Decimal

	GrossPay    decimal.Decimal
	TaxAmount   decimal.Decimal
	NetPay      decimal.Decimal
	Advance     decimal.Decimal
	FinalPayout decimal.Decimal

	// Days lists each entry with its own deduction, in date order.
	Days []DaySummary
}

// DaySummary is one entry's contribution to the month.
type DaySummary struct {
	Entry           worktime.WorkEntry
	DurationMinutes decimal.Decimal
	LunchMinutes    decimal.Decimal
	NetMinutes      decimal.Decimal
}

// Calculate aggregates entries into a Summary. The entries are expected to
// belong to month (one per date, as the store guarantees).
func Calculate(month worktime.YearMonth, entries []worktime.WorkEntry, rates worktime.MonthlySetting, settings worktime.Settings) Summary {
	policy := NewLunchPolicy(settings.LunchDurationHours)

	var (
		rawMinutes = decimal.Zero
		netMinutes = decimal.Zero
		days       = make([]DaySummary, 0, len(entries))
	)

	for _, e := range entries {
		duration := e.DurationMinutes()
		net := policy.NetMinutes(duration)

		rawMinutes = rawMinutes.Add(duration)
		netMinutes = netMinutes.Add(net)

		days = append(days, DaySummary{
			Entry:           e,
			DurationMinutes: duration,
			LunchMinutes:    duration.Sub(net),
			NetMinutes:      net,
		})
	}

	gross := netMinutes.Mul(rates.HourlyRate).Div(sixty)
	tax := gross.Mul(TaxRate)
	net := gross.Sub(tax)
	final := net.Sub(rates.Advance)

	return Summary{
		Month:                  month,
		HourlyRate:             rates.HourlyRate,
		WorkDaysCount:          len(entries),
		TotalHoursWithLunch:    rawMinutes.Div(sixty).Round(displayPlaces),
		TotalHoursWithoutLunch: netMinutes.Div(sixty).Round(displayPlaces),
		GrossPay:               gross.Round(displayPlaces),
		TaxAmount:              tax.Round(displayPlaces),
		NetPay:                 net.Round(displayPlaces),
		Advance:                rates.Advance.Round(displayPlaces),
		FinalPayout:            final.Round(displayPlaces),
		Days:                   days,
	}
}
