/*
lunch.go - Tiered lunch deduction

PURPOSE:
  Decides how many minutes of a work day are lunch and therefore unpaid.
  The deduction depends on how long the day was, not on when lunch
  actually happened.

TIERS (first match wins, evaluated top-down):
  worked >= 12h    full configured lunch (lunch_duration_hours x 60)
  worked >= 8h     full configured lunch
  worked >= 3h     30 minutes
  otherwise        nothing

  The 12h and 8h tiers deduct the same amount today. They stay separate
  so either can change without re-deriving the boundaries.

CLAMPING:
  Net minutes never go below zero, even if a configured lunch is longer
  than the shift it is deducted from.

EXAMPLE (lunch_duration_hours = 1.0):
  700 min -> 640    500 min -> 440    200 min -> 170    100 min -> 100

SEE ALSO:
  - summary.go: Applies the policy to every entry of a month
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LUNCH TIERS
// =============================================================================

// LunchTier deducts lunch from days of at least AtLeastMinutes.
type LunchTier struct {
	AtLeastMinutes int64

	// FullLunch deducts the configured lunch duration. Otherwise
	// FixedMinutes is deducted.
	FullLunch    bool
	FixedMinutes int64
}

// StandardLunchTiers is the business rule applied to every work day.
var StandardLunchTiers = []LunchTier{
	{AtLeastMinutes: 12 * 60, FullLunch: true},
	{AtLeastMinutes: 8 * 60, FullLunch: true},
	{AtLeastMinutes: 3 * 60, FixedMinutes: 30},
}

// =============================================================================
// LUNCH POLICY
// =============================================================================

// LunchPolicy applies lunch tiers with a configured lunch duration.
type LunchPolicy struct {
	// LunchDurationHours is the full lunch, in hours.
	LunchDurationHours decimal.Decimal
	Tiers              []LunchTier
}

// NewLunchPolicy returns the standard tiered policy for the given lunch length.
func NewLunchPolicy(lunchDurationHours decimal.Decimal) LunchPolicy {
	return LunchPolicy{LunchDurationHours: lunchDurationHours, Tiers: StandardLunchTiers}
}

// Deduction returns the lunch minutes to subtract from a day of durationMinutes.
func (p LunchPolicy) Deduction(durationMinutes decimal.Decimal) decimal.Decimal {
	for _, tier := range p.Tiers {
		if durationMinutes.LessThan(decimal.NewFromInt(tier.AtLeastMinutes)) {
			continue
		}
		if tier.FullLunch {
			return p.LunchDurationHours.Mul(sixty)
		}
		return decimal.NewFromInt(tier.FixedMinutes)
	}
	return decimal.Zero
}

// NetMinutes returns durationMinutes minus lunch, clamped at zero.
func (p LunchPolicy) NetMinutes(durationMinutes decimal.Decimal) decimal.Decimal {
	net := durationMinutes.Sub(p.Deduction(durationMinutes))
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

var sixty = decimal.NewFromInt(60)
