package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worktime/hours-engine/payroll"
	"github.com/worktime/hours-engine/store/memory"
	"github.com/worktime/hours-engine/store/sqlite"
	"github.com/worktime/hours-engine/worktime"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func minutes(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: got %s, want %s", field, got, want)
}

var march2024 = worktime.NewYearMonth(2024, time.March)

// =============================================================================
// LUNCH DEDUCTION TESTS
// =============================================================================

func TestLunchPolicy_Tiers(t *testing.T) {
	policy := payroll.NewLunchPolicy(dec("1.0"))

	tests := []struct {
		duration   int64
		wantDeduct string
		wantNet    string
	}{
		{700, "60", "640"},
		{500, "60", "440"},
		{200, "30", "170"},
		{100, "0", "100"},

		// boundaries
		{720, "60", "660"},
		{719, "60", "659"},
		{480, "60", "420"},
		{479, "30", "449"},
		{180, "30", "150"},
		{179, "0", "179"},
		{0, "0", "0"},
	}
	for _, tt := range tests {
		assertDecimal(t, tt.wantDeduct, policy.Deduction(minutes(tt.duration)), "deduction")
		assertDecimal(t, tt.wantNet, policy.NetMinutes(minutes(tt.duration)), "net")
	}
}

func TestLunchPolicy_UsesConfiguredLunchOnLongDays(t *testing.T) {
	policy := payroll.NewLunchPolicy(dec("1.5"))

	assertDecimal(t, "90", policy.Deduction(minutes(800)), ">=12h")
	assertDecimal(t, "90", policy.Deduction(minutes(480)), "8-12h")
	assertDecimal(t, "30", policy.Deduction(minutes(300)), "3-8h is fixed")
}

func TestLunchPolicy_NetNeverNegative(t *testing.T) {
	// GIVEN: A configured lunch longer than the shift
	// THEN: Net minutes clamp at zero
	policy := payroll.NewLunchPolicy(dec("10"))

	assertDecimal(t, "0", policy.NetMinutes(minutes(500)), "net")
}

// =============================================================================
// CALCULATOR TESTS
// =============================================================================

func entry(t *testing.T, day int, start, end string) worktime.WorkEntry {
	e, err := worktime.NewWorkEntry(worktime.NewDate(2024, time.March, day), start, end, "")
	require.NoError(t, err)
	return e
}

func TestCalculate_EndToEndScenario(t *testing.T) {
	// GIVEN: 09:00-18:00 and 09:00-21:00, lunch 1h, rate 200, advance 1000
	// THEN:  8h + 11h = 19h net, gross 3800, tax 494, net 3306, payout 2306

	entries := []worktime.WorkEntry{
		entry(t, 5, "09:00", "18:00"),
		entry(t, 6, "09:00", "21:00"),
	}
	rates := worktime.MonthlySetting{Month: march2024, HourlyRate: dec("200"), Advance: dec("1000")}

	s := payroll.Calculate(march2024, entries, rates, worktime.DefaultSettings())

	assert.Equal(t, 2, s.WorkDaysCount)
	assertDecimal(t, "21", s.TotalHoursWithLunch, "hours with lunch")
	assertDecimal(t, "19", s.TotalHoursWithoutLunch, "hours without lunch")
	assertDecimal(t, "3800", s.GrossPay, "gross")
	assertDecimal(t, "494", s.TaxAmount, "tax")
	assertDecimal(t, "3306", s.NetPay, "net")
	assertDecimal(t, "1000", s.Advance, "advance")
	assertDecimal(t, "2306", s.FinalPayout, "payout")

	require.Len(t, s.Days, 2)
	assertDecimal(t, "540", s.Days[0].DurationMinutes, "day1 raw")
	assertDecimal(t, "60", s.Days[0].LunchMinutes, "day1 lunch")
	assertDecimal(t, "480", s.Days[0].NetMinutes, "day1 net")
	assertDecimal(t, "660", s.Days[1].NetMinutes, "day2 net")
}

func TestCalculate_EmptyMonth_AllZero(t *testing.T) {
	rates := worktime.MonthlySetting{Month: march2024, HourlyRate: decimal.Zero, Advance: decimal.Zero}

	s := payroll.Calculate(march2024, nil, rates, worktime.DefaultSettings())

	assert.Equal(t, 0, s.WorkDaysCount)
	for name, v := range map[string]decimal.Decimal{
		"hours with lunch":    s.TotalHoursWithLunch,
		"hours without lunch": s.TotalHoursWithoutLunch,
		"gross":               s.GrossPay,
		"tax":                 s.TaxAmount,
		"net":                 s.NetPay,
		"advance":             s.Advance,
		"payout":              s.FinalPayout,
	} {
		assert.True(t, v.IsZero(), "%s should be zero, got %s", name, v)
	}
	assert.Empty(t, s.Days)
}

func TestCalculate_RoundsToCents(t *testing.T) {
	// 09:00-16:10 = 430 min -> minus 30 = 400 min = 6.666... h
	entries := []worktime.WorkEntry{entry(t, 4, "09:00", "16:10")}
	rates := worktime.MonthlySetting{Month: march2024, HourlyRate: dec("100"), Advance: dec("0")}

	s := payroll.Calculate(march2024, entries, rates, worktime.DefaultSettings())

	assertDecimal(t, "7.17", s.TotalHoursWithLunch, "hours with lunch")
	assertDecimal(t, "6.67", s.TotalHoursWithoutLunch, "hours without lunch")
	assertDecimal(t, "666.67", s.GrossPay, "gross")
	assertDecimal(t, "86.67", s.TaxAmount, "tax")
	assertDecimal(t, "580", s.NetPay, "net")
	assertDecimal(t, "580", s.FinalPayout, "payout")
}

func TestCalculate_IsDeterministic(t *testing.T) {
	entries := []worktime.WorkEntry{
		entry(t, 1, "07:13", "19:59"),
		entry(t, 2, "09:00", "11:00"),
		entry(t, 3, "10:00", "14:17"),
	}
	rates := worktime.MonthlySetting{Month: march2024, HourlyRate: dec("187.35"), Advance: dec("333.33")}
	settings := worktime.Settings{LunchDurationHours: dec("0.75")}

	first := payroll.Calculate(march2024, entries, rates, settings)
	second := payroll.Calculate(march2024, entries, rates, settings)

	assert.Equal(t, first, second)
}

// =============================================================================
// SERVICE TESTS
// =============================================================================

func newServices(t *testing.T) map[string]*payroll.Service {
	sq, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]*payroll.Service{
		"sqlite": payroll.NewService(sq),
		"memory": payroll.NewService(memory.New()),
	}
}

func TestService_MonthlySummary_EndToEnd(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := svc.RecordDay(ctx, worktime.NewDate(2024, time.March, 5), "09:00", "18:00", "")
			require.NoError(t, err)
			_, err = svc.RecordDay(ctx, worktime.NewDate(2024, time.March, 6), "09:00", "21:00", "late")
			require.NoError(t, err)
			// Outside the month, must not count
			_, err = svc.RecordDay(ctx, worktime.NewDate(2024, time.April, 1), "09:00", "21:00", "")
			require.NoError(t, err)

			require.NoError(t, svc.SaveSettings(ctx, worktime.Settings{LunchDurationHours: dec("1.0")}))
			require.NoError(t, svc.SaveMonthSettings(ctx, worktime.MonthlySetting{
				Month: march2024, HourlyRate: dec("200"), Advance: dec("1000"),
			}))

			s, err := svc.MonthlySummary(ctx, march2024)
			require.NoError(t, err)

			assert.Equal(t, 2, s.WorkDaysCount)
			assertDecimal(t, "19", s.TotalHoursWithoutLunch, "hours")
			assertDecimal(t, "3800", s.GrossPay, "gross")
			assertDecimal(t, "494", s.TaxAmount, "tax")
			assertDecimal(t, "3306", s.NetPay, "net")
			assertDecimal(t, "2306", s.FinalPayout, "payout")

			again, err := svc.MonthlySummary(ctx, march2024)
			require.NoError(t, err)
			assert.Equal(t, s, again, "summary must be a pure function of stored state")
		})
	}
}

func TestService_MonthlySummary_InheritsRateButNotAdvance(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, svc.SaveMonthSettings(ctx, worktime.MonthlySetting{
				Month: worktime.NewYearMonth(2024, time.January), HourlyRate: dec("100"), Advance: dec("500"),
			}))
			_, err := svc.RecordDay(ctx, worktime.NewDate(2024, time.March, 5), "09:00", "18:00", "")
			require.NoError(t, err)

			s, err := svc.MonthlySummary(ctx, march2024)
			require.NoError(t, err)

			assertDecimal(t, "100", s.HourlyRate, "rate")
			assertDecimal(t, "0", s.Advance, "advance")
			assertDecimal(t, "800", s.GrossPay, "gross")
			assertDecimal(t, "696", s.FinalPayout, "payout")
		})
	}
}

func TestService_EmptyMonth_NoSettings(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			s, err := svc.MonthlySummary(context.Background(), march2024)
			require.NoError(t, err)
			assert.Equal(t, 0, s.WorkDaysCount)
			assert.True(t, s.FinalPayout.IsZero())
			assert.True(t, s.GrossPay.IsZero())
		})
	}
}

func TestService_RejectsInvalidInput(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			march5 := worktime.NewDate(2024, time.March, 5)

			_, err := svc.RecordDay(ctx, march5, "18:00", "09:00", "")
			assert.ErrorIs(t, err, worktime.ErrInvalidTimeRange)

			_, err = svc.RecordDay(ctx, march5, "09:00", "09:00", "")
			assert.ErrorIs(t, err, worktime.ErrInvalidTimeRange)

			_, err = svc.MonthlySummary(ctx, worktime.NewYearMonth(2024, 13))
			assert.ErrorIs(t, err, worktime.ErrInvalidMonth)

			err = svc.SaveMonthSettings(ctx, worktime.MonthlySetting{
				Month: march2024, HourlyRate: dec("-1"), Advance: decimal.Zero,
			})
			assert.ErrorIs(t, err, worktime.ErrNegativeAmount)

			entries, err := svc.Entries(ctx, worktime.YearMonth{})
			require.NoError(t, err)
			assert.Empty(t, entries, "rejected input must not reach the store")
		})
	}
}

func TestService_DeleteMissingDay_NoError(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			march5 := worktime.NewDate(2024, time.March, 5)

			require.NoError(t, svc.DeleteDay(ctx, march5))

			_, err := svc.Entry(ctx, march5)
			assert.True(t, worktime.IsNotFound(err))
		})
	}
}
