/*
handlers_test.go - Tests for API handlers

Tests for:
- Entry upsert, lookup, listing and delete
- Month settings with rate inheritance
- Monthly summary end to end
- Error status mapping (400/404)
- Scenario loading
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worktime/hours-engine/store/sqlite"
	"github.com/worktime/hours-engine/worktime"
)

func newTestRouter(t *testing.T) *chi.Mux {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewRouter(NewHandler(store), nil)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: got %s, want %s", field, got, want)
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestUpsertEntry_CreatesAndReplaces(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "09:00", End: "18:00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[EntryDTO](t, rec)
	assert.Equal(t, "2024-03-05", created.Date)
	assertDecimal(t, "540", created.DurationMinutes, "duration")

	// Same date again replaces the entry in place
	rec = do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "10:00", End: "12:00", Comment: "dentist"})
	require.Equal(t, http.StatusOK, rec.Code)
	replaced := decode[EntryDTO](t, rec)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, "10:00", replaced.Start)
	assert.Equal(t, "dentist", replaced.Comment)

	rec = do(t, router, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]EntryDTO](t, rec), 1)
}

func TestUpsertEntry_InvalidRange_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "18:00", End: "09:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.NotEmpty(t, resp.Details)

	rec = do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "9am", End: "18:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/entries/05.03.2024", UpsertEntryRequest{Start: "09:00", End: "18:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing reached the store
	rec = do(t, router, http.MethodGet, "/api/entries", nil)
	assert.Empty(t, decode[[]EntryDTO](t, rec))
}

func TestGetEntry_Missing_Returns404(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/entries/2024-03-05", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntry_MissingIsNoOp(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodDelete, "/api/entries/2024-03-05", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "09:00", End: "18:00"})
	rec = do(t, router, http.MethodDelete, "/api/entries/2024-03-05", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/entries/2024-03-05", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEntries_FiltersByMonth(t *testing.T) {
	router := newTestRouter(t)

	for _, date := range []string{"2024-04-01", "2024-03-05", "2024-03-31"} {
		rec := do(t, router, http.MethodPut, "/api/entries/"+date, UpsertEntryRequest{Start: "09:00", End: "17:00"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/api/entries?month=2024-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	march := decode[[]EntryDTO](t, rec)
	require.Len(t, march, 2)
	assert.Equal(t, "2024-03-05", march[0].Date)
	assert.Equal(t, "2024-03-31", march[1].Date)

	rec = do(t, router, http.MethodGet, "/api/entries?month=2024-13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// MONTHS
// =============================================================================

func TestMonthSettings_InheritsRateOnly(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/months/2024-01/settings", map[string]string{
		"hourly_rate": "100", "advance": "500",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/months/2024-03/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[MonthSettingsDTO](t, rec)
	assertDecimal(t, "100", got.HourlyRate, "rate")
	assertDecimal(t, "0", got.Advance, "advance")
	assert.True(t, got.RateInherited)
	assert.Equal(t, "2024-01", got.RateFrom)
}

func TestMonthSettings_OmittedRateKeepsEffectiveRate(t *testing.T) {
	// GIVEN: A rate saved in January and a work day in March
	router := newTestRouter(t)

	do(t, router, http.MethodPut, "/api/months/2024-01/settings", map[string]string{
		"hourly_rate": "100", "advance": "500",
	})
	do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "09:00", End: "18:00"})

	// WHEN: Only the March advance is saved
	rec := do(t, router, http.MethodPut, "/api/months/2024-03/settings", map[string]string{"advance": "200"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[MonthSettingsDTO](t, rec)
	assertDecimal(t, "100", got.HourlyRate, "rate")
	assertDecimal(t, "200", got.Advance, "advance")

	// THEN: The summary still pays the January rate
	rec = do(t, router, http.MethodGet, "/api/months/2024-03/summary", nil)
	s := decode[SummaryDTO](t, rec)
	assertDecimal(t, "100", s.HourlyRate, "summary rate")
	assertDecimal(t, "800", s.GrossPay, "gross")
	assertDecimal(t, "496", s.FinalPayout, "payout")

	// Omitting the advance keeps the month's own advance
	rec = do(t, router, http.MethodPut, "/api/months/2024-03/settings", map[string]string{"hourly_rate": "150"})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[MonthSettingsDTO](t, rec)
	assertDecimal(t, "150", got.HourlyRate, "rate")
	assertDecimal(t, "200", got.Advance, "advance")

	// January is untouched
	rec = do(t, router, http.MethodGet, "/api/months/2024-01/settings", nil)
	got = decode[MonthSettingsDTO](t, rec)
	assertDecimal(t, "100", got.HourlyRate, "january rate")
	assertDecimal(t, "500", got.Advance, "january advance")
}

func TestMonthSettings_NegativeRate_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/months/2024-03/settings", map[string]string{
		"hourly_rate": "-5", "advance": "0",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummary_EndToEnd(t *testing.T) {
	// GIVEN: Two days in March 2024, lunch 1h, rate 200, advance 1000
	router := newTestRouter(t)

	do(t, router, http.MethodPut, "/api/settings", map[string]string{"lunch_duration_hours": "1.0"})
	do(t, router, http.MethodPut, "/api/entries/2024-03-05", UpsertEntryRequest{Start: "09:00", End: "18:00"})
	do(t, router, http.MethodPut, "/api/entries/2024-03-06", UpsertEntryRequest{Start: "09:00", End: "21:00"})
	do(t, router, http.MethodPut, "/api/months/2024-03/settings", map[string]string{
		"hourly_rate": "200", "advance": "1000",
	})

	// WHEN: Requesting the summary
	rec := do(t, router, http.MethodGet, "/api/months/2024-03/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: 19 net hours, gross 3800, tax 494, net 3306, payout 2306
	s := decode[SummaryDTO](t, rec)
	assert.Equal(t, "2024-03", s.Month)
	assert.Equal(t, 2, s.WorkDaysCount)
	assertDecimal(t, "21", s.TotalHoursWithLunch, "hours with lunch")
	assertDecimal(t, "19", s.TotalHoursWithoutLunch, "hours without lunch")
	assertDecimal(t, "3800", s.GrossPay, "gross")
	assertDecimal(t, "494", s.TaxAmount, "tax")
	assertDecimal(t, "3306", s.NetPay, "net")
	assertDecimal(t, "2306", s.FinalPayout, "payout")
	require.Len(t, s.Days, 2)
	assertDecimal(t, "60", s.Days[1].LunchMinutes, "day 2 lunch")
	assertDecimal(t, "660", s.Days[1].NetMinutes, "day 2 net")
}

func TestGetSummary_BadMonth_Returns400(t *testing.T) {
	router := newTestRouter(t)

	for _, month := range []string{"2024-13", "2024-00", "march"} {
		rec := do(t, router, http.MethodGet, "/api/months/"+month+"/summary", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, month)
	}
}

// =============================================================================
// GLOBAL SETTINGS
// =============================================================================

func TestSettings_DefaultsAndUpdate(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assertDecimal(t, "1", decode[SettingsDTO](t, rec).LunchDurationHours, "default lunch")

	rec = do(t, router, http.MethodPut, "/api/settings", map[string]string{"lunch_duration_hours": "0.5"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/settings", nil)
	assertDecimal(t, "0.5", decode[SettingsDTO](t, rec).LunchDurationHours, "lunch")

	rec = do(t, router, http.MethodPut, "/api/settings", map[string]string{"lunch_duration_hours": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A missing field is rejected, not stored as zero
	rec = do(t, router, http.MethodPut, "/api/settings", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Details, worktime.SettingLunchDurationHours)

	rec = do(t, router, http.MethodGet, "/api/settings", nil)
	assertDecimal(t, "0.5", decode[SettingsDTO](t, rec).LunchDurationHours, "lunch after rejected update")
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/entries")
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestLoadScenario_March2024(t *testing.T) {
	router := newTestRouter(t)

	// Pre-existing data is cleared by the load
	do(t, router, http.MethodPut, "/api/entries/2024-03-20", UpsertEntryRequest{Start: "09:00", End: "18:00"})

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "march-2024"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/months/2024-03/summary", nil)
	s := decode[SummaryDTO](t, rec)
	assert.Equal(t, 2, s.WorkDaysCount)
	assertDecimal(t, "2306", s.FinalPayout, "payout")

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "march-2024", decode[ScenarioDTO](t, rec).ID)
}

func TestLoadScenario_AllScenariosLoad(t *testing.T) {
	router := newTestRouter(t)

	for _, s := range scenarios {
		rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: s.ID})
		assert.Equal(t, http.StatusOK, rec.Code, "%s: %s", s.ID, rec.Body.String())
	}

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadScenario_ConcurrentLoadsStayConsistent(t *testing.T) {
	router := newTestRouter(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "march-2024"})
			do(t, router, http.MethodGet, "/api/scenarios/current", nil)
			do(t, router, http.MethodPost, "/api/scenarios/reset", nil)
		}()
	}
	wg.Wait()

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "march-2024"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/entries?month=2024-03", nil)
	assert.Len(t, decode[[]EntryDTO](t, rec), 2)
	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "march-2024", decode[ScenarioDTO](t, rec).ID)
}

func TestResetDatabase(t *testing.T) {
	router := newTestRouter(t)

	do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "rate-inheritance"})
	rec := do(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/entries", nil)
	assert.Empty(t, decode[[]EntryDTO](t, rec))
}
