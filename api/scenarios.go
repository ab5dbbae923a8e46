/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	work days and monthly rates. Each scenario demonstrates one aspect of
	the payroll calculation.

AVAILABLE SCENARIOS:

	march-2024:       Two long days, rate 200, advance 1000 (payout 2306)
	rate-inheritance: Rate set in January, worked in March, advance not carried
	short-shifts:     Shifts in every lunch tier, including a configured 1.5h lunch

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save global settings
 3. Save monthly rates
 4. Record work days through the payroll service

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "march-2024"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Entry and summary handlers
  - payroll/service.go: RecordDay, SaveMonthSettings
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/worktime/hours-engine/worktime"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "march-2024",
		Name:        "March 2024",
		Description: "09:00-18:00 and 09:00-21:00 at 200/h with a 1000 advance",
	},
	{
		ID:          "rate-inheritance",
		Name:        "Rate Inheritance",
		Description: "Rate saved in January applies to March; the advance does not",
	},
	{
		ID:          "short-shifts",
		Name:        "Short Shifts",
		Description: "One shift per lunch tier with a 1.5h configured lunch",
	},
}

type dayPlan struct {
	day        int
	start, end string
	comment    string
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.scenario()
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "march-2024":
		load = h.loadMarch2024Scenario
	case "rate-inheritance":
		load = h.loadRateInheritanceScenario
	case "short-shifts":
		load = h.loadShortShiftsScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("no scenario %q", req.ScenarioID))
		return
	}

	// Loads and resets run one at a time so a scenario never mixes with another.
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	log.Printf("[Scenarios] Loaded %s", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all entries and settings.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadMarch2024Scenario(ctx context.Context) error {
	march := worktime.NewYearMonth(2024, time.March)

	if err := h.Payroll.SaveSettings(ctx, worktime.DefaultSettings()); err != nil {
		return err
	}
	if err := h.saveRate(ctx, march, 200, 1000); err != nil {
		return err
	}
	return h.recordDays(ctx, march, []dayPlan{
		{day: 5, start: "09:00", end: "18:00"},
		{day: 6, start: "09:00", end: "21:00", comment: "release"},
	})
}

func (h *Handler) loadRateInheritanceScenario(ctx context.Context) error {
	if err := h.saveRate(ctx, worktime.NewYearMonth(2024, time.January), 100, 500); err != nil {
		return err
	}
	return h.recordDays(ctx, worktime.NewYearMonth(2024, time.March), []dayPlan{
		{day: 4, start: "09:00", end: "18:00"},
		{day: 5, start: "10:00", end: "19:00"},
		{day: 6, start: "09:00", end: "13:00", comment: "half day"},
	})
}

func (h *Handler) loadShortShiftsScenario(ctx context.Context) error {
	april := worktime.NewYearMonth(2024, time.April)

	settings := worktime.Settings{LunchDurationHours: decimal.RequireFromString("1.5")}
	if err := h.Payroll.SaveSettings(ctx, settings); err != nil {
		return err
	}
	if err := h.saveRate(ctx, april, 150, 0); err != nil {
		return err
	}
	return h.recordDays(ctx, april, []dayPlan{
		{day: 1, start: "08:00", end: "20:30", comment: ">=12h: full lunch"},
		{day: 2, start: "09:00", end: "17:30", comment: "8-12h: full lunch"},
		{day: 3, start: "09:00", end: "13:00", comment: "3-8h: 30 minutes"},
		{day: 4, start: "09:00", end: "10:45", comment: "<3h: no lunch"},
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) scenario() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}

func (h *Handler) saveRate(ctx context.Context, month worktime.YearMonth, rate, advance int64) error {
	return h.Payroll.SaveMonthSettings(ctx, worktime.MonthlySetting{
		Month:      month,
		HourlyRate: decimal.NewFromInt(rate),
		Advance:    decimal.NewFromInt(advance),
	})
}

func (h *Handler) recordDays(ctx context.Context, month worktime.YearMonth, days []dayPlan) error {
	for _, d := range days {
		date := worktime.NewDate(month.Year, month.Month, d.day)
		if _, err := h.Payroll.RecordDay(ctx, date, d.start, d.end, d.comment); err != nil {
			return fmt.Errorf("failed to record %s: %w", date, err)
		}
	}
	return nil
}
