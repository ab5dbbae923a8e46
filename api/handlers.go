/*
handlers.go - HTTP API handlers for the work-hours tracker

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the payroll service.

ENDPOINTS:
  Entries:
    GET    /api/entries                   List all entries (?month=YYYY-MM to filter)
    GET    /api/entries/{date}            Get the entry for a date
    PUT    /api/entries/{date}            Create or replace the entry for a date
    DELETE /api/entries/{date}            Delete the entry for a date (no-op if absent)

  Months:
    GET    /api/months/{month}/settings   Resolved rate (inherited) and advance
    PUT    /api/months/{month}/settings   Save rate and advance for the month
    GET    /api/months/{month}/summary    Monthly hours and pay summary

  Settings:
    GET    /api/settings                  Global settings (lunch duration)
    PUT    /api/settings                  Update global settings

REQUEST FLOW:
  1. Parse path/query/body
  2. Call the payroll service (which validates before touching the store)
  3. Serialize response
  4. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (bad date, month, time range, negative amount)
  - 404: Entry not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/worktime/hours-engine/payroll"
	"github.com/worktime/hours-engine/store/sqlite"
	"github.com/worktime/hours-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Payroll *payroll.Service

	// mu guards currentScenario and serializes scenario loads and resets
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Payroll: payroll.NewService(store),
	}
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns all entries, or one month's with ?month=YYYY-MM.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	var month worktime.YearMonth
	if q := r.URL.Query().Get("month"); q != "" {
		m, err := worktime.ParseYearMonth(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
		month = m
	}

	entries, err := h.Payroll.Entries(r.Context(), month)
	if err != nil {
		writeDomainError(w, "Failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// GetEntry returns the entry for a date.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	entry, err := h.Payroll.Entry(r.Context(), date)
	if err != nil {
		writeDomainError(w, "Failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// UpsertEntry creates or replaces the entry for a date.
func (h *Handler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req UpsertEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.Payroll.RecordDay(r.Context(), date, req.Start, req.End, req.Comment)
	if err != nil {
		writeDomainError(w, "Failed to save entry", err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// DeleteEntry removes the entry for a date. Missing entries are not an error.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := h.Payroll.DeleteDay(r.Context(), date); err != nil {
		writeDomainError(w, "Failed to delete entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// MONTH HANDLERS
// =============================================================================

// GetMonthSettings returns the resolved rate and advance for a month.
func (h *Handler) GetMonthSettings(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	settings, err := h.Payroll.MonthSettings(r.Context(), month)
	if err != nil {
		writeDomainError(w, "Failed to get month settings", err)
		return
	}

	writeJSON(w, http.StatusOK, toMonthSettingsDTO(settings))
}

// SaveMonthSettings stores the rate and advance for a month.
func (h *Handler) SaveMonthSettings(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	var req SaveMonthSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	current, err := h.Payroll.MonthSettings(ctx, month)
	if err != nil {
		writeDomainError(w, "Failed to get month settings", err)
		return
	}

	setting := worktime.MonthlySetting{
		Month:      month,
		HourlyRate: current.HourlyRate,
		Advance:    current.Advance,
	}
	if req.HourlyRate.Valid {
		setting.HourlyRate = req.HourlyRate.Decimal
	}
	if req.Advance.Valid {
		setting.Advance = req.Advance.Decimal
	}
	if err := h.Payroll.SaveMonthSettings(ctx, setting); err != nil {
		writeDomainError(w, "Failed to save month settings", err)
		return
	}

	settings, err := h.Payroll.MonthSettings(ctx, month)
	if err != nil {
		writeDomainError(w, "Failed to get month settings", err)
		return
	}

	writeJSON(w, http.StatusOK, toMonthSettingsDTO(settings))
}

// GetSummary returns the monthly summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	summary, err := h.Payroll.MonthlySummary(r.Context(), month)
	if err != nil {
		writeDomainError(w, "Failed to calculate summary", err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// =============================================================================
// GLOBAL SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the global settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Payroll.Settings(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to load settings", err)
		return
	}

	writeJSON(w, http.StatusOK, SettingsDTO{LunchDurationHours: settings.LunchDurationHours})
}

// SaveSettings replaces the global settings.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.LunchDurationHours.Valid {
		writeDomainError(w, "Missing setting", &worktime.SettingError{
			Key: worktime.SettingLunchDurationHours,
			Err: worktime.ErrInvalidSetting,
		})
		return
	}

	settings := worktime.Settings{LunchDurationHours: req.LunchDurationHours.Decimal}
	if err := h.Payroll.SaveSettings(r.Context(), settings); err != nil {
		writeDomainError(w, "Failed to save settings", err)
		return
	}

	writeJSON(w, http.StatusOK, SettingsDTO{LunchDurationHours: settings.LunchDurationHours})
}

// =============================================================================
// HELPERS
// =============================================================================

func dateParam(w http.ResponseWriter, r *http.Request) (worktime.Date, bool) {
	date, err := worktime.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return worktime.Date{}, false
	}
	return date, true
}

func monthParam(w http.ResponseWriter, r *http.Request) (worktime.YearMonth, bool) {
	month, err := worktime.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return worktime.YearMonth{}, false
	}
	return month, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error's classification.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case worktime.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case worktime.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		log.Printf("[API] %s: %v", message, err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
