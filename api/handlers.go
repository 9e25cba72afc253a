/*
handlers.go - HTTP API handlers for the mortgage engine

PURPOSE:
  Exposes the amortization and prepayment engines via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic.

ENDPOINTS:
  Mortgage:
    POST   /api/mortgage/calculate      Amortization schedule + summary
    POST   /api/affordability           Reverse solve from a payment budget

  Prepayments:
    POST   /api/prepayments/simulate    Run a strategy against a loan
    POST   /api/prepayments/plans       Generate smart plans from a budget
    GET    /api/prepayments/templates   Named prepayment presets

  Scenarios:
    GET    /api/scenarios               List saved scenarios
    POST   /api/scenarios               Save a scenario (computes results)
    GET    /api/scenarios/{id}          Get one scenario
    DELETE /api/scenarios/{id}          Delete a scenario
    GET    /api/scenarios/{id}/export   Download the schedule as CSV
    POST   /api/scenarios/clear         Delete all scenarios

  Comparison:
    GET    /api/compare                 Saved scenarios side by side

  Rates:
    GET    /api/rates                   Exchange rates (?base=USD)
    GET    /api/currencies              Supported currency catalog

REQUEST FLOW:
  1. Parse HTTP request
  2. Map DTOs onto the domain model
  3. Call domain logic (engine, simulator, solver)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 422: Simulation could not converge
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/mortgage-engine/compare"
	"github.com/warp/mortgage-engine/export"
	"github.com/warp/mortgage-engine/loan"
	"github.com/warp/mortgage-engine/prepay"
	"github.com/warp/mortgage-engine/rates"
	"github.com/warp/mortgage-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Rates   rates.Provider
	Compare *compare.Manager

	engine loan.Engine
	solver loan.ReverseSolver
}

// NewHandler creates a new handler with the given store and rate
// provider. The comparison set amortizes everything from the first of
// the current month so saved scenarios line up column for column.
func NewHandler(store *sqlite.Store, provider rates.Provider) *Handler {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &Handler{
		Store:   store,
		Rates:   provider,
		Compare: compare.NewManager(start),
	}
}

// LoadScenarios populates the comparison set from the database.
// Scenarios whose stored terms no longer compute are skipped.
func (h *Handler) LoadScenarios(ctx context.Context) error {
	records, err := h.Store.ListScenarios(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		var termsReq TermsRequest
		if err := json.Unmarshal([]byte(record.TermsJSON), &termsReq); err != nil {
			continue
		}
		terms, _, err := termsReq.toTerms()
		if err != nil {
			continue
		}
		if _, err := h.Compare.Add(record.ID, record.Name, terms); err != nil {
			continue
		}
	}
	return nil
}

// =============================================================================
// MORTGAGE HANDLERS
// =============================================================================

// Calculate computes an amortization schedule.
// POST /api/mortgage/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req TermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	terms, start, err := req.toTerms()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid terms", err)
		return
	}

	results, err := h.engine.Calculate(terms, start)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultsDTO(results, true))
}

// Affordability reverse-solves a payment budget into a maximum loan.
// POST /api/affordability
func (h *Handler) Affordability(w http.ResponseWriter, r *http.Request) {
	var req AffordabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input := loan.ReverseInput{
		TargetPayment:    req.TargetPayment,
		AnnualRate:       req.AnnualRate,
		TermYears:        req.TermYears,
		HomePrice:        req.HomePrice,
		DownPaymentValue: req.DownPaymentValue,
	}
	if req.DownPaymentType != "" {
		input.DownPaymentType = loan.DownPaymentType(req.DownPaymentType)
	}

	result, err := h.solver.MaxAffordability(input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AffordabilityDTO{
		MaxLoanAmount:       result.MaxLoanAmount,
		MaxHomePrice:        result.MaxHomePrice,
		RequiredDownPayment: result.RequiredDownPayment,
		EstimatedPayment:    result.EstimatedPayment,
	})
}

// =============================================================================
// PREPAYMENT HANDLERS
// =============================================================================

// simulatorFor computes the base loan and wraps it in a simulator.
// Prepayment buckets are calendar months, so only monthly loans qualify.
func (h *Handler) simulatorFor(req TermsRequest) (*prepay.Simulator, error) {
	terms, start, err := req.toTerms()
	if err != nil {
		return nil, &loan.InvalidInputError{Field: "terms", Reason: err.Error()}
	}
	if terms.Frequency != loan.FrequencyMonthly {
		return nil, &loan.InvalidInputError{Field: "frequency", Reason: "prepayment simulation supports monthly loans only"}
	}

	results, err := h.engine.Calculate(terms, start)
	if err != nil {
		return nil, err
	}

	return prepay.NewSimulator(results.RegularPayment, terms.AnnualRate, results.Schedule), nil
}

// SimulatePrepayments runs a strategy against a loan.
// POST /api/prepayments/simulate
func (h *Handler) SimulatePrepayments(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sim, err := h.simulatorFor(req.Terms)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_, start, _ := req.Terms.toTerms()
	strategy, err := req.Strategy.toStrategy(start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid strategy", err)
		return
	}

	results, err := sim.Simulate(strategy)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSimulationDTO(results, true))
}

// GeneratePlans builds smart prepayment plans from a monthly budget.
// POST /api/prepayments/plans
func (h *Handler) GeneratePlans(w http.ResponseWriter, r *http.Request) {
	var req PlansRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if !req.MonthlyBudget.IsPositive() {
		writeError(w, http.StatusBadRequest, "monthly_budget must be positive", nil)
		return
	}

	sim, err := h.simulatorFor(req.Terms)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	gen := prepay.PlanGenerator{Sim: sim}
	plans, err := gen.Generate(req.MonthlyBudget, prepay.RiskTier(req.RiskTolerance))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanDTOs(plans))
}

// ListTemplates returns the prepayment preset catalog.
// GET /api/prepayments/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	catalog := prepay.Templates()
	dtos := make([]TemplateDTO, len(catalog))
	for i, template := range catalog {
		dtos[i] = TemplateDTO{
			ID:            template.ID,
			Name:          template.Name,
			Description:   template.Description,
			DefaultAmount: template.DefaultAmount,
			Frequency:     string(template.Frequency),
			TimingMonth:   int(template.TimingMonth),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// SaveScenario computes and persists a named scenario.
// POST /api/scenarios
func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	var req SaveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	if _, ok := rates.Currencies[currency]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown currency %q", currency), nil)
		return
	}

	terms, start, err := req.Terms.toTerms()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid terms", err)
		return
	}

	results, err := h.engine.Calculate(terms, start)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id := req.ID
	if id == "" {
		id = fmt.Sprintf("scn-%d", time.Now().UnixNano())
	}

	termsJSON, err := json.Marshal(req.Terms)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode terms", err)
		return
	}
	// The schedule is recomputed on demand; only the summary persists.
	resultsJSON, err := json.Marshal(toResultsDTO(results, false))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode results", err)
		return
	}

	record := sqlite.ScenarioRecord{
		ID:          id,
		Name:        req.Name,
		Currency:    currency,
		TermsJSON:   string(termsJSON),
		ResultsJSON: string(resultsJSON),
	}
	if err := h.Store.SaveScenario(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save scenario", err)
		return
	}
	if _, err := h.Compare.Add(id, req.Name, terms); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add scenario to comparison", err)
		return
	}

	saved, err := h.Store.GetScenario(r.Context(), id)
	if err != nil || saved == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, toScenarioDTO(*saved))
}

// ListScenarios returns all saved scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, len(records))
	for i, record := range records {
		dtos[i] = toScenarioDTO(record)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetScenario returns one saved scenario.
// GET /api/scenarios/{id}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.Store.GetScenario(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get scenario", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toScenarioDTO(*record))
}

// DeleteScenario removes a saved scenario.
// DELETE /api/scenarios/{id}
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.Store.DeleteScenario(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete scenario", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}
	h.Compare.Remove(id)

	w.WriteHeader(http.StatusNoContent)
}

// ClearScenarios removes every saved scenario and empties the
// comparison set.
// POST /api/scenarios/clear
func (h *Handler) ClearScenarios(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear scenarios", err)
		return
	}
	h.Compare.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// CompareScenarios returns the comparison set in insertion order, one
// summary column per scenario.
// GET /api/compare
func (h *Handler) CompareScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios := h.Compare.List()
	dtos := make([]ComparisonDTO, len(scenarios))
	for i, scenario := range scenarios {
		dtos[i] = ComparisonDTO{
			ID:             scenario.ID,
			Label:          scenario.Label,
			LoanAmount:     scenario.Results.LoanAmount,
			RegularPayment: scenario.Results.RegularPayment,
			TotalInterest:  scenario.Results.TotalInterest,
			TotalAmount:    scenario.Results.TotalAmount,
			TotalPayments:  scenario.Results.TotalPayments,
			PayoffDate:     scenario.Results.PayoffDate.Format("2006-01-02"),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportScenario streams a scenario's schedule as CSV. The schedule is
// recomputed from the stored terms.
// GET /api/scenarios/{id}/export
func (h *Handler) ExportScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.Store.GetScenario(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get scenario", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}

	var termsReq TermsRequest
	if err := json.Unmarshal([]byte(record.TermsJSON), &termsReq); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored terms are unreadable", err)
		return
	}
	terms, start, err := termsReq.toTerms()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored terms are invalid", err)
		return
	}

	results, err := h.engine.Calculate(terms, start)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-schedule.csv"`, record.ID))
	if err := export.WriteSchedule(w, results.Schedule); err != nil {
		// Headers are already out; nothing sensible left to send.
		return
	}
}

// =============================================================================
// RATES HANDLERS
// =============================================================================

// GetRates returns the exchange-rate table for a base currency.
// GET /api/rates?base=USD
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = "USD"
	}

	table, err := h.Rates.Rates(r.Context(), base)
	if err != nil {
		if errors.Is(err, rates.ErrUnknownCurrency) {
			writeError(w, http.StatusBadRequest, "Unknown base currency", err)
			return
		}
		writeError(w, http.StatusBadGateway, "Rates unavailable", err)
		return
	}

	writeJSON(w, http.StatusOK, RatesDTO{
		Base:   table.Base,
		Date:   table.Date,
		Quotes: table.Quotes,
	})
}

// ListCurrencies returns the supported currency catalog.
// GET /api/currencies
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	dtos := make([]CurrencyDTO, 0, len(rates.Currencies))
	for _, currency := range rates.Currencies {
		dtos = append(dtos, CurrencyDTO{
			Code:     currency.Code,
			Symbol:   currency.Symbol,
			Name:     currency.Name,
			Decimals: currency.Decimals,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResetDatabase clears all saved data (dev only).
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.Compare.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func toScenarioDTO(record sqlite.ScenarioRecord) ScenarioDTO {
	dto := ScenarioDTO{
		ID:        record.ID,
		Name:      record.Name,
		Currency:  record.Currency,
		CreatedAt: record.CreatedAt.Format(time.RFC3339),
		UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
	}
	json.Unmarshal([]byte(record.TermsJSON), &dto.Terms)
	json.Unmarshal([]byte(record.ResultsJSON), &dto.Results)
	return dto
}

// writeDomainError maps engine errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loan.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, loan.ErrNonConvergence):
		writeError(w, http.StatusUnprocessableEntity, "Simulation did not converge", err)
	default:
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
	}
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
