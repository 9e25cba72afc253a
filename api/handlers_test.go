/*
handlers_test.go - End-to-end tests for the API handlers

Tests run against the full router with an in-memory store and the
static rate provider.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/rates"
	"github.com/warp/mortgage-engine/store/sqlite"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewRouter(NewHandler(store, rates.Static{}))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func standardTermsRequest() TermsRequest {
	return TermsRequest{
		HomePrice:        decimal.NewFromInt(375000),
		DownPaymentType:  "fixed",
		DownPaymentValue: decimal.NewFromInt(75000),
		AnnualRate:       decimal.RequireFromString("4.5"),
		TermYears:        30,
		Frequency:        "monthly",
		StartDate:        "2026-01-01",
	}
}

// =============================================================================
// MORTGAGE ENDPOINTS
// =============================================================================

func TestCalculateEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/mortgage/calculate", standardTermsRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	results := decode[ResultsDTO](t, rec)
	if !results.LoanAmount.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("loan amount = %s, want 300000", results.LoanAmount.String())
	}
	if results.RegularPayment.Sub(decimal.RequireFromString("1520.06")).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("payment = %s, want ~1520.06", results.RegularPayment.StringFixed(2))
	}
	if len(results.Schedule) != 360 {
		t.Errorf("schedule length = %d, want 360", len(results.Schedule))
	}
	if results.Schedule[0].Date != "2026-01-01" {
		t.Errorf("first payment date = %s", results.Schedule[0].Date)
	}
}

func TestCalculateEndpoint_InvalidTerms(t *testing.T) {
	router := setupRouter(t)

	bad := standardTermsRequest()
	bad.TermYears = 0
	rec := doJSON(t, router, http.MethodPost, "/api/mortgage/calculate", bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decode[ErrorResponse](t, rec)
	if resp.Error == "" {
		t.Error("error body should carry a message")
	}
}

func TestAffordabilityEndpoint(t *testing.T) {
	router := setupRouter(t)

	req := AffordabilityRequest{
		TargetPayment: decimal.RequireFromString("1520.06"),
		AnnualRate:    decimal.RequireFromString("4.5"),
		TermYears:     30,
	}
	rec := doJSON(t, router, http.MethodPost, "/api/affordability", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	result := decode[AffordabilityDTO](t, rec)
	diff := result.MaxLoanAmount.Sub(decimal.NewFromInt(300000)).Abs()
	if diff.GreaterThan(decimal.NewFromInt(5)) {
		t.Errorf("max loan = %s, want ~300000", result.MaxLoanAmount.StringFixed(2))
	}
}

// =============================================================================
// PREPAYMENT ENDPOINTS
// =============================================================================

func TestSimulateEndpoint(t *testing.T) {
	router := setupRouter(t)

	req := SimulateRequest{
		Terms: standardTermsRequest(),
		Strategy: StrategyRequest{
			Recurring: []RecurringPrepaymentDTO{
				{Amount: decimal.NewFromInt(200), Frequency: "monthly"},
			},
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/prepayments/simulate", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	sim := decode[SimulationDTO](t, rec)
	if !sim.InterestSaved.IsPositive() {
		t.Errorf("interest saved = %s, want positive", sim.InterestSaved.String())
	}
	if len(sim.Schedule) >= 360 {
		t.Errorf("modified schedule should be shorter than 360, got %d", len(sim.Schedule))
	}
	if len(sim.Events) == 0 {
		t.Error("expected prepayment events")
	}
}

func TestSimulateEndpoint_NonMonthlyRejected(t *testing.T) {
	router := setupRouter(t)

	terms := standardTermsRequest()
	terms.Frequency = "biweekly"
	rec := doJSON(t, router, http.MethodPost, "/api/prepayments/simulate", SimulateRequest{Terms: terms})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for biweekly simulation, got %d", rec.Code)
	}
}

func TestPlansEndpoint(t *testing.T) {
	router := setupRouter(t)

	req := PlansRequest{
		Terms:         standardTermsRequest(),
		MonthlyBudget: decimal.NewFromInt(800),
		RiskTolerance: "aggressive",
	}
	rec := doJSON(t, router, http.MethodPost, "/api/prepayments/plans", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	plans := decode[[]PlanDTO](t, rec)
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans for aggressive, got %d", len(plans))
	}
	if plans[0].ID != "conservative" || plans[2].ID != "aggressive" {
		t.Errorf("unexpected plan order: %s..%s", plans[0].ID, plans[2].ID)
	}
}

func TestPlansEndpoint_BudgetRequired(t *testing.T) {
	router := setupRouter(t)

	req := PlansRequest{Terms: standardTermsRequest(), RiskTolerance: "moderate"}
	rec := doJSON(t, router, http.MethodPost, "/api/prepayments/plans", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero budget, got %d", rec.Code)
	}
}

func TestTemplatesEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/prepayments/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	templates := decode[[]TemplateDTO](t, rec)
	if len(templates) == 0 {
		t.Fatal("expected a non-empty template catalog")
	}
}

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

func TestScenarioLifecycle(t *testing.T) {
	router := setupRouter(t)

	// Save
	save := SaveScenarioRequest{Name: "Baseline", Terms: standardTermsRequest()}
	rec := doJSON(t, router, http.MethodPost, "/api/scenarios", save)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[ScenarioDTO](t, rec)
	if created.ID == "" || created.Name != "Baseline" || created.Currency != "USD" {
		t.Fatalf("unexpected created scenario: %+v", created)
	}
	if !created.Results.LoanAmount.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("stored results loan amount = %s", created.Results.LoanAmount.String())
	}

	// List
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	list := decode[[]ScenarioDTO](t, rec)
	if len(list) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(list))
	}

	// Get
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Export
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/"+created.ID+"/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 export, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("export content type = %s", ct)
	}
	lines := strings.Count(rec.Body.String(), "\n")
	if lines != 361 {
		t.Errorf("expected 361 CSV lines (header + 360 rows), got %d", lines)
	}

	// Delete
	rec = doJSON(t, router, http.MethodDelete, "/api/scenarios/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCompareEndpoint_TracksSavedScenarios(t *testing.T) {
	router := setupRouter(t)

	low := standardTermsRequest()
	high := standardTermsRequest()
	high.AnnualRate = decimal.RequireFromString("5.5")

	doJSON(t, router, http.MethodPost, "/api/scenarios", SaveScenarioRequest{ID: "low", Name: "Low rate", Terms: low})
	doJSON(t, router, http.MethodPost, "/api/scenarios", SaveScenarioRequest{ID: "high", Name: "High rate", Terms: high})

	rec := doJSON(t, router, http.MethodGet, "/api/compare", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	columns := decode[[]ComparisonDTO](t, rec)
	if len(columns) != 2 {
		t.Fatalf("expected 2 comparison columns, got %d", len(columns))
	}
	if columns[0].ID != "low" || columns[1].ID != "high" {
		t.Errorf("comparison should preserve insertion order: %s, %s", columns[0].ID, columns[1].ID)
	}
	if !columns[0].TotalInterest.LessThan(columns[1].TotalInterest) {
		t.Error("lower rate should show less total interest")
	}

	// Clear empties both the store and the comparison set
	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 clear, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/compare", nil)
	if len(decode[[]ComparisonDTO](t, rec)) != 0 {
		t.Error("comparison set should be empty after clear")
	}
	rec = doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	if len(decode[[]ScenarioDTO](t, rec)) != 0 {
		t.Error("scenario list should be empty after clear")
	}
}

func TestSaveScenario_UnknownCurrencyRejected(t *testing.T) {
	router := setupRouter(t)

	save := SaveScenarioRequest{Name: "Bad", Currency: "XXX", Terms: standardTermsRequest()}
	rec := doJSON(t, router, http.MethodPost, "/api/scenarios", save)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown currency, got %d", rec.Code)
	}
}

// =============================================================================
// RATES ENDPOINTS
// =============================================================================

func TestRatesEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/rates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	table := decode[RatesDTO](t, rec)
	if table.Base != "USD" {
		t.Errorf("default base = %s, want USD", table.Base)
	}
	if len(table.Quotes) == 0 {
		t.Error("expected quotes in the table")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/rates?base=XXX", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown base, got %d", rec.Code)
	}
}
