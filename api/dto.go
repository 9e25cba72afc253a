/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  All monetary fields are decimal.Decimal and serialize as JSON strings,
  so clients never see float artifacts.

VALIDATION:
  Structural validation (parse errors, date formats) is done in handlers;
  domain validation lives in loan.Terms.Validate.

SEE ALSO:
  - handlers.go: Uses these types
  - loan/types.go: The domain model these map onto
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/loan"
	"github.com/warp/mortgage-engine/prepay"
)

// =============================================================================
// LOAN TERMS
// =============================================================================

// TermsRequest is the loan description shared by every computing
// endpoint.
type TermsRequest struct {
	HomePrice        decimal.Decimal `json:"home_price"`
	DownPaymentType  string          `json:"down_payment_type"` // percentage | fixed
	DownPaymentValue decimal.Decimal `json:"down_payment_value"`
	AnnualRate       decimal.Decimal `json:"annual_rate"` // percent, e.g. "4.5"
	TermYears        int             `json:"term_years"`
	Frequency        string          `json:"frequency,omitempty"` // default monthly
	ExtraPayment     decimal.Decimal `json:"extra_payment,omitempty"`
	StartDate        string          `json:"start_date,omitempty"` // YYYY-MM-DD, default today
}

// toTerms maps the request onto the domain model. Domain validation
// happens later inside the engine.
func (r TermsRequest) toTerms() (loan.Terms, time.Time, error) {
	frequency := loan.FrequencyMonthly
	if r.Frequency != "" {
		parsed, err := loan.ParseFrequency(r.Frequency)
		if err != nil {
			return loan.Terms{}, time.Time{}, err
		}
		frequency = parsed
	}

	downType := loan.DownPaymentPercentage
	if r.DownPaymentType != "" {
		switch loan.DownPaymentType(r.DownPaymentType) {
		case loan.DownPaymentPercentage, loan.DownPaymentFixed:
			downType = loan.DownPaymentType(r.DownPaymentType)
		default:
			return loan.Terms{}, time.Time{}, fmt.Errorf("unknown down_payment_type %q", r.DownPaymentType)
		}
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if r.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return loan.Terms{}, time.Time{}, fmt.Errorf("invalid start_date (use YYYY-MM-DD): %w", err)
		}
		start = parsed
	}

	return loan.Terms{
		HomePrice:        r.HomePrice,
		DownPaymentType:  downType,
		DownPaymentValue: r.DownPaymentValue,
		AnnualRate:       r.AnnualRate,
		TermYears:        r.TermYears,
		Frequency:        frequency,
		ExtraPayment:     r.ExtraPayment,
	}, start, nil
}

// PaymentDTO is one row of an amortization schedule.
type PaymentDTO struct {
	Number         int             `json:"number"`
	Date           string          `json:"date"`
	Payment        decimal.Decimal `json:"payment"`
	Principal      decimal.Decimal `json:"principal"`
	Interest       decimal.Decimal `json:"interest"`
	Extra          decimal.Decimal `json:"extra,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
}

// ResultsDTO is the computed loan summary plus its schedule.
type ResultsDTO struct {
	HomePrice         decimal.Decimal `json:"home_price"`
	DownPaymentAmount decimal.Decimal `json:"down_payment_amount"`
	LoanAmount        decimal.Decimal `json:"loan_amount"`
	RegularPayment    decimal.Decimal `json:"regular_payment"`
	TotalPayments     int             `json:"total_payments"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	PayoffDate        string          `json:"payoff_date"`
	Schedule          []PaymentDTO    `json:"schedule,omitempty"`
}

func toResultsDTO(results *loan.Results, withSchedule bool) ResultsDTO {
	dto := ResultsDTO{
		HomePrice:         results.HomePrice,
		DownPaymentAmount: results.DownPaymentAmount,
		LoanAmount:        results.LoanAmount,
		RegularPayment:    results.RegularPayment,
		TotalPayments:     results.TotalPayments,
		TotalAmount:       results.TotalAmount,
		TotalInterest:     results.TotalInterest,
		PayoffDate:        results.PayoffDate.Format("2006-01-02"),
	}
	if withSchedule {
		dto.Schedule = toScheduleDTO(results.Schedule)
	}
	return dto
}

func toScheduleDTO(schedule loan.Schedule) []PaymentDTO {
	dtos := make([]PaymentDTO, len(schedule))
	for i, record := range schedule {
		dtos[i] = PaymentDTO{
			Number:         record.Number,
			Date:           record.Date.Format("2006-01-02"),
			Payment:        record.Payment,
			Principal:      record.Principal,
			Interest:       record.Interest,
			Extra:          record.Extra,
			Balance:        record.Balance,
			TotalPrincipal: record.TotalPrincipal,
			TotalInterest:  record.TotalInterest,
		}
	}
	return dtos
}

// =============================================================================
// PREPAYMENTS
// =============================================================================

// RecurringPrepaymentDTO is a repeating extra payment in a strategy.
type RecurringPrepaymentDTO struct {
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"` // monthly | quarterly | annually
	StartDate string          `json:"start_date,omitempty"`
	EndDate   string          `json:"end_date,omitempty"`
}

// OneTimePrepaymentDTO is a single dated extra payment.
type OneTimePrepaymentDTO struct {
	ID          string          `json:"id,omitempty"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// StrategyRequest is a prepayment strategy from the client.
type StrategyRequest struct {
	Recurring []RecurringPrepaymentDTO `json:"recurring,omitempty"`
	OneTime   []OneTimePrepaymentDTO   `json:"one_time,omitempty"`
}

// toStrategy maps the request onto the domain strategy. Recurring
// payments without a start date begin at the loan start.
func (r StrategyRequest) toStrategy(loanStart time.Time) (prepay.Strategy, error) {
	strategy := prepay.Strategy{ID: "request", Enabled: true}

	for i, recurring := range r.Recurring {
		start := loanStart
		if recurring.StartDate != "" {
			parsed, err := time.Parse("2006-01-02", recurring.StartDate)
			if err != nil {
				return prepay.Strategy{}, fmt.Errorf("recurring[%d]: invalid start_date: %w", i, err)
			}
			start = parsed
		}

		var end *time.Time
		if recurring.EndDate != "" {
			parsed, err := time.Parse("2006-01-02", recurring.EndDate)
			if err != nil {
				return prepay.Strategy{}, fmt.Errorf("recurring[%d]: invalid end_date: %w", i, err)
			}
			end = &parsed
		}

		strategy.Recurring = append(strategy.Recurring, prepay.RecurringPrepayment{
			Amount:    recurring.Amount,
			Frequency: prepay.RecurringFrequency(recurring.Frequency),
			StartDate: start,
			EndDate:   end,
		})
	}

	for i, oneTime := range r.OneTime {
		date, err := time.Parse("2006-01-02", oneTime.Date)
		if err != nil {
			return prepay.Strategy{}, fmt.Errorf("one_time[%d]: invalid date: %w", i, err)
		}
		id := oneTime.ID
		if id == "" {
			id = fmt.Sprintf("one-time-%d", i+1)
		}
		strategy.OneTime = append(strategy.OneTime, prepay.OneTimePrepayment{
			ID:          id,
			Date:        date,
			Amount:      oneTime.Amount,
			Description: oneTime.Description,
		})
	}

	return strategy, nil
}

// SimulateRequest runs a strategy against a loan.
type SimulateRequest struct {
	Terms    TermsRequest    `json:"terms"`
	Strategy StrategyRequest `json:"strategy"`
}

// PrepaymentEventDTO is a prepayment as applied during simulation.
type PrepaymentEventDTO struct {
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	InterestSaved decimal.Decimal `json:"interest_saved"`
}

// TimeSavedDTO expresses saved loan time.
type TimeSavedDTO struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// SimulationDTO is the outcome of a prepayment simulation.
type SimulationDTO struct {
	TotalPrepayments      decimal.Decimal      `json:"total_prepayments"`
	InterestSaved         decimal.Decimal      `json:"interest_saved"`
	TimeSaved             TimeSavedDTO         `json:"time_saved"`
	OriginalPayoffDate    string               `json:"original_payoff_date"`
	NewPayoffDate         string               `json:"new_payoff_date"`
	PaymentWithPrepayment decimal.Decimal      `json:"payment_with_prepayment"`
	Events                []PrepaymentEventDTO `json:"events"`
	Schedule              []PaymentDTO         `json:"schedule,omitempty"`
}

func toSimulationDTO(results *prepay.Results, withSchedule bool) SimulationDTO {
	events := make([]PrepaymentEventDTO, len(results.Events))
	for i, event := range results.Events {
		events[i] = PrepaymentEventDTO{
			Date:          event.Date.Format("2006-01-02"),
			Amount:        event.Amount,
			Type:          string(event.Type),
			Description:   event.Description,
			BalanceAfter:  event.BalanceAfter,
			InterestSaved: event.InterestSaved,
		}
	}

	dto := SimulationDTO{
		TotalPrepayments:      results.TotalPrepayments,
		InterestSaved:         results.InterestSaved,
		TimeSaved:             TimeSavedDTO{Years: results.TimeSaved.Years, Months: results.TimeSaved.Months},
		OriginalPayoffDate:    results.OriginalPayoffDate.Format("2006-01-02"),
		NewPayoffDate:         results.NewPayoffDate.Format("2006-01-02"),
		PaymentWithPrepayment: results.PaymentWithPrepayment,
		Events:                events,
	}
	if withSchedule {
		dto.Schedule = toScheduleDTO(results.ModifiedSchedule)
	}
	return dto
}

// =============================================================================
// SMART PLANS
// =============================================================================

// PlansRequest asks for generated prepayment plans.
type PlansRequest struct {
	Terms         TermsRequest    `json:"terms"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	RiskTolerance string          `json:"risk_tolerance"` // conservative | moderate | aggressive
}

// PlanOneTimeDTO is a one-time payment within a plan.
type PlanOneTimeDTO struct {
	MonthOffset int             `json:"month_offset"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// PlanDTO is a generated plan with its simulated savings.
type PlanDTO struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	MonthlyExtra       decimal.Decimal  `json:"monthly_extra"`
	OneTime            []PlanOneTimeDTO `json:"one_time,omitempty"`
	InterestSaved      decimal.Decimal  `json:"interest_saved"`
	TimeSaved          TimeSavedDTO     `json:"time_saved"`
	AffordabilityScore int              `json:"affordability_score"`
}

func toPlanDTOs(plans []prepay.Plan) []PlanDTO {
	dtos := make([]PlanDTO, len(plans))
	for i, plan := range plans {
		oneTime := make([]PlanOneTimeDTO, len(plan.OneTime))
		for j, payment := range plan.OneTime {
			oneTime[j] = PlanOneTimeDTO{
				MonthOffset: payment.MonthOffset,
				Amount:      payment.Amount,
				Description: payment.Description,
			}
		}
		dtos[i] = PlanDTO{
			ID:                 plan.ID,
			Name:               plan.Name,
			Description:        plan.Description,
			MonthlyExtra:       plan.MonthlyExtra,
			OneTime:            oneTime,
			InterestSaved:      plan.InterestSaved,
			TimeSaved:          TimeSavedDTO{Years: plan.TimeSaved.Years, Months: plan.TimeSaved.Months},
			AffordabilityScore: plan.AffordabilityScore,
		}
	}
	return dtos
}

// TemplateDTO is a named prepayment preset.
type TemplateDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	Frequency     string          `json:"frequency"`
	TimingMonth   int             `json:"timing_month,omitempty"`
}

// =============================================================================
// AFFORDABILITY
// =============================================================================

// AffordabilityRequest reverse-solves a payment budget into loan size.
type AffordabilityRequest struct {
	TargetPayment    decimal.Decimal  `json:"target_payment"`
	AnnualRate       decimal.Decimal  `json:"annual_rate"`
	TermYears        int              `json:"term_years"`
	HomePrice        *decimal.Decimal `json:"home_price,omitempty"`
	DownPaymentType  string           `json:"down_payment_type,omitempty"`
	DownPaymentValue *decimal.Decimal `json:"down_payment_value,omitempty"`
}

// AffordabilityDTO is the reverse-solver answer.
type AffordabilityDTO struct {
	MaxLoanAmount       decimal.Decimal  `json:"max_loan_amount"`
	MaxHomePrice        *decimal.Decimal `json:"max_home_price,omitempty"`
	RequiredDownPayment *decimal.Decimal `json:"required_down_payment,omitempty"`
	EstimatedPayment    decimal.Decimal  `json:"estimated_payment"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// SaveScenarioRequest persists a named scenario.
type SaveScenarioRequest struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Currency string       `json:"currency,omitempty"`
	Terms    TermsRequest `json:"terms"`
}

// ScenarioDTO is a saved scenario in API responses.
type ScenarioDTO struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Currency  string       `json:"currency"`
	Terms     TermsRequest `json:"terms"`
	Results   ResultsDTO   `json:"results"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// ComparisonDTO is one column of the side-by-side comparison view.
type ComparisonDTO struct {
	ID             string          `json:"id"`
	Label          string          `json:"label"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	RegularPayment decimal.Decimal `json:"regular_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalPayments  int             `json:"total_payments"`
	PayoffDate     string          `json:"payoff_date"`
}

// =============================================================================
// RATES
// =============================================================================

// RatesDTO is an exchange-rate table in API responses.
type RatesDTO struct {
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Quotes map[string]decimal.Decimal `json:"rates"`
}

// CurrencyDTO describes a supported currency.
type CurrencyDTO struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
