package loan

import "github.com/shopspring/decimal"

// =============================================================================
// REVERSE SOLVER - Target payment -> maximum supportable principal
// =============================================================================

// ReverseInput describes an affordability question: given a payment the
// borrower can sustain, how large a loan does it support? Home price and
// down payment are optional refinements. The reverse solve is
// monthly-only.
type ReverseInput struct {
	TargetPayment    decimal.Decimal
	HomePrice        *decimal.Decimal
	DownPaymentType  DownPaymentType
	DownPaymentValue *decimal.Decimal
	AnnualRate       decimal.Decimal // percent
	TermYears        int
}

// ReverseResult carries the solved maximums. MaxHomePrice and
// RequiredDownPayment are set only when the input supplies enough to
// derive them.
type ReverseResult struct {
	MaxLoanAmount       decimal.Decimal
	MaxHomePrice        *decimal.Decimal
	RequiredDownPayment *decimal.Decimal
	EstimatedPayment    decimal.Decimal
}

// ReverseSolver inverts the level-payment formula.
type ReverseSolver struct{}

// MaxAffordability solves for the maximum loan the target payment
// supports:
//
//	maxLoan = payment * ((1+r)^n - 1) / (r * (1+r)^n)
//
// and layers on home-price / down-payment derivations:
//   - home price supplied: required down payment = max(0, price - maxLoan)
//   - percentage down payment: maxHomePrice = maxLoan / (1 - pct/100)
//   - fixed down payment: maxHomePrice = maxLoan + fixed amount
func (ReverseSolver) MaxAffordability(input ReverseInput) (*ReverseResult, error) {
	if !input.TargetPayment.IsPositive() {
		return nil, &InvalidInputError{Field: "targetPayment", Reason: "target payment must be positive"}
	}
	if input.TermYears <= 0 {
		return nil, &InvalidInputError{Field: "loanTermYears", Reason: "term must be positive"}
	}
	if input.AnnualRate.IsNegative() {
		return nil, &InvalidInputError{Field: "interestRate", Reason: "rate must not be negative"}
	}

	periods := input.TermYears * FrequencyMonthly.PeriodsPerYear()
	rate := input.AnnualRate.Div(hundred).Div(decimal.NewFromInt(12))
	n := decimal.NewFromInt(int64(periods))

	var maxLoan decimal.Decimal
	if rate.IsZero() {
		maxLoan = input.TargetPayment.Mul(n)
	} else {
		compound := rate.Add(decimal.NewFromInt(1)).Pow(n)
		maxLoan = input.TargetPayment.Mul(compound.Sub(decimal.NewFromInt(1))).Div(rate.Mul(compound))
	}

	result := &ReverseResult{
		MaxLoanAmount:    maxLoan,
		EstimatedPayment: input.TargetPayment,
	}

	switch {
	case input.HomePrice != nil:
		required := input.HomePrice.Sub(maxLoan)
		if required.IsNegative() {
			required = decimal.Zero
		}
		result.RequiredDownPayment = &required

	case input.DownPaymentValue != nil:
		if input.DownPaymentType == DownPaymentPercentage {
			pct := input.DownPaymentValue.Div(hundred)
			if pct.GreaterThanOrEqual(decimal.NewFromInt(1)) {
				return nil, &InvalidInputError{Field: "downPaymentValue", Reason: "percentage must be below 100"}
			}
			price := maxLoan.Div(decimal.NewFromInt(1).Sub(pct))
			required := price.Mul(pct)
			result.MaxHomePrice = &price
			result.RequiredDownPayment = &required
		} else {
			price := maxLoan.Add(*input.DownPaymentValue)
			result.MaxHomePrice = &price
			result.RequiredDownPayment = input.DownPaymentValue
		}
	}

	return result, nil
}
