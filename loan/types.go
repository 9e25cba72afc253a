/*
Package loan provides the core amortization engine.

PURPOSE:
  This package contains the numeric heart of the system: level-payment
  derivation, period-by-period schedule generation, and the reverse
  (affordability) solve. Everything else in the repo - prepayment
  simulation, scenario comparison, the HTTP API - is layered on the
  types and algorithms defined here.

KEY CONCEPTS IN THIS FILE (types.go):
  - Frequency: How often payments occur (monthly, biweekly, weekly)
  - DownPayment: Percentage-of-price or fixed-amount down payment
  - Terms: Immutable loan parameters, validated before any loop runs

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift over
     hundreds of compounding periods (a 50-year weekly loan has 2600)
  2. Immutability: Terms are read-only once a computation starts
  3. Validation at the boundary: Validate() rejects bad input up front,
     the amortization loop assumes well-formed terms

USAGE:
  terms := loan.Terms{
      HomePrice:       decimal.NewFromInt(375000),
      DownPaymentType: loan.DownPaymentPercentage,
      DownPaymentValue: decimal.NewFromInt(20),
      AnnualRate:      decimal.NewFromFloat(4.5),
      TermYears:       30,
      Frequency:       loan.FrequencyMonthly,
  }
  if err := terms.Validate(); err != nil { ... }

SEE ALSO:
  - engine.go: Payment derivation and schedule generation
  - schedule.go: PaymentRecord and Schedule
  - reverse.go: Affordability solve
*/
package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT FREQUENCY
// =============================================================================

type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"  // 12 payments/year
	FrequencyBiweekly Frequency = "biweekly" // 26 payments/year
	FrequencyWeekly   Frequency = "weekly"   // 52 payments/year
)

// PeriodsPerYear returns the number of payment periods in a year.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyBiweekly:
		return 26
	case FrequencyWeekly:
		return 52
	default:
		return 12
	}
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyBiweekly, FrequencyWeekly:
		return true
	}
	return false
}

// Advance returns the date of payment n (0-based) counted from start.
// Monthly payments use calendar-month arithmetic: adding months preserves
// the day-of-month where the target month has it, and rolls over otherwise
// (Jan 31 + 1 month normalizes past Feb). Biweekly and weekly payments are
// fixed 14- and 7-day strides.
func (f Frequency) Advance(start time.Time, n int) time.Time {
	switch f {
	case FrequencyBiweekly:
		return start.AddDate(0, 0, n*14)
	case FrequencyWeekly:
		return start.AddDate(0, 0, n*7)
	default:
		return start.AddDate(0, n, 0)
	}
}

// ParseFrequency maps a wire string to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", &InvalidInputError{Field: "paymentFrequency", Reason: "unsupported frequency: " + s}
	}
	return f, nil
}

// =============================================================================
// DOWN PAYMENT
// =============================================================================

type DownPaymentType string

const (
	DownPaymentPercentage DownPaymentType = "percentage"
	DownPaymentFixed      DownPaymentType = "fixed"
)

// =============================================================================
// LOAN TERMS
// =============================================================================

// Terms holds the validated inputs for a single loan computation.
// A Terms value is never mutated by the engine.
type Terms struct {
	HomePrice        decimal.Decimal
	DownPaymentType  DownPaymentType
	DownPaymentValue decimal.Decimal
	AnnualRate       decimal.Decimal // nominal annual rate in percent, e.g. 4.5
	TermYears        int
	Frequency        Frequency

	// ExtraPayment is an optional flat extra-principal amount applied
	// every period on top of the level payment.
	ExtraPayment decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// DownPaymentAmount resolves the down payment to an absolute amount.
func (t Terms) DownPaymentAmount() decimal.Decimal {
	if t.DownPaymentType == DownPaymentPercentage {
		return t.HomePrice.Mul(t.DownPaymentValue).Div(hundred)
	}
	return t.DownPaymentValue
}

// LoanAmount is the financed principal: home price minus down payment.
func (t Terms) LoanAmount() decimal.Decimal {
	return t.HomePrice.Sub(t.DownPaymentAmount())
}

// PeriodicRate is the nominal annual rate divided by periods per year,
// as a fraction (4.5% monthly -> 0.00375).
func (t Terms) PeriodicRate() decimal.Decimal {
	return t.AnnualRate.Div(hundred).Div(decimal.NewFromInt(int64(t.Frequency.PeriodsPerYear())))
}

// TotalPeriods is the nominal number of scheduled payments.
func (t Terms) TotalPeriods() int {
	return t.TermYears * t.Frequency.PeriodsPerYear()
}

// Validate rejects terms that must never reach the amortization loop.
func (t Terms) Validate() error {
	if !t.Frequency.Valid() {
		return &InvalidInputError{Field: "paymentFrequency", Reason: "unsupported frequency"}
	}
	if t.TermYears <= 0 {
		return &InvalidInputError{Field: "loanTermYears", Reason: "term must be positive"}
	}
	if t.AnnualRate.IsNegative() {
		return &InvalidInputError{Field: "interestRate", Reason: "rate must not be negative"}
	}
	if !t.LoanAmount().IsPositive() {
		return &InvalidInputError{Field: "loanAmount", Reason: "loan amount must be positive"}
	}
	if t.ExtraPayment.IsNegative() {
		return &InvalidInputError{Field: "extraPayment", Reason: "extra payment must not be negative"}
	}
	return nil
}
