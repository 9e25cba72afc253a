/*
engine.go - Level-payment derivation and schedule generation

PURPOSE:
  Implements the standard fixed-rate amortization math:

    payment = P * r * (1+r)^n / ((1+r)^n - 1)

  and the period-by-period loop that splits each payment into interest
  and principal until the balance reaches zero.

KEY INVARIANTS:
  - Interest accrues first each period: interest = balance * rate
  - Extra payments go straight to principal
  - The final payment is clipped so the balance never goes negative
  - The loop stops the instant the balance reaches zero, which can be
    before the nominal term when extra principal is applied

ZERO-RATE LOANS:
  A zero rate degenerates to straight-line repayment: payment equals
  principal / periods and no interest ever accrues.

SEE ALSO:
  - types.go: Terms and Frequency
  - reverse.go: The inverse solve (payment -> max principal)
*/
package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes payments and schedules. It is stateless; a single
// Engine is safe for concurrent use.
type Engine struct{}

// Results is the full output of one loan computation, consumed read-only
// by the presentation layer.
type Results struct {
	HomePrice         decimal.Decimal
	DownPaymentAmount decimal.Decimal
	LoanAmount        decimal.Decimal
	RegularPayment    decimal.Decimal
	TotalPayments     int
	TotalAmount       decimal.Decimal
	TotalInterest     decimal.Decimal
	Schedule          Schedule
	PayoffDate        time.Time
}

// Calculate validates the terms, derives the level payment, and generates
// the full schedule starting at start.
func (e Engine) Calculate(terms Terms, start time.Time) (*Results, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	principal := terms.LoanAmount()
	rate := terms.PeriodicRate()
	periods := terms.TotalPeriods()

	payment := e.ComputePayment(principal, rate, periods)
	schedule := e.GenerateSchedule(principal, rate, payment, periods, terms.ExtraPayment, start, terms.Frequency)

	last := schedule.Last()
	return &Results{
		HomePrice:         terms.HomePrice,
		DownPaymentAmount: terms.DownPaymentAmount(),
		LoanAmount:        principal,
		RegularPayment:    payment,
		TotalPayments:     len(schedule),
		TotalAmount:       last.TotalPrincipal.Add(last.TotalInterest),
		TotalInterest:     last.TotalInterest,
		Schedule:          schedule,
		PayoffDate:        last.Date,
	}, nil
}

// ComputePayment derives the level payment that fully amortizes principal
// over the given number of periods at the given periodic rate. A zero
// rate yields straight-line repayment.
func (e Engine) ComputePayment(principal, periodicRate decimal.Decimal, periods int) decimal.Decimal {
	n := decimal.NewFromInt(int64(periods))
	if periodicRate.IsZero() {
		return principal.Div(n)
	}

	compound := periodicRate.Add(decimal.NewFromInt(1)).Pow(n)
	numerator := principal.Mul(periodicRate).Mul(compound)
	denominator := compound.Sub(decimal.NewFromInt(1))
	return numerator.Div(denominator)
}

// GenerateSchedule runs the amortization loop. Each period accrues
// interest on the outstanding balance, applies payment plus extra to
// principal, and clips the final payment to the remaining balance so the
// schedule lands on exactly zero. Non-positive principal yields an empty
// schedule.
func (e Engine) GenerateSchedule(
	principal, periodicRate, payment decimal.Decimal,
	periods int,
	extra decimal.Decimal,
	start time.Time,
	frequency Frequency,
) Schedule {
	var schedule Schedule
	balance := principal
	totalPrincipal := decimal.Zero
	totalInterest := decimal.Zero

	for i := 0; i < periods && balance.IsPositive(); i++ {
		interest := balance.Mul(periodicRate)
		principalPart := payment.Sub(interest).Add(extra)

		if principalPart.GreaterThan(balance) {
			principalPart = balance
		}

		balance = balance.Sub(principalPart)
		totalPrincipal = totalPrincipal.Add(principalPart)
		totalInterest = totalInterest.Add(interest)

		schedule = append(schedule, PaymentRecord{
			Number:         i + 1,
			Date:           frequency.Advance(start, i),
			Payment:        principalPart.Add(interest),
			Principal:      principalPart,
			Interest:       interest,
			Extra:          extra,
			Balance:        balance,
			TotalPrincipal: totalPrincipal,
			TotalInterest:  totalInterest,
		})
	}

	return schedule
}
