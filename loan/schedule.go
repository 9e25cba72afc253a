package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT RECORD - One row of an amortization schedule
// =============================================================================

// PaymentRecord is a single scheduled payment. Principal already includes
// any extra amount applied that period, so Payment = Principal + Interest
// always holds; Extra is recorded separately for display only.
type PaymentRecord struct {
	Number         int // 1-based sequence
	Date           time.Time
	Payment        decimal.Decimal
	Principal      decimal.Decimal
	Interest       decimal.Decimal
	Extra          decimal.Decimal
	Balance        decimal.Decimal // remaining balance after this payment
	TotalPrincipal decimal.Decimal // cumulative principal paid
	TotalInterest  decimal.Decimal // cumulative interest paid
}

// =============================================================================
// SCHEDULE - Chronologically ordered payments to payoff
// =============================================================================

// Schedule is an ordered sequence of payments; insertion order is
// chronological order. Its length is the actual number of periods to
// payoff, which can be shorter than the nominal term when extra
// principal is applied.
type Schedule []PaymentRecord

// Last returns the final payment record, or a zero record for an empty
// schedule.
func (s Schedule) Last() PaymentRecord {
	if len(s) == 0 {
		return PaymentRecord{}
	}
	return s[len(s)-1]
}

// TotalInterest is the interest paid over the life of the schedule.
func (s Schedule) TotalInterest() decimal.Decimal {
	return s.Last().TotalInterest
}

// TotalPrincipal is the principal repaid over the life of the schedule.
func (s Schedule) TotalPrincipal() decimal.Decimal {
	return s.Last().TotalPrincipal
}

// PayoffDate is the date of the final payment.
func (s Schedule) PayoffDate() time.Time {
	return s.Last().Date
}

// StartingBalance reconstructs the balance before the first payment.
func (s Schedule) StartingBalance() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	return s[0].Balance.Add(s[0].Principal)
}

// StartDate is the date of the first payment.
func (s Schedule) StartDate() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}
