/*
simulator.go - Re-amortization with extra-principal events

PURPOSE:
  Re-runs the amortization loop from a reference schedule's starting
  balance while injecting extra principal keyed by calendar month.

ALGORITHM:
  1. Expand every recurring prepayment into month buckets (stepping by
     its frequency from start to end), then overlay one-time payments
     additively into the same buckets.
  2. Walk payment periods from the reference start date, applying the
     base payment plus whatever the bucket for that month holds.
  3. Same interest-then-principal order and final-payment clipping as
     the forward engine.

CONVERGENCE:
  An ill-formed strategy can fail to ever reduce the balance (the base
  payment alone always amortizes, but the simulator does not assume its
  inputs came from the forward engine). The loop is capped at twice the
  reference length; hitting the cap surfaces loan.ErrNonConvergence and
  no partial schedule is returned.

SEE ALSO:
  - types.go: Strategy, Event, Results
  - loan/engine.go: The forward amortization loop this mirrors
*/
package prepay

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/loan"
)

// recurrence expansion stops here when no end date is given; no loan
// outlives it.
var farFuture = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator re-amortizes a loan under a prepayment strategy. Periods are
// monthly-equivalent: the reference schedule's base payment is applied
// once per calendar month.
type Simulator struct {
	payment      decimal.Decimal
	periodicRate decimal.Decimal
	reference    loan.Schedule
}

// NewSimulator builds a simulator from the base periodic payment, the
// nominal annual rate in percent, and the reference schedule produced by
// the forward engine.
func NewSimulator(basePayment, annualRate decimal.Decimal, reference loan.Schedule) *Simulator {
	return &Simulator{
		payment:      basePayment,
		periodicRate: annualRate.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12)),
		reference:    reference,
	}
}

// Simulate applies the strategy and reports the modified schedule and
// savings. A disabled or empty strategy passes the reference through
// with zero savings.
func (s *Simulator) Simulate(strategy Strategy) (*Results, error) {
	if !strategy.Enabled || strategy.Empty() {
		payoff := s.reference.PayoffDate()
		return &Results{
			TotalPrepayments:      decimal.Zero,
			InterestSaved:         decimal.Zero,
			OriginalPayoffDate:    payoff,
			NewPayoffDate:         payoff,
			ModifiedSchedule:      s.reference,
			Events:                nil,
			PaymentWithPrepayment: s.payment,
		}, nil
	}

	extraByMonth := s.buildMonthBuckets(strategy)

	var (
		modified         loan.Schedule
		events           []Event
		balance          = s.reference.StartingBalance()
		totalPrincipal   = decimal.Zero
		totalInterest    = decimal.Zero
		totalPrepayments = decimal.Zero
		start            = s.reference.StartDate()
		maxPeriods       = len(s.reference) * 2
	)

	for number := 1; balance.IsPositive(); number++ {
		if number > maxPeriods {
			return nil, &loan.NonConvergenceError{Periods: maxPeriods, Remaining: balance}
		}

		date := loan.FrequencyMonthly.Advance(start, number-1)
		extra := extraByMonth[MonthKeyOf(date)]

		interest := balance.Mul(s.periodicRate)
		principalPart := s.payment.Sub(interest)

		if extra.IsPositive() {
			principalPart = principalPart.Add(extra)
			totalPrepayments = totalPrepayments.Add(extra)
		}

		if principalPart.GreaterThan(balance) {
			principalPart = balance
		}

		balance = balance.Sub(principalPart)
		totalPrincipal = totalPrincipal.Add(principalPart)
		totalInterest = totalInterest.Add(interest)

		if extra.IsPositive() {
			eventType, description := s.classify(strategy, date, extra)
			events = append(events, Event{
				Date:         date,
				Amount:       extra,
				Type:         eventType,
				Description:  description,
				BalanceAfter: balance,
			})
		}

		modified = append(modified, loan.PaymentRecord{
			Number:         number,
			Date:           date,
			Payment:        principalPart.Add(interest),
			Principal:      principalPart,
			Interest:       interest,
			Extra:          extra,
			Balance:        balance,
			TotalPrincipal: totalPrincipal,
			TotalInterest:  totalInterest,
		})
	}

	interestSaved := s.reference.TotalInterest().Sub(totalInterest)
	periodsSaved := len(s.reference) - len(modified)

	// Even split across events; see the Event doc for the caveat.
	if len(events) > 0 {
		perEvent := interestSaved.Div(decimal.NewFromInt(int64(len(events))))
		for i := range events {
			events[i].InterestSaved = perEvent
		}
	}

	return &Results{
		TotalPrepayments:      totalPrepayments,
		InterestSaved:         interestSaved,
		TimeSaved:             TimeSaved{Years: periodsSaved / 12, Months: periodsSaved % 12},
		OriginalPayoffDate:    s.reference.PayoffDate(),
		NewPayoffDate:         modified.PayoffDate(),
		ModifiedSchedule:      modified,
		Events:                events,
		PaymentWithPrepayment: s.payment.Add(s.averageMonthlyExtra(strategy)),
	}, nil
}

// =============================================================================
// MONTH BUCKET EXPANSION
// =============================================================================

// buildMonthBuckets expands the strategy into total extra principal per
// calendar month. A recurring and a one-time payment landing in the same
// month are additive.
func (s *Simulator) buildMonthBuckets(strategy Strategy) map[MonthKey]decimal.Decimal {
	buckets := make(map[MonthKey]decimal.Decimal)

	for _, recurring := range strategy.Recurring {
		end := farFuture
		if recurring.EndDate != nil {
			end = *recurring.EndDate
		}
		for current := recurring.StartDate; !current.After(end); current = recurring.Frequency.step(current) {
			key := MonthKeyOf(current)
			buckets[key] = buckets[key].Add(recurring.Amount)
		}
	}

	for _, oneTime := range strategy.OneTime {
		key := MonthKeyOf(oneTime.Date)
		buckets[key] = buckets[key].Add(oneTime.Amount)
	}

	return buckets
}

// classify tags an applied amount as one-time when it exactly matches a
// one-time payment scheduled that month; one-time wins the tie when a
// recurring payment coincides in both month and amount. A combined
// bucket (recurring + one-time in one month) matches neither input and
// is tagged recurring.
func (s *Simulator) classify(strategy Strategy, date time.Time, amount decimal.Decimal) (EventType, string) {
	key := MonthKeyOf(date)
	for _, oneTime := range strategy.OneTime {
		if MonthKeyOf(oneTime.Date) == key && oneTime.Amount.Equal(amount) {
			return EventOneTime, oneTime.Description
		}
	}

	for _, recurring := range strategy.Recurring {
		if recurring.Amount.Equal(amount) {
			switch recurring.Frequency {
			case RecurQuarterly:
				return EventRecurring, "Quarterly Extra Payment"
			case RecurAnnually:
				return EventRecurring, "Annual Extra Payment"
			default:
				return EventRecurring, "Extra Monthly Payment"
			}
		}
	}

	return EventRecurring, "Extra Payment"
}

// averageMonthlyExtra normalizes the strategy to a flat monthly figure:
// recurring amounts scaled to monthly, one-time totals averaged over the
// reference term.
func (s *Simulator) averageMonthlyExtra(strategy Strategy) decimal.Decimal {
	total := decimal.Zero

	for _, recurring := range strategy.Recurring {
		switch recurring.Frequency {
		case RecurQuarterly:
			total = total.Add(recurring.Amount.Div(decimal.NewFromInt(3)))
		case RecurAnnually:
			total = total.Add(recurring.Amount.Div(decimal.NewFromInt(12)))
		default:
			total = total.Add(recurring.Amount)
		}
	}

	if len(s.reference) > 0 {
		oneTimeTotal := decimal.Zero
		for _, oneTime := range strategy.OneTime {
			oneTimeTotal = oneTimeTotal.Add(oneTime.Amount)
		}
		total = total.Add(oneTimeTotal.Div(decimal.NewFromInt(int64(len(s.reference)))))
	}

	return total
}
