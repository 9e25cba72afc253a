/*
Package prepay simulates voluntary prepayment strategies against a
reference amortization schedule.

PURPOSE:
  Given a base payment and the schedule it produces, this package answers
  "what if the borrower pays extra?": recurring extra payments, one-time
  windfalls, and canned smart plans. The simulator re-runs the
  amortization loop with extra principal injected by calendar month and
  reports interest saved and time saved.

KEY CONCEPTS IN THIS FILE (types.go):
  - MonthKey: Typed (year, month) identity for prepayment lookup
  - RecurringPrepayment / OneTimePrepayment: The two event shapes
  - Strategy: Caller-owned, read-only input to the simulator
  - Event: A prepayment as it was actually applied during simulation

SEE ALSO:
  - simulator.go: The re-amortization loop
  - plans.go: Smart plan generation
  - templates.go: Named prepayment presets
*/
package prepay

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/loan"
)

// =============================================================================
// MONTH KEY - Typed calendar-month identity
// =============================================================================

// MonthKey identifies a calendar month. It is the canonical map key for
// prepayment lookup; two events land in the same bucket iff they share a
// year and month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf buckets a date into its calendar month.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// =============================================================================
// PREPAYMENT EVENTS (inputs)
// =============================================================================

type RecurringFrequency string

const (
	RecurMonthly   RecurringFrequency = "monthly"
	RecurQuarterly RecurringFrequency = "quarterly"
	RecurAnnually  RecurringFrequency = "annually"
)

// step advances a recurrence to its next occurrence.
func (f RecurringFrequency) step(t time.Time) time.Time {
	switch f {
	case RecurQuarterly:
		return t.AddDate(0, 3, 0)
	case RecurAnnually:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// RecurringPrepayment repeats from StartDate until EndDate (nil = for the
// life of the loan).
type RecurringPrepayment struct {
	Amount    decimal.Decimal
	Frequency RecurringFrequency
	StartDate time.Time
	EndDate   *time.Time
}

// OneTimePrepayment is a single dated extra-principal payment.
type OneTimePrepayment struct {
	ID          string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// Strategy is the caller's prepayment plan. The simulator only reads it.
type Strategy struct {
	ID        string
	Enabled   bool
	Recurring []RecurringPrepayment
	OneTime   []OneTimePrepayment
}

// Empty reports whether the strategy contains no events.
func (s Strategy) Empty() bool {
	return len(s.Recurring) == 0 && len(s.OneTime) == 0
}

// =============================================================================
// SIMULATION OUTPUTS
// =============================================================================

type EventType string

const (
	EventRecurring EventType = "recurring"
	EventOneTime   EventType = "onetime"
)

// Event records a prepayment as applied during simulation.
//
// InterestSaved is the simulation's total savings divided evenly across
// all events - a display approximation, not a causal per-event
// allocation.
type Event struct {
	Date          time.Time
	Amount        decimal.Decimal
	Type          EventType
	Description   string
	BalanceAfter  decimal.Decimal
	InterestSaved decimal.Decimal
}

// TimeSaved expresses saved periods as whole years plus remainder months.
type TimeSaved struct {
	Years  int
	Months int
}

// Results is the outcome of one prepayment simulation.
type Results struct {
	TotalPrepayments      decimal.Decimal
	InterestSaved         decimal.Decimal
	TimeSaved             TimeSaved
	OriginalPayoffDate    time.Time
	NewPayoffDate         time.Time
	ModifiedSchedule      loan.Schedule
	Events                []Event
	PaymentWithPrepayment decimal.Decimal // base payment + average monthly extra
}
