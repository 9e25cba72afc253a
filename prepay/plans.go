/*
plans.go - Smart prepayment plan generation

PURPOSE:
  Builds 1-3 canned prepayment strategies from a monthly budget and a
  risk-tolerance tier, then runs each through the simulator so the
  reported savings are real, not estimated.

TIERS (additive):
  conservative: always included. Half the budget, capped at 200/month.
  moderate:     included for moderate+. 75% of budget capped at 500,
                plus a tax-refund-sized one-time payment next April.
  aggressive:   aggressive only. Full budget plus tax refund and
                year-end bonus one-time payments.

The affordability score is a fixed constant per tier (how comfortably
the plan fits typical discretionary income), deliberately independent of
the simulated savings.
*/
package prepay

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RISK TIERS
// =============================================================================

type RiskTier string

const (
	RiskConservative RiskTier = "conservative"
	RiskModerate     RiskTier = "moderate"
	RiskAggressive   RiskTier = "aggressive"
)

// Valid reports whether t is a known tier.
func (t RiskTier) Valid() bool {
	switch t {
	case RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

// includesModerate reports whether the moderate plan applies to t.
func (t RiskTier) includesModerate() bool {
	return t == RiskModerate || t == RiskAggressive
}

// =============================================================================
// PLANS
// =============================================================================

// PlanOneTime is a one-time payment within a plan, expressed as a month
// offset from the schedule start.
type PlanOneTime struct {
	MonthOffset int
	Amount      decimal.Decimal
	Description string
}

// Plan is a generated prepayment strategy with its simulated savings.
type Plan struct {
	ID                 string
	Name               string
	Description        string
	MonthlyExtra       decimal.Decimal
	OneTime            []PlanOneTime
	InterestSaved      decimal.Decimal
	TimeSaved          TimeSaved
	AffordabilityScore int // 1-10, lower = more aggressive
}

var (
	conservativeCap = decimal.NewFromInt(200)
	moderateCap     = decimal.NewFromInt(500)
	taxRefund       = decimal.NewFromInt(3000)
	taxRefundLarge  = decimal.NewFromInt(5000)
	yearEndBonus    = decimal.NewFromInt(10000)
)

// PlanGenerator builds plans against a simulator's reference loan.
type PlanGenerator struct {
	Sim *Simulator
}

// Generate returns the plans for the tier, conservative first. Each
// plan's savings come from a full simulation of its strategy.
func (g PlanGenerator) Generate(monthlyBudget decimal.Decimal, tier RiskTier) ([]Plan, error) {
	if !tier.Valid() {
		tier = RiskConservative
	}

	start := g.Sim.reference.StartDate()
	nextApril := nextMonthDay(start, time.April, 15)
	nextDecember := nextMonthDay(start, time.December, 15)

	var plans []Plan

	conservativeMonthly := decimal.Min(monthlyBudget.Mul(decimal.NewFromFloat(0.5)), conservativeCap)
	plan, err := g.simulatePlan(Plan{
		ID:                 "conservative",
		Name:               "Conservative",
		Description:        "Steady extra payments within comfort zone",
		MonthlyExtra:       conservativeMonthly,
		AffordabilityScore: 9,
	}, start, nil)
	if err != nil {
		return nil, err
	}
	plans = append(plans, plan)

	if tier.includesModerate() {
		moderateMonthly := decimal.Min(monthlyBudget.Mul(decimal.NewFromFloat(0.75)), moderateCap)
		plan, err := g.simulatePlan(Plan{
			ID:                 "moderate",
			Name:               "Balanced",
			Description:        "Monthly payments plus annual bonus",
			MonthlyExtra:       moderateMonthly,
			AffordabilityScore: 7,
		}, start, []OneTimePrepayment{
			{ID: "tax-refund", Date: nextApril, Amount: taxRefund, Description: "Tax Refund"},
		})
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if tier == RiskAggressive {
		plan, err := g.simulatePlan(Plan{
			ID:                 "aggressive",
			Name:               "Aggressive",
			Description:        "Maximum prepayments for fastest payoff",
			MonthlyExtra:       monthlyBudget,
			AffordabilityScore: 5,
		}, start, []OneTimePrepayment{
			{ID: "tax-refund", Date: nextApril, Amount: taxRefundLarge, Description: "Tax Refund"},
			{ID: "year-end-bonus", Date: nextDecember, Amount: yearEndBonus, Description: "Year-end Bonus"},
		})
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// simulatePlan runs the plan's strategy and fills in the simulated
// savings.
func (g PlanGenerator) simulatePlan(plan Plan, start time.Time, oneTime []OneTimePrepayment) (Plan, error) {
	strategy := Strategy{
		ID:      plan.ID,
		Enabled: true,
		Recurring: []RecurringPrepayment{
			{Amount: plan.MonthlyExtra, Frequency: RecurMonthly, StartDate: start},
		},
		OneTime: oneTime,
	}

	results, err := g.Sim.Simulate(strategy)
	if err != nil {
		return Plan{}, err
	}

	plan.InterestSaved = results.InterestSaved
	plan.TimeSaved = results.TimeSaved
	for _, payment := range oneTime {
		plan.OneTime = append(plan.OneTime, PlanOneTime{
			MonthOffset: monthsBetween(start, payment.Date),
			Amount:      payment.Amount,
			Description: payment.Description,
		})
	}
	return plan, nil
}

// nextMonthDay returns the first occurrence of (month, day) strictly
// after the start date's month, landing in the following calendar year
// when the month has already passed.
func nextMonthDay(start time.Time, month time.Month, day int) time.Time {
	year := start.Year()
	if start.Month() >= month {
		year++
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
