/*
templates.go - Named prepayment presets

PURPOSE:
  A small catalog of common prepayment shapes (tax refund, work bonus,
  inheritance, ...) that the presentation layer offers as starting
  points. Each template expands into a full Strategy anchored to a loan's
  start date.
*/
package prepay

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateFrequency extends the recurring frequencies with a one-time
// shape for windfall templates.
type TemplateFrequency string

const (
	TemplateMonthly   TemplateFrequency = "monthly"
	TemplateQuarterly TemplateFrequency = "quarterly"
	TemplateAnnually  TemplateFrequency = "annually"
	TemplateOneTime   TemplateFrequency = "onetime"
)

// Template is a named prepayment preset. TimingMonth anchors annual
// templates to a specific month (tax refunds arrive in April); zero
// means no anchor.
type Template struct {
	ID            string
	Name          string
	Description   string
	DefaultAmount decimal.Decimal
	Frequency     TemplateFrequency
	TimingMonth   time.Month
}

var templates = []Template{
	{ID: "tax-refund", Name: "Tax Refund", Description: "Annual tax refund payment",
		DefaultAmount: decimal.NewFromInt(5000), Frequency: TemplateAnnually, TimingMonth: time.April},
	{ID: "work-bonus", Name: "Work Bonus", Description: "Year-end or performance bonus",
		DefaultAmount: decimal.NewFromInt(10000), Frequency: TemplateAnnually, TimingMonth: time.December},
	{ID: "inheritance", Name: "Inheritance", Description: "One-time windfall payment",
		DefaultAmount: decimal.NewFromInt(25000), Frequency: TemplateOneTime},
	{ID: "extra-monthly", Name: "Extra Monthly", Description: "Additional monthly payment",
		DefaultAmount: decimal.NewFromInt(500), Frequency: TemplateMonthly},
	{ID: "quarterly-bonus", Name: "Quarterly Bonus", Description: "Quarterly performance payment",
		DefaultAmount: decimal.NewFromInt(2500), Frequency: TemplateQuarterly},
	{ID: "stock-vesting", Name: "Stock Vesting", Description: "Stock options or RSU vesting",
		DefaultAmount: decimal.NewFromInt(15000), Frequency: TemplateAnnually},
}

// Templates returns the preset catalog. The slice is a copy; callers may
// reorder it freely.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a preset.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Strategy expands the template into a full Strategy anchored at start.
// A zero amount falls back to the template's default. Annual templates
// with a timing month begin at the next occurrence of that month.
func (t Template) Strategy(amount decimal.Decimal, start time.Time) Strategy {
	if amount.IsZero() {
		amount = t.DefaultAmount
	}

	anchor := start
	if t.TimingMonth != 0 {
		anchor = nextMonthDay(start, t.TimingMonth, 15)
	}

	if t.Frequency == TemplateOneTime {
		return Strategy{
			ID:      t.ID,
			Enabled: true,
			OneTime: []OneTimePrepayment{
				{ID: t.ID, Date: anchor, Amount: amount, Description: t.Name},
			},
		}
	}

	return Strategy{
		ID:      t.ID,
		Enabled: true,
		Recurring: []RecurringPrepayment{
			{Amount: amount, Frequency: RecurringFrequency(t.Frequency), StartDate: anchor},
		},
	}
}
