package loan_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/loan"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// approxEqual checks equality within one cent.
func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(dec("0.01"))
}

func standardTerms() loan.Terms {
	// 300k loan at 4.5% over 30 years, monthly
	return loan.Terms{
		HomePrice:        dec("375000"),
		DownPaymentType:  loan.DownPaymentFixed,
		DownPaymentValue: dec("75000"),
		AnnualRate:       dec("4.5"),
		TermYears:        30,
		Frequency:        loan.FrequencyMonthly,
	}
}

func jan1() time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// PAYMENT DERIVATION TESTS
// =============================================================================

func TestComputePayment_StandardThirtyYearLoan(t *testing.T) {
	// GIVEN: 300000 principal, 4.5% annual, 30 years monthly
	// WHEN: Deriving the level payment
	// THEN: Payment is the well-known 1520.06

	var engine loan.Engine
	payment := engine.ComputePayment(dec("300000"), dec("0.00375"), 360)

	if !approxEqual(payment, dec("1520.06")) {
		t.Errorf("expected payment 1520.06, got %s", payment.StringFixed(4))
	}
}

func TestComputePayment_ZeroRate_StraightLine(t *testing.T) {
	// GIVEN: Zero interest rate
	// WHEN: Deriving the payment
	// THEN: Payment is exactly principal / periods

	var engine loan.Engine
	payment := engine.ComputePayment(dec("300000"), decimal.Zero, 360)

	if !approxEqual(payment, dec("833.33")) {
		t.Errorf("expected payment 833.33, got %s", payment.StringFixed(4))
	}
	if !payment.Equal(dec("300000").Div(dec("360"))) {
		t.Errorf("zero-rate payment should be exact straight-line division")
	}
}

func TestComputePayment_PositiveRate_ExceedsStraightLine(t *testing.T) {
	// Interest accrues, so payment * periods must exceed principal.
	var engine loan.Engine
	principal := dec("250000")
	payment := engine.ComputePayment(principal, dec("0.005"), 240)

	total := payment.Mul(decimal.NewFromInt(240))
	if !total.GreaterThan(principal) {
		t.Errorf("payment*periods (%s) should exceed principal (%s)",
			total.StringFixed(2), principal.StringFixed(2))
	}
}

// =============================================================================
// SCHEDULE GENERATION TESTS
// =============================================================================

func TestGenerateSchedule_FullTerm(t *testing.T) {
	// GIVEN: Standard 30-year loan
	// WHEN: Generating the schedule with no extra payments
	// THEN: 360 payments, balance lands on zero, principal is conserved

	var engine loan.Engine
	principal := dec("300000")
	rate := dec("0.00375")
	payment := engine.ComputePayment(principal, rate, 360)

	schedule := engine.GenerateSchedule(principal, rate, payment, 360, decimal.Zero, jan1(), loan.FrequencyMonthly)

	if len(schedule) != 360 {
		t.Fatalf("expected 360 payments, got %d", len(schedule))
	}
	last := schedule.Last()
	if last.Balance.Abs().GreaterThan(dec("0.01")) {
		t.Errorf("final balance should be ~0, got %s", last.Balance.StringFixed(6))
	}
	if !approxEqual(last.TotalPrincipal, principal) {
		t.Errorf("total principal %s should equal original principal %s",
			last.TotalPrincipal.StringFixed(2), principal.StringFixed(2))
	}
}

func TestGenerateSchedule_InterestNonIncreasing_BalanceNonIncreasing(t *testing.T) {
	// Interest shrinks as the balance shrinks; the balance never grows.
	var engine loan.Engine
	principal := dec("200000")
	rate := dec("0.005")
	payment := engine.ComputePayment(principal, rate, 180)

	schedule := engine.GenerateSchedule(principal, rate, payment, 180, decimal.Zero, jan1(), loan.FrequencyMonthly)

	for i := 1; i < len(schedule); i++ {
		if schedule[i].Interest.GreaterThan(schedule[i-1].Interest) {
			t.Fatalf("interest increased at payment %d", schedule[i].Number)
		}
		if schedule[i].Balance.GreaterThan(schedule[i-1].Balance) {
			t.Fatalf("balance increased at payment %d", schedule[i].Number)
		}
	}
}

func TestGenerateSchedule_ExtraPayment_ShortensTerm(t *testing.T) {
	// GIVEN: The standard loan with 200/month extra principal
	// WHEN: Generating both schedules
	// THEN: Fewer payments and less total interest than the base case

	var engine loan.Engine
	principal := dec("300000")
	rate := dec("0.00375")
	payment := engine.ComputePayment(principal, rate, 360)

	base := engine.GenerateSchedule(principal, rate, payment, 360, decimal.Zero, jan1(), loan.FrequencyMonthly)
	accelerated := engine.GenerateSchedule(principal, rate, payment, 360, dec("200"), jan1(), loan.FrequencyMonthly)

	if len(accelerated) >= len(base) {
		t.Errorf("extra payments should shorten the term: %d vs %d", len(accelerated), len(base))
	}
	if !accelerated.TotalInterest().LessThan(base.TotalInterest()) {
		t.Errorf("extra payments should reduce total interest: %s vs %s",
			accelerated.TotalInterest().StringFixed(2), base.TotalInterest().StringFixed(2))
	}
}

func TestGenerateSchedule_ZeroRate_NoInterestAccrues(t *testing.T) {
	var engine loan.Engine
	principal := dec("120000")
	payment := engine.ComputePayment(principal, decimal.Zero, 120)

	schedule := engine.GenerateSchedule(principal, decimal.Zero, payment, 120, decimal.Zero, jan1(), loan.FrequencyMonthly)

	if !schedule.TotalInterest().IsZero() {
		t.Errorf("zero-rate loan accrued interest: %s", schedule.TotalInterest().String())
	}
	if len(schedule) != 120 {
		t.Errorf("expected 120 payments, got %d", len(schedule))
	}
}

func TestGenerateSchedule_ZeroRateWithExtra_BalanceStillDecays(t *testing.T) {
	// GIVEN: Zero rate and an extra payment
	// WHEN: Generating the schedule
	// THEN: Balance decays by payment+extra each period, payoff comes early

	var engine loan.Engine
	principal := dec("12000")
	payment := engine.ComputePayment(principal, decimal.Zero, 12) // 1000/month

	schedule := engine.GenerateSchedule(principal, decimal.Zero, payment, 12, dec("1000"), jan1(), loan.FrequencyMonthly)

	if len(schedule) != 6 {
		t.Errorf("expected payoff in 6 periods, got %d", len(schedule))
	}
	if !schedule.TotalInterest().IsZero() {
		t.Errorf("zero-rate loan accrued interest")
	}
}

func TestGenerateSchedule_NonPositivePrincipal_Empty(t *testing.T) {
	var engine loan.Engine

	schedule := engine.GenerateSchedule(decimal.Zero, dec("0.00375"), dec("100"), 360, decimal.Zero, jan1(), loan.FrequencyMonthly)
	if len(schedule) != 0 {
		t.Errorf("zero principal should yield empty schedule, got %d records", len(schedule))
	}

	schedule = engine.GenerateSchedule(dec("-100"), dec("0.00375"), dec("100"), 360, decimal.Zero, jan1(), loan.FrequencyMonthly)
	if len(schedule) != 0 {
		t.Errorf("negative principal should yield empty schedule, got %d records", len(schedule))
	}
}

func TestGenerateSchedule_SinglePeriod(t *testing.T) {
	// A one-period loan amortizes in one clipped payment.
	var engine loan.Engine
	principal := dec("1000")
	rate := dec("0.01")
	payment := engine.ComputePayment(principal, rate, 1)

	schedule := engine.GenerateSchedule(principal, rate, payment, 1, decimal.Zero, jan1(), loan.FrequencyMonthly)

	if len(schedule) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(schedule))
	}
	if !schedule[0].Balance.IsZero() {
		t.Errorf("balance after the only payment should be zero, got %s", schedule[0].Balance.String())
	}
	if !approxEqual(schedule[0].Interest, dec("10")) {
		t.Errorf("expected 10 interest, got %s", schedule[0].Interest.StringFixed(4))
	}
}

func TestGenerateSchedule_Idempotent(t *testing.T) {
	// Identical inputs produce identical output; the only time dependency
	// is the supplied start date.
	var engine loan.Engine
	principal := dec("300000")
	rate := dec("0.00375")
	payment := engine.ComputePayment(principal, rate, 360)

	a := engine.GenerateSchedule(principal, rate, payment, 360, dec("150"), jan1(), loan.FrequencyMonthly)
	b := engine.GenerateSchedule(principal, rate, payment, 360, dec("150"), jan1(), loan.FrequencyMonthly)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Balance.Equal(b[i].Balance) || !a[i].Interest.Equal(b[i].Interest) || !a[i].Date.Equal(b[i].Date) {
			t.Fatalf("records differ at payment %d", a[i].Number)
		}
	}
}

// =============================================================================
// PAYMENT DATE TESTS
// =============================================================================

func TestAdvance_Monthly_CalendarRollover(t *testing.T) {
	// Adding months preserves the day where valid and normalizes otherwise.
	jan15 := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	got := loan.FrequencyMonthly.Advance(jan15, 3)
	want := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	rolled := loan.FrequencyMonthly.Advance(jan31, 1)
	if rolled.Month() != time.March {
		// Feb 2026 has 28 days; Jan 31 + 1 month normalizes to Mar 3
		t.Errorf("expected rollover into March, got %s", rolled)
	}
}

func TestAdvance_BiweeklyAndWeekly_FixedStrides(t *testing.T) {
	start := jan1()

	if got := loan.FrequencyBiweekly.Advance(start, 2); !got.Equal(start.AddDate(0, 0, 28)) {
		t.Errorf("biweekly stride wrong: %s", got)
	}
	if got := loan.FrequencyWeekly.Advance(start, 3); !got.Equal(start.AddDate(0, 0, 21)) {
		t.Errorf("weekly stride wrong: %s", got)
	}
}

// =============================================================================
// END-TO-END CALCULATION TESTS
// =============================================================================

func TestCalculate_PercentageDownPayment(t *testing.T) {
	// GIVEN: 375k home with 20% down
	// WHEN: Calculating
	// THEN: 75k down, 300k financed, payment 1520.06, 360 payments

	var engine loan.Engine
	terms := loan.Terms{
		HomePrice:        dec("375000"),
		DownPaymentType:  loan.DownPaymentPercentage,
		DownPaymentValue: dec("20"),
		AnnualRate:       dec("4.5"),
		TermYears:        30,
		Frequency:        loan.FrequencyMonthly,
	}

	results, err := engine.Calculate(terms, jan1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approxEqual(results.DownPaymentAmount, dec("75000")) {
		t.Errorf("expected 75000 down, got %s", results.DownPaymentAmount.StringFixed(2))
	}
	if !approxEqual(results.LoanAmount, dec("300000")) {
		t.Errorf("expected 300000 financed, got %s", results.LoanAmount.StringFixed(2))
	}
	if !approxEqual(results.RegularPayment, dec("1520.06")) {
		t.Errorf("expected payment 1520.06, got %s", results.RegularPayment.StringFixed(4))
	}
	if results.TotalPayments != 360 {
		t.Errorf("expected 360 payments, got %d", results.TotalPayments)
	}
	if !results.PayoffDate.Equal(loan.FrequencyMonthly.Advance(jan1(), 359)) {
		t.Errorf("unexpected payoff date %s", results.PayoffDate)
	}
}

func TestCalculate_TotalsAreConsistent(t *testing.T) {
	var engine loan.Engine
	results, err := engine.Calculate(standardTerms(), jan1())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := results.LoanAmount.Add(results.TotalInterest)
	if !approxEqual(results.TotalAmount, sum) {
		t.Errorf("total amount %s should equal principal+interest %s",
			results.TotalAmount.StringFixed(2), sum.StringFixed(2))
	}
}

func TestCalculate_InvalidInput_RejectedAtBoundary(t *testing.T) {
	var engine loan.Engine

	cases := []struct {
		name  string
		mut   func(*loan.Terms)
		field string
	}{
		{"zero loan amount", func(tm *loan.Terms) { tm.DownPaymentValue = tm.HomePrice }, "loanAmount"},
		{"negative rate", func(tm *loan.Terms) { tm.AnnualRate = dec("-1") }, "interestRate"},
		{"zero term", func(tm *loan.Terms) { tm.TermYears = 0 }, "loanTermYears"},
		{"bad frequency", func(tm *loan.Terms) { tm.Frequency = "daily" }, "paymentFrequency"},
		{"negative extra", func(tm *loan.Terms) { tm.ExtraPayment = dec("-5") }, "extraPayment"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := standardTerms()
			tc.mut(&terms)

			_, err := engine.Calculate(terms, jan1())
			if !errors.Is(err, loan.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var detail *loan.InvalidInputError
			if !errors.As(err, &detail) || detail.Field != tc.field {
				t.Errorf("expected field %q in error, got %+v", tc.field, detail)
			}
		})
	}
}
