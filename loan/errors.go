/*
errors.go - Centralized error types for the loan engine

PURPOSE:
  All error categories of the numeric core in one place. Packages layered
  on the engine (prepay, api) wrap these with additional context.

ERROR CATEGORIES:
  1. Invalid input  - Rejected at the boundary, before any loop runs
  2. Non-convergence - A simulation hit its iteration cap with balance
     still outstanding; surfaced explicitly, never silently truncated

Precision loss is not an error category: the engine prevents it
structurally by computing in decimal arithmetic throughout.

USAGE:
  Layered packages wrap the sentinels:

    if errors.Is(err, loan.ErrNonConvergence) {
        // strategy never pays the loan down
    }
*/
package loan

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for terms that must be rejected before
	// entering the amortization loop: non-positive principal, negative
	// rate, non-positive term, unsupported frequency.
	ErrInvalidInput = errors.New("invalid loan input")

	// ErrNonConvergence is returned when a simulation exceeds its
	// iteration cap without the balance reaching zero. The caller gets
	// no partial schedule.
	ErrNonConvergence = errors.New("simulation did not converge")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError names the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NonConvergenceError reports how far a simulation got before the cap.
type NonConvergenceError struct {
	Periods   int             // periods simulated before giving up
	Remaining decimal.Decimal // balance still outstanding at the cap
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("balance %s still outstanding after %d periods",
		e.Remaining.StringFixed(2), e.Periods)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }
