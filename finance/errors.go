/*
errors.go - Centralized error types for the finance engines

PURPOSE:
  All error types in one place for consistency and discoverability.
  Engine packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - rejected at the engine boundary, before any
     simulation or scoring begins.
  2. Calculation errors - unexpected internal failures. The simulator
     surfaces these (there is no safe default payoff schedule); the
     diversification scorer instead degrades to a neutral score.
  3. Store errors - persistence-level failures.

NOT ERRORS:
  An empty record set is a valid state, not a failure. Engines return
  empty/zero results for it and callers render an "add records" prompt.
  Degenerate numeric cases (zero cost basis, single income category) are
  handled by explicit fallback branches, never raised.

USAGE:
  if errors.Is(err, finance.ErrInvalidInput) { ... 400 ... }
  if errors.Is(err, finance.ErrCalculationFailed) { ... 500 + retry ... }
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a record violates a boundary
	// invariant (negative balance, negative rate, non-finite amount).
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalculationFailed is returned when a simulation fails
	// unexpectedly. The caller should offer a retry, never a stack trace.
	ErrCalculationFailed = errors.New("calculation failed")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError identifies which field of which record failed
// validation.
type InvalidInputError struct {
	Field  string
	Record string // display name or id, may be empty
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s of %q %s", e.Field, e.Record, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// IsClientError reports whether the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRetryable reports whether the operation might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCalculationFailed)
}
