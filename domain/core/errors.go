package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Model construction errors
	ErrInvalidModel = errors.New("invalid model specification")

	// Inference errors
	ErrFitConvergence    = errors.New("fit failed to converge")
	ErrDimensionMismatch = errors.New("observation vector length mismatch")

	// Scan errors
	ErrLimitOutOfRange = errors.New("no CLs crossing within scan range")
)

// Error constructors with context

func NewInvalidModelError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidModel, field, reason)
}

func NewFitConvergenceError(fit string, cause error) error {
	return fmt.Errorf("%w: %s fit: %v", ErrFitConvergence, fit, cause)
}

func NewDimensionMismatchError(got, want int) error {
	return fmt.Errorf("%w: got %d values, model expects %d", ErrDimensionMismatch, got, want)
}

func NewLimitOutOfRangeError(curve string, lo, hi float64) error {
	return fmt.Errorf("%w: %s CLs never drops below level on [%g, %g]", ErrLimitOutOfRange, curve, lo, hi)
}

// Error checking helpers

func IsInvalidModelError(err error) bool {
	return errors.Is(err, ErrInvalidModel)
}

func IsFitConvergenceError(err error) bool {
	return errors.Is(err, ErrFitConvergence)
}

func IsDimensionMismatchError(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}

func IsLimitOutOfRangeError(err error) bool {
	return errors.Is(err, ErrLimitOutOfRange)
}
