package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrOutputNotFound = fmt.Errorf("%w: output", ErrNotFound)
	ErrMetricNotFound = fmt.Errorf("%w: metric", ErrNotFound)

	// Precondition errors
	ErrEmptySampleSet = errors.New("sample set is empty, generate a sample first")
	ErrShapeMismatch  = errors.New("table shape mismatch")

	// Resolution errors
	ErrUnknownParameter = errors.New("unknown uncertainty parameter")
	ErrDuplicateLabel   = errors.New("duplicate uncertainty parameter label")
)

// Error constructors with context
func NewParameterError(label string) error {
	return fmt.Errorf("%w: %q not sampled for this variable", ErrUnknownParameter, label)
}

func NewDuplicateLabelError(label string) error {
	return fmt.Errorf("%w: %q declared by more than one input variable", ErrDuplicateLabel, label)
}

func NewShapeError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has %d elements, expected %d", ErrShapeMismatch, what, got, want)
}

// NewRowError annotates a per-sample failure with the row index so the
// caller can reproduce it from the same sample set.
func NewRowError(row int, err error) error {
	return fmt.Errorf("sample row %d: %w", row, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrEmptySampleSet) || errors.Is(err, ErrShapeMismatch)
}
