package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural errors abort the run
	ErrMissingInput   = errors.New("input file not found")
	ErrMalformedInput = errors.New("malformed input table")

	// ErrEmptySelection marks a derived result with zero rows. The core never
	// returns it; presentation adapters use it to report a skipped export.
	ErrEmptySelection = errors.New("empty selection")
)

// NewMissingInputError wraps ErrMissingInput with the offending path.
func NewMissingInputError(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, path)
}

// NewMalformedInputError wraps ErrMalformedInput with a reason.
func NewMalformedInputError(path, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedInput, path, reason)
}

// NewEmptySelectionError describes which chart had nothing to show.
func NewEmptySelectionError(chart, variable string) error {
	return fmt.Errorf("%w: %s has no rows for variable %q", ErrEmptySelection, chart, variable)
}

// IsStructuralError reports whether err should stop the run.
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrMissingInput) || errors.Is(err, ErrMalformedInput)
}

func IsEmptySelection(err error) bool {
	return errors.Is(err, ErrEmptySelection)
}
