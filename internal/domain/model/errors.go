package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel matched by every precondition failure in
// the calculators.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the offending field. It unwraps to ErrInvalidInput.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
