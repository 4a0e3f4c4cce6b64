package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfDomain  = errors.New("value outside table domain")
)

// InvalidInputError reports a user-correctable problem with one request field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// OutOfDomainError means a table had no band for a value. Tables are validated
// to cover their whole domain, so seeing one is a defect.
type OutOfDomainError struct {
	Table string
	Value decimal.Decimal
}

func (e *OutOfDomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: no band for %s", e.Table, e.Value)
}

func (e *OutOfDomainError) Is(target error) bool {
	return target == ErrOutOfDomain
}

// UserMessage is the text safe to show to an end user for err.
func UserMessage(err error) string {
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	return "Failed to calculate tax. Please check the inputs or try again later."
}
