package sheep

import (
	"errors"
	"fmt"
)

// Parsing errors. Every cause wraps ErrParse.
var (
	ErrParse        = errors.New("parse error")
	ErrUnbalanced   = fmt.Errorf("%w: unbalanced delimiters", ErrParse)
	ErrUnknownInput = fmt.Errorf("%w: unknown input", ErrParse)
	ErrNoRule       = fmt.Errorf("%w: no matching rule", ErrParse)
)

// Evaluation errors. Every cause wraps ErrType.
var (
	ErrType         = errors.New("type error")
	ErrUnresolved   = fmt.Errorf("%w: unresolved reference", ErrType)
	ErrNotEvaluated = fmt.Errorf("%w: operand is not a fully evaluated value", ErrType)
	ErrDivideByZero = fmt.Errorf("%w: division by zero", ErrType)
)

// ParseError is returned by Parse. Input is the text handed to Parse, and Err
// describes what went wrong in which sub-span.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
