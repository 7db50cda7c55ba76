package formula

import (
	"errors"
	"fmt"
)

// ErrorValue is the display value of a cell whose formula failed.
const ErrorValue = "#ERROR!"

// ErrSyntax indicates an expression that could not be parsed.
var ErrSyntax = errors.New("syntax error")

// ErrDivisionByZero indicates a division by zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrNotFinite indicates a result that is infinite or not a number.
var ErrNotFinite = errors.New("result is not finite")

// ErrReference indicates a cell reference or range outside the sheet.
var ErrReference = errors.New("invalid cell reference")

// Error describes a formula evaluation failure.
type Error struct {
	Formula string
	Pos     int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("formula %q at %d: %v", e.Formula, e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(formula string, pos int, err error) *Error {
	return &Error{Formula: formula, Pos: pos, Err: err}
}
