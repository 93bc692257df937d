package formula

import (
	"errors"
	"fmt"
)

// Formula errors.
var (
	ErrSyntax            = errors.New("formula: syntax error")
	ErrEmpty             = errors.New("formula: empty formula")
	ErrUnknownIdentifier = errors.New("formula: unknown identifier")
	ErrUnknownFunction   = errors.New("formula: unknown function")
	ErrArity             = errors.New("formula: wrong number of arguments")
	ErrDivisionByZero    = errors.New("formula: division by zero")
	ErrIntegerDomain     = errors.New("formula: operation requires floating point")
	ErrRecursion         = errors.New("formula: recursive expression")
	ErrNotANumber        = errors.New("formula: result is not a number")
	ErrNegativeShift     = errors.New("formula: negative shift count")
	ErrNegativeExponent  = errors.New("formula: negative exponent in integer arithmetic")
)

// Error is returned by the Eval methods of a Program. It carries the formula
// text the failure occurred in.
type Error struct {
	Formula string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (formula %q)", e.Err, e.Formula)
}

func (e *Error) Unwrap() error { return e.Err }
