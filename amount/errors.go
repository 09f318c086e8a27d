package amount

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/ledger/commodity"
)

// Causes wrapped by ParseError.
var (
	ErrUnexpectedEnd        = errors.New("unexpected end of input")
	ErrNoQuantity           = errors.New("no quantity for amount")
	ErrUnterminatedSymbol   = errors.New("unterminated quoted commodity symbol")
	ErrAnnotationsUnhandled = errors.New("price and lot annotations are not supported")
)

// ErrDivisionByZero is returned by Div and DivScalar.
var ErrDivisionByZero = errors.New("division by zero")

// ParseError is returned when an amount literal cannot be parsed.
type ParseError struct {
	Input string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("can't parse %q: %v", e.Input, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// CommodityMismatchError is returned when adding or subtracting amounts of
// different commodities.
type CommodityMismatchError struct {
	Left  Amount
	Right Amount
}

func (e *CommodityMismatchError) Error() string {
	return fmt.Sprintf("non-matching commodity for %s, expected %s",
		e.Right, describe(e.Left.commodity))
}

// NonNumericOperandError is returned when a scalar operation receives a
// value that is not a plain number.
type NonNumericOperandError struct {
	Op    string
	Value any
}

func (e *NonNumericOperandError) Error() string {
	return fmt.Sprintf("non-numeric argument for %s: %#v", e.Op, e.Value)
}

func describe(sym commodity.Symbol) string {
	if sym.IsNull() {
		return "no commodity"
	}
	return fmt.Sprintf("%q", string(sym))
}
