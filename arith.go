// Package arith provides the basic arithmetic operations on float64 operands.
//
// Every function in this package is pure: the result depends only on the
// arguments and nothing is logged, stored or shared, so they are safe to call
// from any number of goroutines.
package arith

import "github.com/cockroachdb/errors"

// ErrDivisionByZero is returned by Div when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// DivInput holds the operands of a division.
type DivInput struct {
	Dividend float64 `json:"dividend"`
	Divisor  float64 `json:"divisor"`
}

// Sum returns a + b.
func Sum(a, b float64) float64 {
	return a + b
}

// Diff returns a - b.
func Diff(a, b float64) float64 {
	return a - b
}

// Mult returns a * b.
func Mult(a, b float64) float64 {
	return a * b
}

// Div returns in.Dividend / in.Divisor.
// A zero divisor, positive or negative, yields ErrDivisionByZero instead of
// the IEEE-754 infinity or NaN.
func Div(in DivInput) (float64, error) {
	if in.Divisor == 0 {
		return 0, errors.WithStack(ErrDivisionByZero)
	}
	return in.Dividend / in.Divisor, nil
}

// MustDiv is like Div but panics when the divisor is zero.
func MustDiv(in DivInput) float64 {
	q, err := Div(in)
	if err != nil {
		panic(err)
	}
	return q
}
