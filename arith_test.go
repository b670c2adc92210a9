package arith

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"sums as expected", 2, 2, 4},
		{"negative numbers", -2, -3, -5},
		{"mixed signs", -2, 3, 1},
		{"fractions", 0.5, 0.25, 0.75},
		{"zero", 0, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sum(tt.a, tt.b))
		})
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"takes the difference as expected", 2, 2, 0},
		{"positive result", 5, 3, 2},
		{"negative result", 3, 5, -2},
		{"negative operands", -5, -3, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.a, tt.b))
		})
	}
}

func TestMult(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"multiplies as expected", 2, 3, 6},
		{"multiply by zero", 5, 0, 0},
		{"negative numbers", -3, -4, 12},
		{"mixed signs", -3, 4, -12},
		{"multiply by one", 7, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mult(tt.a, tt.b))
		})
	}
}

func TestDiv(t *testing.T) {
	tests := []struct {
		name string
		in   DivInput
		want float64
	}{
		{"divides as expected", DivInput{Dividend: 4, Divisor: 2}, 2},
		{"negative dividend", DivInput{Dividend: -8, Divisor: 2}, -4},
		{"negative divisor", DivInput{Dividend: 8, Divisor: -2}, -4},
		{"zero dividend", DivInput{Dividend: 0, Divisor: 5}, 0},
		{"fractional quotient", DivInput{Dividend: 7, Divisor: 2}, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Div(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDivByZero(t *testing.T) {
	for _, divisor := range []float64{0, math.Copysign(0, -1)} {
		got, err := Div(DivInput{Dividend: 4, Divisor: divisor})
		assert.True(t, errors.Is(err, ErrDivisionByZero))
		assert.Equal(t, "division by zero", err.Error())
		assert.Zero(t, got)
	}

	_, err := Div(DivInput{})
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestMustDiv(t *testing.T) {
	assert.Equal(t, 2.0, MustDiv(DivInput{Dividend: 4, Divisor: 2}))
	assert.Panics(t, func() {
		MustDiv(DivInput{Dividend: 4})
	})
}

func TestProperties(t *testing.T) {
	t.Run("sum commutes", func(t *testing.T) {
		f := func(a, b float64) bool { return Sum(a, b) == Sum(b, a) }
		assert.NoError(t, quick.Check(f, nil))
	})

	t.Run("diff is antisymmetric", func(t *testing.T) {
		f := func(a, b float64) bool { return Diff(a, b) == -Diff(b, a) }
		assert.NoError(t, quick.Check(f, nil))
	})

	t.Run("mult commutes", func(t *testing.T) {
		f := func(a, b float64) bool { return Mult(a, b) == Mult(b, a) }
		assert.NoError(t, quick.Check(f, nil))
	})

	t.Run("identities", func(t *testing.T) {
		f := func(a float64) bool {
			return Sum(a, 0) == a && Mult(a, 1) == a && Diff(a, 0) == a
		}
		assert.NoError(t, quick.Check(f, nil))
	})

	t.Run("div undoes mult", func(t *testing.T) {
		cfg := &quick.Config{
			Values: func(args []reflect.Value, r *rand.Rand) {
				args[0] = reflect.ValueOf((r.Float64() - 0.5) * 2e6)
				b := (r.Float64() - 0.5) * 2e6
				if b == 0 {
					b = 1
				}
				args[1] = reflect.ValueOf(b)
			},
		}
		f := func(a, b float64) bool {
			got, err := Div(DivInput{Dividend: Mult(a, b), Divisor: b})
			if err != nil {
				return false
			}
			return math.Abs(got-a) <= 1e-9*math.Max(1, math.Abs(a))
		}
		assert.NoError(t, quick.Check(f, cfg))
	})
}
