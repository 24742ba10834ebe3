// Package money provides an exact decimal Money type for statutory calculations.
//
// Every arithmetic result is rounded to the significant-digit precision and rounding
// mode of the Context that produced it. Nothing in this package reads or writes
// process-wide decimal settings, so two contexts with different rules can be used side
// by side.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinPrecision is the smallest number of significant digits a Context may carry.
const MinPrecision int32 = 20

var (
	// ErrInvalidAmount indicates text that does not parse as a decimal amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrDivisionByZero indicates a division (or negative power) of zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUndefined indicates an operation with no real result, such as the square root
	// of a negative amount.
	ErrUndefined = errors.New("undefined result")

	// ErrInvalidPrecision indicates a Context precision below MinPrecision.
	ErrInvalidPrecision = errors.New("invalid precision")
)

// RoundingMode selects how digits beyond the context precision are discarded.
type RoundingMode int

const (
	// RoundHalfUp rounds to nearest, ties away from zero. Brazilian legal convention.
	RoundHalfUp RoundingMode = iota
	// RoundHalfEven rounds to nearest, ties to the even neighbour.
	RoundHalfEven
	// RoundDown truncates toward zero.
	RoundDown
	// RoundUp rounds away from zero.
	RoundUp
	// RoundCeiling rounds toward positive infinity.
	RoundCeiling
	// RoundFloor rounds toward negative infinity.
	RoundFloor
)

var roundingNames = map[RoundingMode]string{
	RoundHalfUp:   "half_up",
	RoundHalfEven: "half_even",
	RoundDown:     "down",
	RoundUp:       "up",
	RoundCeiling:  "ceiling",
	RoundFloor:    "floor",
}

func (r RoundingMode) String() string {
	if name, ok := roundingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RoundingMode(%d)", int(r))
}

// ParseRoundingMode maps a configuration string such as "half_up" to a RoundingMode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for mode, name := range roundingNames {
		if name == key {
			return mode, nil
		}
	}
	return RoundHalfUp, fmt.Errorf("unknown rounding mode %q", s)
}

// Context holds the precision and rounding rules applied to every Money it creates
// and to every result derived from those values.
type Context struct {
	Precision int32
	Rounding  RoundingMode
}

// defaultContext is 20 significant digits with half-up rounding. It is never
// handed out; Default returns a copy.
var defaultContext = Context{Precision: MinPrecision, Rounding: RoundHalfUp}

// Default returns a copy of the default context: 20 significant digits with
// half-up rounding.
func Default() *Context {
	c := defaultContext
	return &c
}

// NewContext returns a Context with the given rules.
// Precision must be at least MinPrecision.
func NewContext(precision int32, rounding RoundingMode) (*Context, error) {
	if precision < MinPrecision {
		return nil, fmt.Errorf("%w: %d significant digits, minimum is %d", ErrInvalidPrecision, precision, MinPrecision)
	}
	if _, ok := roundingNames[rounding]; !ok {
		return nil, fmt.Errorf("unknown rounding mode %d", rounding)
	}
	return &Context{Precision: precision, Rounding: rounding}, nil
}

// adjusted returns the power-of-ten position just above the most significant digit,
// i.e. the number of integer digits, negative for leading fractional zeros.
func adjusted(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent()
}

// roundPlaces rounds d to the given number of decimal places using the context mode.
// Negative places round the integer part.
func (c *Context) roundPlaces(d decimal.Decimal, places int32) decimal.Decimal {
	switch c.Rounding {
	case RoundHalfEven:
		return d.RoundBank(places)
	case RoundDown:
		return d.RoundDown(places)
	case RoundUp:
		return d.RoundUp(places)
	case RoundCeiling:
		return d.RoundCeil(places)
	case RoundFloor:
		return d.RoundFloor(places)
	default:
		return d.Round(places)
	}
}

// round limits d to the context precision in significant digits.
func (c *Context) round(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	places := c.Precision - adjusted(d)
	if d.Exponent() >= -places {
		return d
	}
	return c.roundPlaces(d, places)
}

// quo divides a by b, rounded once to the context precision.
// The quotient is truncated with two guard digits and a sticky digit marks a
// non-zero remainder, so the final rounding sees the true side of every tie.
func (c *Context) quo(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	if a.IsZero() {
		return decimal.Zero, nil
	}
	scale := c.Precision - (adjusted(a) - adjusted(b)) + 2
	q, r := a.QuoRem(b, scale)
	if !r.IsZero() {
		sticky := decimal.New(1, -(scale + 1))
		if a.Sign()*b.Sign() < 0 {
			sticky = sticky.Neg()
		}
		q = q.Add(sticky)
	}
	return c.round(q), nil
}

func (c *Context) wrap(d decimal.Decimal) Money {
	return Money{value: c.round(d), ctx: c}
}

// Zero returns 0 in this context.
func (c *Context) Zero() Money { return Money{value: decimal.Zero, ctx: c} }

// One returns 1 in this context.
func (c *Context) One() Money { return Money{value: decimal.NewFromInt(1), ctx: c} }

// FromInt returns an exact Money for an integer.
func (c *Context) FromInt(i int64) Money { return c.wrap(decimal.NewFromInt(i)) }

// FromFloat returns the Money nearest to the shortest decimal representation of f.
func (c *Context) FromFloat(f float64) Money { return c.wrap(decimal.NewFromFloat(f)) }

// FromDecimal adopts a shopspring decimal into this context.
func (c *Context) FromDecimal(d decimal.Decimal) Money { return c.wrap(d) }

// Sum adds all values; an empty list yields zero.
func (c *Context) Sum(values []Money) Money {
	total := c.Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Average returns the arithmetic mean. An empty list yields zero rather than an error.
func (c *Context) Average(values []Money) Money {
	if len(values) == 0 {
		return c.Zero()
	}
	avg, err := c.Sum(values).Div(c.FromInt(int64(len(values))))
	if err != nil {
		// len(values) > 0, the divisor cannot be zero
		return c.Zero()
	}
	return avg
}
