package money

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is an immutable exact decimal amount. Operations return new values rounded
// to the precision of the receiver's Context. The zero value is 0 in defaultContext.
type Money struct {
	value decimal.Decimal
	ctx   *Context
}

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

func (m Money) context() *Context {
	if m.ctx == nil {
		return &defaultContext
	}
	return m.ctx
}

// Context returns a copy of the rules this value was created with.
func (m Money) Context() *Context {
	c := *m.context()
	return &c
}

// Parse reads a locale-tolerant amount. Every character other than digits, '.', ','
// and '-' is discarded. A lone ',' is the decimal separator; when both separators
// appear the last one is the decimal separator and the other groups thousands; a
// separator that repeats is treated as grouping.
func (c *Context) Parse(s string) (Money, error) {
	normalized := normalizeAmount(s)
	if normalized == "" {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return c.wrap(d), nil
}

// ParseBRL reads a strictly Brazilian-formatted amount such as "R$ 1.234,56":
// every '.' is a thousands separator and ',' is the decimal separator.
func (c *Context) ParseBRL(s string) (Money, error) {
	cleaned := strings.NewReplacer("R$", "", " ", "", "\u00a0", "", ".", "").Replace(s)
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return c.wrap(d), nil
}

func normalizeAmount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastDot >= 0 && strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	return cleaned
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m.context().wrap(m.value.Add(other.value))
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m.context().wrap(m.value.Sub(other.value))
}

// Mul returns m * other.
func (m Money) Mul(other Money) Money {
	return m.context().wrap(m.value.Mul(other.value))
}

// Div returns m / other, or ErrDivisionByZero.
func (m Money) Div(other Money) (Money, error) {
	c := m.context()
	q, err := c.quo(m.value, other.value)
	if err != nil {
		return Money{}, err
	}
	return Money{value: q, ctx: c}, nil
}

// Pow returns m raised to exp. 0^0 is 1.
func (m Money) Pow(exp Money) (Money, error) {
	c := m.context()
	switch {
	case m.value.IsZero() && exp.value.IsZero():
		return c.One(), nil
	case m.value.IsZero() && exp.value.Sign() < 0:
		return Money{}, ErrDivisionByZero
	case m.value.Sign() < 0 && !exp.value.IsInteger():
		return Money{}, fmt.Errorf("%w: negative base %s with fractional exponent %s", ErrUndefined, m.value, exp.value)
	}
	r, err := m.value.PowWithPrecision(exp.value, 2*c.Precision)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %v", ErrUndefined, err)
	}
	return c.wrap(r), nil
}

// Sqrt returns the non-negative square root of m.
func (m Money) Sqrt() (Money, error) {
	c := m.context()
	switch m.value.Sign() {
	case -1:
		return Money{}, fmt.Errorf("%w: square root of %s", ErrUndefined, m.value)
	case 0:
		return c.Zero(), nil
	}
	// ~3.33 bits per decimal digit, with headroom for the final rounding.
	prec := uint(c.Precision+10) * 4
	f, _, err := big.ParseFloat(m.value.String(), 10, prec, big.ToNearestEven)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	root := new(big.Float).SetPrec(prec).Sqrt(f)
	d, err := decimal.NewFromString(root.Text('e', int(c.Precision)+5))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return c.wrap(d), nil
}

// Abs returns |m|.
func (m Money) Abs() Money { return Money{value: m.value.Abs(), ctx: m.ctx} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{value: m.value.Neg(), ctx: m.ctx} }

// Shift moves the decimal point: Shift(-2) divides by 100 exactly.
func (m Money) Shift(places int32) Money {
	return m.context().wrap(m.value.Shift(places))
}

// Round returns m rounded to the given number of decimal places with the context mode.
func (m Money) Round(places int32) Money {
	c := m.context()
	return Money{value: c.roundPlaces(m.value, places), ctx: c}
}

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than other.
func (m Money) Cmp(other Money) int { return m.value.Cmp(other.value) }

func (m Money) Equal(other Money) bool              { return m.value.Equal(other.value) }
func (m Money) GreaterThan(other Money) bool        { return m.value.GreaterThan(other.value) }
func (m Money) GreaterThanOrEqual(other Money) bool { return m.value.GreaterThanOrEqual(other.value) }
func (m Money) LessThan(other Money) bool           { return m.value.LessThan(other.value) }
func (m Money) LessThanOrEqual(other Money) bool    { return m.value.LessThanOrEqual(other.value) }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.value.IsZero() }

// Sign returns -1, 0 or +1.
func (m Money) Sign() int { return m.value.Sign() }

// Float64 returns the nearest float64. Only for presentation.
func (m Money) Float64() float64 {
	f, _ := m.value.Float64()
	return f
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// String formats m with two decimal places.
func (m Money) String() string { return m.StringFixed(2) }

// ExactString formats m with every stored digit.
func (m Money) ExactString() string { return m.value.String() }

// StringFixed formats m with exactly places decimals, rounded with the context mode.
func (m Money) StringFixed(places int32) string {
	return m.context().roundPlaces(m.value, places).StringFixed(places)
}

// JSONNumber renders m as a JSON number with exactly places decimals.
func (m Money) JSONNumber(places int32) json.Number {
	return json.Number(m.StringFixed(places))
}

// BRL formats m as Brazilian currency, e.g. "R$ 1.234,56".
func (m Money) BRL() string {
	rounded := m.Round(2)
	f, _ := rounded.value.Abs().Float64()
	formatted := brPrinter.Sprintf("R$ %v", number.Decimal(f, number.Scale(2)))
	if rounded.value.Sign() < 0 {
		return "-" + formatted
	}
	return formatted
}

// BRNumber formats m with two decimals and a comma separator, e.g. "1234,56".
func (m Money) BRNumber() string {
	return strings.Replace(m.StringFixed(2), ".", ",", 1)
}

// Max returns the greater of a and b, b on ties.
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b, b on ties.
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Parse reads an amount with defaultContext.
func Parse(s string) (Money, error) { return defaultContext.Parse(s) }

// ParseBRL reads a Brazilian-formatted amount with defaultContext.
func ParseBRL(s string) (Money, error) { return defaultContext.ParseBRL(s) }

// FromInt returns an integer amount in defaultContext.
func FromInt(i int64) Money { return defaultContext.FromInt(i) }

// FromFloat returns a float amount in defaultContext.
func FromFloat(f float64) Money { return defaultContext.FromFloat(f) }

// Zero returns 0 in defaultContext.
func Zero() Money { return defaultContext.Zero() }

// One returns 1 in defaultContext.
func One() Money { return defaultContext.One() }

// Sum adds values in defaultContext.
func Sum(values []Money) Money { return defaultContext.Sum(values) }

// Average averages values in the default context; an empty list yields zero.
func Average(values []Money) Money { return defaultContext.Average(values) }
