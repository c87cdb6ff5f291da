package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

var (
	ErrInvalidDecimal  = errors.New("model: invalid decimal")
	ErrInvalidPrice    = errors.New("model: price must be positive")
	ErrInvalidQuantity = errors.New("model: invalid quantity")
)

// Decimal is an exact decimal number that keeps the scale it was written
// with, so "1.10000" is reproduced as "1.10000" and never as "1.1". The zero
// value is the absent decimal.
type Decimal struct {
	repr string
}

// MaxDecimalExponent bounds the exponent of a parsed literal in both
// directions. Exponent notation expands to fixed point, so an unbounded
// exponent turns a short literal into an arbitrarily long string.
const MaxDecimalExponent = 32

// ParseDecimal parses a decimal literal.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if exp := d.Exponent(); exp < -MaxDecimalExponent || exp > MaxDecimalExponent {
		return Decimal{}, fmt.Errorf("%w: %q exponent %d out of range", ErrInvalidDecimal, s, exp)
	}
	return newDecimal(d), nil
}

// MustDecimal is ParseDecimal for literals known to be valid.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalFrom formats d with exactly precision fractional digits.
func DecimalFrom(d decimal.Decimal, precision int32) Decimal {
	if precision < 0 {
		precision = 0
	}
	return Decimal{repr: d.StringFixed(precision)}
}

func newDecimal(d decimal.Decimal) Decimal {
	return DecimalFrom(d, -d.Exponent())
}

func (d Decimal) String() string {
	return d.repr
}

// IsZero reports whether the decimal is absent.
func (d Decimal) IsZero() bool {
	return d.repr == ""
}

// Value returns the arithmetic value; the absent decimal is zero.
func (d Decimal) Value() decimal.Decimal {
	if d.repr == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(d.repr)
}

// Precision is the number of fractional digits.
func (d Decimal) Precision() int32 {
	for i := 0; i < len(d.repr); i++ {
		if d.repr[i] == '.' {
			return int32(len(d.repr) - i - 1)
		}
	}
	return 0
}

func (d Decimal) Sign() int {
	return d.Value().Sign()
}

// Price is a strictly positive decimal. The zero value means no price.
type Price struct {
	Decimal
}

func ParsePrice(s string) (Price, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return Price{}, err
	}
	return NewPrice(d)
}

func NewPrice(d Decimal) (Price, error) {
	if d.IsZero() || d.Sign() <= 0 {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, d.String())
	}
	return Price{Decimal: d}, nil
}

func MustPrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Money is a signed monetary amount.
type Money struct {
	Decimal
}

func ParseMoney(s string) (Money, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Quantity is a whole number of units.
type Quantity int64

func NewQuantity(v int64) (Quantity, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, v)
	}
	return Quantity(v), nil
}

func (q Quantity) String() string {
	return strconv.FormatInt(int64(q), 10)
}
