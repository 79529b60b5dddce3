// Package money keeps amounts as integer minor units (céntimos).
// Decimal values only appear at the storage and presentation edges.
package money

import (
	"bytes"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Minor is an amount in minor currency units, e.g. 1250 == 12.50.
type Minor int64

const (
	// Zero amount.
	Zero Minor = 0
	// Max is the largest amount a NUMERIC(12,2) column holds.
	Max Minor = 999_999_999_999
)

var ErrInvalidAmount = errors.New("invalid amount")

// FromDecimal rounds d half-up to two decimals and converts it to minor units.
func FromDecimal(d decimal.Decimal) Minor {
	return Minor(d.Shift(2).Round(0).IntPart())
}

// Parse reads a decimal string such as "12.50".
func Parse(s string) (Minor, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAmount, "parse %q", s)
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q has more than two decimals", s)
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount as a two-decimal value, used for NUMERIC columns.
func (m Minor) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Minor) String() string {
	return m.Decimal().StringFixed(2)
}

// Times multiplies a unit price by a quantity.
func (m Minor) Times(qty int) Minor {
	return m * Minor(qty)
}

// Mul multiplies a unit price by a quantity. ok is false when either operand
// is negative or the product exceeds Max.
func (m Minor) Mul(qty int) (Minor, bool) {
	if m < 0 || qty < 0 {
		return 0, false
	}
	if qty != 0 && m > Max/Minor(qty) {
		return 0, false
	}
	return m * Minor(qty), true
}

// Add sums two non-negative amounts. ok is false when the sum exceeds Max.
func (m Minor) Add(n Minor) (Minor, bool) {
	if m < 0 || n < 0 || m > Max-n {
		return 0, false
	}
	return m + n, true
}

func (m Minor) IsNegative() bool { return m < 0 }

// MarshalJSON renders the amount as a quoted decimal string ("30.00").
func (m Minor) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts a decimal string or a bare JSON number.
func (m *Minor) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if len(b) > 1 && b[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return errors.Wrap(ErrInvalidAmount, "unquote")
		}
		s = unq
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
