// Package money holds the fixed-scale decimal helpers shared by pricing, tax,
// payment and return calculations.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of decimal places kept for currency values.
	AmountScale int32 = 2
	// QuantityScale is the number of decimal places kept for quantities.
	QuantityScale int32 = 3
)

// Zero returns 0.00.
func Zero() decimal.Decimal {
	return decimal.Zero.Round(AmountScale)
}

// ZeroQuantity returns 0.000.
func ZeroQuantity() decimal.Decimal {
	return decimal.Zero.Round(QuantityScale)
}

// Normalize rounds a currency value half-up to two decimal places.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// NormalizePtr is Normalize with nil treated as zero.
func NormalizePtr(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return Zero()
	}
	return Normalize(*d)
}

// NormalizeQuantity rounds a quantity half-up to three decimal places.
func NormalizeQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// Scale reports the number of significant decimal places once trailing zeros
// are stripped, so 2.500 has scale 1 and 3.000 has scale 0.
func Scale(d decimal.Decimal) int32 {
	s := d.String()
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return int32(len(s) - i - 1)
}

// DeclaredScale reports the number of decimal places the value was written
// with, trailing zeros included.
func DeclaredScale(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
