package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a currency value that always serializes with two decimal places.
type Amount decimal.Decimal

// NewAmount normalizes d into an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount(Normalize(d))
}

// AmountPtr converts an optional decimal, keeping nil as nil.
func AmountPtr(d *decimal.Decimal) *Amount {
	if d == nil {
		return nil
	}
	a := NewAmount(*d)
	return &a
}

// Decimal returns the underlying value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

func (a Amount) String() string {
	return decimal.Decimal(a).StringFixed(AmountScale)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = Amount(d)
	return nil
}

// Quantity is a quantity that always serializes with three decimal places.
type Quantity decimal.Decimal

// NewQuantity normalizes d into a Quantity.
func NewQuantity(d decimal.Decimal) Quantity {
	return Quantity(NormalizeQuantity(d))
}

// Decimal returns the underlying value.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.Decimal(q)
}

func (q Quantity) String() string {
	return decimal.Decimal(q).StringFixed(QuantityScale)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*q = Quantity(d)
	return nil
}
