package sale

import (
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// SoldLine is what was originally sold on one sale line
type SoldLine struct {
	Quantity decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Gross    decimal.Decimal
}

// ReturnedSoFar is what earlier returns already took from the line
type ReturnedSoFar struct {
	Quantity decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Gross    decimal.Decimal
}

// ReturnAllocation is the share of a sale line assigned to one return
type ReturnAllocation struct {
	Quantity decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Gross    decimal.Decimal
}

// AllocateReturn prorates net, tax and gross for a requested return
// quantity. A request for the whole remaining quantity receives exactly the
// remaining money, so repeated partial returns always sum to the sold totals.
func AllocateReturn(sold SoldLine, returned ReturnedSoFar, requested decimal.Decimal) (*ReturnAllocation, error) {
	soldQty := money.NormalizeQuantity(sold.Quantity)
	if !soldQty.IsPositive() {
		return nil, apperror.NewConflictError("sale line quantity must be positive")
	}

	requestedQty := money.NormalizeQuantity(requested)
	availableQty := money.NormalizeQuantity(money.Max(soldQty.Sub(money.NormalizeQuantity(returned.Quantity)), decimal.Zero))
	if requestedQty.GreaterThan(availableQty) {
		return nil, apperror.NewConflictError("return quantity exceeds available quantity for sale line")
	}

	availableNet := available(sold.Net, returned.Net)
	availableTax := available(sold.Tax, returned.Tax)
	availableGross := available(sold.Gross, returned.Gross)

	if requestedQty.Equal(availableQty) {
		return &ReturnAllocation{
			Quantity: requestedQty,
			Net:      availableNet,
			Tax:      availableTax,
			Gross:    availableGross,
		}, nil
	}

	return &ReturnAllocation{
		Quantity: requestedQty,
		Net:      prorate(sold.Net, soldQty, requestedQty, availableNet),
		Tax:      prorate(sold.Tax, soldQty, requestedQty, availableTax),
		Gross:    prorate(sold.Gross, soldQty, requestedQty, availableGross),
	}, nil
}

func available(sold, returned decimal.Decimal) decimal.Decimal {
	return money.Max(money.Normalize(money.Normalize(sold).Sub(money.Normalize(returned))), money.Zero())
}

func prorate(soldAmount, soldQty, requestedQty, availableAmount decimal.Decimal) decimal.Decimal {
	amount := money.Normalize(soldAmount)
	if amount.IsZero() {
		return money.Zero()
	}
	share := amount.Mul(requestedQty).DivRound(soldQty, money.AmountScale)
	return money.Min(share, availableAmount)
}
