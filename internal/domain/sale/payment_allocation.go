package sale

import (
	"fmt"

	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// PaymentRequest is one tender entry submitted at checkout
type PaymentRequest struct {
	TenderType     *enum.TenderType `json:"tender_type"`
	Amount         *decimal.Decimal `json:"amount"`
	TenderedAmount *decimal.Decimal `json:"tendered_amount,omitempty"`
	Reference      *string          `json:"reference,omitempty"`
}

// AllocatedPayment is a validated tender entry with its computed change
type AllocatedPayment struct {
	SequenceNumber  int
	TenderType      enum.TenderType
	AllocatedAmount decimal.Decimal
	TenderedAmount  decimal.Decimal
	ChangeAmount    decimal.Decimal
	Reference       *string
}

// AllocationResult is the outcome of a successful validation. Payments keep
// the request order.
type AllocationResult struct {
	TotalPayable   decimal.Decimal
	TotalAllocated decimal.Decimal
	TotalTendered  decimal.Decimal
	ChangeAmount   decimal.Decimal
	Payments       []AllocatedPayment
}

// ValidatePaymentAllocations checks a split payment against the payable
// amount. Allocated amounts must sum to the payable exactly; only cash may
// be over-tendered, and the over-tender is returned as change.
func ValidatePaymentAllocations(payable *decimal.Decimal, requests []*PaymentRequest) (*AllocationResult, error) {
	if payable == nil {
		return nil, apperror.NewInvalidError("total payable amount is required")
	}
	totalPayable := money.Normalize(*payable)
	if totalPayable.IsNegative() {
		return nil, apperror.NewInvalidError("total payable amount cannot be negative")
	}
	if len(requests) == 0 {
		return nil, apperror.NewInvalidError("payments is required")
	}

	totalAllocated := money.Zero()
	totalTendered := money.Zero()
	totalChange := money.Zero()
	hasCash := false
	payments := make([]AllocatedPayment, 0, len(requests))

	for i, req := range requests {
		if req == nil {
			return nil, apperror.NewInvalidError("payment allocation entry is required")
		}
		if req.TenderType == nil {
			return nil, apperror.NewInvalidError("tenderType is required")
		}
		amount, err := strictMoney(req.Amount, "payment amount")
		if err != nil {
			return nil, err
		}
		if !amount.IsPositive() {
			return nil, apperror.NewInvalidError("payment amount must be greater than zero")
		}

		var tendered, change decimal.Decimal
		if *req.TenderType == enum.TenderTypeCash {
			hasCash = true
			tendered = amount
			if req.TenderedAmount != nil {
				if tendered, err = strictMoney(req.TenderedAmount, "cash tenderedAmount"); err != nil {
					return nil, err
				}
			}
			if tendered.LessThan(amount) {
				return nil, apperror.NewInvalidError("cash tenderedAmount cannot be less than allocated amount")
			}
			change = money.Normalize(tendered.Sub(amount))
		} else {
			tendered = amount
			if req.TenderedAmount != nil {
				supplied, err := strictMoney(req.TenderedAmount, "card tenderedAmount")
				if err != nil {
					return nil, err
				}
				if !supplied.Equal(amount) {
					return nil, apperror.NewInvalidError("non-cash tenderedAmount must equal allocated amount")
				}
			}
			change = money.Zero()
		}

		totalAllocated = money.Normalize(totalAllocated.Add(amount))
		totalTendered = money.Normalize(totalTendered.Add(tendered))
		totalChange = money.Normalize(totalChange.Add(change))

		payments = append(payments, AllocatedPayment{
			SequenceNumber:  i + 1,
			TenderType:      *req.TenderType,
			AllocatedAmount: amount,
			TenderedAmount:  tendered,
			ChangeAmount:    change,
			Reference:       trimToNil(req.Reference),
		})
	}

	if !totalAllocated.Equal(totalPayable) {
		return nil, apperror.NewInvalidError("sum of payment allocations must equal total payable")
	}
	expectedChange := money.Normalize(totalTendered.Sub(totalPayable))
	if expectedChange.IsNegative() {
		return nil, apperror.NewInvalidError("sum of tendered amounts cannot be less than total payable")
	}
	if expectedChange.IsPositive() && !hasCash {
		return nil, apperror.NewInvalidError("change is only allowed when at least one CASH allocation is present")
	}
	if !expectedChange.Equal(totalChange) {
		return nil, apperror.NewInvalidError("computed change does not match allocation change totals")
	}

	return &AllocationResult{
		TotalPayable:   totalPayable,
		TotalAllocated: totalAllocated,
		TotalTendered:  totalTendered,
		ChangeAmount:   totalChange,
		Payments:       payments,
	}, nil
}

// strictMoney rejects values written with more than two decimal places
// instead of rounding them away.
func strictMoney(value *decimal.Decimal, field string) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Decimal{}, apperror.NewInvalidError(field + " is required")
	}
	if money.DeclaredScale(*value) > money.AmountScale {
		return decimal.Decimal{}, apperror.NewInvalidError(fmt.Sprintf("%s has too many decimal places", field))
	}
	return money.Normalize(*value), nil
}
