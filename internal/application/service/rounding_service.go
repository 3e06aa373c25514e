package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// RoundingEngine rounds a payable amount for a tender type
type RoundingEngine interface {
	Apply(ctx context.Context, storeLocationID uuid.UUID, tenderType *enum.TenderType, amount decimal.Decimal) (*RoundingSummary, error)
}

// RoundingSummary describes how a payable amount was rounded
type RoundingSummary struct {
	Applied         bool
	TenderType      *enum.TenderType
	Method          *enum.RoundingMethod
	IncrementAmount *decimal.Decimal
	OriginalAmount  decimal.Decimal
	RoundedAmount   decimal.Decimal
	Adjustment      decimal.Decimal
}

// RoundingService applies the store's rounding policy for a tender
type RoundingService struct {
	taxRepo repository.TaxRepository
}

// NewRoundingService creates a new rounding service
func NewRoundingService(taxRepo repository.TaxRepository) *RoundingService {
	return &RoundingService{taxRepo: taxRepo}
}

// Apply rounds amount to the increment of the active policy for the tender.
// Without a tender or a policy the amount is returned unchanged.
func (s *RoundingService) Apply(ctx context.Context, storeLocationID uuid.UUID, tenderType *enum.TenderType, amount decimal.Decimal) (*RoundingSummary, error) {
	if amount.IsNegative() {
		return nil, apperror.NewInvalidError("amount must be non-negative")
	}
	original := money.Normalize(amount)

	if tenderType == nil {
		return notRounded(nil, original), nil
	}

	policy, err := s.taxRepo.FindRoundingPolicy(ctx, storeLocationID, *tenderType)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return notRounded(tenderType, original), nil
	}

	increment := money.Normalize(policy.IncrementAmount)
	if !increment.IsPositive() {
		return nil, apperror.NewInvalidError("incrementAmount must be greater than zero")
	}

	rounded := money.Normalize(roundSteps(original.Div(increment), policy.Method).Mul(increment))
	tender := policy.TenderType
	method := policy.Method
	return &RoundingSummary{
		Applied:         true,
		TenderType:      &tender,
		Method:          &method,
		IncrementAmount: &increment,
		OriginalAmount:  original,
		RoundedAmount:   rounded,
		Adjustment:      money.Normalize(rounded.Sub(original)),
	}, nil
}

func roundSteps(steps decimal.Decimal, method enum.RoundingMethod) decimal.Decimal {
	switch method {
	case enum.RoundingMethodUp:
		return steps.Ceil()
	case enum.RoundingMethodDown:
		return steps.Floor()
	default:
		return steps.Round(0)
	}
}

func notRounded(tenderType *enum.TenderType, amount decimal.Decimal) *RoundingSummary {
	return &RoundingSummary{
		TenderType:     tenderType,
		OriginalAmount: amount,
		RoundedAmount:  amount,
		Adjustment:     money.Zero(),
	}
}

var _ RoundingEngine = (*RoundingService)(nil)
