package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
)

// PricingRepository finds the effective-dated price sources
type PricingRepository interface {
	// FindStoreOverride returns the active override effective at, latest start first
	FindStoreOverride(ctx context.Context, storeLocationID, productID uuid.UUID, at time.Time) (*entity.StorePriceOverride, error)
	// FindPriceBookItem returns the active merchant price effective at
	FindPriceBookItem(ctx context.Context, merchantID, productID uuid.UUID, at time.Time) (*entity.PriceBookItem, error)
}

// TaxRepository finds tax rules and rounding policies for a store
type TaxRepository interface {
	FindStoreTaxRule(ctx context.Context, storeLocationID, taxGroupID uuid.UUID, at time.Time) (*entity.StoreTaxRule, error)
	FindRoundingPolicy(ctx context.Context, storeLocationID uuid.UUID, tenderType enum.TenderType) (*entity.RoundingPolicy, error)
}
