package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
)

type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository
func NewPricingRepository(db *gorm.DB) domainRepo.PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) FindStoreOverride(ctx context.Context, storeLocationID, productID uuid.UUID, at time.Time) (*entity.StorePriceOverride, error) {
	var override entity.StorePriceOverride
	err := database.Conn(ctx, r.db).
		Scopes(EffectiveAt(at), LatestEffective).
		Where("store_location_id = ? AND product_id = ?", storeLocationID, productID).
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &override, err
}

func (r *pricingRepository) FindPriceBookItem(ctx context.Context, merchantID, productID uuid.UUID, at time.Time) (*entity.PriceBookItem, error) {
	var item entity.PriceBookItem
	err := database.Conn(ctx, r.db).
		Scopes(EffectiveAt(at), LatestEffective).
		Where("merchant_id = ? AND product_id = ?", merchantID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

type taxRepository struct {
	db *gorm.DB
}

// NewTaxRepository creates a new tax repository
func NewTaxRepository(db *gorm.DB) domainRepo.TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) FindStoreTaxRule(ctx context.Context, storeLocationID, taxGroupID uuid.UUID, at time.Time) (*entity.StoreTaxRule, error) {
	var rule entity.StoreTaxRule
	err := database.Conn(ctx, r.db).
		Scopes(EffectiveAt(at), LatestEffective).
		Where("store_location_id = ? AND tax_group_id = ?", storeLocationID, taxGroupID).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rule, err
}

func (r *taxRepository) FindRoundingPolicy(ctx context.Context, storeLocationID uuid.UUID, tenderType enum.TenderType) (*entity.RoundingPolicy, error) {
	var policy entity.RoundingPolicy
	err := database.Conn(ctx, r.db).
		Where("store_location_id = ? AND tender_type = ? AND active = ?", storeLocationID, tenderType, true).
		Order("updated_at DESC").
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &policy, err
}
