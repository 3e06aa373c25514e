package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// PricingResolver resolves the catalog price of a product in a store
type PricingResolver interface {
	ResolvePrice(ctx context.Context, query PriceQuery) (*PriceResolution, error)
}

// PriceQuery identifies the price being asked for. A zero At means now.
type PriceQuery struct {
	StoreLocationID uuid.UUID
	ProductID       uuid.UUID
	CustomerID      *uuid.UUID
	At              time.Time
}

// PriceResolution is the resolved price together with where it came from
type PriceResolution struct {
	StoreLocationID uuid.UUID
	ProductID       uuid.UUID
	Price           decimal.Decimal
	Source          enum.PriceSource
	SourceID        uuid.UUID
	EffectiveFrom   *time.Time
	EffectiveTo     *time.Time
	ResolvedAt      time.Time
}

// PricingService resolves prices from store overrides, the merchant price
// book and finally the product base price
type PricingService struct {
	operatorRepo repository.OperatorRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	pricingRepo  repository.PricingRepository
	now          func() time.Time
}

// NewPricingService creates a new pricing service
func NewPricingService(
	operatorRepo repository.OperatorRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	pricingRepo repository.PricingRepository,
) *PricingService {
	return &PricingService{
		operatorRepo: operatorRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		pricingRepo:  pricingRepo,
		now:          time.Now,
	}
}

// ResolvePrice returns the price effective at query.At
func (s *PricingService) ResolvePrice(ctx context.Context, query PriceQuery) (*PriceResolution, error) {
	store, err := s.operatorRepo.GetStoreLocation(ctx, query.StoreLocationID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("store location %s", query.StoreLocationID))
	}

	product, err := s.productRepo.GetByID(ctx, query.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("product %s", query.ProductID))
	}
	if product.MerchantID != store.MerchantID {
		return nil, apperror.NewInvalidError("product does not belong to store merchant context")
	}

	if query.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *query.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("customer %s", *query.CustomerID))
		}
		if customer.MerchantID != store.MerchantID {
			return nil, apperror.NewInvalidError("customer does not belong to store merchant context")
		}
	}

	at := query.At
	if at.IsZero() {
		at = s.now()
	}

	resolution := &PriceResolution{
		StoreLocationID: store.ID,
		ProductID:       product.ID,
		ResolvedAt:      at,
	}

	override, err := s.pricingRepo.FindStoreOverride(ctx, store.ID, product.ID, at)
	if err != nil {
		return nil, err
	}
	if override != nil {
		resolution.Price = money.Normalize(override.Price)
		resolution.Source = enum.PriceSourceStoreOverride
		resolution.SourceID = override.ID
		resolution.EffectiveFrom = override.EffectiveFrom
		resolution.EffectiveTo = override.EffectiveTo
		return resolution, nil
	}

	item, err := s.pricingRepo.FindPriceBookItem(ctx, store.MerchantID, product.ID, at)
	if err != nil {
		return nil, err
	}
	if item != nil {
		resolution.Price = money.Normalize(item.Price)
		resolution.Source = enum.PriceSourcePriceBook
		resolution.SourceID = item.ID
		resolution.EffectiveFrom = item.EffectiveFrom
		resolution.EffectiveTo = item.EffectiveTo
		return resolution, nil
	}

	resolution.Price = money.Normalize(product.BasePrice)
	resolution.Source = enum.PriceSourceBasePrice
	resolution.SourceID = product.ID
	return resolution, nil
}

var _ PricingResolver = (*PricingService)(nil)

// requireProduct loads a product or fails NotFound
func requireProduct(ctx context.Context, repo repository.ProductRepository, id uuid.UUID) (*entity.Product, error) {
	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("product %s", id))
	}
	return product, nil
}
