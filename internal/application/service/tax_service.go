package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// TaxEngine computes per-line and total tax for a set of priced lines
type TaxEngine interface {
	Preview(ctx context.Context, req TaxPreviewRequest) (*TaxPreview, error)
}

// TaxPreviewRequest lists the lines to tax. A nil UnitPrice is resolved
// through the pricing resolver.
type TaxPreviewRequest struct {
	StoreLocationID uuid.UUID
	At              time.Time
	TenderType      *enum.TenderType
	Lines           []TaxPreviewLineRequest
}

// TaxPreviewLineRequest is one line to tax
type TaxPreviewLineRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// TaxPreviewLine is the taxed result of one line, in request order
type TaxPreviewLine struct {
	LineNumber     int
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TaxGroupCode   string
	TaxMode        enum.TaxMode
	TaxRatePercent decimal.Decimal
	Exempt         bool
	ZeroRated      bool
	NetAmount      decimal.Decimal
	TaxAmount      decimal.Decimal
	GrossAmount    decimal.Decimal
}

// TaxPreview carries line results, totals and the payable after rounding
type TaxPreview struct {
	StoreLocationID    uuid.UUID
	At                 time.Time
	Lines              []TaxPreviewLine
	SubtotalNet        decimal.Decimal
	TotalTax           decimal.Decimal
	TotalGross         decimal.Decimal
	RoundingAdjustment decimal.Decimal
	TotalPayable       decimal.Decimal
	Rounding           *RoundingSummary
}

var (
	hundred     = decimal.NewFromInt(100)
	rateScale   = int32(4)
	divideScale = int32(6)
)

// TaxService applies store tax rules per product tax group
type TaxService struct {
	operatorRepo repository.OperatorRepository
	productRepo  repository.ProductRepository
	taxRepo      repository.TaxRepository
	pricing      PricingResolver
	rounding     RoundingEngine
}

// NewTaxService creates a new tax service
func NewTaxService(
	operatorRepo repository.OperatorRepository,
	productRepo repository.ProductRepository,
	taxRepo repository.TaxRepository,
	pricing PricingResolver,
	rounding RoundingEngine,
) *TaxService {
	return &TaxService{
		operatorRepo: operatorRepo,
		productRepo:  productRepo,
		taxRepo:      taxRepo,
		pricing:      pricing,
		rounding:     rounding,
	}
}

// Preview taxes every line and rounds the gross total for the tender
func (s *TaxService) Preview(ctx context.Context, req TaxPreviewRequest) (*TaxPreview, error) {
	store, err := s.operatorRepo.GetStoreLocation(ctx, req.StoreLocationID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("store location %s", req.StoreLocationID))
	}

	preview := &TaxPreview{
		StoreLocationID: store.ID,
		At:              req.At,
		Lines:           make([]TaxPreviewLine, 0, len(req.Lines)),
		SubtotalNet:     money.Zero(),
		TotalTax:        money.Zero(),
		TotalGross:      money.Zero(),
	}

	for i, lineReq := range req.Lines {
		product, err := requireProduct(ctx, s.productRepo, lineReq.ProductID)
		if err != nil {
			return nil, err
		}
		if product.MerchantID != store.MerchantID {
			return nil, apperror.NewInvalidError("product does not belong to store merchant context")
		}
		if product.TaxGroupID == nil || product.TaxGroup == nil {
			return nil, apperror.NewInvalidError(fmt.Sprintf("product tax group is not configured: %s", product.ID))
		}

		rule, err := s.taxRepo.FindStoreTaxRule(ctx, store.ID, *product.TaxGroupID, req.At)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, apperror.NewInvalidError(fmt.Sprintf(
				"store tax rule not found for storeLocationId=%s taxGroupId=%s", store.ID, *product.TaxGroupID))
		}

		if !lineReq.Quantity.IsPositive() {
			return nil, apperror.NewInvalidError("quantity must be greater than zero")
		}

		unitPrice, err := s.unitPrice(ctx, req, lineReq)
		if err != nil {
			return nil, err
		}

		rate := product.TaxGroup.TaxRatePercent.Round(rateScale)
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return nil, apperror.NewInvalidError("taxRatePercent must be between 0 and 100")
		}

		line := TaxPreviewLine{
			LineNumber:     i + 1,
			ProductID:      product.ID,
			Quantity:       lineReq.Quantity,
			UnitPrice:      unitPrice,
			TaxGroupCode:   product.TaxGroup.Code,
			TaxMode:        rule.TaxMode,
			TaxRatePercent: rate,
		}
		line.ZeroRated = product.TaxGroup.ZeroRated || rate.IsZero()
		line.Exempt = rule.Exempt || line.ZeroRated
		line.NetAmount, line.TaxAmount, line.GrossAmount = lineAmounts(unitPrice.Mul(lineReq.Quantity), rate, rule.TaxMode, line.Exempt)

		preview.Lines = append(preview.Lines, line)
		preview.SubtotalNet = preview.SubtotalNet.Add(line.NetAmount)
		preview.TotalTax = preview.TotalTax.Add(line.TaxAmount)
		preview.TotalGross = preview.TotalGross.Add(line.GrossAmount)
	}

	rounding, err := s.rounding.Apply(ctx, store.ID, req.TenderType, preview.TotalGross)
	if err != nil {
		return nil, err
	}
	preview.Rounding = rounding
	preview.RoundingAdjustment = rounding.Adjustment
	preview.TotalPayable = rounding.RoundedAmount
	return preview, nil
}

func (s *TaxService) unitPrice(ctx context.Context, req TaxPreviewRequest, line TaxPreviewLineRequest) (decimal.Decimal, error) {
	if line.UnitPrice != nil {
		return money.Normalize(*line.UnitPrice), nil
	}
	resolution, err := s.pricing.ResolvePrice(ctx, PriceQuery{
		StoreLocationID: req.StoreLocationID,
		ProductID:       line.ProductID,
		At:              req.At,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return money.Normalize(resolution.Price), nil
}

// lineAmounts splits a line amount into net, tax and gross. Exclusive
// prices are net; inclusive prices are gross with the tax backed out.
func lineAmounts(amount, ratePercent decimal.Decimal, mode enum.TaxMode, exempt bool) (net, tax, gross decimal.Decimal) {
	lineAmount := money.Normalize(amount)
	if exempt {
		return lineAmount, money.Zero(), lineAmount
	}

	rate := ratePercent.Div(hundred)
	if mode == enum.TaxModeExclusive {
		tax = money.Normalize(lineAmount.Mul(rate))
		return lineAmount, tax, money.Normalize(lineAmount.Add(tax))
	}

	net = money.Normalize(lineAmount.DivRound(decimal.NewFromInt(1).Add(rate), divideScale))
	return net, money.Normalize(lineAmount.Sub(net)), lineAmount
}

var _ TaxEngine = (*TaxService)(nil)
