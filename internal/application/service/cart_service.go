package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/domain/sale"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/sangkips/pos-engine/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	parkedReferencePrefix = "PK"
	maxEventDetailLength  = 255
	expiredByPolicyDetail = "parked cart expired by policy"
)

// OpenPricePolicy validates a cashier-entered price for OPEN_PRICE products
type OpenPricePolicy interface {
	ValidateOpenPriceEntry(entered *decimal.Decimal, min, max *decimal.Decimal, reasonRequired bool, reason *string) error
}

// CartService handles the sale cart lifecycle
type CartService struct {
	uow          repository.UnitOfWork
	cartRepo     repository.SaleCartRepository
	operatorRepo repository.OperatorRepository
	productRepo  repository.ProductRepository
	pricing      PricingResolver
	tax          TaxEngine
	rounding     RoundingEngine
	openPrice    OpenPricePolicy
	parkedExpiry time.Duration
	now          func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(
	uow repository.UnitOfWork,
	cartRepo repository.SaleCartRepository,
	operatorRepo repository.OperatorRepository,
	productRepo repository.ProductRepository,
	pricing PricingResolver,
	tax TaxEngine,
	rounding RoundingEngine,
	openPrice OpenPricePolicy,
	parkedExpiry time.Duration,
) *CartService {
	if parkedExpiry < time.Minute {
		parkedExpiry = time.Minute
	}
	return &CartService{
		uow:          uow,
		cartRepo:     cartRepo,
		operatorRepo: operatorRepo,
		productRepo:  productRepo,
		pricing:      pricing,
		tax:          tax,
		rounding:     rounding,
		openPrice:    openPrice,
		parkedExpiry: parkedExpiry,
		now:          time.Now,
	}
}

// CreateCartInput represents the create cart input
type CreateCartInput struct {
	CashierUserID    uuid.UUID
	StoreLocationID  uuid.UUID
	TerminalDeviceID uuid.UUID
	PricingAt        *time.Time
}

// AddLineInput represents a line added to a cart
type AddLineInput struct {
	LineKey         *string
	ProductID       uuid.UUID
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	OpenPriceReason *string
}

// UpdateLineInput represents new values for an existing line
type UpdateLineInput struct {
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	OpenPriceReason *string
}

// CartOperatorInput identifies who is parking, resuming or cancelling a cart
type CartOperatorInput struct {
	CashierUserID    uuid.UUID
	TerminalDeviceID uuid.UUID
	// Note is the park note or the cancel reason
	Note *string
}

// CreateCart opens an ACTIVE cart for a cashier on a terminal
func (s *CartService) CreateCart(ctx context.Context, input *CreateCartInput) (*CartView, error) {
	var view *CartView
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cashier, err := requireCashier(ctx, s.operatorRepo, input.CashierUserID)
		if err != nil {
			return err
		}
		store, err := requireStoreLocation(ctx, s.operatorRepo, input.StoreLocationID)
		if err != nil {
			return err
		}
		terminal, err := requireTerminal(ctx, s.operatorRepo, input.TerminalDeviceID, true)
		if err != nil {
			return err
		}
		if err := validateStoreAndTerminal(store, terminal); err != nil {
			return err
		}
		if err := validateActiveHierarchy(cashier, terminal); err != nil {
			return err
		}

		pricingAt := s.now()
		if input.PricingAt != nil && !input.PricingAt.IsZero() {
			pricingAt = *input.PricingAt
		}

		cart := &entity.SaleCart{
			CashierUserID:    cashier.ID,
			StoreLocationID:  store.ID,
			TerminalDeviceID: terminal.ID,
			Status:           enum.CartStatusActive,
			PricingAt:        pricingAt,
			StoreLocation:    store,
		}
		rounding, err := s.recalculate(ctx, cart, nil)
		if err != nil {
			return err
		}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return fmt.Errorf("failed to create cart: %w", err)
		}
		view = newCartView(cart, rounding)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetCart returns the cart with a rounding summary of its gross total
func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale cart %s", id))
	}
	return s.viewWithDefaultRounding(ctx, cart)
}

// AddLine adds a product to the cart, reusing the line with the same line key
func (s *CartService) AddLine(ctx context.Context, cartID uuid.UUID, input *AddLineInput) (*CartView, error) {
	return s.mutateActiveCart(ctx, cartID, nil, func(ctx context.Context, cart *entity.SaleCart) error {
		product, err := requireProduct(ctx, s.productRepo, input.ProductID)
		if err != nil {
			return err
		}
		if err := ensureCartProductCompatibility(cart, product); err != nil {
			return err
		}

		lineKey, err := sale.NormalizeLineKey(input.LineKey)
		if err != nil {
			return err
		}

		var line *entity.SaleCartLine
		if lineKey != nil {
			line = cart.FindLineByKey(*lineKey)
		}
		if line != nil && line.ProductID != product.ID {
			return apperror.NewConflictError(fmt.Sprintf("lineKey already exists with a different product: %s", *lineKey))
		}

		if line != nil {
			return s.applyLineInputs(ctx, cart, line, product, input.Quantity, input.UnitPrice, input.OpenPriceReason)
		}

		newLine := entity.SaleCartLine{
			CartID:     cart.ID,
			LineKey:    lineKey,
			ProductID:  product.ID,
			LineNumber: cart.NextLineNumber(),
			Product:    product,
		}
		if err := s.applyLineInputs(ctx, cart, &newLine, product, input.Quantity, input.UnitPrice, input.OpenPriceReason); err != nil {
			return err
		}
		cart.Lines = append(cart.Lines, newLine)
		return nil
	})
}

// UpdateLine re-applies quantity and price inputs against the product's
// current catalog row
func (s *CartService) UpdateLine(ctx context.Context, cartID, lineID uuid.UUID, input *UpdateLineInput) (*CartView, error) {
	return s.mutateActiveCart(ctx, cartID, nil, func(ctx context.Context, cart *entity.SaleCart) error {
		line := cart.FindLine(lineID)
		if line == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("sale cart line %s", lineID))
		}
		product, err := requireProduct(ctx, s.productRepo, line.ProductID)
		if err != nil {
			return err
		}
		line.Product = product
		return s.applyLineInputs(ctx, cart, line, product, input.Quantity, input.UnitPrice, input.OpenPriceReason)
	})
}

// RemoveLine deletes a line from the cart
func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*CartView, error) {
	return s.mutateActiveCart(ctx, cartID, nil, func(ctx context.Context, cart *entity.SaleCart) error {
		if !cart.RemoveLine(lineID) {
			return apperror.NewNotFoundError(fmt.Sprintf("sale cart line %s", lineID))
		}
		return nil
	})
}

// Recalculate refreshes line and cart totals, rounding the payable for the
// tender when one is given
func (s *CartService) Recalculate(ctx context.Context, cartID uuid.UUID, tenderType *enum.TenderType) (*CartView, error) {
	return s.mutateActiveCart(ctx, cartID, tenderType, func(context.Context, *entity.SaleCart) error {
		return nil
	})
}

// ParkCart puts an ACTIVE cart aside until the parking window closes
func (s *CartService) ParkCart(ctx context.Context, cartID uuid.UUID, input *CartOperatorInput) (*CartView, error) {
	var view *CartView
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cart, err := s.requireCartForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		if cart.Status != enum.CartStatusActive {
			return apperror.NewConflictError(fmt.Sprintf("sale cart must be ACTIVE to park: %s", cartID))
		}
		operator, err := requireOperatorContext(ctx, s.operatorRepo, cart, input.CashierUserID, input.TerminalDeviceID)
		if err != nil {
			return err
		}

		now := s.now()
		ref := cart.ParkedReference
		if ref == nil {
			ref = &entity.ParkedCartReference{CartID: cart.ID}
			cart.ParkedReference = ref
		}
		ref.ReferenceCode = utils.NewReference(parkedReferencePrefix, cart.ID)
		ref.ParkedAt = now
		ref.ExpiresAt = now.Add(s.parkedExpiry)
		ref.ParkedByUserID = operator.cashier.ID
		ref.ResumedAt, ref.ResumedByUserID = nil, nil
		ref.CancelledAt, ref.CancelledByUserID = nil, nil
		ref.Note = normalizeDetail(input.Note)

		cart.Status = enum.CartStatusParked
		if err := s.saveWithReference(ctx, cart); err != nil {
			return err
		}
		if err := s.recordEvent(ctx, cart, enum.CartEventTypeParked, &operator.cashier.ID, &operator.terminal.ID, input.Note); err != nil {
			return err
		}

		view, err = s.viewWithDefaultRounding(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ResumeCart reactivates a PARKED cart. A cart whose window has closed is
// expired instead; the expiry is kept even though the call fails.
func (s *CartService) ResumeCart(ctx context.Context, cartID uuid.UUID, input *CartOperatorInput) (*CartView, error) {
	var (
		view       *CartView
		expiredErr error
	)
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cart, err := s.requireCartForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		operator, err := requireOperatorContext(ctx, s.operatorRepo, cart, input.CashierUserID, input.TerminalDeviceID)
		if err != nil {
			return err
		}

		now := s.now()
		if s.isExpired(cart, now) {
			if err := s.expire(ctx, cart, operator.terminal.ID); err != nil {
				return err
			}
			expiredErr = apperror.NewConflictError(fmt.Sprintf("sale cart parking window expired and cannot be resumed: %s", cartID))
			return nil
		}
		if cart.Status != enum.CartStatusParked {
			return apperror.NewConflictError(fmt.Sprintf("sale cart is not parked: %s", cartID))
		}
		ref, err := requireParkedReference(cart)
		if err != nil {
			return err
		}

		ref.ResumedAt = &now
		ref.ResumedByUserID = &operator.cashier.ID
		cart.Status = enum.CartStatusActive
		if err := s.saveWithReference(ctx, cart); err != nil {
			return err
		}
		if err := s.recordEvent(ctx, cart, enum.CartEventTypeResumed, &operator.cashier.ID, &operator.terminal.ID, nil); err != nil {
			return err
		}

		view, err = s.viewWithDefaultRounding(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expiredErr != nil {
		return nil, expiredErr
	}
	return view, nil
}

// CancelCart voids an ACTIVE or PARKED cart
func (s *CartService) CancelCart(ctx context.Context, cartID uuid.UUID, input *CartOperatorInput) (*CartView, error) {
	var (
		view       *CartView
		expiredErr error
	)
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cart, err := s.requireCartForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		operator, err := requireOperatorContext(ctx, s.operatorRepo, cart, input.CashierUserID, input.TerminalDeviceID)
		if err != nil {
			return err
		}

		now := s.now()
		if s.isExpired(cart, now) {
			if err := s.expire(ctx, cart, operator.terminal.ID); err != nil {
				return err
			}
			expiredErr = apperror.NewConflictError(fmt.Sprintf("sale cart parking window expired and cannot be cancelled: %s", cartID))
			return nil
		}
		if cart.Status == enum.CartStatusVoided || cart.Status == enum.CartStatusCheckedOut {
			return apperror.NewConflictError(fmt.Sprintf("sale cart cannot be cancelled in status: %s", cart.Status))
		}

		cart.Status = enum.CartStatusVoided
		if ref := cart.ParkedReference; ref != nil {
			ref.CancelledAt = &now
			ref.CancelledByUserID = &operator.cashier.ID
		}
		if err := s.saveWithReference(ctx, cart); err != nil {
			return err
		}
		if err := s.recordEvent(ctx, cart, enum.CartEventTypeCancelled, &operator.cashier.ID, &operator.terminal.ID, input.Note); err != nil {
			return err
		}

		view, err = s.viewWithDefaultRounding(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expiredErr != nil {
		return nil, expiredErr
	}
	return view, nil
}

// ListParkedCarts returns the parked carts of a store, optionally for one
// terminal. Carts found past their window are expired and left out.
func (s *CartService) ListParkedCarts(ctx context.Context, storeLocationID uuid.UUID, terminalDeviceID *uuid.UUID) ([]ParkedCartSummary, error) {
	summaries := make([]ParkedCartSummary, 0)
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		store, err := requireStoreLocation(ctx, s.operatorRepo, storeLocationID)
		if err != nil {
			return err
		}
		if terminalDeviceID != nil {
			terminal, err := requireTerminal(ctx, s.operatorRepo, *terminalDeviceID, false)
			if err != nil {
				return err
			}
			if err := validateStoreAndTerminal(store, terminal); err != nil {
				return err
			}
		}

		carts, err := s.cartRepo.ListParked(ctx, store.ID, terminalDeviceID)
		if err != nil {
			return err
		}

		now := s.now()
		for i := range carts {
			cart := &carts[i]
			if !s.isExpired(cart, now) {
				summaries = append(summaries, newParkedCartSummary(cart))
				continue
			}

			locked, err := s.requireCartForUpdate(ctx, cart.ID)
			if err != nil {
				return err
			}
			if !s.isExpired(locked, now) {
				continue
			}
			eventTerminal := locked.TerminalDeviceID
			if terminalDeviceID != nil {
				eventTerminal = *terminalDeviceID
			}
			if err := s.expire(ctx, locked, eventTerminal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// mutateActiveCart locks an ACTIVE cart, applies fn, recalculates and saves
func (s *CartService) mutateActiveCart(
	ctx context.Context,
	cartID uuid.UUID,
	tenderType *enum.TenderType,
	fn func(ctx context.Context, cart *entity.SaleCart) error,
) (*CartView, error) {
	var view *CartView
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cart, err := s.requireCartForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		if cart.Status != enum.CartStatusActive {
			return apperror.NewConflictError(fmt.Sprintf("sale cart is not active: %s", cartID))
		}

		if err := fn(ctx, cart); err != nil {
			return err
		}

		rounding, err := s.recalculate(ctx, cart, tenderType)
		if err != nil {
			return err
		}
		if err := s.cartRepo.Save(ctx, cart); err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		view = newCartView(cart, rounding)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *CartService) applyLineInputs(
	ctx context.Context,
	cart *entity.SaleCart,
	line *entity.SaleCartLine,
	product *entity.Product,
	quantity, unitPrice *decimal.Decimal,
	openPriceReason *string,
) error {
	normalizedQty, err := sale.NormalizeQuantity(product, quantity)
	if err != nil {
		return err
	}
	reason, err := sale.NormalizeOpenPriceReason(openPriceReason)
	if err != nil {
		return err
	}
	line.Quantity = normalizedQty

	if product.SaleMode == enum.SaleModeOpenPrice {
		entered, err := sale.NormalizeUnitPrice(unitPrice)
		if err != nil {
			return err
		}
		if err := s.openPrice.ValidateOpenPriceEntry(&entered, product.OpenPriceMin, product.OpenPriceMax, product.OpenPriceRequiresReason, reason); err != nil {
			return err
		}
		line.UnitPrice = entered
		line.OpenPriceReason = reason
		return nil
	}

	if unitPrice != nil {
		return apperror.NewInvalidError("unitPrice is only allowed for OPEN_PRICE products")
	}
	if reason != nil {
		return apperror.NewInvalidError("openPriceReason is only allowed for OPEN_PRICE products")
	}

	resolution, err := s.pricing.ResolvePrice(ctx, PriceQuery{
		StoreLocationID: cart.StoreLocationID,
		ProductID:       product.ID,
		At:              cart.PricingAt,
	})
	if err != nil {
		return err
	}
	line.UnitPrice = money.Normalize(resolution.Price)
	line.OpenPriceReason = nil
	return nil
}

// recalculate writes line and cart totals from the tax engine. Totals are
// never computed anywhere else.
func (s *CartService) recalculate(ctx context.Context, cart *entity.SaleCart, tenderType *enum.TenderType) (*RoundingSummary, error) {
	lines := cart.OrderedLines()
	if len(lines) == 0 {
		rounding, err := s.rounding.Apply(ctx, cart.StoreLocationID, tenderType, money.Zero())
		if err != nil {
			return nil, err
		}
		cart.SubtotalNet = money.Zero()
		cart.TotalTax = money.Zero()
		cart.TotalGross = money.Zero()
		cart.RoundingAdjustment = money.Normalize(rounding.Adjustment)
		cart.TotalPayable = money.Normalize(rounding.RoundedAmount)
		return rounding, nil
	}

	req := TaxPreviewRequest{
		StoreLocationID: cart.StoreLocationID,
		At:              cart.PricingAt,
		TenderType:      tenderType,
		Lines:           make([]TaxPreviewLineRequest, 0, len(lines)),
	}
	for _, line := range lines {
		price := line.UnitPrice
		req.Lines = append(req.Lines, TaxPreviewLineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: &price,
		})
	}

	preview, err := s.tax.Preview(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(preview.Lines) != len(lines) {
		return nil, fmt.Errorf("tax preview returned %d lines for %d cart lines", len(preview.Lines), len(lines))
	}

	for i, line := range lines {
		result := preview.Lines[i]
		line.NetAmount = money.Normalize(result.NetAmount)
		line.TaxAmount = money.Normalize(result.TaxAmount)
		line.GrossAmount = money.Normalize(result.GrossAmount)
	}
	cart.SubtotalNet = money.Normalize(preview.SubtotalNet)
	cart.TotalTax = money.Normalize(preview.TotalTax)
	cart.TotalGross = money.Normalize(preview.TotalGross)
	cart.RoundingAdjustment = money.Normalize(preview.RoundingAdjustment)
	cart.TotalPayable = money.Normalize(preview.TotalPayable)
	return preview.Rounding, nil
}

func (s *CartService) viewWithDefaultRounding(ctx context.Context, cart *entity.SaleCart) (*CartView, error) {
	rounding, err := s.rounding.Apply(ctx, cart.StoreLocationID, nil, cart.TotalGross)
	if err != nil {
		return nil, err
	}
	return newCartView(cart, rounding), nil
}

func (s *CartService) requireCartForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleCart, error) {
	cart, err := s.cartRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale cart %s", id))
	}
	return cart, nil
}

func (s *CartService) isExpired(cart *entity.SaleCart, now time.Time) bool {
	if cart.Status != enum.CartStatusParked || cart.ParkedReference == nil {
		return false
	}
	return cart.ParkedReference.IsExpired(now)
}

// expire voids a parked cart whose window closed and records why
func (s *CartService) expire(ctx context.Context, cart *entity.SaleCart, terminalDeviceID uuid.UUID) error {
	cart.Status = enum.CartStatusVoided
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to expire cart: %w", err)
	}
	detail := expiredByPolicyDetail
	if err := s.recordEvent(ctx, cart, enum.CartEventTypeExpired, nil, &terminalDeviceID, &detail); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("parked cart expired",
		zap.String("cart_id", cart.ID.String()),
		zap.Time("expires_at", cart.ParkedReference.ExpiresAt))
	return nil
}

func (s *CartService) saveWithReference(ctx context.Context, cart *entity.SaleCart) error {
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if cart.ParkedReference != nil {
		cart.ParkedReference.CartID = cart.ID
		if err := s.cartRepo.SaveParkedReference(ctx, cart.ParkedReference); err != nil {
			return fmt.Errorf("failed to save parked reference: %w", err)
		}
	}
	return nil
}

func (s *CartService) recordEvent(
	ctx context.Context,
	cart *entity.SaleCart,
	eventType enum.CartEventType,
	actorUserID, terminalDeviceID *uuid.UUID,
	detail *string,
) error {
	event := &entity.SaleCartEvent{
		CartID:           cart.ID,
		EventType:        eventType,
		ActorUserID:      actorUserID,
		TerminalDeviceID: terminalDeviceID,
		CorrelationID:    actor.CorrelationIDPtr(ctx),
		Detail:           normalizeDetail(detail),
	}
	if err := s.cartRepo.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to record cart event: %w", err)
	}
	return nil
}

func ensureCartProductCompatibility(cart *entity.SaleCart, product *entity.Product) error {
	if !product.Active {
		return apperror.NewInvalidError(fmt.Sprintf("product is inactive: %s", product.ID))
	}
	if cart.PricingAt.IsZero() {
		return apperror.NewInvalidError("cart pricingAt is required")
	}
	if cart.StoreLocation == nil || cart.StoreLocation.MerchantID != product.MerchantID {
		return apperror.NewInvalidError("product does not belong to cart merchant context")
	}
	return nil
}

func requireParkedReference(cart *entity.SaleCart) (*entity.ParkedCartReference, error) {
	if cart.ParkedReference == nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("parked cart metadata missing for cart: %s", cart.ID))
	}
	return cart.ParkedReference, nil
}

// normalizeDetail trims free text for audit columns, capping it at 255
// characters
func normalizeDetail(detail *string) *string {
	if detail == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*detail)
	if trimmed == "" {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > maxEventDetailLength {
		trimmed = string(runes[:maxEventDetailLength])
	}
	return &trimmed
}
