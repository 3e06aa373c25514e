package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateCartRequest represents a cart creation request. The cashier defaults
// to the authenticated user.
type CreateCartRequest struct {
	CashierUserID    *uuid.UUID `json:"cashier_user_id"`
	StoreLocationID  uuid.UUID  `json:"store_location_id" binding:"required"`
	TerminalDeviceID uuid.UUID  `json:"terminal_device_id" binding:"required"`
	PricingAt        *time.Time `json:"pricing_at"`
}

// AddCartLineRequest represents a line added to a cart
type AddCartLineRequest struct {
	LineKey         *string          `json:"line_key" binding:"omitempty,max=64"`
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	OpenPriceReason *string          `json:"open_price_reason" binding:"omitempty,max=255"`
}

// UpdateCartLineRequest represents new values for a cart line
type UpdateCartLineRequest struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	OpenPriceReason *string          `json:"open_price_reason" binding:"omitempty,max=255"`
}

// RecalculateCartRequest selects the tender whose rounding policy applies
type RecalculateCartRequest struct {
	TenderType *enum.TenderType `json:"tender_type"`
}

// CartOperatorRequest identifies the operator parking, resuming or
// cancelling a cart
type CartOperatorRequest struct {
	CashierUserID    *uuid.UUID `json:"cashier_user_id"`
	TerminalDeviceID uuid.UUID  `json:"terminal_device_id" binding:"required"`
	Note             *string    `json:"note" binding:"omitempty,max=255"`
}

// ParkedCartFilterRequest represents parked cart list filters
type ParkedCartFilterRequest struct {
	StoreLocationID  string `form:"store_location_id" binding:"required"`
	TerminalDeviceID string `form:"terminal_device_id"`
}
