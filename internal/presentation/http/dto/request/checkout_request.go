package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents a checkout of an active cart
type CheckoutRequest struct {
	CartID           uuid.UUID                `json:"cart_id" binding:"required"`
	CashierUserID    *uuid.UUID               `json:"cashier_user_id"`
	TerminalDeviceID uuid.UUID                `json:"terminal_device_id" binding:"required"`
	CustomerID       *uuid.UUID               `json:"customer_id"`
	Payments         []CheckoutPaymentRequest `json:"payments"`
}

// CheckoutPaymentRequest is one tender of a checkout
type CheckoutPaymentRequest struct {
	TenderType     *enum.TenderType `json:"tender_type"`
	Amount         *decimal.Decimal `json:"amount"`
	TenderedAmount *decimal.Decimal `json:"tendered_amount"`
	Reference      *string          `json:"reference" binding:"omitempty,max=120"`
}

// PaymentTransitionRequest carries the optional note of a capture, void or
// refund
type PaymentTransitionRequest struct {
	Note *string `json:"note" binding:"omitempty,max=255"`
}
