package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/money"
)

// RoundingView is the JSON shape of a RoundingSummary
type RoundingView struct {
	Applied         bool                 `json:"applied"`
	TenderType      *enum.TenderType     `json:"tender_type,omitempty"`
	Method          *enum.RoundingMethod `json:"method,omitempty"`
	IncrementAmount *money.Amount        `json:"increment_amount,omitempty"`
	OriginalAmount  money.Amount         `json:"original_amount"`
	RoundedAmount   money.Amount         `json:"rounded_amount"`
	Adjustment      money.Amount         `json:"adjustment"`
}

func newRoundingView(summary *RoundingSummary) *RoundingView {
	if summary == nil {
		return nil
	}
	return &RoundingView{
		Applied:         summary.Applied,
		TenderType:      summary.TenderType,
		Method:          summary.Method,
		IncrementAmount: money.AmountPtr(summary.IncrementAmount),
		OriginalAmount:  money.NewAmount(summary.OriginalAmount),
		RoundedAmount:   money.NewAmount(summary.RoundedAmount),
		Adjustment:      money.NewAmount(summary.Adjustment),
	}
}

// CartLineView is one cart line as returned to clients
type CartLineView struct {
	ID              uuid.UUID      `json:"id"`
	LineKey         *string        `json:"line_key,omitempty"`
	LineNumber      int            `json:"line_number"`
	ProductID       uuid.UUID      `json:"product_id"`
	SKU             string         `json:"sku"`
	Name            string         `json:"name"`
	SaleMode        enum.SaleMode  `json:"sale_mode"`
	Quantity        money.Quantity `json:"quantity"`
	UnitPrice       money.Amount   `json:"unit_price"`
	NetAmount       money.Amount   `json:"net_amount"`
	TaxAmount       money.Amount   `json:"tax_amount"`
	GrossAmount     money.Amount   `json:"gross_amount"`
	OpenPriceReason *string        `json:"open_price_reason,omitempty"`
}

// CartView is a cart with its ordered lines, totals and rounding summary
type CartView struct {
	ID                 uuid.UUID            `json:"id"`
	CashierUserID      uuid.UUID            `json:"cashier_user_id"`
	StoreLocationID    uuid.UUID            `json:"store_location_id"`
	TerminalDeviceID   uuid.UUID            `json:"terminal_device_id"`
	Status             enum.CartStatus      `json:"status"`
	PricingAt          time.Time            `json:"pricing_at"`
	Lines              []CartLineView       `json:"lines"`
	SubtotalNet        money.Amount         `json:"subtotal_net"`
	TotalTax           money.Amount         `json:"total_tax"`
	TotalGross         money.Amount         `json:"total_gross"`
	RoundingAdjustment money.Amount         `json:"rounding_adjustment"`
	TotalPayable       money.Amount         `json:"total_payable"`
	Rounding           *RoundingView        `json:"rounding,omitempty"`
	ParkedReference    *ParkedReferenceView `json:"parked_reference,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ParkedReferenceView describes the parking window of a cart
type ParkedReferenceView struct {
	ReferenceCode string     `json:"reference_code"`
	ParkedAt      time.Time  `json:"parked_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	ResumedAt     *time.Time `json:"resumed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	Note          *string    `json:"note,omitempty"`
}

// ParkedCartSummary is one entry of the parked cart list
type ParkedCartSummary struct {
	CartID           uuid.UUID    `json:"cart_id"`
	ReferenceCode    string       `json:"reference_code"`
	CashierUserID    uuid.UUID    `json:"cashier_user_id"`
	StoreLocationID  uuid.UUID    `json:"store_location_id"`
	TerminalDeviceID uuid.UUID    `json:"terminal_device_id"`
	PricingAt        time.Time    `json:"pricing_at"`
	TotalPayable     money.Amount `json:"total_payable"`
	ParkedAt         time.Time    `json:"parked_at"`
	ExpiresAt        time.Time    `json:"expires_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func newCartView(cart *entity.SaleCart, rounding *RoundingSummary) *CartView {
	view := &CartView{
		ID:                 cart.ID,
		CashierUserID:      cart.CashierUserID,
		StoreLocationID:    cart.StoreLocationID,
		TerminalDeviceID:   cart.TerminalDeviceID,
		Status:             cart.Status,
		PricingAt:          cart.PricingAt,
		Lines:              make([]CartLineView, 0, len(cart.Lines)),
		SubtotalNet:        money.NewAmount(cart.SubtotalNet),
		TotalTax:           money.NewAmount(cart.TotalTax),
		TotalGross:         money.NewAmount(cart.TotalGross),
		RoundingAdjustment: money.NewAmount(cart.RoundingAdjustment),
		TotalPayable:       money.NewAmount(cart.TotalPayable),
		Rounding:           newRoundingView(rounding),
		CreatedAt:          cart.CreatedAt,
		UpdatedAt:          cart.UpdatedAt,
	}

	for _, line := range cart.OrderedLines() {
		lineView := CartLineView{
			ID:              line.ID,
			LineKey:         line.LineKey,
			LineNumber:      line.LineNumber,
			ProductID:       line.ProductID,
			Quantity:        money.NewQuantity(line.Quantity),
			UnitPrice:       money.NewAmount(line.UnitPrice),
			NetAmount:       money.NewAmount(line.NetAmount),
			TaxAmount:       money.NewAmount(line.TaxAmount),
			GrossAmount:     money.NewAmount(line.GrossAmount),
			OpenPriceReason: line.OpenPriceReason,
		}
		if line.Product != nil {
			lineView.SKU = line.Product.SKU
			lineView.Name = line.Product.Name
			lineView.SaleMode = line.Product.SaleMode
		}
		view.Lines = append(view.Lines, lineView)
	}

	if ref := cart.ParkedReference; ref != nil {
		view.ParkedReference = &ParkedReferenceView{
			ReferenceCode: ref.ReferenceCode,
			ParkedAt:      ref.ParkedAt,
			ExpiresAt:     ref.ExpiresAt,
			ResumedAt:     ref.ResumedAt,
			CancelledAt:   ref.CancelledAt,
			Note:          ref.Note,
		}
	}
	return view
}

func newParkedCartSummary(cart *entity.SaleCart) ParkedCartSummary {
	summary := ParkedCartSummary{
		CartID:           cart.ID,
		CashierUserID:    cart.CashierUserID,
		StoreLocationID:  cart.StoreLocationID,
		TerminalDeviceID: cart.TerminalDeviceID,
		PricingAt:        cart.PricingAt,
		TotalPayable:     money.NewAmount(cart.TotalPayable),
		UpdatedAt:        cart.UpdatedAt,
	}
	if ref := cart.ParkedReference; ref != nil {
		summary.ReferenceCode = ref.ReferenceCode
		summary.ParkedAt = ref.ParkedAt
		summary.ExpiresAt = ref.ExpiresAt
	}
	return summary
}
