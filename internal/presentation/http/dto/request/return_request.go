package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SubmitReturnRequest represents a return against an earlier sale
type SubmitReturnRequest struct {
	SaleID           *uuid.UUID          `json:"sale_id"`
	ReceiptNumber    *string             `json:"receipt_number"`
	ReasonCode       string              `json:"reason_code"`
	RefundTenderType *enum.TenderType    `json:"refund_tender_type"`
	RefundReference  *string             `json:"refund_reference"`
	Note             *string             `json:"note"`
	Lines            []ReturnLineRequest `json:"lines"`
}

// ReturnLineRequest is one sale line being returned
type ReturnLineRequest struct {
	SaleLineID uuid.UUID       `json:"sale_line_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ReturnFilterRequest represents return list filters
type ReturnFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	SaleID    string `form:"sale_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
