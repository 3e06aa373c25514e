package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleReturn records goods brought back against an earlier sale
type SaleReturn struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	PaymentID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	ReturnReference  string          `gorm:"size:80;unique;not null" json:"return_reference"`
	ReasonCode       string          `gorm:"size:50;not null" json:"reason_code"`
	RefundTenderType enum.TenderType `gorm:"not null" json:"refund_tender_type"`
	RefundNote       *string         `gorm:"size:255" json:"refund_note,omitempty"`
	SubtotalNet      decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"subtotal_net"`
	TotalTax         decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"total_tax"`
	TotalGross       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"total_gross"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	Lines  []SaleReturnLine  `gorm:"foreignKey:SaleReturnID" json:"lines,omitempty"`
	Refund *SaleReturnRefund `gorm:"foreignKey:SaleReturnID" json:"refund,omitempty"`
}

// BeforeCreate generates a UUID before creating a new return
func (r *SaleReturn) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleReturn model
func (SaleReturn) TableName() string {
	return "sale_returns"
}

// SaleReturnLine is the returned share of one sale line
type SaleReturnLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleReturnID uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_return_id"`
	SaleLineID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_line_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	LineNumber   int             `gorm:"not null" json:"line_number"`
	Quantity     decimal.Decimal `gorm:"type:numeric(19,3);not null" json:"quantity"`
	NetAmount    decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"net_amount"`
	TaxAmount    decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"tax_amount"`
	GrossAmount  decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"gross_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (l *SaleReturnLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (SaleReturnLine) TableName() string {
	return "sale_return_lines"
}

// SaleReturnRefund is the money handed back for a return
type SaleReturnRefund struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleReturnID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"sale_return_id"`
	PaymentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	TenderType   enum.TenderType `gorm:"not null" json:"tender_type"`
	Amount       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	Reference    *string         `gorm:"size:120" json:"reference,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (r *SaleReturnRefund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (SaleReturnRefund) TableName() string {
	return "sale_return_refunds"
}

// ReturnedTotals aggregates every earlier return against one sale line.
// It is computed, never stored.
type ReturnedTotals struct {
	SaleLineID uuid.UUID
	Quantity   decimal.Decimal
	Net        decimal.Decimal
	Tax        decimal.Decimal
	Gross      decimal.Decimal
}
