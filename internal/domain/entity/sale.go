package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is the immutable snapshot of a checked-out cart
type Sale struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CartID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"cart_id"`
	CashierUserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_user_id"`
	StoreLocationID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_location_id"`
	TerminalDeviceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"terminal_device_id"`
	CustomerID         *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	ReceiptNumber      string          `gorm:"size:80;unique;not null" json:"receipt_number"`
	SubtotalNet        decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"subtotal_net"`
	TotalTax           decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"total_tax"`
	TotalGross         decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"total_gross"`
	RoundingAdjustment decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"rounding_adjustment"`
	TotalPayable       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"total_payable"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Relationships
	Lines []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// FindLine returns the sale line with the given id, if it belongs to the sale
func (s *Sale) FindLine(id uuid.UUID) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ID == id {
			return &s.Lines[i]
		}
	}
	return nil
}

// SaleLine is one line of a sale, copied from the cart at checkout
type SaleLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	LineNumber      int             `gorm:"not null" json:"line_number"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity        decimal.Decimal `gorm:"type:numeric(19,3);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"unit_price"`
	NetAmount       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"net_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"tax_amount"`
	GrossAmount     decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"gross_amount"`
	OpenPriceReason *string         `gorm:"size:255" json:"open_price_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (SaleLine) TableName() string {
	return "sale_lines"
}
