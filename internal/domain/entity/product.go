package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog item with its line-entry policy
type Product struct {
	ID                      uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID              uuid.UUID        `gorm:"type:uuid;not null;index" json:"merchant_id"`
	TaxGroupID              *uuid.UUID       `gorm:"type:uuid;index" json:"tax_group_id,omitempty"`
	SKU                     string           `gorm:"column:sku;size:100;not null" json:"sku"`
	Name                    string           `gorm:"size:255;not null" json:"name"`
	SaleMode                enum.SaleMode    `gorm:"not null;default:0" json:"sale_mode"`
	QuantityPrecision       int32            `gorm:"not null;default:0" json:"quantity_precision"`
	BasePrice               decimal.Decimal  `gorm:"type:numeric(19,2);not null;default:0" json:"base_price"`
	OpenPriceMin            *decimal.Decimal `gorm:"type:numeric(19,2)" json:"open_price_min,omitempty"`
	OpenPriceMax            *decimal.Decimal `gorm:"type:numeric(19,2)" json:"open_price_max,omitempty"`
	OpenPriceRequiresReason bool             `gorm:"not null;default:false" json:"open_price_requires_reason"`
	Active                  bool             `gorm:"not null;default:true" json:"active"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
	DeletedAt               gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	TaxGroup *TaxGroup `gorm:"foreignKey:TaxGroupID" json:"tax_group,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
