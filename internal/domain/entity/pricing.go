package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StorePriceOverride pins a product price for one store over a date range
type StorePriceOverride struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	StoreLocationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_store_price_override" json:"store_location_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_store_price_override" json:"product_id"`
	Price           decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"price"`
	EffectiveFrom   *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo     *time.Time      `json:"effective_to,omitempty"`
	Active          bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *StorePriceOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (StorePriceOverride) TableName() string {
	return "store_price_overrides"
}

// PriceBookItem is a merchant-wide price for a product over a date range
type PriceBookItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_book_item" json:"merchant_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_book_item" json:"product_id"`
	Price         decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"price"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (i *PriceBookItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (PriceBookItem) TableName() string {
	return "price_book_items"
}

// TaxGroup carries the rate shared by a family of products
type TaxGroup struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"merchant_id"`
	Code           string          `gorm:"size:50;not null" json:"code"`
	Name           string          `gorm:"size:255" json:"name"`
	TaxRatePercent decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0" json:"tax_rate_percent"`
	ZeroRated      bool            `gorm:"not null;default:false" json:"zero_rated"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (g *TaxGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (TaxGroup) TableName() string {
	return "tax_groups"
}

// StoreTaxRule decides whether and how a tax group is charged in a store
type StoreTaxRule struct {
	ID              uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	StoreLocationID uuid.UUID    `gorm:"type:uuid;not null;index:idx_store_tax_rule" json:"store_location_id"`
	TaxGroupID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_store_tax_rule" json:"tax_group_id"`
	TaxMode         enum.TaxMode `gorm:"not null;default:0" json:"tax_mode"`
	Exempt          bool         `gorm:"not null;default:false" json:"exempt"`
	EffectiveFrom   *time.Time   `json:"effective_from,omitempty"`
	EffectiveTo     *time.Time   `json:"effective_to,omitempty"`
	Active          bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (r *StoreTaxRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (StoreTaxRule) TableName() string {
	return "store_tax_rules"
}

// RoundingPolicy rounds the payable of a store for one tender type
type RoundingPolicy struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	StoreLocationID uuid.UUID           `gorm:"type:uuid;not null;index:idx_rounding_policy" json:"store_location_id"`
	TenderType      enum.TenderType     `gorm:"not null;index:idx_rounding_policy" json:"tender_type"`
	Method          enum.RoundingMethod `gorm:"not null;default:0" json:"method"`
	IncrementAmount decimal.Decimal     `gorm:"type:numeric(19,2);not null" json:"increment_amount"`
	Active          bool                `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (p *RoundingPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (RoundingPolicy) TableName() string {
	return "rounding_policies"
}
