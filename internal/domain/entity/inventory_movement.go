package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryMovement is a stock delta emitted by a sale or a return
type InventoryMovement struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primary_key" json:"id"`
	StoreLocationID uuid.UUID                  `gorm:"type:uuid;not null;index" json:"store_location_id"`
	ProductID       uuid.UUID                  `gorm:"type:uuid;not null;index" json:"product_id"`
	SaleID          *uuid.UUID                 `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	SaleLineID      *uuid.UUID                 `gorm:"type:uuid" json:"sale_line_id,omitempty"`
	MovementType    enum.MovementType          `gorm:"not null" json:"movement_type"`
	QuantityDelta   decimal.Decimal            `gorm:"type:numeric(19,3);not null" json:"quantity_delta"`
	ReferenceType   enum.MovementReferenceType `gorm:"not null" json:"reference_type"`
	ReferenceNumber string                     `gorm:"size:80;not null;index" json:"reference_number"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *InventoryMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryMovement model
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
