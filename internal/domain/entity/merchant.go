package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Merchant is the top of the operator hierarchy: merchant → store → terminal
type Merchant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code      string    `gorm:"size:64;unique;not null" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new merchant
func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Merchant model
func (Merchant) TableName() string {
	return "merchants"
}

// StoreLocation is a physical store operated by a merchant
type StoreLocation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index" json:"merchant_id"`
	Code       string    `gorm:"size:64;not null" json:"code"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store location
func (s *StoreLocation) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreLocation model
func (StoreLocation) TableName() string {
	return "store_locations"
}

// TerminalDevice is a till registered to one store location
type TerminalDevice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreLocationID uuid.UUID `gorm:"type:uuid;not null;index" json:"store_location_id"`
	Code            string    `gorm:"size:64;unique;not null" json:"code"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	StoreLocation StoreLocation `gorm:"foreignKey:StoreLocationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new terminal device
func (t *TerminalDevice) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TerminalDevice model
func (TerminalDevice) TableName() string {
	return "terminal_devices"
}
