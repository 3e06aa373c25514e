package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptSeries hands out gapless receipt numbers for one terminal.
// The row is locked for the duration of every allocation.
type ReceiptSeries struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TerminalDeviceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"terminal_device_id"`
	StoreLocationID  uuid.UUID `gorm:"type:uuid;not null;index" json:"store_location_id"`
	SeriesCode       string    `gorm:"size:60;unique;not null" json:"series_code"`
	NextNumber       int64     `gorm:"not null;default:1" json:"next_number"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new series
func (s *ReceiptSeries) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptSeries model
func (ReceiptSeries) TableName() string {
	return "receipt_series"
}

// Take returns the next receipt number and advances the series
func (s *ReceiptSeries) Take() string {
	if s.NextNumber < 1 {
		s.NextNumber = 1
	}
	number := fmt.Sprintf("%s-%08d", s.SeriesCode, s.NextNumber)
	s.NextNumber++
	return number
}
