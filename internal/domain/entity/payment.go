package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is the settlement of one checked-out cart
type Payment struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CartID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"cart_id"`
	Status         enum.PaymentStatus `gorm:"not null;default:0" json:"status"`
	TotalPayable   decimal.Decimal    `gorm:"type:numeric(19,2);not null" json:"total_payable"`
	TotalAllocated decimal.Decimal    `gorm:"type:numeric(19,2);not null" json:"total_allocated"`
	TotalTendered  decimal.Decimal    `gorm:"type:numeric(19,2);not null" json:"total_tendered"`
	ChangeAmount   decimal.Decimal    `gorm:"type:numeric(19,2);not null" json:"change_amount"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relationships
	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentAllocation is one tender's share of a payment
type PaymentAllocation struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	SequenceNumber  int             `gorm:"not null" json:"sequence_number"`
	TenderType      enum.TenderType `gorm:"not null" json:"tender_type"`
	AllocatedAmount decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"allocated_amount"`
	TenderedAmount  decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"tendered_amount"`
	ChangeAmount    decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"change_amount"`
	Reference       *string         `gorm:"size:120" json:"reference,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (a *PaymentAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}

// PaymentTransition is an append-only record of a status change
type PaymentTransition struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"payment_id"`
	Action        enum.PaymentAction  `gorm:"not null" json:"action"`
	FromStatus    *enum.PaymentStatus `json:"from_status,omitempty"`
	ToStatus      enum.PaymentStatus  `gorm:"not null" json:"to_status"`
	ActorUserID   *uuid.UUID          `gorm:"type:uuid" json:"actor_user_id,omitempty"`
	ActorUsername string              `gorm:"size:100;not null" json:"actor_username"`
	Note          *string             `gorm:"size:255" json:"note,omitempty"`
	CorrelationID *string             `gorm:"size:128" json:"correlation_id,omitempty"`
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`
}

func (t *PaymentTransition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (PaymentTransition) TableName() string {
	return "payment_transitions"
}
