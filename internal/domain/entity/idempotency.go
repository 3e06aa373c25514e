package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores the outcome of a processed mutating request so that
// a retry with the same key replays it instead of running again
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	ActionKey    string    `gorm:"size:160;not null;uniqueIndex:idx_idempotency_action_key"` // e.g. "POST:/api/v1/payments/{id}/capture"
	Key          string    `gorm:"size:120;not null;uniqueIndex:idx_idempotency_action_key"`
	RequestHash  string    `gorm:"size:64;not null"`
	ResponseBody string    `gorm:"type:text"`
	Completed    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// BeforeCreate generates a UUID before creating a new key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
