package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a cashier or manager who operates terminals. Credentials live in
// the identity provider; only the operational flags are kept here.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"merchant_id"`
	Username    string    `gorm:"size:100;unique;not null" json:"username"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
