package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := database.Conn(ctx, r.db).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}
