package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// CustomerRepository defines the customer reads used at checkout
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
}
