package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// ProductRepository defines the catalog reads the sale pipeline needs
type ProductRepository interface {
	// GetByID loads the product with its tax group, nil when missing
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}
