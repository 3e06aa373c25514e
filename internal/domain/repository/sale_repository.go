package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// SaleRepository persists checked-out sales with their lines
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetByReceiptNumber matches the receipt number case-insensitively
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error)
	GetByCartID(ctx context.Context, cartID uuid.UUID) (*entity.Sale, error)
}
