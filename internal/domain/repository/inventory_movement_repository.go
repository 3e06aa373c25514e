package repository

import (
	"context"

	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// InventoryMovementRepository appends stock movements
type InventoryMovementRepository interface {
	CreateBatch(ctx context.Context, movements []entity.InventoryMovement) error
}
