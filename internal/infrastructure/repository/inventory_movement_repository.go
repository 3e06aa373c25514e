package repository

import (
	"context"

	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
)

type inventoryMovementRepository struct {
	db *gorm.DB
}

// NewInventoryMovementRepository creates a new inventory movement repository
func NewInventoryMovementRepository(db *gorm.DB) domainRepo.InventoryMovementRepository {
	return &inventoryMovementRepository{db: db}
}

func (r *inventoryMovementRepository) CreateBatch(ctx context.Context, movements []entity.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).CreateInBatches(movements, 100).Error
}
