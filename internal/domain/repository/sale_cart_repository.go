package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// SaleCartRepository persists carts as whole aggregates: header, lines with
// their products, and the parked reference.
type SaleCartRepository interface {
	Create(ctx context.Context, cart *entity.SaleCart) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleCart, error)
	// GetByIDForUpdate locks the cart row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleCart, error)
	// Save writes the header, upserts the lines and deletes lines no longer in the cart
	Save(ctx context.Context, cart *entity.SaleCart) error
	SaveParkedReference(ctx context.Context, ref *entity.ParkedCartReference) error
	ListParked(ctx context.Context, storeLocationID uuid.UUID, terminalDeviceID *uuid.UUID) ([]entity.SaleCart, error)
	CreateEvent(ctx context.Context, event *entity.SaleCartEvent) error
}
