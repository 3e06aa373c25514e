package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// PaymentRepository persists payments with their allocations and the
// append-only transition log.
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// GetByIDForUpdate locks the payment row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetByCartID(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error)
	// GetByCartIDForUpdate locks the payment row of a cart
	GetByCartIDForUpdate(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error)
	// Save writes the header and replaces every allocation
	Save(ctx context.Context, payment *entity.Payment) error
	UpdateStatus(ctx context.Context, payment *entity.Payment) error
	CreateTransition(ctx context.Context, transition *entity.PaymentTransition) error
	// ListTransitions returns the history ordered by creation time, then id
	ListTransitions(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentTransition, error)
}
