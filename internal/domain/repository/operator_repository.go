package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// OperatorRepository reads the merchant → store → terminal hierarchy and the
// users operating it. Lookups return nil, nil when the row does not exist.
type OperatorRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetStoreLocation loads the store with its merchant
	GetStoreLocation(ctx context.Context, id uuid.UUID) (*entity.StoreLocation, error)
	// GetTerminal loads the terminal with its store and merchant
	GetTerminal(ctx context.Context, id uuid.UUID) (*entity.TerminalDevice, error)
	// GetTerminalForUpdate is GetTerminal holding a row lock on the terminal
	GetTerminalForUpdate(ctx context.Context, id uuid.UUID) (*entity.TerminalDevice, error)
}
