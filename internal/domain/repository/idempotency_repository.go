package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetForUpdate loads and locks the record for (actionKey, key), nil when absent
	GetForUpdate(ctx context.Context, actionKey, key string) (*entity.IdempotencyKey, error)
	// CreateIfAbsent inserts the record and reports false when another
	// request already holds the same (actionKey, key)
	CreateIfAbsent(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	Update(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes records that expired before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
