package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetForUpdate(ctx context.Context, actionKey, key string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := database.Conn(ctx, r.db).
		Scopes(ForUpdate()).
		Where("action_key = ? AND key = ?", actionKey, key).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

func (r *idempotencyRepository) CreateIfAbsent(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	result := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "action_key"}, {Name: "key"}},
			DoNothing: true,
		}).
		Create(ikey)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *idempotencyRepository) Update(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return database.Conn(ctx, r.db).Save(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
