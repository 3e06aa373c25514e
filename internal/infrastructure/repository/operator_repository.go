package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
)

type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new operator repository
func NewOperatorRepository(db *gorm.DB) domainRepo.OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := database.Conn(ctx, r.db).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *operatorRepository) GetStoreLocation(ctx context.Context, id uuid.UUID) (*entity.StoreLocation, error) {
	var store entity.StoreLocation
	err := database.Conn(ctx, r.db).
		Preload("Merchant").
		First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &store, err
}

func (r *operatorRepository) GetTerminal(ctx context.Context, id uuid.UUID) (*entity.TerminalDevice, error) {
	var terminal entity.TerminalDevice
	err := database.Conn(ctx, r.db).
		Preload("StoreLocation.Merchant").
		First(&terminal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &terminal, err
}

func (r *operatorRepository) GetTerminalForUpdate(ctx context.Context, id uuid.UUID) (*entity.TerminalDevice, error) {
	var locked entity.TerminalDevice
	err := database.Conn(ctx, r.db).
		Scopes(ForUpdate()).
		First(&locked, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetTerminal(ctx, id)
}
