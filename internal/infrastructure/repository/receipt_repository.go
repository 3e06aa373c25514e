package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type receiptSeriesRepository struct {
	db *gorm.DB
}

// NewReceiptSeriesRepository creates a new receipt series repository
func NewReceiptSeriesRepository(db *gorm.DB) domainRepo.ReceiptSeriesRepository {
	return &receiptSeriesRepository{db: db}
}

func (r *receiptSeriesRepository) CreateIfAbsent(ctx context.Context, series *entity.ReceiptSeries) error {
	return database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(series).Error
}

func (r *receiptSeriesRepository) GetByTerminalForUpdate(ctx context.Context, terminalDeviceID uuid.UUID) (*entity.ReceiptSeries, error) {
	var series entity.ReceiptSeries
	err := database.Conn(ctx, r.db).
		Scopes(ForUpdate()).
		First(&series, "terminal_device_id = ?", terminalDeviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &series, err
}

func (r *receiptSeriesRepository) Save(ctx context.Context, series *entity.ReceiptSeries) error {
	return database.Conn(ctx, r.db).Save(series).Error
}
