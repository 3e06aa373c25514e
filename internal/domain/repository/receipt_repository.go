package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
)

// ReceiptSeriesRepository manages the per-terminal receipt counters
type ReceiptSeriesRepository interface {
	// CreateIfAbsent inserts the series unless the terminal already has one
	CreateIfAbsent(ctx context.Context, series *entity.ReceiptSeries) error
	// GetByTerminalForUpdate locks the terminal's series row
	GetByTerminalForUpdate(ctx context.Context, terminalDeviceID uuid.UUID) (*entity.ReceiptSeries, error)
	Save(ctx context.Context, series *entity.ReceiptSeries) error
}
