package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/pkg/pagination"
)

// SaleReturnRepository persists returns with their lines and refund
type SaleReturnRepository interface {
	Create(ctx context.Context, saleReturn *entity.SaleReturn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleReturn, error)
	// SummarizeReturned aggregates every earlier return of a sale, keyed by sale line
	SummarizeReturned(ctx context.Context, saleID uuid.UUID) (map[uuid.UUID]entity.ReturnedTotals, error)
	List(ctx context.Context, params *ReturnFilterParams) ([]entity.SaleReturn, int64, error)
}

// ReturnFilterParams contains filtering parameters for return queries
type ReturnFilterParams struct {
	Pagination *pagination.PaginationParams
	SaleID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
