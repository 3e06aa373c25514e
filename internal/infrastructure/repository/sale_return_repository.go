package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleReturnRepository struct {
	db *gorm.DB
}

// NewSaleReturnRepository creates a new sale return repository
func NewSaleReturnRepository(db *gorm.DB) domainRepo.SaleReturnRepository {
	return &saleReturnRepository{db: db}
}

// Create inserts the return with its lines and refund
func (r *saleReturnRepository) Create(ctx context.Context, saleReturn *entity.SaleReturn) error {
	return database.Conn(ctx, r.db).Create(saleReturn).Error
}

func (r *saleReturnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleReturn, error) {
	var saleReturn entity.SaleReturn
	err := r.withDetail(database.Conn(ctx, r.db)).First(&saleReturn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &saleReturn, err
}

type returnedRow struct {
	SaleLineID uuid.UUID
	Quantity   decimal.Decimal
	Net        decimal.Decimal
	Tax        decimal.Decimal
	Gross      decimal.Decimal
}

func (r *saleReturnRepository) SummarizeReturned(ctx context.Context, saleID uuid.UUID) (map[uuid.UUID]entity.ReturnedTotals, error) {
	var rows []returnedRow
	err := database.Conn(ctx, r.db).
		Table("sale_return_lines AS l").
		Select(`l.sale_line_id,
			COALESCE(SUM(l.quantity), 0) AS quantity,
			COALESCE(SUM(l.net_amount), 0) AS net,
			COALESCE(SUM(l.tax_amount), 0) AS tax,
			COALESCE(SUM(l.gross_amount), 0) AS gross`).
		Joins("JOIN sale_returns AS r ON r.id = l.sale_return_id").
		Where("r.sale_id = ?", saleID).
		Group("l.sale_line_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]entity.ReturnedTotals, len(rows))
	for _, row := range rows {
		totals[row.SaleLineID] = entity.ReturnedTotals{
			SaleLineID: row.SaleLineID,
			Quantity:   row.Quantity,
			Net:        row.Net,
			Tax:        row.Tax,
			Gross:      row.Gross,
		}
	}
	return totals, nil
}

func (r *saleReturnRepository) List(ctx context.Context, params *domainRepo.ReturnFilterParams) ([]entity.SaleReturn, int64, error) {
	var returns []entity.SaleReturn
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.SaleReturn{})

	if params.SaleID != nil {
		query = query.Where("sale_id = ?", *params.SaleID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withDetail(query).
		Scopes(Paginate(params.Pagination)).
		Order("created_at DESC").
		Find(&returns).Error
	return returns, total, err
}

func (r *saleReturnRepository) withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC").Order("id ASC")
		}).
		Preload("Refund")
}
