package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts the sale together with its lines
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return database.Conn(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *saleRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error) {
	return r.first(ctx, "UPPER(receipt_number) = ?", strings.ToUpper(strings.TrimSpace(receiptNumber)))
}

func (r *saleRepository) GetByCartID(ctx context.Context, cartID uuid.UUID) (*entity.Sale, error) {
	return r.first(ctx, "cart_id = ?", cartID)
}

func (r *saleRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.Sale, error) {
	var sale entity.Sale
	err := database.Conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC").Order("id ASC")
		}).
		Where(query, args...).
		First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}
