package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleCartRepository struct {
	db *gorm.DB
}

// NewSaleCartRepository creates a new sale cart repository
func NewSaleCartRepository(db *gorm.DB) domainRepo.SaleCartRepository {
	return &saleCartRepository{db: db}
}

func (r *saleCartRepository) Create(ctx context.Context, cart *entity.SaleCart) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(cart).Error
}

func (r *saleCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleCart, error) {
	var cart entity.SaleCart
	err := r.withAggregate(database.Conn(ctx, r.db)).First(&cart, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

// GetByIDForUpdate locks the header row first so that the aggregate read
// afterwards sees every change committed by the previous lock holder
func (r *saleCartRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleCart, error) {
	var locked entity.SaleCart
	err := database.Conn(ctx, r.db).
		Scopes(ForUpdate()).
		Select("id").
		First(&locked, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *saleCartRepository) Save(ctx context.Context, cart *entity.SaleCart) error {
	db := database.Conn(ctx, r.db)

	if err := db.Omit(clause.Associations).Save(cart).Error; err != nil {
		return err
	}

	keep := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.ID != uuid.Nil {
			keep = append(keep, line.ID)
		}
	}
	stale := db.Where("cart_id = ?", cart.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&entity.SaleCartLine{}).Error; err != nil {
		return err
	}

	for i := range cart.Lines {
		line := &cart.Lines[i]
		line.CartID = cart.ID
		if line.ID == uuid.Nil {
			if err := db.Omit(clause.Associations).Create(line).Error; err != nil {
				return err
			}
			continue
		}
		if err := db.Omit(clause.Associations).Save(line).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *saleCartRepository) SaveParkedReference(ctx context.Context, ref *entity.ParkedCartReference) error {
	return database.Conn(ctx, r.db).Save(ref).Error
}

func (r *saleCartRepository) ListParked(ctx context.Context, storeLocationID uuid.UUID, terminalDeviceID *uuid.UUID) ([]entity.SaleCart, error) {
	var carts []entity.SaleCart
	query := r.withAggregate(database.Conn(ctx, r.db)).
		Where("store_location_id = ? AND status = ?", storeLocationID, enum.CartStatusParked)
	if terminalDeviceID != nil {
		query = query.Where("terminal_device_id = ?", *terminalDeviceID)
	}
	err := query.Order("updated_at DESC").Find(&carts).Error
	return carts, err
}

func (r *saleCartRepository) CreateEvent(ctx context.Context, event *entity.SaleCartEvent) error {
	return database.Conn(ctx, r.db).Create(event).Error
}

func (r *saleCartRepository) withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("StoreLocation").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC").Order("id ASC")
		}).
		Preload("Lines.Product.TaxGroup").
		Preload("ParkedReference")
}
