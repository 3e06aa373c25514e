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

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	if ok, err := r.lock(ctx, "id = ?", id); !ok || err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *paymentRepository) GetByCartID(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error) {
	return r.first(ctx, "cart_id = ?", cartID)
}

func (r *paymentRepository) GetByCartIDForUpdate(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error) {
	if ok, err := r.lock(ctx, "cart_id = ?", cartID); !ok || err != nil {
		return nil, err
	}
	return r.GetByCartID(ctx, cartID)
}

func (r *paymentRepository) Save(ctx context.Context, payment *entity.Payment) error {
	db := database.Conn(ctx, r.db)

	if err := db.Omit(clause.Associations).Save(payment).Error; err != nil {
		return err
	}
	if err := db.Where("payment_id = ?", payment.ID).Delete(&entity.PaymentAllocation{}).Error; err != nil {
		return err
	}
	for i := range payment.Allocations {
		allocation := &payment.Allocations[i]
		allocation.ID = uuid.Nil
		allocation.PaymentID = payment.ID
	}
	if len(payment.Allocations) == 0 {
		return nil
	}
	return db.Create(&payment.Allocations).Error
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, payment *entity.Payment) error {
	return database.Conn(ctx, r.db).
		Model(payment).
		Omit(clause.Associations).
		Update("status", payment.Status).Error
}

func (r *paymentRepository) CreateTransition(ctx context.Context, transition *entity.PaymentTransition) error {
	return database.Conn(ctx, r.db).Create(transition).Error
}

func (r *paymentRepository) ListTransitions(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentTransition, error) {
	var transitions []entity.PaymentTransition
	err := database.Conn(ctx, r.db).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").Order("id ASC").
		Find(&transitions).Error
	return transitions, err
}

func (r *paymentRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.Payment, error) {
	var payment entity.Payment
	err := database.Conn(ctx, r.db).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_number ASC")
		}).
		Where(query, args...).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) lock(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var locked entity.Payment
	err := database.Conn(ctx, r.db).
		Scopes(ForUpdate()).
		Select("id").
		Where(query, args...).
		First(&locked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
