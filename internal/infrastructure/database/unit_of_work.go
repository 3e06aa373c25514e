package database

import (
	"context"
	"fmt"

	domainRepo "github.com/sangkips/pos-engine/internal/domain/repository"
	"gorm.io/gorm"
)

// UnitOfWork runs a function inside one database transaction. Calls made
// with a context that already carries a transaction join it instead of
// opening a new one.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Execute begins a transaction, runs fn with the transaction in its context,
// and commits when fn returns nil. Any error or panic rolls back.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ContextWithTx(ctx, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ domainRepo.UnitOfWork = (*UnitOfWork)(nil)
