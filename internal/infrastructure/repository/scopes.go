package repository

import (
	"time"

	"github.com/sangkips/pos-engine/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate returns a GORM scope that locks the selected rows until the
// surrounding transaction ends. Outside a transaction the lock is released
// as soon as the statement completes.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// EffectiveAt returns a GORM scope that keeps active rows whose optional
// effective_from / effective_to window contains at
func EffectiveAt(at time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("active = ?", true).
			Where("effective_from IS NULL OR effective_from <= ?", at).
			Where("effective_to IS NULL OR effective_to >= ?", at)
	}
}

// LatestEffective orders effective-dated rows newest window first, with
// open-ended starts last
func LatestEffective(db *gorm.DB) *gorm.DB {
	return db.Order("effective_from DESC NULLS LAST").Order("created_at DESC")
}

// Paginate limits a listing to the requested page. A nil page leaves the
// query unbounded.
func Paginate(page *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page == nil {
			return db
		}
		return db.Offset(page.Offset()).Limit(page.PerPage)
	}
}
