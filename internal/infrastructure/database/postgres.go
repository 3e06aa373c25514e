package database

import (
	"errors"
	"fmt"

	"github.com/sangkips/pos-engine/internal/config"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.NewGormLoggerAdapter(logger.ParseGormLevel(cfg.LogLevel), &logger.GormLoggerConfig{
		SlowThreshold:             cfg.SlowThreshold,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	logger.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logger.Info("running database migrations")

	err := db.AutoMigrate(
		// Operator hierarchy
		&entity.Merchant{},
		&entity.StoreLocation{},
		&entity.TerminalDevice{},
		&entity.User{},
		&entity.Customer{},

		// Catalog, pricing and tax
		&entity.TaxGroup{},
		&entity.Product{},
		&entity.StorePriceOverride{},
		&entity.PriceBookItem{},
		&entity.StoreTaxRule{},
		&entity.RoundingPolicy{},

		// Carts
		&entity.SaleCart{},
		&entity.SaleCartLine{},
		&entity.ParkedCartReference{},
		&entity.SaleCartEvent{},

		// Sales, payments and returns
		&entity.ReceiptSeries{},
		&entity.Sale{},
		&entity.SaleLine{},
		&entity.Payment{},
		&entity.PaymentAllocation{},
		&entity.PaymentTransition{},
		&entity.SaleReturn{},
		&entity.SaleReturnLine{},
		&entity.SaleReturnRefund{},
		&entity.InventoryMovement{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database migrations completed")
	return nil
}

// SeedDefaultData seeds one demo merchant with a store, a terminal, a
// cashier, tax configuration and a product of every sale mode. Existing rows
// (matched by code) are left untouched.
func SeedDefaultData(db *gorm.DB) error {
	logger.Info("seeding demo data")

	return db.Transaction(func(tx *gorm.DB) error {
		merchant := entity.Merchant{Code: "DEMO", Name: "Demo Retail", Active: true}
		if err := firstOrCreate(tx, &merchant, "code = ?", merchant.Code); err != nil {
			return err
		}

		store := entity.StoreLocation{MerchantID: merchant.ID, Code: "DEMO-01", Name: "Demo Main Street", Active: true}
		if err := firstOrCreate(tx, &store, "merchant_id = ? AND code = ?", merchant.ID, store.Code); err != nil {
			return err
		}

		terminal := entity.TerminalDevice{StoreLocationID: store.ID, Code: "T01", Name: "Front till", Active: true}
		if err := firstOrCreate(tx, &terminal, "code = ?", terminal.Code); err != nil {
			return err
		}

		cashier := entity.User{MerchantID: merchant.ID, Username: "cashier01", DisplayName: "Demo Cashier", Active: true}
		if err := firstOrCreate(tx, &cashier, "username = ?", cashier.Username); err != nil {
			return err
		}

		standard := entity.TaxGroup{MerchantID: merchant.ID, Code: "VAT16", Name: "Standard VAT", TaxRatePercent: decimal.NewFromInt(16)}
		if err := firstOrCreate(tx, &standard, "merchant_id = ? AND code = ?", merchant.ID, standard.Code); err != nil {
			return err
		}
		zeroRated := entity.TaxGroup{MerchantID: merchant.ID, Code: "ZERO", Name: "Zero rated", ZeroRated: true}
		if err := firstOrCreate(tx, &zeroRated, "merchant_id = ? AND code = ?", merchant.ID, zeroRated.Code); err != nil {
			return err
		}

		for _, group := range []entity.TaxGroup{standard, zeroRated} {
			rule := entity.StoreTaxRule{StoreLocationID: store.ID, TaxGroupID: group.ID, TaxMode: enum.TaxModeInclusive, Active: true}
			if err := firstOrCreate(tx, &rule, "store_location_id = ? AND tax_group_id = ?", store.ID, group.ID); err != nil {
				return err
			}
		}

		rounding := entity.RoundingPolicy{
			StoreLocationID: store.ID,
			TenderType:      enum.TenderTypeCash,
			Method:          enum.RoundingMethodNearest,
			IncrementAmount: decimal.RequireFromString("0.05"),
			Active:          true,
		}
		if err := firstOrCreate(tx, &rounding, "store_location_id = ? AND tender_type = ?", store.ID, enum.TenderTypeCash); err != nil {
			return err
		}

		min, max := decimal.RequireFromString("1.00"), decimal.RequireFromString("500.00")
		products := []entity.Product{
			{SKU: "MILK-1L", Name: "Milk 1L", SaleMode: enum.SaleModeUnit, BasePrice: decimal.RequireFromString("65.00"), TaxGroupID: &zeroRated.ID},
			{SKU: "BANANA-KG", Name: "Bananas per kg", SaleMode: enum.SaleModeWeight, QuantityPrecision: 3, BasePrice: decimal.RequireFromString("120.00"), TaxGroupID: &zeroRated.ID},
			{SKU: "MISC", Name: "Miscellaneous item", SaleMode: enum.SaleModeOpenPrice, OpenPriceMin: &min, OpenPriceMax: &max, OpenPriceRequiresReason: true, TaxGroupID: &standard.ID},
			{SKU: "SOAP-250", Name: "Bath soap 250g", SaleMode: enum.SaleModeUnit, BasePrice: decimal.RequireFromString("99.00"), TaxGroupID: &standard.ID},
		}
		for i := range products {
			products[i].MerchantID = merchant.ID
			products[i].Active = true
			if err := firstOrCreate(tx, &products[i], "merchant_id = ? AND sku = ?", merchant.ID, products[i].SKU); err != nil {
				return err
			}
		}

		logger.Info("demo data ready",
			zap.String("merchant", merchant.Code),
			zap.String("store_id", store.ID.String()),
			zap.String("terminal_id", terminal.ID.String()),
			zap.String("cashier_id", cashier.ID.String()))
		return nil
	})
}

// firstOrCreate loads the row matching the query into dest, inserting dest
// when none exists.
func firstOrCreate[T any](tx *gorm.DB, dest *T, query string, args ...interface{}) error {
	var existing T
	err := tx.Where(query, args...).First(&existing).Error
	switch {
	case err == nil:
		*dest = existing
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(dest).Error; err != nil {
			return fmt.Errorf("failed to seed %T: %w", dest, err)
		}
		return nil
	default:
		return err
	}
}
