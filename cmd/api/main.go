package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/config"
	"github.com/sangkips/pos-engine/internal/domain/catalog"
	"github.com/sangkips/pos-engine/internal/infrastructure/database"
	"github.com/sangkips/pos-engine/internal/infrastructure/repository"
	"github.com/sangkips/pos-engine/internal/presentation/http/handler"
	"github.com/sangkips/pos-engine/internal/presentation/http/middleware"
	"github.com/sangkips/pos-engine/internal/presentation/http/routes"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/sangkips/pos-engine/pkg/printer"
	"github.com/sangkips/pos-engine/pkg/utils"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pos-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if cfg.App.SeedDemo {
		if err := database.SeedDefaultData(db); err != nil {
			logger.Warn("failed to seed demo data", zap.Error(err))
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	uow := database.NewUnitOfWork(db)

	// Repositories
	operatorRepo := repository.NewOperatorRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	taxRepo := repository.NewTaxRepository(db)
	cartRepo := repository.NewSaleCartRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	returnRepo := repository.NewSaleReturnRepository(db)
	movementRepo := repository.NewInventoryMovementRepository(db)
	receiptRepo := repository.NewReceiptSeriesRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	pricingService := service.NewPricingService(operatorRepo, productRepo, customerRepo, pricingRepo)
	roundingService := service.NewRoundingService(taxRepo)
	taxService := service.NewTaxService(operatorRepo, productRepo, taxRepo, pricingService, roundingService)
	receiptService := service.NewReceiptService(receiptRepo)
	idempotencyService := service.NewIdempotencyService(uow, idempotencyRepo, cfg.Idempotency.TTL)
	cartService := service.NewCartService(
		uow, cartRepo, operatorRepo, productRepo,
		pricingService, taxService, roundingService,
		catalog.NewOpenPricePolicy(),
		cfg.Sales.ParkedCartExpiry(),
	)
	paymentService := service.NewPaymentService(uow, paymentRepo, saleRepo, idempotencyService)
	checkoutService := service.NewCheckoutService(
		uow, cartRepo, operatorRepo, customerRepo, saleRepo, paymentRepo, movementRepo,
		receiptService, paymentService,
	)
	returnService := service.NewReturnService(uow, saleRepo, paymentRepo, returnRepo, movementRepo, cfg.Sales.ReturnWindow())

	// Receipt printer
	receiptPrinter, err := printer.New(printer.Config{
		Kind:       cfg.Printer.Type,
		DevicePath: cfg.Printer.USBPath,
		Address:    cfg.Printer.Address,
	})
	if err != nil {
		logger.Warn("receipt printer disabled", zap.Error(err))
		receiptPrinter = printer.Discard{}
	}
	printService := service.NewReceiptPrintService(
		receiptPrinter, cfg.Printer.Width, cfg.Printer.Footer,
		saleRepo, paymentRepo, productRepo, operatorRepo,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go idempotencyService.RunPurger(ctx, cfg.Idempotency.PurgeInterval)

	rateLimiter := middleware.NewActorRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Health:   handler.NewHealthHandler(cfg.App.Name, sqlDB),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Return:   handler.NewReturnHandler(returnService),
		Receipt:  handler.NewReceiptHandler(printService),
	}
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  jwtManager,
		Cfg:         cfg,
		RateLimiter: rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
