package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/config"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/presentation/http/handler"
	"github.com/sangkips/pos-engine/internal/presentation/http/middleware"
	"github.com/sangkips/pos-engine/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health   *handler.HealthHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Return   *handler.ReturnHandler
	Receipt  *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	RateLimiter *middleware.ActorRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	registerCartRoutes(v1, h)
	registerCheckoutRoutes(v1, h)
	registerPaymentRoutes(v1, h)
	registerReturnRoutes(v1, h)
	registerReceiptRoutes(v1, h)

	return router
}

func registerCartRoutes(v1 *gin.RouterGroup, h *Handlers) {
	carts := v1.Group("/carts")
	carts.Use(middleware.RequirePermission(actor.PermissionProcessSales))
	{
		carts.POST("", h.Cart.Create)
		carts.GET("/parked", h.Cart.ListParked)
		carts.GET("/:id", h.Cart.Get)
		carts.POST("/:id/lines", h.Cart.AddLine)
		carts.PUT("/:id/lines/:line_id", h.Cart.UpdateLine)
		carts.DELETE("/:id/lines/:line_id", h.Cart.RemoveLine)
		carts.POST("/:id/recalculate", h.Cart.Recalculate)
		carts.POST("/:id/park", h.Cart.Park)
		carts.POST("/:id/resume", h.Cart.Resume)
		carts.POST("/:id/cancel", h.Cart.Cancel)
	}
}

func registerCheckoutRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.POST("/checkout", middleware.RequirePermission(actor.PermissionProcessSales), h.Checkout.Checkout)
}

func registerPaymentRoutes(v1 *gin.RouterGroup, h *Handlers) {
	payments := v1.Group("/payments")
	payments.Use(middleware.RequirePermission(actor.PermissionManagePayments))
	{
		payments.GET("/:id", h.Payment.Get)

		transitions := payments.Group("/:id")
		transitions.Use(middleware.IdempotencyRequired())
		transitions.POST("/capture", h.Payment.Capture)
		transitions.POST("/void", h.Payment.Void)
		transitions.POST("/refund", h.Payment.Refund)
	}
}

func registerReturnRoutes(v1 *gin.RouterGroup, h *Handlers) {
	returns := v1.Group("/returns")
	returns.Use(middleware.RequirePermission(actor.PermissionProcessReturns))
	{
		returns.GET("/lookup", h.Return.Lookup)
		returns.POST("", h.Return.Submit)
		returns.GET("", h.Return.List)
		returns.GET("/:id", h.Return.Get)
	}
}

func registerReceiptRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sales := v1.Group("")
	sales.Use(middleware.RequirePermission(actor.PermissionProcessSales))
	{
		sales.GET("/printer/status", h.Receipt.PrinterStatus)
		sales.GET("/receipts/:number", h.Receipt.GetByNumber)
		sales.GET("/sales/:id/receipt", h.Receipt.Get)
		sales.POST("/sales/:id/receipt/print", h.Receipt.Print)
	}
}
