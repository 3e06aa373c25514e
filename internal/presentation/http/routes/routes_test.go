package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/config"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/presentation/http/handler"
	"github.com/sangkips/pos-engine/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter wires handlers over unconfigured services; every request below
// is answered before a service is reached.
func newRouter() (*gin.Engine, *utils.JWTManager) {
	jwtManager := utils.NewJWTManager("routes-secret", time.Hour)
	handlers := &Handlers{
		Health:   handler.NewHealthHandler("pos-engine", nil),
		Cart:     handler.NewCartHandler(&service.CartService{}),
		Checkout: handler.NewCheckoutHandler(&service.CheckoutService{}),
		Payment:  handler.NewPaymentHandler(&service.PaymentService{}),
		Return:   handler.NewReturnHandler(&service.ReturnService{}),
		Receipt:  handler.NewReceiptHandler(service.NewReceiptPrintService(nil, 0, "", nil, nil, nil, nil)),
	}
	return Setup(handlers, &Deps{JWTManager: jwtManager, Cfg: &config.Config{}}), jwtManager
}

func TestRoutes(t *testing.T) {
	router, jwtManager := newRouter()
	token := func(permissions ...string) string {
		tok, err := jwtManager.GenerateAccessToken(uuid.New(), "cashier01", permissions)
		require.NoError(t, err)
		return "Bearer " + tok
	}
	sales := token(actor.PermissionProcessSales)
	payments := token(actor.PermissionManagePayments)
	returns := token(actor.PermissionProcessReturns)
	paymentPath := "/api/v1/payments/" + uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		header map[string]string
		body   string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", nil, "", http.StatusOK},
		{"carts need a token", http.MethodPost, "/api/v1/carts", "", nil, "{}", http.StatusUnauthorized},
		{"carts need process-sales", http.MethodPost, "/api/v1/carts", payments, nil, "{}", http.StatusForbidden},
		{"cart body is validated", http.MethodPost, "/api/v1/carts", sales, nil, `{"store_location_id":"nope"}`, http.StatusBadRequest},
		{"cart id is validated", http.MethodGet, "/api/v1/carts/not-a-uuid", sales, nil, "", http.StatusBadRequest},
		{"line id is validated", http.MethodDelete, "/api/v1/carts/" + uuid.NewString() + "/lines/x", sales, nil, "", http.StatusBadRequest},
		{"parked list needs a store", http.MethodGet, "/api/v1/carts/parked", sales, nil, "", http.StatusBadRequest},
		{"checkout needs process-sales", http.MethodPost, "/api/v1/checkout", returns, nil, "{}", http.StatusForbidden},
		{"checkout body is validated", http.MethodPost, "/api/v1/checkout", sales, nil, "[]", http.StatusBadRequest},
		{"payments need manage-payments", http.MethodGet, paymentPath, sales, nil, "", http.StatusForbidden},
		{"capture needs an idempotency key", http.MethodPost, paymentPath + "/capture", payments, nil, "", http.StatusUnprocessableEntity},
		{"capture validates payment id", http.MethodPost, "/api/v1/payments/nope/capture", payments, map[string]string{"Idempotency-Key": "k1"}, "", http.StatusBadRequest},
		{"returns need process-returns", http.MethodGet, "/api/v1/returns", sales, nil, "", http.StatusForbidden},
		{"return list validates sale id", http.MethodGet, "/api/v1/returns?sale_id=nope", returns, nil, "", http.StatusBadRequest},
		{"printer status", http.MethodGet, "/api/v1/printer/status", sales, nil, "", http.StatusOK},
		{"receipts need process-sales", http.MethodGet, "/api/v1/printer/status", returns, nil, "", http.StatusForbidden},
		{"receipt validates sale id", http.MethodGet, "/api/v1/sales/nope/receipt", sales, nil, "", http.StatusBadRequest},
		{"print body is validated", http.MethodPost, "/api/v1/sales/" + uuid.NewString() + "/receipt/print", sales, nil, "{", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/orders", sales, nil, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
