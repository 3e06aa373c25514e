package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/domain/sale"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
)

// CheckoutHandler handles checkout HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout handles turning an active cart into a sale with an authorized
// payment
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cashierID, ok := operatorID(c, req.CashierUserID)
	if !ok {
		return
	}

	payments := make([]*sale.PaymentRequest, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, &sale.PaymentRequest{
			TenderType:     p.TenderType,
			Amount:         p.Amount,
			TenderedAmount: p.TenderedAmount,
			Reference:      p.Reference,
		})
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), &service.CheckoutInput{
		CartID:           req.CartID,
		CashierUserID:    cashierID,
		TerminalDeviceID: req.TerminalDeviceID,
		CustomerID:       req.CustomerID,
		Payments:         payments,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, "Checkout completed successfully", result)
}
