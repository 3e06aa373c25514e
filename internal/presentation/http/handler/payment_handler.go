package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-engine/internal/presentation/http/middleware"
)

type paymentTransition func(ctx context.Context, id uuid.UUID, idempotencyKey string, input service.TransitionInput) (*service.PaymentDetails, bool, error)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Get handles getting a payment with its allocations and history
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Capture handles capturing an authorized payment
func (h *PaymentHandler) Capture(c *gin.Context) {
	h.transition(c, h.paymentService.Capture, "Payment captured successfully")
}

// Void handles voiding an authorized payment
func (h *PaymentHandler) Void(c *gin.Context) {
	h.transition(c, h.paymentService.Void, "Payment voided successfully")
}

// Refund handles refunding a captured payment
func (h *PaymentHandler) Refund(c *gin.Context) {
	h.transition(c, h.paymentService.Refund, "Payment refunded successfully")
}

func (h *PaymentHandler) transition(c *gin.Context, apply paymentTransition, message string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.PaymentTransitionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	payment, replayed, err := apply(c.Request.Context(), id, middleware.IdempotencyKey(c), service.TransitionInput{Note: req.Note})
	if err != nil {
		fail(c, err)
		return
	}

	response.Replayable(c, 200, message, payment, replayed)
}
