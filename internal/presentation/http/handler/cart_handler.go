package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-engine/pkg/utils"
)

// CartHandler handles sale cart HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Create handles opening a new cart
func (h *CartHandler) Create(c *gin.Context) {
	var req request.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cashierID, ok := operatorID(c, req.CashierUserID)
	if !ok {
		return
	}

	cart, err := h.cartService.CreateCart(c.Request.Context(), &service.CreateCartInput{
		CashierUserID:    cashierID,
		StoreLocationID:  req.StoreLocationID,
		TerminalDeviceID: req.TerminalDeviceID,
		PricingAt:        req.PricingAt,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, "Cart created successfully", cart)
}

// Get handles getting a cart by ID
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// AddLine handles adding a product line to a cart
func (h *CartHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddLine(c.Request.Context(), id, &service.AddLineInput{
		LineKey:         req.LineKey,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		OpenPriceReason: req.OpenPriceReason,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Cart line added successfully", cart)
}

// UpdateLine handles changing an existing cart line
func (h *CartHandler) UpdateLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		return
	}
	var req request.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateLine(c.Request.Context(), id, lineID, &service.UpdateLineInput{
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		OpenPriceReason: req.OpenPriceReason,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Cart line updated successfully", cart)
}

// RemoveLine handles deleting a cart line
func (h *CartHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Cart line removed successfully", cart)
}

// Recalculate handles re-pricing a cart, optionally for a tender type
func (h *CartHandler) Recalculate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.RecalculateCartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	cart, err := h.cartService.Recalculate(c.Request.Context(), id, req.TenderType)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Cart recalculated successfully", cart)
}

// Park handles parking an active cart
func (h *CartHandler) Park(c *gin.Context) {
	h.operatorAction(c, h.cartService.ParkCart, "Cart parked successfully")
}

// Resume handles resuming a parked cart
func (h *CartHandler) Resume(c *gin.Context) {
	h.operatorAction(c, h.cartService.ResumeCart, "Cart resumed successfully")
}

// Cancel handles cancelling a parked cart
func (h *CartHandler) Cancel(c *gin.Context) {
	h.operatorAction(c, h.cartService.CancelCart, "Cart cancelled successfully")
}

func (h *CartHandler) operatorAction(
	c *gin.Context,
	action func(ctx context.Context, cartID uuid.UUID, input *service.CartOperatorInput) (*service.CartView, error),
	message string,
) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.CartOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cashierID, ok := operatorID(c, req.CashierUserID)
	if !ok {
		return
	}

	cart, err := action(c.Request.Context(), id, &service.CartOperatorInput{
		CashierUserID:    cashierID,
		TerminalDeviceID: req.TerminalDeviceID,
		Note:             req.Note,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, message, cart)
}

// ListParked handles listing the parked carts of a store
func (h *CartHandler) ListParked(c *gin.Context) {
	var filter request.ParkedCartFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	storeID, err := utils.ParseUUID(filter.StoreLocationID)
	if err != nil {
		response.BadRequest(c, "Invalid store_location_id")
		return
	}
	var terminalID *uuid.UUID
	if filter.TerminalDeviceID != "" {
		id, err := utils.ParseUUID(filter.TerminalDeviceID)
		if err != nil {
			response.BadRequest(c, "Invalid terminal_device_id")
			return
		}
		terminalID = &id
	}

	carts, err := h.cartService.ListParkedCarts(c.Request.Context(), storeID, terminalID)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Parked carts retrieved successfully", carts)
}
