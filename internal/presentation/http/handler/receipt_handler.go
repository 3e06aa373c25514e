package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt rendering and printing
type ReceiptHandler struct {
	printService *service.ReceiptPrintService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(printService *service.ReceiptPrintService) *ReceiptHandler {
	return &ReceiptHandler{printService: printService}
}

// PrinterStatus returns the receipt printer connection status
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printService.Status(c.Request.Context()))
}

// Get renders the receipt of a sale without printing it
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.printService.Render(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetByNumber renders a receipt by its receipt number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	receipt, err := h.printService.RenderByReceiptNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print sends the receipt of a sale to the printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.PrintReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	receipt, err := h.printService.Print(c.Request.Context(), id, req.Reprint)
	if err != nil {
		// The receipt was built but the printer failed
		if receipt != nil {
			_ = c.Error(err)
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		fail(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{"receipt": receipt})
}
