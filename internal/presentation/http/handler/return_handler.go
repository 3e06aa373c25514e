package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-engine/pkg/pagination"
	"github.com/sangkips/pos-engine/pkg/utils"
)

const dateLayout = "2006-01-02"

// ReturnHandler handles sale return HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Lookup handles finding a sale and its returnable quantities by receipt
func (h *ReturnHandler) Lookup(c *gin.Context) {
	lookup, err := h.returnService.LookupByReceipt(c.Request.Context(), c.Query("receipt_number"))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", lookup)
}

// Submit handles recording a return
func (h *ReturnHandler) Submit(c *gin.Context) {
	var req request.SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lines := make([]service.ReturnLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, service.ReturnLineInput{SaleLineID: line.SaleLineID, Quantity: line.Quantity})
	}

	saleReturn, err := h.returnService.Submit(c.Request.Context(), &service.SubmitReturnInput{
		SaleID:           req.SaleID,
		ReceiptNumber:    req.ReceiptNumber,
		ReasonCode:       req.ReasonCode,
		RefundTenderType: req.RefundTenderType,
		RefundReference:  req.RefundReference,
		Note:             req.Note,
		Lines:            lines,
	})
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, "Return recorded successfully", saleReturn)
}

// Get handles getting a return by ID
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	saleReturn, err := h.returnService.GetReturn(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, "Return retrieved successfully", saleReturn)
}

// List handles listing returns, newest first
func (h *ReturnHandler) List(c *gin.Context) {
	var filter request.ReturnFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReturnFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}

	if filter.SaleID != "" {
		saleID, err := utils.ParseUUID(filter.SaleID)
		if err != nil {
			response.BadRequest(c, "Invalid sale_id")
			return
		}
		params.SaleID = &saleID
	}

	if filter.StartDate != "" {
		if startDate, err := time.Parse(dateLayout, filter.StartDate); err == nil {
			params.StartDate = &startDate
		}
	}

	if filter.EndDate != "" {
		if endDate, err := time.Parse(dateLayout, filter.EndDate); err == nil {
			endOfDay := endDate.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &endOfDay
		}
	}

	result, err := h.returnService.ListReturns(c.Request.Context(), params)
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Returns retrieved successfully", result)
}
