package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/domain/sale"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/sangkips/pos-engine/pkg/pagination"
	"github.com/sangkips/pos-engine/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	returnReferencePrefix    = "RET"
	maxRefundNoteLength      = 255
	maxRefundReferenceLength = 120
)

// ReturnLookupLine is one sale line with what can still be returned
type ReturnLookupLine struct {
	SaleLineID        uuid.UUID      `json:"sale_line_id"`
	ProductID         uuid.UUID      `json:"product_id"`
	LineNumber        int            `json:"line_number"`
	QuantitySold      money.Quantity `json:"quantity_sold"`
	QuantityReturned  money.Quantity `json:"quantity_returned"`
	QuantityAvailable money.Quantity `json:"quantity_available"`
	UnitPrice         money.Amount   `json:"unit_price"`
	GrossAmount       money.Amount   `json:"gross_amount"`
}

// ReturnLookup is a sale found by receipt number, prepared for a return
type ReturnLookup struct {
	SaleID           uuid.UUID          `json:"sale_id"`
	ReceiptNumber    string             `json:"receipt_number"`
	StoreLocationID  uuid.UUID          `json:"store_location_id"`
	TerminalDeviceID uuid.UUID          `json:"terminal_device_id"`
	SoldAt           time.Time          `json:"sold_at"`
	Lines            []ReturnLookupLine `json:"lines"`
}

// ReturnLineInput asks to return a quantity of one sale line
type ReturnLineInput struct {
	SaleLineID uuid.UUID
	Quantity   decimal.Decimal
}

// SubmitReturnInput is a return request. Either SaleID or ReceiptNumber
// identifies the sale.
type SubmitReturnInput struct {
	SaleID           *uuid.UUID
	ReceiptNumber    *string
	ReasonCode       string
	RefundTenderType *enum.TenderType
	RefundReference  *string
	Note             *string
	Lines            []ReturnLineInput
}

// ReturnLineView is one returned line
type ReturnLineView struct {
	ID          uuid.UUID      `json:"id"`
	SaleLineID  uuid.UUID      `json:"sale_line_id"`
	ProductID   uuid.UUID      `json:"product_id"`
	LineNumber  int            `json:"line_number"`
	Quantity    money.Quantity `json:"quantity"`
	NetAmount   money.Amount   `json:"net_amount"`
	TaxAmount   money.Amount   `json:"tax_amount"`
	GrossAmount money.Amount   `json:"gross_amount"`
}

// ReturnRefundView is the money handed back for a return
type ReturnRefundView struct {
	PaymentID  uuid.UUID       `json:"payment_id"`
	TenderType enum.TenderType `json:"tender_type"`
	Amount     money.Amount    `json:"amount"`
	Reference  *string         `json:"reference,omitempty"`
}

// ReturnDetails is a persisted return with lines and refund
type ReturnDetails struct {
	ID               uuid.UUID         `json:"id"`
	SaleID           uuid.UUID         `json:"sale_id"`
	ReceiptNumber    string            `json:"receipt_number"`
	ReturnReference  string            `json:"return_reference"`
	ReasonCode       string            `json:"reason_code"`
	RefundTenderType enum.TenderType   `json:"refund_tender_type"`
	RefundNote       *string           `json:"refund_note,omitempty"`
	SubtotalNet      money.Amount      `json:"subtotal_net"`
	TotalTax         money.Amount      `json:"total_tax"`
	TotalGross       money.Amount      `json:"total_gross"`
	Lines            []ReturnLineView  `json:"lines"`
	Refund           *ReturnRefundView `json:"refund,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ReturnService looks up sales by receipt and records returns against them
type ReturnService struct {
	uow          repository.UnitOfWork
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	returnRepo   repository.SaleReturnRepository
	movementRepo repository.InventoryMovementRepository
	window       time.Duration
	now          func() time.Time
}

// NewReturnService creates a new return service. Returns older than window
// need the configuration permission.
func NewReturnService(
	uow repository.UnitOfWork,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	returnRepo repository.SaleReturnRepository,
	movementRepo repository.InventoryMovementRepository,
	window time.Duration,
) *ReturnService {
	return &ReturnService{
		uow:          uow,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		returnRepo:   returnRepo,
		movementRepo: movementRepo,
		window:       window,
		now:          time.Now,
	}
}

// LookupByReceipt returns the sale behind a receipt with per-line return availability
func (s *ReturnService) LookupByReceipt(ctx context.Context, receiptNumber string) (*ReturnLookup, error) {
	saleRecord, err := s.requireSaleByReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	returned, err := s.returnRepo.SummarizeReturned(ctx, saleRecord.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize returns: %w", err)
	}

	lookup := &ReturnLookup{
		SaleID:           saleRecord.ID,
		ReceiptNumber:    saleRecord.ReceiptNumber,
		StoreLocationID:  saleRecord.StoreLocationID,
		TerminalDeviceID: saleRecord.TerminalDeviceID,
		SoldAt:           saleRecord.CreatedAt,
		Lines:            make([]ReturnLookupLine, 0, len(saleRecord.Lines)),
	}
	for _, line := range orderedSaleLines(saleRecord) {
		sold := money.NormalizeQuantity(line.Quantity)
		already := money.NormalizeQuantity(returned[line.ID].Quantity)
		availableQty := money.NormalizeQuantity(money.Max(sold.Sub(already), decimal.Zero))
		lookup.Lines = append(lookup.Lines, ReturnLookupLine{
			SaleLineID:        line.ID,
			ProductID:         line.ProductID,
			LineNumber:        line.LineNumber,
			QuantitySold:      money.NewQuantity(sold),
			QuantityReturned:  money.NewQuantity(already),
			QuantityAvailable: money.NewQuantity(availableQty),
			UnitPrice:         money.NewAmount(line.UnitPrice),
			GrossAmount:       money.NewAmount(line.GrossAmount),
		})
	}
	return lookup, nil
}

// Submit records a return, its refund and the stock coming back
func (s *ReturnService) Submit(ctx context.Context, input *SubmitReturnInput) (*ReturnDetails, error) {
	var details *ReturnDetails
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		saleRecord, err := s.requireSale(ctx, input.SaleID, input.ReceiptNumber)
		if err != nil {
			return err
		}
		if err := s.enforceWindow(ctx, saleRecord); err != nil {
			return err
		}
		if err := validateDistinctSaleLines(input.Lines); err != nil {
			return err
		}

		payment, err := s.paymentRepo.GetByCartIDForUpdate(ctx, saleRecord.CartID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewConflictError(fmt.Sprintf("payment record not found for sale: %s", saleRecord.ID))
		}

		reasonCode := strings.ToUpper(strings.TrimSpace(input.ReasonCode))
		if reasonCode == "" {
			return apperror.NewInvalidError("reasonCode is required")
		}
		if input.RefundTenderType == nil {
			return apperror.NewInvalidError("refundTenderType is required")
		}
		note, err := optionalText(input.Note, maxRefundNoteLength)
		if err != nil {
			return err
		}
		reference, err := optionalText(input.RefundReference, maxRefundReferenceLength)
		if err != nil {
			return err
		}

		returned, err := s.returnRepo.SummarizeReturned(ctx, saleRecord.ID)
		if err != nil {
			return fmt.Errorf("failed to summarize returns: %w", err)
		}

		saleReturn := &entity.SaleReturn{
			SaleID:           saleRecord.ID,
			PaymentID:        payment.ID,
			ReturnReference:  utils.NewReference(returnReferencePrefix, saleRecord.ID),
			ReasonCode:       reasonCode,
			RefundTenderType: *input.RefundTenderType,
			RefundNote:       note,
			SubtotalNet:      money.Zero(),
			TotalTax:         money.Zero(),
			TotalGross:       money.Zero(),
		}
		for _, requested := range input.Lines {
			line := saleRecord.FindLine(requested.SaleLineID)
			if line == nil {
				return apperror.NewInvalidError(fmt.Sprintf("saleLineId does not belong to sale: %s", requested.SaleLineID))
			}
			if !requested.Quantity.IsPositive() {
				return apperror.NewInvalidError(fmt.Sprintf("return quantity must be greater than zero: %s", requested.SaleLineID))
			}

			already := returned[line.ID]
			allocation, err := sale.AllocateReturn(
				sale.SoldLine{Quantity: line.Quantity, Net: line.NetAmount, Tax: line.TaxAmount, Gross: line.GrossAmount},
				sale.ReturnedSoFar{Quantity: already.Quantity, Net: already.Net, Tax: already.Tax, Gross: already.Gross},
				requested.Quantity,
			)
			if err != nil {
				return err
			}

			saleReturn.Lines = append(saleReturn.Lines, entity.SaleReturnLine{
				SaleLineID:  line.ID,
				ProductID:   line.ProductID,
				LineNumber:  line.LineNumber,
				Quantity:    allocation.Quantity,
				NetAmount:   allocation.Net,
				TaxAmount:   allocation.Tax,
				GrossAmount: allocation.Gross,
			})
			saleReturn.SubtotalNet = money.Normalize(saleReturn.SubtotalNet.Add(allocation.Net))
			saleReturn.TotalTax = money.Normalize(saleReturn.TotalTax.Add(allocation.Tax))
			saleReturn.TotalGross = money.Normalize(saleReturn.TotalGross.Add(allocation.Gross))
		}

		if len(saleReturn.Lines) == 0 {
			return apperror.NewInvalidError("at least one return line is required")
		}
		if !saleReturn.TotalGross.IsPositive() {
			return apperror.NewConflictError("return total must be greater than zero")
		}

		saleReturn.Refund = &entity.SaleReturnRefund{
			PaymentID:  payment.ID,
			TenderType: *input.RefundTenderType,
			Amount:     saleReturn.TotalGross,
			Reference:  reference,
		}
		if err := s.returnRepo.Create(ctx, saleReturn); err != nil {
			return fmt.Errorf("failed to create sale return: %w", err)
		}

		movements := make([]entity.InventoryMovement, 0, len(saleReturn.Lines))
		for _, line := range saleReturn.Lines {
			movements = append(movements, entity.InventoryMovement{
				StoreLocationID: saleRecord.StoreLocationID,
				ProductID:       line.ProductID,
				MovementType:    enum.MovementTypeReturn,
				QuantityDelta:   money.NormalizeQuantity(line.Quantity),
				ReferenceType:   enum.MovementReferenceTypeSaleReturn,
				ReferenceNumber: saleReturn.ReturnReference,
			})
		}
		if err := s.movementRepo.CreateBatch(ctx, movements); err != nil {
			return fmt.Errorf("failed to record return inventory movements: %w", err)
		}

		logger.FromContext(ctx).Info("sale return recorded",
			zap.String("sale_id", saleRecord.ID.String()),
			zap.String("return_reference", saleReturn.ReturnReference),
			zap.String("total_gross", saleReturn.TotalGross.StringFixed(money.AmountScale)),
			zap.String("actor", actor.Username(ctx)))

		details = newReturnDetails(saleReturn, saleRecord.ReceiptNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// GetReturn returns a single return
func (s *ReturnService) GetReturn(ctx context.Context, id uuid.UUID) (*ReturnDetails, error) {
	saleReturn, err := s.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if saleReturn == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale return %s", id))
	}
	saleRecord, err := s.saleRepo.GetByID(ctx, saleReturn.SaleID)
	if err != nil {
		return nil, err
	}
	var receiptNumber string
	if saleRecord != nil {
		receiptNumber = saleRecord.ReceiptNumber
	}
	return newReturnDetails(saleReturn, receiptNumber), nil
}

// ListReturns retrieves returns with page based pagination, newest first
func (s *ReturnService) ListReturns(ctx context.Context, params *repository.ReturnFilterParams) (*pagination.PaginatedResult[ReturnDetails], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	returns, total, err := s.returnRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}

	receipts := make(map[uuid.UUID]string)
	items := make([]ReturnDetails, 0, len(returns))
	for i := range returns {
		receiptNumber, ok := receipts[returns[i].SaleID]
		if !ok {
			saleRecord, err := s.saleRepo.GetByID(ctx, returns[i].SaleID)
			if err != nil {
				return nil, err
			}
			if saleRecord != nil {
				receiptNumber = saleRecord.ReceiptNumber
			}
			receipts[returns[i].SaleID] = receiptNumber
		}
		items = append(items, *newReturnDetails(&returns[i], receiptNumber))
	}

	page := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, page), nil
}

func (s *ReturnService) requireSale(ctx context.Context, saleID *uuid.UUID, receiptNumber *string) (*entity.Sale, error) {
	receipt := ""
	if receiptNumber != nil {
		receipt = strings.TrimSpace(*receiptNumber)
	}
	if saleID == nil && receipt == "" {
		return nil, apperror.NewInvalidError("either saleId or receiptNumber is required")
	}
	if saleID == nil {
		return s.requireSaleByReceipt(ctx, receipt)
	}

	saleRecord, err := s.saleRepo.GetByID(ctx, *saleID)
	if err != nil {
		return nil, err
	}
	if saleRecord == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale %s", *saleID))
	}
	if receipt != "" && !strings.EqualFold(saleRecord.ReceiptNumber, receipt) {
		return nil, apperror.NewConflictError("saleId and receiptNumber do not reference the same sale")
	}
	return saleRecord, nil
}

func (s *ReturnService) requireSaleByReceipt(ctx context.Context, receiptNumber string) (*entity.Sale, error) {
	receipt := strings.TrimSpace(receiptNumber)
	if receipt == "" {
		return nil, apperror.NewInvalidError("receiptNumber is required")
	}
	saleRecord, err := s.saleRepo.GetByReceiptNumber(ctx, receipt)
	if err != nil {
		return nil, err
	}
	if saleRecord == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale for receipt number %s", receipt))
	}
	return saleRecord, nil
}

// enforceWindow requires the configuration permission once the window closed
func (s *ReturnService) enforceWindow(ctx context.Context, saleRecord *entity.Sale) error {
	window := s.window
	if window < 24*time.Hour {
		window = 24 * time.Hour
	}
	cutoff := saleRecord.CreatedAt.Add(window)
	if s.now().After(cutoff) && !actor.HasPermission(ctx, actor.PermissionConfigurationManage) {
		return apperror.NewForbiddenError("return is outside allowed window and requires manager approval")
	}
	return nil
}

func validateDistinctSaleLines(lines []ReturnLineInput) error {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.SaleLineID]; ok {
			return apperror.NewInvalidError(fmt.Sprintf("duplicate saleLineId in request: %s", line.SaleLineID))
		}
		seen[line.SaleLineID] = struct{}{}
	}
	return nil
}

// optionalText trims value, maps blank to nil and rejects overlong input
func optionalText(value *string, maxLength int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxLength {
		return nil, apperror.NewInvalidError(fmt.Sprintf("value exceeds maximum length: %d", maxLength))
	}
	return &trimmed, nil
}

func orderedSaleLines(saleRecord *entity.Sale) []entity.SaleLine {
	lines := make([]entity.SaleLine, len(saleRecord.Lines))
	copy(lines, saleRecord.Lines)
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].LineNumber != lines[j].LineNumber {
			return lines[i].LineNumber < lines[j].LineNumber
		}
		return lines[i].ID.String() < lines[j].ID.String()
	})
	return lines
}

func newReturnDetails(saleReturn *entity.SaleReturn, receiptNumber string) *ReturnDetails {
	lines := make([]entity.SaleReturnLine, len(saleReturn.Lines))
	copy(lines, saleReturn.Lines)
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].LineNumber != lines[j].LineNumber {
			return lines[i].LineNumber < lines[j].LineNumber
		}
		return lines[i].ID.String() < lines[j].ID.String()
	})

	details := &ReturnDetails{
		ID:               saleReturn.ID,
		SaleID:           saleReturn.SaleID,
		ReceiptNumber:    receiptNumber,
		ReturnReference:  saleReturn.ReturnReference,
		ReasonCode:       saleReturn.ReasonCode,
		RefundTenderType: saleReturn.RefundTenderType,
		RefundNote:       saleReturn.RefundNote,
		SubtotalNet:      money.NewAmount(saleReturn.SubtotalNet),
		TotalTax:         money.NewAmount(saleReturn.TotalTax),
		TotalGross:       money.NewAmount(saleReturn.TotalGross),
		Lines:            make([]ReturnLineView, 0, len(lines)),
		CreatedAt:        saleReturn.CreatedAt,
	}
	for _, line := range lines {
		details.Lines = append(details.Lines, ReturnLineView{
			ID:          line.ID,
			SaleLineID:  line.SaleLineID,
			ProductID:   line.ProductID,
			LineNumber:  line.LineNumber,
			Quantity:    money.NewQuantity(line.Quantity),
			NetAmount:   money.NewAmount(line.NetAmount),
			TaxAmount:   money.NewAmount(line.TaxAmount),
			GrossAmount: money.NewAmount(line.GrossAmount),
		})
	}
	if saleReturn.Refund != nil {
		details.Refund = &ReturnRefundView{
			PaymentID:  saleReturn.Refund.PaymentID,
			TenderType: saleReturn.Refund.TenderType,
			Amount:     money.NewAmount(saleReturn.Refund.Amount),
			Reference:  saleReturn.Refund.Reference,
		}
	}
	return details
}
