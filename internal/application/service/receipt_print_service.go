package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/sangkips/pos-engine/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrintedReceiptLine is one sale line as it appears on paper
type PrintedReceiptLine struct {
	LineNumber      int            `json:"line_number"`
	Name            string         `json:"name"`
	Quantity        money.Quantity `json:"quantity"`
	UnitPrice       money.Amount   `json:"unit_price"`
	GrossAmount     money.Amount   `json:"gross_amount"`
	OpenPriceReason *string        `json:"open_price_reason,omitempty"`
}

// PrintedTender is one payment allocation on the receipt
type PrintedTender struct {
	TenderType     enum.TenderType `json:"tender_type"`
	TenderedAmount money.Amount    `json:"tendered_amount"`
	Reference      *string         `json:"reference,omitempty"`
}

// PrintedReceipt is the customer receipt of a sale
type PrintedReceipt struct {
	SaleID             uuid.UUID            `json:"sale_id"`
	ReceiptNumber      string               `json:"receipt_number"`
	StoreName          string               `json:"store_name"`
	TerminalCode       string               `json:"terminal_code"`
	Cashier            string               `json:"cashier"`
	IssuedAt           time.Time            `json:"issued_at"`
	Lines              []PrintedReceiptLine `json:"lines"`
	SubtotalNet        money.Amount         `json:"subtotal_net"`
	TotalTax           money.Amount         `json:"total_tax"`
	RoundingAdjustment money.Amount         `json:"rounding_adjustment"`
	TotalPayable       money.Amount         `json:"total_payable"`
	Tenders            []PrintedTender      `json:"tenders"`
	ChangeAmount       money.Amount         `json:"change_amount"`
	PaymentStatus      *enum.PaymentStatus  `json:"payment_status,omitempty"`
	Reprint            bool                 `json:"reprint"`
	Printed            bool                 `json:"printed"`
}

// PrinterStatus describes the receipt printer attached to this instance
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Ready      bool   `json:"ready"`
	Kind       string `json:"kind"`
	Width      int    `json:"width"`
}

// ReceiptPrintService renders sale receipts and sends them to the printer
type ReceiptPrintService struct {
	printer      printer.Printer
	width        int
	footer       string
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	productRepo  repository.ProductRepository
	operatorRepo repository.OperatorRepository
}

// NewReceiptPrintService creates a new receipt print service. width is the
// paper width in characters.
func NewReceiptPrintService(
	p printer.Printer,
	width int,
	footer string,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	operatorRepo repository.OperatorRepository,
) *ReceiptPrintService {
	if p == nil {
		p = printer.Discard{}
	}
	if width <= 0 {
		width = printer.Width58mm
	}
	return &ReceiptPrintService{
		printer:      p,
		width:        width,
		footer:       footer,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		operatorRepo: operatorRepo,
	}
}

// Status reports whether a printer is configured and reachable
func (s *ReceiptPrintService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != printer.KindNone,
		Ready:      s.printer.Ready(ctx),
		Kind:       s.printer.Kind(),
		Width:      s.width,
	}
}

// Render builds the receipt of a sale without printing it
func (s *ReceiptPrintService) Render(ctx context.Context, saleID uuid.UUID) (*PrintedReceipt, error) {
	saleRecord, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if saleRecord == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale %s", saleID))
	}
	return s.build(ctx, saleRecord)
}

// RenderByReceiptNumber builds the receipt of the sale with the given number
func (s *ReceiptPrintService) RenderByReceiptNumber(ctx context.Context, receiptNumber string) (*PrintedReceipt, error) {
	number := strings.TrimSpace(receiptNumber)
	if number == "" {
		return nil, apperror.NewInvalidError("receiptNumber is required")
	}
	saleRecord, err := s.saleRepo.GetByReceiptNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if saleRecord == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("sale for receipt number %s", number))
	}
	return s.build(ctx, saleRecord)
}

// Print renders the receipt of a sale and sends it to the printer. A reprint
// is marked as a copy on paper. When the printer fails, the rendered receipt
// is still returned alongside the error.
func (s *ReceiptPrintService) Print(ctx context.Context, saleID uuid.UUID, reprint bool) (*PrintedReceipt, error) {
	receipt, err := s.Render(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipt.Reprint = reprint

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width, s.footer)); err != nil {
		logger.FromContext(ctx).Warn("receipt print failed",
			zap.String("receipt_number", receipt.ReceiptNumber),
			zap.String("printer", s.printer.Kind()),
			zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	receipt.Printed = s.printer.Kind() != printer.KindNone

	logger.FromContext(ctx).Info("receipt printed",
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.Bool("reprint", reprint),
		zap.String("printer", s.printer.Kind()))
	return receipt, nil
}

func (s *ReceiptPrintService) build(ctx context.Context, saleRecord *entity.Sale) (*PrintedReceipt, error) {
	receipt := &PrintedReceipt{
		SaleID:             saleRecord.ID,
		ReceiptNumber:      saleRecord.ReceiptNumber,
		IssuedAt:           saleRecord.CreatedAt,
		Lines:              make([]PrintedReceiptLine, 0, len(saleRecord.Lines)),
		SubtotalNet:        money.NewAmount(saleRecord.SubtotalNet),
		TotalTax:           money.NewAmount(saleRecord.TotalTax),
		RoundingAdjustment: money.NewAmount(saleRecord.RoundingAdjustment),
		TotalPayable:       money.NewAmount(saleRecord.TotalPayable),
		Tenders:            []PrintedTender{},
		ChangeAmount:       money.NewAmount(decimal.Zero),
	}

	terminal, err := s.operatorRepo.GetTerminal(ctx, saleRecord.TerminalDeviceID)
	if err != nil {
		return nil, err
	}
	if terminal != nil {
		receipt.TerminalCode = terminal.Code
		receipt.StoreName = terminal.StoreLocation.Name
	}
	cashier, err := s.operatorRepo.GetUser(ctx, saleRecord.CashierUserID)
	if err != nil {
		return nil, err
	}
	if cashier != nil {
		receipt.Cashier = cashier.Username
		if cashier.DisplayName != "" {
			receipt.Cashier = cashier.DisplayName
		}
	}

	names := make(map[uuid.UUID]string)
	for _, line := range orderedSaleLines(saleRecord) {
		name, ok := names[line.ProductID]
		if !ok {
			product, err := s.productRepo.GetByID(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			name = "Item"
			if product != nil {
				name = product.Name
			}
			names[line.ProductID] = name
		}
		receipt.Lines = append(receipt.Lines, PrintedReceiptLine{
			LineNumber:      line.LineNumber,
			Name:            name,
			Quantity:        money.NewQuantity(line.Quantity),
			UnitPrice:       money.NewAmount(line.UnitPrice),
			GrossAmount:     money.NewAmount(line.GrossAmount),
			OpenPriceReason: line.OpenPriceReason,
		})
	}

	payment, err := s.paymentRepo.GetByCartID(ctx, saleRecord.CartID)
	if err != nil {
		return nil, err
	}
	if payment != nil {
		status := payment.Status
		receipt.PaymentStatus = &status
		receipt.ChangeAmount = money.NewAmount(payment.ChangeAmount)
		for _, allocation := range allocationViews(payment.Allocations) {
			receipt.Tenders = append(receipt.Tenders, PrintedTender{
				TenderType:     allocation.TenderType,
				TenderedAmount: allocation.TenderedAmount,
				Reference:      allocation.Reference,
			})
		}
	}
	return receipt, nil
}

// FormatReceipt lays a receipt out as an ESC/POS job
func FormatReceipt(r *PrintedReceipt, width int, footer string) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.SizeDouble).
		Line(r.StoreName).
		Size(printer.SizeNormal).
		Bold(false)
	if r.Reprint {
		doc.Line("*** COPY ***")
	}

	doc.Align(printer.AlignLeft).Rule('-').
		Columns("Receipt", r.ReceiptNumber).
		Columns("Date", r.IssuedAt.Format("2006-01-02 15:04"))
	if r.TerminalCode != "" {
		doc.Columns("Terminal", r.TerminalCode)
	}
	if r.Cashier != "" {
		doc.Columns("Cashier", r.Cashier)
	}
	doc.Rule('-')

	for _, line := range r.Lines {
		doc.Line(line.Name).
			Columns(fmt.Sprintf("  %s x %s", line.Quantity.Decimal().String(), line.UnitPrice), line.GrossAmount.String())
		if line.OpenPriceReason != nil {
			doc.Line("  " + *line.OpenPriceReason)
		}
	}
	doc.Rule('-')

	doc.Columns("Subtotal", r.SubtotalNet.String()).
		Columns("Tax", r.TotalTax.String())
	if !r.RoundingAdjustment.Decimal().IsZero() {
		doc.Columns("Rounding", r.RoundingAdjustment.String())
	}
	doc.Bold(true).
		Columns("TOTAL", r.TotalPayable.String()).
		Bold(false)

	for _, tender := range r.Tenders {
		doc.Columns(tender.TenderType.String(), tender.TenderedAmount.String())
		if tender.Reference != nil {
			doc.Line("  Ref " + *tender.Reference)
		}
	}
	if r.ChangeAmount.Decimal().IsPositive() {
		doc.Columns("Change", r.ChangeAmount.String())
	}
	doc.Rule('-')

	if footer != "" {
		doc.Align(printer.AlignCenter).
			Feed(1).
			Line(footer).
			Align(printer.AlignLeft)
	}
	return doc.Feed(3).Cut(true).Bytes()
}
