package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/domain/sale"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/sangkips/pos-engine/pkg/money"
	"go.uber.org/zap"
)

// CheckoutInput is the request to turn an active cart into a sale
type CheckoutInput struct {
	CartID           uuid.UUID
	CashierUserID    uuid.UUID
	TerminalDeviceID uuid.UUID
	CustomerID       *uuid.UUID
	Payments         []*sale.PaymentRequest
}

// CheckoutResult summarizes the sale and the authorized payment
type CheckoutResult struct {
	CartID         uuid.UUID               `json:"cart_id"`
	SaleID         uuid.UUID               `json:"sale_id"`
	ReceiptNumber  string                  `json:"receipt_number"`
	PaymentID      uuid.UUID               `json:"payment_id"`
	PaymentStatus  enum.PaymentStatus      `json:"payment_status"`
	TotalPayable   money.Amount            `json:"total_payable"`
	TotalAllocated money.Amount            `json:"total_allocated"`
	TotalTendered  money.Amount            `json:"total_tendered"`
	ChangeAmount   money.Amount            `json:"change_amount"`
	Allocations    []PaymentAllocationView `json:"allocations"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// CheckoutService closes a cart: it records the sale, stock movements and
// the authorized payment in one unit of work
type CheckoutService struct {
	uow          repository.UnitOfWork
	cartRepo     repository.SaleCartRepository
	operatorRepo repository.OperatorRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	movementRepo repository.InventoryMovementRepository
	receipts     *ReceiptService
	payments     *PaymentService
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	uow repository.UnitOfWork,
	cartRepo repository.SaleCartRepository,
	operatorRepo repository.OperatorRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	movementRepo repository.InventoryMovementRepository,
	receipts *ReceiptService,
	payments *PaymentService,
) *CheckoutService {
	return &CheckoutService{
		uow:          uow,
		cartRepo:     cartRepo,
		operatorRepo: operatorRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		movementRepo: movementRepo,
		receipts:     receipts,
		payments:     payments,
	}
}

// Checkout validates the tenders against the cart total and completes the sale
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	var result *CheckoutResult
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cart, err := s.cartRepo.GetByIDForUpdate(ctx, input.CartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("sale cart %s", input.CartID))
		}
		if cart.Status != enum.CartStatusActive {
			return apperror.NewConflictError(fmt.Sprintf("sale cart is not active: %s", cart.ID))
		}

		operator, err := requireOperatorContext(ctx, s.operatorRepo, cart, input.CashierUserID, input.TerminalDeviceID)
		if err != nil {
			return err
		}

		if len(cart.Lines) == 0 {
			return apperror.NewInvalidError("sale cart must contain at least one line before checkout")
		}
		existing, err := s.saleRepo.GetByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError(fmt.Sprintf("sale already exists for cart: %s", cart.ID))
		}

		payable := money.Normalize(cart.TotalPayable)
		allocation, err := sale.ValidatePaymentAllocations(&payable, input.Payments)
		if err != nil {
			return err
		}

		if err := s.validateCustomer(ctx, input.CustomerID, operator.terminal.StoreLocation.MerchantID); err != nil {
			return err
		}

		receipt, err := s.receipts.Allocate(ctx, operator.terminal)
		if err != nil {
			return err
		}

		saleRecord, err := s.createSale(ctx, cart, input.CustomerID, receipt.ReceiptNumber)
		if err != nil {
			return err
		}

		payment, err := s.authorizePayment(ctx, cart.ID, allocation)
		if err != nil {
			return err
		}
		if err := s.payments.RecordInitialAuthorization(ctx, payment); err != nil {
			return err
		}

		cart.Status = enum.CartStatusCheckedOut
		if err := s.cartRepo.Save(ctx, cart); err != nil {
			return fmt.Errorf("failed to close sale cart: %w", err)
		}

		logger.FromContext(ctx).Info("cart checked out",
			zap.String("cart_id", cart.ID.String()),
			zap.String("sale_id", saleRecord.ID.String()),
			zap.String("receipt_number", receipt.ReceiptNumber),
			zap.String("total_payable", payable.StringFixed(money.AmountScale)),
			zap.Int("tenders", len(allocation.Payments)))

		result = &CheckoutResult{
			CartID:         cart.ID,
			SaleID:         saleRecord.ID,
			ReceiptNumber:  saleRecord.ReceiptNumber,
			PaymentID:      payment.ID,
			PaymentStatus:  payment.Status,
			TotalPayable:   money.NewAmount(payment.TotalPayable),
			TotalAllocated: money.NewAmount(payment.TotalAllocated),
			TotalTendered:  money.NewAmount(payment.TotalTendered),
			ChangeAmount:   money.NewAmount(payment.ChangeAmount),
			Allocations:    allocationViews(payment.Allocations),
			UpdatedAt:      payment.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CheckoutService) validateCustomer(ctx context.Context, customerID *uuid.UUID, merchantID uuid.UUID) error {
	if customerID == nil {
		return nil
	}
	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError(fmt.Sprintf("customer %s", *customerID))
	}
	if customer.MerchantID != merchantID {
		return apperror.NewInvalidError(fmt.Sprintf(
			"customer merchant mismatch for checkout: customerId=%s merchantId=%s", customer.ID, merchantID))
	}
	if !customer.Active {
		return apperror.NewConflictError(fmt.Sprintf("customer is inactive: %s", customer.ID))
	}
	return nil
}

// createSale snapshots the cart lines and emits one SALE movement per line
func (s *CheckoutService) createSale(ctx context.Context, cart *entity.SaleCart, customerID *uuid.UUID, receiptNumber string) (*entity.Sale, error) {
	saleRecord := &entity.Sale{
		CartID:             cart.ID,
		CashierUserID:      cart.CashierUserID,
		StoreLocationID:    cart.StoreLocationID,
		TerminalDeviceID:   cart.TerminalDeviceID,
		CustomerID:         customerID,
		ReceiptNumber:      receiptNumber,
		SubtotalNet:        money.Normalize(cart.SubtotalNet),
		TotalTax:           money.Normalize(cart.TotalTax),
		TotalGross:         money.Normalize(cart.TotalGross),
		RoundingAdjustment: money.Normalize(cart.RoundingAdjustment),
		TotalPayable:       money.Normalize(cart.TotalPayable),
	}
	for _, line := range cart.OrderedLines() {
		saleRecord.Lines = append(saleRecord.Lines, entity.SaleLine{
			ID:              uuid.New(),
			LineNumber:      line.LineNumber,
			ProductID:       line.ProductID,
			Quantity:        money.NormalizeQuantity(line.Quantity),
			UnitPrice:       money.Normalize(line.UnitPrice),
			NetAmount:       money.Normalize(line.NetAmount),
			TaxAmount:       money.Normalize(line.TaxAmount),
			GrossAmount:     money.Normalize(line.GrossAmount),
			OpenPriceReason: line.OpenPriceReason,
		})
	}
	if err := s.saleRepo.Create(ctx, saleRecord); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	movements := make([]entity.InventoryMovement, 0, len(saleRecord.Lines))
	for i := range saleRecord.Lines {
		line := &saleRecord.Lines[i]
		movements = append(movements, entity.InventoryMovement{
			StoreLocationID: saleRecord.StoreLocationID,
			ProductID:       line.ProductID,
			SaleID:          &saleRecord.ID,
			SaleLineID:      &line.ID,
			MovementType:    enum.MovementTypeSale,
			QuantityDelta:   line.Quantity.Neg(),
			ReferenceType:   enum.MovementReferenceTypeSaleReceipt,
			ReferenceNumber: saleRecord.ReceiptNumber,
		})
	}
	if err := s.movementRepo.CreateBatch(ctx, movements); err != nil {
		return nil, fmt.Errorf("failed to record sale inventory movements: %w", err)
	}
	return saleRecord, nil
}

// authorizePayment creates the cart's payment or overwrites a leftover one
func (s *CheckoutService) authorizePayment(ctx context.Context, cartID uuid.UUID, allocation *sale.AllocationResult) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByCartIDForUpdate(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		payment = &entity.Payment{CartID: cartID}
	}

	payment.Status = enum.PaymentStatusAuthorized
	payment.TotalPayable = allocation.TotalPayable
	payment.TotalAllocated = allocation.TotalAllocated
	payment.TotalTendered = allocation.TotalTendered
	payment.ChangeAmount = allocation.ChangeAmount
	payment.Allocations = make([]entity.PaymentAllocation, 0, len(allocation.Payments))
	for _, p := range allocation.Payments {
		payment.Allocations = append(payment.Allocations, entity.PaymentAllocation{
			SequenceNumber:  p.SequenceNumber,
			TenderType:      p.TenderType,
			AllocatedAmount: p.AllocatedAmount,
			TenderedAmount:  p.TenderedAmount,
			ChangeAmount:    p.ChangeAmount,
			Reference:       p.Reference,
		})
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	return payment, nil
}
