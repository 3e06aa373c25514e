package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/sangkips/pos-engine/internal/domain/sale"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/logger"
	"github.com/sangkips/pos-engine/pkg/money"
	"go.uber.org/zap"
)

const checkoutAuthorizationNote = "payment authorized at checkout"

// PaymentAllocationView is one tender of a payment
type PaymentAllocationView struct {
	SequenceNumber  int             `json:"sequence_number"`
	TenderType      enum.TenderType `json:"tender_type"`
	AllocatedAmount money.Amount    `json:"allocated_amount"`
	TenderedAmount  money.Amount    `json:"tendered_amount"`
	ChangeAmount    money.Amount    `json:"change_amount"`
	Reference       *string         `json:"reference,omitempty"`
}

// PaymentTransitionView is one entry of a payment's history
type PaymentTransitionView struct {
	Action        enum.PaymentAction  `json:"action"`
	FromStatus    *enum.PaymentStatus `json:"from_status"`
	ToStatus      enum.PaymentStatus  `json:"to_status"`
	ActorUsername string              `json:"actor_username"`
	Note          *string             `json:"note,omitempty"`
	CorrelationID *string             `json:"correlation_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PaymentDetails is a payment with allocations and transition history
type PaymentDetails struct {
	ID             uuid.UUID               `json:"id"`
	CartID         uuid.UUID               `json:"cart_id"`
	SaleID         *uuid.UUID              `json:"sale_id,omitempty"`
	Status         enum.PaymentStatus      `json:"status"`
	TotalPayable   money.Amount            `json:"total_payable"`
	TotalAllocated money.Amount            `json:"total_allocated"`
	TotalTendered  money.Amount            `json:"total_tendered"`
	ChangeAmount   money.Amount            `json:"change_amount"`
	Allocations    []PaymentAllocationView `json:"allocations"`
	Transitions    []PaymentTransitionView `json:"transitions"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// TransitionInput carries the optional note of a capture, void or refund
type TransitionInput struct {
	Note *string `json:"note,omitempty"`
}

// PaymentService drives payments through authorize → capture/void → refund
type PaymentService struct {
	uow         repository.UnitOfWork
	paymentRepo repository.PaymentRepository
	saleRepo    repository.SaleRepository
	idempotency *IdempotencyService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	uow repository.UnitOfWork,
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	idempotency *IdempotencyService,
) *PaymentService {
	return &PaymentService{
		uow:         uow,
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		idempotency: idempotency,
	}
}

// GetPayment returns the payment with its allocations and history
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentDetails, error) {
	payment, err := s.requirePayment(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, payment)
}

// Capture settles an AUTHORIZED payment
func (s *PaymentService) Capture(ctx context.Context, id uuid.UUID, idempotencyKey string, input TransitionInput) (*PaymentDetails, bool, error) {
	return s.transitionIdempotent(ctx, id, idempotencyKey, enum.PaymentActionCapture, input)
}

// Void cancels an AUTHORIZED payment
func (s *PaymentService) Void(ctx context.Context, id uuid.UUID, idempotencyKey string, input TransitionInput) (*PaymentDetails, bool, error) {
	return s.transitionIdempotent(ctx, id, idempotencyKey, enum.PaymentActionVoid, input)
}

// Refund returns the money of a CAPTURED payment
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID, idempotencyKey string, input TransitionInput) (*PaymentDetails, bool, error) {
	return s.transitionIdempotent(ctx, id, idempotencyKey, enum.PaymentActionRefund, input)
}

// RecordInitialAuthorization appends the AUTHORIZE entry written at checkout
func (s *PaymentService) RecordInitialAuthorization(ctx context.Context, payment *entity.Payment) error {
	note := checkoutAuthorizationNote
	return s.recordTransition(ctx, payment, enum.PaymentActionAuthorize, nil, enum.PaymentStatusAuthorized, &note)
}

// PaymentActionKey is the idempotency scope of a payment transition
func PaymentActionKey(id uuid.UUID, action enum.PaymentAction) string {
	var verb string
	switch action {
	case enum.PaymentActionCapture:
		verb = "capture"
	case enum.PaymentActionVoid:
		verb = "void"
	case enum.PaymentActionRefund:
		verb = "refund"
	default:
		verb = "authorize"
	}
	return fmt.Sprintf("POST:/api/v1/payments/%s/%s", id, verb)
}

func (s *PaymentService) transitionIdempotent(
	ctx context.Context,
	id uuid.UUID,
	idempotencyKey string,
	action enum.PaymentAction,
	input TransitionInput,
) (*PaymentDetails, bool, error) {
	return ExecuteIdempotent(ctx, s.idempotency, PaymentActionKey(id, action), idempotencyKey, input,
		func(ctx context.Context) (*PaymentDetails, error) {
			return s.transition(ctx, id, action, input)
		})
}

func (s *PaymentService) transition(ctx context.Context, id uuid.UUID, action enum.PaymentAction, input TransitionInput) (*PaymentDetails, error) {
	var details *PaymentDetails
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		payment, err := s.requirePayment(ctx, id, true)
		if err != nil {
			return err
		}

		from := payment.Status
		to, ok := sale.NextPaymentStatus(from, action)
		if !ok {
			return apperror.NewConflictError(fmt.Sprintf("invalid payment transition from %s with action %s", from, action))
		}

		payment.Status = to
		if err := s.paymentRepo.UpdateStatus(ctx, payment); err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		if err := s.recordTransition(ctx, payment, action, &from, to, input.Note); err != nil {
			return err
		}

		logger.FromContext(ctx).Info("payment transitioned",
			zap.String("payment_id", payment.ID.String()),
			zap.Stringer("action", action),
			zap.Stringer("from", from),
			zap.Stringer("to", to))

		reloaded, err := s.requirePayment(ctx, id, false)
		if err != nil {
			return err
		}
		details, err = s.details(ctx, reloaded)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (s *PaymentService) recordTransition(
	ctx context.Context,
	payment *entity.Payment,
	action enum.PaymentAction,
	from *enum.PaymentStatus,
	to enum.PaymentStatus,
	note *string,
) error {
	transition := &entity.PaymentTransition{
		PaymentID:     payment.ID,
		Action:        action,
		FromStatus:    from,
		ToStatus:      to,
		ActorUserID:   actor.UserID(ctx),
		ActorUsername: actor.Username(ctx),
		Note:          normalizeDetail(note),
		CorrelationID: actor.CorrelationIDPtr(ctx),
	}
	if err := s.paymentRepo.CreateTransition(ctx, transition); err != nil {
		return fmt.Errorf("failed to record payment transition: %w", err)
	}
	return nil
}

func (s *PaymentService) requirePayment(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.Payment, error) {
	var (
		payment *entity.Payment
		err     error
	)
	if forUpdate {
		payment, err = s.paymentRepo.GetByIDForUpdate(ctx, id)
	} else {
		payment, err = s.paymentRepo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("payment %s", id))
	}
	return payment, nil
}

func (s *PaymentService) details(ctx context.Context, payment *entity.Payment) (*PaymentDetails, error) {
	saleRecord, err := s.saleRepo.GetByCartID(ctx, payment.CartID)
	if err != nil {
		return nil, err
	}
	transitions, err := s.paymentRepo.ListTransitions(ctx, payment.ID)
	if err != nil {
		return nil, err
	}

	details := &PaymentDetails{
		ID:             payment.ID,
		CartID:         payment.CartID,
		Status:         payment.Status,
		TotalPayable:   money.NewAmount(payment.TotalPayable),
		TotalAllocated: money.NewAmount(payment.TotalAllocated),
		TotalTendered:  money.NewAmount(payment.TotalTendered),
		ChangeAmount:   money.NewAmount(payment.ChangeAmount),
		Allocations:    allocationViews(payment.Allocations),
		Transitions:    make([]PaymentTransitionView, 0, len(transitions)),
		CreatedAt:      payment.CreatedAt,
		UpdatedAt:      payment.UpdatedAt,
	}
	if saleRecord != nil {
		details.SaleID = &saleRecord.ID
	}

	sort.SliceStable(transitions, func(i, j int) bool {
		if !transitions[i].CreatedAt.Equal(transitions[j].CreatedAt) {
			return transitions[i].CreatedAt.Before(transitions[j].CreatedAt)
		}
		return transitions[i].ID.String() < transitions[j].ID.String()
	})
	for _, t := range transitions {
		details.Transitions = append(details.Transitions, PaymentTransitionView{
			Action:        t.Action,
			FromStatus:    t.FromStatus,
			ToStatus:      t.ToStatus,
			ActorUsername: t.ActorUsername,
			Note:          t.Note,
			CorrelationID: t.CorrelationID,
			CreatedAt:     t.CreatedAt,
		})
	}
	return details, nil
}

// allocationViews orders allocations by sequence number, then id
func allocationViews(allocations []entity.PaymentAllocation) []PaymentAllocationView {
	ordered := make([]entity.PaymentAllocation, len(allocations))
	copy(ordered, allocations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SequenceNumber != ordered[j].SequenceNumber {
			return ordered[i].SequenceNumber < ordered[j].SequenceNumber
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	views := make([]PaymentAllocationView, 0, len(ordered))
	for _, a := range ordered {
		views = append(views, PaymentAllocationView{
			SequenceNumber:  a.SequenceNumber,
			TenderType:      a.TenderType,
			AllocatedAmount: money.NewAmount(a.AllocatedAmount),
			TenderedAmount:  money.NewAmount(a.TenderedAmount),
			ChangeAmount:    money.NewAmount(a.ChangeAmount),
			Reference:       a.Reference,
		})
	}
	return views
}
