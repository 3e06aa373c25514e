package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/sale"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basket is two soaps and one milk: 198.00 + 65.00
func (f *fixture) basket(t *testing.T) *CartView {
	t.Helper()
	cart := f.newCart(t)
	f.addLine(t, cart.ID, &AddLineInput{ProductID: f.soap.ID, Quantity: dp("2")})
	return f.addLine(t, cart.ID, &AddLineInput{ProductID: f.milk.ID, Quantity: dp("1")})
}

func (f *fixture) cashCheckout(cartID uuid.UUID, amount, tendered string) *CheckoutInput {
	return &CheckoutInput{
		CartID:           cartID,
		CashierUserID:    f.cashier.ID,
		TerminalDeviceID: f.terminal.ID,
		Payments: []*sale.PaymentRequest{
			{TenderType: tender(enum.TenderTypeCash), Amount: dp(amount), TenderedAmount: dp(tendered)},
		},
	}
}

func (f *fixture) checkedOut(t *testing.T) *CheckoutResult {
	t.Helper()
	cart := f.basket(t)
	result, err := f.checkout.Checkout(context.Background(), f.cashCheckout(cart.ID, "263.00", "300.00"))
	require.NoError(t, err)
	return result
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cart := f.basket(t)
	require.Equal(t, "263.00", cart.TotalPayable.String())

	result, err := f.checkout.Checkout(ctx, f.cashCheckout(cart.ID, "263.00", "300.00"))
	require.NoError(t, err)

	assert.Equal(t, "RCPT-T-01-00000001", result.ReceiptNumber)
	assert.Equal(t, enum.PaymentStatusAuthorized, result.PaymentStatus)
	assert.Equal(t, "263.00", result.TotalPayable.String())
	assert.Equal(t, "263.00", result.TotalAllocated.String())
	assert.Equal(t, "300.00", result.TotalTendered.String())
	assert.Equal(t, "37.00", result.ChangeAmount.String())
	require.Len(t, result.Allocations, 1)
	assert.Equal(t, 1, result.Allocations[0].SequenceNumber)
	assert.Equal(t, "37.00", result.Allocations[0].ChangeAmount.String())

	stored := f.store.carts[cart.ID]
	assert.Equal(t, enum.CartStatusCheckedOut, stored.Status)

	saleRecord := f.store.sales[result.SaleID]
	require.NotNil(t, saleRecord)
	assert.Equal(t, cart.ID, saleRecord.CartID)
	assert.Equal(t, "263.00", saleRecord.TotalPayable.StringFixed(2))
	require.Len(t, saleRecord.Lines, 2)

	require.Len(t, f.store.movements, 2)
	for _, m := range f.store.movements {
		assert.Equal(t, enum.MovementTypeSale, m.MovementType)
		assert.Equal(t, enum.MovementReferenceTypeSaleReceipt, m.ReferenceType)
		assert.Equal(t, result.ReceiptNumber, m.ReferenceNumber)
		assert.True(t, m.QuantityDelta.IsNegative())
		require.NotNil(t, m.SaleLineID)
	}

	payment, err := f.payments.GetPayment(ctx, result.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, payment.SaleID)
	assert.Equal(t, result.SaleID, *payment.SaleID)
	require.Len(t, payment.Transitions, 1)
	first := payment.Transitions[0]
	assert.Equal(t, enum.PaymentActionAuthorize, first.Action)
	assert.Nil(t, first.FromStatus)
	assert.Equal(t, enum.PaymentStatusAuthorized, first.ToStatus)
	require.NotNil(t, first.Note)
	assert.Equal(t, "payment authorized at checkout", *first.Note)
}

func TestCheckoutReceiptNumbersAreSequential(t *testing.T) {
	f := newFixture()
	first := f.checkedOut(t)
	second := f.checkedOut(t)

	assert.Equal(t, "RCPT-T-01-00000001", first.ReceiptNumber)
	assert.Equal(t, "RCPT-T-01-00000002", second.ReceiptNumber)
}

func TestCheckoutSplitTender(t *testing.T) {
	f := newFixture()
	cart := f.basket(t)

	input := f.cashCheckout(cart.ID, "100.00", "100.00")
	input.Payments = append(input.Payments, &sale.PaymentRequest{
		TenderType: tender(enum.TenderTypeCard), Amount: dp("163.00"), Reference: sp("AUTH-9921"),
	})
	result, err := f.checkout.Checkout(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, enum.TenderTypeCard, result.Allocations[1].TenderType)
	assert.Equal(t, "AUTH-9921", *result.Allocations[1].Reference)
	assert.Equal(t, "0.00", result.ChangeAmount.String())
}

func TestCheckoutRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture()
		cart := f.newCart(t)
		_, err := f.checkout.Checkout(ctx, f.cashCheckout(cart.ID, "0.00", "0.00"))
		require.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown cart", func(t *testing.T) {
		f := newFixture()
		_, err := f.checkout.Checkout(ctx, f.cashCheckout(uuid.New(), "1.00", "1.00"))
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("already checked out", func(t *testing.T) {
		f := newFixture()
		result := f.checkedOut(t)
		_, err := f.checkout.Checkout(ctx, f.cashCheckout(result.CartID, "263.00", "300.00"))
		require.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("allocation does not cover payable", func(t *testing.T) {
		f := newFixture()
		cart := f.basket(t)
		_, err := f.checkout.Checkout(ctx, f.cashCheckout(cart.ID, "200.00", "300.00"))
		require.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, enum.CartStatusActive, f.store.carts[cart.ID].Status)
		assert.Empty(t, f.store.sales)
	})

	t.Run("other cashier", func(t *testing.T) {
		f := newFixture()
		cart := f.basket(t)
		other := &entity.User{ID: uuid.New(), MerchantID: f.merchant.ID, Username: "cashier02", Active: true}
		f.store.users[other.ID] = other

		input := f.cashCheckout(cart.ID, "263.00", "263.00")
		input.CashierUserID = other.ID
		_, err := f.checkout.Checkout(ctx, input)
		require.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("customer of another merchant", func(t *testing.T) {
		f := newFixture()
		cart := f.basket(t)
		customer := &entity.Customer{ID: uuid.New(), MerchantID: uuid.New(), Name: "Elsewhere", Active: true}
		f.store.customers[customer.ID] = customer

		input := f.cashCheckout(cart.ID, "263.00", "263.00")
		input.CustomerID = &customer.ID
		_, err := f.checkout.Checkout(ctx, input)
		require.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("inactive customer", func(t *testing.T) {
		f := newFixture()
		cart := f.basket(t)
		customer := &entity.Customer{ID: uuid.New(), MerchantID: f.merchant.ID, Name: "Former", Active: false}
		f.store.customers[customer.ID] = customer

		input := f.cashCheckout(cart.ID, "263.00", "263.00")
		input.CustomerID = &customer.ID
		_, err := f.checkout.Checkout(ctx, input)
		require.ErrorIs(t, err, apperror.ErrConflict)
	})
}
