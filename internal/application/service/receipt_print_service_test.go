package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, job []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), job...))
	return nil
}

func (p *recordingPrinter) Ready(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Kind() string               { return printer.KindNetwork }

func (f *fixture) receiptPrinter(p printer.Printer) *ReceiptPrintService {
	s := f.store
	return NewReceiptPrintService(p, printer.Width58mm, "Thank you", fakeSaleRepo{s}, fakePaymentRepo{s}, fakeProductRepo{s}, fakeOperatorRepo{s})
}

func TestRenderReceipt(t *testing.T) {
	f := newFixture()
	result := f.checkedOut(t)
	svc := f.receiptPrinter(nil)

	receipt, err := svc.Render(context.Background(), result.SaleID)
	require.NoError(t, err)

	assert.Equal(t, "RCPT-T-01-00000001", receipt.ReceiptNumber)
	assert.Equal(t, "Main", receipt.StoreName)
	assert.Equal(t, "t-01", receipt.TerminalCode)
	assert.Equal(t, "cashier01", receipt.Cashier)
	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "SOAP", receipt.Lines[0].Name)
	assert.Equal(t, "2.000", receipt.Lines[0].Quantity.String())
	assert.Equal(t, "198.00", receipt.Lines[0].GrossAmount.String())
	assert.Equal(t, "MILK", receipt.Lines[1].Name)
	assert.Equal(t, "263.00", receipt.TotalPayable.String())
	require.Len(t, receipt.Tenders, 1)
	assert.Equal(t, enum.TenderTypeCash, receipt.Tenders[0].TenderType)
	assert.Equal(t, "300.00", receipt.Tenders[0].TenderedAmount.String())
	assert.Equal(t, "37.00", receipt.ChangeAmount.String())
	require.NotNil(t, receipt.PaymentStatus)
	assert.Equal(t, enum.PaymentStatusAuthorized, *receipt.PaymentStatus)
	assert.False(t, receipt.Printed)

	byNumber, err := svc.RenderByReceiptNumber(context.Background(), "  RCPT-T-01-00000001 ")
	require.NoError(t, err)
	assert.Equal(t, receipt.SaleID, byNumber.SaleID)
}

func TestRenderReceiptRejects(t *testing.T) {
	f := newFixture()
	svc := f.receiptPrinter(nil)

	_, err := svc.Render(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.RenderByReceiptNumber(context.Background(), " ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.RenderByReceiptNumber(context.Background(), "RCPT-NOPE-00000001")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPrintReceipt(t *testing.T) {
	f := newFixture()
	result := f.checkedOut(t)
	device := &recordingPrinter{}
	svc := f.receiptPrinter(device)

	receipt, err := svc.Print(context.Background(), result.SaleID, false)
	require.NoError(t, err)
	assert.True(t, receipt.Printed)
	require.Len(t, device.jobs, 1)

	job := string(device.jobs[0])
	assert.Contains(t, job, "Receipt       RCPT-T-01-00000001\n")
	assert.Contains(t, job, "  2 x 99.00")
	assert.Contains(t, job, "TOTAL")
	assert.Contains(t, job, "Change")
	assert.Contains(t, job, "Thank you")
	assert.NotContains(t, job, "COPY")

	_, err = svc.Print(context.Background(), result.SaleID, true)
	require.NoError(t, err)
	require.Len(t, device.jobs, 2)
	assert.Contains(t, string(device.jobs[1]), "*** COPY ***")
}

func TestPrintReceiptKeepsReceiptWhenPrinterFails(t *testing.T) {
	f := newFixture()
	result := f.checkedOut(t)
	svc := f.receiptPrinter(&recordingPrinter{err: errors.New("paper out")})

	receipt, err := svc.Print(context.Background(), result.SaleID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper out")
	require.NotNil(t, receipt)
	assert.False(t, receipt.Printed)
	assert.Equal(t, result.ReceiptNumber, receipt.ReceiptNumber)

	status := svc.Status(context.Background())
	assert.True(t, status.Configured)
	assert.False(t, status.Ready)
	assert.Equal(t, printer.Width58mm, status.Width)
}

func TestPrinterStatusWithoutDevice(t *testing.T) {
	svc := newFixture().receiptPrinter(nil)

	status := svc.Status(context.Background())
	assert.False(t, status.Configured)
	assert.Equal(t, printer.KindNone, status.Kind)
}
