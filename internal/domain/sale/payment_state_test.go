package sale

import (
	"testing"

	"github.com/sangkips/pos-engine/internal/domain/enum"
)

func TestNextPaymentStatus(t *testing.T) {
	statuses := []enum.PaymentStatus{
		enum.PaymentStatusAuthorized, enum.PaymentStatusCaptured,
		enum.PaymentStatusVoided, enum.PaymentStatusRefunded,
	}
	actions := []enum.PaymentAction{
		enum.PaymentActionAuthorize, enum.PaymentActionCapture,
		enum.PaymentActionVoid, enum.PaymentActionRefund,
	}
	allowed := map[[2]int]enum.PaymentStatus{
		{int(enum.PaymentStatusAuthorized), int(enum.PaymentActionCapture)}: enum.PaymentStatusCaptured,
		{int(enum.PaymentStatusAuthorized), int(enum.PaymentActionVoid)}:    enum.PaymentStatusVoided,
		{int(enum.PaymentStatusCaptured), int(enum.PaymentActionRefund)}:    enum.PaymentStatusRefunded,
	}

	for _, status := range statuses {
		for _, action := range actions {
			t.Run(status.String()+"/"+action.String(), func(t *testing.T) {
				next, ok := NextPaymentStatus(status, action)
				want, wantOK := allowed[[2]int{int(status), int(action)}]
				if ok != wantOK {
					t.Fatalf("ok = %v, want %v", ok, wantOK)
				}
				if ok && next != want {
					t.Fatalf("next = %v, want %v", next, want)
				}
			})
		}
	}
}

func TestSecondCaptureHasNoTransition(t *testing.T) {
	next, ok := NextPaymentStatus(enum.PaymentStatusAuthorized, enum.PaymentActionCapture)
	if !ok {
		t.Fatal("first capture must succeed")
	}
	if _, ok := NextPaymentStatus(next, enum.PaymentActionCapture); ok {
		t.Fatal("second capture must not have a transition")
	}
}
