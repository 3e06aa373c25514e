package sale

import "github.com/sangkips/pos-engine/internal/domain/enum"

var paymentTransitions = map[enum.PaymentStatus]map[enum.PaymentAction]enum.PaymentStatus{
	enum.PaymentStatusAuthorized: {
		enum.PaymentActionCapture: enum.PaymentStatusCaptured,
		enum.PaymentActionVoid:    enum.PaymentStatusVoided,
	},
	enum.PaymentStatusCaptured: {
		enum.PaymentActionRefund: enum.PaymentStatusRefunded,
	},
}

// NextPaymentStatus looks up the status reached by applying action. ok is
// false when the pair has no transition; VOIDED and REFUNDED have none.
func NextPaymentStatus(current enum.PaymentStatus, action enum.PaymentAction) (next enum.PaymentStatus, ok bool) {
	next, ok = paymentTransitions[current][action]
	return next, ok
}
