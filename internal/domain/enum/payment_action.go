package enum

import (
	"database/sql/driver"
)

// PaymentAction is an operation applied to a payment
type PaymentAction int

const (
	PaymentActionAuthorize PaymentAction = iota
	PaymentActionCapture
	PaymentActionVoid
	PaymentActionRefund
)

var paymentActionNames = []string{"AUTHORIZE", "CAPTURE", "VOID", "REFUND"}

func (a PaymentAction) String() string {
	return nameOf(int(a), paymentActionNames)
}

// ParsePaymentAction resolves a name such as "AUTHORIZE"
func ParsePaymentAction(s string) (PaymentAction, error) {
	i, err := parseName(s, paymentActionNames, "payment action")
	return PaymentAction(i), err
}

func (a PaymentAction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *PaymentAction) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, paymentActionNames, "payment action")
	if err != nil {
		return err
	}
	*a = PaymentAction(i)
	return nil
}

func (a PaymentAction) Value() (driver.Value, error) {
	return int64(a), nil
}

func (a *PaymentAction) Scan(value interface{}) error {
	if value == nil {
		*a = PaymentAction(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*a = PaymentAction(i)
	return nil
}
