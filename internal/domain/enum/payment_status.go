package enum

import (
	"database/sql/driver"
)

// PaymentStatus is the lifecycle state of a checkout payment
type PaymentStatus int

const (
	PaymentStatusAuthorized PaymentStatus = iota
	PaymentStatusCaptured
	PaymentStatusVoided
	PaymentStatusRefunded
)

var paymentStatusNames = []string{"AUTHORIZED", "CAPTURED", "VOIDED", "REFUNDED"}

func (s PaymentStatus) String() string {
	return nameOf(int(s), paymentStatusNames)
}

// ParsePaymentStatus resolves a name such as "AUTHORIZED"
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	i, err := parseName(s, paymentStatusNames, "payment status")
	return PaymentStatus(i), err
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, paymentStatusNames, "payment status")
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatus(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}
