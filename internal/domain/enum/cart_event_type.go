package enum

import (
	"database/sql/driver"
)

// CartEventType labels entries in the cart audit trail
type CartEventType int

const (
	CartEventTypeParked CartEventType = iota
	CartEventTypeResumed
	CartEventTypeCancelled
	CartEventTypeExpired
)

var cartEventTypeNames = []string{"PARKED", "RESUMED", "CANCELLED", "EXPIRED"}

func (t CartEventType) String() string {
	return nameOf(int(t), cartEventTypeNames)
}

// ParseCartEventType resolves a name such as "PARKED"
func ParseCartEventType(s string) (CartEventType, error) {
	i, err := parseName(s, cartEventTypeNames, "cart event type")
	return CartEventType(i), err
}

func (t CartEventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *CartEventType) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, cartEventTypeNames, "cart event type")
	if err != nil {
		return err
	}
	*t = CartEventType(i)
	return nil
}

func (t CartEventType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CartEventType) Scan(value interface{}) error {
	if value == nil {
		*t = CartEventType(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*t = CartEventType(i)
	return nil
}
