package enum

import (
	"database/sql/driver"
)

// CartStatus is the lifecycle state of a sale cart
type CartStatus int

const (
	CartStatusActive CartStatus = iota
	CartStatusParked
	CartStatusCheckedOut
	CartStatusVoided
)

var cartStatusNames = []string{"ACTIVE", "PARKED", "CHECKED_OUT", "VOIDED"}

func (s CartStatus) String() string {
	return nameOf(int(s), cartStatusNames)
}

// ParseCartStatus resolves a name such as "ACTIVE"
func ParseCartStatus(s string) (CartStatus, error) {
	i, err := parseName(s, cartStatusNames, "cart status")
	return CartStatus(i), err
}

func (s CartStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *CartStatus) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, cartStatusNames, "cart status")
	if err != nil {
		return err
	}
	*s = CartStatus(i)
	return nil
}

func (s CartStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CartStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CartStatus(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = CartStatus(i)
	return nil
}
