package enum

import (
	"database/sql/driver"
)

// SaleMode controls how quantities and prices are accepted for a product
type SaleMode int

const (
	SaleModeUnit SaleMode = iota
	SaleModeWeight
	SaleModeOpenPrice
)

var saleModeNames = []string{"UNIT", "WEIGHT", "OPEN_PRICE"}

func (m SaleMode) String() string {
	return nameOf(int(m), saleModeNames)
}

// ParseSaleMode resolves a name such as "UNIT"
func ParseSaleMode(s string) (SaleMode, error) {
	i, err := parseName(s, saleModeNames, "sale mode")
	return SaleMode(i), err
}

func (m SaleMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *SaleMode) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, saleModeNames, "sale mode")
	if err != nil {
		return err
	}
	*m = SaleMode(i)
	return nil
}

func (m SaleMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *SaleMode) Scan(value interface{}) error {
	if value == nil {
		*m = SaleMode(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*m = SaleMode(i)
	return nil
}
