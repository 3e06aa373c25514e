package enum

import (
	"database/sql/driver"
)

// TaxMode represents how tax is applied to a price
type TaxMode int

const (
	TaxModeExclusive TaxMode = iota
	TaxModeInclusive
)

var taxModeNames = []string{"EXCLUSIVE", "INCLUSIVE"}

func (m TaxMode) String() string {
	return nameOf(int(m), taxModeNames)
}

// ParseTaxMode resolves a name such as "EXCLUSIVE"
func ParseTaxMode(s string) (TaxMode, error) {
	i, err := parseName(s, taxModeNames, "tax mode")
	return TaxMode(i), err
}

func (m TaxMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *TaxMode) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, taxModeNames, "tax mode")
	if err != nil {
		return err
	}
	*m = TaxMode(i)
	return nil
}

func (m TaxMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *TaxMode) Scan(value interface{}) error {
	if value == nil {
		*m = TaxMode(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*m = TaxMode(i)
	return nil
}
