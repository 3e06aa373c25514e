package enum

import (
	"database/sql/driver"
)

// TenderType is the means used to settle a payment allocation
type TenderType int

const (
	TenderTypeCash TenderType = iota
	TenderTypeCard
)

var tenderTypeNames = []string{"CASH", "CARD"}

func (t TenderType) String() string {
	return nameOf(int(t), tenderTypeNames)
}

// ParseTenderType resolves a name such as "CASH"
func ParseTenderType(s string) (TenderType, error) {
	i, err := parseName(s, tenderTypeNames, "tender type")
	return TenderType(i), err
}

func (t TenderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TenderType) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, tenderTypeNames, "tender type")
	if err != nil {
		return err
	}
	*t = TenderType(i)
	return nil
}

func (t TenderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TenderType) Scan(value interface{}) error {
	if value == nil {
		*t = TenderType(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*t = TenderType(i)
	return nil
}
