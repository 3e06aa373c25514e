package enum

import (
	"database/sql/driver"
)

// MovementReferenceType names the document an inventory movement points at
type MovementReferenceType int

const (
	MovementReferenceTypeSaleReceipt MovementReferenceType = iota
	MovementReferenceTypeSaleReturn
)

var movementReferenceTypeNames = []string{"SALE_RECEIPT", "SALE_RETURN"}

func (t MovementReferenceType) String() string {
	return nameOf(int(t), movementReferenceTypeNames)
}

// ParseMovementReferenceType resolves a name such as "SALE_RECEIPT"
func ParseMovementReferenceType(s string) (MovementReferenceType, error) {
	i, err := parseName(s, movementReferenceTypeNames, "movement reference type")
	return MovementReferenceType(i), err
}

func (t MovementReferenceType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *MovementReferenceType) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, movementReferenceTypeNames, "movement reference type")
	if err != nil {
		return err
	}
	*t = MovementReferenceType(i)
	return nil
}

func (t MovementReferenceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementReferenceType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementReferenceType(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*t = MovementReferenceType(i)
	return nil
}
