package enum

import (
	"database/sql/driver"
)

// MovementType classifies an inventory movement
type MovementType int

const (
	MovementTypeSale MovementType = iota
	MovementTypeReturn
)

var movementTypeNames = []string{"SALE", "RETURN"}

func (t MovementType) String() string {
	return nameOf(int(t), movementTypeNames)
}

// ParseMovementType resolves a name such as "SALE"
func ParseMovementType(s string) (MovementType, error) {
	i, err := parseName(s, movementTypeNames, "movement type")
	return MovementType(i), err
}

func (t MovementType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, movementTypeNames, "movement type")
	if err != nil {
		return err
	}
	*t = MovementType(i)
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementType(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*t = MovementType(i)
	return nil
}
