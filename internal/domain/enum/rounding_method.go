package enum

import (
	"database/sql/driver"
)

// RoundingMethod decides which way a payable is rounded to the policy increment
type RoundingMethod int

const (
	RoundingMethodNearest RoundingMethod = iota
	RoundingMethodUp
	RoundingMethodDown
)

var roundingMethodNames = []string{"NEAREST", "UP", "DOWN"}

func (m RoundingMethod) String() string {
	return nameOf(int(m), roundingMethodNames)
}

// ParseRoundingMethod resolves a name such as "NEAREST"
func ParseRoundingMethod(s string) (RoundingMethod, error) {
	i, err := parseName(s, roundingMethodNames, "rounding method")
	return RoundingMethod(i), err
}

func (m RoundingMethod) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *RoundingMethod) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, roundingMethodNames, "rounding method")
	if err != nil {
		return err
	}
	*m = RoundingMethod(i)
	return nil
}

func (m RoundingMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *RoundingMethod) Scan(value interface{}) error {
	if value == nil {
		*m = RoundingMethod(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*m = RoundingMethod(i)
	return nil
}
