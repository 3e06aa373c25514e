package enum

import (
	"database/sql/driver"
)

// PriceSource records where a resolved price came from
type PriceSource int

const (
	PriceSourceStoreOverride PriceSource = iota
	PriceSourcePriceBook
	PriceSourceBasePrice
)

var priceSourceNames = []string{"STORE_OVERRIDE", "PRICE_BOOK", "BASE_PRICE"}

func (s PriceSource) String() string {
	return nameOf(int(s), priceSourceNames)
}

// ParsePriceSource resolves a name such as "STORE_OVERRIDE"
func ParsePriceSource(s string) (PriceSource, error) {
	i, err := parseName(s, priceSourceNames, "price source")
	return PriceSource(i), err
}

func (s PriceSource) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *PriceSource) UnmarshalJSON(data []byte) error {
	i, err := decodeName(data, priceSourceNames, "price source")
	if err != nil {
		return err
	}
	*s = PriceSource(i)
	return nil
}

func (s PriceSource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PriceSource) Scan(value interface{}) error {
	if value == nil {
		*s = PriceSource(0)
		return nil
	}
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = PriceSource(i)
	return nil
}
