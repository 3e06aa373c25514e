package sale

import (
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func sp(s string) *string { return &s }

func tender(t enum.TenderType) *enum.TenderType { return &t }
