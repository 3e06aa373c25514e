// Package sale holds the pure money and quantity rules of the checkout
// pipeline: line policy, payment allocation, the payment state machine and
// return proration. Nothing here touches storage.
package sale

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/sangkips/pos-engine/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	MaxLineKeyLength         = 64
	MaxOpenPriceReasonLength = 255
)

// NormalizeQuantity enforces the product's sale-mode precision and returns
// the quantity at three decimal places.
func NormalizeQuantity(product *entity.Product, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested == nil || !requested.IsPositive() {
		return decimal.Decimal{}, apperror.NewInvalidError("quantity must be greater than zero")
	}

	scale := money.Scale(*requested)
	switch product.SaleMode {
	case enum.SaleModeWeight:
		if scale > product.QuantityPrecision {
			return decimal.Decimal{}, apperror.NewInvalidError(
				fmt.Sprintf("quantity precision exceeds product policy for productId=%s", product.ID))
		}
	default:
		if scale > 0 {
			return decimal.Decimal{}, apperror.NewInvalidError(
				fmt.Sprintf("%s products require whole quantity values", product.SaleMode))
		}
	}
	return money.NormalizeQuantity(*requested), nil
}

// NormalizeUnitPrice requires a non-negative price and rounds it to cents
func NormalizeUnitPrice(requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested == nil {
		return decimal.Decimal{}, apperror.NewInvalidError("unitPrice is required")
	}
	if requested.IsNegative() {
		return decimal.Decimal{}, apperror.NewInvalidError("unitPrice must be non-negative")
	}
	return money.Normalize(*requested), nil
}

// NormalizeLineKey trims and upper-cases a dedupe key; blank means no key
func NormalizeLineKey(key *string) (*string, error) {
	trimmed := trimToNil(key)
	if trimmed == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*trimmed) > MaxLineKeyLength {
		return nil, apperror.NewInvalidError(fmt.Sprintf("lineKey must be at most %d characters", MaxLineKeyLength))
	}
	upper := strings.ToUpper(*trimmed)
	return &upper, nil
}

// NormalizeOpenPriceReason trims the reason; blank means none
func NormalizeOpenPriceReason(reason *string) (*string, error) {
	trimmed := trimToNil(reason)
	if trimmed == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*trimmed) > MaxOpenPriceReasonLength {
		return nil, apperror.NewInvalidError(fmt.Sprintf("openPriceReason must be at most %d characters", MaxOpenPriceReasonLength))
	}
	return trimmed, nil
}

// NormalizeMoney rejects a missing amount and rounds the rest to cents
func NormalizeMoney(amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Decimal{}, apperror.NewInvalidError("amount is required")
	}
	return money.Normalize(*amount), nil
}

func trimToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
