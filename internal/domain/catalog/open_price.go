// Package catalog holds product-level sale policies.
package catalog

import (
	"strings"

	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/shopspring/decimal"
)

// OpenPricePolicy validates cashier-entered prices against the bounds a
// product allows.
type OpenPricePolicy struct{}

// NewOpenPricePolicy creates the default open-price policy
func NewOpenPricePolicy() *OpenPricePolicy {
	return &OpenPricePolicy{}
}

// ValidateOpenPriceEntry checks entered against the optional min and max
// bounds and, when required, the presence of a reason.
func (p *OpenPricePolicy) ValidateOpenPriceEntry(entered *decimal.Decimal, min, max *decimal.Decimal, reasonRequired bool, reason *string) error {
	if entered == nil {
		return apperror.NewInvalidError("enteredPrice is required")
	}
	if min != nil && entered.LessThan(*min) {
		return apperror.NewInvalidError("enteredPrice must be greater than or equal to openPriceMin")
	}
	if max != nil && entered.GreaterThan(*max) {
		return apperror.NewInvalidError("enteredPrice must be less than or equal to openPriceMax")
	}
	if reasonRequired && (reason == nil || strings.TrimSpace(*reason) == "") {
		return apperror.NewInvalidError("reason is required for this product")
	}
	return nil
}
