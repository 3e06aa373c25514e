package catalog

import (
	"errors"
	"testing"

	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string { return &s }

func TestValidateOpenPriceEntry(t *testing.T) {
	policy := NewOpenPricePolicy()

	tests := []struct {
		name           string
		entered        *decimal.Decimal
		min, max       *decimal.Decimal
		reasonRequired bool
		reason         *string
		wantMsg        string
	}{
		{name: "within bounds", entered: dec("12.50"), min: dec("5.00"), max: dec("20.00")},
		{name: "no bounds", entered: dec("0.00")},
		{name: "missing price", wantMsg: "enteredPrice is required"},
		{name: "below min", entered: dec("4.99"), min: dec("5.00"), wantMsg: "enteredPrice must be greater than or equal to openPriceMin"},
		{name: "above max", entered: dec("20.01"), max: dec("20.00"), wantMsg: "enteredPrice must be less than or equal to openPriceMax"},
		{name: "reason required", entered: dec("10"), reasonRequired: true, reason: str("  "), wantMsg: "reason is required for this product"},
		{name: "reason given", entered: dec("10"), reasonRequired: true, reason: str("damaged box")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.ValidateOpenPriceEntry(tt.entered, tt.min, tt.max, tt.reasonRequired, tt.reason)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Fatalf("error = %v, want %q", err, tt.wantMsg)
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("error kind = %v, want validation", apperror.KindOf(err))
			}
		})
	}
}
