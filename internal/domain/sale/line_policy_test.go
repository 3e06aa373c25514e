package sale

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/shopspring/decimal"
)

func TestNormalizeQuantity(t *testing.T) {
	productID := uuid.MustParse("6f1c2b1e-3c41-4a8e-9d2f-6b0d5a7c1e01")
	unit := &entity.Product{ID: productID, SaleMode: enum.SaleModeUnit}
	openPrice := &entity.Product{ID: productID, SaleMode: enum.SaleModeOpenPrice}
	weight := &entity.Product{ID: productID, SaleMode: enum.SaleModeWeight, QuantityPrecision: 2}

	tests := []struct {
		name      string
		product   *entity.Product
		requested *decimal.Decimal
		want      string
		wantMsg   string
	}{
		{name: "unit whole", product: unit, requested: dp("2"), want: "2.000"},
		{name: "unit trailing zeros", product: unit, requested: dp("3.000"), want: "3.000"},
		{name: "unit fraction", product: unit, requested: dp("1.5"), wantMsg: "UNIT products require whole quantity values"},
		{name: "open price fraction", product: openPrice, requested: dp("0.25"), wantMsg: "OPEN_PRICE products require whole quantity values"},
		{name: "weight within precision", product: weight, requested: dp("1.25"), want: "1.250"},
		{name: "weight trailing zeros ignored", product: weight, requested: dp("1.2500"), want: "1.250"},
		{name: "weight over precision", product: weight, requested: dp("1.255"), wantMsg: "quantity precision exceeds product policy for productId=" + productID.String()},
		{name: "zero", product: unit, requested: dp("0"), wantMsg: "quantity must be greater than zero"},
		{name: "negative", product: weight, requested: dp("-1"), wantMsg: "quantity must be greater than zero"},
		{name: "missing", product: unit, wantMsg: "quantity must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeQuantity(tt.product, tt.requested)
			if tt.wantMsg != "" {
				if err == nil || err.Error() != tt.wantMsg {
					t.Fatalf("error = %v, want %q", err, tt.wantMsg)
				}
				if !errors.Is(err, apperror.ErrValidation) {
					t.Fatalf("kind = %v, want validation", apperror.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(3) != tt.want || got.Exponent() != -3 {
				t.Fatalf("NormalizeQuantity() = %s (exp %d), want %s", got, got.Exponent(), tt.want)
			}
		})
	}
}

func TestNormalizeUnitPrice(t *testing.T) {
	if _, err := NormalizeUnitPrice(nil); err == nil || err.Error() != "unitPrice is required" {
		t.Fatalf("nil price error = %v", err)
	}
	if _, err := NormalizeUnitPrice(dp("-0.01")); err == nil || err.Error() != "unitPrice must be non-negative" {
		t.Fatalf("negative price error = %v", err)
	}
	got, err := NormalizeUnitPrice(dp("4.995"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringFixed(2) != "5.00" {
		t.Fatalf("NormalizeUnitPrice() = %s, want 5.00", got)
	}
}

func TestNormalizeLineKey(t *testing.T) {
	got, err := NormalizeLineKey(sp("  scan-001 "))
	if err != nil || got == nil || *got != "SCAN-001" {
		t.Fatalf("NormalizeLineKey() = %v, %v", got, err)
	}
	if got, err := NormalizeLineKey(sp("   ")); err != nil || got != nil {
		t.Fatalf("blank key = %v, %v; want nil, nil", got, err)
	}
	if got, err := NormalizeLineKey(nil); err != nil || got != nil {
		t.Fatalf("nil key = %v, %v; want nil, nil", got, err)
	}
	if _, err := NormalizeLineKey(sp(strings.Repeat("k", 65))); err == nil || err.Error() != "lineKey must be at most 64 characters" {
		t.Fatalf("long key error = %v", err)
	}
}

func TestNormalizeOpenPriceReason(t *testing.T) {
	got, err := NormalizeOpenPriceReason(sp("  price match "))
	if err != nil || got == nil || *got != "price match" {
		t.Fatalf("NormalizeOpenPriceReason() = %v, %v", got, err)
	}
	if got, _ := NormalizeOpenPriceReason(sp("")); got != nil {
		t.Fatalf("empty reason = %v, want nil", *got)
	}
	if _, err := NormalizeOpenPriceReason(sp(strings.Repeat("r", 256))); err == nil {
		t.Fatal("expected error for reason longer than 255 characters")
	}
}

func TestNormalizeMoney(t *testing.T) {
	if _, err := NormalizeMoney(nil); err == nil {
		t.Fatal("expected error for nil amount")
	}
	got, err := NormalizeMoney(dp("1.005"))
	if err != nil || got.StringFixed(2) != "1.01" {
		t.Fatalf("NormalizeMoney() = %s, %v", got, err)
	}
}
