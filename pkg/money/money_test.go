package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeRoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"-2.345", "-2.35"},
		{"7", "7.00"},
	}
	for _, tt := range tests {
		got := Normalize(decimal.RequireFromString(tt.in)).StringFixed(AmountScale)
		if got != tt.want {
			t.Errorf("Normalize(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestScaleIgnoresTrailingZeros(t *testing.T) {
	tests := []struct {
		in       string
		scale    int32
		declared int32
	}{
		{"2.500", 1, 3},
		{"3.000", 0, 3},
		{"1.25", 2, 2},
		{"40", 0, 0},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		if got := Scale(d); got != tt.scale {
			t.Errorf("Scale(%s) = %d, want %d", tt.in, got, tt.scale)
		}
		if got := DeclaredScale(d); got != tt.declared {
			t.Errorf("DeclaredScale(%s) = %d, want %d", tt.in, got, tt.declared)
		}
	}
}

func TestAmountJSONUsesFixedScale(t *testing.T) {
	payload := struct {
		Total    Amount   `json:"total"`
		Quantity Quantity `json:"quantity"`
	}{
		Total:    NewAmount(decimal.NewFromInt(10)),
		Quantity: NewQuantity(decimal.RequireFromString("1.5")),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"total":10.00,"quantity":1.500}` {
		t.Fatalf("unexpected json %s", raw)
	}

	var back struct {
		Total Amount `json:"total"`
	}
	if err := json.Unmarshal([]byte(`{"total":"12.30"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Total.Decimal().Equal(decimal.RequireFromString("12.3")) {
		t.Fatalf("Total = %s", back.Total)
	}
}
