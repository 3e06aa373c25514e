package enum

import (
	"encoding/json"
	"testing"
)

func TestTenderTypeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TenderType
		wantErr bool
	}{
		{"upper name", `"CASH"`, TenderTypeCash, false},
		{"lower name", `"card"`, TenderTypeCard, false},
		{"index", `1`, TenderTypeCard, false},
		{"unknown name", `"CHEQUE"`, 0, true},
		{"index out of range", `7`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TenderType
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPaymentStatusScan(t *testing.T) {
	var s PaymentStatus
	if err := s.Scan(int64(2)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if s != PaymentStatusVoided {
		t.Fatalf("Scan(2) = %v, want VOIDED", s)
	}
	if err := s.Scan(3.5); err == nil {
		t.Fatal("Scan(float) should fail")
	}
}

func TestUnknownValueString(t *testing.T) {
	if got := SaleMode(9).String(); got != "UNKNOWN" {
		t.Fatalf("String() = %q", got)
	}
	if got := CartStatusCheckedOut.String(); got != "CHECKED_OUT" {
		t.Fatalf("String() = %q", got)
	}
}
