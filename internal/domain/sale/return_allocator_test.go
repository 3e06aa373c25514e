package sale

import (
	"errors"
	"testing"

	"github.com/sangkips/pos-engine/pkg/apperror"
)

func TestAllocateReturnPartialThenRemainder(t *testing.T) {
	sold := SoldLine{Quantity: d("3.000"), Net: d("15.00"), Tax: d("0.00"), Gross: d("15.00")}

	first, err := AllocateReturn(sold, ReturnedSoFar{}, d("1.000"))
	if err != nil {
		t.Fatalf("first return: %v", err)
	}
	if !first.Gross.Equal(d("5.00")) {
		t.Fatalf("first gross = %s, want 5.00", first.Gross)
	}

	second, err := AllocateReturn(sold, ReturnedSoFar{Quantity: first.Quantity, Net: first.Net, Tax: first.Tax, Gross: first.Gross}, d("2.000"))
	if err != nil {
		t.Fatalf("second return: %v", err)
	}
	if !second.Gross.Equal(d("10.00")) {
		t.Fatalf("second gross = %s, want 10.00", second.Gross)
	}
	if total := first.Gross.Add(second.Gross); !total.Equal(sold.Gross) {
		t.Fatalf("total returned %s != sold %s", total, sold.Gross)
	}
}

func TestAllocateReturnRemainderAbsorbsRounding(t *testing.T) {
	sold := SoldLine{Quantity: d("3"), Net: d("8.40"), Tax: d("1.60"), Gross: d("10.00")}
	returned := ReturnedSoFar{}
	totalGross, totalNet, totalTax := d("0"), d("0"), d("0")

	for i := 0; i < 3; i++ {
		alloc, err := AllocateReturn(sold, returned, d("1"))
		if err != nil {
			t.Fatalf("return %d: %v", i+1, err)
		}
		returned.Quantity = returned.Quantity.Add(alloc.Quantity)
		returned.Net = returned.Net.Add(alloc.Net)
		returned.Tax = returned.Tax.Add(alloc.Tax)
		returned.Gross = returned.Gross.Add(alloc.Gross)
		totalGross = totalGross.Add(alloc.Gross)
		totalNet = totalNet.Add(alloc.Net)
		totalTax = totalTax.Add(alloc.Tax)
	}

	if !totalGross.Equal(d("10.00")) || !totalNet.Equal(d("8.40")) || !totalTax.Equal(d("1.60")) {
		t.Fatalf("totals gross=%s net=%s tax=%s", totalGross, totalNet, totalTax)
	}
}

func TestAllocateReturnRejects(t *testing.T) {
	tests := []struct {
		name     string
		sold     SoldLine
		returned ReturnedSoFar
		request  string
		wantMsg  string
	}{
		{"zero sold quantity", SoldLine{Quantity: d("0")}, ReturnedSoFar{}, "1", "sale line quantity must be positive"},
		{"exceeds available", SoldLine{Quantity: d("2"), Gross: d("4.00")}, ReturnedSoFar{Quantity: d("1.5")}, "0.6", "return quantity exceeds available quantity for sale line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AllocateReturn(tt.sold, tt.returned, d(tt.request))
			if err == nil || err.Error() != tt.wantMsg {
				t.Fatalf("error = %v, want %q", err, tt.wantMsg)
			}
			if !errors.Is(err, apperror.ErrConflict) {
				t.Fatalf("kind = %v, want conflict", apperror.KindOf(err))
			}
		})
	}
}

func TestAllocateReturnFloorsNegativeAvailability(t *testing.T) {
	sold := SoldLine{Quantity: d("2"), Net: d("4.00"), Tax: d("0.00"), Gross: d("4.00")}
	// earlier rounding drift already took more than was sold
	returned := ReturnedSoFar{Quantity: d("1"), Net: d("4.01"), Gross: d("4.01")}

	alloc, err := AllocateReturn(sold, returned, d("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alloc.Gross.IsZero() || alloc.Gross.IsNegative() || !alloc.Net.IsZero() {
		t.Fatalf("allocation = %+v, want zero money", alloc)
	}
}

func TestAllocateReturnCapsProrationAtAvailable(t *testing.T) {
	sold := SoldLine{Quantity: d("4"), Gross: d("10.00")}
	returned := ReturnedSoFar{Quantity: d("2"), Gross: d("9.00")}

	alloc, err := AllocateReturn(sold, returned, d("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alloc.Gross.Equal(d("1.00")) {
		t.Fatalf("gross = %s, want 1.00 (capped)", alloc.Gross)
	}
}
