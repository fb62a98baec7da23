package calc

import (
	"math"
	"testing"
)

func TestBillableWeightKg(t *testing.T) {
	cases := []struct {
		grams int
		want  int64
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{500, 1},
		{1000, 1},
		{1001, 2},
		{1500, 2},
		{2000, 2},
		{2001, 3},
	}

	for _, tc := range cases {
		if got := BillableWeightKg(tc.grams); got != tc.want {
			t.Fatalf("BillableWeightKg(%d) = %d, want %d", tc.grams, got, tc.want)
		}
	}
}

func TestBillableWeightKgRange(t *testing.T) {
	for g := 1; g <= 1000; g++ {
		if got := BillableWeightKg(g); got != 1 {
			t.Fatalf("BillableWeightKg(%d) = %d, want 1", g, got)
		}
	}
}

func TestShippingCost(t *testing.T) {
	if got := ShippingCost(8000, 2, 1.0); got != 16000 {
		t.Fatalf("cost = %d, want 16000", got)
	}
	if got := ShippingCost(8000, 1, 1.2); got != 9600 {
		t.Fatalf("cost = %d, want 9600", got)
	}
	if got := ShippingCost(7500, 3, 2.5); got != 56250 {
		t.Fatalf("cost = %d, want 56250", got)
	}
	// half rupiah rounds up
	if got := ShippingCost(5, 1, 1.5); got != 8 {
		t.Fatalf("cost = %d, want 8", got)
	}
}

func TestBillableWeightKgLargeWeights(t *testing.T) {
	if got := BillableWeightKg(math.MaxInt); got != int64(math.MaxInt)/1000+1 {
		t.Fatalf("BillableWeightKg(MaxInt) = %d, must not wrap around", got)
	}
	if got := BillableWeightKg(30000); got != 30 {
		t.Fatalf("BillableWeightKg(30000) = %d, want 30", got)
	}
}

func TestShippingCostSaturates(t *testing.T) {
	if got := ShippingCost(16000, math.MaxInt64/1000, 2.5); got != math.MaxInt64 {
		t.Fatalf("cost = %d, want saturation at MaxInt64", got)
	}
}
