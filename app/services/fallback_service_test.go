package services

import (
	"math"
	"testing"

	"github.com/pisangijoevi/ongkir/app/db/reference"
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/pisangijoevi/ongkir/app/utils/calc"
)

func TestFallbackMakassarToMakassarJNE(t *testing.T) {
	result := CalculateFallbackShippingCost(models.QuoteRequest{
		OriginCityID:      "268",
		DestinationCityID: "268",
		WeightGrams:       1500,
		CarrierCode:       "jne",
	})

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Source != models.QuoteSourceFallback {
		t.Fatalf("source = %q, want fallback", result.Source)
	}
	if len(result.Costs) != 1 {
		t.Fatalf("costs = %d, want 1", len(result.Costs))
	}

	want := map[string]int64{"REG": 16000, "OKE": 12000, "YES": 30000}
	services := result.Costs[0].Services
	if len(services) != len(want) {
		t.Fatalf("services = %d, want %d", len(services), len(want))
	}
	for _, s := range services {
		if s.Cost != want[s.ServiceCode] {
			t.Fatalf("%s cost = %d, want %d", s.ServiceCode, s.Cost, want[s.ServiceCode])
		}
		if s.Note != models.FallbackNote {
			t.Fatalf("%s note = %q, want fallback note", s.ServiceCode, s.Note)
		}
	}
}

func TestFallbackMakassarToJakartaUsesOuterMultiplier(t *testing.T) {
	result := CalculateFallbackShippingCost(models.QuoteRequest{
		OriginCityID:      "268",
		DestinationCityID: "152",
		WeightGrams:       1000,
		CarrierCode:       "jne",
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	for _, s := range result.Costs[0].Services {
		if s.ServiceCode == "REG" && s.Cost != 20000 {
			t.Fatalf("REG cost = %d, want 20000 (8000 * 1 * 2.5)", s.Cost)
		}
	}
}

func TestFallbackFormulaForAllCarriers(t *testing.T) {
	ds := reference.Default()
	fc := NewFallbackCalculator(ds)

	weights := []int{0, 1, 999, 1000, 1001, 2500, 10000}
	routes := [][2]string{{"268", "268"}, {"152", "444"}, {"23", "268"}, {"399", "152"}}

	for _, code := range ds.Carriers() {
		services, _ := ds.CarrierServices(code)
		for _, w := range weights {
			for _, rt := range routes {
				result := fc.Calculate(models.QuoteRequest{
					OriginCityID:      rt[0],
					DestinationCityID: rt[1],
					WeightGrams:       w,
					CarrierCode:       code,
				})
				if !result.Success {
					t.Fatalf("%s: unexpected failure %q", code, result.Error)
				}
				got := result.Costs[0].Services
				if len(got) != len(services) {
					t.Fatalf("%s: services = %d, want %d", code, len(got), len(services))
				}

				kg := math.Max(1, math.Ceil(float64(w)/1000))
				mult := CalculateDistanceMultiplier(rt[0], rt[1])
				for i, s := range services {
					want := int64(math.Round(float64(s.BaseRatePerKg) * kg * mult))
					if got[i].Cost != want {
						t.Fatalf("%s/%s w=%d %v: cost = %d, want %d", code, s.ServiceCode, w, rt, got[i].Cost, want)
					}
				}
			}
		}
	}
}

func TestFallbackUnknownCarrier(t *testing.T) {
	result := CalculateFallbackShippingCost(models.QuoteRequest{
		OriginCityID:      "268",
		DestinationCityID: "152",
		WeightGrams:       1000,
		CarrierCode:       "ninja",
	})
	if result.Success {
		t.Fatalf("expected failure for unknown carrier")
	}
	if result.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	req := models.QuoteRequest{OriginCityID: "23", DestinationCityID: "444", WeightGrams: 3200, CarrierCode: "tiki"}
	a := CalculateFallbackShippingCost(req)
	b := CalculateFallbackShippingCost(req)
	for i := range a.Costs[0].Services {
		if a.Costs[0].Services[i] != b.Costs[0].Services[i] {
			t.Fatalf("results differ at %d", i)
		}
	}
	if calc.BillableWeightKg(req.WeightGrams) != 4 {
		t.Fatalf("expected 4 kg billable")
	}
}
