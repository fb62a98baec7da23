package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxCost = decimal.NewFromInt(math.MaxInt64)

// ShippingCost returns round(baseRatePerKg * weightKg * multiplier) in whole Rupiah.
// Results beyond int64 saturate at math.MaxInt64.
func ShippingCost(baseRatePerKg, weightKg int64, multiplier float64) int64 {
	cost := decimal.NewFromInt(baseRatePerKg).
		Mul(decimal.NewFromInt(weightKg)).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(0)

	if cost.GreaterThan(maxCost) {
		return math.MaxInt64
	}
	return cost.IntPart()
}
