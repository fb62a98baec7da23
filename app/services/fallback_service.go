package services

import (
	"fmt"
	"strings"

	"github.com/pisangijoevi/ongkir/app/db/reference"
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/pisangijoevi/ongkir/app/utils/calc"
)

// FallbackCalculator estimates shipping costs from the static reference tables.
// It never performs I/O and is safe for concurrent use.
type FallbackCalculator struct {
	data     *reference.Dataset
	distance *DistanceHeuristic
}

func NewFallbackCalculator(data *reference.Dataset) *FallbackCalculator {
	return &FallbackCalculator{
		data:     data,
		distance: NewDistanceHeuristic(data),
	}
}

func (f *FallbackCalculator) Provinces() []models.Province {
	return f.data.Provinces()
}

func (f *FallbackCalculator) Cities(provinceID string) []models.City {
	return f.data.Cities(provinceID)
}

func (f *FallbackCalculator) Calculate(req models.QuoteRequest) models.CostResult {
	courier := strings.ToLower(strings.TrimSpace(req.CarrierCode))

	services, ok := f.data.CarrierServices(courier)
	if !ok {
		return models.CostResult{
			Success: false,
			Error:   fmt.Sprintf("kurir %q tidak didukung", req.CarrierCode),
			Source:  models.QuoteSourceFallback,
		}
	}

	weightKg := calc.BillableWeightKg(req.WeightGrams)
	multiplier := f.distance.Multiplier(req.OriginCityID, req.DestinationCityID)

	quote := models.CarrierQuote{
		CarrierCode: courier,
		Services:    make([]models.ServiceQuote, 0, len(services)),
	}
	for _, svc := range services {
		quote.CarrierName = svc.CarrierName
		quote.Services = append(quote.Services, models.ServiceQuote{
			ServiceCode: svc.ServiceCode,
			Description: svc.Description,
			Cost:        calc.ShippingCost(svc.BaseRatePerKg, weightKg, multiplier),
			EtdDays:     svc.EtdDays,
			Note:        models.FallbackNote,
		})
	}

	return models.CostResult{
		Success: true,
		Costs:   []models.CarrierQuote{quote},
		Source:  models.QuoteSourceFallback,
	}
}

// CalculateFallbackShippingCost estimates with the embedded reference dataset.
func CalculateFallbackShippingCost(req models.QuoteRequest) models.CostResult {
	return NewFallbackCalculator(reference.Default()).Calculate(req)
}
