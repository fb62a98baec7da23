package services

import (
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/pisangijoevi/ongkir/app/utils/format"
)

// FormatShippingServices flattens carrier quotes into the shape the checkout UI renders.
// A nil or empty input yields an empty, non-nil list.
func FormatShippingServices(costs []models.CarrierQuote) []models.FormattedCourier {
	out := make([]models.FormattedCourier, 0, len(costs))
	for _, c := range costs {
		courier := models.FormattedCourier{
			Courier:     c.CarrierCode,
			CourierName: c.CarrierName,
			Services:    make([]models.FormattedService, 0, len(c.Services)),
		}
		for _, s := range c.Services {
			courier.Services = append(courier.Services, models.FormattedService{
				Service:     s.ServiceCode,
				Description: s.Description,
				Cost:        s.Cost,
				CostText:    format.Rupiah(s.Cost),
				Etd:         s.EtdDays,
				Note:        s.Note,
			})
		}
		out = append(out, courier)
	}
	return out
}
