package models

const FallbackNote = "Estimasi (fallback calculation)"

// MaxWeightGrams is the heaviest parcel a single quote may ask for.
const MaxWeightGrams = 30000

type Origin struct {
	CityID     string `json:"cityId"`
	CityName   string `json:"cityName"`
	ProvinceID string `json:"provinceId"`
}

// DefaultOrigin is the store's fixed shipping origin.
var DefaultOrigin = Origin{CityID: "268", CityName: "Makassar", ProvinceID: "28"}

type Province struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	PostalCode string `json:"postalCode"`
	ProvinceID string `json:"provinceId"`
}

type CarrierService struct {
	CarrierCode   string `json:"carrierCode"`
	CarrierName   string `json:"carrierName"`
	ServiceCode   string `json:"serviceCode"`
	Description   string `json:"description"`
	BaseRatePerKg int64  `json:"baseRatePerKg"`
	EtdDays       string `json:"etdDays"`
}

type QuoteRequest struct {
	OriginCityID      string `json:"origin"`
	DestinationCityID string `json:"destination"`
	WeightGrams       int    `json:"weight"`
	CarrierCode       string `json:"courier"`
}

type ServiceQuote struct {
	ServiceCode string `json:"serviceCode"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	EtdDays     string `json:"etdDays"`
	Note        string `json:"note"`
}

type CarrierQuote struct {
	CarrierCode string         `json:"carrierCode"`
	CarrierName string         `json:"carrierName"`
	Services    []ServiceQuote `json:"services"`
}

type QuoteSource string

const (
	QuoteSourceLive     QuoteSource = "live"
	QuoteSourceFallback QuoteSource = "fallback"
)

// CostResult mirrors the {success, costs} | {success:false, error} contract of the cost lookup.
type CostResult struct {
	Success bool           `json:"success"`
	Costs   []CarrierQuote `json:"costs,omitempty"`
	Error   string         `json:"error,omitempty"`
	Source  QuoteSource    `json:"source,omitempty"`
}

type TrackingResult struct {
	Success  bool           `json:"success"`
	Tracking map[string]any `json:"tracking,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type FormattedService struct {
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	CostText    string `json:"costText"`
	Etd         string `json:"etd"`
	Note        string `json:"note"`
}

type FormattedCourier struct {
	Courier     string             `json:"courier"`
	CourierName string             `json:"courierName"`
	Services    []FormattedService `json:"services"`
}

// Cheapest returns the lowest service cost across all quotes, or 0 when there is none.
func (r CostResult) Cheapest() int64 {
	var (
		min   int64
		found bool
	)
	for _, c := range r.Costs {
		for _, s := range c.Services {
			if !found || s.Cost < min {
				min, found = s.Cost, true
			}
		}
	}
	return min
}
