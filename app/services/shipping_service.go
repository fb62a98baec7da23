package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pisangijoevi/ongkir/app/db/reference"
	"github.com/pisangijoevi/ongkir/app/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const AllCouriers = "all"

// QuoteRecorder persists resolved quotes for later analysis.
type QuoteRecorder interface {
	RecordQuote(ctx context.Context, req models.QuoteRequest, result models.CostResult) error
}

type ShippingService struct {
	gateway  RajaOngkirClient
	data     *reference.Dataset
	recorder QuoteRecorder
	logger   *zap.Logger
}

func NewShippingService(gateway RajaOngkirClient, data *reference.Dataset, recorder QuoteRecorder, logger *zap.Logger) *ShippingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingService{
		gateway:  gateway,
		data:     data,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *ShippingService) Origin() models.Origin {
	return models.DefaultOrigin
}

func (s *ShippingService) Provinces(ctx context.Context) []models.Province {
	return s.gateway.GetProvinces(ctx)
}

func (s *ShippingService) Cities(ctx context.Context, provinceID string) []models.City {
	return s.gateway.GetCities(ctx, provinceID)
}

// IsAllCouriers reports whether courier asks for every supported carrier.
func IsAllCouriers(courier string) bool {
	return strings.EqualFold(strings.TrimSpace(courier), AllCouriers)
}

// SupportsCourier reports whether courier is a carrier the store ships with.
// Anything else is rejected before the gateway sees it, since the gateway answers
// an unknown courier with an error envelope that would degrade all pricing.
func (s *ShippingService) SupportsCourier(courier string) bool {
	_, ok := s.data.CarrierServices(courier)
	return ok
}

// Quote resolves one courier. An empty origin means the store's default origin.
func (s *ShippingService) Quote(ctx context.Context, req models.QuoteRequest) models.CostResult {
	if req.OriginCityID == "" {
		req.OriginCityID = models.DefaultOrigin.CityID
	}
	req.CarrierCode = strings.ToLower(strings.TrimSpace(req.CarrierCode))
	if !s.SupportsCourier(req.CarrierCode) {
		return models.CostResult{Success: false, Error: fmt.Sprintf("kurir %q tidak didukung", req.CarrierCode)}
	}

	result := s.gateway.CalculateShippingCost(ctx, req)
	s.record(ctx, req, result)
	return result
}

// QuoteAllCouriers quotes every carrier in the reference data concurrently.
// Results keep the reference carrier order.
func (s *ShippingService) QuoteAllCouriers(ctx context.Context, req models.QuoteRequest) []models.CostResult {
	carriers := s.data.Carriers()
	results := make([]models.CostResult, len(carriers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, code := range carriers {
		i, code := i, code
		g.Go(func() error {
			r := req
			r.CarrierCode = code
			results[i] = s.Quote(gctx, r)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// MergeQuotes flattens several results into one, dropping failed carriers.
func MergeQuotes(results []models.CostResult) models.CostResult {
	merged := models.CostResult{Costs: []models.CarrierQuote{}}
	var errs []string
	for _, r := range results {
		if !r.Success {
			errs = append(errs, r.Error)
			continue
		}
		merged.Success = true
		merged.Costs = append(merged.Costs, r.Costs...)
		if merged.Source == "" || r.Source == models.QuoteSourceFallback {
			merged.Source = r.Source
		}
	}
	if !merged.Success {
		merged.Error = strings.Join(errs, "; ")
	}
	return merged
}

func (s *ShippingService) Track(ctx context.Context, waybill, courier string) models.TrackingResult {
	return s.gateway.TrackDelivery(ctx, waybill, courier)
}

func (s *ShippingService) GatewayStatus() BreakerSnapshot {
	return s.gateway.GatewayStatus()
}

func (s *ShippingService) ResetGateway() {
	s.gateway.ResetGateway()
}

func (s *ShippingService) record(ctx context.Context, req models.QuoteRequest, result models.CostResult) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordQuote(ctx, req, result); err != nil {
		s.logger.Warn("ShippingService: failed to record quote", zap.Error(err), zap.String("courier", req.CarrierCode))
	}
}
