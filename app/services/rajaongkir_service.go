package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pisangijoevi/ongkir/app/helpers"
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/pisangijoevi/ongkir/app/models/other"
	"go.uber.org/zap"
)

const (
	provincePath = "/api/v1/destination/province"
	cityPath     = "/api/v1/destination/city"
	costPath     = "/cost"
	waybillPath  = "/waybill"
)

type RajaOngkirClient interface {
	GetProvinces(ctx context.Context) []models.Province
	GetCities(ctx context.Context, provinceID string) []models.City
	CalculateShippingCost(ctx context.Context, req models.QuoteRequest) models.CostResult
	TrackDelivery(ctx context.Context, waybill, courier string) models.TrackingResult
	GatewayStatus() BreakerSnapshot
	ResetGateway()
}

// TripNotifier is told when the gateway first degrades to fallback pricing.
type TripNotifier interface {
	NotifyGatewayTrip(ctx context.Context, gerr *GatewayError)
}

type RajaOngkirConfig struct {
	BaseURL         string
	ShippingKey     string
	DeliveryKey     string
	Timeout         time.Duration
	ReprobeInterval time.Duration
}

type RajaOngkirService struct {
	client      *http.Client
	baseURL     string
	shippingKey string
	deliveryKey string
	breaker     *CircuitBreaker
	fallback    *FallbackCalculator
	notifier    TripNotifier
	logger      *zap.Logger
}

type RajaOngkirOption func(*RajaOngkirService)

func WithTripNotifier(n TripNotifier) RajaOngkirOption {
	return func(s *RajaOngkirService) { s.notifier = n }
}

func WithHTTPClient(c *http.Client) RajaOngkirOption {
	return func(s *RajaOngkirService) { s.client = c }
}

func NewRajaOngkirService(cfg RajaOngkirConfig, fallback *FallbackCalculator, logger *zap.Logger, opts ...RajaOngkirOption) *RajaOngkirService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &RajaOngkirService{
		client:      &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		shippingKey: cfg.ShippingKey,
		deliveryKey: cfg.DeliveryKey,
		breaker:     NewCircuitBreaker(cfg.ReprobeInterval),
		fallback:    fallback,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RajaOngkirService) doRequest(ctx context.Context, op, method, path, apiKey string, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = bytes.NewBufferString(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, transientError(op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("key", apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", errCallerGone, ctx.Err())
		}
		return nil, transientError(op, fmt.Errorf("failed to perform request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", errCallerGone, ctx.Err())
		}
		return nil, transientError(op, fmt.Errorf("failed to read response body: %w", err))
	}

	s.logger.Debug("RajaOngkirService: response received",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
		zap.String("req_id", helpers.RequestID(ctx)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(op, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}

// degrade opens the breaker and reports the failure. Rejected credentials are
// logged at error level so they are not mistaken for an outage. A call abandoned by
// its own caller says nothing about the gateway and leaves the breaker as it was.
func (s *RajaOngkirService) degrade(ctx context.Context, op string, err error) {
	if errors.Is(err, errCallerGone) {
		s.breaker.Abort()
		s.logger.Info("RajaOngkirService: caller gave up before the gateway answered",
			zap.String("op", op),
			zap.String("req_id", helpers.RequestID(ctx)),
			zap.Error(err),
		)
		return
	}

	gerr := asGatewayError(op, err)
	tripped := s.breaker.Failure(gerr)

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", string(gerr.Kind)),
		zap.Int("status", gerr.StatusCode),
		zap.Bool("tripped", tripped),
		zap.String("req_id", helpers.RequestID(ctx)),
		zap.Error(gerr),
	}
	if gerr.Kind == GatewayUnauthorized {
		s.logger.Error("RajaOngkirService: API key rejected, serving fallback estimates until the key is replaced", fields...)
	} else {
		s.logger.Warn("RajaOngkirService: live gateway failed, serving fallback estimates", fields...)
	}

	if tripped && s.notifier != nil {
		go s.notifier.NotifyGatewayTrip(context.WithoutCancel(ctx), gerr)
	}
}

func (s *RajaOngkirService) GetProvinces(ctx context.Context) []models.Province {
	const op = "GetProvinces"
	if !s.breaker.Allow() {
		return s.fallback.Provinces()
	}

	body, err := s.doRequest(ctx, op, http.MethodGet, provincePath, s.shippingKey, nil)
	if err != nil {
		s.degrade(ctx, op, err)
		return s.fallback.Provinces()
	}

	var resp other.ProvinceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.degrade(ctx, op, malformedError(op, fmt.Errorf("failed to parse province response: %w", err)))
		return s.fallback.Provinces()
	}
	if err := checkMeta(op, resp.Meta); err != nil {
		s.degrade(ctx, op, err)
		return s.fallback.Provinces()
	}
	if resp.Data == nil {
		s.degrade(ctx, op, malformedError(op, errors.New("province response has no data array")))
		return s.fallback.Provinces()
	}

	provinces := make([]models.Province, 0, len(*resp.Data))
	for _, item := range *resp.Data {
		id, name := item.ResolvedID(), item.ResolvedName()
		if id == "" || name == "" {
			s.degrade(ctx, op, malformedError(op, fmt.Errorf("province entry without id or name: %+v", item)))
			return s.fallback.Provinces()
		}
		provinces = append(provinces, models.Province{ID: id, Name: name})
	}

	s.breaker.Success()
	s.logger.Info("RajaOngkirService: fetched provinces", zap.Int("count", len(provinces)))
	return provinces
}

func (s *RajaOngkirService) GetCities(ctx context.Context, provinceID string) []models.City {
	const op = "GetCities"
	if !s.breaker.Allow() {
		return s.fallback.Cities(provinceID)
	}

	path := cityPath + "?" + url.Values{"province_id": {provinceID}}.Encode()
	body, err := s.doRequest(ctx, op, http.MethodGet, path, s.shippingKey, nil)
	if err != nil {
		s.degrade(ctx, op, err)
		return s.fallback.Cities(provinceID)
	}

	var resp other.CityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.degrade(ctx, op, malformedError(op, fmt.Errorf("failed to parse city response: %w", err)))
		return s.fallback.Cities(provinceID)
	}
	if err := checkMeta(op, resp.Meta); err != nil {
		s.degrade(ctx, op, err)
		return s.fallback.Cities(provinceID)
	}
	if resp.Data == nil {
		s.degrade(ctx, op, malformedError(op, errors.New("city response has no data array")))
		return s.fallback.Cities(provinceID)
	}

	cities := make([]models.City, 0, len(*resp.Data))
	for _, item := range *resp.Data {
		id, name := item.ResolvedID(), item.ResolvedName()
		if id == "" || name == "" {
			s.degrade(ctx, op, malformedError(op, fmt.Errorf("city entry without id or name: %+v", item)))
			return s.fallback.Cities(provinceID)
		}
		pid := string(item.ProvinceID)
		if pid == "" {
			pid = provinceID
		}
		cities = append(cities, models.City{
			ID:         id,
			Name:       name,
			Type:       item.Type,
			PostalCode: item.ResolvedPostalCode(),
			ProvinceID: pid,
		})
	}

	s.breaker.Success()
	s.logger.Info("RajaOngkirService: fetched cities", zap.String("province_id", provinceID), zap.Int("count", len(cities)))
	return cities
}

func (s *RajaOngkirService) CalculateShippingCost(ctx context.Context, req models.QuoteRequest) models.CostResult {
	const op = "CalculateShippingCost"
	req.CarrierCode = strings.ToLower(strings.TrimSpace(req.CarrierCode))

	if !s.breaker.Allow() {
		return s.fallback.Calculate(req)
	}

	weight := req.WeightGrams
	if weight <= 0 {
		weight = 1
	}
	form := url.Values{}
	form.Set("origin", req.OriginCityID)
	form.Set("destination", req.DestinationCityID)
	form.Set("weight", strconv.Itoa(weight))
	form.Set("courier", req.CarrierCode)

	body, err := s.doRequest(ctx, op, http.MethodPost, costPath, s.shippingKey, form)
	if err != nil {
		s.degrade(ctx, op, err)
		return s.fallback.Calculate(req)
	}

	var resp other.CostResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.degrade(ctx, op, malformedError(op, fmt.Errorf("failed to parse cost response: %w", err)))
		return s.fallback.Calculate(req)
	}
	if resp.RajaOngkir == nil {
		s.degrade(ctx, op, malformedError(op, errors.New("cost response has no rajaongkir envelope")))
		return s.fallback.Calculate(req)
	}
	if st := resp.RajaOngkir.Status; st.Code != http.StatusOK {
		s.degrade(ctx, op, statusError(op, st.Code, st.Description))
		return s.fallback.Calculate(req)
	}

	s.breaker.Success()

	costs := make([]models.CarrierQuote, 0, len(resp.RajaOngkir.Results))
	for _, r := range resp.RajaOngkir.Results {
		quote := models.CarrierQuote{
			CarrierCode: strings.ToLower(r.Code),
			CarrierName: r.Name,
			Services:    make([]models.ServiceQuote, 0, len(r.Costs)),
		}
		for _, c := range r.Costs {
			if len(c.Cost) == 0 {
				continue
			}
			quote.Services = append(quote.Services, models.ServiceQuote{
				ServiceCode: c.Service,
				Description: c.Description,
				Cost:        c.Cost[0].Value,
				EtdDays:     c.Cost[0].Etd,
				Note:        c.Cost[0].Note,
			})
		}
		costs = append(costs, quote)
	}

	s.logger.Info("RajaOngkirService: fetched live cost",
		zap.String("courier", req.CarrierCode),
		zap.String("origin", req.OriginCityID),
		zap.String("destination", req.DestinationCityID),
		zap.Int("results", len(costs)),
	)
	return models.CostResult{Success: true, Costs: costs, Source: models.QuoteSourceLive}
}

// TrackDelivery has no offline substitute, so failures are returned to the caller
// and never move the pricing breaker.
func (s *RajaOngkirService) TrackDelivery(ctx context.Context, waybill, courier string) models.TrackingResult {
	const op = "TrackDelivery"

	form := url.Values{}
	form.Set("waybill", waybill)
	form.Set("courier", strings.ToLower(strings.TrimSpace(courier)))

	body, err := s.doRequest(ctx, op, http.MethodPost, waybillPath, s.deliveryKey, form)
	if err != nil {
		return s.trackingFailure(ctx, asGatewayError(op, err))
	}

	var resp other.WaybillResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return s.trackingFailure(ctx, malformedError(op, fmt.Errorf("failed to parse waybill response: %w", err)))
	}
	if resp.RajaOngkir == nil {
		return s.trackingFailure(ctx, malformedError(op, errors.New("waybill response has no rajaongkir envelope")))
	}
	if st := resp.RajaOngkir.Status; st.Code != http.StatusOK {
		return s.trackingFailure(ctx, statusError(op, st.Code, st.Description))
	}

	return models.TrackingResult{Success: true, Tracking: resp.RajaOngkir.Result}
}

func (s *RajaOngkirService) trackingFailure(ctx context.Context, gerr *GatewayError) models.TrackingResult {
	log := s.logger.Warn
	if gerr.Kind == GatewayUnauthorized {
		log = s.logger.Error
	}
	log("RajaOngkirService: waybill tracking failed",
		zap.String("kind", string(gerr.Kind)),
		zap.String("req_id", helpers.RequestID(ctx)),
		zap.Error(gerr),
	)
	return models.TrackingResult{Success: false, Error: gerr.Error()}
}

func (s *RajaOngkirService) GatewayStatus() BreakerSnapshot {
	return s.breaker.Snapshot()
}

func (s *RajaOngkirService) ResetGateway() {
	s.breaker.Reset()
	s.logger.Info("RajaOngkirService: gateway breaker reset, live calls resumed")
}

func checkMeta(op string, meta *other.KomerceMeta) error {
	if meta == nil || meta.Code == 0 || meta.Code == http.StatusOK {
		return nil
	}
	return statusError(op, meta.Code, meta.Message)
}
