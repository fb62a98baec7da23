package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pisangijoevi/ongkir/app/helpers"
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/pisangijoevi/ongkir/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ShippingHandler struct {
	shippingSvc *services.ShippingService
	render      *render.Render
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewShippingHandler(shippingSvc *services.ShippingService, render *render.Render, validator *validator.Validate, logger *zap.Logger) *ShippingHandler {
	return &ShippingHandler{
		shippingSvc: shippingSvc,
		render:      render,
		validator:   validator,
		logger:      logger,
	}
}

type costRequest struct {
	Origin      string `json:"origin" validate:"omitempty,numeric"`
	Destination string `json:"destination" validate:"required,numeric"`
	Weight      int    `json:"weight" validate:"gt=0,lte=30000"`
	Courier     string `json:"courier" validate:"required"`
}

func (h *ShippingHandler) GetOrigin(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"origin":  h.shippingSvc.Origin(),
	})
}

func (h *ShippingHandler) GetProvinces(w http.ResponseWriter, r *http.Request) {
	provinces := h.shippingSvc.Provinces(r.Context())
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"provinces": provinces,
	})
}

func (h *ShippingHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	provinceID := strings.TrimSpace(r.URL.Query().Get("province_id"))
	if provinceID == "" {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "province_id wajib diisi.",
		})
		return
	}

	cities := h.shippingSvc.Cities(r.Context(), provinceID)
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cities":  cities,
	})
}

func (h *ShippingHandler) CalculateShippingCost(w http.ResponseWriter, r *http.Request) {
	var req costRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Info("ShippingHandler: invalid cost request body", zap.Error(err), zap.String("req_id", helpers.RequestID(r.Context())))
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": "Data input tidak lengkap atau tidak valid.",
				"errors":  helpers.FormatValidationErrors(verrs),
			})
			return
		}
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	allCouriers := services.IsAllCouriers(req.Courier)
	if !allCouriers && !h.shippingSvc.SupportsCourier(req.Courier) {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Kurir tidak didukung.",
			"errors":  map[string]string{"courier": "Kurir tidak didukung."},
		})
		return
	}

	quote := models.QuoteRequest{
		OriginCityID:      req.Origin,
		DestinationCityID: req.Destination,
		WeightGrams:       req.Weight,
		CarrierCode:       req.Courier,
	}

	var result models.CostResult
	if allCouriers {
		result = services.MergeQuotes(h.shippingSvc.QuoteAllCouriers(r.Context(), quote))
	} else {
		result = h.shippingSvc.Quote(r.Context(), quote)
	}

	if !result.Success {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": result.Error,
		})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"source":   result.Source,
		"estimate": result.Source == models.QuoteSourceFallback,
		"costs":    services.FormatShippingServices(result.Costs),
	})
}

func (h *ShippingHandler) TrackDelivery(w http.ResponseWriter, r *http.Request) {
	waybill := strings.TrimSpace(r.URL.Query().Get("waybill"))
	courier := strings.TrimSpace(r.URL.Query().Get("courier"))
	if waybill == "" || courier == "" {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "waybill dan courier wajib diisi.",
		})
		return
	}

	result := h.shippingSvc.Track(r.Context(), waybill, courier)
	if !result.Success {
		_ = h.render.JSON(w, http.StatusBadGateway, result)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, result)
}

func (h *ShippingHandler) GatewayStatus(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, h.shippingSvc.GatewayStatus())
}

func (h *ShippingHandler) ResetGateway(w http.ResponseWriter, r *http.Request) {
	h.shippingSvc.ResetGateway()
	h.logger.Info("ShippingHandler: gateway reset requested", zap.String("req_id", helpers.RequestID(r.Context())))
	_ = h.render.JSON(w, http.StatusOK, h.shippingSvc.GatewayStatus())
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
