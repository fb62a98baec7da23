package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pisangijoevi/ongkir/app/handlers"
	"github.com/pisangijoevi/ongkir/app/middlewares"
	"go.uber.org/zap"
)

func NewRouter(shippingHandler *handlers.ShippingHandler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.RecoverMiddleware(logger))
	router.Use(middlewares.AccessLogMiddleware(logger))

	router.HandleFunc("/healthz", handlers.Healthz).Methods(http.MethodGet)

	api := router.PathPrefix("/api/shipping").Subrouter()
	api.HandleFunc("/origin", shippingHandler.GetOrigin).Methods(http.MethodGet)
	api.HandleFunc("/provinces", shippingHandler.GetProvinces).Methods(http.MethodGet)
	api.HandleFunc("/cities", shippingHandler.GetCities).Methods(http.MethodGet)
	api.HandleFunc("/cost", shippingHandler.CalculateShippingCost).Methods(http.MethodPost)
	api.HandleFunc("/track", shippingHandler.TrackDelivery).Methods(http.MethodGet)
	api.HandleFunc("/gateway", shippingHandler.GatewayStatus).Methods(http.MethodGet)
	api.HandleFunc("/gateway/reset", shippingHandler.ResetGateway).Methods(http.MethodPost)

	return router
}
