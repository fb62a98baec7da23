package cmd

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pisangijoevi/ongkir/app/configs"
	"github.com/pisangijoevi/ongkir/app/db/reference"
	"github.com/pisangijoevi/ongkir/app/handlers"
	"github.com/pisangijoevi/ongkir/app/repositories"
	"github.com/pisangijoevi/ongkir/app/routes"
	"github.com/pisangijoevi/ongkir/app/services"
	"github.com/pisangijoevi/ongkir/app/utils/renderer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired dependencies shared by the server and the CLI commands.
type App struct {
	Env      configs.ENV
	Logger   *zap.Logger
	DB       *gorm.DB
	Gateway  *services.RajaOngkirService
	Shipping *services.ShippingService
}

func NewApp(env configs.ENV, logger *zap.Logger, db *gorm.DB) *App {
	data := reference.Default()
	fallback := services.NewFallbackCalculator(data)

	var opts []services.RajaOngkirOption
	if env.AlertsEnabled() {
		mailer := services.NewMailer(services.Config{
			Host:     env.EmailHost,
			Port:     env.EmailPort,
			Username: env.EmailUsername,
			Password: env.EmailPassword,
			From:     env.EmailFrom,
		})
		opts = append(opts, services.WithTripNotifier(services.NewGatewayAlertNotifier(mailer, env.AlertEmailTo, logger)))
	}

	gateway := services.NewRajaOngkirService(services.RajaOngkirConfig{
		BaseURL:         env.RajaOngkirBaseURL,
		ShippingKey:     env.RajaOngkirShippingKey,
		DeliveryKey:     env.RajaOngkirDeliveryKey,
		Timeout:         env.RajaOngkirTimeout,
		ReprobeInterval: env.RajaOngkirReprobeInterval,
	}, fallback, logger, opts...)

	var recorder services.QuoteRecorder
	if db != nil {
		recorder = repositories.NewGormShippingQuoteRepository(db)
	}

	return &App{
		Env:      env,
		Logger:   logger,
		DB:       db,
		Gateway:  gateway,
		Shipping: services.NewShippingService(gateway, data, recorder, logger),
	}
}

func (a *App) Handler() http.Handler {
	h := handlers.NewShippingHandler(a.Shipping, renderer.New(a.Env.IsDevelopment()), validator.New(), a.Logger)
	return routes.NewRouter(h, a.Logger)
}

func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              a.Env.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
