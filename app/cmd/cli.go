package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pisangijoevi/ongkir/app/configs"
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/pisangijoevi/ongkir/app/models/migrations"
	"github.com/pisangijoevi/ongkir/app/repositories"
	"github.com/pisangijoevi/ongkir/app/services"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewCommand(env configs.ENV, logger *zap.Logger, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "ongkir",
		Usage: "Shipping cost service for the Pisang Ijo Evi storefront",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, env, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration for the quote log",
				Action: func(ctx context.Context, c *cli.Command) error {
					if !env.DatabaseEnabled() {
						return errors.New("DB_HOST is not set")
					}
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					logger.Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "quotes",
				Usage: "Show recent logged quotes and the live/fallback split",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of recent quotes"},
					&cli.DurationFlag{Name: "since", Value: 24 * time.Hour, Usage: "window for the source counts"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if !env.DatabaseEnabled() {
						return errors.New("DB_HOST is not set")
					}
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					repo := repositories.NewGormShippingQuoteRepository(db)

					recent, err := repo.FindRecent(ctx, int(c.Int("limit")))
					if err != nil {
						return err
					}
					counts, err := repo.CountBySourceSince(ctx, time.Now().Add(-c.Duration("since")))
					if err != nil {
						return err
					}
					return writeJSON(out, map[string]any{"recent": recent, "bySource": counts})
				},
			},
			{
				Name:  "provinces",
				Usage: "List provinces (live, or fallback when the gateway is down)",
				Action: func(ctx context.Context, c *cli.Command) error {
					app := NewApp(env, logger, nil)
					return writeJSON(out, app.Shipping.Provinces(ctx))
				},
			},
			{
				Name:  "cities",
				Usage: "List cities of a province",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "province", Usage: "province id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app := NewApp(env, logger, nil)
					return writeJSON(out, app.Shipping.Cities(ctx, c.String("province")))
				},
			},
			{
				Name:  "quote",
				Usage: "Quote a shipping cost",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "origin", Value: models.DefaultOrigin.CityID, Usage: "origin city id"},
					&cli.StringFlag{Name: "destination", Usage: "destination city id", Required: true},
					&cli.IntFlag{Name: "weight", Value: 1000, Usage: "weight in grams"},
					&cli.StringFlag{Name: "courier", Value: "jne", Usage: "courier code, or \"all\""},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app := NewApp(env, logger, nil)
					req := models.QuoteRequest{
						OriginCityID:      c.String("origin"),
						DestinationCityID: c.String("destination"),
						WeightGrams:       int(c.Int("weight")),
						CarrierCode:       c.String("courier"),
					}

					allCouriers := services.IsAllCouriers(req.CarrierCode)
					if !allCouriers && !app.Shipping.SupportsCourier(req.CarrierCode) {
						return fmt.Errorf("courier %q is not supported", req.CarrierCode)
					}
					if req.WeightGrams <= 0 || req.WeightGrams > models.MaxWeightGrams {
						return fmt.Errorf("weight must be between 1 and %d grams", models.MaxWeightGrams)
					}

					var result models.CostResult
					if allCouriers {
						result = services.MergeQuotes(app.Shipping.QuoteAllCouriers(ctx, req))
					} else {
						result = app.Shipping.Quote(ctx, req)
					}
					if !result.Success {
						return errors.New(result.Error)
					}
					return writeJSON(out, services.FormatShippingServices(result.Costs))
				},
			},
			{
				Name:  "track",
				Usage: "Track a waybill",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "waybill", Required: true},
					&cli.StringFlag{Name: "courier", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app := NewApp(env, logger, nil)
					result := app.Shipping.Track(ctx, c.String("waybill"), c.String("courier"))
					if !result.Success {
						return errors.New(result.Error)
					}
					return writeJSON(out, result.Tracking)
				},
			},
		},
	}
}

func RunCli(env configs.ENV, logger *zap.Logger, args []string) error {
	return NewCommand(env, logger, os.Stdout).Run(context.Background(), args)
}

func serve(ctx context.Context, env configs.ENV, logger *zap.Logger) error {
	if env.RajaOngkirShippingKey == "" {
		logger.Warn("RAJAONGKIR_SHIPPING_KEY is empty, live quotes will be rejected and fallback estimates served")
	}

	var db *gorm.DB
	if env.DatabaseEnabled() {
		conn, err := configs.OpenConnection(env, logger)
		if err != nil {
			return fmt.Errorf("DB connection failed: %w", err)
		}
		db = conn
	} else {
		logger.Info("DB_HOST not set, quote log disabled")
	}

	app := NewApp(env, logger, db)
	server := app.Server()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Server shutting down")
	return server.Shutdown(shutdownCtx)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
