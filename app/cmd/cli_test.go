package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pisangijoevi/ongkir/app/configs"
	"github.com/pisangijoevi/ongkir/app/models"
	"go.uber.org/zap"
)

func offlineEnv(t *testing.T) configs.ENV {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)
	return configs.ENV{
		Port:              ":0",
		AppEnv:            "test",
		RajaOngkirBaseURL: upstream.URL,
		RajaOngkirTimeout: time.Second,
	}
}

func TestQuoteCommandPrintsFormattedServices(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(offlineEnv(t), zap.NewNop(), &out)

	err := cmd.Run(context.Background(), []string{"ongkir", "quote", "--destination", "268", "--weight", "1500", "--courier", "jne"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	var couriers []models.FormattedCourier
	if err := json.Unmarshal(out.Bytes(), &couriers); err != nil {
		t.Fatalf("invalid output %q: %v", out.String(), err)
	}
	if len(couriers) != 1 || couriers[0].Courier != "jne" {
		t.Fatalf("unexpected couriers: %+v", couriers)
	}
	if s := couriers[0].Services[0]; s.Cost != 16000 || s.CostText != "Rp16.000" || s.Note != models.FallbackNote {
		t.Fatalf("unexpected service: %+v", s)
	}
}

func TestQuoteCommandUnknownCourier(t *testing.T) {
	cmd := NewCommand(offlineEnv(t), zap.NewNop(), &bytes.Buffer{})
	err := cmd.Run(context.Background(), []string{"ongkir", "quote", "--destination", "268", "--courier", "ninja"})
	if err == nil {
		t.Fatalf("expected error for unsupported courier")
	}
}

func TestCitiesCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(offlineEnv(t), zap.NewNop(), &out)

	if err := cmd.Run(context.Background(), []string{"ongkir", "cities", "--province", "28"}); err != nil {
		t.Fatalf("cities: %v", err)
	}
	var cities []models.City
	if err := json.Unmarshal(out.Bytes(), &cities); err != nil {
		t.Fatalf("invalid output: %v", err)
	}
	found := false
	for _, c := range cities {
		if c.ID == models.DefaultOrigin.CityID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Makassar in province 28 cities: %+v", cities)
	}
}

func TestMigrateRequiresDatabase(t *testing.T) {
	cmd := NewCommand(offlineEnv(t), zap.NewNop(), &bytes.Buffer{})
	if err := cmd.Run(context.Background(), []string{"ongkir", "migrate"}); err == nil {
		t.Fatalf("expected error without DB_HOST")
	}
}

func TestQuoteCommandAllCouriersAnyCase(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(offlineEnv(t), zap.NewNop(), &out)

	if err := cmd.Run(context.Background(), []string{"ongkir", "quote", "--destination", "152", "--courier", "ALL"}); err != nil {
		t.Fatalf("quote: %v", err)
	}
	var couriers []models.FormattedCourier
	if err := json.Unmarshal(out.Bytes(), &couriers); err != nil {
		t.Fatalf("invalid output %q: %v", out.String(), err)
	}
	if len(couriers) < 2 {
		t.Fatalf("expected every carrier, got %+v", couriers)
	}
}

func TestQuoteCommandRejectsWeightOutOfRange(t *testing.T) {
	cmd := NewCommand(offlineEnv(t), zap.NewNop(), &bytes.Buffer{})
	err := cmd.Run(context.Background(), []string{"ongkir", "quote", "--destination", "152", "--weight", "30001"})
	if err == nil {
		t.Fatalf("expected error for overweight parcel")
	}
}
