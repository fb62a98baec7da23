package configs

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ENV struct {
	Port                      string
	AppEnv                    string
	RajaOngkirBaseURL         string
	RajaOngkirShippingKey     string
	RajaOngkirDeliveryKey     string
	RajaOngkirTimeout         time.Duration
	RajaOngkirReprobeInterval time.Duration
	DBHost                    string
	DBUser                    string
	DBPassword                string
	DBName                    string
	DBPort                    string
	DBMaxRetries              int
	DBRetryDelay              time.Duration
	EmailHost                 string
	EmailPort                 string
	EmailUsername             string
	EmailPassword             string
	EmailFrom                 string
	AlertEmailTo              string

	// DotenvLoaded is false when no .env file was found; values then come from the process env only.
	DotenvLoaded bool
}

func (e ENV) DatabaseEnabled() bool {
	return e.DBHost != ""
}

func (e ENV) AlertsEnabled() bool {
	return e.EmailHost != "" && e.AlertEmailTo != ""
}

func (e ENV) IsDevelopment() bool {
	return strings.EqualFold(e.AppEnv, "development")
}

func LoadEnv() ENV {
	loaded := godotenv.Load(".env") == nil
	return loadFromViper(newViper(), loaded)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("RAJAONGKIR_BASE_URL", "https://rajaongkir.komerce.id")
	v.SetDefault("RAJAONGKIR_TIMEOUT", 10*time.Second)
	v.SetDefault("RAJAONGKIR_REPROBE_INTERVAL", time.Duration(0))
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_MAX_RETRIES", 10)
	v.SetDefault("DB_RETRY_DELAY", 5*time.Second)
	v.SetDefault("EMAIL_PORT", "587")

	return v
}

func loadFromViper(v *viper.Viper, dotenvLoaded bool) ENV {
	port := v.GetString("APP_PORT")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}

	from := v.GetString("EMAIL_FROM")
	if from == "" {
		from = v.GetString("EMAIL_USERNAME")
	}

	return ENV{
		Port:                      port,
		AppEnv:                    v.GetString("APP_ENV"),
		RajaOngkirBaseURL:         v.GetString("RAJAONGKIR_BASE_URL"),
		RajaOngkirShippingKey:     v.GetString("RAJAONGKIR_SHIPPING_KEY"),
		RajaOngkirDeliveryKey:     v.GetString("RAJAONGKIR_DELIVERY_KEY"),
		RajaOngkirTimeout:         v.GetDuration("RAJAONGKIR_TIMEOUT"),
		RajaOngkirReprobeInterval: v.GetDuration("RAJAONGKIR_REPROBE_INTERVAL"),
		DBHost:                    v.GetString("DB_HOST"),
		DBUser:                    v.GetString("DB_USER"),
		DBPassword:                v.GetString("DB_PASSWORD"),
		DBName:                    v.GetString("DB_NAME"),
		DBPort:                    v.GetString("DB_PORT"),
		DBMaxRetries:              v.GetInt("DB_MAX_RETRIES"),
		DBRetryDelay:              v.GetDuration("DB_RETRY_DELAY"),
		EmailHost:                 v.GetString("EMAIL_HOST"),
		EmailPort:                 v.GetString("EMAIL_PORT"),
		EmailUsername:             v.GetString("EMAIL_USERNAME"),
		EmailPassword:             v.GetString("EMAIL_PASSWORD"),
		EmailFrom:                 from,
		AlertEmailTo:              v.GetString("ALERT_EMAIL_TO"),
		DotenvLoaded:              dotenvLoaded,
	}
}
