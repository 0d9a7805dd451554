package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

var validate = validator.New()

// Config holds all job settings, populated from environment variables.
// Defaults reproduce the Philadelphia 1945-2024 data set.
type Config struct {
	// Archive query.
	Latitude       float64       `validate:"gte=-90,lte=90"`
	Longitude      float64       `validate:"gte=-180,lte=180"`
	StartDate      string        `validate:"required,datetime=2006-01-02"`
	EndDate        string        `validate:"required,datetime=2006-01-02"`
	Timezone       string        `validate:"required"`
	ArchiveURL     string        `validate:"required,url"`
	ArchiveTimeout time.Duration `validate:"gt=0"`
	// ArchiveCacheDir enables the on-disk response cache when set.
	ArchiveCacheDir string

	MonthlyPath string `validate:"required"`
	YearlyPath  string `validate:"required"`
	VizPath     string

	BaselineStart int `validate:"gte=0"`
	BaselineEnd   int `validate:"gtefield=BaselineStart"`

	FallbackHumidity float64
	FallbackWind     float64
	FallbackPrecip   float64

	Precision       int `validate:"gte=0,lte=10"`
	PreviewRows     int `validate:"gte=0"`
	StrictAlignment bool

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	SQLitePath     string
	PushgatewayURL string `validate:"omitempty,url"`
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	archiveTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("ARCHIVE_TIMEOUT", "60s"))
	if err != nil || archiveTimeout <= 0 {
		return nil, errors.New("invalid ARCHIVE_TIMEOUT")
	}

	cfg := &Config{
		StartDate:       sharedcfg.EnvOrDefault("START_DATE", "1945-01-01"),
		EndDate:         sharedcfg.EnvOrDefault("END_DATE", "2024-12-31"),
		Timezone:        sharedcfg.EnvOrDefault("TIMEZONE", "America/New_York"),
		ArchiveURL:      sharedcfg.EnvOrDefault("ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/archive"),
		ArchiveTimeout:  archiveTimeout,
		ArchiveCacheDir: os.Getenv("ARCHIVE_CACHE_DIR"),
		MonthlyPath:     sharedcfg.EnvOrDefault("MONTHLY_PATH", "philly_weather_monthly_1945_2024.csv"),
		YearlyPath:      sharedcfg.EnvOrDefault("YEARLY_PATH", "yearly_climate_summary.csv"),
		VizPath:         os.Getenv("VIZ_PATH"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "yearly-climate-summary"),
		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",
		SQLitePath:      os.Getenv("SQLITE_PATH"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		StrictAlignment: os.Getenv("STRICT_ALIGNMENT") == "true",
	}

	fallbacks := domain.DefaultFallbacks()
	window := domain.DefaultBaselineWindow()

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"LATITUDE", 39.95, &cfg.Latitude},
		{"LONGITUDE", -75.16, &cfg.Longitude},
		{"FALLBACK_HUMIDITY", fallbacks.Humidity, &cfg.FallbackHumidity},
		{"FALLBACK_WIND", fallbacks.Wind, &cfg.FallbackWind},
		{"FALLBACK_PRECIP", fallbacks.Precip, &cfg.FallbackPrecip},
	}
	for _, f := range floats {
		v, err := envFloat(f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"BASELINE_START", window.Start, &cfg.BaselineStart},
		{"BASELINE_END", window.End, &cfg.BaselineEnd},
		{"PRECISION", 3, &cfg.Precision},
		{"PREVIEW_ROWS", 10, &cfg.PreviewRows},
	}
	for _, i := range ints {
		v, err := envInt(i.key, i.def)
		if err != nil {
			return nil, err
		}
		*i.dst = v
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.StartDate > cfg.EndDate {
		return nil, errors.New("START_DATE must not be after END_DATE")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// ArchiveQuery returns the configured archive selection.
func (c *Config) ArchiveQuery() domain.ArchiveQuery {
	return domain.ArchiveQuery{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Timezone:  c.Timezone,
	}
}

// Fallbacks returns the configured sparsity defaults.
func (c *Config) Fallbacks() domain.Fallbacks {
	return domain.Fallbacks{
		Humidity: c.FallbackHumidity,
		Wind:     c.FallbackWind,
		Precip:   c.FallbackPrecip,
	}
}

// BaselineWindow returns the configured baseline period.
func (c *Config) BaselineWindow() domain.BaselineWindow {
	return domain.BaselineWindow{Start: c.BaselineStart, End: c.BaselineEnd}
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
