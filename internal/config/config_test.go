package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 39.95, cfg.Latitude)
	assert.Equal(t, -75.16, cfg.Longitude)
	assert.Equal(t, "1945-01-01", cfg.StartDate)
	assert.Equal(t, "2024-12-31", cfg.EndDate)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "https://archive-api.open-meteo.com/v1/archive", cfg.ArchiveURL)
	assert.Equal(t, 60*time.Second, cfg.ArchiveTimeout)
	assert.Empty(t, cfg.ArchiveCacheDir)
	assert.Equal(t, "philly_weather_monthly_1945_2024.csv", cfg.MonthlyPath)
	assert.Equal(t, "yearly_climate_summary.csv", cfg.YearlyPath)
	assert.Empty(t, cfg.VizPath)
	assert.Equal(t, 1945, cfg.BaselineStart)
	assert.Equal(t, 1975, cfg.BaselineEnd)
	assert.Equal(t, 60.0, cfg.FallbackHumidity)
	assert.Equal(t, 3.0, cfg.FallbackWind)
	assert.Equal(t, 0.0, cfg.FallbackPrecip)
	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.False(t, cfg.StrictAlignment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "yearly-climate-summary", cfg.KafkaTopic)
	assert.Empty(t, cfg.SQLitePath)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LATITUDE", "52.52")
	t.Setenv("LONGITUDE", "13.41")
	t.Setenv("START_DATE", "1960-01-01")
	t.Setenv("END_DATE", "1999-12-31")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("ARCHIVE_URL", "http://localhost:9999/v1/archive")
	t.Setenv("ARCHIVE_TIMEOUT", "5s")
	t.Setenv("ARCHIVE_CACHE_DIR", "/tmp/archive")
	t.Setenv("MONTHLY_PATH", "m.csv")
	t.Setenv("YEARLY_PATH", "y.csv")
	t.Setenv("VIZ_PATH", "viz.json")
	t.Setenv("BASELINE_START", "1961")
	t.Setenv("BASELINE_END", "1990")
	t.Setenv("FALLBACK_HUMIDITY", "55.5")
	t.Setenv("FALLBACK_WIND", "2")
	t.Setenv("FALLBACK_PRECIP", "0.1")
	t.Setenv("PRECISION", "2")
	t.Setenv("PREVIEW_ROWS", "5")
	t.Setenv("STRICT_ALIGNMENT", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "climate")
	t.Setenv("SQLITE_PATH", "climate.db")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, domain.ArchiveQuery{
		Latitude:  52.52,
		Longitude: 13.41,
		StartDate: "1960-01-01",
		EndDate:   "1999-12-31",
		Timezone:  "Europe/Berlin",
	}, cfg.ArchiveQuery())
	assert.Equal(t, "http://localhost:9999/v1/archive", cfg.ArchiveURL)
	assert.Equal(t, 5*time.Second, cfg.ArchiveTimeout)
	assert.Equal(t, "/tmp/archive", cfg.ArchiveCacheDir)
	assert.Equal(t, "m.csv", cfg.MonthlyPath)
	assert.Equal(t, "y.csv", cfg.YearlyPath)
	assert.Equal(t, "viz.json", cfg.VizPath)
	assert.Equal(t, domain.BaselineWindow{Start: 1961, End: 1990}, cfg.BaselineWindow())
	assert.Equal(t, domain.Fallbacks{Humidity: 55.5, Wind: 2, Precip: 0.1}, cfg.Fallbacks())
	assert.Equal(t, 2, cfg.Precision)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.True(t, cfg.StrictAlignment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "climate", cfg.KafkaTopic)
	assert.Equal(t, "climate.db", cfg.SQLitePath)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
}

func TestLoad_InvalidArchiveTimeout(t *testing.T) {
	t.Setenv("ARCHIVE_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARCHIVE_TIMEOUT")
}

func TestLoad_NegativeArchiveTimeout(t *testing.T) {
	t.Setenv("ARCHIVE_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARCHIVE_TIMEOUT")
}

func TestLoad_InvalidNumbers(t *testing.T) {
	for _, key := range []string{"LATITUDE", "FALLBACK_WIND", "BASELINE_START", "PRECISION"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "not-a-number")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_LatitudeOutOfRange(t *testing.T) {
	t.Setenv("LATITUDE", "91")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Latitude")
}

func TestLoad_BaselineEndBeforeStart(t *testing.T) {
	t.Setenv("BASELINE_START", "1990")
	t.Setenv("BASELINE_END", "1980")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaselineEnd")
}

func TestLoad_MalformedDate(t *testing.T) {
	t.Setenv("START_DATE", "1945/01/01")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StartDate")
}

func TestLoad_StartAfterEnd(t *testing.T) {
	t.Setenv("START_DATE", "2000-01-01")
	t.Setenv("END_DATE", "1999-12-31")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "START_DATE")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogFormat")
}

func TestLoad_InvalidPushgatewayURL(t *testing.T) {
	t.Setenv("PUSHGATEWAY_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PushgatewayURL")
}
