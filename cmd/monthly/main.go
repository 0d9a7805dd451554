// Command monthly fetches the configured archive slice, reduces it to one
// row per calendar month, and writes the intermediate monthly table.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/openmeteo"
	"github.com/couchcryptid/climate-anomaly-etl/internal/config"
	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
	"github.com/couchcryptid/climate-anomaly-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).
		With("job", "monthly", "run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logger, metrics)
	stop()

	pushMetrics(cfg, metrics, logger)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) int {
	client := openmeteo.NewClient(cfg.ArchiveURL, cfg.ArchiveTimeout, metrics, logger)

	var source domain.ArchiveSource = client
	if cfg.ArchiveCacheDir != "" {
		source = openmeteo.NewCachedSource(client, cfg.ArchiveCacheDir, metrics, logger)
		logger.Info("archive cache enabled", "dir", cfg.ArchiveCacheDir)
	}

	job := pipeline.NewMonthlyJob(source, csvfile.MonthlyFile{Path: cfg.MonthlyPath}, pipeline.MonthlyOptions{
		Query:           cfg.ArchiveQuery(),
		Policy:          domain.NewMonthlyPolicy(cfg.Fallbacks()),
		StrictAlignment: cfg.StrictAlignment,
	}, logger, metrics)

	red, err := job.Run(ctx)
	if err != nil {
		logger.Error("monthly job failed", "error", err)
		return 1
	}
	logger.Info("monthly table saved", "path", cfg.MonthlyPath, "months", len(red.Records))
	return 0
}

func pushMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metrics.Push(ctx, cfg.PushgatewayURL, "climate_monthly"); err != nil {
		logger.Warn("metrics push failed", "url", cfg.PushgatewayURL, "error", err)
	}
}
