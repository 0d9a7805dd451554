// Command yearly reads the monthly table, computes yearly means and the
// temperature anomaly against the baseline period, prints a preview, and
// writes the yearly summary plus any configured sinks.
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
	kafkaadapter "github.com/couchcryptid/climate-anomaly-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/vizfile"
	"github.com/couchcryptid/climate-anomaly-etl/internal/config"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
	"github.com/couchcryptid/climate-anomaly-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).
		With("job", "yearly", "run_id", runID)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, runID, logger, metrics)
	stop()

	pushMetrics(cfg, metrics, logger)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, runID string, logger *slog.Logger, metrics *observability.Metrics) int {
	var sinks []pipeline.BatchLoader

	if cfg.VizPath != "" {
		sinks = append(sinks, vizfile.NewWriter(cfg.VizPath))
	}
	if cfg.SQLitePath != "" {
		store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			logger.Error("failed to open sqlite store", "path", cfg.SQLitePath, "error", err)
			return 1
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("sqlite close error", "error", err)
			}
		}()
		sinks = append(sinks, store)
	}
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
	}

	job := pipeline.NewYearlyJob(
		csvfile.MonthlyFile{Path: cfg.MonthlyPath},
		csvfile.YearlyFile{Path: cfg.YearlyPath},
		sinks,
		os.Stdout,
		pipeline.YearlyOptions{
			Window:      cfg.BaselineWindow(),
			Precision:   cfg.Precision,
			PreviewRows: cfg.PreviewRows,
			RunID:       runID,
		},
		logger, metrics,
	)

	summary, err := job.Run(ctx)
	if err != nil {
		logger.Error("yearly job failed", "error", err)
		return 1
	}
	if summary == nil {
		return 0
	}
	logger.Info("yearly summary saved", "path", cfg.YearlyPath, "years", len(summary.Years))
	return 0
}

func pushMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metrics.Push(ctx, cfg.PushgatewayURL, "climate_yearly"); err != nil {
		logger.Warn("metrics push failed", "url", cfg.PushgatewayURL, "error", err)
	}
}
