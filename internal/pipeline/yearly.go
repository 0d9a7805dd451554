package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
)

// YearlyOptions configures the yearly stage.
type YearlyOptions struct {
	Window      domain.BaselineWindow
	Precision   int
	PreviewRows int
	RunID       string
}

// YearlyJob reads the monthly table, computes yearly means and anomalies,
// prints a preview report, and writes the yearly table and optional sinks.
type YearlyJob struct {
	extractor MonthlyExtractor
	loader    YearlyLoader
	sinks     []BatchLoader
	report    io.Writer
	opts      YearlyOptions
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewYearlyJob creates a YearlyJob. report receives the console preview;
// sinks may be empty.
func NewYearlyJob(e MonthlyExtractor, l YearlyLoader, sinks []BatchLoader, report io.Writer, opts YearlyOptions, logger *slog.Logger, metrics *observability.Metrics) *YearlyJob {
	return &YearlyJob{
		extractor: e,
		loader:    l,
		sinks:     sinks,
		report:    report,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes the yearly stage once. A missing monthly table is logged and
// yields a nil summary with no output written. The yearly table is written
// before any sink runs; sink failures are joined into the returned error.
func (j *YearlyJob) Run(ctx context.Context) (*domain.YearlySummary, error) {
	start := domain.Now()

	rows, err := j.extractor.ExtractMonthly(ctx)
	if errors.Is(err, domain.ErrMissingInput) {
		j.logger.Warn("monthly input not found, nothing to do", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read monthly table: %w", err)
	}
	j.metrics.MonthlyRowsRead.Add(float64(len(rows)))

	summary, err := domain.SummarizeYearly(rows, j.opts.Window)
	if err != nil {
		return nil, err
	}

	b := summary.Baseline
	if b.Fallback {
		j.logger.Warn("no years inside baseline window, using mean of all years",
			"baseline_start", b.Window.Start,
			"baseline_end", b.Window.End,
			"years", b.Years,
		)
		j.metrics.BaselineFallback.Inc()
	}
	j.metrics.BaselineTemp.Set(b.Temp)

	rounded := summary.Rounded(j.opts.Precision)
	if err := WriteReport(j.report, summary.Baseline, rounded, j.opts.PreviewRows); err != nil {
		j.logger.Warn("report output failed", "error", err)
	}

	if err := j.loader.LoadYearly(ctx, rounded); err != nil {
		j.metrics.SinkWrites.WithLabelValues("csv", "error").Inc()
		return nil, fmt.Errorf("write yearly table: %w", err)
	}
	j.metrics.SinkWrites.WithLabelValues("csv", "success").Inc()
	j.metrics.YearsEmitted.Add(float64(len(rounded)))

	batch := domain.YearlyBatch{
		RunID:       j.opts.RunID,
		GeneratedAt: summary.GeneratedAt,
		Baseline:    summary.Baseline,
		Records:     rounded,
	}
	if err := j.publish(ctx, batch); err != nil {
		return &summary, err
	}

	end := domain.Now()
	j.metrics.JobDuration.WithLabelValues("yearly").Set(end.Sub(start).Seconds())
	j.metrics.LastSuccessful.WithLabelValues("yearly").Set(float64(end.Unix()))

	j.logger.Info("yearly job finished",
		"years", len(rounded),
		"monthly_rows", len(rows),
		"baseline_temp", b.Temp,
		"baseline_fallback", b.Fallback,
	)
	return &summary, nil
}

// publish hands the batch to every sink, continuing past failures.
func (j *YearlyJob) publish(ctx context.Context, batch domain.YearlyBatch) error {
	var errs []error
	for _, s := range j.sinks {
		if err := s.LoadBatch(ctx, batch); err != nil {
			j.logger.Error("sink write failed", "sink", s.Name(), "error", err)
			j.metrics.SinkWrites.WithLabelValues(s.Name(), "error").Inc()
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name(), err))
			continue
		}
		j.metrics.SinkWrites.WithLabelValues(s.Name(), "success").Inc()
	}
	return errors.Join(errs...)
}
