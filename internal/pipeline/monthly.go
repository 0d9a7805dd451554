package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
)

// MonthlyOptions selects the archive slice and the reduction policy.
type MonthlyOptions struct {
	Query           domain.ArchiveQuery
	Policy          domain.MonthlyPolicy
	StrictAlignment bool
}

// MonthlyJob fetches the raw archive, reduces it to one row per calendar
// month, and writes the intermediate table.
type MonthlyJob struct {
	source  domain.ArchiveSource
	loader  MonthlyLoader
	opts    MonthlyOptions
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewMonthlyJob creates a MonthlyJob with the given stages and observability.
func NewMonthlyJob(source domain.ArchiveSource, loader MonthlyLoader, opts MonthlyOptions, logger *slog.Logger, metrics *observability.Metrics) *MonthlyJob {
	return &MonthlyJob{
		source:  source,
		loader:  loader,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes the monthly stage once. Any fetch, parse, or write failure
// is returned and nothing is written.
func (j *MonthlyJob) Run(ctx context.Context) (domain.MonthlyReduction, error) {
	start := domain.Now()
	q := j.opts.Query
	j.logger.Info("monthly job started",
		"latitude", q.Latitude,
		"longitude", q.Longitude,
		"start_date", q.StartDate,
		"end_date", q.EndDate,
	)

	archive, err := j.source.FetchArchive(ctx, q)
	if err != nil {
		return domain.MonthlyReduction{}, fmt.Errorf("fetch archive: %w", err)
	}

	hourly, err := archive.Hourly.Observations(j.opts.StrictAlignment)
	if err != nil {
		return domain.MonthlyReduction{}, err
	}
	daily, err := archive.Daily.Observations(j.opts.StrictAlignment)
	if err != nil {
		return domain.MonthlyReduction{}, err
	}
	if len(hourly) != len(archive.Hourly.Time) || len(daily) != len(archive.Daily.Time) {
		j.logger.Warn("series lengths differ, truncating to shortest",
			"daily_time", len(archive.Daily.Time),
			"daily_rows", len(daily),
			"hourly_time", len(archive.Hourly.Time),
			"hourly_rows", len(hourly),
		)
	}
	j.metrics.ObservationsRead.WithLabelValues("hourly").Add(float64(len(hourly)))
	j.metrics.ObservationsRead.WithLabelValues("daily").Add(float64(len(daily)))

	reduction, err := domain.ReduceMonthly(hourly, daily, j.opts.Policy)
	if err != nil {
		return domain.MonthlyReduction{}, err
	}
	for _, month := range reduction.DroppedMonths {
		j.logger.Debug("month dropped, no temperature values", "month", month)
	}
	j.metrics.MonthsDropped.Add(float64(len(reduction.DroppedMonths)))

	if err := j.loader.LoadMonthly(ctx, reduction.Records); err != nil {
		j.metrics.SinkWrites.WithLabelValues("csv", "error").Inc()
		return domain.MonthlyReduction{}, fmt.Errorf("write monthly table: %w", err)
	}
	j.metrics.SinkWrites.WithLabelValues("csv", "success").Inc()
	j.metrics.MonthsEmitted.Add(float64(len(reduction.Records)))

	end := domain.Now()
	j.metrics.JobDuration.WithLabelValues("monthly").Set(end.Sub(start).Seconds())
	j.metrics.LastSuccessful.WithLabelValues("monthly").Set(float64(end.Unix()))

	j.logger.Info("monthly job finished",
		"months", len(reduction.Records),
		"dropped", len(reduction.DroppedMonths),
		"daily_rows", len(daily),
		"hourly_rows", len(hourly),
	)
	return reduction, nil
}
