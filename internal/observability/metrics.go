package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the batch jobs.
// Each Metrics owns its registry so batch runs and tests never collide on
// the default registerer.
type Metrics struct {
	Registry *prometheus.Registry

	ObservationsRead *prometheus.CounterVec // labels: series={daily,hourly}
	MonthsEmitted    prometheus.Counter
	MonthsDropped    prometheus.Counter
	MonthlyRowsRead  prometheus.Counter
	YearsEmitted     prometheus.Counter
	BaselineFallback prometheus.Counter
	BaselineTemp     prometheus.Gauge

	// Archive metrics.
	ArchiveRequests *prometheus.CounterVec // labels: outcome={success,error}
	ArchiveCache    *prometheus.CounterVec // labels: result={hit,miss}
	ArchiveDuration prometheus.Histogram

	// Sink metrics.
	SinkWrites *prometheus.CounterVec // labels: sink={csv,kafka,sqlite,viz}, outcome={success,error}

	JobDuration    *prometheus.GaugeVec // labels: job={monthly,yearly}
	LastSuccessful *prometheus.GaugeVec // labels: job={monthly,yearly}
}

// NewMetrics creates all job metrics and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ObservationsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "observations_read_total",
			Help:      "Observations read from the archive after the positional join.",
		}, []string{"series"}),
		MonthsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "months_emitted_total",
			Help:      "Monthly records written to the intermediate table.",
		}),
		MonthsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "months_dropped_total",
			Help:      "Months dropped because no temperature value existed.",
		}),
		MonthlyRowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "monthly_rows_read_total",
			Help:      "Rows read from the intermediate monthly table.",
		}),
		YearsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "years_emitted_total",
			Help:      "Yearly records written to the summary table.",
		}),
		BaselineFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "baseline_fallback_total",
			Help:      "Runs where no year fell in the baseline window and the global mean was used.",
		}),
		BaselineTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "baseline_temperature_celsius",
			Help:      "Baseline temperature used for the last anomaly computation.",
		}),
		ArchiveRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "archive_requests_total",
			Help:      "Archive API requests by outcome.",
		}, []string{"outcome"}),
		ArchiveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "archive_cache_total",
			Help:      "Archive response cache lookups by result.",
		}, []string{"result"}),
		ArchiveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "archive_request_duration_seconds",
			Help:      "Archive API request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "sink_writes_total",
			Help:      "Output sink writes by sink and outcome.",
		}, []string{"sink", "outcome"}),
		JobDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "job_duration_seconds",
			Help:      "Wall time of the last job run.",
		}, []string{"job"}),
		LastSuccessful: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful job run.",
		}, []string{"job"}),
	}

	m.Registry.MustRegister(
		m.ObservationsRead,
		m.MonthsEmitted,
		m.MonthsDropped,
		m.MonthlyRowsRead,
		m.YearsEmitted,
		m.BaselineFallback,
		m.BaselineTemp,
		m.ArchiveRequests,
		m.ArchiveCache,
		m.ArchiveDuration,
		m.SinkWrites,
		m.JobDuration,
		m.LastSuccessful,
	)

	return m
}

// Push sends every registered metric to a Prometheus Pushgateway under the
// given job name. Batch jobs exit before a scrape could reach them.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).
		Gatherer(m.Registry).
		PushContext(ctx)
}
