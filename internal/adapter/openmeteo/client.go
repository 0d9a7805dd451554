package openmeteo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
)

// DefaultBaseURL is the public Open-Meteo historical archive endpoint.
const DefaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

const (
	dailyVariables  = "temperature_2m_max,precipitation_sum,wind_speed_10m_max"
	hourlyVariables = "relative_humidity_2m"

	// maxErrorBody bounds how much of a failed response ends up in an error.
	maxErrorBody = 512
)

// Client implements domain.ArchiveSource using the Open-Meteo archive API.
// A failed request is reported once; there is no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an archive client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchArchive retrieves and decodes the daily and hourly series for q.
func (c *Client) FetchArchive(ctx context.Context, q domain.ArchiveQuery) (domain.Archive, error) {
	body, err := c.FetchBody(ctx, q)
	if err != nil {
		return domain.Archive{}, err
	}
	return DecodeArchive(body)
}

// FetchBody performs the archive request and returns the raw JSON body.
func (c *Client) FetchBody(ctx context.Context, q domain.ArchiveQuery) ([]byte, error) {
	fullURL := c.baseURL + "?" + queryParams(q).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ArchiveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ArchiveRequests.WithLabelValues("error").Inc()
		return nil, &domain.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ArchiveRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ArchiveRequests.WithLabelValues("error").Inc()
		return nil, &domain.UpstreamError{Err: fmt.Errorf("read body: %w", err)}
	}
	c.metrics.ArchiveRequests.WithLabelValues("success").Inc()

	c.logger.Debug("archive fetched",
		"start_date", q.StartDate,
		"end_date", q.EndDate,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)
	return body, nil
}

func queryParams(q domain.ArchiveQuery) url.Values {
	return url.Values{
		"latitude":   {strconv.FormatFloat(q.Latitude, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(q.Longitude, 'f', -1, 64)},
		"start_date": {q.StartDate},
		"end_date":   {q.EndDate},
		"daily":      {dailyVariables},
		"hourly":     {hourlyVariables},
		"timezone":   {q.Timezone},
	}
}
