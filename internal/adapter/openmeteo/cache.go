package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
)

// BodyFetcher returns the raw archive response body for a query.
type BodyFetcher interface {
	FetchBody(ctx context.Context, q domain.ArchiveQuery) ([]byte, error)
}

// CachedSource wraps a BodyFetcher with an on-disk cache of response bodies,
// one file per ArchiveQuery.Key. Archive data for a closed range is
// immutable, so entries never expire.
type CachedSource struct {
	inner   BodyFetcher
	dir     string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedSource creates a cache decorator storing bodies under dir.
func NewCachedSource(inner BodyFetcher, dir string, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		dir:     dir,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchArchive serves q from the cache when possible, otherwise fetches and
// stores the body before decoding it.
func (c *CachedSource) FetchArchive(ctx context.Context, q domain.ArchiveQuery) (domain.Archive, error) {
	path := c.path(q)

	body, err := os.ReadFile(path)
	switch {
	case err == nil:
		archive, decodeErr := DecodeArchive(body)
		if decodeErr == nil {
			c.metrics.ArchiveCache.WithLabelValues("hit").Inc()
			c.logger.Info("archive cache hit", "key", q.Key())
			return archive, nil
		}
		c.logger.Warn("discarding corrupt archive cache entry", "path", path, "error", decodeErr)
	case !errors.Is(err, fs.ErrNotExist):
		c.logger.Warn("archive cache read failed", "path", path, "error", err)
	}
	c.metrics.ArchiveCache.WithLabelValues("miss").Inc()

	body, err = c.inner.FetchBody(ctx, q)
	if err != nil {
		return domain.Archive{}, err
	}
	archive, err := DecodeArchive(body)
	if err != nil {
		return domain.Archive{}, err
	}

	// Only decodable bodies are stored; a failed write costs a refetch next run.
	if err := c.store(path, body); err != nil {
		c.logger.Warn("archive cache write failed", "path", path, "error", err)
	}
	return archive, nil
}

func (c *CachedSource) path(q domain.ArchiveQuery) string {
	return filepath.Join(c.dir, q.Key()+".json")
}

func (c *CachedSource) store(path string, body []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, ".archive-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
