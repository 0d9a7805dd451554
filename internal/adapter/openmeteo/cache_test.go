package openmeteo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
	"github.com/couchcryptid/climate-anomaly-etl/internal/observability"
)

// --- mock for cache tests ---

type countingFetcher struct {
	calls int
	body  []byte
	err   error
}

func (f *countingFetcher) FetchBody(_ context.Context, _ domain.ArchiveQuery) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

// --- CachedSource tests ---

func TestCachedSource_HitSkipsFetch(t *testing.T) {
	inner := &countingFetcher{body: []byte(sampleBody)}
	m := observability.NewMetrics()
	cached := NewCachedSource(inner, t.TempDir(), m, testLogger())

	a1, err := cached.FetchArchive(context.Background(), testQuery)
	require.NoError(t, err)

	a2, err := cached.FetchArchive(context.Background(), testQuery)
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArchiveCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArchiveCache.WithLabelValues("hit")))
}

func TestCachedSource_DifferentQueriesMiss(t *testing.T) {
	inner := &countingFetcher{body: []byte(sampleBody)}
	cached := NewCachedSource(inner, t.TempDir(), observability.NewMetrics(), testLogger())

	other := testQuery
	other.EndDate = "2020-12-31"

	_, err := cached.FetchArchive(context.Background(), testQuery)
	require.NoError(t, err)
	_, err = cached.FetchArchive(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_FileNamedByQueryKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	inner := &countingFetcher{body: []byte(sampleBody)}
	cached := NewCachedSource(inner, dir, observability.NewMetrics(), testLogger())

	_, err := cached.FetchArchive(context.Background(), testQuery)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, testQuery.Key()+".json"))
	require.NoError(t, err)
	assert.JSONEq(t, sampleBody, string(got))
}

func TestCachedSource_ErrorNotCached(t *testing.T) {
	dir := t.TempDir()
	inner := &countingFetcher{err: &domain.UpstreamError{Status: 500, Body: "boom"}}
	cached := NewCachedSource(inner, dir, observability.NewMetrics(), testLogger())

	_, err := cached.FetchArchive(context.Background(), testQuery)
	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCachedSource_UndecodableBodyNotCached(t *testing.T) {
	dir := t.TempDir()
	inner := &countingFetcher{body: []byte("not json")}
	cached := NewCachedSource(inner, dir, observability.NewMetrics(), testLogger())

	_, err := cached.FetchArchive(context.Background(), testQuery)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, testQuery.Key()+".json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCachedSource_CorruptEntryRefetched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, testQuery.Key()+".json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	inner := &countingFetcher{body: []byte(sampleBody)}
	cached := NewCachedSource(inner, dir, observability.NewMetrics(), testLogger())

	archive, err := cached.FetchArchive(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Len(t, archive.Daily.Time, 2)
	assert.Equal(t, 1, inner.calls)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, sampleBody, string(got))
}
