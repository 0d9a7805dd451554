package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

func writeFixtures(t *testing.T) options {
	t.Helper()
	dir := t.TempDir()
	opts := options{
		monthlyPath: filepath.Join(dir, "monthly.csv"),
		yearlyPath:  filepath.Join(dir, "yearly.csv"),
		window:      domain.BaselineWindow{Start: 2000, End: 2001},
		precision:   3,
	}

	monthly := []domain.MonthlyRecord{
		{Time: "2000-01", Temp: 5, Humidity: 60, Wind: 3, Precip: 2},
		{Time: "2000-02", Temp: 7, Humidity: 60, Wind: 3, Precip: 4},
		{Time: "2001-01", Temp: 19, Humidity: 60, Wind: 3, Precip: 2},
		{Time: "2001-02", Temp: 21, Humidity: 60, Wind: 3, Precip: 4},
	}
	require.NoError(t, csvfile.WriteMonthly(opts.monthlyPath, monthly))

	summary, err := domain.SummarizeYearly(domain.Rows(monthly), opts.window)
	require.NoError(t, err)
	require.NoError(t, csvfile.WriteYearly(opts.yearlyPath, summary.Rounded(3)))
	return opts
}

func TestRun_Passes(t *testing.T) {
	opts := writeFixtures(t)
	var out bytes.Buffer

	assert.Equal(t, 0, run(&out, opts))
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Baseline 2000-2001: 13.0000")
}

func TestRun_DetectsTamperedAnomaly(t *testing.T) {
	opts := writeFixtures(t)
	require.NoError(t, csvfile.WriteYearly(opts.yearlyPath, []domain.YearlyRecord{
		{Year: 2000, Temp: 6, TempAnomaly: -6.5, Wind: 3, Precip: 3, Humidity: 60},
		{Year: 2001, Temp: 20, TempAnomaly: 7, Wind: 3, Precip: 3, Humidity: 60},
	}))
	var out bytes.Buffer

	assert.Equal(t, 1, run(&out, opts))
	assert.Contains(t, out.String(), "year 2000 temp_anomaly: expected -7, got -6.5")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_DetectsMissingYearAndOrder(t *testing.T) {
	opts := writeFixtures(t)
	require.NoError(t, csvfile.WriteYearly(opts.yearlyPath, []domain.YearlyRecord{
		{Year: 2001, Temp: 20, TempAnomaly: 7, Wind: 3, Precip: 3, Humidity: 60},
		{Year: 2001, Temp: 20, TempAnomaly: 7, Wind: 3, Precip: 3, Humidity: 60},
	}))
	var out bytes.Buffer

	assert.Equal(t, 1, run(&out, opts))
	assert.Contains(t, out.String(), "year 2000: missing from yearly CSV")
	assert.Contains(t, out.String(), "year 2001 follows 2001")
}

func TestRun_DetectsWrongHeader(t *testing.T) {
	opts := writeFixtures(t)
	require.NoError(t, os.WriteFile(opts.yearlyPath,
		[]byte("year,temp_anomaly,temp,wind,precip,humidity\n2000,-7.0,6.0,3.0,3.0,60.0\n2001,7.0,20.0,3.0,3.0,60.0\n"), 0o644))
	var out bytes.Buffer

	assert.Equal(t, 1, run(&out, opts))
	assert.Contains(t, out.String(), "Phase 1: Schema")
	assert.Contains(t, out.String(), "FAIL")
}

func TestRun_MissingMonthly(t *testing.T) {
	opts := writeFixtures(t)
	opts.monthlyPath = filepath.Join(t.TempDir(), "absent.csv")
	var out bytes.Buffer

	assert.Equal(t, 1, run(&out, opts))
	assert.Contains(t, out.String(), "FATAL: load monthly CSV")
}
