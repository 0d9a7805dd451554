package csvfile

import (
	"context"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// MonthlyFile is the on-disk intermediate monthly table. It implements
// pipeline.MonthlyLoader and pipeline.MonthlyExtractor.
type MonthlyFile struct {
	Path string
}

func (f MonthlyFile) LoadMonthly(_ context.Context, records []domain.MonthlyRecord) error {
	return WriteMonthly(f.Path, records)
}

func (f MonthlyFile) ExtractMonthly(_ context.Context) ([]domain.MonthlyRow, error) {
	return ReadMonthly(f.Path)
}

// YearlyFile is the on-disk yearly summary. It implements pipeline.YearlyLoader.
type YearlyFile struct {
	Path string
}

func (f YearlyFile) LoadYearly(_ context.Context, records []domain.YearlyRecord) error {
	return WriteYearly(f.Path, records)
}
