package pipeline

import (
	"context"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// MonthlyLoader writes the intermediate monthly table.
type MonthlyLoader interface {
	LoadMonthly(ctx context.Context, records []domain.MonthlyRecord) error
}

// MonthlyExtractor reads the intermediate monthly table. A missing table is
// reported with an error wrapping domain.ErrMissingInput.
type MonthlyExtractor interface {
	ExtractMonthly(ctx context.Context) ([]domain.MonthlyRow, error)
}

// YearlyLoader writes the yearly summary table.
type YearlyLoader interface {
	LoadYearly(ctx context.Context, records []domain.YearlyRecord) error
}

// BatchLoader publishes a finished yearly batch to an optional sink.
type BatchLoader interface {
	Name() string
	LoadBatch(ctx context.Context, batch domain.YearlyBatch) error
}
