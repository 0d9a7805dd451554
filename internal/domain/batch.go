package domain

import "time"

// YearlyBatch is one run's yearly summary as handed to the optional sinks.
// Records are already rounded for presentation.
type YearlyBatch struct {
	RunID       string
	GeneratedAt time.Time
	Baseline    Baseline
	Records     []YearlyRecord
}
