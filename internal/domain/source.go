package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ArchiveQuery selects one location and date range from the archive.
type ArchiveQuery struct {
	Latitude  float64
	Longitude float64
	StartDate string // "YYYY-MM-DD", inclusive
	EndDate   string // "YYYY-MM-DD", inclusive
	Timezone  string // IANA name, e.g. "America/New_York"
}

// Key returns a deterministic identifier for the query. Archive data for a
// closed date range never changes, so the key is safe to cache on.
func (q ArchiveQuery) Key() string {
	input := fmt.Sprintf("%.4f|%.4f|%s|%s|%s", q.Latitude, q.Longitude, q.StartDate, q.EndDate, q.Timezone)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:12])
}

// ArchiveSource retrieves raw observation series.
type ArchiveSource interface {
	FetchArchive(ctx context.Context, q ArchiveQuery) (Archive, error)
}
