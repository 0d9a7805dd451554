// Command genarchive writes a deterministic synthetic archive response so the
// monthly job can run without network access. The file is named by the
// query key, so pointing ARCHIVE_CACHE_DIR at the output directory makes the
// monthly job read it as a cache hit.
//
// Usage:
//
//	go run ./cmd/genarchive \
//	  -start 1945-01-01 -end 2024-12-31 \
//	  -out-dir data/archive-cache
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/openmeteo"
	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	lat := flag.Float64("lat", 39.95, "latitude")
	lon := flag.Float64("lon", -75.16, "longitude")
	start := flag.String("start", "1945-01-01", "first day, YYYY-MM-DD")
	end := flag.String("end", "2024-12-31", "last day, YYYY-MM-DD")
	tz := flag.String("timezone", "America/New_York", "IANA timezone recorded in the query")
	outDir := flag.String("out-dir", "", "directory to write <query-key>.json into")
	seed := flag.Uint64("seed", 1945, "random seed")
	gapRate := flag.Float64("gap-rate", 0.01, "fraction of values emitted as null")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	q := domain.ArchiveQuery{Latitude: *lat, Longitude: *lon, StartDate: *start, EndDate: *end, Timezone: *tz}
	archive, err := synthesize(q, rand.New(rand.NewPCG(*seed, *seed>>1|1)), *gapRate)
	if err != nil {
		return err
	}

	data, err := openmeteo.EncodeArchive(archive)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(*outDir, q.Key()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	log.Printf("%d days, %d hours written to %s", len(archive.Daily.Time), len(archive.Hourly.Time), path)
	return nil
}

// synthesize builds a seasonal temperature curve with a slow warming trend,
// noisy wind and humidity, and sparse rain.
func synthesize(q domain.ArchiveQuery, rng *rand.Rand, gapRate float64) (domain.Archive, error) {
	first, err := time.Parse(time.DateOnly, q.StartDate)
	if err != nil {
		return domain.Archive{}, fmt.Errorf("parse start: %w", err)
	}
	last, err := time.Parse(time.DateOnly, q.EndDate)
	if err != nil {
		return domain.Archive{}, fmt.Errorf("parse end: %w", err)
	}
	if last.Before(first) {
		return domain.Archive{}, fmt.Errorf("end %s before start %s", q.EndDate, q.StartDate)
	}

	maybe := func(v float64) *float64 {
		if rng.Float64() < gapRate {
			return nil
		}
		v = math.Round(v*10) / 10
		return &v
	}

	var a domain.Archive
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		years := day.Sub(first).Hours() / 24 / 365.25
		season := math.Cos(2 * math.Pi * (float64(day.YearDay()) - 200) / 365.25)

		temp := 18 + 12*season + 0.02*years + rng.NormFloat64()*3
		wind := 15 + rng.NormFloat64()*4
		precip := 0.0
		if rng.Float64() < 0.3 {
			precip = rng.ExpFloat64() * 6
		}

		ts := day.Format(time.DateOnly)
		a.Daily.Time = append(a.Daily.Time, ts)
		a.Daily.Temp = append(a.Daily.Temp, maybe(temp))
		a.Daily.Wind = append(a.Daily.Wind, maybe(math.Max(wind, 0)))
		a.Daily.Precip = append(a.Daily.Precip, maybe(precip))

		for hour := range 24 {
			humidity := 65 - 10*season + rng.NormFloat64()*8
			a.Hourly.Time = append(a.Hourly.Time, fmt.Sprintf("%sT%02d:00", ts, hour))
			a.Hourly.Humidity = append(a.Hourly.Humidity, maybe(math.Min(math.Max(humidity, 0), 100)))
		}
	}
	return a, nil
}
