// Command validate performs offline integrity checks between the monthly
// table and the yearly summary derived from it. It re-aggregates the monthly
// rows and verifies the persisted yearly table: header layout, row count,
// year ordering, per-field values at the output precision, and the anomaly
// identity temp_anomaly == round(temp - baseline).
//
// Usage:
//
//	go run ./cmd/validate \
//	  -monthly philly_weather_monthly_1945_2024.csv \
//	  -yearly yearly_climate_summary.csv \
//	  -baseline-start 1945 -baseline-end 1975
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/couchcryptid/climate-anomaly-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	monthlyPath string
	yearlyPath  string
	window      domain.BaselineWindow
	precision   int
}

func main() {
	def := domain.DefaultBaselineWindow()
	monthly := flag.String("monthly", "", "path to the monthly CSV")
	yearly := flag.String("yearly", "", "path to the yearly summary CSV")
	start := flag.Int("baseline-start", def.Start, "first year of the baseline period")
	end := flag.Int("baseline-end", def.End, "last year of the baseline period")
	precision := flag.Int("precision", 3, "decimal places used in the yearly CSV")
	flag.Parse()

	if *monthly == "" || *yearly == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, options{
		monthlyPath: *monthly,
		yearlyPath:  *yearly,
		window:      domain.BaselineWindow{Start: *start, End: *end},
		precision:   *precision,
	}))
}

func run(out io.Writer, opts options) int {
	fmt.Fprintln(out, "=== Climate Summary Integrity Validation ===")
	fmt.Fprintln(out)

	// ── Load both tables ──
	header, err := readHeader(opts.yearlyPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: read yearly header: %v\n", err)
		return 1
	}
	monthly, err := csvfile.ReadMonthly(opts.monthlyPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load monthly CSV: %v\n", err)
		return 1
	}
	yearly, err := csvfile.ReadYearly(opts.yearlyPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load yearly CSV: %v\n", err)
		return 1
	}

	summary, err := domain.SummarizeYearly(monthly, opts.window)
	if err != nil {
		fmt.Fprintf(out, "FATAL: re-aggregate monthly rows: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateSchema(header),
		validateOrdering(yearly),
		validateValues(yearly, summary, opts.precision),
		validateAnomaly(yearly, summary, opts.precision),
	}

	// ── Report results ──
	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d monthly, %d yearly (expected %d)\n", len(monthly), len(yearly), len(summary.Years))
	fmt.Fprintf(out, "Baseline %d-%d: %.4f", opts.window.Start, opts.window.End, summary.Baseline.Temp)
	if summary.Baseline.Fallback {
		fmt.Fprint(out, " (fallback: mean of all years)")
	}
	fmt.Fprintln(out)

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).Read()
}

// ── Phase 1: Schema ──

func validateSchema(header []string) *phase {
	p := &phase{name: "Phase 1: Schema (yearly header)"}
	if !slices.Equal(header, csvfile.YearlyHeader) {
		p.errorf("header %v, want %v", header, csvfile.YearlyHeader)
	}
	return p
}

// ── Phase 2: Ordering ──
// Years must be unique and ascending.

func validateOrdering(yearly []domain.YearlyRecord) *phase {
	p := &phase{name: "Phase 2: Ordering (unique ascending years)"}
	for i := 1; i < len(yearly); i++ {
		if yearly[i].Year <= yearly[i-1].Year {
			p.errorf("row %d: year %d follows %d", i+2, yearly[i].Year, yearly[i-1].Year)
		}
	}
	return p
}

// ── Phase 3: Values ──
// The persisted table must equal a fresh aggregation rounded the same way.

func validateValues(yearly []domain.YearlyRecord, summary domain.YearlySummary, precision int) *phase {
	p := &phase{name: "Phase 3: Values (re-aggregated monthly)"}

	expected := summary.Rounded(precision)
	if len(yearly) != len(expected) {
		p.errorf("row count: expected %d, got %d", len(expected), len(yearly))
	}

	byYear := make(map[int]domain.YearlyRecord, len(yearly))
	for _, r := range yearly {
		byYear[r.Year] = r
	}
	for _, want := range expected {
		got, ok := byYear[want.Year]
		if !ok {
			p.errorf("year %d: missing from yearly CSV", want.Year)
			continue
		}
		compareField(p, want.Year, "temp", want.Temp, got.Temp)
		compareField(p, want.Year, "temp_anomaly", want.TempAnomaly, got.TempAnomaly)
		compareField(p, want.Year, "wind", want.Wind, got.Wind)
		compareField(p, want.Year, "precip", want.Precip, got.Precip)
		compareField(p, want.Year, "humidity", want.Humidity, got.Humidity)
	}
	return p
}

// ── Phase 4: Anomaly identity ──
// temp_anomaly must come from the unrounded mean and baseline, so it can
// differ from temp - baseline computed on the rounded column.

func validateAnomaly(yearly []domain.YearlyRecord, summary domain.YearlySummary, precision int) *phase {
	p := &phase{name: "Phase 4: Anomaly (temp - baseline)"}

	unrounded := make(map[int]float64, len(summary.Years))
	for _, y := range summary.Years {
		unrounded[y.Year] = y.Temp
	}
	for _, r := range yearly {
		temp, ok := unrounded[r.Year]
		if !ok {
			p.errorf("year %d: not present in monthly input", r.Year)
			continue
		}
		want := domain.Round(temp-summary.Baseline.Temp, precision)
		compareField(p, r.Year, "temp_anomaly", want, r.TempAnomaly)
	}
	return p
}

func compareField(p *phase, year int, field string, want, got float64) {
	if math.Abs(want-got) > 1e-9 {
		p.errorf("year %d %s: expected %v, got %v", year, field, want, got)
	}
}
