package pipeline

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// WriteReport prints the baseline block followed by the first and last
// preview rows of the yearly table. A table no longer than twice preview
// still prints both blocks, overlapping.
func WriteReport(w io.Writer, b domain.Baseline, rows []domain.YearlyRecord, preview int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "Baseline period: %d-%d\n", b.Window.Start, b.Window.End)
	fmt.Fprintf(tw, "Baseline temperature: %.4f\n", b.Temp)
	if b.Fallback {
		fmt.Fprintf(tw, "(no years in baseline period, mean of all %d years used)\n", b.Years)
	}

	if preview > 0 {
		fmt.Fprintf(tw, "\nFirst %d rows:\n", preview)
		writeRows(tw, rows[:min(preview, len(rows))])
		fmt.Fprintf(tw, "\nLast %d rows:\n", preview)
		writeRows(tw, rows[max(0, len(rows)-preview):])
	}
	return tw.Flush()
}

func writeRows(tw *tabwriter.Writer, rows []domain.YearlyRecord) {
	fmt.Fprintln(tw, "year\ttemp\ttemp_anomaly\twind\tprecip\thumidity\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Year,
			formatCell(r.Temp),
			formatCell(r.TempAnomaly),
			formatCell(r.Wind),
			formatCell(r.Precip),
			formatCell(r.Humidity),
		)
	}
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
