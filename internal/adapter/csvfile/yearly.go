package csvfile

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// YearlyHeader is the column layout of the yearly summary.
var YearlyHeader = []string{"year", "temp", "temp_anomaly", "wind", "precip", "humidity"}

// WriteYearly writes records as given. Callers round before writing.
func WriteYearly(path string, records []domain.YearlyRecord) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(YearlyHeader); err != nil {
			return err
		}
		for _, r := range records {
			if err := w.Write([]string{
				strconv.Itoa(r.Year),
				FormatFloat(r.Temp),
				FormatFloat(r.TempAnomaly),
				FormatFloat(r.Wind),
				FormatFloat(r.Precip),
				FormatFloat(r.Humidity),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadYearly loads a yearly summary written by WriteYearly.
func ReadYearly(path string) ([]domain.YearlyRecord, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeYearly(f, path)
}

// DecodeYearly parses a yearly summary table.
func DecodeYearly(r io.Reader, source string) ([]domain.YearlyRecord, error) {
	t, err := readTable(r, source, YearlyHeader)
	if err != nil {
		return nil, err
	}

	out := make([]domain.YearlyRecord, 0, len(t.rows))
	for i := range t.rows {
		var rec domain.YearlyRecord
		if rec.Year, err = t.integer(i, "year"); err != nil {
			return nil, err
		}
		if rec.Temp, err = t.float(i, "temp"); err != nil {
			return nil, err
		}
		if rec.TempAnomaly, err = t.float(i, "temp_anomaly"); err != nil {
			return nil, err
		}
		if rec.Wind, err = t.float(i, "wind"); err != nil {
			return nil, err
		}
		if rec.Precip, err = t.float(i, "precip"); err != nil {
			return nil, err
		}
		if rec.Humidity, err = t.float(i, "humidity"); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
