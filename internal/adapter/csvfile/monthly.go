package csvfile

import (
	"encoding/csv"
	"io"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// MonthlyHeader is the column layout of the intermediate monthly table.
var MonthlyHeader = []string{"time", "temp", "humidity", "wind", "precip"}

// WriteMonthly writes records at full precision so the yearly stage sees
// the same values it would have computed in memory.
func WriteMonthly(path string, records []domain.MonthlyRecord) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(MonthlyHeader); err != nil {
			return err
		}
		for _, r := range records {
			if err := w.Write([]string{
				r.Time,
				FormatFloat(r.Temp),
				FormatFloat(r.Humidity),
				FormatFloat(r.Wind),
				FormatFloat(r.Precip),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadMonthly loads the monthly table. A missing file yields an error
// wrapping domain.ErrMissingInput.
func ReadMonthly(path string) ([]domain.MonthlyRow, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeMonthly(f, path)
}

// DecodeMonthly parses a monthly table. time is required and must start
// with a year. A blank numeric cell decodes as nil; a malformed value is a
// *domain.ParseError carrying the line.
func DecodeMonthly(r io.Reader, source string) ([]domain.MonthlyRow, error) {
	t, err := readTable(r, source, MonthlyHeader)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MonthlyRow, 0, len(t.rows))
	for i := range t.rows {
		var row domain.MonthlyRow
		if row.Time, err = t.text(i, "time"); err != nil {
			return nil, err
		}
		if _, err := domain.YearKey(row.Time); err != nil {
			return nil, &domain.ParseError{Source: source, Line: t.lines[i], Field: "time", Value: row.Time, Err: err}
		}
		if row.Temp, err = t.optionalFloat(i, "temp"); err != nil {
			return nil, err
		}
		if row.Humidity, err = t.optionalFloat(i, "humidity"); err != nil {
			return nil, err
		}
		if row.Wind, err = t.optionalFloat(i, "wind"); err != nil {
			return nil, err
		}
		if row.Precip, err = t.optionalFloat(i, "precip"); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
