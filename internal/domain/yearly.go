package domain

import (
	"maps"
	"slices"
)

// DefaultBaselineWindow is the reference period 1945-1975.
func DefaultBaselineWindow() BaselineWindow {
	return BaselineWindow{Start: 1945, End: 1975}
}

// AggregateYearly groups rows by the year prefix of their time key and
// averages every field over its present values, using NewYearlyPolicy with
// the default fallbacks. A year with no temperature at all is omitted.
// TempAnomaly is left zero. Any row whose year cannot be derived fails the
// whole aggregation.
func AggregateYearly(rows []MonthlyRow) ([]YearlyRecord, error) {
	policy := NewYearlyPolicy(DefaultFallbacks())

	type fields struct {
		temp, humidity, wind, precip []*float64
	}
	byYear := make(map[int]*fields)
	for i, row := range rows {
		year, err := YearKey(row.Time)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Source = "yearly input"
				pe.Line = i + 1
			}
			return nil, err
		}
		f, ok := byYear[year]
		if !ok {
			f = &fields{}
			byYear[year] = f
		}
		f.temp = append(f.temp, row.Temp)
		f.humidity = append(f.humidity, row.Humidity)
		f.wind = append(f.wind, row.Wind)
		f.precip = append(f.precip, row.Precip)
	}

	out := make([]YearlyRecord, 0, len(byYear))
	for _, year := range slices.Sorted(maps.Keys(byYear)) {
		f := byYear[year]
		temp, ok := policy.Temp.Apply(f.temp)
		if !ok {
			continue
		}
		humidity, _ := policy.Humidity.Apply(f.humidity)
		wind, _ := policy.Wind.Apply(f.wind)
		precip, _ := policy.Precip.Apply(f.precip)
		out = append(out, YearlyRecord{
			Year:     year,
			Temp:     temp,
			Humidity: humidity,
			Wind:     wind,
			Precip:   precip,
		})
	}
	return out, nil
}

// ComputeBaseline averages the temperature of the years inside window. With
// no year inside the window it averages every year and sets Fallback. An
// empty input yields a zero Temp with Fallback set.
func ComputeBaseline(years []YearlyRecord, window BaselineWindow) Baseline {
	b := Baseline{Window: window}

	var sum float64
	for _, y := range years {
		if window.Contains(y.Year) {
			sum += y.Temp
			b.Years++
		}
	}
	if b.Years > 0 {
		b.Temp = sum / float64(b.Years)
		return b
	}

	b.Fallback = true
	for _, y := range years {
		sum += y.Temp
	}
	b.Years = len(years)
	if b.Years > 0 {
		b.Temp = sum / float64(b.Years)
	}
	return b
}

// ApplyAnomaly returns a copy of years with TempAnomaly set against b.
func ApplyAnomaly(years []YearlyRecord, b Baseline) []YearlyRecord {
	out := make([]YearlyRecord, len(years))
	for i, y := range years {
		y.TempAnomaly = y.Temp - b.Temp
		out[i] = y
	}
	return out
}

// SummarizeYearly runs the whole yearly stage on unrounded values.
func SummarizeYearly(rows []MonthlyRow, window BaselineWindow) (YearlySummary, error) {
	years, err := AggregateYearly(rows)
	if err != nil {
		return YearlySummary{}, err
	}
	baseline := ComputeBaseline(years, window)
	return YearlySummary{
		Years:       ApplyAnomaly(years, baseline),
		Baseline:    baseline,
		GeneratedAt: clock.Now(),
	}, nil
}

// Rounded returns the summary's years rounded to places.
func (s YearlySummary) Rounded(places int) []YearlyRecord {
	out := make([]YearlyRecord, len(s.Years))
	for i, y := range s.Years {
		out[i] = y.Rounded(places)
	}
	return out
}
