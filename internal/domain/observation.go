package domain

import (
	"fmt"
	"time"
)

// Observation is one timestamped reading of a single metric.
// A nil Value is a missing reading and never counts as zero.
type Observation struct {
	Time  string
	Value *float64
}

// DailyObservation is one row of the daily section after the positional join.
type DailyObservation struct {
	Time   string
	Temp   *float64
	Wind   *float64
	Precip *float64
}

// HourlySeries is the hourly section of an archive response.
type HourlySeries struct {
	Time     []string
	Humidity []*float64
}

// DailySeries is the daily section of an archive response.
type DailySeries struct {
	Time   []string
	Temp   []*float64
	Wind   []*float64
	Precip []*float64
}

// Archive is everything the monthly stage needs from the upstream source.
type Archive struct {
	Hourly HourlySeries
	Daily  DailySeries
}

// Observations zips the time and humidity arrays. The shorter array bounds
// the result unless strict is set, in which case a length mismatch is a
// ParseError.
func (s HourlySeries) Observations(strict bool) ([]Observation, error) {
	n, err := alignedLen("hourly", strict, []seriesLen{
		{"time", len(s.Time)},
		{"relative_humidity_2m", len(s.Humidity)},
	})
	if err != nil {
		return nil, err
	}

	out := make([]Observation, n)
	for i := range n {
		out[i] = Observation{Time: s.Time[i], Value: s.Humidity[i]}
	}
	return out, nil
}

// Observations zips the time, temperature, wind and precipitation arrays.
// The shortest array bounds the result unless strict is set.
func (s DailySeries) Observations(strict bool) ([]DailyObservation, error) {
	n, err := alignedLen("daily", strict, []seriesLen{
		{"time", len(s.Time)},
		{"temperature_2m_max", len(s.Temp)},
		{"wind_speed_10m_max", len(s.Wind)},
		{"precipitation_sum", len(s.Precip)},
	})
	if err != nil {
		return nil, err
	}

	out := make([]DailyObservation, n)
	for i := range n {
		out[i] = DailyObservation{
			Time:   s.Time[i],
			Temp:   s.Temp[i],
			Wind:   s.Wind[i],
			Precip: s.Precip[i],
		}
	}
	return out, nil
}

type seriesLen struct {
	name string
	n    int
}

// alignedLen returns the shortest of the array lengths. Under strict
// alignment every array must match the time array.
func alignedLen(section string, strict bool, lengths []seriesLen) (int, error) {
	n := lengths[0].n
	for _, l := range lengths[1:] {
		if strict && l.n != lengths[0].n {
			return 0, &ParseError{
				Source: section,
				Field:  l.name,
				Value:  fmt.Sprintf("len=%d time=%d", l.n, lengths[0].n),
				Err:    ErrMisaligned,
			}
		}
		n = min(n, l.n)
	}
	return n, nil
}

// DailyRecord is a daily row with its derived humidity attached.
type DailyRecord struct {
	Date     string
	Temp     *float64
	Wind     *float64
	Precip   *float64
	Humidity *float64
}

// MonthlyRecord is one row of the intermediate monthly table. Time is
// "YYYY-MM", or "YYYY-MM-DD" when daily rows are fed straight to the
// yearly stage.
type MonthlyRecord struct {
	Time     string  `json:"time"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Wind     float64 `json:"wind"`
	Precip   float64 `json:"precip"`
}

// Row returns r as a MonthlyRow with every field present.
func (r MonthlyRecord) Row() MonthlyRow {
	return MonthlyRow{
		Time:     r.Time,
		Temp:     &r.Temp,
		Humidity: &r.Humidity,
		Wind:     &r.Wind,
		Precip:   &r.Precip,
	}
}

// MonthlyRow is a row read back from the monthly table as input to the
// yearly stage. A blank cell is nil and is left out of the yearly means.
type MonthlyRow struct {
	Time     string
	Temp     *float64
	Humidity *float64
	Wind     *float64
	Precip   *float64
}

// Rows converts reduced monthly records into yearly-stage input.
func Rows(records []MonthlyRecord) []MonthlyRow {
	out := make([]MonthlyRow, len(records))
	for i, r := range records {
		out[i] = r.Row()
	}
	return out
}

// YearlyRecord is one row of the yearly summary.
type YearlyRecord struct {
	Year        int     `json:"year"`
	Temp        float64 `json:"temp"`
	TempAnomaly float64 `json:"temp_anomaly"`
	Wind        float64 `json:"wind"`
	Precip      float64 `json:"precip"`
	Humidity    float64 `json:"humidity"`
}

// Rounded returns a copy with every numeric field rounded to places.
func (r YearlyRecord) Rounded(places int) YearlyRecord {
	return YearlyRecord{
		Year:        r.Year,
		Temp:        Round(r.Temp, places),
		TempAnomaly: Round(r.TempAnomaly, places),
		Wind:        Round(r.Wind, places),
		Precip:      Round(r.Precip, places),
		Humidity:    Round(r.Humidity, places),
	}
}

// BaselineWindow is the closed interval of years defining the anomaly zero point.
type BaselineWindow struct {
	Start int
	End   int
}

// Contains reports whether year lies inside the window, bounds included.
func (w BaselineWindow) Contains(year int) bool {
	return year >= w.Start && year <= w.End
}

// Baseline is the reference temperature used for anomalies.
type Baseline struct {
	Window BaselineWindow
	Temp   float64
	// Years is the number of yearly rows that contributed to Temp.
	Years int
	// Fallback is set when no year fell inside Window and Temp is the mean
	// over every year instead.
	Fallback bool
}

// YearlySummary is the output of the yearly stage.
type YearlySummary struct {
	Years       []YearlyRecord
	Baseline    Baseline
	GeneratedAt time.Time
}
