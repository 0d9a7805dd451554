// Package domain models the climate summary produced from the Open-Meteo
// historical weather archive.
//
// # Data Source
//
// Observations come from the Open-Meteo archive API
// (https://archive-api.open-meteo.com/v1/archive). One request covers the
// whole configured range and returns two sections, "daily" and "hourly".
// Each section holds a "time" array and one array per requested metric.
// Arrays are index-aligned with "time" and may contain null:
//
//	daily.temperature_2m_max   degrees C, daily maximum
//	daily.wind_speed_10m_max   wind speed at 10m, daily maximum
//	daily.precipitation_sum    mm, daily total
//	hourly.relative_humidity_2m percent
//
// Timestamps are local to the requested timezone: "YYYY-MM-DD" for daily
// rows and "YYYY-MM-DDTHH:MM" for hourly rows.
//
// # Grouping Keys
//
// Keys are always derived from timestamp prefixes, never supplied:
//
//	day   = first 10 characters  "1950-01-31"
//	month = first 7 characters   "1950-01"
//	year  = first 4 characters   1950 (parsed as an integer)
//
// A timestamp too short for its key, or a year prefix that is not an
// integer, is a [ParseError].
//
// # Monthly Reduction
//
// Hourly humidity is averaged per day, attached to the matching daily row,
// and daily rows are folded per month with one [Fold] per field:
//
//	temp      mean, month dropped when no value exists
//	humidity  mean, else 60.0
//	wind      mean, else 3.0
//	precip    sum,  else 0.0
//
// Daily metric arrays are joined positionally with the time array, and the
// shortest array bounds the join. See [DailySeries.Observations].
//
// # Yearly Aggregation and Anomaly
//
// Monthly rows are grouped by year and every field is averaged. Precipitation
// is therefore the average monthly total for the year, not an annual sum;
// the downstream visualization scales on that value.
//
// The baseline is the mean yearly temperature over the closed window
// [1945, 1975]. When no year falls inside the window the mean over all years
// is used and [Baseline.Fallback] is set. Anomalies are computed from
// unrounded means; rounding to three places happens only when rows are
// written or printed.
package domain
