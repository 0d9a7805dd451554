package domain

import (
	"math"
	"strconv"
)

const (
	dayKeyLen   = 10 // "YYYY-MM-DD"
	monthKeyLen = 7  // "YYYY-MM"
	yearKeyLen  = 4  // "YYYY"
)

// DayKey truncates a timestamp to its date.
func DayKey(ts string) (string, error) {
	return prefix(ts, dayKeyLen, "day")
}

// MonthKey truncates a timestamp to its year and month.
func MonthKey(ts string) (string, error) {
	return prefix(ts, monthKeyLen, "month")
}

// YearKey parses the first four characters of a timestamp as a year.
func YearKey(ts string) (int, error) {
	p, err := prefix(ts, yearKeyLen, "year")
	if err != nil {
		return 0, err
	}
	year, err := strconv.Atoi(p)
	if err != nil {
		return 0, &ParseError{Field: "year", Value: ts, Err: err}
	}
	return year, nil
}

func prefix(ts string, n int, field string) (string, error) {
	if len(ts) < n {
		return "", &ParseError{Field: field, Value: ts, Err: ErrShortTimestamp}
	}
	return ts[:n], nil
}

// Round rounds v to places decimals, ties to even. Negative zero is
// normalized so it never prints as "-0".
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	r := math.RoundToEven(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
