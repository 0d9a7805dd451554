package domain

import (
	"maps"
	"slices"
)

// MonthlyReduction is the result of ReduceMonthly.
type MonthlyReduction struct {
	Records []MonthlyRecord
	// DroppedMonths lists month keys that had no temperature value.
	DroppedMonths []string
}

// DailyHumidity averages the non-missing hourly humidity values per day.
// Days without any value are absent from the result.
func DailyHumidity(hourly []Observation) (map[string]float64, error) {
	type acc struct {
		sum float64
		n   int
	}
	byDay := make(map[string]*acc)
	for _, obs := range hourly {
		if obs.Value == nil {
			continue
		}
		day, err := DayKey(obs.Time)
		if err != nil {
			return nil, withSource(err, "hourly")
		}
		a, ok := byDay[day]
		if !ok {
			a = &acc{}
			byDay[day] = a
		}
		a.sum += *obs.Value
		a.n++
	}

	out := make(map[string]float64, len(byDay))
	for day, a := range byDay {
		out[day] = a.sum / float64(a.n)
	}
	return out, nil
}

// JoinDaily attaches the derived daily humidity to each daily observation.
// Unlike hourly values, a daily row is keyed even when all of its metrics
// are null, so its timestamp must still be a full date.
func JoinDaily(daily []DailyObservation, humidity map[string]float64) ([]DailyRecord, error) {
	out := make([]DailyRecord, 0, len(daily))
	for _, obs := range daily {
		day, err := DayKey(obs.Time)
		if err != nil {
			return nil, withSource(err, "daily")
		}
		rec := DailyRecord{
			Date:   day,
			Temp:   obs.Temp,
			Wind:   obs.Wind,
			Precip: obs.Precip,
		}
		if h, ok := humidity[day]; ok {
			rec.Humidity = &h
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReduceMonthly derives daily humidity from the hourly observations, joins it
// onto the daily observations, and folds every calendar month with policy.
// Months whose temperature fold drops the window are omitted. Records are
// sorted by month ascending. No input yields an empty reduction.
func ReduceMonthly(hourly []Observation, daily []DailyObservation, policy MonthlyPolicy) (MonthlyReduction, error) {
	humidity, err := DailyHumidity(hourly)
	if err != nil {
		return MonthlyReduction{}, err
	}
	days, err := JoinDaily(daily, humidity)
	if err != nil {
		return MonthlyReduction{}, err
	}

	groups := make(map[string][]DailyRecord)
	for _, d := range days {
		month, err := MonthKey(d.Date)
		if err != nil {
			return MonthlyReduction{}, withSource(err, "daily")
		}
		groups[month] = append(groups[month], d)
	}

	var result MonthlyReduction
	for _, month := range slices.Sorted(maps.Keys(groups)) {
		rec, ok := reduceMonth(month, groups[month], policy)
		if !ok {
			result.DroppedMonths = append(result.DroppedMonths, month)
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

func reduceMonth(month string, days []DailyRecord, policy MonthlyPolicy) (MonthlyRecord, bool) {
	temps := make([]*float64, len(days))
	hums := make([]*float64, len(days))
	winds := make([]*float64, len(days))
	precips := make([]*float64, len(days))
	for i, d := range days {
		temps[i] = d.Temp
		hums[i] = d.Humidity
		winds[i] = d.Wind
		precips[i] = d.Precip
	}

	temp, ok := policy.Temp.Apply(temps)
	if !ok {
		return MonthlyRecord{}, false
	}
	humidity, _ := policy.Humidity.Apply(hums)
	wind, _ := policy.Wind.Apply(winds)
	precip, _ := policy.Precip.Apply(precips)

	return MonthlyRecord{
		Time:     month,
		Temp:     temp,
		Humidity: humidity,
		Wind:     wind,
		Precip:   precip,
	}, true
}

// withSource stamps a ParseError with the series it came from.
func withSource(err error, source string) error {
	if pe, ok := err.(*ParseError); ok && pe.Source == "" {
		pe.Source = source
	}
	return err
}
