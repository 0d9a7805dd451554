package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func defaultPolicy() MonthlyPolicy {
	return NewMonthlyPolicy(DefaultFallbacks())
}

func TestDailyHumidity(t *testing.T) {
	hourly := []Observation{
		{Time: "1950-01-01T00:00", Value: ptr(80)},
		{Time: "1950-01-01T01:00", Value: ptr(70)},
		{Time: "1950-01-01T02:00", Value: nil},
		{Time: "1950-01-02T00:00", Value: nil},
		{Time: "1950-01-03T00:00", Value: ptr(50)},
	}

	got, err := DailyHumidity(hourly)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"1950-01-01": 75,
		"1950-01-03": 50,
	}, got)
}

func TestDailyHumidity_NullRowsSkipKeyDerivation(t *testing.T) {
	// A null value is dropped before its timestamp is inspected.
	got, err := DailyHumidity([]Observation{{Time: "bad", Value: nil}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDailyHumidity_ShortTimestamp(t *testing.T) {
	_, err := DailyHumidity([]Observation{{Time: "1950-01", Value: ptr(1)}})

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "hourly", pe.Source)
	assert.ErrorIs(t, err, ErrShortTimestamp)
}

func TestJoinDaily(t *testing.T) {
	daily := []DailyObservation{
		{Time: "1950-01-01", Temp: ptr(5), Wind: ptr(2), Precip: ptr(1)},
		{Time: "1950-01-02", Temp: ptr(6)},
	}
	got, err := JoinDaily(daily, map[string]float64{"1950-01-01": 75})
	require.NoError(t, err)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].Humidity)
	assert.Equal(t, 75.0, *got[0].Humidity)
	assert.Nil(t, got[1].Humidity)
	assert.Equal(t, "1950-01-02", got[1].Date)
}

func TestJoinDaily_NullRowStillKeyed(t *testing.T) {
	_, err := JoinDaily([]DailyObservation{{Time: "1950-01"}}, nil)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(err, ErrShortTimestamp))
	assert.Equal(t, "daily", pe.Source)
}

func TestReduceMonthly(t *testing.T) {
	hourly := []Observation{
		{Time: "1950-01-01T00:00", Value: ptr(80)},
		{Time: "1950-01-01T12:00", Value: ptr(60)},
		{Time: "1950-01-02T00:00", Value: ptr(50)},
	}
	daily := []DailyObservation{
		{Time: "1950-01-01", Temp: ptr(4), Wind: ptr(5), Precip: ptr(1.5)},
		{Time: "1950-01-02", Temp: ptr(6), Wind: nil, Precip: ptr(2.5)},
		{Time: "1950-02-01", Temp: ptr(10), Wind: nil, Precip: nil},
	}

	got, err := ReduceMonthly(hourly, daily, defaultPolicy())
	require.NoError(t, err)

	want := []MonthlyRecord{
		{Time: "1950-01", Temp: 5, Humidity: 60, Wind: 5, Precip: 4},
		{Time: "1950-02", Temp: 10, Humidity: 60, Wind: 3, Precip: 0},
	}
	if diff := cmp.Diff(want, got.Records); diff != "" {
		t.Errorf("ReduceMonthly() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, got.DroppedMonths)
}

func TestReduceMonthly_HumidityFromHourlyMean(t *testing.T) {
	hourly := []Observation{
		{Time: "1950-03-01T00:00", Value: ptr(90)},
		{Time: "1950-03-01T01:00", Value: ptr(70)},
		{Time: "1950-03-02T00:00", Value: ptr(40)},
	}
	daily := []DailyObservation{
		{Time: "1950-03-01", Temp: ptr(1)},
		{Time: "1950-03-02", Temp: ptr(1)},
		{Time: "1950-03-03", Temp: ptr(1)},
	}

	got, err := ReduceMonthly(hourly, daily, defaultPolicy())
	require.NoError(t, err)

	require.Len(t, got.Records, 1)
	// Day means are 80 and 40; the third day has no hourly data.
	assert.Equal(t, 60.0, got.Records[0].Humidity)
}

func TestReduceMonthly_DropsMonthWithoutTemperature(t *testing.T) {
	daily := []DailyObservation{
		{Time: "1950-01-01", Temp: ptr(3)},
		{Time: "1950-02-01", Temp: nil, Wind: ptr(4), Precip: ptr(9)},
		{Time: "1950-02-02", Temp: nil},
		{Time: "1950-03-01", Temp: ptr(8)},
	}

	got, err := ReduceMonthly(nil, daily, defaultPolicy())
	require.NoError(t, err)

	months := make([]string, len(got.Records))
	for i, r := range got.Records {
		months[i] = r.Time
	}
	assert.Equal(t, []string{"1950-01", "1950-03"}, months)
	assert.Equal(t, []string{"1950-02"}, got.DroppedMonths)
}

func TestReduceMonthly_Fallbacks(t *testing.T) {
	daily := []DailyObservation{
		{Time: "1999-07-01", Temp: ptr(30)},
		{Time: "1999-07-02", Temp: ptr(32)},
	}

	got, err := ReduceMonthly(nil, daily, defaultPolicy())
	require.NoError(t, err)

	require.Len(t, got.Records, 1)
	assert.Equal(t, 60.0, got.Records[0].Humidity)
	assert.Equal(t, 3.0, got.Records[0].Wind)
	assert.Equal(t, 0.0, got.Records[0].Precip)
}

func TestReduceMonthly_CustomFallbacks(t *testing.T) {
	policy := NewMonthlyPolicy(Fallbacks{Humidity: 55, Wind: 1.5, Precip: -1})
	daily := []DailyObservation{{Time: "1999-07-01", Temp: ptr(30)}}

	got, err := ReduceMonthly(nil, daily, policy)
	require.NoError(t, err)

	require.Len(t, got.Records, 1)
	assert.Equal(t, 55.0, got.Records[0].Humidity)
	assert.Equal(t, 1.5, got.Records[0].Wind)
	assert.Equal(t, -1.0, got.Records[0].Precip)
}

func TestReduceMonthly_SortedByMonth(t *testing.T) {
	daily := []DailyObservation{
		{Time: "2001-03-01", Temp: ptr(1)},
		{Time: "1999-12-31", Temp: ptr(2)},
		{Time: "2001-01-15", Temp: ptr(3)},
	}

	got, err := ReduceMonthly(nil, daily, defaultPolicy())
	require.NoError(t, err)

	require.Len(t, got.Records, 3)
	assert.Equal(t, "1999-12", got.Records[0].Time)
	assert.Equal(t, "2001-01", got.Records[1].Time)
	assert.Equal(t, "2001-03", got.Records[2].Time)
}

func TestReduceMonthly_Empty(t *testing.T) {
	got, err := ReduceMonthly(nil, nil, defaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Empty(t, got.DroppedMonths)
}

func TestReduceMonthly_MalformedDailyTimestamp(t *testing.T) {
	_, err := ReduceMonthly(nil, []DailyObservation{{Time: "1950", Temp: ptr(1)}}, defaultPolicy())

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "daily", pe.Source)
	assert.Equal(t, "day", pe.Field)
}
