package openmeteo

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// Open-Meteo archive response types. JSON null decodes to a nil pointer so
// missing readings stay distinguishable from zero.

type response struct {
	Daily  dailySection  `json:"daily"`
	Hourly hourlySection `json:"hourly"`
}

type dailySection struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

type hourlySection struct {
	Time             []string   `json:"time"`
	RelativeHumidity []*float64 `json:"relative_humidity_2m"`
}

// DecodeArchive parses an archive response body.
func DecodeArchive(body []byte) (domain.Archive, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Archive{}, fmt.Errorf("decode archive response: %w", err)
	}
	return domain.Archive{
		Hourly: domain.HourlySeries{
			Time:     resp.Hourly.Time,
			Humidity: resp.Hourly.RelativeHumidity,
		},
		Daily: domain.DailySeries{
			Time:   resp.Daily.Time,
			Temp:   resp.Daily.TemperatureMax,
			Wind:   resp.Daily.WindSpeedMax,
			Precip: resp.Daily.PrecipitationSum,
		},
	}, nil
}

// EncodeArchive renders a in the archive response layout, the inverse of
// DecodeArchive. It is used to build offline fixtures.
func EncodeArchive(a domain.Archive) ([]byte, error) {
	resp := response{
		Daily: dailySection{
			Time:             a.Daily.Time,
			TemperatureMax:   a.Daily.Temp,
			WindSpeedMax:     a.Daily.Wind,
			PrecipitationSum: a.Daily.Precip,
		},
		Hourly: hourlySection{
			Time:             a.Hourly.Time,
			RelativeHumidity: a.Hourly.Humidity,
		},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode archive response: %w", err)
	}
	return data, nil
}
