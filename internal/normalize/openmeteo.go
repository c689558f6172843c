package normalize

import (
	"time"

	"pulseboard/internal/ingest"
	"pulseboard/internal/types"
)

// wmoConditions maps WMO weather codes to human-readable condition text.
var wmoConditions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
}

// WeatherCondition converts a WMO weather code into condition text.
func WeatherCondition(code int) string {
	if c, ok := wmoConditions[code]; ok {
		return c
	}
	return "Unknown"
}

// CurrentWeatherDecoder turns an Open-Meteo current-weather record into a
// normalized reading.
type CurrentWeatherDecoder struct {
	Location string
}

// NewCurrentWeatherDecoder creates a decoder for the given observation
// location label.
func NewCurrentWeatherDecoder(location string) *CurrentWeatherDecoder {
	if location == "" {
		location = "London"
	}
	return &CurrentWeatherDecoder{Location: location}
}

// Decode converts the first record of the table (the adapter extracts the
// "current" block, yielding a one-row table) into a reading. observedAt is
// the injected observation time. Missing numeric fields default to zero.
// Returns ok=false when the table is empty.
func (d *CurrentWeatherDecoder) Decode(table ingest.Table, observedAt time.Time) (types.WeatherReading, bool) {
	if table.Empty() {
		return types.WeatherReading{}, false
	}
	rec := table[0]

	code := int(floatVal(rec["weather_code"]))
	return types.WeatherReading{
		Location:      d.Location,
		TemperatureC:  floatVal(rec["temperature_2m"]),
		Humidity:      floatVal(rec["relative_humidity_2m"]),
		Precipitation: floatVal(rec["precipitation"]),
		WeatherCode:   code,
		Condition:     WeatherCondition(code),
		ObservedAt:    observedAt,
	}, true
}
