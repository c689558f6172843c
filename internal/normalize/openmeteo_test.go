package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/ingest"
)

func TestDecodeCurrentWeather(t *testing.T) {
	observedAt := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	table := ingest.Table{{
		"temperature_2m":       18.4,
		"relative_humidity_2m": 72.0,
		"precipitation":        0.3,
		"weather_code":         3.0,
	}}

	decoder := NewCurrentWeatherDecoder("London")
	reading, ok := decoder.Decode(table, observedAt)

	require.True(t, ok)
	assert.Equal(t, "London", reading.Location)
	assert.Equal(t, 18.4, reading.TemperatureC)
	assert.Equal(t, 72.0, reading.Humidity)
	assert.Equal(t, 0.3, reading.Precipitation)
	assert.Equal(t, 3, reading.WeatherCode)
	assert.Equal(t, "Overcast", reading.Condition)
	assert.Equal(t, observedAt, reading.ObservedAt)
}

func TestDecodeCurrentWeatherEmptyTable(t *testing.T) {
	decoder := NewCurrentWeatherDecoder("London")
	_, ok := decoder.Decode(ingest.Table{}, time.Now())
	assert.False(t, ok)
}

func TestDecodeCurrentWeatherMissingFieldsDefaultToZero(t *testing.T) {
	decoder := NewCurrentWeatherDecoder("")
	reading, ok := decoder.Decode(ingest.Table{{}}, time.Time{})

	require.True(t, ok)
	assert.Equal(t, "London", reading.Location)
	assert.Equal(t, 0.0, reading.TemperatureC)
	assert.Equal(t, "Clear sky", reading.Condition) // code 0
}

func TestWeatherConditionMapping(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{2, "Partly cloudy"},
		{45, "Fog"},
		{48, "Depositing rime fog"},
		{65, "Heavy rain"},
		{99, "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeatherCondition(tt.code), "code %d", tt.code)
	}
}
