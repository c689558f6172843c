package overview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/types"
)

func readingAt(hour int, temp float64) types.WeatherReading {
	return types.WeatherReading{
		Location:     "London",
		TemperatureC: temp,
		Humidity:     70,
		WeatherCode:  2,
		Condition:    "Partly cloudy",
		ObservedAt:   time.Date(2026, 8, 28, hour, 0, 0, 0, time.UTC),
	}
}

func TestBuildWeatherOverviewCurrentConditions(t *testing.T) {
	readings := []types.WeatherReading{
		readingAt(6, 14.0),
		readingAt(7, 15.0),
		readingAt(8, 18.04),
	}

	got := BuildWeatherOverview(readings)

	assert.Equal(t, 18.0, got.CurrentTemp)
	assert.Equal(t, 70, got.Humidity)
	assert.Equal(t, "Partly cloudy", got.Condition)
	assert.Equal(t, "warming", got.Trend) // 18.04 - 14.0 > 2
	assert.Equal(t, "Cloudy with stable conditions", got.Forecast)
	assert.Empty(t, got.Alerts)
}

func TestBuildWeatherOverviewChartBoundedToSix(t *testing.T) {
	var readings []types.WeatherReading
	for h := 0; h < 9; h++ {
		readings = append(readings, readingAt(h, 15))
	}

	got := BuildWeatherOverview(readings)

	require.Len(t, got.ChartData, 6)
	assert.Equal(t, readings[3].ObservedAt, got.ChartData[0].Timestamp)
	assert.Equal(t, readings[8].ObservedAt, got.ChartData[5].Timestamp)
}

func TestBuildWeatherOverviewAlertsFromCurrentReading(t *testing.T) {
	hot := readingAt(12, 33.0)
	got := BuildWeatherOverview([]types.WeatherReading{hot})

	require.Len(t, got.Alerts, 1)
	assert.Equal(t, "heat_warning", got.Alerts[0].Kind)
}

func TestBuildWeatherOverviewEmpty(t *testing.T) {
	got := BuildWeatherOverview(nil)

	assert.Equal(t, "stable", got.Trend)
	assert.Equal(t, "Unknown", got.Condition)
	assert.Empty(t, got.ChartData)
}

func TestBuildWeatherOverviewSingleReadingIsStable(t *testing.T) {
	got := BuildWeatherOverview([]types.WeatherReading{readingAt(8, 21)})
	assert.Equal(t, "stable", got.Trend)
	assert.Equal(t, 21.0, got.CurrentTemp)
}
