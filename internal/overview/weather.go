package overview

import (
	"pulseboard/internal/derive"
	"pulseboard/internal/types"
)

const weatherChartPoints = 6

// BuildWeatherOverview aggregates observations (ascending time order) into
// the weather dashboard payload. The newest reading drives the current
// conditions; the tail of the series drives trend and chart.
func BuildWeatherOverview(readings []types.WeatherReading) WeatherOverview {
	if len(readings) == 0 {
		return WeatherOverview{
			Trend:     "stable",
			Condition: "Unknown",
			Forecast:  "Stable weather conditions",
			Alerts:    []types.Alert{},
			ChartData: []WeatherChartPoint{},
		}
	}

	current := readings[len(readings)-1]

	temps := make([]float64, len(readings))
	for i, r := range readings {
		temps[i] = r.TemperatureC
	}

	return WeatherOverview{
		CurrentTemp:   round1(current.TemperatureC),
		Humidity:      int(current.Humidity),
		Precipitation: round1(current.Precipitation),
		Condition:     current.Condition,
		Trend:         derive.WeatherTrend(temps),
		Forecast:      derive.ForecastNote(current.WeatherCode),
		Alerts:        derive.WeatherAlerts(current),
		ChartData:     weatherChart(readings),
	}
}

func weatherChart(readings []types.WeatherReading) []WeatherChartPoint {
	recent := readings
	if len(recent) > weatherChartPoints {
		recent = recent[len(recent)-weatherChartPoints:]
	}

	chart := make([]WeatherChartPoint, 0, len(recent))
	for _, r := range recent {
		chart = append(chart, WeatherChartPoint{
			Timestamp:     r.ObservedAt,
			Temperature:   r.TemperatureC,
			Humidity:      r.Humidity,
			Precipitation: r.Precipitation,
		})
	}
	return chart
}
