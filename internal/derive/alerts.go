package derive

import (
	"fmt"
	"math"
	"strings"

	"pulseboard/internal/types"
)

// AlertThresholds are the cut-offs for finance alert generation. Zero
// values fall back to the defaults below.
type AlertThresholds struct {
	VolatilityPct  float64
	BigMoverPct    float64
	StrongTrendPct float64
}

const (
	defaultVolatilityPct  = 5.0
	defaultBigMoverPct    = 10.0
	defaultStrongTrendPct = 3.0
)

func (t AlertThresholds) withDefaults() AlertThresholds {
	if t.VolatilityPct == 0 {
		t.VolatilityPct = defaultVolatilityPct
	}
	if t.BigMoverPct == 0 {
		t.BigMoverPct = defaultBigMoverPct
	}
	if t.StrongTrendPct == 0 {
		t.StrongTrendPct = defaultStrongTrendPct
	}
	return t
}

// FinanceAlerts evaluates the market-level alert rules in a fixed order:
// volatility first, then big movers, then strong trend in either direction.
// Every rule fires independently, so a turbulent day can emit several.
func FinanceAlerts(changes []EntityChange, thresholds AlertThresholds) []types.Alert {
	th := thresholds.withDefaults()
	var alerts []types.Alert

	if v := Volatility(changes); v > th.VolatilityPct {
		alerts = append(alerts, types.Alert{
			Kind:    "high_volatility",
			Level:   types.AlertWarning,
			Title:   "High Volatility",
			Message: fmt.Sprintf("High market volatility detected (%.1f%% average change)", v),
			Sector:  types.SectorFinance,
		})
	}

	bigMovers := 0
	for _, c := range changes {
		if math.Abs(c.ChangePercent) > th.BigMoverPct {
			bigMovers++
		}
	}
	if bigMovers > 0 {
		alerts = append(alerts, types.Alert{
			Kind:    "big_movers",
			Level:   types.AlertInfo,
			Title:   "Big Movers",
			Message: fmt.Sprintf("%d stocks moved more than %.0f%%", bigMovers, th.BigMoverPct),
			Sector:  types.SectorFinance,
		})
	}

	avg := AverageChange(changes)
	if avg > th.StrongTrendPct {
		alerts = append(alerts, types.Alert{
			Kind:    "strong_bullish",
			Level:   types.AlertSuccess,
			Title:   "Strong Bullish Trend",
			Message: "Strong bullish momentum in the market",
			Sector:  types.SectorFinance,
		})
	} else if avg < -th.StrongTrendPct {
		alerts = append(alerts, types.Alert{
			Kind:    "strong_bearish",
			Level:   types.AlertError,
			Title:   "Strong Bearish Trend",
			Message: "Strong bearish pressure in the market",
			Sector:  types.SectorFinance,
		})
	}

	return alerts
}

// Weather alert cut-offs. Strict comparisons: a reading exactly at a
// threshold does not fire.
const (
	heatWarningTempC = 30.0
	coldWarningTempC = 5.0
	heavyRainMM      = 5.0
)

// WeatherAlerts evaluates the current-conditions alert rules against one
// reading. Fog codes 45 and 48 always produce an informational alert.
func WeatherAlerts(reading types.WeatherReading) []types.Alert {
	var alerts []types.Alert

	if reading.TemperatureC > heatWarningTempC {
		alerts = append(alerts, types.Alert{
			Kind:    "heat_warning",
			Level:   types.AlertWarning,
			Title:   "High temperature warning",
			Message: fmt.Sprintf("Temperature is %.1f°C", reading.TemperatureC),
			Sector:  types.SectorWeather,
		})
	}
	if reading.TemperatureC < coldWarningTempC {
		alerts = append(alerts, types.Alert{
			Kind:    "cold_warning",
			Level:   types.AlertWarning,
			Title:   "Low temperature warning",
			Message: fmt.Sprintf("Temperature is %.1f°C", reading.TemperatureC),
			Sector:  types.SectorWeather,
		})
	}
	if reading.Precipitation > heavyRainMM {
		alerts = append(alerts, types.Alert{
			Kind:    "heavy_rain",
			Level:   types.AlertWarning,
			Title:   "Heavy precipitation expected",
			Message: fmt.Sprintf("Precipitation at %.1fmm", reading.Precipitation),
			Sector:  types.SectorWeather,
		})
	}
	if reading.WeatherCode == 45 || reading.WeatherCode == 48 {
		alerts = append(alerts, types.Alert{
			Kind:    "fog_alert",
			Level:   types.AlertInfo,
			Title:   "Reduced visibility due to fog",
			Message: reading.Condition,
			Sector:  types.SectorWeather,
		})
	}

	return alerts
}

// WeatherTrend classifies the short-term temperature direction from the
// last three readings: a swing of more than 2°C between the oldest and the
// newest of the three is warming or cooling, otherwise stable. Fewer than
// three readings is always stable.
func WeatherTrend(temps []float64) string {
	if len(temps) < 3 {
		return "stable"
	}
	last := temps[len(temps)-3:]
	delta := last[2] - last[0]
	switch {
	case delta > 2:
		return "warming"
	case delta < -2:
		return "cooling"
	default:
		return "stable"
	}
}

// ForecastNote renders the one-line outlook for a weather code.
func ForecastNote(code int) string {
	switch {
	case code == 0 || code == 1:
		return "Clear conditions expected to continue"
	case code == 2 || code == 3:
		return "Cloudy with stable conditions"
	case code >= 51:
		return "Precipitation likely to continue"
	default:
		return "Stable weather conditions"
	}
}

// IssueSeverity buckets a transit issue by delay and status text. Checks
// run high to low; the first match wins.
func IssueSeverity(delayMinutes int, status string) string {
	s := strings.ToLower(status)
	switch {
	case delayMinutes > 30 || strings.Contains(s, "severe") || strings.Contains(s, "suspended"):
		return "high"
	case delayMinutes > 15 || strings.Contains(s, "closure"):
		return "medium"
	case delayMinutes > 5 || strings.Contains(s, "delay"):
		return "low"
	default:
		return "info"
	}
}
