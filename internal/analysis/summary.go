package analysis

import (
	"math"
	"time"

	"pulseboard/internal/types"
)

// FieldStats are the basic statistics reported for one numeric field.
type FieldStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// TimeRange is the observation window of the summarized records.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DataSummary describes the records an analysis was grounded on.
type DataSummary struct {
	RecordCount int                   `json:"record_count"`
	TimeRange   *TimeRange            `json:"time_range,omitempty"`
	Statistics  map[string]FieldStats `json:"statistics,omitempty"`
}

func summarizeTransport(lines []types.TransitLine) DataSummary {
	if len(lines) == 0 {
		return DataSummary{}
	}

	delays := make([]float64, len(lines))
	severities := make([]float64, len(lines))
	times := make([]time.Time, len(lines))
	for i, l := range lines {
		delays[i] = float64(l.DelayMinutes)
		severities[i] = float64(l.Severity)
		times[i] = l.RecordedAt
	}

	return DataSummary{
		RecordCount: len(lines),
		TimeRange:   timeRange(times),
		Statistics: map[string]FieldStats{
			"delay_minutes": fieldStats(delays),
			"severity":      fieldStats(severities),
		},
	}
}

func summarizeFinance(quotes []types.StockQuote) DataSummary {
	if len(quotes) == 0 {
		return DataSummary{}
	}

	closes := make([]float64, len(quotes))
	volumes := make([]float64, len(quotes))
	times := make([]time.Time, len(quotes))
	for i, q := range quotes {
		closes[i] = q.Close
		volumes[i] = float64(q.Volume)
		times[i] = q.FetchedAt
	}

	return DataSummary{
		RecordCount: len(quotes),
		TimeRange:   timeRange(times),
		Statistics: map[string]FieldStats{
			"close":  fieldStats(closes),
			"volume": fieldStats(volumes),
		},
	}
}

func summarizeWeather(readings []types.WeatherReading) DataSummary {
	if len(readings) == 0 {
		return DataSummary{}
	}

	temps := make([]float64, len(readings))
	humidity := make([]float64, len(readings))
	times := make([]time.Time, len(readings))
	for i, r := range readings {
		temps[i] = r.TemperatureC
		humidity[i] = r.Humidity
		times[i] = r.ObservedAt
	}

	return DataSummary{
		RecordCount: len(readings),
		TimeRange:   timeRange(times),
		Statistics: map[string]FieldStats{
			"temperature": fieldStats(temps),
			"humidity":    fieldStats(humidity),
		},
	}
}

func fieldStats(values []float64) FieldStats {
	stats := FieldStats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, v := range values {
		sum += v
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
	}
	stats.Mean = sum / float64(len(values))
	return stats
}

func timeRange(times []time.Time) *TimeRange {
	tr := &TimeRange{Start: times[0], End: times[0]}
	for _, t := range times[1:] {
		if t.Before(tr.Start) {
			tr.Start = t
		}
		if t.After(tr.End) {
			tr.End = t
		}
	}
	if tr.Start.IsZero() && tr.End.IsZero() {
		return nil
	}
	return tr
}
