package overview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/types"
)

var transportNow = time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)

func line(name, status string, delay int) types.TransitLine {
	return types.TransitLine{
		LineID:       name,
		LineName:     name,
		Mode:         "tube",
		Status:       status,
		DelayMinutes: delay,
		RecordedAt:   transportNow,
	}
}

func TestBuildTransportOverviewCountsOnlyRealDelays(t *testing.T) {
	lines := []types.TransitLine{
		line("Victoria", "Good Service", 30), // step-function artifact, not a delay
		line("Central", "Minor Delays", 5),
		line("Northern", "Severe Delays", 15),
		line("Jubilee", "Good Service", 0),
	}

	got := BuildTransportOverview(lines, transportNow, TransportLimits{})

	assert.Equal(t, 4, got.TotalLines)
	assert.Equal(t, 2, got.DelayedLines)
	assert.Equal(t, 50.0, got.DelayPercentage)
	assert.Equal(t, "poor", got.Trend)
	assert.Equal(t, map[string]int{"Good Service": 2, "Minor Delays": 1, "Severe Delays": 1}, got.ServiceBreakdown)
}

func TestBuildTransportOverviewTrendThresholds(t *testing.T) {
	tests := []struct {
		name    string
		delayed int
		total   int
		want    string
	}{
		{"all good", 0, 10, "excellent"},
		{"one in ten", 1, 10, "excellent"},
		{"two in ten", 2, 10, "stable"},
		{"four in ten", 4, 10, "poor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []types.TransitLine
			for i := 0; i < tt.delayed; i++ {
				lines = append(lines, line("d", "Minor Delays", 5))
			}
			for i := tt.delayed; i < tt.total; i++ {
				lines = append(lines, line("g", "Good Service", 0))
			}
			got := BuildTransportOverview(lines, transportNow, TransportLimits{})
			assert.Equal(t, tt.want, got.Trend)
		})
	}
}

func TestBuildTransportOverviewEmpty(t *testing.T) {
	got := BuildTransportOverview(nil, transportNow, TransportLimits{})

	assert.Equal(t, 0, got.TotalLines)
	assert.Equal(t, 0.0, got.DelayPercentage)
	assert.Equal(t, "excellent", got.Trend)
	assert.Empty(t, got.ChartData)
	assert.Empty(t, got.MajorIssues)
}

func TestTransportChartSeries(t *testing.T) {
	lines := []types.TransitLine{
		line("Central", "Minor Delays", 5),
		line("Northern", "Severe Delays", 15),
		line("Victoria", "Good Service", 30), // excluded from delay stats
	}

	got := BuildTransportOverview(lines, transportNow, TransportLimits{ChartPoints: 3})

	require.Len(t, got.ChartData, 3)
	first, last := got.ChartData[0], got.ChartData[2]
	assert.Equal(t, transportNow.Add(-2*time.Hour), first.Timestamp)
	assert.Equal(t, transportNow, last.Timestamp)
	assert.Equal(t, 10.0, last.Value) // (5+15)/2
	assert.Equal(t, 2, last.DelayedServices)
	assert.Equal(t, 15, last.MaxDelay)
}

func TestMajorIssuesSelectionAndOrder(t *testing.T) {
	lines := []types.TransitLine{
		line("Victoria", "Good Service", 0),
		line("Central", "Minor Delays", 5),
		line("Northern", "Severe Delays", 15),
		line("Circle", "Suspended", 30),
		line("District", "Good Service", 20), // data inconsistency, delay > 15
	}

	got := BuildTransportOverview(lines, transportNow, TransportLimits{})

	require.Len(t, got.MajorIssues, 4)
	assert.Equal(t, "Circle", got.MajorIssues[0].Line)
	assert.Equal(t, "District", got.MajorIssues[1].Line)
	assert.Equal(t, "Northern", got.MajorIssues[2].Line)
	assert.Equal(t, "Central", got.MajorIssues[3].Line)

	assert.Equal(t, "suspended", got.MajorIssues[0].Kind)
	assert.Equal(t, "high", got.MajorIssues[0].Severity)
	assert.Equal(t, "data_inconsistency", got.MajorIssues[1].Kind)
	assert.Equal(t, "severe_delay", got.MajorIssues[2].Kind)
	assert.Equal(t, "minor_delay", got.MajorIssues[3].Kind)
	assert.Equal(t, "low", got.MajorIssues[3].Severity)
}

func TestMajorIssuesBounded(t *testing.T) {
	var lines []types.TransitLine
	for i := 0; i < 8; i++ {
		lines = append(lines, line("L", "Minor Delays", 5+i))
	}

	got := BuildTransportOverview(lines, transportNow, TransportLimits{MajorIssues: 5})

	assert.Len(t, got.MajorIssues, 5)
}

func TestMajorIssuesReasonTruncated(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	l := line("Central", "Severe Delays", 20)
	l.Reason = string(long)

	got := BuildTransportOverview([]types.TransitLine{l}, transportNow, TransportLimits{})

	require.Len(t, got.MajorIssues, 1)
	assert.Len(t, got.MajorIssues[0].Reason, 100)
}

func TestServiceListingIncludesEveryLine(t *testing.T) {
	lines := []types.TransitLine{
		line("Victoria", "Good Service", 0),
		line("Central", "Minor Delays", 5),
	}

	got := BuildTransportOverview(lines, transportNow, TransportLimits{})

	require.Len(t, got.AllServices, 2)
	assert.Equal(t, "Victoria", got.AllServices[0].LineName)
	assert.Equal(t, "tube", got.AllServices[0].Mode)
}
