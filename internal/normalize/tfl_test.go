package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/ingest"
)

var recordedAt = time.Date(2026, 8, 28, 7, 30, 0, 0, time.UTC)

func decodeLine(t *testing.T, raw string) ingest.Record {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestDelayMinutesStepFunction(t *testing.T) {
	tests := []struct {
		severity int
		want     int
	}{
		{0, 0}, {1, 0}, {3, 0},
		{4, 5}, {5, 5}, {6, 5},
		{7, 15}, {8, 15}, {9, 15},
		{10, 30}, {15, 30}, {20, 30}, {100, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DelayMinutes(tt.severity), "severity %d", tt.severity)
	}
}

func TestDecodeLineWithSevereDelay(t *testing.T) {
	line := decodeLine(t, `{
		"id": "victoria",
		"name": "Victoria",
		"modeName": "tube",
		"lineStatuses": [
			{
				"statusSeverity": 8,
				"statusSeverityDescription": "Severe Delays",
				"reason": "Signal failure at Brixton",
				"disruption": {"category": "RealTime", "description": "Signal failure at Brixton"}
			}
		],
		"serviceTypes": [{"name": "Regular"}, {"name": "Night"}],
		"routeSections": [
			{"originator": "Brixton", "destination": "Walthamstow Central"},
			{"originator": "Brixton", "destination": "Seven Sisters"}
		],
		"validityPeriods": [{"isNow": true}]
	}`)

	decoder := NewLineStatusDecoder()
	got := decoder.DecodeLine(line, recordedAt)

	assert.Equal(t, "victoria", got.LineID)
	assert.Equal(t, "Severe Delays", got.Status)
	assert.Equal(t, 8, got.Severity)
	assert.Equal(t, 15, got.DelayMinutes)
	assert.True(t, got.Active) // 8 < 20
	assert.True(t, got.NightService)
	assert.Equal(t, []string{"Night", "Regular"}, got.ServiceTypes)
	assert.Equal(t, []string{"Brixton"}, got.Origins)
	assert.Equal(t, []string{"Seven Sisters", "Walthamstow Central"}, got.Destinations)
	assert.Equal(t, []string{"Signal failure at Brixton"}, got.DisruptionKinds)
	assert.Equal(t, 1, got.ValidityPeriods)
	assert.Equal(t, recordedAt, got.RecordedAt)
}

func TestDecodeLineEmptyStatusesIsSteadyState(t *testing.T) {
	line := decodeLine(t, `{"id": "central", "name": "Central", "modeName": "tube", "lineStatuses": []}`)

	decoder := NewLineStatusDecoder()
	got := decoder.DecodeLine(line, recordedAt)

	assert.Equal(t, "Good Service", got.Status)
	assert.Equal(t, 10, got.Severity)
	assert.Equal(t, 0, got.DelayMinutes)
	assert.True(t, got.Active)
	assert.Empty(t, got.Reason)
}

func TestDecodeLineSuspendedIsInactive(t *testing.T) {
	line := decodeLine(t, `{
		"id": "circle",
		"name": "Circle",
		"modeName": "tube",
		"lineStatuses": [{"statusSeverity": 20, "statusSeverityDescription": "Suspended"}]
	}`)

	decoder := NewLineStatusDecoder()
	got := decoder.DecodeLine(line, recordedAt)

	assert.False(t, got.Active)
	assert.Equal(t, 30, got.DelayMinutes)
}

func TestDecodeLineUsesFirstStatus(t *testing.T) {
	line := decodeLine(t, `{
		"id": "district",
		"name": "District",
		"modeName": "tube",
		"lineStatuses": [
			{"statusSeverity": 5, "statusSeverityDescription": "Minor Delays", "reason": "earlier fault"},
			{"statusSeverity": 10, "statusSeverityDescription": "Good Service"}
		]
	}`)

	decoder := NewLineStatusDecoder()
	got := decoder.DecodeLine(line, recordedAt)

	assert.Equal(t, "Minor Delays", got.Status)
	assert.Equal(t, 5, got.DelayMinutes)
	assert.Equal(t, "earlier fault", got.Reason)
}

func TestDecodeLineMissingFieldsUseDefaults(t *testing.T) {
	decoder := NewLineStatusDecoder()
	got := decoder.DecodeLine(ingest.Record{}, recordedAt)

	assert.Equal(t, "unknown", got.LineID)
	assert.Equal(t, "Unknown Line", got.LineName)
	assert.Equal(t, "Unknown Mode", got.Mode)
	assert.Equal(t, "Good Service", got.Status)
}

func TestDecodeAllProducesOneRecordPerLine(t *testing.T) {
	table := ingest.Table{
		decodeLine(t, `{"id": "a", "name": "A", "modeName": "tube"}`),
		decodeLine(t, `{"id": "b", "name": "B", "modeName": "dlr"}`),
	}

	decoder := NewLineStatusDecoder()
	got := decoder.DecodeAll(table, recordedAt)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].LineID)
	assert.Equal(t, "b", got[1].LineID)
}

func TestDisruptionReasonsDeduplicated(t *testing.T) {
	line := decodeLine(t, `{
		"id": "northern",
		"name": "Northern",
		"modeName": "tube",
		"lineStatuses": [
			{"statusSeverity": 6, "statusSeverityDescription": "Minor Delays", "reason": "fault", "disruption": {"description": "fault"}},
			{"statusSeverity": 6, "statusSeverityDescription": "Minor Delays", "reason": "second fault"}
		]
	}`)

	decoder := NewLineStatusDecoder()
	got := decoder.DecodeLine(line, recordedAt)

	assert.Equal(t, []string{"fault", "second fault"}, got.DisruptionKinds)
}
