package overview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/types"
)

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubTransport struct {
	lines []types.TransitLine
	err   error
	calls int
}

func (s *stubTransport) Lines(context.Context) ([]types.TransitLine, error) {
	s.calls++
	return s.lines, s.err
}

type stubFinance struct {
	quotes []types.StockQuote
	err    error
}

func (s *stubFinance) Quotes(context.Context) ([]types.StockQuote, error) {
	return s.quotes, s.err
}

type stubWeather struct {
	readings []types.WeatherReading
	err      error
}

func (s *stubWeather) Readings(context.Context) ([]types.WeatherReading, error) {
	return s.readings, s.err
}

func newTestService(transport *stubTransport, finance *stubFinance, weather *stubWeather) *Service {
	clock := stubClock{now: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)}
	return NewService(transport, finance, weather, nil, clock, Options{})
}

func healthyStubs() (*stubTransport, *stubFinance, *stubWeather) {
	transport := &stubTransport{lines: []types.TransitLine{
		{LineID: "victoria", LineName: "Victoria", Mode: "tube", Status: "Good Service"},
		{LineID: "central", LineName: "Central", Mode: "tube", Status: "Minor Delays", DelayMinutes: 5},
	}}
	finance := &stubFinance{quotes: []types.StockQuote{
		{Symbol: "A", CompanyName: "A", Close: 100, TradingDay: "2026-08-27"},
		{Symbol: "A", CompanyName: "A", Close: 105, TradingDay: "2026-08-28"},
	}}
	weather := &stubWeather{readings: []types.WeatherReading{
		{Location: "London", TemperatureC: 18, Humidity: 70, WeatherCode: 2, Condition: "Partly cloudy"},
	}}
	return transport, finance, weather
}

func TestDashboardCombinesLiveSectors(t *testing.T) {
	svc := newTestService(healthyStubs())

	dashboard, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, types.OriginLive, dashboard.Transportation.Provenance.Source)
	assert.Equal(t, types.OriginLive, dashboard.Finance.Provenance.Source)
	assert.Equal(t, types.OriginLive, dashboard.Weather.Provenance.Source)
	assert.Equal(t, 2, dashboard.Transportation.Data.TotalLines)
	assert.Equal(t, "bullish", dashboard.Finance.Data.MarketTrend)
	assert.Equal(t, 18.0, dashboard.Weather.Data.CurrentTemp)
	assert.False(t, dashboard.LastUpdated.IsZero())
	assert.NotEmpty(t, dashboard.Summary.RecommendedActions)
}

func TestDashboardFailedSectorFallsBack(t *testing.T) {
	transport, finance, weather := healthyStubs()
	transport.lines = nil
	transport.err = &types.AppError{Code: types.ErrCodeUpstreamTimeout, Message: "deadline exceeded"}

	svc := newTestService(transport, finance, weather)
	dashboard, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, types.OriginFallback, dashboard.Transportation.Provenance.Source)
	assert.Equal(t, string(types.ErrCodeUpstreamTimeout), dashboard.Transportation.Provenance.Reason)
	// The healthy sectors stay live.
	assert.Equal(t, types.OriginLive, dashboard.Finance.Provenance.Source)
	assert.Equal(t, types.OriginLive, dashboard.Weather.Provenance.Source)
}

func TestEmptyFinanceDataFallsBack(t *testing.T) {
	transport, finance, weather := healthyStubs()
	finance.quotes = nil

	svc := newTestService(transport, finance, weather)
	result := svc.FinanceOverview(context.Background())

	assert.Equal(t, types.OriginFallback, result.Provenance.Source)
	assert.Equal(t, "no data available", result.Provenance.Reason)
	assert.Equal(t, "neutral", result.Data.MarketTrend)
	assert.Len(t, result.Data.TopGainers, 3)
}

func TestOverviewServedFromCache(t *testing.T) {
	transport, finance, weather := healthyStubs()
	svc := newTestService(transport, finance, weather)

	first := svc.TransportOverview(context.Background())
	second := svc.TransportOverview(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, transport.calls)
}

func TestFallbackIsNotCached(t *testing.T) {
	transport, finance, weather := healthyStubs()
	transport.err = errors.New("boom")

	svc := newTestService(transport, finance, weather)
	svc.TransportOverview(context.Background())
	svc.TransportOverview(context.Background())

	assert.Equal(t, 2, transport.calls)
}

func TestSectorDispatch(t *testing.T) {
	svc := newTestService(healthyStubs())

	for _, sector := range types.Sectors() {
		result, err := svc.Sector(context.Background(), sector)
		require.NoError(t, err, "sector %s", sector)
		assert.NotNil(t, result)
	}

	_, err := svc.Sector(context.Background(), types.Sector("energy"))
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSector, appErr.Code)
}

func TestAlertsFlattenAcrossSectors(t *testing.T) {
	transport, finance, weather := healthyStubs()
	transport.lines = append(transport.lines, types.TransitLine{
		LineID: "circle", LineName: "Circle", Mode: "tube",
		Status: "Suspended", DelayMinutes: 30, Reason: "signal failure",
	})
	weather.readings = []types.WeatherReading{
		{Location: "London", TemperatureC: 33, WeatherCode: 0, Condition: "Clear sky"},
	}

	svc := newTestService(transport, finance, weather)
	alerts, err := svc.Alerts(context.Background())

	require.NoError(t, err)
	kinds := make([]string, 0, len(alerts))
	for _, a := range alerts {
		kinds = append(kinds, a.Kind)
	}
	assert.Contains(t, kinds, "transport_disruption")
	assert.Contains(t, kinds, "heat_warning")
}

func TestMetricsTiles(t *testing.T) {
	svc := newTestService(healthyStubs())

	tiles, err := svc.Metrics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 50.0, tiles.TransportDelayPct)
	assert.Equal(t, "poor", tiles.TransportTrend)
	assert.Equal(t, 5.0, tiles.MarketAverageChange)
	assert.Equal(t, "bullish", tiles.MarketTrend)
	assert.Equal(t, 18.0, tiles.CurrentTemperature)
	assert.Equal(t, "Partly cloudy", tiles.WeatherCondition)
}

func TestSummaryReflectsDisruption(t *testing.T) {
	transport, finance, weather := healthyStubs()
	var lines []types.TransitLine
	for i := 0; i < 10; i++ {
		lines = append(lines, types.TransitLine{
			LineID: "l", LineName: "Line", Mode: "tube",
			Status: "Severe Delays", DelayMinutes: 20,
		})
	}
	transport.lines = lines

	svc := newTestService(transport, finance, weather)
	dashboard, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	summary := dashboard.Summary
	assert.Len(t, summary.KeyOpportunities, 4)
	assert.Len(t, summary.RiskFactors, 4)
	assert.Contains(t, summary.RecommendedActions[0], "flexible work hours")
}
