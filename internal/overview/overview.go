// Package overview aggregates normalized sector data into the dashboard
// payloads: per-sector overviews, the combined dashboard, alert and metric
// rollups. Builders are pure; the Service adds fetching, caching, and
// fallback handling around them.
package overview

import (
	"math"
	"time"

	"pulseboard/internal/types"
)

// SectorResult wraps a sector payload with its provenance so callers can
// tell live data from the canned fallback.
type SectorResult[T any] struct {
	Data       T                `json:"data"`
	Provenance types.Provenance `json:"provenance"`
}

// Dashboard is the combined three-sector overview.
type Dashboard struct {
	Transportation SectorResult[TransportOverview] `json:"transportation"`
	Finance        SectorResult[FinanceOverview]   `json:"finance"`
	Weather        SectorResult[WeatherOverview]   `json:"weather"`
	LastUpdated    time.Time                       `json:"last_updated"`
	Summary        Summary                         `json:"summary"`
}

// TransportOverview summarizes the state of the transit network.
type TransportOverview struct {
	TotalLines       int                   `json:"total_lines"`
	DelayedLines     int                   `json:"delayed_lines"`
	DelayPercentage  float64               `json:"delay_percentage"`
	Trend            string                `json:"trend"`
	ChartData        []TransportChartPoint `json:"chart_data"`
	AllServices      []ServiceStatus       `json:"all_services_data"`
	MajorIssues      []TransportIssue      `json:"major_issues"`
	ServiceBreakdown map[string]int        `json:"service_breakdown"`
}

// TransportChartPoint is one step of the delay trend series.
type TransportChartPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	Value           float64   `json:"value"`
	DelayedServices int       `json:"delayed_services"`
	MaxDelay        int       `json:"max_delay"`
}

// ServiceStatus is one line's status for the service listing.
type ServiceStatus struct {
	Timestamp    time.Time `json:"timestamp"`
	LineName     string    `json:"line_name"`
	DelayMinutes int       `json:"delay_minutes"`
	Status       string    `json:"status"`
	Mode         string    `json:"mode"`
	Reason       string    `json:"reason"`
}

// TransportIssue is a line flagged as a major problem, with categorization.
type TransportIssue struct {
	Line     string `json:"line"`
	Delay    int    `json:"delay"`
	Status   string `json:"status"`
	Reason   string `json:"reason"`
	Kind     string `json:"type"`
	Severity string `json:"severity"`
}

// FinanceOverview summarizes the tracked market.
type FinanceOverview struct {
	MarketTrend   string              `json:"market_trend"`
	AverageChange float64             `json:"average_change"`
	Advancing     int                 `json:"advancing_stocks"`
	Declining     int                 `json:"declining_stocks"`
	Unchanged     int                 `json:"unchanged_stocks"`
	TotalStocks   int                 `json:"total_stocks"`
	AllStocks     []StockRow          `json:"all_stocks"`
	TopGainers    []StockRow          `json:"top_gainers"`
	TopLosers     []StockRow          `json:"top_losers"`
	ChartData     []FinanceChartPoint `json:"chart_data"`
	MarketSummary string              `json:"market_summary"`
	Alerts        []types.Alert       `json:"alerts"`
}

// StockRow is one symbol in a dashboard listing. ChangePercent is nil for
// symbols that lack the history to compute a change; they never rank as
// movers but still appear in the all-stocks list.
type StockRow struct {
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"company"`
	CurrentPrice  float64  `json:"current_price"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Volume        int64    `json:"volume"`
}

// FinanceChartPoint is the per-day market aggregate for the price chart.
type FinanceChartPoint struct {
	Timestamp    string  `json:"timestamp"`
	Price        float64 `json:"price"`
	StocksTraded int     `json:"stocks_traded"`
}

// WeatherOverview summarizes current conditions plus short-term context.
type WeatherOverview struct {
	CurrentTemp   float64             `json:"current_temp"`
	Humidity      int                 `json:"humidity"`
	Precipitation float64             `json:"precipitation"`
	Condition     string              `json:"condition"`
	Trend         string              `json:"trend"`
	Forecast      string              `json:"forecast"`
	Alerts        []types.Alert       `json:"alerts"`
	ChartData     []WeatherChartPoint `json:"chart_data"`
}

// WeatherChartPoint is one observation in the temperature chart.
type WeatherChartPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Precipitation float64   `json:"precipitation"`
}

// Summary is the cross-sector business summary attached to the combined
// dashboard, derived from the transport picture.
type Summary struct {
	KeyOpportunities   []string  `json:"key_opportunities"`
	RiskFactors        []string  `json:"risk_factors"`
	RecommendedActions []string  `json:"recommended_actions"`
	SummaryTimestamp   time.Time `json:"summary_timestamp"`
}

// MetricTiles are the headline numbers for the metrics endpoint.
type MetricTiles struct {
	TransportDelayPct   float64   `json:"transport_delay_percentage"`
	TransportTrend      string    `json:"transport_trend"`
	MarketAverageChange float64   `json:"market_average_change"`
	MarketTrend         string    `json:"market_trend"`
	CurrentTemperature  float64   `json:"current_temperature"`
	WeatherCondition    string    `json:"weather_condition"`
	ActiveAlerts        int       `json:"active_alerts"`
	LastUpdated         time.Time `json:"last_updated"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
