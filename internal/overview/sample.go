package overview

import (
	"time"

	"pulseboard/internal/types"
)

// Canned payloads served when a sector's live fetch fails. They are always
// returned with fallback provenance so consumers can tell them apart from
// real data.

func sampleTransportOverview(now time.Time) TransportOverview {
	return TransportOverview{
		TotalLines:       0,
		DelayedLines:     0,
		DelayPercentage:  0,
		Trend:            "stable",
		ChartData:        []TransportChartPoint{},
		AllServices:      []ServiceStatus{},
		MajorIssues:      []TransportIssue{},
		ServiceBreakdown: map[string]int{},
	}
}

func sampleFinanceOverview(now time.Time) FinanceOverview {
	gain1, gain2, gain3 := 2.1, 1.2, 1.1
	loss1, loss2, loss3 := -1.5, -0.8, -0.7
	return FinanceOverview{
		MarketTrend:   "neutral",
		AverageChange: 0.5,
		Advancing:     4,
		Declining:     3,
		Unchanged:     1,
		TotalStocks:   8,
		AllStocks:     []StockRow{},
		TopGainers: []StockRow{
			{Symbol: "HSBA.L", CompanyName: "HSBC Holdings", CurrentPrice: 1038.8, ChangePercent: &gain1},
			{Symbol: "BP.L", CompanyName: "BP", CurrentPrice: 445.5, ChangePercent: &gain2},
			{Symbol: "GSK.L", CompanyName: "GSK", CurrentPrice: 1486.0, ChangePercent: &gain3},
		},
		TopLosers: []StockRow{
			{Symbol: "AZN.L", CompanyName: "AstraZeneca", CurrentPrice: 11000.0, ChangePercent: &loss1},
			{Symbol: "ULVR.L", CompanyName: "Unilever", CurrentPrice: 4412.0, ChangePercent: &loss2},
			{Symbol: "RIO.L", CompanyName: "Rio Tinto", CurrentPrice: 4831.5, ChangePercent: &loss3},
		},
		ChartData: []FinanceChartPoint{
			{Timestamp: now.UTC().Format("2006-01-02"), Price: 4500.0, StocksTraded: 8},
		},
		MarketSummary: "Market showing mixed performance with slight bullish bias",
		Alerts:        []types.Alert{},
	}
}

func sampleWeatherOverview(now time.Time) WeatherOverview {
	return WeatherOverview{
		CurrentTemp:   15.5,
		Humidity:      65,
		Precipitation: 0.0,
		Condition:     "Partly cloudy",
		Trend:         "stable",
		Forecast:      "Stable conditions expected",
		Alerts:        []types.Alert{},
		ChartData: []WeatherChartPoint{
			{Timestamp: now, Temperature: 15.5, Humidity: 65, Precipitation: 0.0},
		},
	}
}
