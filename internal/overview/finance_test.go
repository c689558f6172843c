package overview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/types"
)

func quote(symbol, day string, close float64, volume int64) types.StockQuote {
	return types.StockQuote{
		Symbol:      symbol,
		CompanyName: symbol,
		Close:       close,
		Volume:      volume,
		TradingDay:  day,
	}
}

func TestBuildFinanceOverviewBalancedMarket(t *testing.T) {
	quotes := []types.StockQuote{
		quote("A", "2026-08-27", 100, 10),
		quote("A", "2026-08-28", 110, 11),
		quote("B", "2026-08-27", 50, 20),
		quote("B", "2026-08-28", 45, 21),
		quote("C", "2026-08-27", 200, 30),
	}

	got := BuildFinanceOverview(quotes, FinanceOptions{})

	assert.Equal(t, "neutral", got.MarketTrend)
	assert.Equal(t, 0.0, got.AverageChange)
	assert.Equal(t, 1, got.Advancing)
	assert.Equal(t, 1, got.Declining)
	assert.Equal(t, 0, got.Unchanged)
	assert.Equal(t, 2, got.TotalStocks)
	assert.Equal(t, "➡️ Market neutral with 1 advancing and 1 declining stocks", got.MarketSummary)

	// Eligible sorted by change desc, then the symbol without history.
	require.Len(t, got.AllStocks, 3)
	assert.Equal(t, "A", got.AllStocks[0].Symbol)
	assert.Equal(t, "B", got.AllStocks[1].Symbol)
	assert.Equal(t, "C", got.AllStocks[2].Symbol)
	require.NotNil(t, got.AllStocks[0].ChangePercent)
	assert.Equal(t, 10.0, *got.AllStocks[0].ChangePercent)
	assert.Nil(t, got.AllStocks[2].ChangePercent)

	require.Len(t, got.TopGainers, 1)
	assert.Equal(t, "A", got.TopGainers[0].Symbol)
	require.Len(t, got.TopLosers, 1)
	assert.Equal(t, "B", got.TopLosers[0].Symbol)
}

func TestBuildFinanceOverviewMoversBounded(t *testing.T) {
	quotes := []types.StockQuote{}
	symbols := []string{"A", "B", "C", "D", "E"}
	for i, s := range symbols {
		quotes = append(quotes,
			quote(s, "2026-08-27", 100, 1),
			quote(s, "2026-08-28", 100+float64(i+1), 1),
		)
	}

	got := BuildFinanceOverview(quotes, FinanceOptions{TopMovers: 3})

	require.Len(t, got.TopGainers, 3)
	assert.Equal(t, "E", got.TopGainers[0].Symbol)
	assert.Equal(t, "D", got.TopGainers[1].Symbol)
	assert.Equal(t, "C", got.TopGainers[2].Symbol)
	assert.Empty(t, got.TopLosers)
}

func TestFinanceChartAggregatesPerDay(t *testing.T) {
	quotes := []types.StockQuote{
		quote("A", "2026-08-27", 100, 1),
		quote("B", "2026-08-27", 200, 1),
		quote("A", "2026-08-28", 110, 1),
	}

	got := BuildFinanceOverview(quotes, FinanceOptions{})

	require.Len(t, got.ChartData, 2)
	assert.Equal(t, "2026-08-27", got.ChartData[0].Timestamp)
	assert.Equal(t, 150.0, got.ChartData[0].Price)
	assert.Equal(t, 2, got.ChartData[0].StocksTraded)
	assert.Equal(t, "2026-08-28", got.ChartData[1].Timestamp)
	assert.Equal(t, 110.0, got.ChartData[1].Price)
}

func TestFinanceChartBoundedToSevenDays(t *testing.T) {
	quotes := []types.StockQuote{}
	for day := 10; day < 20; day++ {
		quotes = append(quotes, quote("A", fmt.Sprintf("2026-08-%02d", day), float64(day), 1))
	}

	got := BuildFinanceOverview(quotes, FinanceOptions{})

	require.Len(t, got.ChartData, 7)
	assert.Equal(t, "2026-08-13", got.ChartData[0].Timestamp)
	assert.Equal(t, "2026-08-19", got.ChartData[6].Timestamp)
}

func TestBuildFinanceOverviewBullishAlert(t *testing.T) {
	quotes := []types.StockQuote{
		quote("A", "2026-08-27", 100, 1),
		quote("A", "2026-08-28", 112, 1),
		quote("B", "2026-08-27", 100, 1),
		quote("B", "2026-08-28", 108, 1),
	}

	got := BuildFinanceOverview(quotes, FinanceOptions{})

	assert.Equal(t, "bullish", got.MarketTrend)
	kinds := make([]string, 0, len(got.Alerts))
	for _, a := range got.Alerts {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []string{"high_volatility", "big_movers", "strong_bullish"}, kinds)
}

func TestBuildFinanceOverviewEmpty(t *testing.T) {
	got := BuildFinanceOverview(nil, FinanceOptions{})

	assert.Equal(t, "neutral", got.MarketTrend)
	assert.Equal(t, 0, got.TotalStocks)
	assert.Empty(t, got.AllStocks)
	assert.Empty(t, got.ChartData)
}
