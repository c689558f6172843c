package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func change(symbol string, pct float64) EntityChange {
	return EntityChange{Symbol: symbol, ChangePercent: pct}
}

func TestTrendLabel(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{2.5, "bullish"},
		{1.01, "bullish"},
		{1.0, "neutral"}, // boundary is exclusive
		{0, "neutral"},
		{-1.0, "neutral"},
		{-1.01, "bearish"},
		{-4, "bearish"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrendLabel(tt.avg), "avg %.2f", tt.avg)
	}
}

func TestTopMoversByAbsoluteChange(t *testing.T) {
	changes := []EntityChange{
		change("A", 2),
		change("B", -8),
		change("C", 5),
		change("D", -1),
	}

	got := TopMovers(changes, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Symbol)
	assert.Equal(t, "C", got[1].Symbol)
	assert.Equal(t, "A", got[2].Symbol)
}

func TestTopMoversStableOnTies(t *testing.T) {
	changes := []EntityChange{
		change("A", 5),
		change("B", -5),
		change("C", 5),
	}

	got := TopMovers(changes, 3)

	assert.Equal(t, "A", got[0].Symbol)
	assert.Equal(t, "B", got[1].Symbol)
	assert.Equal(t, "C", got[2].Symbol)
}

func TestTopMoversDoesNotMutateInput(t *testing.T) {
	changes := []EntityChange{change("A", 1), change("B", -9)}
	_ = TopMovers(changes, 2)
	assert.Equal(t, "A", changes[0].Symbol)
}

func TestTopGainersAndLosers(t *testing.T) {
	changes := []EntityChange{
		change("A", 2),
		change("B", -8),
		change("C", 5),
		change("D", -1),
		change("E", 0),
		change("F", 7),
		change("G", 1),
	}

	gainers := TopGainers(changes, 3)
	require.Len(t, gainers, 3)
	assert.Equal(t, "F", gainers[0].Symbol)
	assert.Equal(t, "C", gainers[1].Symbol)
	assert.Equal(t, "A", gainers[2].Symbol)

	losers := TopLosers(changes, 3)
	require.Len(t, losers, 2)
	assert.Equal(t, "B", losers[0].Symbol)
	assert.Equal(t, "D", losers[1].Symbol)
}

func TestGainersExcludeZeroChange(t *testing.T) {
	changes := []EntityChange{change("E", 0)}
	assert.Empty(t, TopGainers(changes, 3))
	assert.Empty(t, TopLosers(changes, 3))
}

func TestBreadth(t *testing.T) {
	changes := []EntityChange{
		change("A", 2), change("B", -8), change("C", 5), change("D", 0),
	}

	advancing, declining, unchanged := Breadth(changes)

	assert.Equal(t, 2, advancing)
	assert.Equal(t, 1, declining)
	assert.Equal(t, 1, unchanged)
}

func TestMarketSummary(t *testing.T) {
	assert.Equal(t,
		"📈 Bullish market with 4 advancing stocks. Average gain: +2.35%",
		MarketSummary(2.345, "bullish", 4, 1))
	assert.Equal(t,
		"📉 Bearish pressure with 3 declining stocks. Average loss: -1.50%",
		MarketSummary(-1.5, "bearish", 1, 3))
	assert.Equal(t,
		"➡️ Market neutral with 2 advancing and 2 declining stocks",
		MarketSummary(0.1, "neutral", 2, 2))
}
