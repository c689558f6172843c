package derive

import (
	"fmt"
	"math"
	"sort"
)

// Market trend thresholds. Exact values are load-bearing for existing
// consumers of the trend label.
const (
	bullishThresholdPct = 1.0
	bearishThresholdPct = -1.0
)

// TrendLabel classifies the market-level average change: above +1% is
// bullish, below -1% bearish, anything between neutral.
func TrendLabel(avgChange float64) string {
	switch {
	case avgChange > bullishThresholdPct:
		return "bullish"
	case avgChange < bearishThresholdPct:
		return "bearish"
	default:
		return "neutral"
	}
}

// TopMovers returns the k entities with the largest absolute change,
// descending. The sort is stable: ties keep input order.
func TopMovers(changes []EntityChange, k int) []EntityChange {
	out := make([]EntityChange, len(changes))
	copy(out, changes)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].ChangePercent) > math.Abs(out[j].ChangePercent)
	})
	return bound(out, k)
}

// TopGainers returns the k largest positive movers, descending by change.
func TopGainers(changes []EntityChange, k int) []EntityChange {
	var gainers []EntityChange
	for _, c := range TopMovers(changes, len(changes)) {
		if c.ChangePercent > 0 {
			gainers = append(gainers, c)
		}
	}
	return bound(gainers, k)
}

// TopLosers returns the k largest negative movers, most negative first.
func TopLosers(changes []EntityChange, k int) []EntityChange {
	var losers []EntityChange
	for _, c := range TopMovers(changes, len(changes)) {
		if c.ChangePercent < 0 {
			losers = append(losers, c)
		}
	}
	return bound(losers, k)
}

// Breadth counts advancing, declining, and unchanged entities.
func Breadth(changes []EntityChange) (advancing, declining, unchanged int) {
	for _, c := range changes {
		switch {
		case c.ChangePercent > 0:
			advancing++
		case c.ChangePercent < 0:
			declining++
		default:
			unchanged++
		}
	}
	return advancing, declining, unchanged
}

// MarketSummary renders the one-line dashboard summary for the trend.
func MarketSummary(avgChange float64, trend string, advancing, declining int) string {
	switch trend {
	case "bullish":
		return fmt.Sprintf("📈 Bullish market with %d advancing stocks. Average gain: %+.2f%%", advancing, avgChange)
	case "bearish":
		return fmt.Sprintf("📉 Bearish pressure with %d declining stocks. Average loss: %+.2f%%", declining, avgChange)
	default:
		return fmt.Sprintf("➡️ Market neutral with %d advancing and %d declining stocks", advancing, declining)
	}
}

func bound[T any](list []T, k int) []T {
	if k < 0 {
		k = 0
	}
	if len(list) > k {
		return list[:k]
	}
	return list
}
