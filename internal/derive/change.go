// Package derive computes secondary metrics from normalized records:
// day-over-day percentage change, moving averages, volatility, rankings,
// trend labels, and threshold alerts. Everything here is pure computation
// over inputs the caller supplies; no I/O, no clock.
package derive

import (
	"sort"

	"pulseboard/internal/types"
)

// EntityChange is the day-over-day movement of one symbol, computed from its
// two most recent distinct trading days.
type EntityChange struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"company"`
	CurrentClose  float64 `json:"current_price"`
	PreviousClose float64 `json:"-"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// EntitySnapshot is the latest observation of a symbol that lacks enough
// history for a change computation.
type EntitySnapshot struct {
	Symbol       string  `json:"symbol"`
	CompanyName  string  `json:"company"`
	CurrentClose float64 `json:"current_price"`
	Volume       int64   `json:"volume"`
	DistinctDays int     `json:"-"`
}

// ChangeSet is the result of change derivation over a multi-symbol table.
// Eligible holds symbols with at least two distinct trading days, in
// first-seen input order (the stable tie-break order for rankings).
// Excluded holds symbols with fewer than two distinct days; they are absent
// from movers but still listable.
type ChangeSet struct {
	Eligible []EntityChange
	Excluded []EntitySnapshot
}

// ComputeChanges derives day-over-day changes from quotes. Same-day
// duplicates per symbol are reduced keep-last (last-seen record in input
// order wins for that symbol and day) before the two most recent distinct
// days are compared. A previous close of zero yields a change of zero with
// the symbol still eligible.
func ComputeChanges(quotes []types.StockQuote) ChangeSet {
	type dayKey struct {
		symbol string
		day    string
	}

	// Keep-last dedupe per (symbol, day), preserving first-seen symbol
	// order and per-symbol day insertion order.
	latest := make(map[dayKey]types.StockQuote)
	symbolOrder := []string{}
	symbolDays := make(map[string][]string)
	for _, q := range quotes {
		k := dayKey{q.Symbol, q.TradingDay}
		if _, seen := latest[k]; !seen {
			if len(symbolDays[q.Symbol]) == 0 {
				symbolOrder = append(symbolOrder, q.Symbol)
			}
			symbolDays[q.Symbol] = append(symbolDays[q.Symbol], q.TradingDay)
		}
		latest[k] = q
	}

	var out ChangeSet
	for _, symbol := range symbolOrder {
		days := sortedDays(symbolDays[symbol])
		if len(days) < 2 {
			q := latest[dayKey{symbol, days[len(days)-1]}]
			out.Excluded = append(out.Excluded, EntitySnapshot{
				Symbol:       symbol,
				CompanyName:  q.CompanyName,
				CurrentClose: q.Close,
				Volume:       q.Volume,
				DistinctDays: len(days),
			})
			continue
		}

		current := latest[dayKey{symbol, days[len(days)-1]}]
		previous := latest[dayKey{symbol, days[len(days)-2]}]
		out.Eligible = append(out.Eligible, EntityChange{
			Symbol:        symbol,
			CompanyName:   current.CompanyName,
			CurrentClose:  current.Close,
			PreviousClose: previous.Close,
			ChangePercent: ChangePercent(current.Close, previous.Close),
			Volume:        current.Volume,
		})
	}
	return out
}

// ChangePercent is (current - previous) / previous * 100, guarded against
// division by zero: a previous close of zero yields zero.
func ChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// sortedDays returns the distinct days in ascending order. Trading days are
// ISO dates so a lexical sort is chronological.
func sortedDays(days []string) []string {
	out := make([]string, len(days))
	copy(out, days)
	sort.Strings(out)
	return out
}
