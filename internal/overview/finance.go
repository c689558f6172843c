package overview

import (
	"sort"

	"pulseboard/internal/derive"
	"pulseboard/internal/types"
)

const financeChartDays = 7

// FinanceOptions tunes list bounds and alert thresholds for the finance
// overview. Zero values fall back to the dashboard defaults.
type FinanceOptions struct {
	TopMovers  int
	Thresholds derive.AlertThresholds
}

func (o FinanceOptions) withDefaults() FinanceOptions {
	if o.TopMovers == 0 {
		o.TopMovers = 3
	}
	return o
}

// BuildFinanceOverview aggregates warehouse quotes into the market
// dashboard payload. Symbols without two distinct trading days appear in
// the all-stocks list with the change omitted and never rank as movers.
func BuildFinanceOverview(quotes []types.StockQuote, opts FinanceOptions) FinanceOverview {
	opts = opts.withDefaults()

	set := derive.ComputeChanges(quotes)
	avg := derive.AverageChange(set.Eligible)
	trend := derive.TrendLabel(avg)
	advancing, declining, unchanged := derive.Breadth(set.Eligible)

	return FinanceOverview{
		MarketTrend:   trend,
		AverageChange: round2(avg),
		Advancing:     advancing,
		Declining:     declining,
		Unchanged:     unchanged,
		TotalStocks:   len(set.Eligible),
		AllStocks:     allStocks(set),
		TopGainers:    stockRows(derive.TopGainers(set.Eligible, opts.TopMovers)),
		TopLosers:     stockRows(derive.TopLosers(set.Eligible, opts.TopMovers)),
		ChartData:     financeChart(quotes),
		MarketSummary: derive.MarketSummary(avg, trend, advancing, declining),
		Alerts:        derive.FinanceAlerts(set.Eligible, opts.Thresholds),
	}
}

// allStocks lists eligible symbols sorted by change descending, then the
// excluded ones (no change to sort by) in their input order.
func allStocks(set derive.ChangeSet) []StockRow {
	eligible := make([]derive.EntityChange, len(set.Eligible))
	copy(eligible, set.Eligible)
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].ChangePercent > eligible[j].ChangePercent
	})

	rows := stockRows(eligible)
	for _, snap := range set.Excluded {
		rows = append(rows, StockRow{
			Symbol:       snap.Symbol,
			CompanyName:  snap.CompanyName,
			CurrentPrice: round2(snap.CurrentClose),
			Volume:       snap.Volume,
		})
	}
	return rows
}

func stockRows(changes []derive.EntityChange) []StockRow {
	rows := make([]StockRow, 0, len(changes))
	for _, c := range changes {
		pct := round2(c.ChangePercent)
		rows = append(rows, StockRow{
			Symbol:        c.Symbol,
			CompanyName:   c.CompanyName,
			CurrentPrice:  round2(c.CurrentClose),
			ChangePercent: &pct,
			Volume:        c.Volume,
		})
	}
	return rows
}

// financeChart aggregates the last seven trading days into one point per
// day: mean close across symbols plus the number of symbols traded.
func financeChart(quotes []types.StockQuote) []FinanceChartPoint {
	if len(quotes) == 0 {
		return []FinanceChartPoint{}
	}

	type dayAgg struct {
		sum   float64
		count int
	}
	byDay := make(map[string]*dayAgg)
	for _, q := range quotes {
		agg, ok := byDay[q.TradingDay]
		if !ok {
			agg = &dayAgg{}
			byDay[q.TradingDay] = agg
		}
		agg.sum += q.Close
		agg.count++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > financeChartDays {
		days = days[len(days)-financeChartDays:]
	}

	chart := make([]FinanceChartPoint, 0, len(days))
	for _, day := range days {
		agg := byDay[day]
		chart = append(chart, FinanceChartPoint{
			Timestamp:    day,
			Price:        round2(agg.sum / float64(agg.count)),
			StocksTraded: agg.count,
		})
	}
	return chart
}
