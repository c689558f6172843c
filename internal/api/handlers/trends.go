package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/core"
	"pulseboard/internal/derive"
	"pulseboard/internal/types"
)

// Trend computation bounds.
const (
	defaultTrendDays    = 7
	maxTrendDays        = 90
	movingAverageWindow = 5
	trendRankingLimit   = 3
)

// QuoteHistoryReader reads recent quotes back from the warehouse, ordered by
// symbol then trading day ascending.
type QuoteHistoryReader interface {
	RecentQuotes(ctx context.Context, days int) ([]types.StockQuote, error)
}

// TrendsHandler serves derived finance trend metrics over warehouse history.
type TrendsHandler struct {
	quotes QuoteHistoryReader
	logger *slog.Logger
}

// NewTrendsHandler creates a TrendsHandler with the provided dependencies.
func NewTrendsHandler(quotes QuoteHistoryReader, logger *slog.Logger) *TrendsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendsHandler{quotes: quotes, logger: logger}
}

// RegisterRoutes mounts the finance trend endpoints onto the mux.
func (h *TrendsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/finance", func(r chi.Router) {
		r.Get("/trends", h.HandleGetTrends)
	})
}

// SymbolTrend is the per-symbol slice of the trends response.
type SymbolTrend struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company"`
	CurrentClose  float64   `json:"current_price"`
	ChangePercent float64   `json:"change_percent"`
	Volatility    float64   `json:"volatility"`
	MovingAverage []float64 `json:"moving_average"`
	Closes        []float64 `json:"closes"`
	Days          []string  `json:"days"`
}

// TrendsResponse is the response body for GET /v1/finance/trends.
type TrendsResponse struct {
	PeriodDays    int                   `json:"period_days"`
	MarketTrend   string                `json:"market_trend"`
	AverageChange float64               `json:"average_change"`
	Volatility    float64               `json:"volatility"`
	TopGainers    []derive.EntityChange `json:"top_gainers"`
	TopLosers     []derive.EntityChange `json:"top_losers"`
	Symbols       []SymbolTrend         `json:"symbols"`
}

// HandleGetTrends handles GET /v1/finance/trends.
// Query params: days (optional, default 7, max 90).
func (h *TrendsHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
	days := defaultTrendDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTrendDays {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationInvalidParam,
				"days must be an integer between 1 and 90",
				err,
			))
			return
		}
		days = parsed
	}

	quotes, err := h.quotes.RecentQuotes(r.Context(), days)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	changes := derive.ComputeChanges(quotes)
	avgChange := derive.AverageChange(changes.Eligible)

	resp := TrendsResponse{
		PeriodDays:    days,
		MarketTrend:   derive.TrendLabel(avgChange),
		AverageChange: avgChange,
		Volatility:    derive.Volatility(changes.Eligible),
		TopGainers:    derive.TopGainers(changes.Eligible, trendRankingLimit),
		TopLosers:     derive.TopLosers(changes.Eligible, trendRankingLimit),
		Symbols:       symbolTrends(quotes, changes),
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}

// symbolTrends builds the per-symbol series metrics. Quotes arrive ordered
// by symbol then trading day ascending, so each symbol's closes form a
// chronological series.
func symbolTrends(quotes []types.StockQuote, changes derive.ChangeSet) []SymbolTrend {
	type series struct {
		company string
		closes  []float64
		days    []string
	}

	bySymbol := make(map[string]*series)
	order := []string{}
	for _, q := range quotes {
		s, ok := bySymbol[q.Symbol]
		if !ok {
			s = &series{company: q.CompanyName}
			bySymbol[q.Symbol] = s
			order = append(order, q.Symbol)
		}
		s.closes = append(s.closes, q.Close)
		s.days = append(s.days, q.TradingDay)
	}

	changeBySymbol := make(map[string]derive.EntityChange, len(changes.Eligible))
	for _, c := range changes.Eligible {
		changeBySymbol[c.Symbol] = c
	}

	out := make([]SymbolTrend, 0, len(order))
	for _, symbol := range order {
		s := bySymbol[symbol]
		trend := SymbolTrend{
			Symbol:        symbol,
			CompanyName:   s.company,
			CurrentClose:  s.closes[len(s.closes)-1],
			Volatility:    derive.SeriesVolatility(s.closes),
			MovingAverage: derive.MovingAverage(s.closes, movingAverageWindow),
			Closes:        s.closes,
			Days:          s.days,
		}
		if c, ok := changeBySymbol[symbol]; ok {
			trend.ChangePercent = c.ChangePercent
		}
		out = append(out, trend)
	}
	return out
}
