package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/types"
)

type stubQuoteReader struct {
	quotes  []types.StockQuote
	gotDays int
	err     error
}

func (s *stubQuoteReader) RecentQuotes(_ context.Context, days int) ([]types.StockQuote, error) {
	s.gotDays = days
	return s.quotes, s.err
}

func trendsRouter(reader QuoteHistoryReader) http.Handler {
	r := chi.NewRouter()
	NewTrendsHandler(reader, nil).RegisterRoutes(r)
	return r
}

func trendQuote(symbol, day string, close float64) types.StockQuote {
	return types.StockQuote{
		Symbol:      symbol,
		CompanyName: symbol + " plc",
		Close:       close,
		Volume:      100,
		TradingDay:  day,
		FetchedAt:   time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC),
	}
}

func TestHandleGetTrends(t *testing.T) {
	reader := &stubQuoteReader{quotes: []types.StockQuote{
		trendQuote("UP", "2026-08-26", 100),
		trendQuote("UP", "2026-08-27", 102),
		trendQuote("UP", "2026-08-28", 110),
		trendQuote("DOWN", "2026-08-27", 50),
		trendQuote("DOWN", "2026-08-28", 45),
	}}

	rec := httptest.NewRecorder()
	trendsRouter(reader).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/finance/trends", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultTrendDays, reader.gotDays)

	var body struct {
		Data TrendsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	resp := body.Data
	assert.Equal(t, 7, resp.PeriodDays)
	// UP moved +7.84%, DOWN moved -10%: average is negative, so bearish.
	assert.Equal(t, "bearish", resp.MarketTrend)
	require.Len(t, resp.TopGainers, 1)
	assert.Equal(t, "UP", resp.TopGainers[0].Symbol)
	require.Len(t, resp.TopLosers, 1)
	assert.Equal(t, "DOWN", resp.TopLosers[0].Symbol)

	require.Len(t, resp.Symbols, 2)
	up := resp.Symbols[0]
	assert.Equal(t, "UP", up.Symbol)
	assert.Equal(t, 110.0, up.CurrentClose)
	require.Len(t, up.MovingAverage, 3)
	assert.InDelta(t, 100.0, up.MovingAverage[0], 1e-9)
	assert.InDelta(t, 101.0, up.MovingAverage[1], 1e-9)
	assert.InDelta(t, 104.0, up.MovingAverage[2], 1e-9)
	assert.Greater(t, up.Volatility, 0.0)
}

func TestHandleGetTrendsCustomDays(t *testing.T) {
	reader := &stubQuoteReader{}

	rec := httptest.NewRecorder()
	trendsRouter(reader).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/finance/trends?days=30", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, reader.gotDays)
}

func TestHandleGetTrendsInvalidDays(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", "500"} {
		rec := httptest.NewRecorder()
		trendsRouter(&stubQuoteReader{}).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/finance/trends?days="+raw, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assert.Contains(t, rec.Body.String(), "validation_invalid_parameter", raw)
	}
}

func TestHandleGetTrendsWarehouseError(t *testing.T) {
	reader := &stubQuoteReader{err: types.NewAppError(
		types.ErrCodePersistenceRead, "querying recent quotes", errors.New("timeout"))}

	rec := httptest.NewRecorder()
	trendsRouter(reader).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/finance/trends", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "persistence_read_failed")
}
