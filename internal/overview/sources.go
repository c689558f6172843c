package overview

import (
	"context"
	"fmt"

	"pulseboard/internal/ingest"
	"pulseboard/internal/normalize"
	"pulseboard/internal/types"
)

// QuoteReader reads recent quotes back from the warehouse.
type QuoteReader interface {
	RecentQuotes(ctx context.Context, days int) ([]types.StockQuote, error)
}

// ReadingReader reads recent weather observations back from the warehouse.
type ReadingReader interface {
	RecentReadings(ctx context.Context, limit int) ([]types.WeatherReading, error)
}

const financeLookbackDays = 7

// LiveTransportSource fetches and decodes the current transit line
// statuses from the configured upstream.
type LiveTransportSource struct {
	adapter ingest.Adapter
	catalog *ingest.Catalog
	decoder *normalize.LineStatusDecoder
	clock   types.Clock
}

// NewLiveTransportSource wires the API adapter, source catalog, and line
// decoder into a TransportSource.
func NewLiveTransportSource(adapter ingest.Adapter, catalog *ingest.Catalog, clock types.Clock) *LiveTransportSource {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &LiveTransportSource{
		adapter: adapter,
		catalog: catalog,
		decoder: normalize.NewLineStatusDecoder(),
		clock:   clock,
	}
}

func (s *LiveTransportSource) Lines(ctx context.Context) ([]types.TransitLine, error) {
	cfg, ok := s.catalog.Get(ingest.SourceTFLLineStatus)
	if !ok {
		return nil, &types.AppError{
			Code:    types.ErrCodeNotFoundSource,
			Message: "transit status source is not configured",
		}
	}

	table := s.adapter.Fetch(ctx, cfg)
	if table.Empty() {
		return nil, &types.AppError{
			Code:    types.ErrCodeUpstreamUnavailable,
			Message: "transit status upstream returned no data",
		}
	}
	return s.decoder.DecodeAll(table, s.clock.Now()), nil
}

// WarehouseFinanceSource serves the finance overview from quotes the
// ingestion job has already landed in the warehouse.
type WarehouseFinanceSource struct {
	quotes QuoteReader
}

// NewWarehouseFinanceSource wraps a warehouse quote reader as a
// FinanceSource.
func NewWarehouseFinanceSource(quotes QuoteReader) *WarehouseFinanceSource {
	return &WarehouseFinanceSource{quotes: quotes}
}

func (s *WarehouseFinanceSource) Quotes(ctx context.Context) ([]types.StockQuote, error) {
	quotes, err := s.quotes.RecentQuotes(ctx, financeLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("reading recent quotes: %w", err)
	}
	return quotes, nil
}

// CompositeWeatherSource serves warehouse history plus one live current
// observation, so trend and chart have a series to work with even though
// the upstream only reports the present.
type CompositeWeatherSource struct {
	adapter  ingest.Adapter
	catalog  *ingest.Catalog
	decoder  *normalize.CurrentWeatherDecoder
	history  ReadingReader
	clock    types.Clock
	lookback int
}

// NewCompositeWeatherSource wires the API adapter and an optional history
// reader (nil means live-only) into a WeatherSource.
func NewCompositeWeatherSource(adapter ingest.Adapter, catalog *ingest.Catalog, history ReadingReader, location string, clock types.Clock) *CompositeWeatherSource {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &CompositeWeatherSource{
		adapter:  adapter,
		catalog:  catalog,
		decoder:  normalize.NewCurrentWeatherDecoder(location),
		history:  history,
		clock:    clock,
		lookback: weatherChartPoints,
	}
}

func (s *CompositeWeatherSource) Readings(ctx context.Context) ([]types.WeatherReading, error) {
	cfg, ok := s.catalog.Get(ingest.SourceOpenMeteoCurrent)
	if !ok {
		return nil, &types.AppError{
			Code:    types.ErrCodeNotFoundSource,
			Message: "weather source is not configured",
		}
	}

	table := s.adapter.Fetch(ctx, cfg)
	current, ok := s.decoder.Decode(table, s.clock.Now())
	if !ok {
		return nil, &types.AppError{
			Code:    types.ErrCodeUpstreamUnavailable,
			Message: "weather upstream returned no data",
		}
	}

	var readings []types.WeatherReading
	if s.history != nil {
		// Best effort: history failing must not take down the live reading.
		past, err := s.history.RecentReadings(ctx, s.lookback)
		if err == nil {
			readings = past
		}
	}
	return append(readings, current), nil
}
