package ingest

import (
	"fmt"
	"sort"
	"time"
)

// CatalogParams carries the upstream endpoints and credentials the source
// catalog is built from.
type CatalogParams struct {
	TFLBaseURL          string
	OpenMeteoBaseURL    string
	AlphaVantageBaseURL string
	AlphaVantageAPIKey  string
	StockSymbols        []string
	Latitude            float64
	Longitude           float64
	Timeout             time.Duration
}

// Catalog is the fixed set of configured data sources, addressable by ID.
// It backs the ingestion job and the source-introspection endpoints.
type Catalog struct {
	sources map[string]SourceConfig
	order   []string
}

// Well-known source IDs.
const (
	SourceTFLLineStatus    = "tfl-line-status"
	SourceOpenMeteoCurrent = "open-meteo-current"
)

// QuoteSourceID returns the catalog ID of the daily-series source for one
// stock symbol.
func QuoteSourceID(symbol string) string {
	return fmt.Sprintf("alphavantage-%s", symbol)
}

// NewCatalog builds the source catalog: one transit status source, one
// current-weather source, and one daily-series source per tracked symbol.
func NewCatalog(p CatalogParams) *Catalog {
	c := &Catalog{sources: make(map[string]SourceConfig)}

	c.add(SourceConfig{
		ID:      SourceTFLLineStatus,
		Name:    "TfL Line Status",
		Sector:  "transportation",
		URL:     p.TFLBaseURL + "/Line/Mode/tube,overground,dlr/Status",
		Timeout: p.Timeout,
	})

	c.add(SourceConfig{
		ID:     SourceOpenMeteoCurrent,
		Name:   "Open-Meteo Current Weather",
		Sector: "weather",
		URL:    p.OpenMeteoBaseURL + "/v1/forecast",
		Params: map[string]any{
			"latitude":  p.Latitude,
			"longitude": p.Longitude,
			"current":   "temperature_2m,relative_humidity_2m,precipitation,weather_code",
			"timezone":  "Europe/London",
		},
		DataKey: "current",
		Timeout: p.Timeout,
	})

	for _, symbol := range p.StockSymbols {
		c.add(SourceConfig{
			ID:     QuoteSourceID(symbol),
			Name:   fmt.Sprintf("Alpha Vantage Daily (%s)", symbol),
			Sector: "finance",
			URL:    p.AlphaVantageBaseURL + "/query",
			Params: map[string]any{
				"function":   "TIME_SERIES_DAILY",
				"symbol":     symbol,
				"apikey":     p.AlphaVantageAPIKey,
				"outputsize": "compact",
			},
			Timeout: p.Timeout,
		})
	}

	return c
}

func (c *Catalog) add(cfg SourceConfig) {
	c.sources[cfg.ID] = cfg
	c.order = append(c.order, cfg.ID)
}

// Get returns the source config for an ID.
func (c *Catalog) Get(id string) (SourceConfig, bool) {
	cfg, ok := c.sources[id]
	return cfg, ok
}

// All returns every configured source in registration order.
func (c *Catalog) All() []SourceConfig {
	out := make([]SourceConfig, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.sources[id])
	}
	return out
}

// BySector returns the sources for one sector, sorted by ID.
func (c *Catalog) BySector(sector string) []SourceConfig {
	var out []SourceConfig
	for _, cfg := range c.sources {
		if cfg.Sector == sector {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
