// Package normalize converts vendor payloads into the flat, typed records
// the derivation engine consumes. Normalizers are pure with respect to time:
// the observation timestamp is injected by the caller, never read from the
// clock, so re-normalizing the same payload yields identical records.
package normalize

import (
	"context"
	"log/slog"
	"time"

	"pulseboard/internal/ingest"
	"pulseboard/internal/types"
)

// companyNames maps the polled LSE tickers to display names. Unknown symbols
// fall back to the ticker itself.
var companyNames = map[string]string{
	"HSBA.L": "HSBC Holdings",
	"BP.L":   "BP",
	"GSK.L":  "GSK",
	"ULVR.L": "Unilever",
	"AZN.L":  "AstraZeneca",
	"RIO.L":  "Rio Tinto",
	"LLOY.L": "Lloyds Banking Group",
	"BARC.L": "Barclays",
	"TSCO.L": "Tesco",
}

// CompanyName returns the display name for a ticker.
func CompanyName(symbol string) string {
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return symbol
}

// DailySeriesDecoder turns Alpha Vantage daily time-series envelopes into
// stock quotes. Vendor sentinel envelopes (error, informational notice,
// rate-limit note) yield an empty result logged on the channel matching the
// failure kind, so callers and tests can tell the kinds apart.
type DailySeriesDecoder struct {
	logger *slog.Logger
}

// NewDailySeriesDecoder creates a decoder logging through the given logger.
func NewDailySeriesDecoder(logger *slog.Logger) *DailySeriesDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DailySeriesDecoder{logger: logger}
}

// Decode converts one symbol's raw envelope into quotes. fetchedAt is the
// injected observation time stamped onto each record. Output is sorted
// descending by trading day (FlattenSeries pins that order).
func (d *DailySeriesDecoder) Decode(ctx context.Context, symbol string, payload map[string]any, fetchedAt time.Time) []types.StockQuote {
	env := ingest.ClassifyObject(payload)
	switch env.Kind {
	case ingest.VariantVendorError:
		d.logger.ErrorContext(ctx, "vendor reported error for symbol",
			"symbol", symbol, "message", env.Message)
		return nil
	case ingest.VariantVendorNote:
		d.logger.WarnContext(ctx, "vendor rate-limit note for symbol",
			"symbol", symbol, "message", env.Message)
		return nil
	case ingest.VariantVendorInfo:
		d.logger.InfoContext(ctx, "vendor informational notice for symbol",
			"symbol", symbol, "message", env.Message)
		return nil
	case ingest.VariantVendorSeries:
		return d.quotes(symbol, env.Object, fetchedAt)
	default:
		d.logger.ErrorContext(ctx, "unrecognized payload shape for symbol",
			"symbol", symbol, "variant", string(env.Kind))
		return nil
	}
}

func (d *DailySeriesDecoder) quotes(symbol string, obj map[string]any, fetchedAt time.Time) []types.StockQuote {
	return d.DecodeTable(symbol, ingest.FlattenSeries(obj), fetchedAt)
}

// DecodeTable converts an already-flattened daily series table into quotes.
// The ingestion job uses this form: its tables arrive through the shared
// adapter, which unwraps vendor envelopes before handing rows over.
func (d *DailySeriesDecoder) DecodeTable(symbol string, table ingest.Table, fetchedAt time.Time) []types.StockQuote {
	out := make([]types.StockQuote, 0, len(table))
	for _, rec := range table {
		day, _ := rec["timestamp"].(string)
		out = append(out, types.StockQuote{
			Symbol:      symbol,
			CompanyName: CompanyName(symbol),
			Open:        floatVal(rec["open"]),
			High:        floatVal(rec["high"]),
			Low:         floatVal(rec["low"]),
			Close:       floatVal(rec["close"]),
			Volume:      intVal(rec["volume"]),
			TradingDay:  day,
			FetchedAt:   fetchedAt,
		})
	}
	return out
}

func floatVal(v any) float64 {
	f, _ := v.(float64)
	return f
}

func intVal(v any) int64 {
	n, _ := v.(int64)
	return n
}
