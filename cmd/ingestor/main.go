// Package main is the entry point for the Pulseboard ingestion job.
//
// The ingestor is a one-shot batch process intended to run on a schedule
// (cron, systemd timer). Each run fetches the three upstream sources
// concurrently, normalizes the payloads, and upserts the records into the
// warehouse. A sector that fails leaves the others unaffected; the process
// exits non-zero only when every sector fails, so a single flaky vendor does
// not page anyone.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pulseboard/internal/config"
	"pulseboard/internal/external"
	"pulseboard/internal/ingest"
	"pulseboard/internal/normalize"
	"pulseboard/internal/types"
	"pulseboard/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Every run carries a run ID so interleaved cron executions can be told
	// apart in aggregated logs.
	logger := newLogger(cfg.LogLevel).With("run_id", uuid.NewString())
	logger.Info("pulseboard ingestor starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"symbols", cfg.Sources.StockSymbols,
	)

	ctx := context.Background()

	pool, err := warehouse.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("creating warehouse pool: %w", err)
	}
	defer pool.Close()

	if err := warehouse.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensuring warehouse schema: %w", err)
	}
	store := warehouse.NewStore(pool, logger)

	catalog := ingest.NewCatalog(ingest.CatalogParams{
		TFLBaseURL:          cfg.Sources.TFLBaseURL,
		OpenMeteoBaseURL:    cfg.Sources.OpenMeteoBaseURL,
		AlphaVantageBaseURL: cfg.Sources.AlphaVantageBaseURL,
		AlphaVantageAPIKey:  cfg.Sources.AlphaVantageAPIKey.Unmask(),
		StockSymbols:        cfg.Sources.StockSymbols,
		Latitude:            cfg.Sources.Latitude,
		Longitude:           cfg.Sources.Longitude,
		Timeout:             cfg.Sources.FetchTimeout,
	})

	base := external.NewBaseClient(
		&http.Client{Timeout: cfg.Sources.FetchTimeout},
		"sources",
		external.DefaultRetryPolicy(),
		cfg.Sources.UserAgent,
	)
	adapter := ingest.NewAPIAdapter(base, logger)

	job := &ingestJob{
		adapter:  adapter,
		catalog:  catalog,
		store:    store,
		clock:    types.RealClock{},
		symbols:  cfg.Sources.StockSymbols,
		location: cfg.Sources.Location,
		logger:   logger,
	}

	report := job.Run(ctx)

	logger.Info("ingestion run complete",
		"transport_written", report.Transport.Written,
		"finance_written", report.Finance.Written,
		"weather_written", report.Weather.Written,
	)

	if report.AllFailed() {
		return errors.New("all sectors failed to ingest")
	}
	return nil
}

// recordWriter is the slice of the warehouse store the job needs.
type recordWriter interface {
	UpsertQuotes(ctx context.Context, quotes []types.StockQuote) (int, error)
	UpsertLines(ctx context.Context, lines []types.TransitLine) (int, error)
	UpsertReadings(ctx context.Context, readings []types.WeatherReading) (int, error)
}

// ingestJob runs one fetch-normalize-persist cycle across all sectors.
type ingestJob struct {
	adapter  ingest.Adapter
	catalog  *ingest.Catalog
	store    recordWriter
	clock    types.Clock
	symbols  []string
	location string
	logger   *slog.Logger
}

// SectorResult records the outcome of one sector's ingestion.
type SectorResult struct {
	Written int
	Err     error
}

// RunReport aggregates the per-sector outcomes of a run.
type RunReport struct {
	Transport SectorResult
	Finance   SectorResult
	Weather   SectorResult
}

// AllFailed reports whether no sector persisted anything.
func (r RunReport) AllFailed() bool {
	return r.Transport.Err != nil && r.Finance.Err != nil && r.Weather.Err != nil
}

// Run fetches and persists all sectors concurrently. Sector failures are
// captured in the report rather than aborting the run; the shared context is
// still cancelled if the process-level context is.
func (j *ingestJob) Run(ctx context.Context) RunReport {
	now := j.clock.Now().UTC()

	var report RunReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.Transport = j.runSector(ctx, "transport", func() (int, error) {
			return j.ingestTransport(ctx, now)
		})
		return nil
	})
	g.Go(func() error {
		report.Finance = j.runSector(ctx, "finance", func() (int, error) {
			return j.ingestFinance(ctx, now)
		})
		return nil
	})
	g.Go(func() error {
		report.Weather = j.runSector(ctx, "weather", func() (int, error) {
			return j.ingestWeather(ctx, now)
		})
		return nil
	})

	// The goroutines never return errors; Wait only synchronizes them.
	_ = g.Wait()
	return report
}

func (j *ingestJob) runSector(ctx context.Context, name string, fn func() (int, error)) SectorResult {
	written, err := fn()
	if err != nil {
		j.logger.ErrorContext(ctx, "sector ingestion failed", "sector", name, "error", err)
		return SectorResult{Written: written, Err: err}
	}
	j.logger.InfoContext(ctx, "sector ingestion succeeded", "sector", name, "written", written)
	return SectorResult{Written: written}
}

func (j *ingestJob) ingestTransport(ctx context.Context, now time.Time) (int, error) {
	cfg, ok := j.catalog.Get(ingest.SourceTFLLineStatus)
	if !ok {
		return 0, fmt.Errorf("source %q not in catalog", ingest.SourceTFLLineStatus)
	}

	table := j.adapter.Fetch(ctx, cfg)
	if table.Empty() {
		return 0, fmt.Errorf("source %q returned no records", cfg.ID)
	}

	lines := normalize.NewLineStatusDecoder().DecodeAll(table, now)
	return j.store.UpsertLines(ctx, lines)
}

func (j *ingestJob) ingestFinance(ctx context.Context, now time.Time) (int, error) {
	decoder := normalize.NewDailySeriesDecoder(j.logger)

	var quotes []types.StockQuote
	var failed []string
	for _, symbol := range j.symbols {
		cfg, ok := j.catalog.Get(ingest.QuoteSourceID(symbol))
		if !ok {
			failed = append(failed, symbol)
			continue
		}

		// Sequential on purpose: the vendor rate-limits aggressively and
		// the adapter already treats its rate-limit note as an empty table.
		table := j.adapter.Fetch(ctx, cfg)
		decoded := decoder.DecodeTable(symbol, table, now)
		if len(decoded) == 0 {
			failed = append(failed, symbol)
			continue
		}
		quotes = append(quotes, decoded...)
	}

	if len(failed) > 0 {
		j.logger.WarnContext(ctx, "some symbols yielded no quotes", "symbols", failed)
	}
	if len(quotes) == 0 {
		return 0, errors.New("no quotes decoded for any symbol")
	}
	return j.store.UpsertQuotes(ctx, quotes)
}

func (j *ingestJob) ingestWeather(ctx context.Context, now time.Time) (int, error) {
	cfg, ok := j.catalog.Get(ingest.SourceOpenMeteoCurrent)
	if !ok {
		return 0, fmt.Errorf("source %q not in catalog", ingest.SourceOpenMeteoCurrent)
	}

	table := j.adapter.Fetch(ctx, cfg)
	reading, ok := normalize.NewCurrentWeatherDecoder(j.location).Decode(table, now)
	if !ok {
		return 0, fmt.Errorf("source %q returned no current reading", cfg.ID)
	}

	return j.store.UpsertReadings(ctx, []types.WeatherReading{reading})
}

// newLogger creates a structured slog.Logger configured for the given log
// level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
