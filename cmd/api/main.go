// Package main is the entry point for the Pulseboard API server.
//
// It loads configuration, connects the warehouse pool, wires the source
// catalog and adapters into the overview and analysis services, builds the
// HTTP server with the core chassis (middleware, routing, health checks),
// and starts listening for requests.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/analysis"
	"pulseboard/internal/api/handlers"
	"pulseboard/internal/config"
	"pulseboard/internal/core"
	"pulseboard/internal/derive"
	"pulseboard/internal/external"
	"pulseboard/internal/ingest"
	"pulseboard/internal/overview"
	"pulseboard/internal/types"
	"pulseboard/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on
// error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("pulseboard API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx := context.Background()

	pool, err := warehouse.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("creating warehouse pool: %w", err)
	}
	store := warehouse.NewStore(pool, logger)

	clock := types.RealClock{}

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

	transport := overview.NewLiveTransportSource(adapter, catalog, clock)
	finance := overview.NewWarehouseFinanceSource(store)
	weather := overview.NewCompositeWeatherSource(adapter, catalog, store, cfg.Sources.Location, clock)

	overviewSvc := overview.NewService(transport, finance, weather, logger, clock, overview.Options{
		CacheTTL: cfg.Dashboard.CacheTTL,
		Transport: overview.TransportLimits{
			MajorIssues: cfg.Dashboard.MajorIssueLimit,
			ChartPoints: cfg.Dashboard.ChartPoints,
		},
		Finance: overview.FinanceOptions{
			TopMovers: cfg.Dashboard.TopMoversLimit,
			Thresholds: derive.AlertThresholds{
				VolatilityPct:  cfg.Dashboard.VolatilityAlertPct,
				BigMoverPct:    cfg.Dashboard.BigMoverAlertPct,
				StrongTrendPct: cfg.Dashboard.StrongTrendAlertPct,
			},
		},
	})

	var completer external.Completer
	if cfg.LLM.Enabled && cfg.LLM.APIKey.Unmask() != "" {
		completer = external.NewLLMClient(
			&http.Client{Timeout: cfg.LLM.Timeout},
			external.LLMClientConfig{
				APIKey:  cfg.LLM.APIKey.Unmask(),
				Model:   cfg.LLM.Model,
				BaseURL: cfg.LLM.BaseURL,
				Logger:  logger,
			},
		)
		logger.Info("language-model analysis enabled", "model", cfg.LLM.Model)
	} else {
		logger.Info("language-model analysis disabled, using rule-based insights")
	}

	analysisSvc := analysis.NewService(
		&sectorDataProvider{transport: transport, finance: finance, weather: weather},
		completer,
		logger,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.RegisterCloser(pool.Close)
	srv.HealthProbes = append(srv.HealthProbes, core.ProbeFunc{
		ProbeName: "warehouse",
		Fn:        store.Ping,
	})

	dashboardHandler := handlers.NewDashboardHandler(overviewSvc, logger)
	promptHandler := handlers.NewPromptHandler(analysisSvc, srv.Validator, logger)
	trendsHandler := handlers.NewTrendsHandler(store, logger)
	sourcesHandler := handlers.NewSourcesHandler(catalog, adapter, store, clock, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		func(r chi.Router) { dashboardHandler.RegisterRoutes(r) },
		func(r chi.Router) { promptHandler.RegisterRoutes(r) },
		func(r chi.Router) { trendsHandler.RegisterRoutes(r) },
		func(r chi.Router) { sourcesHandler.RegisterRoutes(r) },
	)

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// sectorDataProvider bridges the overview sector sources to the analysis
// service's data contract.
type sectorDataProvider struct {
	transport overview.TransportSource
	finance   overview.FinanceSource
	weather   overview.WeatherSource
}

func (p *sectorDataProvider) TransportLines(ctx context.Context) ([]types.TransitLine, error) {
	return p.transport.Lines(ctx)
}

func (p *sectorDataProvider) FinanceQuotes(ctx context.Context) ([]types.StockQuote, error) {
	return p.finance.Quotes(ctx)
}

func (p *sectorDataProvider) WeatherReadings(ctx context.Context) ([]types.WeatherReading, error) {
	return p.weather.Readings(ctx)
}

// runHTTPServer starts the server in standard HTTP mode with graceful
// shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log
// level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
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
