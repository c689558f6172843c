// Package config defines the global configuration structure for the Pulseboard
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup.
package config

import (
	"time"

	"pulseboard/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type used
// throughout configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the Pulseboard service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"pulseboard-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server    ServerConfig
	Database  DatabaseConfig
	Sources   SourcesConfig
	Dashboard DashboardConfig
	LLM       LLMConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// DatabaseConfig holds warehouse connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required,url"`

	// Tuning Parameters
	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// SourcesConfig holds upstream vendor endpoints and credentials.
// Base URLs are configurable so tests and local development can point the
// adapters at httptest servers.
type SourcesConfig struct {
	TFLBaseURL       string `envconfig:"TFL_BASE_URL" default:"https://api.tfl.gov.uk"`
	OpenMeteoBaseURL string `envconfig:"OPEN_METEO_BASE_URL" default:"https://api.open-meteo.com"`

	AlphaVantageBaseURL string       `envconfig:"ALPHA_VANTAGE_BASE_URL" default:"https://www.alphavantage.co"`
	AlphaVantageAPIKey  SecretString `envconfig:"ALPHA_VANTAGE_API_KEY"`

	// Symbols polled for the finance sector (LSE tickers).
	StockSymbols []string `envconfig:"STOCK_SYMBOLS" default:"HSBA.L,BP.L,GSK.L,ULVR.L,AZN.L"`

	// Weather observation point (defaults to central London).
	Latitude  float64 `envconfig:"WEATHER_LATITUDE" default:"51.5074"`
	Longitude float64 `envconfig:"WEATHER_LONGITUDE" default:"-0.1278"`
	Location  string  `envconfig:"WEATHER_LOCATION" default:"London"`

	// FetchTimeout bounds every outbound vendor call.
	FetchTimeout time.Duration `envconfig:"SOURCE_FETCH_TIMEOUT" default:"30s"`
	UserAgent    string        `envconfig:"SOURCE_USER_AGENT" default:"Pulseboard/1.0"`
}

// DashboardConfig holds aggregation limits, cache behavior, and alert
// thresholds. The threshold defaults are the canonical values the alert
// rules were designed around; overriding them reshapes alerting without a
// code change.
type DashboardConfig struct {
	CacheTTL        time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"5m"`
	TopMoversLimit  int           `envconfig:"TOP_MOVERS_LIMIT" default:"3"`
	MajorIssueLimit int           `envconfig:"MAJOR_ISSUE_LIMIT" default:"5"`
	ChartPoints     int           `envconfig:"CHART_POINTS" default:"7"`

	VolatilityAlertPct  float64 `envconfig:"VOLATILITY_ALERT_PCT" default:"5"`
	BigMoverAlertPct    float64 `envconfig:"BIG_MOVER_ALERT_PCT" default:"10"`
	StrongTrendAlertPct float64 `envconfig:"STRONG_TREND_ALERT_PCT" default:"3"`
}

// LLMConfig holds the optional language-model backend used for prompt
// analysis. When Enabled is false or the key is empty, prompt analysis
// degrades to rule-based responses.
type LLMConfig struct {
	Enabled bool          `envconfig:"LLM_ENABLED" default:"false"`
	BaseURL string        `envconfig:"LLM_BASE_URL" default:"https://api.openai.com"`
	APIKey  SecretString  `envconfig:"LLM_API_KEY"`
	Model   string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"20s"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
