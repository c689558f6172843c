package ingest

import (
	"context"
	"time"
)

// defaultFetchTimeout bounds outbound calls when the source config does not
// specify one. A missing timeout is a defect, not a policy choice, so the
// adapter always enforces a bound.
const defaultFetchTimeout = 30 * time.Second

// SourceConfig describes one data source. Exactly one of FilePath/URL must
// be set for the file adapter; URL is required for the API adapter.
type SourceConfig struct {
	ID     string
	Name   string
	Sector string

	FilePath string
	URL      string
	Method   string // GET or POST; defaults to GET
	Headers  map[string]string
	Params   map[string]any
	Body     any

	// DataKey, when set, selects a sub-object of the decoded JSON before
	// generic shape dispatch (e.g., "current" for Open-Meteo).
	DataKey string

	Timeout time.Duration
}

// EffectiveTimeout returns the configured timeout or the enforced default.
func (c SourceConfig) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultFetchTimeout
}

// Adapter obtains a tabular result from one kind of source. Implementations
// never return an error: failures are logged and yield an empty Table.
type Adapter interface {
	Fetch(ctx context.Context, cfg SourceConfig) Table
}
