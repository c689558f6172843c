package warehouse

import (
	"context"
	"fmt"
)

// Schema statements are idempotent so the ingestion job can run them on
// every start without coordination.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stock_quotes (
		symbol       TEXT NOT NULL,
		trading_day  DATE NOT NULL,
		company_name TEXT NOT NULL DEFAULT '',
		open         DOUBLE PRECISION NOT NULL DEFAULT 0,
		high         DOUBLE PRECISION NOT NULL DEFAULT 0,
		low          DOUBLE PRECISION NOT NULL DEFAULT 0,
		close        DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume       BIGINT NOT NULL DEFAULT 0,
		fetched_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (symbol, trading_day)
	)`,
	`CREATE TABLE IF NOT EXISTS transit_lines (
		line_id          TEXT NOT NULL,
		recorded_at      TIMESTAMPTZ NOT NULL,
		line_name        TEXT NOT NULL DEFAULT '',
		mode             TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT '',
		severity         INT NOT NULL DEFAULT 0,
		reason           TEXT NOT NULL DEFAULT '',
		delay_minutes    INT NOT NULL DEFAULT 0,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		night_service    BOOLEAN NOT NULL DEFAULT FALSE,
		validity_periods INT NOT NULL DEFAULT 0,
		PRIMARY KEY (line_id, recorded_at)
	)`,
	`CREATE TABLE IF NOT EXISTS weather_readings (
		location      TEXT NOT NULL,
		observed_at   TIMESTAMPTZ NOT NULL,
		temperature_c DOUBLE PRECISION NOT NULL DEFAULT 0,
		humidity      DOUBLE PRECISION NOT NULL DEFAULT 0,
		precipitation DOUBLE PRECISION NOT NULL DEFAULT 0,
		weather_code  INT NOT NULL DEFAULT 0,
		condition     TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (location, observed_at)
	)`,
}

// EnsureSchema creates the warehouse tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema statement: %w", err)
		}
	}
	return nil
}
