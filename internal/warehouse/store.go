package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"pulseboard/internal/types"
)

// Store is the warehouse gateway for normalized sector records.
type Store struct {
	db     DBTX
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection (pool or
// transaction).
func NewStore(db DBTX, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Ping verifies warehouse connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return types.NewAppError(types.ErrCodePersistenceConn, "warehouse ping failed", err)
	}
	return nil
}

const upsertQuoteSQL = `
	INSERT INTO stock_quotes (symbol, trading_day, company_name, open, high, low, close, volume, fetched_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (symbol, trading_day) DO UPDATE SET
		company_name = EXCLUDED.company_name,
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		fetched_at = EXCLUDED.fetched_at`

// UpsertQuotes writes quotes row by row. It returns the number of rows
// written and the first error encountered; later rows are still attempted.
func (s *Store) UpsertQuotes(ctx context.Context, quotes []types.StockQuote) (int, error) {
	written := 0
	var firstErr error
	for _, q := range quotes {
		_, err := s.db.Exec(ctx, upsertQuoteSQL,
			q.Symbol, q.TradingDay, q.CompanyName, q.Open, q.High, q.Low, q.Close, q.Volume, q.FetchedAt)
		if err != nil {
			s.logger.ErrorContext(ctx, "quote upsert failed",
				"symbol", q.Symbol, "trading_day", q.TradingDay, "error", err)
			if firstErr == nil {
				firstErr = types.NewAppError(types.ErrCodePersistenceWrite,
					fmt.Sprintf("upserting quote %s/%s", q.Symbol, q.TradingDay), err)
			}
			continue
		}
		written++
	}
	return written, firstErr
}

const upsertLineSQL = `
	INSERT INTO transit_lines (line_id, recorded_at, line_name, mode, status, severity, reason, delay_minutes, is_active, night_service, validity_periods)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (line_id, recorded_at) DO UPDATE SET
		line_name = EXCLUDED.line_name,
		mode = EXCLUDED.mode,
		status = EXCLUDED.status,
		severity = EXCLUDED.severity,
		reason = EXCLUDED.reason,
		delay_minutes = EXCLUDED.delay_minutes,
		is_active = EXCLUDED.is_active,
		night_service = EXCLUDED.night_service,
		validity_periods = EXCLUDED.validity_periods`

// UpsertLines writes transit line snapshots with the same per-row
// semantics as UpsertQuotes.
func (s *Store) UpsertLines(ctx context.Context, lines []types.TransitLine) (int, error) {
	written := 0
	var firstErr error
	for _, l := range lines {
		_, err := s.db.Exec(ctx, upsertLineSQL,
			l.LineID, l.RecordedAt, l.LineName, l.Mode, l.Status, l.Severity,
			l.Reason, l.DelayMinutes, l.Active, l.NightService, l.ValidityPeriods)
		if err != nil {
			s.logger.ErrorContext(ctx, "transit line upsert failed",
				"line_id", l.LineID, "error", err)
			if firstErr == nil {
				firstErr = types.NewAppError(types.ErrCodePersistenceWrite,
					fmt.Sprintf("upserting transit line %s", l.LineID), err)
			}
			continue
		}
		written++
	}
	return written, firstErr
}

const upsertReadingSQL = `
	INSERT INTO weather_readings (location, observed_at, temperature_c, humidity, precipitation, weather_code, condition)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (location, observed_at) DO UPDATE SET
		temperature_c = EXCLUDED.temperature_c,
		humidity = EXCLUDED.humidity,
		precipitation = EXCLUDED.precipitation,
		weather_code = EXCLUDED.weather_code,
		condition = EXCLUDED.condition`

// UpsertReadings writes weather observations with the same per-row
// semantics as UpsertQuotes.
func (s *Store) UpsertReadings(ctx context.Context, readings []types.WeatherReading) (int, error) {
	written := 0
	var firstErr error
	for _, r := range readings {
		_, err := s.db.Exec(ctx, upsertReadingSQL,
			r.Location, r.ObservedAt, r.TemperatureC, r.Humidity,
			r.Precipitation, r.WeatherCode, r.Condition)
		if err != nil {
			s.logger.ErrorContext(ctx, "weather reading upsert failed",
				"location", r.Location, "observed_at", r.ObservedAt, "error", err)
			if firstErr == nil {
				firstErr = types.NewAppError(types.ErrCodePersistenceWrite,
					fmt.Sprintf("upserting weather reading for %s", r.Location), err)
			}
			continue
		}
		written++
	}
	return written, firstErr
}

// RecentQuotes reads back quotes for the last N days, ordered by symbol
// then trading day ascending so downstream change computation sees each
// symbol's history in order.
func (s *Store) RecentQuotes(ctx context.Context, days int) ([]types.StockQuote, error) {
	if days < 1 {
		days = 1
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.Query(ctx, `
		SELECT symbol, to_char(trading_day, 'YYYY-MM-DD'), company_name, open, high, low, close, volume, fetched_at
		FROM stock_quotes
		WHERE trading_day >= $1
		ORDER BY symbol ASC, trading_day ASC`, cutoff)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "querying recent quotes", err)
	}
	defer rows.Close()

	var quotes []types.StockQuote
	for rows.Next() {
		var q types.StockQuote
		if err := rows.Scan(&q.Symbol, &q.TradingDay, &q.CompanyName,
			&q.Open, &q.High, &q.Low, &q.Close, &q.Volume, &q.FetchedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodePersistenceRead, "scanning quote row", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "iterating quote rows", err)
	}
	return quotes, nil
}

// RecentReadings reads back the latest weather observations in ascending
// time order, bounded to limit rows.
func (s *Store) RecentReadings(ctx context.Context, limit int) ([]types.WeatherReading, error) {
	if limit < 1 {
		limit = 1
	}

	rows, err := s.db.Query(ctx, `
		SELECT location, observed_at, temperature_c, humidity, precipitation, weather_code, condition
		FROM (
			SELECT * FROM weather_readings ORDER BY observed_at DESC LIMIT $1
		) recent
		ORDER BY observed_at ASC`, limit)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "querying recent readings", err)
	}
	defer rows.Close()

	var readings []types.WeatherReading
	for rows.Next() {
		var r types.WeatherReading
		if err := rows.Scan(&r.Location, &r.ObservedAt, &r.TemperatureC,
			&r.Humidity, &r.Precipitation, &r.WeatherCode, &r.Condition); err != nil {
			return nil, types.NewAppError(types.ErrCodePersistenceRead, "scanning reading row", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodePersistenceRead, "iterating reading rows", err)
	}
	return readings, nil
}

// LatestFetch returns the newest fetched_at timestamp for a symbol's
// quotes, for the source introspection endpoints. ok is false when no rows
// exist.
func (s *Store) LatestFetch(ctx context.Context, symbol string) (time.Time, bool, error) {
	var fetchedAt time.Time
	err := s.db.QueryRow(ctx,
		`SELECT fetched_at FROM stock_quotes WHERE symbol = $1 ORDER BY trading_day DESC LIMIT 1`,
		symbol).Scan(&fetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, types.NewAppError(types.ErrCodePersistenceRead, "querying latest fetch", err)
	}
	return fetchedAt, true, nil
}
