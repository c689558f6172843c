package overview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"pulseboard/internal/types"
)

// TransportSource yields the current normalized line statuses.
type TransportSource interface {
	Lines(ctx context.Context) ([]types.TransitLine, error)
}

// FinanceSource yields recent normalized quotes, oldest day first.
type FinanceSource interface {
	Quotes(ctx context.Context) ([]types.StockQuote, error)
}

// WeatherSource yields recent observations in ascending time order.
type WeatherSource interface {
	Readings(ctx context.Context) ([]types.WeatherReading, error)
}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	CacheTTL  time.Duration
	Transport TransportLimits
	Finance   FinanceOptions
}

const defaultCacheTTL = 5 * time.Minute

// Service builds dashboard payloads from the three sector sources with a
// read-through TTL cache. A failed sector fetch degrades to the canned
// fallback payload with fallback provenance; it never fails the request.
type Service struct {
	transport TransportSource
	finance   FinanceSource
	weather   WeatherSource
	cache     *gocache.Cache
	logger    *slog.Logger
	clock     types.Clock
	opts      Options
}

// NewService creates an overview service over the three sector sources.
func NewService(transport TransportSource, finance FinanceSource, weather WeatherSource, logger *slog.Logger, clock types.Clock, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Service{
		transport: transport,
		finance:   finance,
		weather:   weather,
		cache:     gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		logger:    logger,
		clock:     clock,
		opts:      opts,
	}
}

// Dashboard builds the combined overview. The three sectors are fetched
// concurrently; each settles independently so one failing upstream cannot
// drag the others down.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		transport SectorResult[TransportOverview]
		finance   SectorResult[FinanceOverview]
		weather   SectorResult[WeatherOverview]
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		transport = s.TransportOverview(gCtx)
		return nil
	})
	g.Go(func() error {
		finance = s.FinanceOverview(gCtx)
		return nil
	})
	g.Go(func() error {
		weather = s.WeatherOverview(gCtx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &Dashboard{
		Transportation: transport,
		Finance:        finance,
		Weather:        weather,
		LastUpdated:    now,
		Summary:        BuildSummary(transport.Data, now),
	}, nil
}

// TransportOverview builds (or serves from cache) the transport sector
// overview.
func (s *Service) TransportOverview(ctx context.Context) SectorResult[TransportOverview] {
	key := s.cacheKey(types.SectorTransportation)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(SectorResult[TransportOverview])
	}

	lines, err := s.transport.Lines(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "transport fetch failed, serving fallback", "error", err)
		return SectorResult[TransportOverview]{
			Data:       sampleTransportOverview(s.clock.Now()),
			Provenance: types.Fallback(fallbackReason(err)),
		}
	}

	result := SectorResult[TransportOverview]{
		Data:       BuildTransportOverview(lines, s.clock.Now(), s.opts.Transport),
		Provenance: types.Live(),
	}
	s.cache.Set(key, result, gocache.DefaultExpiration)
	return result
}

// FinanceOverview builds (or serves from cache) the finance sector
// overview.
func (s *Service) FinanceOverview(ctx context.Context) SectorResult[FinanceOverview] {
	key := s.cacheKey(types.SectorFinance)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(SectorResult[FinanceOverview])
	}

	quotes, err := s.finance.Quotes(ctx)
	if err != nil || len(quotes) == 0 {
		if err != nil {
			s.logger.WarnContext(ctx, "finance fetch failed, serving fallback", "error", err)
		} else {
			s.logger.WarnContext(ctx, "no quotes available, serving fallback")
		}
		return SectorResult[FinanceOverview]{
			Data:       sampleFinanceOverview(s.clock.Now()),
			Provenance: types.Fallback(fallbackReason(err)),
		}
	}

	result := SectorResult[FinanceOverview]{
		Data:       BuildFinanceOverview(quotes, s.opts.Finance),
		Provenance: types.Live(),
	}
	s.cache.Set(key, result, gocache.DefaultExpiration)
	return result
}

// WeatherOverview builds (or serves from cache) the weather sector
// overview.
func (s *Service) WeatherOverview(ctx context.Context) SectorResult[WeatherOverview] {
	key := s.cacheKey(types.SectorWeather)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(SectorResult[WeatherOverview])
	}

	readings, err := s.weather.Readings(ctx)
	if err != nil || len(readings) == 0 {
		if err != nil {
			s.logger.WarnContext(ctx, "weather fetch failed, serving fallback", "error", err)
		} else {
			s.logger.WarnContext(ctx, "no weather readings, serving fallback")
		}
		return SectorResult[WeatherOverview]{
			Data:       sampleWeatherOverview(s.clock.Now()),
			Provenance: types.Fallback(fallbackReason(err)),
		}
	}

	result := SectorResult[WeatherOverview]{
		Data:       BuildWeatherOverview(readings),
		Provenance: types.Live(),
	}
	s.cache.Set(key, result, gocache.DefaultExpiration)
	return result
}

// Sector builds one sector overview as an untyped payload for the
// per-sector endpoint.
func (s *Service) Sector(ctx context.Context, sector types.Sector) (any, error) {
	switch sector {
	case types.SectorTransportation:
		return s.TransportOverview(ctx), nil
	case types.SectorFinance:
		return s.FinanceOverview(ctx), nil
	case types.SectorWeather:
		return s.WeatherOverview(ctx), nil
	default:
		return nil, &types.AppError{
			Code:    types.ErrCodeNotFoundSector,
			Message: fmt.Sprintf("unknown sector: %s", sector),
		}
	}
}

// Alerts flattens the current alerts across all sectors. Transport issues
// of high severity surface as alerts too.
func (s *Service) Alerts(ctx context.Context) ([]types.Alert, error) {
	dashboard, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	alerts := []types.Alert{}
	for _, issue := range dashboard.Transportation.Data.MajorIssues {
		if issue.Severity != "high" {
			continue
		}
		alerts = append(alerts, types.Alert{
			Kind:    "transport_disruption",
			Level:   types.AlertWarning,
			Title:   issue.Line,
			Message: fmt.Sprintf("%s: %s", issue.Status, issue.Reason),
			Sector:  types.SectorTransportation,
		})
	}
	alerts = append(alerts, dashboard.Finance.Data.Alerts...)
	alerts = append(alerts, dashboard.Weather.Data.Alerts...)
	return alerts, nil
}

// Metrics builds the headline metric tiles for the dashboard header.
func (s *Service) Metrics(ctx context.Context) (*MetricTiles, error) {
	dashboard, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	alerts, err := s.Alerts(ctx)
	if err != nil {
		return nil, err
	}

	return &MetricTiles{
		TransportDelayPct:   dashboard.Transportation.Data.DelayPercentage,
		TransportTrend:      dashboard.Transportation.Data.Trend,
		MarketAverageChange: dashboard.Finance.Data.AverageChange,
		MarketTrend:         dashboard.Finance.Data.MarketTrend,
		CurrentTemperature:  dashboard.Weather.Data.CurrentTemp,
		WeatherCondition:    dashboard.Weather.Data.Condition,
		ActiveAlerts:        len(alerts),
		LastUpdated:         dashboard.LastUpdated,
	}, nil
}

// cacheKey scopes cached overviews to the sector and calendar day so a
// stale entry can never bleed across a day boundary.
func (s *Service) cacheKey(sector types.Sector) string {
	return fmt.Sprintf("%s:%s", sector, s.clock.Now().UTC().Format("2006-01-02"))
}

func fallbackReason(err error) string {
	if err == nil {
		return "no data available"
	}
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Code)
	}
	return err.Error()
}
