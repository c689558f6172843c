package types

import "time"

// Sector identifies one of the data domains served by the dashboard.
type Sector string

const (
	SectorTransportation Sector = "transportation"
	SectorFinance        Sector = "finance"
	SectorWeather        Sector = "weather"
)

// ValidSector reports whether s names a known sector.
func ValidSector(s Sector) bool {
	switch s {
	case SectorTransportation, SectorFinance, SectorWeather:
		return true
	}
	return false
}

// Sectors lists all sectors in presentation order.
func Sectors() []Sector {
	return []Sector{SectorTransportation, SectorFinance, SectorWeather}
}

// DataOrigin tags a payload with where its rows came from. Consumers can
// distinguish live upstream data from the canned fallback dataset that is
// served when every upstream attempt failed.
type DataOrigin string

const (
	OriginLive     DataOrigin = "live"
	OriginFallback DataOrigin = "fallback"
)

// Provenance records the origin of a sector payload and, when the origin is
// fallback, the reason live data was unavailable.
type Provenance struct {
	Source DataOrigin `json:"source"`
	Reason string     `json:"reason,omitempty"`
}

// Live returns a Provenance marking live upstream data.
func Live() Provenance {
	return Provenance{Source: OriginLive}
}

// Fallback returns a Provenance marking canned data with the given reason.
func Fallback(reason string) Provenance {
	return Provenance{Source: OriginFallback, Reason: reason}
}

// StockQuote is a normalized daily OHLCV bar for one symbol.
type StockQuote struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      int64     `json:"volume"`
	TradingDay  string    `json:"trading_day"` // YYYY-MM-DD
	FetchedAt   time.Time `json:"fetched_at"`
}

// TransitLine is a normalized status snapshot for one transit line.
type TransitLine struct {
	LineID           string    `json:"line_id"`
	LineName         string    `json:"line_name"`
	Mode             string    `json:"mode"`
	Status           string    `json:"status"`
	Severity         int       `json:"severity"`
	Reason           string    `json:"reason,omitempty"`
	DelayMinutes     int       `json:"delay_minutes"`
	Active           bool      `json:"is_active"`
	NightService     bool      `json:"night_service"`
	ServiceTypes     []string  `json:"service_types,omitempty"`
	Origins          []string  `json:"origins,omitempty"`
	Destinations     []string  `json:"destinations,omitempty"`
	DisruptionKinds  []string  `json:"disruption_kinds,omitempty"`
	ValidityPeriods  int       `json:"validity_periods"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// WeatherReading is a normalized point-in-time weather observation.
type WeatherReading struct {
	Location      string    `json:"location"`
	TemperatureC  float64   `json:"temperature_c"`
	Humidity      float64   `json:"humidity"`
	Precipitation float64   `json:"precipitation_mm"`
	WeatherCode   int       `json:"weather_code"`
	Condition     string    `json:"condition"`
	ObservedAt    time.Time `json:"observed_at"`
}

// AlertLevel is the presentation severity of a dashboard alert.
type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertSuccess AlertLevel = "success"
	AlertError   AlertLevel = "error"
)

// Alert is a threshold-triggered notice surfaced on the dashboard.
type Alert struct {
	Kind    string     `json:"type"`
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Sector  Sector     `json:"sector,omitempty"`
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }
