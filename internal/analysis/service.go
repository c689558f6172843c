package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pulseboard/internal/external"
	"pulseboard/internal/types"
)

// DataProvider supplies the normalized records an analysis is grounded on.
// The overview sources satisfy this through a thin adapter in the wiring.
type DataProvider interface {
	TransportLines(ctx context.Context) ([]types.TransitLine, error)
	FinanceQuotes(ctx context.Context) ([]types.StockQuote, error)
	WeatherReadings(ctx context.Context) ([]types.WeatherReading, error)
}

// Analysis is the response for a single-sector prompt.
type Analysis struct {
	Sector           types.Sector    `json:"sector"`
	Prompt           string          `json:"prompt"`
	Insights         string          `json:"insights"`
	DataSummary      DataSummary     `json:"data_summary"`
	Visualizations   []Visualization `json:"visualizations"`
	Recommendations  []string        `json:"recommendations"`
	RelatedQuestions []string        `json:"related_questions"`
	ConfidenceScore  float64         `json:"confidence_score"`
}

// MultiAnalysis is the response for a prompt spanning several sectors.
type MultiAnalysis struct {
	Sectors                   []types.Sector             `json:"sectors"`
	CrossSectorInsights       string                     `json:"cross_sector_insights"`
	SectorAnalyses            map[types.Sector]*Analysis `json:"sector_analyses"`
	IntegratedRecommendations []string                   `json:"integrated_recommendations"`
}

// Visualization is a chart suggestion attached to an analysis.
type Visualization struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Confidence scoring constants.
const (
	confidenceNoData     = 0.3
	confidenceBase       = 0.7
	confidenceLargeData  = 0.2
	confidenceTimeSeries = 0.1
	confidenceComplexity = 0.1
	confidenceFloor      = 0.1
	largeDatasetRows     = 100
	relatedQuestionLimit = 5
	integratedRecsLimit  = 10
)

var complexityIndicators = []string{"predict", "forecast", "correlation", "impact", "analyze"}

// Service analyzes user prompts against live sector data.
type Service struct {
	data      DataProvider
	completer external.Completer
	logger    *slog.Logger
}

// NewService creates an analysis service. completer may be nil, in which
// case every analysis uses the rule-based path.
func NewService(data DataProvider, completer external.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{data: data, completer: completer, logger: logger}
}

// AnalyzePrompt analyzes a prompt. When sector is empty it is detected
// from the text; a prompt touching several sectors returns a MultiAnalysis
// instead. An unclassifiable prompt is a validation error.
func (s *Service) AnalyzePrompt(ctx context.Context, prompt string, sector types.Sector) (any, error) {
	if sector != "" {
		if !types.ValidSector(sector) {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidSector,
				fmt.Sprintf("unknown sector: %s", sector), nil,
				map[string]any{"valid_sectors": types.Sectors()})
		}
		return s.analyzeSector(ctx, prompt, sector), nil
	}

	if sectors := DetectSectors(prompt); len(sectors) > 1 {
		return s.analyzeMulti(ctx, prompt, sectors), nil
	}
	if detected, ok := DetectSector(prompt); ok {
		return s.analyzeSector(ctx, prompt, detected), nil
	}

	return nil, types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidSector,
		"unable to identify relevant sector(s)", nil,
		map[string]any{"suggestions": []string{
			"Specify a sector (transportation, finance, weather)",
			`Try: "Show me current transport delays"`,
		}})
}

func (s *Service) analyzeMulti(ctx context.Context, prompt string, sectors []types.Sector) *MultiAnalysis {
	analyses := make(map[types.Sector]*Analysis, len(sectors))
	names := make([]string, 0, len(sectors))
	var recommendations []string
	for _, sector := range sectors {
		a := s.analyzeSector(ctx, prompt, sector)
		analyses[sector] = a
		names = append(names, string(sector))
		for _, rec := range a.Recommendations {
			recommendations = append(recommendations, fmt.Sprintf("%s: %s", titleCase(string(sector)), rec))
		}
	}
	if len(recommendations) > integratedRecsLimit {
		recommendations = recommendations[:integratedRecsLimit]
	}

	return &MultiAnalysis{
		Sectors:                   sectors,
		CrossSectorInsights:       fmt.Sprintf("Cross-sector analysis covering %s.", strings.Join(names, ", ")),
		SectorAnalyses:            analyses,
		IntegratedRecommendations: recommendations,
	}
}

func (s *Service) analyzeSector(ctx context.Context, prompt string, sector types.Sector) *Analysis {
	summary, dataInsights, err := s.loadSectorSummary(ctx, sector)
	if err != nil {
		s.logger.WarnContext(ctx, "sector data unavailable for analysis",
			"sector", sector, "error", err)
		return fallbackAnalysis(prompt, sector)
	}

	insights := s.insights(ctx, prompt, sector, summary, dataInsights)

	return &Analysis{
		Sector:           sector,
		Prompt:           prompt,
		Insights:         insights,
		DataSummary:      summary,
		Visualizations:   visualizations(summary),
		Recommendations:  recommendations(sector),
		RelatedQuestions: relatedQuestions(prompt, sector),
		ConfidenceScore:  confidence(summary, prompt),
	}
}

// fallbackAnalysis is returned when a sector's data cannot be loaded at
// all. It carries fixed guidance instead of data-grounded insights.
func fallbackAnalysis(prompt string, sector types.Sector) *Analysis {
	return &Analysis{
		Sector:   sector,
		Prompt:   prompt,
		Insights: fmt.Sprintf(
			"I couldn't analyze your query about %s at the moment. The data may be temporarily unavailable.", sector),
		DataSummary:    DataSummary{},
		Visualizations: []Visualization{},
		Recommendations: []string{
			"Check if data sources are available",
			"Try a simpler query",
			"Contact support if the issue persists",
		},
		RelatedQuestions: []string{
			fmt.Sprintf("What are the current trends in %s?", sector),
			fmt.Sprintf("Show me a summary of %s data", sector),
		},
		ConfidenceScore: confidenceNoData,
	}
}

// loadSectorSummary fetches and summarizes the sector's records.
func (s *Service) loadSectorSummary(ctx context.Context, sector types.Sector) (DataSummary, []string, error) {
	switch sector {
	case types.SectorTransportation:
		lines, err := s.data.TransportLines(ctx)
		if err != nil {
			return DataSummary{}, nil, err
		}
		return summarizeTransport(lines), transportInsights(lines), nil
	case types.SectorFinance:
		quotes, err := s.data.FinanceQuotes(ctx)
		if err != nil {
			return DataSummary{}, nil, err
		}
		return summarizeFinance(quotes), financeInsights(quotes), nil
	case types.SectorWeather:
		readings, err := s.data.WeatherReadings(ctx)
		if err != nil {
			return DataSummary{}, nil, err
		}
		return summarizeWeather(readings), weatherInsights(readings), nil
	default:
		return DataSummary{}, nil, nil
	}
}

// insights asks the language model when one is configured, falling back
// to the rule-based rendering on any failure.
func (s *Service) insights(ctx context.Context, prompt string, sector types.Sector, summary DataSummary, dataInsights []string) string {
	if s.completer != nil {
		system := fmt.Sprintf(
			"You are a data analyst for a multi-sector dashboard. Analyze the %s sector. Ground every statement in the provided data summary and be concise.",
			sector)
		user := fmt.Sprintf("Question: %s\n\nData summary: %d records", prompt, summary.RecordCount)
		if summary.TimeRange != nil {
			user += fmt.Sprintf(" from %s to %s",
				summary.TimeRange.Start.Format("2006-01-02"), summary.TimeRange.End.Format("2006-01-02"))
		}

		answer, err := s.completer.Complete(ctx, system, user)
		if err == nil {
			return enhance(answer, summary)
		}
		s.logger.WarnContext(ctx, "model completion failed, using rule-based insights",
			"sector", sector, "error", err)
	}

	return enhance(basicInsights(prompt, sector, summary, dataInsights), summary)
}

// basicInsights renders the rule-based analysis text.
func basicInsights(prompt string, sector types.Sector, summary DataSummary, dataInsights []string) string {
	title := titleCase(string(sector))
	if summary.RecordCount == 0 {
		return fmt.Sprintf("## %s Analysis\n\nNo data available for the %s sector.", title, sector)
	}

	parts := []string{
		fmt.Sprintf("## %s Analysis", title),
		fmt.Sprintf("**User Query:** %s", prompt),
		fmt.Sprintf("**Dataset:** %d records available", summary.RecordCount),
	}
	if summary.TimeRange != nil {
		parts = append(parts, fmt.Sprintf("**Time Period:** %s to %s",
			summary.TimeRange.Start.Format("2006-01-02"), summary.TimeRange.End.Format("2006-01-02")))
	}
	parts = append(parts, dataInsights...)
	return strings.Join(parts, "\n\n")
}

// enhance appends the data-grounding note every insight carries.
func enhance(insights string, summary DataSummary) string {
	if summary.RecordCount == 0 {
		return insights + "\n\nNote: Limited data available for comprehensive analysis."
	}
	note := fmt.Sprintf("\n\nAnalysis based on %d data points", summary.RecordCount)
	if summary.TimeRange != nil {
		note += fmt.Sprintf(" from %s to %s",
			summary.TimeRange.Start.Format("2006-01-02"), summary.TimeRange.End.Format("2006-01-02"))
	}
	return insights + note
}

func transportInsights(lines []types.TransitLine) []string {
	if len(lines) == 0 {
		return nil
	}
	delayed := 0
	for _, l := range lines {
		if !strings.Contains(strings.ToLower(l.Status), "good service") {
			delayed++
		}
	}
	return []string{fmt.Sprintf("**Services with Issues:** %d of %d lines", delayed, len(lines))}
}

func financeInsights(quotes []types.StockQuote) []string {
	if len(quotes) == 0 {
		return nil
	}
	latest := quotes[len(quotes)-1]
	return []string{fmt.Sprintf("**Latest Price:** £%.2f (%s)", latest.Close, latest.Symbol)}
}

func weatherInsights(readings []types.WeatherReading) []string {
	if len(readings) == 0 {
		return nil
	}
	sum := 0.0
	for _, r := range readings {
		sum += r.TemperatureC
	}
	return []string{fmt.Sprintf("**Average Temperature:** %.1f°C", sum/float64(len(readings)))}
}

func visualizations(summary DataSummary) []Visualization {
	if summary.RecordCount == 0 || summary.TimeRange == nil {
		return []Visualization{}
	}
	viz := []Visualization{{
		Type:        "timeseries",
		Title:       "Trend Analysis",
		Description: "Historical trends based on your query",
	}}
	if len(summary.Statistics) > 1 {
		viz = append(viz, Visualization{
			Type:        "correlation",
			Title:       "Relationship Analysis",
			Description: "Correlations between different metrics",
		})
	}
	return viz
}

var sectorRecommendations = map[types.Sector][]string{
	types.SectorTransportation: {
		"Check line statuses before traveling",
		"Allow extra time during disruptions",
		"Consider alternative routes for affected lines",
	},
	types.SectorFinance: {
		"Review portfolio exposure to the biggest movers",
		"Watch volatility before adjusting positions",
		"Compare performance against the sector average",
	},
	types.SectorWeather: {
		"Monitor daily weather forecasts",
		"Consider weather impact on activities",
		"Check for weather warnings",
	},
}

func recommendations(sector types.Sector) []string {
	return sectorRecommendations[sector]
}

var sectorQuestions = map[types.Sector][]string{
	types.SectorTransportation: {
		"Which lines have the most frequent delays?",
		"What are the peak commute times with least delays?",
		"How does weather affect transport delays?",
	},
	types.SectorFinance: {
		"What's the FTSE 100 trend this week?",
		"Which stocks are performing best?",
		"How does economic news affect market performance?",
	},
	types.SectorWeather: {
		"What's the weather forecast for the next few days?",
		"How does current weather compare to seasonal averages?",
		"What's the correlation between weather and transport delays?",
	},
}

// relatedQuestions suggests follow-ups: the sector's base set plus
// prompt-sensitive additions, bounded to five.
func relatedQuestions(prompt string, sector types.Sector) []string {
	questions := append([]string{}, sectorQuestions[sector]...)

	p := strings.ToLower(prompt)
	if strings.Contains(p, "today") {
		questions = append(questions, fmt.Sprintf("What are the current %s conditions?", sector))
	}
	if strings.Contains(p, "summary") {
		questions = append(questions, fmt.Sprintf("What are the key %s metrics to monitor?", sector))
	}

	if len(questions) > relatedQuestionLimit {
		questions = questions[:relatedQuestionLimit]
	}
	return questions
}

// SuggestedQuestions exposes the per-sector base questions for the
// suggestions endpoint.
func SuggestedQuestions() map[types.Sector][]string {
	out := make(map[types.Sector][]string, len(sectorQuestions))
	for sector, questions := range sectorQuestions {
		out[sector] = append([]string{}, questions...)
	}
	return out
}

// confidence scores how well-grounded an analysis is in data.
func confidence(summary DataSummary, prompt string) float64 {
	if summary.RecordCount == 0 {
		return confidenceNoData
	}

	score := confidenceBase
	if summary.RecordCount > largeDatasetRows {
		score += confidenceLargeData
	}
	if summary.TimeRange != nil {
		score += confidenceTimeSeries
	}
	if containsAny(strings.ToLower(prompt), complexityIndicators) {
		score -= confidenceComplexity
	}

	if score < confidenceFloor {
		score = confidenceFloor
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
