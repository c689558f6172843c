// Package analysis implements prompt analysis: sector detection from free
// text, data summaries, rule-based insights, and optional language-model
// enrichment through the external.Completer collaborator. The service
// degrades to rule-based output whenever the model is absent or failing.
package analysis

import (
	"strings"

	"pulseboard/internal/types"
)

// Detection keyword sets, checked in priority order. Night-service
// wording is checked before the general transport set so "night tube"
// never leaks into a scored tie-break.
var (
	nightTubeKeywords = []string{"night tube", "night service", "night transport", "overnight tube"}

	transportKeywords = []string{
		"tube", "train", "bus", "delay", "tfl", "transport", "underground",
		"line", "station", "commute", "journey", "service", "disruption",
		"central line", "victoria line", "northern line", "piccadilly line",
	}

	weatherKeywords = []string{"weather", "temperature", "forecast", "rain", "snow", "wind"}

	sectorKeywords = map[types.Sector][]string{
		types.SectorTransportation: {"transport", "tube", "train", "bus", "delay", "tfl", "commute"},
		types.SectorFinance:        {"stock", "market", "ftse", "investment", "price", "financial", "trading"},
		types.SectorWeather:        {"weather", "temperature", "forecast", "rain", "met office"},
	}
)

// DetectSector finds the single most relevant sector for a prompt. The
// priority checks (night service, transport, weather) short-circuit;
// otherwise sectors are scored by keyword hits and the best match wins.
func DetectSector(prompt string) (types.Sector, bool) {
	p := strings.ToLower(prompt)

	if containsAny(p, nightTubeKeywords) {
		return types.SectorTransportation, true
	}
	if containsAny(p, transportKeywords) {
		return types.SectorTransportation, true
	}
	if containsAny(p, weatherKeywords) {
		return types.SectorWeather, true
	}

	best := types.Sector("")
	bestScore := 0
	for _, sector := range types.Sectors() {
		score := 0
		for _, kw := range sectorKeywords[sector] {
			if strings.Contains(p, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = sector, score
		}
	}
	return best, bestScore > 0
}

// DetectSectors finds every sector a prompt touches, in canonical sector
// order.
func DetectSectors(prompt string) []types.Sector {
	p := strings.ToLower(prompt)
	var detected []types.Sector
	for _, sector := range types.Sectors() {
		if containsAny(p, sectorKeywords[sector]) {
			detected = append(detected, sector)
		}
	}
	return detected
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
