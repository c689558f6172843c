package normalize

import (
	"sort"
	"strings"
	"time"

	"pulseboard/internal/ingest"
	"pulseboard/internal/types"
)

// Status defaults for a line with no status entries. An empty status list is
// the steady state, not an error: the line gets a "good service" record with
// zero delay.
const (
	defaultStatusText = "Good Service"
	defaultSeverity   = 10
)

// inactiveSeverity marks the boundary for is_active: severity >= 20 means
// the line is not running.
const inactiveSeverity = 20

// LineStatusDecoder turns TfL line status payloads into transit records.
// Every line object yields exactly one record.
type LineStatusDecoder struct{}

// NewLineStatusDecoder creates a decoder.
func NewLineStatusDecoder() *LineStatusDecoder {
	return &LineStatusDecoder{}
}

// DecodeAll converts a table of line objects. recordedAt is the injected
// observation time.
func (d *LineStatusDecoder) DecodeAll(table ingest.Table, recordedAt time.Time) []types.TransitLine {
	out := make([]types.TransitLine, 0, len(table))
	for _, rec := range table {
		out = append(out, d.DecodeLine(rec, recordedAt))
	}
	return out
}

// DecodeLine converts one line object into a transit record.
func (d *LineStatusDecoder) DecodeLine(line ingest.Record, recordedAt time.Time) types.TransitLine {
	statuses := listField(line, "lineStatuses")
	serviceTypes := listField(line, "serviceTypes")

	out := types.TransitLine{
		LineID:          stringField(line, "id", "unknown"),
		LineName:        stringField(line, "name", "Unknown Line"),
		Mode:            stringField(line, "modeName", "Unknown Mode"),
		ServiceTypes:    serviceCategories(serviceTypes),
		NightService:    isNightService(serviceTypes),
		ValidityPeriods: countValidityPeriods(line),
		RecordedAt:      recordedAt,
	}

	out.Origins, out.Destinations = routeEndpoints(listField(line, "routeSections"))
	out.DisruptionKinds = disruptionReasons(statuses)

	status, severity, reason := primaryStatus(statuses)
	out.Status = status
	out.Severity = severity
	out.Reason = reason
	out.Active = severity < inactiveSeverity
	if len(statuses) == 0 {
		// Steady state: good service, no delay, regardless of the default
		// severity value.
		out.DelayMinutes = 0
	} else {
		out.DelayMinutes = DelayMinutes(severity)
	}

	return out
}

// DelayMinutes is the deterministic step function from a status severity
// integer to an estimated delay. The mapping is independent of status text;
// severity alone decides.
func DelayMinutes(severity int) int {
	switch {
	case severity <= 3:
		return 0 // good service
	case severity <= 6:
		return 5 // minor delays
	case severity <= 9:
		return 15 // severe delays
	default:
		return 30 // closed or part closed
	}
}

// primaryStatus extracts the first status entry (the most relevant one) or
// the good-service defaults when the list is empty.
func primaryStatus(statuses []map[string]any) (string, int, string) {
	if len(statuses) == 0 {
		return defaultStatusText, defaultSeverity, ""
	}
	s := statuses[0]
	text := stringField(s, "statusSeverityDescription", defaultStatusText)
	severity := defaultSeverity
	if f, ok := s["statusSeverity"].(float64); ok {
		severity = int(f)
	}
	reason := stringField(s, "reason", "")
	return text, severity, reason
}

// serviceCategories collects unique service type names, sorted so output is
// deterministic across runs.
func serviceCategories(serviceTypes []map[string]any) []string {
	seen := map[string]struct{}{}
	for _, s := range serviceTypes {
		if name := stringField(s, "name", ""); name != "" {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// isNightService reports whether any service type names a night service.
func isNightService(serviceTypes []map[string]any) bool {
	for _, s := range serviceTypes {
		if strings.Contains(stringField(s, "name", ""), "Night") {
			return true
		}
	}
	return false
}

// routeEndpoints collects unique origin and destination station names,
// sorted for determinism.
func routeEndpoints(routes []map[string]any) ([]string, []string) {
	origins := map[string]struct{}{}
	destinations := map[string]struct{}{}
	for _, r := range routes {
		origins[stringField(r, "originator", "Unknown")] = struct{}{}
		destinations[stringField(r, "destination", "Unknown")] = struct{}{}
	}
	return sortedKeys(origins), sortedKeys(destinations)
}

// disruptionReasons collects status reasons and disruption descriptions,
// de-duplicated, preserving first-seen order.
func disruptionReasons(statuses []map[string]any) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(reason string) {
		if reason == "" {
			return
		}
		if _, dup := seen[reason]; dup {
			return
		}
		seen[reason] = struct{}{}
		out = append(out, reason)
	}

	for _, s := range statuses {
		add(stringField(s, "reason", ""))
		if disruption, ok := s["disruption"].(map[string]any); ok {
			add(stringField(disruption, "description", ""))
		}
	}
	return out
}

func countValidityPeriods(line ingest.Record) int {
	return len(listField(line, "validityPeriods"))
}

// listField extracts a list-of-objects field, tolerating absence and
// non-object elements.
func listField(rec map[string]any, key string) []map[string]any {
	raw, ok := rec[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringField(rec map[string]any, key, fallback string) string {
	if s, ok := rec[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
