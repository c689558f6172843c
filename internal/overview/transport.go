package overview

import (
	"sort"
	"strings"
	"time"

	"pulseboard/internal/derive"
	"pulseboard/internal/types"
)

// Transport trend thresholds as a percentage of delayed lines.
const (
	poorDelayPct   = 30.0
	stableDelayPct = 10.0
)

const (
	transportChartHours = 6
	issueReasonMaxLen   = 100
)

// TransportLimits bounds the list sizes in a transport overview. Zero
// values fall back to the dashboard defaults.
type TransportLimits struct {
	MajorIssues int
	ChartPoints int
}

func (l TransportLimits) withDefaults() TransportLimits {
	if l.MajorIssues == 0 {
		l.MajorIssues = 5
	}
	if l.ChartPoints == 0 {
		l.ChartPoints = 7
	}
	return l
}

// BuildTransportOverview aggregates normalized line statuses into the
// transport dashboard payload. A line counts as delayed only when its
// status is not some flavour of good service; the delay-minutes field
// alone never marks a line delayed.
func BuildTransportOverview(lines []types.TransitLine, now time.Time, limits TransportLimits) TransportOverview {
	limits = limits.withDefaults()

	totalLines := len(lines)
	delayed := 0
	for _, line := range lines {
		if isDelayedStatus(line.Status) {
			delayed++
		}
	}

	delayPct := 0.0
	if totalLines > 0 {
		delayPct = float64(delayed) / float64(totalLines) * 100
	}

	trend := "excellent"
	switch {
	case delayPct > poorDelayPct:
		trend = "poor"
	case delayPct > stableDelayPct:
		trend = "stable"
	}

	return TransportOverview{
		TotalLines:       totalLines,
		DelayedLines:     delayed,
		DelayPercentage:  round1(delayPct),
		Trend:            trend,
		ChartData:        transportChart(lines, now, limits.ChartPoints),
		AllServices:      serviceListing(lines),
		MajorIssues:      majorIssues(lines, limits.MajorIssues),
		ServiceBreakdown: serviceBreakdown(lines),
	}
}

func isDelayedStatus(status string) bool {
	return !strings.Contains(strings.ToLower(status), "good service")
}

func serviceBreakdown(lines []types.TransitLine) map[string]int {
	breakdown := make(map[string]int, len(lines))
	for _, line := range lines {
		status := line.Status
		if status == "" {
			status = "Unknown"
		}
		breakdown[status]++
	}
	return breakdown
}

func serviceListing(lines []types.TransitLine) []ServiceStatus {
	services := make([]ServiceStatus, 0, len(lines))
	for _, line := range lines {
		services = append(services, ServiceStatus{
			Timestamp:    line.RecordedAt,
			LineName:     line.LineName,
			DelayMinutes: line.DelayMinutes,
			Status:       line.Status,
			Mode:         line.Mode,
			Reason:       line.Reason,
		})
	}
	return services
}

// transportChart builds an hourly delay series ending at now. Each point
// carries the current average delay across delayed lines; the series gives
// the chart a time axis without inventing per-hour data we do not have.
func transportChart(lines []types.TransitLine, now time.Time, points int) []TransportChartPoint {
	if len(lines) == 0 {
		return []TransportChartPoint{}
	}

	totalDelay := 0
	delayedCount := 0
	maxDelay := 0
	for _, line := range lines {
		if isDelayedStatus(line.Status) && line.DelayMinutes > 0 {
			totalDelay += line.DelayMinutes
			delayedCount++
			if line.DelayMinutes > maxDelay {
				maxDelay = line.DelayMinutes
			}
		}
	}

	avgDelay := 0.0
	if delayedCount > 0 {
		avgDelay = float64(totalDelay) / float64(delayedCount)
	}

	if points < 1 {
		points = 1
	}
	chart := make([]TransportChartPoint, 0, points)
	for i := points - 1; i >= 0; i-- {
		chart = append(chart, TransportChartPoint{
			Timestamp:       now.Add(-time.Duration(i) * time.Hour),
			Value:           round1(avgDelay),
			DelayedServices: delayedCount,
			MaxDelay:        maxDelay,
		})
	}
	return chart
}

// majorIssues picks the lines worth surfacing: a problematic status with
// any delay, or a delay over 15 minutes regardless of status text. Sorted
// by delay descending with problematic statuses winning ties.
func majorIssues(lines []types.TransitLine, limit int) []TransportIssue {
	issues := []TransportIssue{}
	for _, line := range lines {
		problematic := isDelayedStatus(line.Status) && !strings.Contains(strings.ToLower(line.Status), "normal")
		if (problematic && line.DelayMinutes > 0) || line.DelayMinutes > 15 {
			issues = append(issues, TransportIssue{
				Line:     line.LineName,
				Delay:    line.DelayMinutes,
				Status:   line.Status,
				Reason:   truncate(line.Reason, issueReasonMaxLen),
				Kind:     issueKind(line.Status, line.DelayMinutes),
				Severity: derive.IssueSeverity(line.DelayMinutes, line.Status),
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Delay != issues[j].Delay {
			return issues[i].Delay > issues[j].Delay
		}
		return issueRank(issues[i].Status) > issueRank(issues[j].Status)
	})

	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}

func issueRank(status string) int {
	if isDelayedStatus(status) {
		return 1
	}
	return 0
}

// issueKind maps the status text onto a coarse issue category. Checks run
// most specific first.
func issueKind(status string, delayMinutes int) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "minor delay"):
		return "minor_delay"
	case strings.Contains(s, "severe delay") || strings.Contains(s, "major delay"):
		return "severe_delay"
	case strings.Contains(s, "part closure") || strings.Contains(s, "part suspended"):
		return "part_closure"
	case strings.Contains(s, "suspended") || strings.Contains(s, "closure"):
		return "suspended"
	case strings.Contains(s, "reduced service"):
		return "reduced_service"
	case strings.Contains(s, "good service"):
		if delayMinutes <= 15 {
			return "good_service"
		}
		return "data_inconsistency"
	default:
		return "other_issue"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
