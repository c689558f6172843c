package overview

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const summaryItemLimit = 4

// BuildSummary derives the cross-sector business summary. The transport
// picture is the driver; the other sectors feed the dashboard directly.
func BuildSummary(transport TransportOverview, now time.Time) Summary {
	return Summary{
		KeyOpportunities:   opportunities(transport),
		RiskFactors:        riskFactors(transport),
		RecommendedActions: recommendedActions(transport),
		SummaryTimestamp:   now,
	}
}

func opportunities(t TransportOverview) []string {
	var out []string
	if t.DelayedLines > 5 {
		out = append(out,
			"High transport delays present opportunities for remote work solutions",
			"Flexible scheduling could improve employee productivity during disruptions")
	}
	if len(t.MajorIssues) > 2 {
		out = append(out,
			"Develop real-time transport alert services for affected areas",
			"Promote alternative transport options and partnerships")
	}
	if len(out) == 0 {
		out = append(out,
			"Monitor transport patterns for emerging business opportunities",
			"Explore data analytics for transport optimization services")
	}
	return cap4(out)
}

func riskFactors(t TransportOverview) []string {
	var out []string
	if t.DelayPercentage > 20 {
		out = append(out,
			"High risk of employee lateness and productivity loss",
			"Supply chain disruptions possible due to transport issues")
	}
	if len(t.MajorIssues) > 3 {
		out = append(out,
			"Potential impact on customer access to business locations",
			"Increased operational costs from transport alternatives")
	}
	if t.DelayedLines > 0 {
		out = append(out, "Reduced efficiency in logistics and distribution")
	}
	if len(out) == 0 {
		out = append(out,
			"Monitor transport network for emerging risks",
			"Stay alert for unexpected service disruptions")
	}
	return cap4(out)
}

func recommendedActions(t TransportOverview) []string {
	var out []string
	if t.DelayPercentage > 15 {
		out = append(out,
			"Implement flexible work hours for employees affected by transport delays",
			"Use real-time transport apps for route planning and alternative options")
	}
	if len(t.MajorIssues) > 0 {
		out = append(out,
			fmt.Sprintf("Avoid affected lines: %s", strings.Join(issueLines(t.MajorIssues), ", ")),
			"Consider bus alternatives or ride-sharing for critical commutes")
	}
	if t.DelayedLines > 0 {
		out = append(out,
			"Allow additional travel time for meetings and appointments",
			"Enable remote participation options for important meetings")
	}
	if len(out) == 0 {
		out = append(out,
			"Transport conditions favorable - maintain current operations",
			"Continue monitoring transport data for proactive planning")
	}
	return cap4(out)
}

// issueLines returns the distinct affected line names, sorted for a stable
// message.
func issueLines(issues []TransportIssue) []string {
	seen := make(map[string]struct{}, len(issues))
	var lines []string
	for _, issue := range issues {
		if _, ok := seen[issue.Line]; ok {
			continue
		}
		seen[issue.Line] = struct{}{}
		lines = append(lines, issue.Line)
	}
	sort.Strings(lines)
	return lines
}

func cap4(items []string) []string {
	if len(items) > summaryItemLimit {
		return items[:summaryItemLimit]
	}
	return items
}
