// Package agent answers natural-language analytics questions by routing them
// to pre-authored HogQL queries and driving an LLM tool-call loop around the
// PostHog driver.
package agent

import (
	"strconv"
	"strings"

	"github.com/hogdriver-ai/hogdriver/templates"
)

// Time periods accepted by the query tool.
const (
	Period7Days  = "7_days"
	Period30Days = "30_days"
	Period90Days = "90_days"
)

// periodDays maps a period token to its day count. Unknown tokens fall back
// to 30 days.
func periodDays(period string) int {
	switch period {
	case Period7Days:
		return 7
	case Period30Days:
		return 30
	case Period90Days:
		return 90
	default:
		return 30
	}
}

// queryTemplates are the pre-authored HogQL queries, parameterized by {days}.
var queryTemplates = map[string]string{
	"top_events": `
SELECT
    event,
    count() as total_events,
    count(DISTINCT distinct_id) as unique_users
FROM events
WHERE timestamp >= now() - INTERVAL {days} DAY
GROUP BY event
ORDER BY total_events DESC
LIMIT 10`,

	"user_funnel": `
SELECT
    event,
    count(DISTINCT distinct_id) as users
FROM events
WHERE timestamp >= now() - INTERVAL {days} DAY
GROUP BY event
ORDER BY users DESC`,

	"conversion_analysis": `
SELECT
    event,
    count() as occurrences,
    count(DISTINCT distinct_id) as unique_users,
    count() / count(DISTINCT distinct_id) as avg_per_user
FROM events
WHERE timestamp >= now() - INTERVAL {days} DAY
    AND event IN ('subscription_purchased', 'movie_buy_complete', 'movie_rent_complete', 'upgrade_completed')
GROUP BY event
ORDER BY unique_users DESC`,

	"activity_distribution": `
SELECT
    CASE
        WHEN event_count < 5 THEN 'Low activity (1-4 events)'
        WHEN event_count < 20 THEN 'Medium activity (5-19 events)'
        ELSE 'High activity (20+ events)'
    END as activity_level,
    count() as user_count
FROM (
    SELECT distinct_id, count() as event_count
    FROM events
    WHERE timestamp >= now() - INTERVAL {days} DAY
    GROUP BY distinct_id
)
GROUP BY activity_level
ORDER BY user_count DESC`,

	"time_patterns": `
SELECT
    toDayOfWeek(timestamp) as day_of_week,
    toHour(timestamp) as hour,
    count() as events
FROM events
WHERE timestamp >= now() - INTERVAL {days} DAY
GROUP BY day_of_week, hour
ORDER BY events DESC
LIMIT 20`,
}

// routeRule pairs trigger keywords with a query template. Rules are checked
// in order; the first keyword hit wins.
type routeRule struct {
	keywords []string
	template string
}

// routeRules is the fixed routing precedence: top events, then funnel, then
// conversion, then activity, then time patterns.
var routeRules = []routeRule{
	{[]string{"top events", "most common", "popular events"}, "top_events"},
	{[]string{"drop off", "funnel", "user journey"}, "user_funnel"},
	{[]string{"conversion", "purchase", "buy", "subscribe"}, "conversion_analysis"},
	{[]string{"activity", "engagement", "active users"}, "activity_distribution"},
	{[]string{"time", "when", "hour", "day"}, "time_patterns"},
}

// Route maps a free-text question to a concrete HogQL query. Matching is
// case-insensitive substring search in precedence order; a question matching
// nothing gets the top-events query.
func Route(question, period string) string {
	days := strconv.Itoa(periodDays(period))
	lower := strings.ToLower(question)

	for _, rule := range routeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return templates.Render(queryTemplates[rule.template], map[string]string{"days": days})
			}
		}
	}
	return templates.Render(queryTemplates["top_events"], map[string]string{"days": days})
}
