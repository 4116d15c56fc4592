package posthog

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// EventFilter narrows GetEvents results. All fields are optional.
type EventFilter struct {
	EventName  string
	After      string // ISO date, inclusive lower bound on timestamp
	Before     string // ISO date, inclusive upper bound on timestamp
	DistinctID string
	Limit      int // default 100
}

// GetEvents queries events with filters. The legacy /api/events endpoint is
// deprecated upstream, so this composes a HogQL query instead and goes
// through Query.
func (c *Client) GetEvents(ctx context.Context, f EventFilter) ([]Row, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}

	var conditions []string
	if f.EventName != "" {
		conditions = append(conditions, "event = "+quoteHogQL(f.EventName))
	}
	if f.After != "" {
		conditions = append(conditions, "timestamp >= "+quoteHogQL(f.After))
	}
	if f.Before != "" {
		conditions = append(conditions, "timestamp <= "+quoteHogQL(f.Before))
	}
	if f.DistinctID != "" {
		conditions = append(conditions, "distinct_id = "+quoteHogQL(f.DistinctID))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ") + " "
	}
	hogql := fmt.Sprintf("SELECT * FROM events %sLIMIT %d", where, f.Limit)

	return c.Query(ctx, hogql)
}

// ExportRequest describes a bulk event export window.
type ExportRequest struct {
	StartDate string // ISO date, inclusive
	EndDate   string // ISO date, inclusive
	// EventNames restricts the export to specific events when non-empty.
	EventNames []string
	// Properties adds equality filters on event properties.
	Properties map[string]string
}

// ExportEvents pulls events for a date window via HogQL, for ETL-style use.
// Large windows can return a lot of rows; PostHog's native batch exports are
// the better tool past that point.
func (c *Client) ExportEvents(ctx context.Context, req ExportRequest) ([]Row, error) {
	conditions := []string{
		"timestamp >= " + quoteHogQL(req.StartDate),
		"timestamp <= " + quoteHogQL(req.EndDate),
	}

	if len(req.EventNames) > 0 {
		quoted := make([]string, len(req.EventNames))
		for i, n := range req.EventNames {
			quoted[i] = quoteHogQL(n)
		}
		conditions = append(conditions, "event IN ("+strings.Join(quoted, ", ")+")")
	}

	// Sorted so the generated query is stable for identical requests.
	keys := make([]string, 0, len(req.Properties))
	for key := range req.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		conditions = append(conditions, fmt.Sprintf("properties.%s = %s", key, quoteHogQL(req.Properties[key])))
	}

	hogql := "SELECT * FROM events WHERE " + strings.Join(conditions, " AND ")
	return c.Query(ctx, hogql)
}
