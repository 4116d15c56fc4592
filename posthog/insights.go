package posthog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// InsightFilter narrows GetInsights results.
type InsightFilter struct {
	// Type filters by insight type: TRENDS, FUNNELS, RETENTION, PATHS.
	// Case-insensitive; empty means all types.
	Type   string
	Limit  int // default 100
	Offset int
}

// GetInsights lists saved insights, optionally filtered by type. Limit and
// offset are forwarded verbatim; no pagination is modeled beyond them.
func (c *Client) GetInsights(ctx context.Context, f InsightFilter) ([]Row, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(f.Limit))
	q.Set("offset", strconv.Itoa(f.Offset))
	if f.Type != "" {
		q.Set("insight", strings.ToUpper(f.Type))
	}

	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.projectPath("/insights/"),
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	return resultRows(out), nil
}

// CreateInsight creates a saved insight. The type is folded into the filters
// object the way the insights API expects.
func (c *Client) CreateInsight(ctx context.Context, name, insightType string, filters map[string]any) (map[string]any, error) {
	merged := map[string]any{"insight": strings.ToUpper(insightType)}
	for k, v := range filters {
		merged[k] = v
	}

	out, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.projectPath("/insights/"),
		body: map[string]any{
			"name":    name,
			"filters": merged,
		},
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}

// resultRows extracts the "results" array common to PostHog list endpoints,
// returning an empty slice when it is absent.
func resultRows(out any) []Row {
	results, _ := asObject(out)["results"].([]any)
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		if m, ok := r.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return rows
}
