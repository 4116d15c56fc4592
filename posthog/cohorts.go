package posthog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// PersonFilter narrows GetPersons results.
type PersonFilter struct {
	Search     string // matches email or distinct_id
	CohortID   int    // restrict to one cohort; 0 means all
	Properties map[string]any
	Limit      int // default 100
}

// GetPersons queries person profiles.
func (c *Client) GetPersons(ctx context.Context, f PersonFilter) ([]Row, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(f.Limit))
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.CohortID != 0 {
		q.Set("cohort", strconv.Itoa(f.CohortID))
	}
	if len(f.Properties) > 0 {
		// The persons API takes property filters as a JSON-encoded param.
		props, err := json.Marshal(f.Properties)
		if err != nil {
			return nil, wrapError(KindAPI, err, "encoding property filters")
		}
		q.Set("properties", string(props))
	}

	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.projectPath("/persons/"),
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	return resultRows(out), nil
}

// GetCohorts lists cohorts (user segments), optionally filtered by a search
// term.
func (c *Client) GetCohorts(ctx context.Context, search string) ([]Row, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}

	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.projectPath("/cohorts/"),
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	return resultRows(out), nil
}

// CreateCohort creates a cohort. Filters may be nil for an empty definition.
func (c *Client) CreateCohort(ctx context.Context, name, description string, filters map[string]any) (map[string]any, error) {
	if filters == nil {
		filters = map[string]any{}
	}

	out, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.projectPath("/cohorts/"),
		body: map[string]any{
			"name":        name,
			"description": description,
			"filters":     filters,
		},
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}
