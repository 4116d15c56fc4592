package posthog

import (
	"context"
	"net/http"
	"net/url"
)

// GetAnnotations lists timeline annotations, optionally bounded by ISO
// dates (inclusive).
func (c *Client) GetAnnotations(ctx context.Context, startDate, endDate string) ([]Row, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("after", startDate)
	}
	if endDate != "" {
		q.Set("before", endDate)
	}

	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.projectPath("/annotations/"),
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	return resultRows(out), nil
}

// CreateAnnotation marks a point on the project timeline, e.g. a release.
// An empty dateMarker lets the server default to now; scope defaults to
// "project".
func (c *Client) CreateAnnotation(ctx context.Context, content, dateMarker, scope string) (map[string]any, error) {
	if scope == "" {
		scope = "project"
	}

	body := map[string]any{
		"content": content,
		"scope":   scope,
	}
	if dateMarker != "" {
		body["date_marker"] = dateMarker
	}

	out, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.projectPath("/annotations/"),
		body:   body,
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}
