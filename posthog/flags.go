package posthog

import (
	"context"
	"net/http"
)

// GetFeatureFlags lists all feature flag configurations for the project.
func (c *Client) GetFeatureFlags(ctx context.Context) ([]Row, error) {
	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.projectPath("/feature_flags/"),
	})
	if err != nil {
		return nil, err
	}
	return resultRows(out), nil
}

// flagPayload is the wire shape of a flag evaluation request. Like capture,
// it authenticates with the project API key in the body and goes to the
// ingestion host.
type flagPayload struct {
	APIKey           string         `json:"api_key"`
	DistinctID       string         `json:"distinct_id"`
	Key              string         `json:"key"`
	PersonProperties map[string]any `json:"person_properties,omitempty"`
}

// EvaluateFlag evaluates one feature flag for a user. PersonProperties feed
// targeting rules and may be nil.
func (c *Client) EvaluateFlag(ctx context.Context, key, distinctID string, personProperties map[string]any) (map[string]any, error) {
	if err := c.requireProjectKey("flag evaluation"); err != nil {
		return nil, err
	}

	out, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/flags/",
		capture: true,
		noAuth:  true,
		body: flagPayload{
			APIKey:           c.cfg.ProjectAPIKey,
			DistinctID:       distinctID,
			Key:              key,
			PersonProperties: personProperties,
		},
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}

// GetExperiments lists all experiments (A/B tests) with their results.
func (c *Client) GetExperiments(ctx context.Context) ([]Row, error) {
	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.projectPath("/experiments/"),
	})
	if err != nil {
		return nil, err
	}
	return resultRows(out), nil
}
