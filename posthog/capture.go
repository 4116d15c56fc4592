package posthog

import (
	"context"
	"net/http"
)

// Event is one analytics event for capture.
type Event struct {
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"` // ISO 8601; empty means now
}

// capturePayload is the wire shape of a single capture request. The project
// API key authenticates in the body, not the Authorization header.
type capturePayload struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// batchPayload is the wire shape of a batch capture request.
type batchPayload struct {
	APIKey string  `json:"api_key"`
	Batch  []Event `json:"batch"`
}

// requireProjectKey fails with an authentication error when no project API
// key is configured. Capture and flag evaluation cannot use the personal key.
func (c *Client) requireProjectKey(op string) error {
	if c.cfg.ProjectAPIKey == "" {
		return newError(KindAuthentication,
			"project API key required for %s. Set via Config.ProjectAPIKey or POSTHOG_PROJECT_API_KEY env var", op)
	}
	return nil
}

// CaptureEvent sends one event to the ingestion endpoint. Properties may be
// nil; an empty timestamp lets the server assign receipt time.
func (c *Client) CaptureEvent(ctx context.Context, ev Event) (map[string]any, error) {
	if err := c.requireProjectKey("event capture"); err != nil {
		return nil, err
	}

	props := ev.Properties
	if props == nil {
		props = map[string]any{}
	}

	out, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/i/v0/e/",
		capture: true,
		noAuth:  true,
		body: capturePayload{
			APIKey:     c.cfg.ProjectAPIKey,
			Event:      ev.Event,
			DistinctID: ev.DistinctID,
			Properties: props,
			Timestamp:  ev.Timestamp,
		},
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}

// CaptureBatch sends multiple events in one request. The batch must be
// non-empty; PostHog caps request size at 20MB but the client does not
// enforce that.
func (c *Client) CaptureBatch(ctx context.Context, events []Event) (map[string]any, error) {
	if err := c.requireProjectKey("event capture"); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, newError(KindValidation, "events list cannot be empty")
	}

	out, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/batch/",
		capture: true,
		noAuth:  true,
		body: batchPayload{
			APIKey: c.cfg.ProjectAPIKey,
			Batch:  events,
		},
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}
