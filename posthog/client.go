package posthog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Client is a PostHog analytics API client. It is safe for concurrent use:
// all mutable state lives in the shared *http.Client, and configuration is
// immutable after construction. Errors never poison the client; a failed
// call leaves it fully usable.
type Client struct {
	cfg        Config
	captureURL string
	http       *http.Client
	logger     *slog.Logger
}

// NewClient builds a Client from cfg, filling unset fields from the
// environment (POSTHOG_API_URL, POSTHOG_PERSONAL_API_KEY,
// POSTHOG_PROJECT_ID, POSTHOG_PROJECT_API_KEY). It fails with an
// authentication error when no personal API key is available and a generic
// error when no project ID is available.
func NewClient(cfg Config) (*Client, error) {
	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:        resolved,
		captureURL: captureHost(resolved.APIURL),
		// No client-level timeout: the per-attempt context deadline in do
		// governs each request, so a retried call is not capped cumulatively.
		http:   &http.Client{},
		logger: slog.Default(),
	}, nil
}

// SetLogger replaces the client's logger. Intended for wiring a structured
// logger at startup, before the client is shared.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Config returns a copy of the resolved configuration.
func (c *Client) Config() Config { return c.cfg }

// CaptureURL returns the derived ingestion base URL.
func (c *Client) CaptureURL() string { return c.captureURL }

// request describes one logical API call for do.
type request struct {
	method  string
	path    string // endpoint path, leading slash included
	body    any    // JSON-encoded when non-nil
	query   url.Values
	capture bool // send to the ingestion host instead of the analytics API
	noAuth  bool // skip the Bearer header (capture endpoints auth in-body)
}

// retryClass distinguishes retryable failure flavors so the post-loop error
// can name the right thing (attempt count, timeout duration, or body text).
type retryClass int

const (
	retryConnection retryClass = iota
	retryTimeout
	retryServer
)

// failure is the outcome of one attempt that did not succeed.
type failure struct {
	terminal bool
	err      error // final error, set when terminal
	class    retryClass
	cause    error  // set for connection failures
	status   int    // set for server failures
	body     string // set for server failures
}

// do executes one API call with the bounded retry loop. Only connection
// failures, timeouts, and 5xx responses are retried; every 4xx is terminal
// on first sight. The attempt counter is the only state carried between
// attempts.
func (c *Client) do(ctx context.Context, r request) (any, error) {
	var last failure
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		out, f := c.attempt(ctx, r)
		if f == nil {
			return out, nil
		}
		if f.terminal {
			return nil, f.err
		}
		last = *f
		c.logger.Debug("retrying request",
			"method", r.method, "path", r.path, "attempt", attempt)
	}

	switch last.class {
	case retryTimeout:
		return nil, newError(KindAPI, "request timeout after %s", c.cfg.Timeout)
	case retryServer:
		return nil, newError(KindAPI, "server error (status %d): %s", last.status, last.body)
	default:
		return nil, wrapError(KindConnection, last.cause,
			"failed to connect to PostHog API after %d attempts", c.cfg.MaxRetries)
	}
}

// attempt performs a single HTTP round trip and classifies the outcome.
func (c *Client) attempt(ctx context.Context, r request) (any, *failure) {
	base := c.cfg.APIURL
	if r.capture {
		base = c.captureURL
	}
	full := base + r.path
	if len(r.query) > 0 {
		full += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, &failure{terminal: true,
				err: wrapError(KindAPI, err, "encoding request body")}
		}
		body = bytes.NewReader(data)
	}

	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, r.method, full, body)
	if err != nil {
		return nil, &failure{terminal: true,
			err: wrapError(KindAPI, err, "building request for %s", r.path)}
	}
	req.Header.Set("Content-Type", "application/json")
	if !r.noAuth {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A canceled caller context is terminal; only this attempt's own
		// deadline counts as a retryable timeout.
		if ctx.Err() != nil {
			return nil, &failure{terminal: true,
				err: wrapError(KindConnection, ctx.Err(), "request canceled")}
		}
		if isTimeout(err) {
			return nil, &failure{class: retryTimeout, cause: err}
		}
		return nil, &failure{class: retryConnection, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &failure{class: retryConnection, cause: err}
	}

	return classifyResponse(resp.StatusCode, raw, r.path)
}

// classifyResponse maps a completed HTTP response to a result or failure.
// The status mapping is fixed: 401/403 authentication, 404 not found,
// 429 rate limit, other 4xx terminal API errors, 5xx retryable.
func classifyResponse(status int, raw []byte, path string) (any, *failure) {
	switch {
	case status >= 200 && status < 300:
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			// Some endpoints return empty or non-JSON bodies on success.
			return map[string]any{"success": true, "status_code": status}, nil
		}
		return out, nil

	case status == http.StatusUnauthorized:
		return nil, &failure{terminal: true, err: newError(KindAuthentication,
			"authentication failed. Check your Personal API key")}

	case status == http.StatusForbidden:
		return nil, &failure{terminal: true, err: newError(KindAuthentication,
			"access forbidden. Check API key permissions")}

	case status == http.StatusNotFound:
		return nil, &failure{terminal: true, err: newError(KindNotFound,
			"resource not found: %s", path)}

	case status == http.StatusTooManyRequests:
		return nil, &failure{terminal: true, err: newError(KindRateLimit,
			"rate limit exceeded. PostHog limits: 240/min, 1200/hour for analytics; "+
				"2400/hour for queries. Consider using batch exports")}

	case status >= 400 && status < 500:
		return nil, &failure{terminal: true, err: newError(KindAPI,
			"API error (status %d): %s", status, raw)}

	default: // 5xx
		return nil, &failure{class: retryServer, status: status, body: string(raw)}
	}
}

// isTimeout reports whether err is a timeout rather than a plain connection
// failure. Deadline expiry surfaces either as a url.Error whose Timeout()
// is true or as a wrapped context.DeadlineExceeded.
func isTimeout(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// projectPath builds an analytics API path scoped to the configured project.
func (c *Client) projectPath(format string, args ...any) string {
	return fmt.Sprintf("/api/projects/%s", c.cfg.ProjectID) + fmt.Sprintf(format, args...)
}

// HealthCheck reports whether the configured project is reachable with the
// configured credentials. This is the one operation that swallows errors:
// any failure reduces to false.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.GetProjectInfo(ctx)
	if err != nil {
		c.logger.Debug("health check failed", "err", err)
		return false
	}
	return true
}

// GetProjectInfo fetches metadata for the configured project.
func (c *Client) GetProjectInfo(ctx context.Context) (map[string]any, error) {
	out, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/projects/%s/", c.cfg.ProjectID),
	})
	if err != nil {
		return nil, err
	}
	return asObject(out), nil
}

// asObject coerces a decoded JSON value to an object, returning an empty map
// for non-object payloads so callers never index a nil interface.
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
