package mockhog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	s := New(cfg)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestCaptureEndpointsStoreEvents(t *testing.T) {
	s, srv := newTestServer(t, Config{})

	for _, path := range []string{"/i/v0/e/", "/e", "/capture/"} {
		resp := postJSON(t, srv.URL+path, map[string]any{
			"api_key":     "phc_x",
			"event":       "pageview",
			"distinct_id": "u1",
		})
		if resp.StatusCode != http.StatusOK {
			t.Errorf("POST %s status = %d", path, resp.StatusCode)
		}
		if out := decodeJSON(t, resp); out["status"] != float64(1) {
			t.Errorf("POST %s body = %v", path, out)
		}
	}

	events := s.Store().Events("pageview", "u1")
	if len(events) != 3 {
		t.Fatalf("stored events = %d, want 3", len(events))
	}
	for _, evt := range events {
		if evt.UUID == "" {
			t.Error("stored event missing UUID")
		}
		if evt.Timestamp == "" {
			t.Error("stored event missing default timestamp")
		}
	}
}

func TestCaptureRejectsMissingAPIKey(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	resp := postJSON(t, srv.URL+"/i/v0/e/", map[string]any{
		"event":       "pageview",
		"distinct_id": "u1",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if out := decodeJSON(t, resp); out["type"] != "authentication_error" {
		t.Errorf("body = %v, want PostHog-style auth error", out)
	}
}

func TestCaptureRejectsMissingEventName(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	resp := postJSON(t, srv.URL+"/i/v0/e/", map[string]any{
		"api_key":     "phc_x",
		"distinct_id": "u1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBatchStoresAllEvents(t *testing.T) {
	s, srv := newTestServer(t, Config{})

	resp := postJSON(t, srv.URL+"/batch/", map[string]any{
		"api_key": "phc_x",
		"batch": []map[string]any{
			{"event": "a", "distinct_id": "u1"},
			{"event": "b", "distinct_id": "u2", "timestamp": "2026-08-01T00:00:00Z"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	events := s.Store().Events("", "")
	if len(events) != 2 {
		t.Fatalf("stored events = %d, want 2", len(events))
	}
	if events[1].Timestamp != "2026-08-01T00:00:00Z" {
		t.Errorf("timestamp = %q, want explicit value kept", events[1].Timestamp)
	}
}

func TestFlagsEvaluation(t *testing.T) {
	s, srv := newTestServer(t, Config{})
	s.Store().SetFlags([]FeatureFlag{
		{Key: "plain", Enabled: true},
		{Key: "variant", Enabled: true, Variant: "test"},
		{Key: "off", Enabled: false},
	})

	resp := postJSON(t, srv.URL+"/flags/", map[string]any{
		"api_key":     "phc_x",
		"distinct_id": "u1",
	})
	out := decodeJSON(t, resp)
	flags, _ := out["featureFlags"].(map[string]any)
	if flags["plain"] != true || flags["variant"] != "test" || flags["off"] != false {
		t.Errorf("featureFlags = %v", flags)
	}
	if out["errorsWhileComputingFlags"] != false {
		t.Errorf("errorsWhileComputingFlags = %v", out["errorsWhileComputingFlags"])
	}
}

func TestQueryEndpointAuthAndRecording(t *testing.T) {
	s, srv := newTestServer(t, Config{PersonalAPIKey: "phx_good"})
	s.Store().SetQueryResult(QueryResult{
		Columns: []string{"event"},
		Results: [][]any{{"pageview"}},
	})

	body, _ := json.Marshal(map[string]any{
		"query": map[string]any{"kind": "HogQLQuery", "query": "SELECT event FROM events"},
	})

	// No token.
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/projects/1/query/", bytes.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	// Wrong token.
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/projects/1/query/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer phx_bad")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", resp.StatusCode)
	}

	// Correct token.
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/projects/1/query/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer phx_good")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	out := decodeJSON(t, resp)
	results, _ := out["results"].([]any)
	if len(results) != 1 {
		t.Errorf("results = %v", results)
	}

	queries := s.Store().Queries()
	if len(queries) != 1 || queries[0] != "SELECT event FROM events" {
		t.Errorf("recorded queries = %v", queries)
	}
}

func TestQueryRejectsUnsupportedKind(t *testing.T) {
	_, srv := newTestServer(t, Config{})

	body, _ := json.Marshal(map[string]any{
		"query": map[string]any{"kind": "TrendsQuery", "query": "x"},
	})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/projects/1/query/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer anything")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResourceListAndCreate(t *testing.T) {
	s, srv := newTestServer(t, Config{})
	s.Store().SetResources("cohorts", []map[string]any{{"id": 1, "name": "Power users"}})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/projects/1/cohorts/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	out := decodeJSON(t, resp)
	resp.Body.Close()
	if out["count"] != float64(1) {
		t.Errorf("count = %v, want 1", out["count"])
	}

	body, _ := json.Marshal(map[string]any{"content": "release", "scope": "project"})
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/projects/1/annotations/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer anything")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	created := decodeJSON(t, resp)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if created["id"] == nil {
		t.Errorf("created = %v, want id assigned", created)
	}
	if len(s.Store().Resources("annotations")) != 1 {
		t.Error("annotation not stored")
	}
}

func TestAdminEndpoints(t *testing.T) {
	s, srv := newTestServer(t, Config{})

	resp, err := http.Get(srv.URL + "/admin/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	out := decodeJSON(t, resp)
	resp.Body.Close()
	if out["status"] != "ok" {
		t.Errorf("health = %v", out)
	}

	postJSON(t, srv.URL+"/i/v0/e/", map[string]any{
		"api_key": "phc_x", "event": "signup", "distinct_id": "u1",
	})
	postJSON(t, srv.URL+"/admin/query-results", QueryResult{Columns: []string{"c"}})
	postJSON(t, srv.URL+"/admin/feature-flags", []FeatureFlag{{Key: "f", Enabled: true}})

	resp, err = http.Get(srv.URL + "/admin/events?event=signup")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	out = decodeJSON(t, resp)
	resp.Body.Close()
	if out["total"] != float64(1) {
		t.Errorf("events = %v, want one signup", out)
	}

	// Reset clears everything.
	resp = postJSON(t, srv.URL+"/admin/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", resp.StatusCode)
	}
	if len(s.Store().Events("", "")) != 0 {
		t.Error("events survived reset")
	}
	if len(s.Store().Flags()) != 0 {
		t.Error("flags survived reset")
	}
	if got := s.Store().QueryResultFor("q"); len(got.Columns) != 0 {
		t.Errorf("query result survived reset: %v", got)
	}
}
