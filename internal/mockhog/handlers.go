package mockhog

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// captureRequest is a PostHog capture request body.
type captureRequest struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// batchRequest is a PostHog batch capture request body.
type batchRequest struct {
	APIKey string           `json:"api_key"`
	Batch  []captureRequest `json:"batch"`
}

// flagsRequest is a PostHog /flags/ evaluation request body.
type flagsRequest struct {
	APIKey     string `json:"api_key"`
	DistinctID string `json:"distinct_id"`
	Key        string `json:"key"`
}

// handleCapture handles POST /i/v0/e/ and the legacy /e and /capture paths.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": 0,
			"error":  "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.APIKey == "" {
		writeAuthError(w)
		return
	}
	if req.Event == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": 0,
			"error":  "event field is required",
		})
		return
	}

	s.storeEvent(req)
	writeJSON(w, http.StatusOK, map[string]any{"status": 1})
}

// handleBatch handles POST /batch/.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": 0,
			"error":  "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.APIKey == "" {
		writeAuthError(w)
		return
	}

	for _, evt := range req.Batch {
		if evt.APIKey == "" {
			evt.APIKey = req.APIKey
		}
		s.storeEvent(evt)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": 1})
}

// handleFlags handles POST /flags/ (feature flag evaluation).
func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	var req flagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": 0,
			"error":  "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.APIKey == "" {
		writeAuthError(w)
		return
	}

	flags := s.store.Flags()
	featureFlags := make(map[string]any, len(flags))
	payloads := make(map[string]any, len(flags))
	for key, flag := range flags {
		switch {
		case flag.Enabled && flag.Variant != "":
			featureFlags[key] = flag.Variant
		case flag.Enabled:
			featureFlags[key] = true
		default:
			featureFlags[key] = false
		}
		payloads[key] = nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"featureFlags":              featureFlags,
		"featureFlagPayloads":       payloads,
		"errorsWhileComputingFlags": false,
	})
}

// storeEvent saves a captured event, defaulting the timestamp to now.
func (s *Server) storeEvent(req captureRequest) {
	ts := req.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	s.store.AddEvent(CapturedEvent{
		Event:      req.Event,
		DistinctID: req.DistinctID,
		Properties: req.Properties,
		Timestamp:  ts,
	})
}

// queryRequest is the HogQL query envelope.
type queryRequest struct {
	Query struct {
		Kind  string `json:"kind"`
		Query string `json:"query"`
	} `json:"query"`
}

// handleQuery handles POST /api/projects/{projectID}/query/.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query.Kind != "HogQLQuery" {
		writeError(w, http.StatusBadRequest, "unsupported query kind: "+req.Query.Kind)
		return
	}
	if strings.TrimSpace(req.Query.Query) == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	qr := s.store.QueryResultFor(req.Query.Query)
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": qr.Columns,
		"results": qr.Results,
	})
}

// handleProjectInfo handles GET /api/projects/{projectID}/.
func (s *Server) handleProjectInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       chi.URLParam(r, "projectID"),
		"name":     "Mock Project",
		"timezone": "UTC",
	})
}

// handleResourceList handles GET for a resource collection, returning the
// PostHog list envelope.
func (s *Server) handleResourceList(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := s.store.Resources(name)
		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(items),
			"results": items,
		})
	}
}

// handleResourceCreate handles POST for a resource collection.
func (s *Server) handleResourceCreate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item map[string]any
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, s.store.AddResource(name, item))
	}
}

// ---------------------------------------------------------------------------
// Admin extras
// ---------------------------------------------------------------------------

// handleAdminHealth handles GET /admin/health.
func (s *Server) handleAdminHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleAdminReset handles POST /admin/reset.
func (s *Server) handleAdminReset(w http.ResponseWriter, _ *http.Request) {
	s.store.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// handleAdminEvents handles GET /admin/events with optional ?event= and
// ?distinct_id= filters.
func (s *Server) handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	events := s.store.Events(
		r.URL.Query().Get("event"),
		r.URL.Query().Get("distinct_id"),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}

// handleAdminSetFlags handles POST /admin/feature-flags.
func (s *Server) handleAdminSetFlags(w http.ResponseWriter, r *http.Request) {
	var flags []FeatureFlag
	if err := json.NewDecoder(r.Body).Decode(&flags); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.SetFlags(flags)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "set",
		"flags":  s.store.Flags(),
	})
}

// handleAdminQueryResults handles POST /admin/query-results: seed the canned
// response the query endpoint returns.
func (s *Server) handleAdminQueryResults(w http.ResponseWriter, r *http.Request) {
	var qr QueryResult
	if err := json.NewDecoder(r.Body).Decode(&qr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.store.SetQueryResult(qr)
	writeJSON(w, http.StatusOK, map[string]any{"status": "set"})
}

// handleAdminSetResources handles POST /admin/resources/{name}: replace a
// seeded resource collection.
func (s *Server) handleAdminSetResources(w http.ResponseWriter, r *http.Request) {
	var items []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	name := chi.URLParam(r, "name")
	s.store.SetResources(name, items)
	writeJSON(w, http.StatusOK, map[string]any{"status": "set", "count": len(items)})
}

// writeAuthError writes a PostHog-style auth error for ingestion endpoints.
func writeAuthError(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"type":   "authentication_error",
		"code":   "invalid_api_key",
		"detail": "Project API key invalid. You can find your project API key in PostHog project settings.",
	})
}
