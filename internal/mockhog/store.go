// Package mockhog is a local in-memory PostHog emulator covering the
// ingestion endpoints (capture, batch, flags), the HogQL query endpoint,
// and the project resource lists. It backs the driver's integration tests
// and runs standalone for offline development.
package mockhog

import (
	"sync"

	"github.com/google/uuid"
)

// CapturedEvent is one ingested analytics event.
type CapturedEvent struct {
	UUID       string         `json:"uuid"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

// FeatureFlag is a seeded flag configuration used by the /flags/ endpoint.
type FeatureFlag struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
	Variant string `json:"variant,omitempty"`
}

// QueryResult is a canned HogQL response seeded via the admin API: a column
// list plus positional rows, the shape the real query endpoint returns.
type QueryResult struct {
	Columns []string `json:"columns"`
	Results [][]any  `json:"results"`
}

// Store holds all emulator state in memory.
type Store struct {
	mu          sync.RWMutex
	events      []CapturedEvent
	flags       map[string]FeatureFlag
	resources   map[string][]map[string]any
	queryResult *QueryResult
	queries     []string // HogQL queries received, in order
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		flags:     make(map[string]FeatureFlag),
		resources: make(map[string][]map[string]any),
	}
}

// AddEvent stores a captured event, assigning a UUID when absent.
func (s *Store) AddEvent(evt CapturedEvent) CapturedEvent {
	if evt.UUID == "" {
		evt.UUID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return evt
}

// Events returns a copy of all captured events, optionally filtered by event
// name and distinct ID.
func (s *Store) Events(eventName, distinctID string) []CapturedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CapturedEvent, 0, len(s.events))
	for _, evt := range s.events {
		if eventName != "" && evt.Event != eventName {
			continue
		}
		if distinctID != "" && evt.DistinctID != distinctID {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// SetFlags replaces all feature flags.
func (s *Store) SetFlags(flags []FeatureFlag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = make(map[string]FeatureFlag, len(flags))
	for _, f := range flags {
		s.flags[f.Key] = f
	}
}

// Flags returns a copy of all feature flags.
func (s *Store) Flags() map[string]FeatureFlag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]FeatureFlag, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}
	return out
}

// SetResources replaces the seeded objects for one resource collection
// (insights, persons, cohorts, feature_flags, experiments, annotations).
func (s *Store) SetResources(name string, items []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[name] = items
}

// AddResource appends one object to a resource collection, assigning an id
// when absent, and returns the stored object.
func (s *Store) AddResource(name string, item map[string]any) map[string]any {
	if item["id"] == nil {
		item["id"] = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[name] = append(s.resources[name], item)
	return item
}

// Resources returns a copy of one resource collection.
func (s *Store) Resources(name string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]any, len(s.resources[name]))
	copy(out, s.resources[name])
	return out
}

// SetQueryResult seeds the canned response the query endpoint returns.
func (s *Store) SetQueryResult(qr QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryResult = &qr
}

// QueryResultFor records the received query and returns the canned result,
// or an empty result when none is seeded.
func (s *Store) QueryResultFor(hogql string) QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, hogql)
	if s.queryResult == nil {
		return QueryResult{Results: [][]any{}}
	}
	return *s.queryResult
}

// Queries returns all HogQL queries received so far.
func (s *Store) Queries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// Reset clears all state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.flags = make(map[string]FeatureFlag)
	s.resources = make(map[string][]map[string]any)
	s.queryResult = nil
	s.queries = nil
}
