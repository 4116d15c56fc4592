// Package templates holds pre-built sandbox scripts for common PostHog
// operations: capture, analytics queries, exports, cohort analysis, funnels,
// experiments, and error tracking. Templates carry {name}-style placeholders
// resolved by Render, plus credential placeholders
// (<api_key_placeholder> and friends) that the sandbox executor fills in.
package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports an unknown template name. Errors returned from Get
// wrap it, so errors.Is(err, ErrNotFound) works.
var ErrNotFound = errors.New("template not found")

// names is the fixed registry order, used by List and error messages.
var names = []string{
	// Event tracking
	"capture_event",
	"capture_batch",
	// Analytics queries
	"get_recent_events",
	"hogql_query",
	"get_insights",
	// Data export
	"export_events",
	"export_cohort",
	// Persona analysis
	"identify_power_users",
	"identify_churn_risk",
	// Funnel analysis
	"analyze_funnel",
	// Experiments
	"get_experiments",
	"evaluate_flags",
	// Error tracking
	"track_errors",
}

// registry maps template names to script text. Built once at init and never
// mutated.
var registry = map[string]string{
	"capture_event":        captureEvent,
	"capture_batch":        captureBatchEvents,
	"get_recent_events":    getRecentEvents,
	"hogql_query":          hogqlQuery,
	"get_insights":         getInsights,
	"export_events":        exportEventsETL,
	"export_cohort":        exportCohortData,
	"identify_power_users": identifyPowerUsers,
	"identify_churn_risk":  identifyChurnRisk,
	"analyze_funnel":       analyzeFunnelDropoff,
	"get_experiments":      getExperimentResults,
	"evaluate_flags":       evaluateFeatureFlags,
	"track_errors":         trackErrorEvents,
}

// List returns all template names in registry order. The returned slice is a
// copy.
func List() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Get returns the script text for a template. Unknown names fail with an
// error wrapping ErrNotFound that lists every valid name.
func Get(name string) (string, error) {
	tmpl, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown template %q. Available templates: %s",
			ErrNotFound, name, strings.Join(names, ", "))
	}
	return tmpl, nil
}

// Render substitutes variables into a template by literal {name} substring
// replacement. There is no placeholder syntax validation and no
// missing-variable detection: a placeholder with no matching variable passes
// through to the output unchanged.
func Render(tmpl string, vars map[string]string) string {
	out := tmpl
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}
