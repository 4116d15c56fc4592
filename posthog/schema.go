package posthog

import "strings"

// FieldSpec describes one field of an entity type.
type FieldSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Schema maps field names to their specs for one entity type.
type Schema map[string]FieldSpec

// objectNames is the fixed, ordered set of PostHog entity types the driver
// exposes. The order is part of the contract.
var objectNames = []string{
	"events",
	"insights",
	"persons",
	"cohorts",
	"feature_flags",
	"sessions",
	"annotations",
	"experiments",
}

// objectSchemas holds the static field definitions per entity type. These
// mirror PostHog's documented data model and are deliberately not
// introspected from the live API: the service has no schema discovery
// endpoint, and a fixed snapshot keeps Fields deterministic and offline.
var objectSchemas = map[string]Schema{
	"events": {
		"event":       {Type: "string", Description: `Event name (e.g., "User Signup", "Button Click")`},
		"timestamp":   {Type: "datetime", Description: "When the event occurred (ISO 8601 format)"},
		"distinct_id": {Type: "string", Description: "Unique user identifier"},
		"properties":  {Type: "object", Description: "Event properties (custom key-value pairs)"},
		"person":      {Type: "object", Description: "Associated person object with user properties"},
	},
	"insights": {
		"id":         {Type: "string", Description: "Unique insight ID"},
		"name":       {Type: "string", Description: "Insight name"},
		"filters":    {Type: "object", Description: "Insight configuration (events, date ranges, filters)"},
		"result":     {Type: "array", Description: "Computed insight results (trends, funnel steps, etc.)"},
		"insight":    {Type: "string", Description: "Insight type: TRENDS, FUNNELS, RETENTION, PATHS"},
		"created_at": {Type: "datetime", Description: "Creation timestamp"},
	},
	"persons": {
		"id":           {Type: "string", Description: "Person UUID"},
		"distinct_ids": {Type: "array", Description: "List of distinct IDs for this person"},
		"properties":   {Type: "object", Description: "Person properties (email, name, custom attributes)"},
		"created_at":   {Type: "datetime", Description: "First seen timestamp"},
	},
	"cohorts": {
		"id":          {Type: "number", Description: "Cohort ID"},
		"name":        {Type: "string", Description: "Cohort name"},
		"description": {Type: "string", Description: "Cohort description"},
		"filters":     {Type: "object", Description: "Cohort definition (behavioral/property filters)"},
		"count":       {Type: "number", Description: "Number of persons in cohort"},
	},
	"feature_flags": {
		"id":                 {Type: "number", Description: "Flag ID"},
		"key":                {Type: "string", Description: "Flag key (identifier)"},
		"name":               {Type: "string", Description: "Flag name"},
		"active":             {Type: "boolean", Description: "Whether flag is active"},
		"rollout_percentage": {Type: "number", Description: "Percentage of users with flag enabled"},
		"filters":            {Type: "object", Description: "Targeting rules and conditions"},
	},
	"sessions": {
		"session_id":    {Type: "string", Description: "Unique session ID"},
		"distinct_id":   {Type: "string", Description: "User identifier"},
		"start_time":    {Type: "datetime", Description: "Session start"},
		"end_time":      {Type: "datetime", Description: "Session end"},
		"events_count":  {Type: "number", Description: "Number of events in session"},
		"recording_url": {Type: "string", Description: "URL to session replay (if available)"},
	},
	"annotations": {
		"id":          {Type: "number", Description: "Annotation ID"},
		"content":     {Type: "string", Description: "Annotation text"},
		"date_marker": {Type: "datetime", Description: "Date marked on timeline"},
		"scope":       {Type: "string", Description: "organization or project"},
	},
	"experiments": {
		"id":               {Type: "number", Description: "Experiment ID"},
		"name":             {Type: "string", Description: "Experiment name"},
		"feature_flag_key": {Type: "string", Description: "Associated feature flag"},
		"variants":         {Type: "array", Description: "Experiment variants (control, test)"},
		"results":          {Type: "object", Description: "Statistical analysis results"},
	},
}

// Objects returns the available entity type names, always in the same
// order. The returned slice is a copy.
func Objects() []string {
	out := make([]string, len(objectNames))
	copy(out, objectNames)
	return out
}

// Fields returns the field definitions for an entity type. Unknown names
// fail with a not-found error whose message lists every valid type.
func Fields(objectName string) (Schema, error) {
	schema, ok := objectSchemas[objectName]
	if !ok {
		return nil, newError(KindNotFound,
			"unknown object type %q. Available types: %s",
			objectName, strings.Join(objectNames, ", "))
	}
	out := make(Schema, len(schema))
	for k, v := range schema {
		out[k] = v
	}
	return out, nil
}

// ListObjects returns the available entity type names (driver contract
// method).
func (c *Client) ListObjects() []string { return Objects() }

// GetFields returns the field definitions for an entity type (driver
// contract method).
func (c *Client) GetFields(objectName string) (Schema, error) {
	return Fields(objectName)
}
