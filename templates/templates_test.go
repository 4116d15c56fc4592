package templates

import (
	"errors"
	"strings"
	"testing"
)

func TestListReturnsRegistryOrder(t *testing.T) {
	want := []string{
		"capture_event",
		"capture_batch",
		"get_recent_events",
		"hogql_query",
		"get_insights",
		"export_events",
		"export_cohort",
		"identify_power_users",
		"identify_churn_risk",
		"analyze_funnel",
		"get_experiments",
		"evaluate_flags",
		"track_errors",
	}

	got := List()
	if len(got) != len(want) {
		t.Fatalf("List() returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetKnownTemplates(t *testing.T) {
	for _, name := range List() {
		tmpl, err := Get(name)
		if err != nil {
			t.Errorf("Get(%q): %v", name, err)
			continue
		}
		if tmpl == "" {
			t.Errorf("Get(%q) returned empty script", name)
		}
		// Every script is self-contained: it reads credentials injected by the
		// sandbox environment setup.
		if !strings.Contains(tmpl, "import requests") {
			t.Errorf("template %q missing requests import", name)
		}
	}
}

func TestGetUnknownTemplate(t *testing.T) {
	_, err := Get("does_not_exist")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	for _, name := range List() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q missing valid name %q", err.Error(), name)
		}
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	tmpl := "SELECT * FROM events WHERE event = '{event_name}'"
	got := Render(tmpl, map[string]string{"event_name": "Signup"})
	want := "SELECT * FROM events WHERE event = 'Signup'"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderReplacesAllOccurrences(t *testing.T) {
	tmpl := "{id} and {id} again, plus {other}"
	got := Render(tmpl, map[string]string{"id": "42", "other": "x"})
	if got != "42 and 42 again, plus x" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderLeavesUnresolvedPlaceholders(t *testing.T) {
	tmpl := "event = '{event_name}' AND days = {days}"
	got := Render(tmpl, map[string]string{"days": "30"})
	// No missing-variable detection: unmatched placeholders pass through.
	want := "event = '{event_name}' AND days = 30"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	if got := Render(tmpl, nil); got != tmpl {
		t.Errorf("Render with no vars = %q, want input unchanged", got)
	}
}

func TestScriptsCarryCredentialPlaceholders(t *testing.T) {
	// Credential placeholders are resolved by the sandbox executor, not by
	// Render, so they must survive the template layer untouched.
	for _, name := range List() {
		tmpl, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if !strings.Contains(tmpl, "<api_key_placeholder>") {
			t.Errorf("template %q missing <api_key_placeholder>", name)
		}
		rendered := Render(tmpl, map[string]string{"event_name": "x"})
		if !strings.Contains(rendered, "<api_key_placeholder>") {
			t.Errorf("Render stripped credential placeholder from %q", name)
		}
	}
}
