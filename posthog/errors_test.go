package posthog

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindAPI, "api"},
		{KindAuthentication, "authentication"},
		{KindNotFound, "not_found"},
		{KindQuery, "query"},
		{KindConnection, "connection"},
		{KindRateLimit, "rate_limit"},
		{KindValidation, "validation"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"authentication", newError(KindAuthentication, "bad key"), IsAuthentication},
		{"not found", newError(KindNotFound, "missing"), IsNotFound},
		{"query", newError(KindQuery, "bad query"), IsQuery},
		{"connection", newError(KindConnection, "refused"), IsConnection},
		{"rate limit", newError(KindRateLimit, "slow down"), IsRateLimit},
		{"validation", newError(KindValidation, "empty"), IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(tt.err) {
				t.Errorf("predicate returned false for its own kind")
			}
			if tt.pred(newError(KindAPI, "generic")) {
				t.Errorf("predicate returned true for a generic API error")
			}
		})
	}
}

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	inner := newError(KindRateLimit, "limit hit")
	wrapped := fmt.Errorf("operation failed: %w", inner)

	if !IsRateLimit(wrapped) {
		t.Errorf("IsRateLimit(wrapped) = false, want true")
	}

	var pe *Error
	if !errors.As(wrapped, &pe) {
		t.Fatalf("errors.As failed on wrapped driver error")
	}
	if pe.Kind != KindRateLimit {
		t.Errorf("unwrapped Kind = %v, want KindRateLimit", pe.Kind)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := wrapError(KindConnection, cause, "request failed")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause text included", err.Error())
	}
	if !strings.Contains(err.Error(), "connection") {
		t.Errorf("Error() = %q, want kind name included", err.Error())
	}
}
