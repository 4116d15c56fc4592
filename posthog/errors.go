// Package posthog provides a PostHog analytics API client: a retrying HTTP
// request executor, a fixed entity schema, HogQL queries, and the capture,
// insights, cohorts, flags, annotations, and export operations built on them.
package posthog

import (
	"errors"
	"fmt"
)

// Kind classifies a driver failure. The set is closed: callers switch on
// Kind (or use the Is* helpers) instead of matching message text.
type Kind int

const (
	// KindAPI is the generic failure kind for API errors that fit no
	// narrower classification.
	KindAPI Kind = iota
	// KindAuthentication covers missing or rejected credentials (401/403,
	// absent keys at construction or capture time).
	KindAuthentication
	// KindNotFound covers unknown resources: 404 responses and unknown
	// entity names passed to Fields.
	KindNotFound
	// KindQuery covers HogQL query execution failures.
	KindQuery
	// KindConnection covers network-level failures that survived the retry
	// budget.
	KindConnection
	// KindRateLimit covers 429 responses.
	KindRateLimit
	// KindValidation covers malformed input rejected before any request is
	// sent (empty query, empty batch).
	KindValidation
)

// String returns a short name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindQuery:
		return "query"
	case KindConnection:
		return "connection"
	case KindRateLimit:
		return "rate_limit"
	case KindValidation:
		return "validation"
	default:
		return "api"
	}
}

// Error is the single error type returned by the client. Every failure the
// driver reports is an *Error; wrapped causes are reachable via Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("posthog: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("posthog: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// newError creates an *Error with no underlying cause.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError creates an *Error wrapping cause.
func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// isKind reports whether err is a driver error of the given kind.
func isKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool { return isKind(err, KindAuthentication) }

// IsNotFound reports whether err is an object-not-found failure.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsQuery reports whether err is a query execution failure.
func IsQuery(err error) bool { return isKind(err, KindQuery) }

// IsConnection reports whether err is a network connectivity failure.
func IsConnection(err error) bool { return isKind(err, KindConnection) }

// IsRateLimit reports whether err is a rate-limit rejection.
func IsRateLimit(err error) bool { return isKind(err, KindRateLimit) }

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool { return isKind(err, KindValidation) }
