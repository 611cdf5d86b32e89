package agent

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing or invalid required settings. It is
// raised before any network call is attempted and lists every missing
// field, not just the first one found.
type ConfigurationError struct {
	// Missing names the required settings that were absent
	Missing []string

	// Reason carries additional detail when the problem is not a
	// missing field
	Reason string
}

func (e *ConfigurationError) Error() string {
	switch {
	case len(e.Missing) > 0 && e.Reason != "":
		return fmt.Sprintf("invalid configuration: %s (missing: %s)", e.Reason, strings.Join(e.Missing, ", "))
	case len(e.Missing) > 0:
		return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
}

// AuthenticationError indicates that the OAuth token exchange failed or
// returned a malformed response. It is fatal for the current operation;
// the caller may retry with fresh credentials.
type AuthenticationError struct {
	// Detail describes what went wrong in the exchange
	Detail string

	// Err is the underlying cause, if any
	Err error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Detail)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// APIRequestError indicates a failed REST call: either a non-2xx HTTP
// status (StatusCode and Body are set) or a transport-level failure
// (StatusCode is zero and Err carries the cause). It is always surfaced
// to the caller, never swallowed.
type APIRequestError struct {
	// Method is the HTTP method of the failed request
	Method string

	// URL is the resolved request URL
	URL string

	// StatusCode is the HTTP status, or zero for transport failures
	StatusCode int

	// Body is the raw response body for non-2xx responses
	Body string

	// Err is the underlying transport or decoding error, if any
	Err error
}

func (e *APIRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *APIRequestError) Unwrap() error { return e.Err }

// ResponseShapeError indicates that an otherwise-successful response did
// not contain the expected field, or carried it with an unexpected type.
// The absence is surfaced instead of being silently defaulted to empty
// text.
type ResponseShapeError struct {
	// Field is the response key that was expected
	Field string

	// Keys lists the keys actually present in the response
	Keys []string
}

func (e *ResponseShapeError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("response is missing expected field %q (got: %s)", e.Field, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("response is missing expected field %q", e.Field)
}
