package agent

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigurationErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		contains []string
	}{
		{
			name:     "missing fields listed",
			err:      &ConfigurationError{Missing: []string{"realm", "client_id"}},
			contains: []string{"realm", "client_id"},
		},
		{
			name:     "reason only",
			err:      &ConfigurationError{Reason: "config file unreadable"},
			contains: []string{"config file unreadable"},
		},
		{
			name:     "reason and missing",
			err:      &ConfigurationError{Reason: "bad file", Missing: []string{"realm"}},
			contains: []string{"bad file", "realm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected %q in %q", want, msg)
				}
			}
		})
	}
}

func TestAuthenticationErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &AuthenticationError{Detail: "token request failed", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "token request failed") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAPIRequestErrorMessage(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		err := &APIRequestError{Method: "GET", URL: "http://x/agents", StatusCode: 500, Body: "boom"}
		msg := err.Error()
		if !strings.Contains(msg, "500") || !strings.Contains(msg, "boom") {
			t.Errorf("expected status and body in %q", msg)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		cause := fmt.Errorf("dial tcp: timeout")
		err := &APIRequestError{Method: "POST", URL: "http://x/agents", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find the wrapped cause")
		}
		if !strings.Contains(err.Error(), "timeout") {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})
}

func TestResponseShapeErrorMessage(t *testing.T) {
	err := &ResponseShapeError{Field: "response", Keys: []string{"message", "tokens"}}
	msg := err.Error()
	if !strings.Contains(msg, `"response"`) || !strings.Contains(msg, "message") {
		t.Errorf("unexpected message: %q", msg)
	}

	bare := &ResponseShapeError{Field: "response"}
	if !strings.Contains(bare.Error(), `"response"`) {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}

func TestErrorsAsAcrossWrapping(t *testing.T) {
	inner := &APIRequestError{Method: "POST", URL: "http://x/token", StatusCode: 401, Body: "nope"}
	err := fmt.Errorf("acquiring token: %w", &AuthenticationError{Detail: "token endpoint returned an error", Err: inner})

	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatal("expected AuthenticationError in chain")
	}

	var apiErr *APIRequestError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected APIRequestError in chain")
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
}
