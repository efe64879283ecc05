package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	t.Run("Predefined errors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want string
		}{
			{"ErrInvalidRequest", ErrInvalidRequest, "invalid request"},
			{"ErrMissingAPIKey", ErrMissingAPIKey, "ticketmaster API key is not configured"},
			{"ErrAuthFailed", ErrAuthFailed, "authentication failed (401): check the API key"},
			{"ErrEmptyResult", ErrEmptyResult, "no results"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.err.Error(); got != tt.want {
					t.Errorf("%s.Error() = %v, want %v", tt.name, got, tt.want)
				}
			})
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		err := ValidationError{
			Field:   "size",
			Message: "must be one of [10 20 30 50 100]",
		}

		expected := "validation error on field size: must be one of [10 20 30 50 100]"
		if got := err.Error(); got != expected {
			t.Errorf("ValidationError.Error() = %v, want %v", got, expected)
		}
	})

	t.Run("UpstreamError", func(t *testing.T) {
		err := &UpstreamError{StatusCode: 500, Body: "boom"}
		if got := err.Error(); got != "API error: 500 • boom" {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("TransportError unwraps", func(t *testing.T) {
		err := &TransportError{Err: context.DeadlineExceeded}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("expected TransportError to unwrap to its cause")
		}
		if !err.Timeout() {
			t.Error("expected deadline exceeded to count as timeout")
		}
		if (&TransportError{Err: errors.New("connection refused")}).Timeout() {
			t.Error("expected plain error not to count as timeout")
		}
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"missing key", ErrMissingAPIKey, KindMissingAPIKey},
		{"wrapped missing key", fmt.Errorf("build query: %w", ErrMissingAPIKey), KindMissingAPIKey},
		{"auth", ErrAuthFailed, KindAuth},
		{"transport", &TransportError{Err: errors.New("dial tcp")}, KindTransport},
		{"upstream", &UpstreamError{StatusCode: 503}, KindUpstream},
		{"wrapped upstream", fmt.Errorf("search: %w", &UpstreamError{StatusCode: 429}), KindUpstream},
		{"empty", ErrEmptyResult, KindEmptyResult},
		{"validation", ValidationError{Field: "page"}, KindValidation},
		{"other", errors.New("something else"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Run("error wins", func(t *testing.T) {
		if got := OutcomeOf(nil, ErrAuthFailed); got != KindAuth {
			t.Errorf("expected %v, got %v", KindAuth, got)
		}
	})

	t.Run("empty page with non-zero total", func(t *testing.T) {
		result := &SearchResult{Total: 42}
		if got := OutcomeOf(result, nil); got != KindEmptyResult {
			t.Errorf("expected %v, got %v", KindEmptyResult, got)
		}
	})

	t.Run("events present", func(t *testing.T) {
		result := &SearchResult{Events: []EventSummary{{Name: "Show"}}, Total: 1}
		if got := OutcomeOf(result, nil); got != KindNone {
			t.Errorf("expected %v, got %v", KindNone, got)
		}
	})
}
