package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrMissingAPIKey     = errors.New("ticketmaster API key is not configured")
	ErrAuthFailed        = errors.New("authentication failed (401): check the API key")
	ErrEmptyResult       = errors.New("no results")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidPassword   = errors.New("invalid password")
)

// ErrorKind classifies a search outcome for callers and the search log.
type ErrorKind string

const (
	KindNone          ErrorKind = "ok"
	KindMissingAPIKey ErrorKind = "missing_api_key"
	KindTransport     ErrorKind = "transport_error"
	KindAuth          ErrorKind = "auth_error"
	KindUpstream      ErrorKind = "upstream_error"
	KindEmptyResult   ErrorKind = "empty_result"
	KindValidation    ErrorKind = "validation"
	KindUnknown       ErrorKind = "unknown"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// TransportError is a network or timeout failure talking to the upstream API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit its deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// UpstreamError is a non-200 answer other than 401. Body holds at most
// the first 200 characters of the response.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d • %s", e.StatusCode, e.Body)
}

// KindOf maps an error returned by the search path onto its ErrorKind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		transportErr  *TransportError
		upstreamErr   *UpstreamError
		validationErr ValidationError
	)
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return KindMissingAPIKey
	case errors.Is(err, ErrAuthFailed):
		return KindAuth
	case errors.Is(err, ErrEmptyResult):
		return KindEmptyResult
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &upstreamErr):
		return KindUpstream
	case errors.As(err, &validationErr):
		return KindValidation
	default:
		return KindUnknown
	}
}

// OutcomeOf classifies a finished search, turning a successful but empty
// page into KindEmptyResult.
func OutcomeOf(result *SearchResult, err error) ErrorKind {
	if err != nil {
		return KindOf(err)
	}
	if result.Empty() {
		return KindEmptyResult
	}
	return KindNone
}
