package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yair/showfinder/pkg/domain"
	"github.com/yair/showfinder/pkg/logger"
)

func testFilters() domain.SearchFilters {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.SearchFilters{City: "Seoul", FromDate: from, ToDate: from.AddDate(0, 0, 14), PageSize: 20}
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *TicketmasterClient {
	t.Helper()
	client, err := NewTicketmasterClient(TicketmasterConfig{BaseURL: baseURL, Timeout: timeout, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewTicketmasterClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client, err := NewTicketmasterClient(TicketmasterConfig{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.baseURL != DefaultBaseURL {
			t.Errorf("expected default base URL, got %s", client.baseURL)
		}
		if client.httpClient.Timeout != 25*time.Second {
			t.Errorf("expected 25s timeout, got %v", client.httpClient.Timeout)
		}
	})

	t.Run("invalid base URL", func(t *testing.T) {
		_, err := NewTicketmasterClient(TicketmasterConfig{BaseURL: "not a url"})
		if err == nil {
			t.Error("expected error for invalid base URL")
		}
	})
}

func TestTicketmasterClient_SearchEvents(t *testing.T) {
	t.Run("successful search", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/events.json" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"_embedded":{"events":[{"name":"Show","url":"https://tm/1"}]},"page":{"totalElements":1}}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, time.Second)
		result, err := client.SearchEvents(context.Background(), testFilters(), "test-key")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Events) != 1 || result.Events[0].Name != "Show" {
			t.Errorf("unexpected events %+v", result.Events)
		}
		if result.Total != 1 {
			t.Errorf("expected total 1, got %d", result.Total)
		}
		for _, part := range []string{"apikey=test-key", "city=Seoul", "sort=date%2Casc", "startDateTime=2025-01-01T00%3A00%3A00Z"} {
			if !strings.Contains(gotQuery, part) {
				t.Errorf("expected query to contain %s, got %s", part, gotQuery)
			}
		}
	})

	t.Run("missing key makes no request", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, time.Second)
		_, err := client.SearchEvents(context.Background(), testFilters(), "")
		if !errors.Is(err, domain.ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
		if atomic.LoadInt32(&calls) != 0 {
			t.Errorf("expected no upstream call, got %d", calls)
		}
	})

	t.Run("401 is an auth error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"fault":{"faultstring":"Invalid ApiKey"}}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, time.Second)
		result, err := client.SearchEvents(context.Background(), testFilters(), "bad-key")
		if !errors.Is(err, domain.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if domain.KindOf(err) != domain.KindAuth {
			t.Errorf("expected kind %v, got %v", domain.KindAuth, domain.KindOf(err))
		}
		if result != nil {
			t.Errorf("expected no result, got %+v", result)
		}
	})

	t.Run("other status carries truncated body", func(t *testing.T) {
		body := strings.Repeat("x", 500)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(body))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, time.Second)
		_, err := client.SearchEvents(context.Background(), testFilters(), "test-key")

		var upstreamErr *domain.UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if upstreamErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", upstreamErr.StatusCode)
		}
		if len(upstreamErr.Body) != 200 {
			t.Errorf("expected 200 character body, got %d", len(upstreamErr.Body))
		}
	})

	t.Run("undecodable 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, time.Second)
		_, err := client.SearchEvents(context.Background(), testFilters(), "test-key")

		var upstreamErr *domain.UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if upstreamErr.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", upstreamErr.StatusCode)
		}
	})

	t.Run("timeout is a transport error without the key", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		client := newTestClient(t, server.URL, 50*time.Millisecond)
		_, err := client.SearchEvents(context.Background(), testFilters(), "secret-key")

		var transportErr *domain.TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("expected TransportError, got %v", err)
		}
		if !transportErr.Timeout() {
			t.Errorf("expected timeout, got %v", err)
		}
		if strings.Contains(err.Error(), "secret-key") {
			t.Errorf("expected API key to be redacted, got %v", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := newTestClient(t, url, time.Second)
		_, err := client.SearchEvents(context.Background(), testFilters(), "test-key")
		if domain.KindOf(err) != domain.KindTransport {
			t.Errorf("expected transport error, got %v", err)
		}
	})
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("expected short, got %s", got)
	}
	if got := truncate("가나다라", 2); got != "가나" {
		t.Errorf("expected rune-safe truncation, got %s", got)
	}
}
