package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yair/showfinder/pkg/domain"
)

const (
	DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"
	DefaultTimeout = 25 * time.Second

	// upstream error bodies are cut to this many characters
	errorBodyLimit = 200
)

type TicketmasterClient struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type TicketmasterConfig struct {
	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // defaults to DefaultTimeout
	Logger  *slog.Logger
}

func NewTicketmasterClient(config TicketmasterConfig) (*TicketmasterClient, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid ticketmaster base URL: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &TicketmasterClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        config.Logger,
	}, nil
}

// SearchEvents issues a single events search. There is no retry: a failed
// attempt is reported to the caller as is.
func (c *TicketmasterClient) SearchEvents(ctx context.Context, filters domain.SearchFilters, apiKey string) (*domain.SearchResult, error) {
	params, err := BuildQuery(filters, apiKey)
	if err != nil {
		return nil, err
	}

	raw, err := c.fetchEvents(ctx, params)
	if err != nil {
		return nil, err
	}

	result, err := NormalizeEvents(raw)
	if err != nil {
		c.log.Warn("undecodable ticketmaster response", slog.String("err", err.Error()))
		return nil, &domain.UpstreamError{StatusCode: http.StatusOK, Body: truncate(string(raw), errorBodyLimit)}
	}

	return result, nil
}

func (c *TicketmasterClient) fetchEvents(ctx context.Context, params url.Values) ([]byte, error) {
	eventsURL := fmt.Sprintf("%s/events.json", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eventsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: redactKey(err)}
	}
	defer resp.Body.Close()

	c.log.Debug("ticketmaster request",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		// Only the head of the body is reported, so read little of it.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit*4))
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), errorBodyLimit),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to read response: %w", redactKey(err))}
	}

	return raw, nil
}

// redactKey strips the apikey query parameter from URLs carried by
// net/http errors so the key never reaches logs or users.
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		return &url.Error{Op: urlErr.Op, URL: "", Err: urlErr.Err}
	}
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
