package integrations

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/yair/showfinder/pkg/domain"
)

func TestBuildQuery(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("only required parameters when optional fields are empty", func(t *testing.T) {
		q, err := BuildQuery(domain.SearchFilters{FromDate: from, ToDate: to, PageSize: 20}, "test-key")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		want := []string{"apikey", "endDateTime", "locale", "page", "size", "sort", "startDateTime"}
		if len(keys) != len(want) {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("expected keys %v, got %v", want, keys)
				break
			}
		}
	})

	t.Run("fixed and formatted values", func(t *testing.T) {
		q, err := BuildQuery(domain.SearchFilters{FromDate: from, ToDate: to, PageSize: 50, Page: 3}, "test-key")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		checks := map[string]string{
			"apikey":        "test-key",
			"size":          "50",
			"page":          "3",
			"sort":          "date,asc",
			"locale":        "*",
			"startDateTime": "2025-01-01T00:00:00Z",
			"endDateTime":   "2025-01-15T00:00:00Z",
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("expected %s=%s, got %s", k, want, got)
			}
		}
	})

	t.Run("optional filters are sent when set", func(t *testing.T) {
		q, err := BuildQuery(domain.SearchFilters{
			City:        " Seoul ",
			Keyword:     "musical",
			CountryCode: "kr",
			FromDate:    from,
			ToDate:      to,
		}, "test-key")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if q.Get("city") != "Seoul" {
			t.Errorf("expected city Seoul, got %q", q.Get("city"))
		}
		if q.Get("keyword") != "musical" {
			t.Errorf("expected keyword musical, got %q", q.Get("keyword"))
		}
		if q.Get("countryCode") != "KR" {
			t.Errorf("expected countryCode KR, got %q", q.Get("countryCode"))
		}
		if q.Get("size") != "20" {
			t.Errorf("expected default size 20, got %q", q.Get("size"))
		}
		if q.Get("page") != "0" {
			t.Errorf("expected page 0, got %q", q.Get("page"))
		}
	})

	t.Run("missing API key", func(t *testing.T) {
		q, err := BuildQuery(domain.SearchFilters{FromDate: from, ToDate: to}, "   ")
		if !errors.Is(err, domain.ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
		if q != nil {
			t.Errorf("expected no parameters, got %v", q)
		}
	})
}

func TestFormatDate(t *testing.T) {
	t.Run("midnight UTC", func(t *testing.T) {
		d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		if got := FormatDate(d); got != "2025-01-01T00:00:00Z" {
			t.Errorf("expected 2025-01-01T00:00:00Z, got %s", got)
		}
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		d := time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)
		if got := FormatDate(d); got != "2025-06-30T00:00:00Z" {
			t.Errorf("expected 2025-06-30T00:00:00Z, got %s", got)
		}
	})

	t.Run("zero date", func(t *testing.T) {
		if got := FormatDate(time.Time{}); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})
}
