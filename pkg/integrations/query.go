package integrations

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yair/showfinder/pkg/domain"
)

const (
	sortByDateAscending = "date,asc"
	anyLocale           = "*"
)

type queryParam struct {
	key   string
	value string
}

// BuildQuery turns search filters into Discovery API query parameters.
// Empty values are dropped. size and page are always sent, as are the
// fixed sort and locale. A missing key yields domain.ErrMissingAPIKey.
func BuildQuery(filters domain.SearchFilters, apiKey string) (url.Values, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	filters = filters.Normalize()

	return compact([]queryParam{
		{"apikey", apiKey},
		{"size", strconv.Itoa(filters.PageSize)},
		{"page", strconv.Itoa(filters.Page)},
		{"sort", sortByDateAscending},
		{"locale", anyLocale},
		{"city", filters.City},
		{"keyword", filters.Keyword},
		{"countryCode", filters.CountryCode},
		{"startDateTime", FormatDate(filters.FromDate)},
		{"endDateTime", FormatDate(filters.ToDate)},
	}), nil
}

// FormatDate renders the calendar date of d as midnight UTC, the form the
// Discovery API expects for startDateTime/endDateTime. A zero date is empty.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02") + "T00:00:00Z"
}

func compact(params []queryParam) url.Values {
	q := url.Values{}
	for _, p := range params {
		if p.value == "" {
			continue
		}
		q.Set(p.key, p.value)
	}
	return q
}
