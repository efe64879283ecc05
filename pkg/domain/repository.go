package domain

import (
	"context"
)

type SearchLogRepository interface {
	Record(ctx context.Context, record *SearchRecord) error
	Recent(ctx context.Context, limit int) ([]SearchRecord, error)
}

// EventSearcher runs one upstream search with an already resolved API key.
type EventSearcher interface {
	SearchEvents(ctx context.Context, filters SearchFilters, apiKey string) (*SearchResult, error)
}

type SearchService interface {
	Search(ctx context.Context, filters SearchFilters, interactiveKey string) (*SearchResult, error)
	RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error)
}
