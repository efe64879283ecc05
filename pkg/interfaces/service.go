package interfaces

import (
	"context"
	"log/slog"

	"github.com/yair/showfinder/pkg/config"
	"github.com/yair/showfinder/pkg/domain"
)

// SearchService runs one upstream search per call and records how it ended.
type SearchService struct {
	config    *config.TicketmasterConfig
	searcher  domain.EventSearcher
	searchLog domain.SearchLogRepository
	log       *slog.Logger
}

func NewSearchService(
	cfg *config.TicketmasterConfig,
	searcher domain.EventSearcher,
	searchLog domain.SearchLogRepository,
	log *slog.Logger,
) *SearchService {
	return &SearchService{
		config:    cfg,
		searcher:  searcher,
		searchLog: searchLog,
		log:       log,
	}
}

// Search validates the filters, resolves the API key (configured key first,
// then the one entered for this search) and queries the upstream API once.
func (s *SearchService) Search(ctx context.Context, filters domain.SearchFilters, interactiveKey string) (*domain.SearchResult, error) {
	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	apiKey := s.config.ResolveAPIKey(interactiveKey)
	result, err := s.searcher.SearchEvents(ctx, filters, apiKey)

	outcome := domain.OutcomeOf(result, err)
	s.record(ctx, filters, result, outcome)

	if err != nil {
		s.log.Warn("search failed",
			slog.String("kind", string(outcome)),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	s.log.Info("search completed",
		slog.String("kind", string(outcome)),
		slog.Int("total", result.Total),
		slog.Int("returned", len(result.Events)),
	)
	return result, nil
}

func (s *SearchService) RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if s.searchLog == nil {
		return []domain.SearchRecord{}, nil
	}
	return s.searchLog.Recent(ctx, limit)
}

func (s *SearchService) record(ctx context.Context, filters domain.SearchFilters, result *domain.SearchResult, outcome domain.ErrorKind) {
	if s.searchLog == nil {
		return
	}

	record := &domain.SearchRecord{
		City:        filters.City,
		Keyword:     filters.Keyword,
		CountryCode: filters.CountryCode,
		FromDate:    filters.FromDate,
		ToDate:      filters.ToDate,
		PageSize:    filters.PageSize,
		Page:        filters.Page,
		Outcome:     outcome,
	}
	if result != nil {
		record.Total = result.Total
		record.Returned = len(result.Events)
	}

	// The request may already be timed out; the log entry is still wanted.
	if err := s.searchLog.Record(context.WithoutCancel(ctx), record); err != nil {
		s.log.Error("failed to record search", slog.String("err", err.Error()))
	}
}
