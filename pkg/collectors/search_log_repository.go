package collectors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yair/showfinder/pkg/domain"
)

const maxRecentSearches = 100

// SearchLogRepository keeps an audit trail of searches: the filters used and
// how each one ended. Search results themselves are not stored.
type SearchLogRepository struct {
	db *sql.DB
}

func NewSearchLogRepository(db *sql.DB) (*SearchLogRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	repo := &SearchLogRepository{db: db}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *SearchLogRepository) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		city TEXT,
		keyword TEXT,
		country_code TEXT,
		from_date TIMESTAMP NOT NULL,
		to_date TIMESTAMP NOT NULL,
		page_size INTEGER NOT NULL,
		page INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		total INTEGER NOT NULL,
		returned INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
	`

	_, err := r.db.Exec(query)
	return err
}

// Record stores a search. ID and CreatedAt are filled in when empty.
func (r *SearchLogRepository) Record(ctx context.Context, record *domain.SearchRecord) error {
	if record == nil {
		return fmt.Errorf("search record cannot be nil")
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO searches (
		id, city, keyword, country_code, from_date, to_date,
		page_size, page, outcome, total, returned, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.City,
		record.Keyword,
		record.CountryCode,
		record.FromDate,
		record.ToDate,
		record.PageSize,
		record.Page,
		string(record.Outcome),
		record.Total,
		record.Returned,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return nil
}

// Recent returns the newest searches first.
func (r *SearchLogRepository) Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxRecentSearches {
		limit = maxRecentSearches
	}

	query := `
	SELECT id, city, keyword, country_code, from_date, to_date,
		page_size, page, outcome, total, returned, created_at
	FROM searches
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SearchRecord, 0, limit)
	for rows.Next() {
		var (
			record  domain.SearchRecord
			outcome string
		)
		err := rows.Scan(
			&record.ID,
			&record.City,
			&record.Keyword,
			&record.CountryCode,
			&record.FromDate,
			&record.ToDate,
			&record.PageSize,
			&record.Page,
			&outcome,
			&record.Total,
			&record.Returned,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		record.Outcome = domain.ErrorKind(outcome)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate searches: %w", err)
	}

	return records, nil
}
