package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sjlee-dev/newsdesk/internal/domain"
	"github.com/sjlee-dev/newsdesk/internal/searchcache"
)

// SearchCacheStore persists raw search pages keyed by fingerprint.
type SearchCacheStore struct {
	db *pgxpool.Pool
}

func NewSearchCacheStore(pool *ConnectionPool) *SearchCacheStore {
	return &SearchCacheStore{db: pool.conn}
}

func (s *SearchCacheStore) Get(ctx context.Context, cacheKey string) (*searchcache.Entry, error) {
	query := `
		SELECT cache_key, query, country, language, date_range,
		       start_index, total_results, results, created_at, expires_at
		FROM search_cache
		WHERE cache_key = $1
	`

	var entry searchcache.Entry
	var resultsJSON []byte
	err := s.db.QueryRow(ctx, query, cacheKey).Scan(
		&entry.CacheKey,
		&entry.Query,
		&entry.Country,
		&entry.Language,
		&entry.DateRange,
		&entry.StartIndex,
		&entry.TotalResults,
		&resultsJSON,
		&entry.CreatedAt,
		&entry.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read search cache entry: %w", err)
	}

	var items []domain.NewsItem
	if err := json.Unmarshal(resultsJSON, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached results: %w", err)
	}
	entry.Items = items

	return &entry, nil
}

func (s *SearchCacheStore) Upsert(ctx context.Context, entry searchcache.Entry) error {
	resultsJSON, err := json.Marshal(entry.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cached results: %w", err)
	}

	cmd := `
		INSERT INTO search_cache
			(id, cache_key, query, country, language, date_range,
			 start_index, total_results, results, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (cache_key) DO UPDATE SET
			results = EXCLUDED.results,
			total_results = EXCLUDED.total_results,
			start_index = EXCLUDED.start_index,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`
	_, err = s.db.Exec(ctx, cmd,
		uuid.New(),
		entry.CacheKey,
		entry.Query,
		entry.Country,
		entry.Language,
		entry.DateRange,
		entry.StartIndex,
		entry.TotalResults,
		resultsJSON,
		entry.CreatedAt,
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert search cache entry: %w", err)
	}
	return nil
}

func (s *SearchCacheStore) Delete(ctx context.Context, cacheKey string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM search_cache WHERE cache_key = $1`, cacheKey)
	if err != nil {
		return fmt.Errorf("failed to delete search cache entry: %w", err)
	}
	return nil
}

func (s *SearchCacheStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM search_cache WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired search cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
