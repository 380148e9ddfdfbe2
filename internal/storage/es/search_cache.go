// Package es backs the search cache with an Elasticsearch index. Entries are
// whole documents keyed by their fingerprint, so every operation is a direct
// document lookup; expiry sweeps use a range delete-by-query on expiresAt.
package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/sjlee-dev/newsdesk/internal/searchcache"
)

type SearchCacheStore struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearchCacheStore(config ClientConfig) (*SearchCacheStore, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &SearchCacheStore{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

func (s *SearchCacheStore) Get(ctx context.Context, cacheKey string) (*searchcache.Entry, error) {
	res, err := s.client.Get(s.indexName, cacheKey).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache document: %w", err)
	}
	if !res.Found {
		return nil, nil
	}

	var entry searchcache.Entry
	if err := json.Unmarshal(res.Source_, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache document: %w", err)
	}
	return &entry, nil
}

func (s *SearchCacheStore) Upsert(ctx context.Context, entry searchcache.Entry) error {
	res, err := s.client.Index(s.indexName).Id(entry.CacheKey).Document(entry).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index cache document: %w", err)
	}
	slog.Debug("cache document indexed", "cache_key", entry.CacheKey, "result", res.Result)
	return nil
}

func (s *SearchCacheStore) Delete(ctx context.Context, cacheKey string) error {
	if _, err := s.client.Delete(s.indexName, cacheKey).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete cache document: %w", err)
	}
	return nil
}

func (s *SearchCacheStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	body := fmt.Sprintf(
		`{"query":{"range":{"expiresAt":{"lt":%q}}}}`,
		now.UTC().Format(time.RFC3339),
	)

	res, err := s.client.DeleteByQuery(s.indexName).Raw(strings.NewReader(body)).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache documents: %w", err)
	}
	if res.Deleted == nil {
		return 0, nil
	}
	return *res.Deleted, nil
}
