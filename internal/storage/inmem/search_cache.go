// Package inmem provides map-backed store implementations for tests and the
// in_mem storage type. Everything is safe for concurrent use.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/searchcache"
)

type SearchCacheStore struct {
	mu      sync.RWMutex
	entries map[string]searchcache.Entry
}

func NewSearchCacheStore() *SearchCacheStore {
	return &SearchCacheStore{entries: make(map[string]searchcache.Entry)}
}

func (s *SearchCacheStore) Get(ctx context.Context, cacheKey string) (*searchcache.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[cacheKey]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *SearchCacheStore) Upsert(ctx context.Context, entry searchcache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.CacheKey] = entry
	return nil
}

func (s *SearchCacheStore) Delete(ctx context.Context, cacheKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, cacheKey)
	return nil
}

func (s *SearchCacheStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped int64
	for key, entry := range s.entries {
		if entry.ExpiresAt.Before(now) {
			delete(s.entries, key)
			dropped++
		}
	}
	return dropped, nil
}

// Len reports the number of stored entries. Test helper.
func (s *SearchCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
