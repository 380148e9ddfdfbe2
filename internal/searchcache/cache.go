package searchcache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/domain"
)

// DefaultTTL is how long a cached search page stays servable.
const DefaultTTL = 6 * time.Hour

// CachedResult is a cache hit with its observability extras.
type CachedResult struct {
	domain.SearchResult
	CachedAt time.Time
	Age      time.Duration
}

// Cache wraps a Store with fingerprinting and TTL semantics. Store failures
// are logged and degrade to misses or dropped writes; they never reach the
// search path.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides the time source. Tests use this to cross the TTL
// boundary without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get looks up the fingerprint of params. An entry read at or past its
// ExpiresAt is a miss; its deletion is scheduled in the background so the
// caller never waits on it.
func (c *Cache) Get(ctx context.Context, params Params) (*CachedResult, bool) {
	key := BuildKey(params)

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("search cache read failed, treating as miss", "cache_key", key, "error", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	now := c.now()
	if !now.Before(entry.ExpiresAt) {
		go func() {
			if err := c.store.Delete(context.WithoutCancel(ctx), key); err != nil {
				slog.Warn("failed to delete expired cache entry", "cache_key", key, "error", err)
			}
		}()
		return nil, false
	}

	return &CachedResult{
		SearchResult: domain.SearchResult{
			Items:        entry.Items,
			TotalResults: entry.TotalResults,
			StartIndex:   entry.StartIndex,
			HasNextPage:  entry.StartIndex+10 <= entry.TotalResults,
		},
		CachedAt: entry.CreatedAt,
		Age:      now.Sub(entry.CreatedAt),
	}, true
}

// Set upserts the raw result under the params fingerprint with a fresh TTL.
// CreatedAt is always reset to write time.
func (c *Cache) Set(ctx context.Context, params Params, result domain.SearchResult) error {
	now := c.now()
	p := normalize(params)

	return c.store.Upsert(ctx, Entry{
		CacheKey:     BuildKey(params),
		Query:        params.Query,
		Country:      p.Country,
		Language:     p.Language,
		DateRange:    p.DateRange,
		StartIndex:   result.StartIndex,
		TotalResults: result.TotalResults,
		Items:        result.Items,
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.ttl),
	})
}

// CleanExpired drops every expired entry. Meant for the periodic sweep job.
func (c *Cache) CleanExpired(ctx context.Context) (int64, error) {
	return c.store.DeleteExpired(ctx, c.now())
}
