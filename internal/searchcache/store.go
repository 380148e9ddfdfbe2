package searchcache

import (
	"context"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/domain"
)

// Entry is a stored search page keyed by its fingerprint.
type Entry struct {
	CacheKey     string            `json:"cacheKey"`
	Query        string            `json:"query"`
	Country      string            `json:"country"`
	Language     string            `json:"language"`
	DateRange    string            `json:"dateRange"`
	StartIndex   int               `json:"startIndex"`
	TotalResults int               `json:"totalResults"`
	Items        []domain.NewsItem `json:"items"`
	CreatedAt    time.Time         `json:"createdAt"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// Store is the key-value backend contract. Get returns (nil, nil) on a
// missing key; expiry is the caller's concern.
type Store interface {
	Get(ctx context.Context, cacheKey string) (*Entry, error)
	Upsert(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, cacheKey string) error
	// DeleteExpired removes every entry whose ExpiresAt is before now and
	// reports how many were dropped. Used by the sweep command.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
