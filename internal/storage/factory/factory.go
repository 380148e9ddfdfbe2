// Package factory builds the storage backends selected by STORAGE_TYPE.
package factory

import (
	"context"
	"fmt"

	"github.com/sjlee-dev/newsdesk/internal/scoring"
	"github.com/sjlee-dev/newsdesk/internal/searchcache"
	"github.com/sjlee-dev/newsdesk/internal/storage"
	"github.com/sjlee-dev/newsdesk/internal/storage/es"
	"github.com/sjlee-dev/newsdesk/internal/storage/inmem"
	"github.com/sjlee-dev/newsdesk/internal/storage/pg"
	"github.com/sjlee-dev/newsdesk/internal/translate"
	pkgserver "github.com/sjlee-dev/newsdesk/pkg/server"
)

// Stores bundles the three persistence concerns behind one constructor.
// The translation cache and scoring config only have pg and in-memory
// backends, so the ES flavor mixes an ES search cache with in-memory
// companions.
type Stores struct {
	SearchCache      searchcache.Store
	TranslationCache translate.CacheStore
	ScoringConfig    scoring.Store
	Health           pkgserver.HealthChecker
	Close            func()
}

func NewStores(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
		}
		return &Stores{
			SearchCache:      pg.NewSearchCacheStore(pool),
			TranslationCache: pg.NewTranslationCacheStore(pool),
			ScoringConfig:    pg.NewScoringConfigStore(pool),
			Health:           pg.NewHealthChecker(pool),
			Close:            pool.Close,
		}, nil
	case storage.ES:
		client, err := es.NewSearchCacheStore(*cfg.Es)
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		return &Stores{
			SearchCache:      client,
			TranslationCache: inmem.NewTranslationCacheStore(),
			ScoringConfig:    inmem.NewScoringConfigStore(),
			Health:           pkgserver.NewOkHealthChecker(),
			Close:            func() {},
		}, nil
	case storage.InMem:
		return &Stores{
			SearchCache:      inmem.NewSearchCacheStore(),
			TranslationCache: inmem.NewTranslationCacheStore(),
			ScoringConfig:    inmem.NewScoringConfigStore(),
			Health:           pkgserver.NewOkHealthChecker(),
			Close:            func() {},
		}, nil
	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStore), cfg.Type)
	}
}
