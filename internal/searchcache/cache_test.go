package searchcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/domain"
	"github.com/sjlee-dev/newsdesk/internal/searchcache"
	"github.com/sjlee-dev/newsdesk/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() domain.SearchResult {
	return domain.SearchResult{
		Items: []domain.NewsItem{
			{Title: "Biosimilar approval", Source: "reuters.com"},
			{Title: "CRISPR trial", Source: "nature.com"},
		},
		TotalResults: 42,
		StartIndex:   1,
	}
}

func TestCache_SetThenGet(t *testing.T) {
	ctx := context.Background()
	cache := searchcache.New(inmem.NewSearchCacheStore())
	params := searchcache.Params{Query: "biosimilar", Country: "us", DateRange: "m1", Start: 1}

	_, ok := cache.Get(ctx, params)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, params, testResult()))

	got, ok := cache.Get(ctx, params)
	require.True(t, ok)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 42, got.TotalResults)
	assert.Equal(t, 1, got.StartIndex)
	assert.True(t, got.HasNextPage)
	assert.GreaterOrEqual(t, got.Age, time.Duration(0))
}

func TestCache_EquivalentParamsHit(t *testing.T) {
	ctx := context.Background()
	cache := searchcache.New(inmem.NewSearchCacheStore())

	require.NoError(t, cache.Set(ctx, searchcache.Params{Query: "Biosimilar "}, testResult()))

	_, ok := cache.Get(ctx, searchcache.Params{Query: "biosimilar", Country: "us", DateRange: "m1", Start: 1})
	assert.True(t, ok)
}

func TestCache_TTLBoundary(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewSearchCacheStore()

	now := time.Now()
	clock := &now
	cache := searchcache.New(store, searchcache.WithClock(func() time.Time { return *clock }))
	params := searchcache.Params{Query: "biosimilar"}

	require.NoError(t, cache.Set(ctx, params, testResult()))

	// Just inside the TTL.
	later := now.Add(searchcache.DefaultTTL - time.Second)
	clock = &later
	_, ok := cache.Get(ctx, params)
	assert.True(t, ok)

	// Exactly at the TTL: expired.
	atTTL := now.Add(searchcache.DefaultTTL)
	clock = &atTTL
	_, ok = cache.Get(ctx, params)
	assert.False(t, ok)
}

func TestCache_ExpiredEntryEventuallyDeleted(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewSearchCacheStore()

	now := time.Now()
	clock := &now
	cache := searchcache.New(store, searchcache.WithClock(func() time.Time { return *clock }))
	params := searchcache.Params{Query: "biosimilar"}

	require.NoError(t, cache.Set(ctx, params, testResult()))

	later := now.Add(searchcache.DefaultTTL + time.Minute)
	clock = &later
	_, ok := cache.Get(ctx, params)
	require.False(t, ok)

	// Deletion happens off the request path.
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCache_CustomTTL(t *testing.T) {
	ctx := context.Background()

	now := time.Now()
	clock := &now
	cache := searchcache.New(inmem.NewSearchCacheStore(),
		searchcache.WithTTL(time.Minute),
		searchcache.WithClock(func() time.Time { return *clock }),
	)
	params := searchcache.Params{Query: "biosimilar"}

	require.NoError(t, cache.Set(ctx, params, testResult()))

	later := now.Add(2 * time.Minute)
	clock = &later
	_, ok := cache.Get(ctx, params)
	assert.False(t, ok)
}

func TestCache_SetResetsTTL(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewSearchCacheStore()

	now := time.Now()
	clock := &now
	cache := searchcache.New(store, searchcache.WithClock(func() time.Time { return *clock }))
	params := searchcache.Params{Query: "biosimilar"}

	require.NoError(t, cache.Set(ctx, params, testResult()))

	// Rewrite five hours in; the entry must survive to hour ten.
	mid := now.Add(5 * time.Hour)
	clock = &mid
	require.NoError(t, cache.Set(ctx, params, testResult()))

	late := mid.Add(5 * time.Hour)
	clock = &late
	got, ok := cache.Get(ctx, params)
	require.True(t, ok)
	assert.Equal(t, 5*time.Hour, got.Age)
}

func TestCache_HasNextPageComputation(t *testing.T) {
	ctx := context.Background()
	cache := searchcache.New(inmem.NewSearchCacheStore())

	result := testResult()
	result.TotalResults = 10
	result.StartIndex = 1
	params := searchcache.Params{Query: "last page"}
	require.NoError(t, cache.Set(ctx, params, result))

	got, ok := cache.Get(ctx, params)
	require.True(t, ok)
	assert.False(t, got.HasNextPage)
}

func TestCache_CleanExpired(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewSearchCacheStore()

	now := time.Now()
	clock := &now
	cache := searchcache.New(store, searchcache.WithClock(func() time.Time { return *clock }))

	require.NoError(t, cache.Set(ctx, searchcache.Params{Query: "a"}, testResult()))
	require.NoError(t, cache.Set(ctx, searchcache.Params{Query: "b"}, testResult()))

	later := now.Add(searchcache.DefaultTTL + time.Minute)
	clock = &later

	deleted, err := cache.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Zero(t, store.Len())
}
