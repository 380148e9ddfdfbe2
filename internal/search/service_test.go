package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/apperr"
	"github.com/sjlee-dev/newsdesk/internal/newsapi"
	"github.com/sjlee-dev/newsdesk/internal/scoring"
	"github.com/sjlee-dev/newsdesk/internal/searchcache"
	"github.com/sjlee-dev/newsdesk/internal/storage/inmem"
	"github.com/sjlee-dev/newsdesk/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProvider struct{}

func (echoProvider) Name() string       { return "echo" }
func (echoProvider) IsConfigured() bool { return true }
func (echoProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]translate.Output, error) {
	out := make([]translate.Output, len(texts))
	for i, t := range texts {
		out[i] = translate.Output{Translated: "ko:" + t, SourceLang: "en"}
	}
	return out, nil
}

type testEnv struct {
	svc        *Service
	cacheStore *inmem.SearchCacheStore
	scoreStore *inmem.ScoringConfigStore
	upstream   *atomic.Int64
}

// newTestEnv wires a full service against a fake news upstream that returns
// one recent article containing the query term in its title.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query().Get("q")
		article := fmt.Sprintf(`{
			"source":{"name":"Reuters"},
			"title":"Breaking: %s approved",
			"description":"Story about %s.",
			"url":"https://example.com/a",
			"publishedAt":%q
		}`, q, q, time.Now().UTC().Format(time.RFC3339))
		fmt.Fprintf(w, `{"status":"ok","totalResults":1,"articles":[%s]}`, article)
	}))
	t.Cleanup(srv.Close)

	cacheStore := inmem.NewSearchCacheStore()
	scoreStore := inmem.NewScoringConfigStore()

	svc := NewService(
		newsapi.NewClient(newsapi.ClientConfig{APIKey: "k", BaseURL: srv.URL}),
		searchcache.New(cacheStore),
		translate.NewTranslator([]translate.Provider{echoProvider{}}, inmem.NewTranslationCacheStore()),
		scoreStore,
	)

	return &testEnv{svc: svc, cacheStore: cacheStore, scoreStore: scoreStore, upstream: &calls}
}

func TestSearch_MissFetchesScoresAndCaches(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Search(context.Background(), Request{Query: "biosimilar"})
	require.NoError(t, err)

	assert.False(t, resp.Cached)
	require.Len(t, resp.Items, 1)
	assert.Greater(t, resp.Items[0].RelevanceScore, 0.0)
	assert.Equal(t, "ko:Breaking: biosimilar approved", resp.Items[0].TitleKo)

	// The raw page is written to the cache off the request path.
	assert.Eventually(t, func() bool { return env.cacheStore.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestSearch_SecondCallHitsCache(t *testing.T) {
	env := newTestEnv(t)
	req := Request{Query: "biosimilar"}

	_, err := env.svc.Search(context.Background(), req)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return env.cacheStore.Len() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := env.svc.Search(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Cached)
	assert.Equal(t, int64(1), env.upstream.Load(), "cache hit must not touch the upstream")
	require.Len(t, resp.Items, 1)
	assert.Greater(t, resp.Items[0].RelevanceScore, 0.0, "cached raw items are rescored on read")
}

func TestSearch_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty query", Request{}},
		{"query too long", Request{Query: strings.Repeat("q", 501)}},
		{"bad country", Request{Query: "x", Country: "zz"}},
		{"bad date range", Request{Query: "x", DateRange: "h1"}},
		{"start too large", Request{Query: "x", Start: 92}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Search(context.Background(), tt.req)

			var vErr *apperr.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Zero(t, env.upstream.Load())
		})
	}
}

func TestSearch_MultiCountry(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Search(context.Background(), Request{Query: "crispr", Country: "us, kr"})
	require.NoError(t, err)

	assert.Len(t, resp.Items, 2)
	assert.Equal(t, int64(2), env.upstream.Load())
}

func TestSearch_CategoryKeywordsAffectScore(t *testing.T) {
	env := newTestEnv(t)
	env.scoreStore.SeedCategory("cat-1", inmem.CategoryKeywordLists{
		UserID:   "u1",
		Priority: []scoring.PriorityKeyword{{Term: "approved", Weight: 5}},
	})

	plain, err := env.svc.Search(context.Background(), Request{UserID: "u1", Query: "biosimilar"})
	require.NoError(t, err)

	boosted, err := env.svc.Search(context.Background(), Request{
		UserID: "u1", Query: "biosimilar", CategoryIDs: []string{"cat-1"},
	})
	require.NoError(t, err)

	assert.Greater(t, boosted.Items[0].RelevanceScore, plain.Items[0].RelevanceScore)
}

func TestSearch_UserConfigPersistsAcrossSearches(t *testing.T) {
	env := newTestEnv(t)

	cfg := scoring.DefaultConfig()
	cfg.ExcludeKeywords = []string{"approved"}
	require.NoError(t, env.scoreStore.UpsertConfig(context.Background(), "u1", cfg))

	withPenalty, err := env.svc.Search(context.Background(), Request{UserID: "u1", Query: "biosimilar"})
	require.NoError(t, err)

	defaultCfg, err := env.svc.Search(context.Background(), Request{UserID: "other", Query: "biosimilar"})
	require.NoError(t, err)

	assert.Less(t, withPenalty.Items[0].RelevanceScore, defaultCfg.Items[0].RelevanceScore)
}

func TestSearch_ItemsSortedByScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)
		fmt.Fprintf(w, `{"status":"ok","totalResults":2,"articles":[
			{"source":{"name":"Blog"},"title":"Weekly roundup","description":"mentions biosimilar","url":"https://example.com/1","publishedAt":%q},
			{"source":{"name":"Reuters"},"title":"biosimilar approved","description":"biosimilar","url":"https://example.com/2","publishedAt":%q}
		]}`, now, now)
	}))
	defer srv.Close()

	svc := NewService(
		newsapi.NewClient(newsapi.ClientConfig{APIKey: "k", BaseURL: srv.URL}),
		searchcache.New(inmem.NewSearchCacheStore()),
		nil,
		inmem.NewScoringConfigStore(),
	)

	resp, err := svc.Search(context.Background(), Request{Query: "biosimilar"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "biosimilar approved", resp.Items[0].Title)
	assert.GreaterOrEqual(t, resp.Items[0].RelevanceScore, resp.Items[1].RelevanceScore)
}

func TestSearch_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"quota"}`))
	}))
	defer srv.Close()

	svc := NewService(
		newsapi.NewClient(newsapi.ClientConfig{APIKey: "k", BaseURL: srv.URL}),
		searchcache.New(inmem.NewSearchCacheStore()),
		nil,
		inmem.NewScoringConfigStore(),
	)

	_, err := svc.Search(context.Background(), Request{Query: "x"})

	var quotaErr *apperr.QuotaError
	require.ErrorAs(t, err, &quotaErr)
}
