// Package search orchestrates the full request path: validate, consult the
// cache, fetch and translate on a miss, then score against the caller's
// merged configuration. Cached entries hold raw items, so scoring always
// runs, hit or miss.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/apperr"
	"github.com/sjlee-dev/newsdesk/internal/domain"
	"github.com/sjlee-dev/newsdesk/internal/newsapi"
	"github.com/sjlee-dev/newsdesk/internal/scoring"
	"github.com/sjlee-dev/newsdesk/internal/searchcache"
	"github.com/sjlee-dev/newsdesk/internal/translate"
)

// Request is one tenant-scoped search.
type Request struct {
	UserID      string
	Query       string
	Country     string
	Language    string
	DateRange   string
	Start       int
	CategoryIDs []string
}

// Response is the scored page plus cache observability fields.
type Response struct {
	Items        []domain.NewsItem `json:"items"`
	TotalResults int               `json:"totalResults"`
	StartIndex   int               `json:"startIndex"`
	HasNextPage  bool              `json:"hasNextPage"`
	Cached       bool              `json:"cached"`
	CacheAge     time.Duration     `json:"-"`
}

type Service struct {
	client      *newsapi.Client
	cache       *searchcache.Cache
	translator  *translate.Translator
	configStore scoring.Store
}

func NewService(client *newsapi.Client, cache *searchcache.Cache, translator *translate.Translator, configStore scoring.Store) *Service {
	return &Service{
		client:      client,
		cache:       cache,
		translator:  translator,
		configStore: configStore,
	}
}

// Search runs the full pipeline for one request. Translation and cache
// failures degrade; only validation and upstream fetch errors surface.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	req = applyDefaults(req)
	countries, err := validate(req)
	if err != nil {
		return nil, err
	}

	cfg, err := s.loadConfig(ctx, req)
	if err != nil {
		return nil, err
	}

	params := searchcache.Params{
		Query:     req.Query,
		Country:   req.Country,
		Language:  req.Language,
		DateRange: req.DateRange,
		Start:     req.Start,
	}

	if cached, ok := s.cache.Get(ctx, params); ok {
		items := scoring.Apply(cached.Items, req.Query, cfg)
		sortByScore(items)
		return &Response{
			Items:        items,
			TotalResults: cached.TotalResults,
			StartIndex:   cached.StartIndex,
			HasNextPage:  cached.HasNextPage,
			Cached:       true,
			CacheAge:     cached.Age,
		}, nil
	}

	result, err := s.client.SearchCountries(ctx, domain.SearchParams{
		Query:     req.Query,
		Language:  req.Language,
		DateRange: req.DateRange,
		Start:     req.Start,
	}, countries)
	if err != nil {
		return nil, err
	}

	s.translateTitles(ctx, result.Items)

	go func(items []domain.NewsItem) {
		bg := context.WithoutCancel(ctx)
		if err := s.cache.Set(bg, params, domain.SearchResult{
			Items:        items,
			TotalResults: result.TotalResults,
			StartIndex:   result.StartIndex,
		}); err != nil {
			slog.Warn("search cache write failed", "query", req.Query, "error", err)
		}
	}(result.Items)

	items := scoring.Apply(result.Items, req.Query, cfg)
	sortByScore(items)

	return &Response{
		Items:        items,
		TotalResults: result.TotalResults,
		StartIndex:   result.StartIndex,
		HasNextPage:  result.HasNextPage,
		Cached:       false,
	}, nil
}

// loadConfig resolves the tenant's scoring config, falling back to defaults
// before first save, then merges the selected categories' keyword lists in.
func (s *Service) loadConfig(ctx context.Context, req Request) (scoring.Config, error) {
	cfg, err := s.configStore.GetConfig(ctx, req.UserID)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("failed to load scoring config: %w", err)
	}
	if cfg == nil {
		def := scoring.DefaultConfig()
		cfg = &def
	}
	if len(req.CategoryIDs) == 0 {
		return *cfg, nil
	}

	catPriority, catExclude, err := s.configStore.CategoryKeywords(ctx, req.UserID, req.CategoryIDs)
	if err != nil {
		slog.Warn("failed to load category keywords, scoring without them", "user_id", req.UserID, "error", err)
		return *cfg, nil
	}
	return scoring.MergeCategoryKeywords(*cfg, catPriority, catExclude), nil
}

// translateTitles fills TitleKo best-effort. A dead translation layer must
// never fail a search, so errors are already absorbed by the pipeline and
// the original title stands in for anything unresolved.
func (s *Service) translateTitles(ctx context.Context, items []domain.NewsItem) {
	if s.translator == nil || len(items) == 0 {
		return
	}
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	translated := s.translator.TranslateTitles(ctx, titles)
	for i := range items {
		if i < len(translated) && translated[i] != "" {
			items[i].TitleKo = translated[i]
		}
	}
}

func applyDefaults(req Request) Request {
	req.Query = strings.TrimSpace(req.Query)
	if req.Country == "" {
		req.Country = domain.DefaultCountry
	}
	if req.DateRange == "" {
		req.DateRange = domain.DefaultDateRange
	}
	if req.Start == 0 {
		req.Start = domain.DefaultStart
	}
	return req
}

// validate checks the request and splits the country field, which may hold a
// comma-separated list for a multi-country gather.
func validate(req Request) ([]string, error) {
	if req.Query == "" {
		return nil, apperr.NewValidation("query must not be empty")
	}
	if len(req.Query) > domain.MaxQueryLength {
		return nil, apperr.NewValidation(fmt.Sprintf("query must be at most %d characters", domain.MaxQueryLength))
	}
	if !domain.IsSupportedDateRange(req.DateRange) {
		return nil, apperr.NewValidation(fmt.Sprintf("unsupported date range: %s", req.DateRange))
	}
	if req.Start < domain.DefaultStart || req.Start > domain.MaxStart {
		return nil, apperr.NewValidation(fmt.Sprintf("start must be between %d and %d", domain.DefaultStart, domain.MaxStart))
	}

	var countries []string
	for _, c := range strings.Split(req.Country, ",") {
		c = strings.TrimSpace(strings.ToLower(c))
		if c == "" {
			continue
		}
		if !domain.IsSupportedCountry(c) {
			return nil, apperr.NewValidation(fmt.Sprintf("unsupported country: %s", c))
		}
		countries = append(countries, c)
	}
	if len(countries) == 0 {
		return nil, apperr.NewValidation("country must not be empty")
	}
	return countries, nil
}

// sortByScore orders items best-first. The sort is stable so upstream
// relevance order survives ties.
func sortByScore(items []domain.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
}
