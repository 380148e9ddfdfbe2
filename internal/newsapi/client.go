// Package newsapi fetches raw articles from newsapi.org and adapts them into
// the domain shape. Quota, auth and transient upstream failures surface as
// distinct apperr types so the API layer can choose its messaging.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/apperr"
	"github.com/sjlee-dev/newsdesk/internal/domain"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2/everything"

	defaultTimeout = 15 * time.Second
	maxPageSize    = 100
)

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type apiArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

type apiResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

// Search fetches one page of raw articles. Relevance scores are left at
// zero: scoring is per-user and applied at read time.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	if c.apiKey == "" {
		return nil, apperr.NewAuth("news provider API key is not configured", "missingKey")
	}

	country := params.Country
	if country == "" {
		country = domain.DefaultCountry
	}
	countryCfg, ok := domain.CountryConfigs[country]
	if !ok {
		countryCfg = domain.CountryConfigs[domain.DefaultCountry]
	}

	dateRange := params.DateRange
	if dateRange == "" {
		dateRange = domain.DefaultDateRange
	}

	start := params.Start
	if start < 1 {
		start = domain.DefaultStart
	}
	pageSize := params.Num
	if pageSize < 1 {
		pageSize = maxPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := (start + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("language", countryCfg.Language)
	q.Set("from", dateRangeToFrom(dateRange))
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))
	// Title/description only: keeps body-only keyword hits out of the
	// result set before scoring ever sees them.
	q.Set("searchIn", "title,description")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.NewUpstreamWrap("news provider unreachable", err)
	}
	defer resp.Body.Close()

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperr.NewUpstreamWrap("malformed news provider response", err)
	}

	if data.Status != "ok" {
		return nil, classifyAPIError(resp.StatusCode, data.Code, data.Message)
	}

	items := make([]domain.NewsItem, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Title == "" || a.Title == "[Removed]" || a.URL == "" {
			continue
		}
		items = append(items, toNewsItem(a, country))
	}

	totalResults := data.TotalResults
	if totalResults > maxPageSize {
		totalResults = maxPageSize
	}

	return &domain.SearchResult{
		Items:        items,
		TotalResults: totalResults,
		StartIndex:   start,
		HasNextPage:  page*pageSize < totalResults,
	}, nil
}

func toNewsItem(a apiArticle, country string) domain.NewsItem {
	snippet := ""
	if a.Description != nil && *a.Description != "" {
		snippet = *a.Description
	} else if a.Content != nil {
		snippet = *a.Content
	}
	snippet = strings.TrimSpace(strings.ReplaceAll(snippet, "\n", " "))

	source := a.Source.Name
	if source == "" {
		if u, err := url.Parse(a.URL); err == nil {
			source = strings.TrimPrefix(u.Hostname(), "www.")
		}
	}

	var publishedAt *time.Time
	if a.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			publishedAt = &t
		} else {
			slog.Debug("unparsable publishedAt, dropping timestamp", "value", a.PublishedAt)
		}
	}

	thumbnail := ""
	if a.URLToImage != nil {
		thumbnail = *a.URLToImage
	}

	return domain.NewsItem{
		Title:        a.Title,
		Snippet:      snippet,
		Link:         a.URL,
		Source:       source,
		PublishedAt:  publishedAt,
		Country:      country,
		ThumbnailURL: thumbnail,
	}
}

func classifyAPIError(httpStatus int, code, message string) error {
	if message == "" {
		message = "news provider error"
	}
	switch {
	case code == "rateLimited" || httpStatus == http.StatusTooManyRequests:
		return apperr.NewQuota("news provider daily quota exceeded", code)
	case code == "apiKeyInvalid" || code == "apiKeyDisabled" || httpStatus == http.StatusUnauthorized:
		return apperr.NewAuth("news provider rejected the API key", code)
	default:
		return apperr.NewUpstream(fmt.Sprintf("news provider error: %s", message), code)
	}
}

// dateRangeToFrom converts a date-range token into the provider's
// YYYY-MM-DD lower bound. Unknown tokens fall back to 30 days.
func dateRangeToFrom(dateRange string) string {
	days := map[string]int{
		"d1": 1, "d3": 3, "d7": 7, "w1": 7,
		"m1": 30, "m3": 90, "m6": 180, "y1": 365,
	}
	d, ok := days[dateRange]
	if !ok {
		d = 30
	}
	return time.Now().AddDate(0, 0, -d).Format("2006-01-02")
}
