package domain

import "time"

// NewsItem is the normalized article shape used across caching, translation
// and scoring. Raw provider payloads are adapted into this before anything
// else sees them.
type NewsItem struct {
	Title          string     `json:"title"`
	TitleKo        string     `json:"titleKo,omitempty"`
	Snippet        string     `json:"snippet"`
	Link           string     `json:"link"`
	Source         string     `json:"source"`
	PublishedAt    *time.Time `json:"publishedAt"`
	Country        string     `json:"country,omitempty"`
	ThumbnailURL   string     `json:"thumbnailUrl,omitempty"`
	RelevanceScore float64    `json:"relevanceScore"`
}

// SearchResult is one page of raw (unscored) articles from the news provider.
type SearchResult struct {
	Items        []NewsItem `json:"items"`
	TotalResults int        `json:"totalResults"`
	StartIndex   int        `json:"startIndex"`
	HasNextPage  bool       `json:"hasNextPage"`
}
