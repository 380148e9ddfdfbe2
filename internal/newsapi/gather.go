package newsapi

import (
	"context"
	"log/slog"

	"github.com/sjlee-dev/newsdesk/internal/domain"
)

type countryResult struct {
	country string
	result  *domain.SearchResult
	err     error
}

// SearchCountries fans the same query out to several countries in parallel
// and gathers with partial success: successes are merged in the order the
// countries were requested, and an error is returned only when every fetch
// failed (the first requested country's error wins).
func (c *Client) SearchCountries(ctx context.Context, params domain.SearchParams, countries []string) (*domain.SearchResult, error) {
	if len(countries) == 0 {
		return c.Search(ctx, params)
	}
	if len(countries) == 1 {
		p := params
		p.Country = countries[0]
		return c.Search(ctx, p)
	}

	results := make(chan countryResult, len(countries))
	for _, country := range countries {
		go func(country string) {
			p := params
			p.Country = country
			res, err := c.Search(ctx, p)
			results <- countryResult{country: country, result: res, err: err}
		}(country)
	}

	byCountry := make(map[string]countryResult, len(countries))
	for range countries {
		r := <-results
		byCountry[r.country] = r
	}

	merged := &domain.SearchResult{StartIndex: params.Start}
	if merged.StartIndex < 1 {
		merged.StartIndex = domain.DefaultStart
	}

	var firstErr error
	successes := 0
	for _, country := range countries {
		r := byCountry[country]
		if r.err != nil {
			slog.Warn("country search failed", "country", country, "error", r.err)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		successes++
		merged.Items = append(merged.Items, r.result.Items...)
		merged.TotalResults += r.result.TotalResults
		merged.HasNextPage = merged.HasNextPage || r.result.HasNextPage
	}

	if successes == 0 {
		return nil, firstErr
	}
	return merged, nil
}
