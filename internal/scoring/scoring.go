// Package scoring ranks news articles against a user's keyword configuration.
//
// total = clamp(0, 100, keyword + priority + source + recency + penalty)
// where each component is a 0..1 ratio multiplied by its normalized weight.
// An article whose title matches no search term is gated down to at most 20.
package scoring

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sjlee-dev/newsdesk/internal/domain"
	"github.com/sjlee-dev/newsdesk/pkg/utils"
)

// Input is the per-article scoring input. SearchQuery is the boolean-OR
// expression the articles were fetched with, e.g. `"cell therapy" OR CRISPR`.
type Input struct {
	Title       string
	Snippet     string
	Source      string
	PublishedAt *time.Time
	SearchQuery string
}

// Breakdown exposes the weighted components before the title gate is applied.
// The gate only affects Score; rankings and previews can therefore diverge on
// title-less matches, which is intentional.
type Breakdown struct {
	Keyword  float64 `json:"keyword"`
	Priority float64 `json:"priority"`
	Source   float64 `json:"source"`
	Recency  float64 `json:"recency"`
	Penalty  float64 `json:"penalty"`
	Total    float64 `json:"total"`
}

const (
	excludePenalty = -30

	// Raw keyword points: title hit, word-boundary bonus, snippet hit.
	keywordTitlePoints    = 20
	keywordBoundaryPoints = 10
	keywordSnippetPoints  = 10
	keywordRawCap         = 40

	// Title gate: articles with no search term in the title keep at most
	// 30% of their raw total, capped at 20.
	gateFactor = 0.3
	gateCap    = 20
)

var orSplitRe = regexp.MustCompile(`(?i)\s+OR\s+`)

// ParseTerms splits a boolean-OR query into its matching vocabulary.
// Surrounding double quotes are stripped, empty tokens dropped.
func ParseTerms(searchQuery string) []string {
	var terms []string
	for _, tok := range orSplitRe.Split(searchQuery, -1) {
		tok = strings.TrimSpace(tok)
		tok = strings.TrimPrefix(tok, `"`)
		tok = strings.TrimSuffix(tok, `"`)
		if tok != "" {
			terms = append(terms, tok)
		}
	}
	return terms
}

// Score computes the 0..100 relevance of a single article. It is total:
// malformed dates, empty queries and out-of-range weights degrade to zero
// contributions instead of failing.
func Score(in Input, cfg Config) float64 {
	raw, terms := rawTotal(in, cfg)

	for _, t := range terms {
		if containsFold(in.Title, t) {
			return raw
		}
	}
	// No search term in the title: the article is at best incidentally
	// related, whatever snippet/source/recency say.
	gated := raw * gateFactor
	if gated > gateCap {
		gated = gateCap
	}
	return gated
}

// ScoreWithBreakdown returns the pre-gate component scores for UI
// explanation. See Breakdown for the gate asymmetry.
func ScoreWithBreakdown(in Input, cfg Config) Breakdown {
	wK, wP, wS, wR := normalizeWeights(cfg)
	terms := ParseTerms(in.SearchQuery)

	b := Breakdown{
		Keyword:  keywordRatio(in.Title, in.Snippet, terms) * wK,
		Priority: priorityRatio(in.Title, in.Snippet, cfg.PriorityKeywords) * wP,
		Source:   sourceRatio(in.Source, cfg.SourceTiers) * wS,
		Recency:  recencyRatio(in.PublishedAt) * wR,
	}
	if hasExcludeKeyword(in.Title, in.Snippet, cfg.ExcludeKeywords) {
		b.Penalty = excludePenalty
	}
	b.Total = clamp(b.Keyword+b.Priority+b.Source+b.Recency+b.Penalty, 0, 100)
	return b
}

// Apply scores a result set in place of each item's RelevanceScore, rescaled
// to the 0..10 UI range with one decimal.
func Apply(items []domain.NewsItem, query string, cfg Config) []domain.NewsItem {
	scored := make([]domain.NewsItem, len(items))
	for i, item := range items {
		item.RelevanceScore = utils.RoundDecimal(Score(Input{
			Title:       item.Title,
			Snippet:     item.Snippet,
			Source:      item.Source,
			PublishedAt: item.PublishedAt,
			SearchQuery: query,
		}, cfg)/10, 1)
		scored[i] = item
	}
	return scored
}

func rawTotal(in Input, cfg Config) (float64, []string) {
	wK, wP, wS, wR := normalizeWeights(cfg)
	terms := ParseTerms(in.SearchQuery)

	total := keywordRatio(in.Title, in.Snippet, terms)*wK +
		priorityRatio(in.Title, in.Snippet, cfg.PriorityKeywords)*wP +
		sourceRatio(in.Source, cfg.SourceTiers)*wS +
		recencyRatio(in.PublishedAt)*wR
	if hasExcludeKeyword(in.Title, in.Snippet, cfg.ExcludeKeywords) {
		total += excludePenalty
	}
	return clamp(total, 0, 100), terms
}

// normalizeWeights rescales the four weights so they sum to 100. A zero sum
// leaves the weights untouched.
func normalizeWeights(cfg Config) (wK, wP, wS, wR float64) {
	sum := cfg.WeightKeyword + cfg.WeightPriority + cfg.WeightSource + cfg.WeightRecency
	norm := 1.0
	if sum > 0 {
		norm = 100 / sum
	}
	return cfg.WeightKeyword * norm, cfg.WeightPriority * norm, cfg.WeightSource * norm, cfg.WeightRecency * norm
}

func keywordRatio(title, snippet string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	raw := 0
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		if containsFold(title, term) {
			raw += keywordTitlePoints
			if wordBoundaryMatch(title, term) {
				raw += keywordBoundaryPoints
			}
		}
		if containsFold(snippet, term) {
			raw += keywordSnippetPoints
		}
	}
	return minFloat(1, float64(raw)/keywordRawCap)
}

func priorityRatio(title, snippet string, keywords []PriorityKeyword) float64 {
	if len(keywords) == 0 {
		return 0
	}
	maxRaw := 0
	for _, pk := range keywords {
		maxRaw += clampWeight(pk.Weight) * 4
	}
	if maxRaw == 0 {
		return 0
	}
	raw := 0
	for _, pk := range keywords {
		w := clampWeight(pk.Weight)
		switch {
		case containsFold(title, pk.Term):
			raw += w * 4
		case containsFold(snippet, pk.Term):
			raw += w * 2
		}
	}
	return minFloat(1, float64(raw)/float64(maxRaw))
}

func hasExcludeKeyword(title, snippet string, excludes []string) bool {
	for _, kw := range excludes {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		if containsFold(title, kw) || containsFold(snippet, kw) {
			return true
		}
	}
	return false
}

// sourceRatio matches the article source against the tier map: exact and
// `.domain` suffix matches over every entry first, substring containment
// second, so containment can never shadow a more specific entry.
func sourceRatio(source string, tiers map[string]Tier) float64 {
	if len(tiers) == 0 {
		return 0
	}
	s := normalizeDomain(source)

	domains := make([]string, 0, len(tiers))
	for d := range tiers {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	for _, d := range domains {
		nd := normalizeDomain(d)
		if s == nd || strings.HasSuffix(s, "."+nd) {
			return tierRatio(tiers[d])
		}
	}
	for _, d := range domains {
		if strings.Contains(s, normalizeDomain(d)) {
			return tierRatio(tiers[d])
		}
	}
	return 0
}

func tierRatio(t Tier) float64 {
	if t == Tier1 {
		return 1.0
	}
	return 0.5
}

func normalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(d), "www.")
}

// recencyRatio is a step ladder over article age: 24h, 3d, 7d, 30d. Missing,
// unparsable or future timestamps contribute nothing.
func recencyRatio(publishedAt *time.Time) float64 {
	if publishedAt == nil {
		return 0
	}
	age := time.Since(*publishedAt)
	if age < 0 {
		return 0
	}
	hours := age.Hours()
	switch {
	case hours <= 24:
		return 1.0
	case hours <= 72:
		return 0.75
	case hours <= 168:
		return 0.5
	case hours <= 720:
		return 0.25
	default:
		return 0
	}
}

func containsFold(text, term string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

func wordBoundaryMatch(text, term string) bool {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
