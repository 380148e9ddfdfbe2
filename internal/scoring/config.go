package scoring

import "strings"

// Tier is a trust bucket for a news source domain. Tier 1 earns the full
// source weight, tier 2 half of it. Untiered domains earn nothing.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
)

// maxTermLength caps keyword length in characters, matching the limit the
// config routes enforce on write.
const maxTermLength = 100

// PriorityKeyword boosts the score of articles mentioning Term. Weight is
// clamped to [1,5] wherever it is consumed.
type PriorityKeyword struct {
	Term   string `json:"term"`
	Weight int    `json:"weight"`
}

// Config is the canonical in-memory scoring configuration. Persistence
// adapters are responsible for (de)serializing their own storage shape into
// this type; nothing here knows about JSON columns.
type Config struct {
	PriorityKeywords []PriorityKeyword `json:"priorityKeywords"`
	ExcludeKeywords  []string          `json:"excludeKeywords"`
	SourceTiers      map[string]Tier   `json:"sourceTiers"`

	// The four weights need not sum to 100; they are normalized to a
	// 100-point scale at scoring time.
	WeightKeyword  float64 `json:"weightKeyword"`
	WeightPriority float64 `json:"weightPriority"`
	WeightSource   float64 `json:"weightSource"`
	WeightRecency  float64 `json:"weightRecency"`
}

var tier1Domains = []string{
	"nature.com",
	"science.org",
	"nejm.org",
	"thelancet.com",
	"reuters.com",
	"statnews.com",
	"bmj.com",
	"jamanetwork.com",
	"cell.com",
	"nih.gov",
	"who.int",
	"bbc.com",
	"apnews.com",
}

var tier2Domains = []string{
	"fiercepharma.com",
	"biopharmadive.com",
	"medcitynews.com",
	"evaluate.com",
	"endpoints.news",
	"healthcareitnews.com",
	"modernhealthcare.com",
	"beckershospitalreview.com",
	"mobihealthnews.com",
	"medscape.com",
	"healio.com",
}

// DefaultSourceTiers returns a fresh copy of the built-in domain tiers.
func DefaultSourceTiers() map[string]Tier {
	tiers := make(map[string]Tier, len(tier1Domains)+len(tier2Domains))
	for _, d := range tier1Domains {
		tiers[d] = Tier1
	}
	for _, d := range tier2Domains {
		tiers[d] = Tier2
	}
	return tiers
}

// DefaultConfig is the configuration a user gets before their first upsert.
func DefaultConfig() Config {
	return Config{
		PriorityKeywords: []PriorityKeyword{},
		ExcludeKeywords:  []string{},
		SourceTiers:      DefaultSourceTiers(),
		WeightKeyword:    40,
		WeightPriority:   20,
		WeightSource:     20,
		WeightRecency:    20,
	}
}

// MergeCategoryKeywords folds per-category keyword lists into a user-level
// config. Category priority terms override same-term global entries
// (case-insensitive); exclude keywords are a deduplicated union.
func MergeCategoryKeywords(cfg Config, catPriority []PriorityKeyword, catExclude []string) Config {
	merged := cfg

	if len(catPriority) > 0 {
		catTerms := make(map[string]bool, len(catPriority))
		for _, pk := range catPriority {
			catTerms[strings.ToLower(pk.Term)] = true
		}
		kws := make([]PriorityKeyword, 0, len(catPriority)+len(cfg.PriorityKeywords))
		kws = append(kws, catPriority...)
		for _, pk := range cfg.PriorityKeywords {
			if !catTerms[strings.ToLower(pk.Term)] {
				kws = append(kws, pk)
			}
		}
		merged.PriorityKeywords = kws
	}

	if len(catExclude) > 0 {
		seen := make(map[string]bool, len(cfg.ExcludeKeywords)+len(catExclude))
		var excludes []string
		for _, kw := range append(append([]string{}, cfg.ExcludeKeywords...), catExclude...) {
			key := strings.ToLower(kw)
			if kw == "" || seen[key] {
				continue
			}
			seen[key] = true
			excludes = append(excludes, kw)
		}
		merged.ExcludeKeywords = excludes
	}

	return merged
}

// Sanitize normalizes a user-submitted config before it is persisted:
// priority weights are clamped to [1,5], blank terms dropped, terms capped at
// 100 chars and tier domains lowercased. Weight fields are left as-is; the
// engine normalizes them at read time.
func Sanitize(cfg Config) Config {
	out := cfg

	out.PriorityKeywords = make([]PriorityKeyword, 0, len(cfg.PriorityKeywords))
	for _, pk := range cfg.PriorityKeywords {
		term := strings.TrimSpace(pk.Term)
		if term == "" {
			continue
		}
		term = truncateTerm(term)
		out.PriorityKeywords = append(out.PriorityKeywords, PriorityKeyword{
			Term:   term,
			Weight: clampWeight(pk.Weight),
		})
	}

	out.ExcludeKeywords = make([]string, 0, len(cfg.ExcludeKeywords))
	for _, kw := range cfg.ExcludeKeywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		kw = truncateTerm(kw)
		out.ExcludeKeywords = append(out.ExcludeKeywords, kw)
	}

	out.SourceTiers = make(map[string]Tier, len(cfg.SourceTiers))
	for domain, tier := range cfg.SourceTiers {
		if tier != Tier1 && tier != Tier2 {
			continue
		}
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		out.SourceTiers[domain] = tier
	}

	return out
}

// truncateTerm caps a keyword at 100 characters, not bytes, so multibyte
// terms are never cut mid-rune.
func truncateTerm(term string) string {
	r := []rune(term)
	if len(r) <= maxTermLength {
		return term
	}
	return string(r[:maxTermLength])
}

func clampWeight(w int) int {
	if w < 1 {
		return 1
	}
	if w > 5 {
		return 5
	}
	return w
}
