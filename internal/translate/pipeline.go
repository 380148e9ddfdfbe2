package translate

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultTargetLang is what headline translation targets when the
	// caller does not say otherwise.
	DefaultTargetLang = "ko"

	// MaxTexts and MaxTextLength are the batch caps enforced at the API
	// boundary; the pipeline additionally truncates over-long texts.
	MaxTexts      = 50
	MaxTextLength = 500
)

// Translator resolves each text through cache → provider chain, preserving
// input order across whatever mix of resolution paths the batch takes.
type Translator struct {
	providers []Provider
	cache     CacheStore
}

func NewTranslator(providers []Provider, cache CacheStore) *Translator {
	return &Translator{providers: providers, cache: cache}
}

// TranslateBatch translates texts into targetLang. The returned slice has
// exactly one Result per input, in input order. It never fails as a whole:
// chain exhaustion yields per-text StatusFailed with an empty translation.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, targetLang string) []Result {
	if targetLang == "" {
		targetLang = DefaultTargetLang
	}
	if len(texts) == 0 {
		return nil
	}

	texts = truncateAll(texts)

	cached, err := t.cache.Lookup(ctx, texts, targetLang)
	if err != nil {
		slog.Warn("translation cache lookup failed, translating everything", "error", err)
		cached = map[string]CachedTranslation{}
	}

	// Texts that are neither cached nor already in the target language,
	// with their original positions.
	type pendingItem struct {
		index int
		text  string
	}
	var pending []pendingItem
	for i, text := range texts {
		if _, hit := cached[text]; hit {
			continue
		}
		if !needsTranslation(text, targetLang) {
			continue
		}
		pending = append(pending, pendingItem{index: i, text: text})
	}

	providerName := ""
	var outputs []Output

	if len(pending) > 0 {
		pendingTexts := make([]string, len(pending))
		for i, p := range pending {
			pendingTexts[i] = p.text
		}

		for _, provider := range t.providers {
			if !provider.IsConfigured() {
				continue
			}
			got, err := provider.Translate(ctx, pendingTexts, targetLang)
			if err != nil {
				slog.Warn("translation provider failed, trying next",
					"provider", provider.Name(), "error", err)
				continue
			}
			if len(got) != len(pendingTexts) {
				// Misaligned output would corrupt the cache; reject it.
				slog.Error("translation provider returned misaligned batch",
					"provider", provider.Name(), "want", len(pendingTexts), "got", len(got))
				continue
			}
			providerName = provider.Name()
			outputs = got
			break
		}

		if providerName != "" {
			items := make([]CacheItem, len(pending))
			for i, p := range pending {
				items[i] = CacheItem{
					Original:   p.text,
					Translated: outputs[i].Translated,
					SourceLang: outputs[i].SourceLang,
					Provider:   providerName,
				}
			}
			writeCtx := context.WithoutCancel(ctx)
			go func() {
				if err := t.cache.Write(writeCtx, items, targetLang); err != nil {
					slog.Warn("translation cache write failed", "error", err)
				}
			}()
		}
	}

	// Re-interleave: walk the inputs and pick each text's resolution.
	results := make([]Result, len(texts))
	outputIdx := 0
	for i, text := range texts {
		if hit, ok := cached[text]; ok {
			results[i] = Result{
				Original:   text,
				Translated: hit.Translated,
				SourceLang: hit.SourceLang,
				Provider:   hit.Provider,
				Cached:     true,
				Status:     StatusCached,
			}
			continue
		}
		if !needsTranslation(text, targetLang) {
			results[i] = Result{
				Original:   text,
				Translated: text,
				SourceLang: targetLang,
				Provider:   "skip",
				Status:     StatusSkipped,
			}
			continue
		}
		if providerName != "" && outputIdx < len(outputs) {
			out := outputs[outputIdx]
			outputIdx++
			results[i] = Result{
				Original:   text,
				Translated: out.Translated,
				SourceLang: out.SourceLang,
				Provider:   providerName,
				Status:     StatusTranslated,
			}
			continue
		}
		results[i] = Result{
			Original:   text,
			SourceLang: "unknown",
			Provider:   "failed",
			Status:     StatusFailed,
		}
	}
	return results
}

// TranslateTitles is the convenience wrapper the search path uses: translated
// strings only, aligned with the input.
func (t *Translator) TranslateTitles(ctx context.Context, titles []string) []string {
	results := t.TranslateBatch(ctx, titles, DefaultTargetLang)
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Translated
	}
	return out
}

// needsTranslation reports whether text still has to go through a provider.
// Blank text is skipped, as is text already written in the target script.
// Only Korean has a script heuristic; other target languages always
// translate.
func needsTranslation(text, targetLang string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if targetLang == "ko" && containsHangul(text) {
		return false
	}
	return true
}

// containsHangul detects Hangul syllables and compatibility jamo.
func containsHangul(text string) bool {
	for _, r := range text {
		if (r >= 0xAC00 && r <= 0xD7AF) || (r >= 0x3131 && r <= 0x318E) {
			return true
		}
	}
	return false
}

func truncateAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		if len(t) > MaxTextLength {
			cut := MaxTextLength
			for cut > 0 && !utf8.RuneStart(t[cut]) {
				cut--
			}
			t = t[:cut]
		}
		out[i] = t
	}
	return out
}
