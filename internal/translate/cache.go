package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// CachedTranslation is a prior successful translation of some source text.
type CachedTranslation struct {
	Translated string
	SourceLang string
	Provider   string
}

// CacheItem is one translation to persist after a provider success.
type CacheItem struct {
	Original   string
	Translated string
	SourceLang string
	Provider   string
}

// CacheStore is the content-addressed memoization backend. Entries never
// expire: a translation of static text stays valid.
type CacheStore interface {
	// Lookup returns the cached translations found for texts, keyed by the
	// original source text. Missing texts are simply absent.
	Lookup(ctx context.Context, texts []string, targetLang string) (map[string]CachedTranslation, error)
	// Write upserts successful translations. Failures are the caller's to
	// log; the translation has already been returned.
	Write(ctx context.Context, items []CacheItem, targetLang string) error
}

// BuildHash is the cache key: SHA-1 of "trimmedText:targetLang".
func BuildHash(text, targetLang string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(text) + ":" + targetLang))
	return hex.EncodeToString(sum[:])
}
