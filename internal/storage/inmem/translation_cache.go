package inmem

import (
	"context"
	"sync"

	"github.com/sjlee-dev/newsdesk/internal/translate"
)

type TranslationCacheStore struct {
	mu      sync.RWMutex
	entries map[string]translate.CachedTranslation
}

func NewTranslationCacheStore() *TranslationCacheStore {
	return &TranslationCacheStore{entries: make(map[string]translate.CachedTranslation)}
}

func (s *TranslationCacheStore) Lookup(ctx context.Context, texts []string, targetLang string) (map[string]translate.CachedTranslation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]translate.CachedTranslation)
	for _, text := range texts {
		if cached, ok := s.entries[translate.BuildHash(text, targetLang)]; ok {
			found[text] = cached
		}
	}
	return found, nil
}

func (s *TranslationCacheStore) Write(ctx context.Context, items []translate.CacheItem, targetLang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.entries[translate.BuildHash(item.Original, targetLang)] = translate.CachedTranslation{
			Translated: item.Translated,
			SourceLang: item.SourceLang,
			Provider:   item.Provider,
		}
	}
	return nil
}

// Len reports the number of cached translations. Test helper.
func (s *TranslationCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
