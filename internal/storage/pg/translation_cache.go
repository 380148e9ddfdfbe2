package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sjlee-dev/newsdesk/internal/translate"
)

// TranslationCacheStore memoizes provider translations. Rows never expire.
type TranslationCacheStore struct {
	db *pgxpool.Pool
}

func NewTranslationCacheStore(pool *ConnectionPool) *TranslationCacheStore {
	return &TranslationCacheStore{db: pool.conn}
}

func (s *TranslationCacheStore) Lookup(ctx context.Context, texts []string, targetLang string) (map[string]translate.CachedTranslation, error) {
	if len(texts) == 0 {
		return map[string]translate.CachedTranslation{}, nil
	}

	hashes := make([]string, len(texts))
	for i, t := range texts {
		hashes[i] = translate.BuildHash(t, targetLang)
	}

	rows, err := s.db.Query(ctx, `
		SELECT source_text, translated, source_lang, provider
		FROM translation_cache
		WHERE text_hash = ANY($1)
	`, hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to query translation cache: %w", err)
	}
	defer rows.Close()

	found := make(map[string]translate.CachedTranslation)
	for rows.Next() {
		var sourceText string
		var cached translate.CachedTranslation
		if err := rows.Scan(&sourceText, &cached.Translated, &cached.SourceLang, &cached.Provider); err != nil {
			return nil, fmt.Errorf("failed to scan translation cache row: %w", err)
		}
		found[sourceText] = cached
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate translation cache rows: %w", err)
	}

	return found, nil
}

func (s *TranslationCacheStore) Write(ctx context.Context, items []translate.CacheItem, targetLang string) error {
	if len(items) == 0 {
		return nil
	}

	cmd := `
		INSERT INTO translation_cache
			(id, text_hash, source_text, translated, source_lang, target_lang, provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (text_hash) DO UPDATE SET
			translated = EXCLUDED.translated,
			provider = EXCLUDED.provider
	`
	for _, item := range items {
		_, err := s.db.Exec(ctx, cmd,
			uuid.New(),
			translate.BuildHash(item.Original, targetLang),
			item.Original,
			item.Translated,
			item.SourceLang,
			targetLang,
			item.Provider,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert translation for %q: %w", item.Original, err)
		}
	}
	return nil
}
