package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sjlee-dev/newsdesk/internal/scoring"
)

// ScoringConfigStore persists one scoring configuration row per user. The
// keyword lists and tier map live in serialized text columns; this adapter
// owns that shape so scoring.Config stays the only in-memory representation.
type ScoringConfigStore struct {
	db *pgxpool.Pool
}

func NewScoringConfigStore(pool *ConnectionPool) *ScoringConfigStore {
	return &ScoringConfigStore{db: pool.conn}
}

func (s *ScoringConfigStore) GetConfig(ctx context.Context, userID string) (*scoring.Config, error) {
	query := `
		SELECT priority_keywords, exclude_keywords, source_tiers,
		       weight_keyword, weight_priority, weight_source, weight_recency
		FROM scoring_config
		WHERE user_id = $1
	`

	var priorityJSON, excludeJSON, tiersJSON string
	var cfg scoring.Config
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&priorityJSON,
		&excludeJSON,
		&tiersJSON,
		&cfg.WeightKeyword,
		&cfg.WeightPriority,
		&cfg.WeightSource,
		&cfg.WeightRecency,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring config: %w", err)
	}

	cfg.PriorityKeywords = parsePriorityKeywords(priorityJSON)
	cfg.ExcludeKeywords = parseExcludeKeywords(excludeJSON)
	cfg.SourceTiers = parseSourceTiers(tiersJSON)
	return &cfg, nil
}

func (s *ScoringConfigStore) UpsertConfig(ctx context.Context, userID string, cfg scoring.Config) error {
	priorityJSON, err := json.Marshal(cfg.PriorityKeywords)
	if err != nil {
		return fmt.Errorf("failed to marshal priority keywords: %w", err)
	}
	excludeJSON, err := json.Marshal(cfg.ExcludeKeywords)
	if err != nil {
		return fmt.Errorf("failed to marshal exclude keywords: %w", err)
	}
	tiersJSON, err := json.Marshal(cfg.SourceTiers)
	if err != nil {
		return fmt.Errorf("failed to marshal source tiers: %w", err)
	}

	cmd := `
		INSERT INTO scoring_config
			(user_id, priority_keywords, exclude_keywords, source_tiers,
			 weight_keyword, weight_priority, weight_source, weight_recency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			priority_keywords = EXCLUDED.priority_keywords,
			exclude_keywords = EXCLUDED.exclude_keywords,
			source_tiers = EXCLUDED.source_tiers,
			weight_keyword = EXCLUDED.weight_keyword,
			weight_priority = EXCLUDED.weight_priority,
			weight_source = EXCLUDED.weight_source,
			weight_recency = EXCLUDED.weight_recency
	`
	_, err = s.db.Exec(ctx, cmd, userID,
		string(priorityJSON), string(excludeJSON), string(tiersJSON),
		cfg.WeightKeyword, cfg.WeightPriority, cfg.WeightSource, cfg.WeightRecency,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert scoring config: %w", err)
	}
	return nil
}

func (s *ScoringConfigStore) CategoryKeywords(ctx context.Context, userID string, categoryIDs []string) ([]scoring.PriorityKeyword, []string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT priority_keywords, exclude_keywords
		FROM categories
		WHERE user_id = $1 AND id = ANY($2)
	`, userID, categoryIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query category keywords: %w", err)
	}
	defer rows.Close()

	var priority []scoring.PriorityKeyword
	var exclude []string
	for rows.Next() {
		var priorityJSON, excludeJSON string
		if err := rows.Scan(&priorityJSON, &excludeJSON); err != nil {
			return nil, nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		priority = append(priority, parsePriorityKeywords(priorityJSON)...)
		exclude = append(exclude, parseExcludeKeywords(excludeJSON)...)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return priority, exclude, nil
}

// The stored lists may predate validation; malformed JSON degrades to empty
// rather than failing the search path.

func parsePriorityKeywords(raw string) []scoring.PriorityKeyword {
	if raw == "" {
		return []scoring.PriorityKeyword{}
	}
	var kws []scoring.PriorityKeyword
	if err := json.Unmarshal([]byte(raw), &kws); err != nil {
		slog.Warn("malformed priority keywords column, ignoring", "error", err)
		return []scoring.PriorityKeyword{}
	}
	return kws
}

func parseExcludeKeywords(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var kws []string
	if err := json.Unmarshal([]byte(raw), &kws); err != nil {
		slog.Warn("malformed exclude keywords column, ignoring", "error", err)
		return []string{}
	}
	return kws
}

func parseSourceTiers(raw string) map[string]scoring.Tier {
	if raw == "" {
		return scoring.DefaultSourceTiers()
	}
	var tiers map[string]scoring.Tier
	if err := json.Unmarshal([]byte(raw), &tiers); err != nil {
		slog.Warn("malformed source tiers column, using defaults", "error", err)
		return scoring.DefaultSourceTiers()
	}
	if len(tiers) == 0 {
		return scoring.DefaultSourceTiers()
	}
	return tiers
}
