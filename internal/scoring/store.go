package scoring

import "context"

// Store is the persistence boundary for per-user scoring configuration and
// the category keyword lists that get merged into it. Implementations own
// whatever serialized shape they store; the engine only sees Config.
type Store interface {
	// GetConfig returns the user's config, or (nil, nil) before first upsert.
	GetConfig(ctx context.Context, userID string) (*Config, error)
	// UpsertConfig creates or replaces the user's one config row.
	UpsertConfig(ctx context.Context, userID string, cfg Config) error
	// CategoryKeywords returns the priority/exclude keyword lists of the
	// user's selected categories, already flattened.
	CategoryKeywords(ctx context.Context, userID string, categoryIDs []string) ([]PriorityKeyword, []string, error)
}
