package inmem

import (
	"context"
	"sync"

	"github.com/sjlee-dev/newsdesk/internal/scoring"
)

// CategoryKeywordLists is the seedable category fixture shape.
type CategoryKeywordLists struct {
	UserID   string
	Priority []scoring.PriorityKeyword
	Exclude  []string
}

type ScoringConfigStore struct {
	mu         sync.RWMutex
	configs    map[string]scoring.Config
	categories map[string]CategoryKeywordLists
}

func NewScoringConfigStore() *ScoringConfigStore {
	return &ScoringConfigStore{
		configs:    make(map[string]scoring.Config),
		categories: make(map[string]CategoryKeywordLists),
	}
}

func (s *ScoringConfigStore) GetConfig(ctx context.Context, userID string) (*scoring.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[userID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (s *ScoringConfigStore) UpsertConfig(ctx context.Context, userID string, cfg scoring.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configs[userID] = cfg
	return nil
}

func (s *ScoringConfigStore) CategoryKeywords(ctx context.Context, userID string, categoryIDs []string) ([]scoring.PriorityKeyword, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var priority []scoring.PriorityKeyword
	var exclude []string
	for _, id := range categoryIDs {
		cat, ok := s.categories[id]
		if !ok || cat.UserID != userID {
			continue
		}
		priority = append(priority, cat.Priority...)
		exclude = append(exclude, cat.Exclude...)
	}
	return priority, exclude, nil
}

// SeedCategory registers a category keyword list. Test helper.
func (s *ScoringConfigStore) SeedCategory(id string, lists CategoryKeywordLists) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = lists
}
