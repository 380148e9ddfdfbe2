package scoring

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.InDelta(t, 100.0, cfg.WeightKeyword+cfg.WeightPriority+cfg.WeightSource+cfg.WeightRecency, 0.001)
	assert.Empty(t, cfg.PriorityKeywords)
	assert.Empty(t, cfg.ExcludeKeywords)
	assert.Equal(t, Tier1, cfg.SourceTiers["reuters.com"])
	assert.Equal(t, Tier2, cfg.SourceTiers["fiercepharma.com"])
}

func TestDefaultSourceTiers_ReturnsFreshCopy(t *testing.T) {
	a := DefaultSourceTiers()
	a["reuters.com"] = Tier2

	b := DefaultSourceTiers()
	assert.Equal(t, Tier1, b["reuters.com"])
}

func TestMergeCategoryKeywords_CategoryTermWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PriorityKeywords = []PriorityKeyword{
		{Term: "FDA", Weight: 2},
		{Term: "approval", Weight: 3},
	}

	merged := MergeCategoryKeywords(cfg,
		[]PriorityKeyword{{Term: "fda", Weight: 5}},
		nil,
	)

	require.Len(t, merged.PriorityKeywords, 2)
	assert.Equal(t, PriorityKeyword{Term: "fda", Weight: 5}, merged.PriorityKeywords[0])
	assert.Equal(t, PriorityKeyword{Term: "approval", Weight: 3}, merged.PriorityKeywords[1])
}

func TestMergeCategoryKeywords_ExcludesUnion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludeKeywords = []string{"rumor", "opinion"}

	merged := MergeCategoryKeywords(cfg, nil, []string{"Opinion", "sponsored"})

	assert.Equal(t, []string{"rumor", "opinion", "sponsored"}, merged.ExcludeKeywords)
}

func TestMergeCategoryKeywords_EmptyListsKeepConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PriorityKeywords = []PriorityKeyword{{Term: "FDA", Weight: 2}}
	cfg.ExcludeKeywords = []string{"rumor"}

	merged := MergeCategoryKeywords(cfg, nil, nil)

	assert.Equal(t, cfg.PriorityKeywords, merged.PriorityKeywords)
	assert.Equal(t, cfg.ExcludeKeywords, merged.ExcludeKeywords)
}

func TestSanitize(t *testing.T) {
	cfg := Config{
		PriorityKeywords: []PriorityKeyword{
			{Term: "  FDA  ", Weight: 99},
			{Term: "", Weight: 3},
			{Term: strings.Repeat("x", 150), Weight: 0},
		},
		ExcludeKeywords: []string{" rumor ", "", strings.Repeat("y", 150)},
		SourceTiers: map[string]Tier{
			"Reuters.com":  Tier1,
			" nature.com ": Tier2,
			"badtier.com":  Tier(7),
			"":             Tier1,
		},
		WeightKeyword: 40,
	}

	got := Sanitize(cfg)

	require.Len(t, got.PriorityKeywords, 2)
	assert.Equal(t, PriorityKeyword{Term: "FDA", Weight: 5}, got.PriorityKeywords[0])
	assert.Equal(t, 1, got.PriorityKeywords[1].Weight)
	assert.Len(t, got.PriorityKeywords[1].Term, 100)

	require.Len(t, got.ExcludeKeywords, 2)
	assert.Equal(t, "rumor", got.ExcludeKeywords[0])
	assert.Len(t, got.ExcludeKeywords[1], 100)

	assert.Equal(t, map[string]Tier{
		"reuters.com": Tier1,
		"nature.com":  Tier2,
	}, got.SourceTiers)

	// Weight fields pass through untouched.
	assert.Equal(t, 40.0, got.WeightKeyword)
}

func TestSanitize_TruncatesByRunesNotBytes(t *testing.T) {
	short := strings.Repeat("한", 40)
	long := strings.Repeat("약", 150)

	got := Sanitize(Config{
		PriorityKeywords: []PriorityKeyword{
			{Term: short, Weight: 2},
			{Term: long, Weight: 2},
		},
		ExcludeKeywords: []string{long},
	})

	require.Len(t, got.PriorityKeywords, 2)
	// A 40-char Korean term is 120 bytes; it must survive intact.
	assert.Equal(t, short, got.PriorityKeywords[0].Term)

	assert.Equal(t, 100, utf8.RuneCountInString(got.PriorityKeywords[1].Term))
	assert.True(t, utf8.ValidString(got.PriorityKeywords[1].Term))

	require.Len(t, got.ExcludeKeywords, 1)
	assert.Equal(t, 100, utf8.RuneCountInString(got.ExcludeKeywords[0]))
	assert.True(t, utf8.ValidString(got.ExcludeKeywords[0]))
}
