// Package translate memoizes headline translations behind an ordered chain
// of interchangeable provider backends.
package translate

import "context"

// Output is one provider translation, aligned by index with the request.
type Output struct {
	Translated string
	SourceLang string
}

// Provider is a translation backend. Translate must return exactly one
// Output per input text, in input order; anything else is treated as a
// contract violation and the chain moves on.
type Provider interface {
	Name() string
	IsConfigured() bool
	Translate(ctx context.Context, texts []string, targetLang string) ([]Output, error)
}

// Status is the terminal resolution path of one text.
type Status string

const (
	StatusCached     Status = "cached"
	StatusSkipped    Status = "skipped"
	StatusTranslated Status = "translated"
	StatusFailed     Status = "failed"
)

// Result is the per-text outcome. Translated is empty on failure so callers
// can fall back to the original.
type Result struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	SourceLang string `json:"sourceLang"`
	Provider   string `json:"provider"`
	Cached     bool   `json:"cached"`
	Status     Status `json:"status"`
}
