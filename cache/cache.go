// Package cache provides content-addressed storage for finished translations.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotSupported is returned by operations a backend cannot perform.
var ErrNotSupported = errors.New("operation not supported by cache backend")

// Entry is one cached translation. Text fields are written once; later stores only fill in
// what is still empty and refresh UpdatedAt.
type Entry struct {
	Key            string    `json:"key"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	ModelUsed      string    `json:"model_used"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Merge folds incoming into e. Non-empty fields of e win; timestamps keep the earliest
// creation and the latest update.
func (e *Entry) Merge(incoming Entry) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&e.Key, incoming.Key)
	fill(&e.SourceLang, incoming.SourceLang)
	fill(&e.TargetLang, incoming.TargetLang)
	fill(&e.OriginalText, incoming.OriginalText)
	fill(&e.TranslatedText, incoming.TranslatedText)
	fill(&e.ModelUsed, incoming.ModelUsed)

	if e.CreatedAt.IsZero() || (!incoming.CreatedAt.IsZero() && incoming.CreatedAt.Before(e.CreatedAt)) {
		e.CreatedAt = incoming.CreatedAt
	}
	if incoming.UpdatedAt.After(e.UpdatedAt) {
		e.UpdatedAt = incoming.UpdatedAt
	}
}

// Store is the interface for translation caching.
type Store interface {
	// Lookup returns the entry for key, or nil and no error when absent.
	Lookup(ctx context.Context, key string) (*Entry, error)

	// Store writes entry, merging with any existing entry under the same key.
	Store(ctx context.Context, entry Entry) error
}

// Lister is implemented by stores that can enumerate their entries for export.
type Lister interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// stamp fills in missing timestamps before a write.
func stamp(entry Entry, now time.Time) Entry {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
	return entry
}
