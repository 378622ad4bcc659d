package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportVersion is the format version written by Exporter.
const ExportVersion = "2.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []Entry           `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Exporter provides cache export functionality.
type Exporter struct {
	store Store
}

// NewExporter creates a new cache exporter.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// Export writes the cache contents to a writer in JSON format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, metadata map[string]string) (int, error) {
	lister, ok := e.store.(Lister)
	if !ok {
		return 0, fmt.Errorf("cache type %T: %w", e.store, ErrNotSupported)
	}

	entries, err := lister.Entries(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting cache entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return 0, fmt.Errorf("encoding JSON: %w", err)
	}

	return len(entries), nil
}

// ExportToFile exports the cache to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(ctx context.Context, path string, metadata map[string]string) (int, error) {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(ctx, f, metadata)
}

// Importer provides cache import functionality.
type Importer struct {
	store Store
}

// NewImporter creates a new cache importer.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// Import reads cache entries from a reader and loads them into the cache. Entries without a
// key or translated text are counted as failed.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if entry.Key == "" || entry.TranslatedText == "" {
			result.Failed++
			continue
		}
		if err := i.store.Store(ctx, entry); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
