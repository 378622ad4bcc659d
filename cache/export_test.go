package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

type opaqueStore struct{}

func (opaqueStore) Lookup(context.Context, string) (*Entry, error) { return nil, nil }
func (opaqueStore) Store(context.Context, Entry) error             { return nil }

func TestExporter_Export(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()
	_ = c.Store(ctx, Entry{Key: "key1", TargetLang: "fr", TranslatedText: "un"})
	_ = c.Store(ctx, Entry{Key: "key2", TargetLang: "fr", TranslatedText: "deux"})

	exporter := NewExporter(c)
	var buf bytes.Buffer

	n, err := exporter.Export(ctx, &buf, map[string]string{"source": "test"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 exported, got %d", n)
	}

	// Parse the output
	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}

	if len(export.Entries) != 2 || export.Entries[0].Key != "key1" {
		t.Errorf("Unexpected entries: %+v", export.Entries)
	}

	if export.Metadata["source"] != "test" {
		t.Errorf("Expected metadata source=test, got %v", export.Metadata)
	}
}

func TestExporter_Unsupported(t *testing.T) {
	_, err := NewExporter(opaqueStore{}).Export(context.Background(), &bytes.Buffer{}, nil)
	if !errors.Is(err, ErrNotSupported) {
		t.Errorf("Expected ErrNotSupported, got %v", err)
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "2.0",
		"exported_at": "2024-01-01T00:00:00Z",
		"entries": [
			{"key": "key1", "target_lang": "fr", "translated_text": "un", "model_used": "m1"},
			{"key": "key2", "target_lang": "fr", "translated_text": "deux", "model_used": "m1"},
			{"key": "key3", "target_lang": "fr", "translated_text": ""}
		]
	}`

	ctx := context.Background()
	c := NewInMemoryCache()
	importer := NewImporter(c)

	result, err := importer.Import(ctx, strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}

	if result.Failed != 1 {
		t.Errorf("Expected 1 failed, got %d", result.Failed)
	}

	// Verify entries are in cache
	if e, _ := c.Lookup(ctx, "key1"); e == nil || e.TranslatedText != "un" {
		t.Errorf("key1 not found or wrong value: %+v", e)
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	_, err := NewImporter(NewInMemoryCache()).Import(context.Background(), strings.NewReader("{"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestExportImport_RoundTripFile(t *testing.T) {
	ctx := context.Background()
	src := NewInMemoryCache()
	_ = src.Store(ctx, Entry{Key: "a", OriginalText: "Hello", TargetLang: "fr", TranslatedText: "Bonjour", ModelUsed: "m1"})

	path := filepath.Join(t.TempDir(), "cache.json")
	if _, err := NewExporter(src).ExportToFile(ctx, path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := NewInMemoryCache()
	result, err := NewImporter(dst).ImportFromFile(ctx, path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Expected 1 imported, got %d", result.Imported)
	}

	got, _ := dst.Lookup(ctx, "a")
	want, _ := src.Lookup(ctx, "a")
	if got == nil || got.TranslatedText != want.TranslatedText || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
