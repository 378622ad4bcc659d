package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryCache_LookupStore(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	err := c.Store(ctx, Entry{Key: "key1", TargetLang: "fr", TranslatedText: "Bonjour"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	entry, err := c.Lookup(ctx, "key1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry == nil || entry.TranslatedText != "Bonjour" {
		t.Errorf("Lookup returned %+v, want Bonjour", entry)
	}
	if entry.CreatedAt.IsZero() || entry.UpdatedAt.IsZero() {
		t.Error("Store should stamp timestamps")
	}

	// Test missing key
	entry, err = c.Lookup(ctx, "nonexistent")
	if err != nil || entry != nil {
		t.Errorf("Lookup of missing key = %+v, %v; want nil, nil", entry, err)
	}
}

func TestInMemoryCache_WriteOnce(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	c.now = func() time.Time { return t0 }
	_ = c.Store(ctx, Entry{Key: "k", TranslatedText: "first", ModelUsed: "m1"})

	c.now = func() time.Time { return t1 }
	_ = c.Store(ctx, Entry{Key: "k", TranslatedText: "second", ModelUsed: "m2", OriginalText: "hello"})

	entry, _ := c.Lookup(ctx, "k")
	if entry.TranslatedText != "first" || entry.ModelUsed != "m1" {
		t.Errorf("existing text was overwritten: %+v", entry)
	}
	if entry.OriginalText != "hello" {
		t.Errorf("empty field was not filled: %+v", entry)
	}
	if !entry.CreatedAt.Equal(t0) || !entry.UpdatedAt.Equal(t1) {
		t.Errorf("timestamps = %v/%v, want %v/%v", entry.CreatedAt, entry.UpdatedAt, t0, t1)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestInMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	_ = c.Store(ctx, Entry{Key: "key1", TranslatedText: "a"})
	_ = c.Store(ctx, Entry{Key: "key2", TranslatedText: "b"})

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	if entry, _ := c.Lookup(ctx, "key1"); entry != nil {
		t.Error("key1 should be cleared")
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			_ = c.Store(ctx, Entry{Key: key, TranslatedText: "value"})
			_, _ = c.Lookup(ctx, key)
		}(i)
	}

	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Len = %d, want 10", c.Len())
	}
}

func TestEntry_Merge(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	e := Entry{Key: "k", TranslatedText: "", CreatedAt: late, UpdatedAt: late}
	e.Merge(Entry{Key: "k", TranslatedText: "filled", SourceLang: "en", CreatedAt: early, UpdatedAt: early})

	if e.TranslatedText != "filled" || e.SourceLang != "en" {
		t.Errorf("Merge did not fill empty fields: %+v", e)
	}
	if !e.CreatedAt.Equal(early) {
		t.Errorf("CreatedAt = %v, want earliest %v", e.CreatedAt, early)
	}
	if !e.UpdatedAt.Equal(late) {
		t.Errorf("UpdatedAt = %v, want latest %v", e.UpdatedAt, late)
	}
}
