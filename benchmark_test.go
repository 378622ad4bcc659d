package relay_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ZaguanLabs/relay"
	"github.com/ZaguanLabs/relay/cache"
	"github.com/ZaguanLabs/relay/provider"
)

// Benchmarks for performance validation

func BenchmarkCacheKey(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		relay.CacheKey(text, "es_ES")
	}
}

func BenchmarkSplitChunks(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString("A paragraph of ordinary prose that needs translating.\n\n")
		if i%50 == 0 {
			sb.WriteString("```go\nfunc main() {}\n\n// more\n```\n\n")
		}
	}
	text := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		relay.SplitChunks(text, 4000)
	}
}

func BenchmarkModelSelector(b *testing.B) {
	s := relay.DefaultModelSelector()
	text := strings.Repeat("x", 50000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Select(text)
	}
}

func BenchmarkStripMarkdown(b *testing.B) {
	text := strings.Repeat("## Heading\n\n**Bold** text with `code` and *emphasis*.\n\n- item\n- item\n\n", 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		relay.StripMarkdown(text)
	}
}

func newBenchTranslator() *relay.Translator {
	registry := relay.NewRegistry(nil, []relay.Provider{{
		Name:        provider.OpenRouter,
		Credentials: []string{"k"},
		Caller:      provider.NewMockCaller("Hola mundo, esto es una prueba"),
	}})
	return relay.NewTranslator(relay.NewChunkEngine(registry), relay.WithCache(cache.NewInMemoryCache()))
}

func BenchmarkTranslator_Cached(b *testing.B) {
	tr := newBenchTranslator()
	ctx := context.Background()
	req := relay.Request{Text: "Hello world, this is a test", TargetLang: "es"}
	tr.Translate(ctx, req)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Translate(ctx, req)
	}
}

func BenchmarkTranslator_Uncached(b *testing.B) {
	registry := relay.NewRegistry(nil, []relay.Provider{{
		Name:        provider.OpenRouter,
		Credentials: []string{"k"},
		Caller:      provider.NewMockCaller("Hola mundo, esto es una prueba"),
	}})
	tr := relay.NewTranslator(relay.NewChunkEngine(registry))
	ctx := context.Background()
	req := relay.Request{Text: "Hello world, this is a test", TargetLang: "es"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Translate(ctx, req)
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	for i := 0; i < b.N; i++ {
		relay.GetLanguageName("ja_JP")
	}
}
