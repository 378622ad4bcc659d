package relay

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ZaguanLabs/relay/cache"
)

const defaultStoreTimeout = 5 * time.Second

// Translator is the main translation engine. It short-circuits no-op requests, serves cached
// documents, and otherwise chunks the text, runs every chunk through the ChunkEngine and
// caches the aggregated result.
type Translator struct {
	engine       *ChunkEngine
	selector     *ModelSelector
	cache        cache.Store
	logger       *zap.Logger
	chunkSize    int
	concurrency  int
	storeTimeout time.Duration
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(store cache.Store) TranslatorOption {
	return func(t *Translator) {
		t.cache = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.chunkSize = n
		}
	}
}

// WithConcurrency sets how many chunks are translated at once.
func WithConcurrency(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithModelSelector sets the selector that picks model candidates by input size.
func WithModelSelector(s *ModelSelector) TranslatorOption {
	return func(t *Translator) {
		if s != nil {
			t.selector = s
		}
	}
}

// WithStoreTimeout bounds the cache write that follows a translation.
func WithStoreTimeout(d time.Duration) TranslatorOption {
	return func(t *Translator) {
		if d > 0 {
			t.storeTimeout = d
		}
	}
}

// NewTranslator creates a new Translator around the given chunk engine.
func NewTranslator(engine *ChunkEngine, opts ...TranslatorOption) *Translator {
	t := &Translator{
		engine:       engine,
		selector:     DefaultModelSelector(),
		logger:       zap.NewNop(),
		chunkSize:    DefaultChunkChars,
		concurrency:  1,
		storeTimeout: defaultStoreTimeout,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates req.Text into req.TargetLang. It always returns text for a valid
// request: chunks no model or translator could handle pass through unchanged and the result is
// marked Degraded. Errors are limited to validation and context cancellation.
func (t *Translator) Translate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Field: "text", Message: "is required"}
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return nil, &ValidationError{Field: "targetLang", Message: "is required"}
	}
	if req.SourceLang == "" {
		req.SourceLang = SourceAuto
	}
	if req.ContextType == "" {
		req.ContextType = ContextGeneral
	}

	if SameLanguage(req.SourceLang, req.TargetLang) {
		return &Result{TranslatedText: req.Text, ModelUsed: ModelNone}, nil
	}

	key := CacheKey(req.Text, req.TargetLang)
	if hit := t.lookup(ctx, key); hit != nil {
		return hit, nil
	}

	chunks := SplitChunks(req.Text, t.chunkSize)
	candidates := t.selector.Select(req.Text)

	t.logger.Info("translating",
		zap.String("target_lang", req.TargetLang),
		zap.String("source_lang", req.SourceLang),
		zap.Int("chars", len(req.Text)),
		zap.Int("chunks", len(chunks)),
		zap.String("first_model", firstOrEmpty(candidates)),
	)

	results, err := t.translateChunks(ctx, chunks, req, candidates)
	if err != nil {
		return nil, err
	}

	result := Aggregate(results)
	if req.ContextType == ContextHTML {
		result.TranslatedText = SetHTMLLang(result.TranslatedText, req.TargetLang, t.logger)
	}

	if result.Degraded {
		t.logger.Warn("translation degraded, not caching",
			zap.String("target_lang", req.TargetLang),
			zap.String("model_used", result.ModelUsed),
		)
		return &result, nil
	}

	t.store(ctx, cache.Entry{
		Key:            key,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		OriginalText:   req.Text,
		TranslatedText: result.TranslatedText,
		ModelUsed:      result.ModelUsed,
	})

	return &result, nil
}

// lookup returns a cached result, treating backend errors as misses.
func (t *Translator) lookup(ctx context.Context, key string) *Result {
	if t.cache == nil {
		return nil
	}

	entry, err := t.cache.Lookup(ctx, key)
	if err != nil {
		t.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if entry == nil || entry.TranslatedText == "" {
		return nil
	}

	modelUsed := entry.ModelUsed
	if modelUsed == "" {
		modelUsed = ModelNone
	}
	return &Result{TranslatedText: entry.TranslatedText, Cached: true, ModelUsed: modelUsed}
}

// store writes the entry on a context that outlives the request. Failures are logged only.
func (t *Translator) store(ctx context.Context, entry cache.Entry) {
	if t.cache == nil {
		return
	}

	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.storeTimeout)
	defer cancel()

	if err := t.cache.Store(storeCtx, entry); err != nil {
		t.logger.Error("cache store failed", zap.String("key", entry.Key), zap.Error(err))
	}
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
