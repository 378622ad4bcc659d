package config

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ZaguanLabs/relay"
	"github.com/ZaguanLabs/relay/cache"
	"github.com/ZaguanLabs/relay/provider"
)

// Services bundles the wired components.
type Services struct {
	Registry   *relay.Registry
	Completer  *relay.Completer
	Translator *relay.Translator
	Cache      cache.Store

	closers []func() error
}

// Close releases the cache backend.
func (s *Services) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build wires every component from cfg.
func Build(ctx context.Context, cfg *Config, logger *zap.Logger) (*Services, error) {
	store, closer, err := OpenCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	registry := BuildRegistry(cfg, logger)

	engineOpts := []relay.EngineOption{
		relay.WithTranslationProvider(cfg.Translation.Provider),
		relay.WithFallbackTranslators(BuildTranslators(cfg.Translation)...),
		relay.WithEngineLogger(logger),
	}
	if cfg.Translation.MaxRetries > 0 {
		retry := relay.DefaultRetryConfig()
		retry.MaxRetries = cfg.Translation.MaxRetries
		engineOpts = append(engineOpts, relay.WithModelRetry(retry))
	}
	engine := relay.NewChunkEngine(registry, engineOpts...)

	selector := relay.DefaultModelSelector()
	if len(cfg.Translation.Models) > 0 {
		selector = relay.NewModelSelector(cfg.Translation.Models, relay.DefaultThresholds)
	}

	translator := relay.NewTranslator(engine,
		relay.WithCache(store),
		relay.WithLogger(logger),
		relay.WithChunkSize(cfg.Translation.ChunkMaxChars),
		relay.WithConcurrency(cfg.Translation.Concurrency),
		relay.WithModelSelector(selector),
	)

	completer := relay.NewCompleter(registry,
		relay.WithCompleterLogger(logger),
		relay.WithMinCompletionChars(cfg.Completion.MinChars),
		relay.WithMaxOutputTokens(cfg.Completion.MaxOutputTokens),
		relay.WithPlainText(cfg.Completion.PlainText),
	)

	s := &Services{
		Registry:   registry,
		Completer:  completer,
		Translator: translator,
		Cache:      store,
	}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
	return s, nil
}

// BuildRegistry creates one provider per supported API. Providers without keys are registered
// but never called.
func BuildRegistry(cfg *Config, logger *zap.Logger) *relay.Registry {
	providers := make([]relay.Provider, 0, len(ProviderNames))
	aliases := make(map[string]string)

	for _, name := range ProviderNames {
		pc := cfg.Providers[name]

		var caller relay.Caller = NewCaller(pc)
		if cfg.ProviderRPM > 0 {
			caller = relay.NewRateLimitedCaller(caller, relay.RateLimitConfig{RequestsPerMinute: cfg.ProviderRPM})
		}

		providers = append(providers, relay.Provider{
			Name:        name,
			Credentials: pc.Keys,
			Model:       pc.Model,
			MaxTokens:   pc.MaxTokens,
			Caller:      caller,
		})

		if pc.Model != "" {
			aliases[pc.Model] = name
		}
		if def := provider.DefaultModels[name]; def != "" {
			aliases[def] = name
		}

		if len(pc.Keys) == 0 {
			logger.Warn("provider has no credentials", zap.String("provider", name))
		} else {
			logger.Info("provider configured",
				zap.String("provider", name),
				zap.Int("credentials", len(pc.Keys)),
				zap.String("model", pc.Model),
				zap.Int("max_tokens", pc.MaxTokens),
			)
		}
	}

	return relay.NewRegistry(cfg.ProviderOrder, providers, relay.WithAliases(aliases))
}

// NewCaller creates the caller for one provider.
func NewCaller(pc ProviderConfig) relay.Caller {
	switch pc.Name {
	case provider.Gemini:
		return provider.NewGeminiCaller(provider.GeminiConfig{BaseURL: pc.BaseURL, Model: pc.Model})
	case provider.Claude:
		return provider.NewClaudeCaller(provider.ClaudeConfig{BaseURL: pc.BaseURL, Model: pc.Model})
	case provider.HuggingFace:
		return provider.NewHuggingFaceCaller(provider.HuggingFaceConfig{BaseURL: pc.BaseURL, Model: pc.Model})
	default:
		base := pc.BaseURL
		if base == "" {
			base = openAIBaseURLs[pc.Name]
		}
		return provider.NewOpenAICaller(provider.OpenAIConfig{Name: pc.Name, BaseURL: base, Model: pc.Model})
	}
}

var openAIBaseURLs = map[string]string{
	provider.Groq:       provider.GroqBaseURL,
	provider.Together:   provider.TogetherBaseURL,
	provider.OpenRouter: provider.OpenRouterBaseURL,
}

// BuildTranslators returns the fallback translators in order. Google Translate is only
// included when a key is configured.
func BuildTranslators(tc TranslationConfig) []relay.TextTranslator {
	translators := []relay.TextTranslator{
		provider.NewLibreTranslate(provider.LibreTranslateConfig{URL: tc.LibreTranslateURL, APIKey: tc.LibreTranslateAPIKey}),
	}
	if tc.GoogleTranslateAPIKey != "" {
		translators = append(translators, provider.NewGoogleTranslate(provider.GoogleTranslateConfig{APIKey: tc.GoogleTranslateAPIKey}))
	}
	return translators
}

// OpenCache opens the configured cache backend. The returned closer may be nil.
func OpenCache(ctx context.Context, cc CacheConfig) (cache.Store, func() error, error) {
	switch strings.ToLower(cc.Backend) {
	case "", CacheMemory:
		return cache.NewInMemoryCache(), nil, nil
	case CacheRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cc.RedisURL, KeyPrefix: cc.KeyPrefix})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case CachePostgres:
		c, err := cache.OpenSQLCache(ctx, cache.DialectPostgres, cc.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case CacheSQLite:
		c, err := cache.OpenSQLCache(ctx, cache.DialectSQLite, cc.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend: %s", cc.Backend)
	}
}
