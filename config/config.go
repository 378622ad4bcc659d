// Package config loads relay settings from the environment and an optional config file,
// and wires them into registries, translators and caches.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZaguanLabs/relay"
	"github.com/ZaguanLabs/relay/provider"
)

// ProviderNames lists the supported providers in their default fallback order.
var ProviderNames = []string{
	provider.Together,
	provider.Gemini,
	provider.Groq,
	provider.Claude,
	provider.OpenRouter,
	provider.HuggingFace,
}

// Cache backends.
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
	CacheSQLite   = "sqlite"
)

// Config holds every relay setting.
type Config struct {
	Providers     map[string]ProviderConfig
	ProviderOrder []string
	ProviderRPM   int

	Translation TranslationConfig
	Completion  CompletionConfig
	Cache       CacheConfig
	HTTP        HTTPConfig
}

// ProviderConfig holds one provider's credentials and endpoint.
type ProviderConfig struct {
	Name      string
	Keys      []string // Never logged
	Model     string
	BaseURL   string
	MaxTokens int
}

// TranslationConfig configures the document translation path.
type TranslationConfig struct {
	Provider              string
	Models                []string
	MaxRetries            int
	ChunkMaxChars         int
	Concurrency           int
	LibreTranslateURL     string
	LibreTranslateAPIKey  string
	GoogleTranslateAPIKey string
}

// CompletionConfig configures the single-call path.
type CompletionConfig struct {
	MinChars        int
	MaxOutputTokens int
	PlainText       bool
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend     string
	RedisURL    string
	KeyPrefix   string
	DatabaseURL string
	SQLitePath  string
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string
	RequestTimeout time.Duration
}

// Option customizes the Loader behaviour.
type Option func(*Loader)

// Loader loads configuration with optional overrides.
type Loader struct {
	v          *viper.Viper
	defaults   map[string]interface{}
	configFile string
}

// NewLoader creates a new loader with the relay defaults.
func NewLoader(opts ...Option) *Loader {
	defaults := map[string]interface{}{
		"PROVIDER_ORDER":           strings.Join(ProviderNames, ","),
		"PROVIDER_RPM":             0,
		"TRANSLATION_PROVIDER":     relay.DefaultTranslationProvider,
		"TRANSLATION_MODELS":       "",
		"MODEL_MAX_RETRIES":        relay.DefaultRetryConfig().MaxRetries,
		"CHUNK_MAX_CHARS":          relay.DefaultChunkChars,
		"TRANSLATE_CONCURRENCY":    1,
		"LIBRETRANSLATE_URL":       provider.LibreTranslateURL,
		"LIBRETRANSLATE_API_KEY":   "",
		"GOOGLE_TRANSLATE_API_KEY": "",
		"MIN_COMPLETION_CHARS":     relay.DefaultMinCompletionChars,
		"MAX_OUTPUT_TOKENS":        relay.DefaultMaxOutputTokens,
		"AI_PLAIN_TEXT":            false,
		"CACHE_BACKEND":            CacheMemory,
		"REDIS_URL":                "redis://localhost:6379/0",
		"CACHE_KEY_PREFIX":         "relay:",
		"DATABASE_URL":             "",
		"SQLITE_PATH":              "relay.db",
		"HTTP_ADDR":                ":8080",
		"REQUEST_TIMEOUT":          "120s",
	}
	for _, name := range ProviderNames {
		up := strings.ToUpper(name)
		defaults[up+"_API_KEY"] = ""
		defaults[up+"_MODEL"] = provider.DefaultModels[name]
		defaults[up+"_BASE_URL"] = ""
		defaults["MAX_TOKENS_"+up] = provider.DefaultMaxTokens[name]
	}

	l := &Loader{
		v:        viper.New(),
		defaults: defaults,
	}

	l.v.AutomaticEnv()

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithDefaults overrides or adds default values before loading configuration.
func WithDefaults(overrides map[string]interface{}) Option {
	return func(l *Loader) {
		for k, v := range overrides {
			l.defaults[k] = v
		}
	}
}

// WithConfigFile reads settings from a yaml, json or toml file. Environment variables win.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.configFile = path
	}
}

// Viper returns the underlying viper instance.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads configuration values. Missing credentials are not an error; they only narrow the
// fallback chain.
func (l *Loader) Load() (*Config, error) {
	for k, v := range l.defaults {
		l.v.SetDefault(k, v)
	}

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", l.configFile, err)
		}
	}

	timeout, err := time.ParseDuration(l.v.GetString("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Providers:     make(map[string]ProviderConfig, len(ProviderNames)),
		ProviderOrder: SplitList(l.v.GetString("PROVIDER_ORDER")),
		ProviderRPM:   l.v.GetInt("PROVIDER_RPM"),
		Translation: TranslationConfig{
			Provider:              strings.ToLower(l.v.GetString("TRANSLATION_PROVIDER")),
			Models:                SplitList(l.v.GetString("TRANSLATION_MODELS")),
			MaxRetries:            l.v.GetInt("MODEL_MAX_RETRIES"),
			ChunkMaxChars:         l.v.GetInt("CHUNK_MAX_CHARS"),
			Concurrency:           l.v.GetInt("TRANSLATE_CONCURRENCY"),
			LibreTranslateURL:     l.v.GetString("LIBRETRANSLATE_URL"),
			LibreTranslateAPIKey:  l.v.GetString("LIBRETRANSLATE_API_KEY"),
			GoogleTranslateAPIKey: l.v.GetString("GOOGLE_TRANSLATE_API_KEY"),
		},
		Completion: CompletionConfig{
			MinChars:        l.v.GetInt("MIN_COMPLETION_CHARS"),
			MaxOutputTokens: l.v.GetInt("MAX_OUTPUT_TOKENS"),
			PlainText:       l.v.GetBool("AI_PLAIN_TEXT"),
		},
		Cache: CacheConfig{
			Backend:     strings.ToLower(l.v.GetString("CACHE_BACKEND")),
			RedisURL:    l.v.GetString("REDIS_URL"),
			KeyPrefix:   l.v.GetString("CACHE_KEY_PREFIX"),
			DatabaseURL: l.v.GetString("DATABASE_URL"),
			SQLitePath:  l.v.GetString("SQLITE_PATH"),
		},
		HTTP: HTTPConfig{
			Addr:           l.v.GetString("HTTP_ADDR"),
			RequestTimeout: timeout,
		},
	}

	for _, name := range ProviderNames {
		up := strings.ToUpper(name)
		cfg.Providers[name] = ProviderConfig{
			Name:      name,
			Keys:      SplitList(l.v.GetString(up + "_API_KEY")),
			Model:     l.v.GetString(up + "_MODEL"),
			BaseURL:   l.v.GetString(up + "_BASE_URL"),
			MaxTokens: l.v.GetInt("MAX_TOKENS_" + up),
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a shorthand for NewLoader(opts...).Load().
func Load(opts ...Option) (*Config, error) {
	return NewLoader(opts...).Load()
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validate(cfg *Config) error {
	switch cfg.Cache.Backend {
	case CacheMemory, CacheRedis, CacheSQLite:
	case CachePostgres:
		if cfg.Cache.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for CACHE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND: %s", cfg.Cache.Backend)
	}
	if cfg.Translation.ChunkMaxChars <= 0 {
		return fmt.Errorf("CHUNK_MAX_CHARS must be positive")
	}
	if cfg.Translation.Concurrency <= 0 {
		return fmt.Errorf("TRANSLATE_CONCURRENCY must be positive")
	}
	for _, name := range cfg.ProviderOrder {
		if _, ok := cfg.Providers[strings.ToLower(name)]; !ok {
			return fmt.Errorf("PROVIDER_ORDER: unknown provider %q", name)
		}
	}
	return nil
}
