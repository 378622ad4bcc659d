package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZaguanLabs/relay"
)

// LibreTranslateURL is the public LibreTranslate instance.
const LibreTranslateURL = "https://libretranslate.com"

// LibreTranslate is a fallback translator backed by a LibreTranslate server.
type LibreTranslate struct {
	baseURL string
	apiKey  string
	http    *resty.Client
}

// LibreTranslateConfig holds configuration for LibreTranslate.
type LibreTranslateConfig struct {
	URL     string        // Server URL (default: LibreTranslateURL)
	APIKey  string        // Optional API key
	Timeout time.Duration // Per-call timeout (default: DefaultTimeout)
}

// NewLibreTranslate creates a new LibreTranslate client.
func NewLibreTranslate(cfg LibreTranslateConfig) *LibreTranslate {
	return &LibreTranslate{
		baseURL: trimBase(pick(cfg.URL, LibreTranslateURL)),
		apiKey:  cfg.APIKey,
		http:    newRestyClient(cfg.Timeout),
	}
}

// Name implements relay.TextTranslator.
func (l *LibreTranslate) Name() string { return "libretranslate" }

// Translate implements relay.TextTranslator.
func (l *LibreTranslate) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == "" {
		sourceLang = relay.SourceAuto
	}

	body := map[string]string{
		"q":      text,
		"source": sourceLang,
		"target": targetLang,
		"format": "text",
	}
	if l.apiKey != "" {
		body["api_key"] = l.apiKey
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	r := l.http.R().SetContext(ctx).SetBody(body).SetResult(&out)
	if _, err := execute(l.Name(), "", r, http.MethodPost, l.baseURL+"/translate"); err != nil {
		return "", err
	}
	return out.TranslatedText, nil
}

var _ relay.TextTranslator = (*LibreTranslate)(nil)
