package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZaguanLabs/relay"
)

// GoogleTranslateURL is the Cloud Translation v2 endpoint.
const GoogleTranslateURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleTranslate is a fallback translator backed by Google Cloud Translation v2.
type GoogleTranslate struct {
	url    string
	apiKey string
	http   *resty.Client
}

// GoogleTranslateConfig holds configuration for Google Translate.
type GoogleTranslateConfig struct {
	URL     string        // Endpoint (default: GoogleTranslateURL)
	APIKey  string        // API key; calls fail without one
	Timeout time.Duration // Per-call timeout (default: DefaultTimeout)
}

// NewGoogleTranslate creates a new Google Translate client.
func NewGoogleTranslate(cfg GoogleTranslateConfig) *GoogleTranslate {
	return &GoogleTranslate{
		url:    pick(cfg.URL, GoogleTranslateURL),
		apiKey: cfg.APIKey,
		http:   newRestyClient(cfg.Timeout),
	}
}

// Name implements relay.TextTranslator.
func (g *GoogleTranslate) Name() string { return "google-translate" }

// Translate implements relay.TextTranslator. The source language is detected by the service.
func (g *GoogleTranslate) Translate(ctx context.Context, text, _, targetLang string) (string, error) {
	if g.apiKey == "" {
		return "", missingCredential(g.Name(), "")
	}

	var out struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	r := g.http.R().SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(map[string]string{"q": text, "target": targetLang, "format": "text"}).
		SetResult(&out)
	if _, err := execute(g.Name(), "", r, http.MethodPost, g.url); err != nil {
		return "", err
	}

	texts := make([]string, 0, len(out.Data.Translations))
	for _, t := range out.Data.Translations {
		texts = append(texts, t.TranslatedText)
	}
	return strings.Join(texts, "\n\n"), nil
}

var _ relay.TextTranslator = (*GoogleTranslate)(nil)
