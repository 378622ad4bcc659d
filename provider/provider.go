// Package provider implements relay.Caller for the supported model APIs and
// relay.TextTranslator for generic translation services.
package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZaguanLabs/relay"
)

// Provider names.
const (
	Gemini      = "gemini"
	Groq        = "groq"
	Claude      = "claude"
	OpenRouter  = "openrouter"
	HuggingFace = "huggingface"
	Together    = "together"
)

// Default endpoints.
const (
	GroqBaseURL        = "https://api.groq.com/openai/v1"
	TogetherBaseURL    = "https://api.together.xyz/v1"
	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	GeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	ClaudeBaseURL      = "https://api.anthropic.com"
	HuggingFaceBaseURL = "https://api-inference.huggingface.co"
)

// DefaultModels holds each provider's default model.
var DefaultModels = map[string]string{
	Gemini:      "gemini-2.5-flash",
	Groq:        "llama-3.1-8b-instant",
	Claude:      "claude-3-5-sonnet-20241022",
	OpenRouter:  "deepseek/deepseek-r1-0528-qwen3-8b:free",
	HuggingFace: "microsoft/DialoGPT-medium",
	Together:    "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
}

// DefaultMaxTokens holds each provider's output token ceiling.
var DefaultMaxTokens = map[string]int{
	Together:    8193,
	Gemini:      8192,
	Groq:        16384,
	Claude:      9000,
	OpenRouter:  32768,
	HuggingFace: 8192,
}

// DefaultTimeout bounds a single outbound call.
const DefaultTimeout = 60 * time.Second

const defaultTemperature = 0.3

func newRestyClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", relay.UserAgent())
}

// execute sends r and converts failures into typed provider errors.
func execute(name, model string, r *resty.Request, method, url string) (*resty.Response, error) {
	resp, err := r.Execute(method, url)
	if err != nil {
		if relay.IsNetworkError(err) {
			return nil, relay.NewNetworkError(name, model, err)
		}
		return nil, &relay.ProviderError{
			Provider: name,
			Model:    model,
			Kind:     relay.KindAPI,
			Message:  "request failed",
			Cause:    err,
		}
	}
	if resp.IsError() {
		return nil, relay.NewAPIError(name, model, resp.StatusCode(), resp.String())
	}
	return resp, nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func trimBase(url string) string {
	return strings.TrimRight(url, "/")
}

// errMissingCredential is returned by callers invoked without a credential.
var errMissingCredential = errors.New("missing credential")

func missingCredential(name, model string) error {
	return &relay.ProviderError{
		Provider: name,
		Model:    model,
		Kind:     relay.KindAPI,
		Message:  fmt.Sprintf("%s: no credential", name),
		Cause:    errMissingCredential,
	}
}
