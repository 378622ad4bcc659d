package provider

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/relay"
)

// OpenAICaller calls any OpenAI-compatible chat completions API (Groq, Together, OpenRouter).
// One client is kept per credential.
type OpenAICaller struct {
	name        string
	baseURL     string
	model       string
	temperature float32
	httpClient  *http.Client

	mu      sync.Mutex
	clients map[string]*openai.Client
}

// OpenAIConfig holds configuration for an OpenAI-compatible caller.
type OpenAIConfig struct {
	Name        string       // Provider name used in errors (default: "openai")
	BaseURL     string       // API base URL (default: OpenAI)
	Model       string       // Default model when the request names none
	Temperature float32      // Temperature for generation (default: 0.3)
	HTTPClient  *http.Client // Custom HTTP client (default: DefaultTimeout)
}

// NewOpenAICaller creates a new OpenAI-compatible caller.
func NewOpenAICaller(cfg OpenAIConfig) *OpenAICaller {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &OpenAICaller{
		name:        pick(cfg.Name, "openai"),
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: temperature,
		httpClient:  httpClient,
		clients:     make(map[string]*openai.Client),
	}
}

func (c *OpenAICaller) client(credential string) *openai.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[credential]; ok {
		return cl
	}

	config := openai.DefaultConfig(credential)
	if c.baseURL != "" {
		config.BaseURL = c.baseURL
	}
	config.HTTPClient = c.httpClient

	cl := openai.NewClientWithConfig(config)
	c.clients[credential] = cl
	return cl
}

// Call implements relay.Caller.
func (c *OpenAICaller) Call(ctx context.Context, req relay.CallRequest) (string, error) {
	model := pick(req.Model, c.model)
	if req.Credential == "" {
		return "", missingCredential(c.name, model)
	}

	resp, err := c.client(req.Credential).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", c.classify(model, err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps go-openai errors onto relay error kinds.
func (c *OpenAICaller) classify(model string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return relay.NewAPIError(c.name, model, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return relay.NewAPIError(c.name, model, reqErr.HTTPStatusCode, reqErr.Error())
	}

	if relay.IsNetworkError(err) {
		return relay.NewNetworkError(c.name, model, err)
	}

	return &relay.ProviderError{
		Provider: c.name,
		Model:    model,
		Kind:     relay.KindAPI,
		Message:  "chat completion failed",
		Cause:    err,
	}
}

// Verify OpenAICaller implements relay.Caller
var _ relay.Caller = (*OpenAICaller)(nil)
