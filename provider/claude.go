package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZaguanLabs/relay"
)

const anthropicVersion = "2023-06-01"

// ClaudeCaller calls the Anthropic messages API.
type ClaudeCaller struct {
	baseURL string
	model   string
	http    *resty.Client
}

// ClaudeConfig holds configuration for the Claude caller.
type ClaudeConfig struct {
	BaseURL string        // API base URL (default: ClaudeBaseURL)
	Model   string        // Default model
	Timeout time.Duration // Per-call timeout (default: DefaultTimeout)
}

// NewClaudeCaller creates a new Claude caller.
func NewClaudeCaller(cfg ClaudeConfig) *ClaudeCaller {
	return &ClaudeCaller{
		baseURL: trimBase(pick(cfg.BaseURL, ClaudeBaseURL)),
		model:   pick(cfg.Model, DefaultModels[Claude]),
		http:    newRestyClient(cfg.Timeout),
	}
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Messages    []claudeMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Call implements relay.Caller.
func (c *ClaudeCaller) Call(ctx context.Context, req relay.CallRequest) (string, error) {
	model := pick(req.Model, c.model)
	if req.Credential == "" {
		return "", missingCredential(Claude, model)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens[Claude]
	}

	var out claudeResponse
	r := c.http.R().SetContext(ctx).
		SetHeader("x-api-key", req.Credential).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(claudeRequest{
			Model:       model,
			MaxTokens:   maxTokens,
			Messages:    []claudeMessage{{Role: "user", Content: req.Prompt}},
			Temperature: defaultTemperature,
		}).
		SetResult(&out)

	if _, err := execute(Claude, model, r, http.MethodPost, c.baseURL+"/v1/messages"); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range out.Content {
		if block.Type == "" || block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

var _ relay.Caller = (*ClaudeCaller)(nil)
