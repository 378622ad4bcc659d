package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZaguanLabs/relay"
)

// GeminiCaller calls the Gemini generateContent API.
type GeminiCaller struct {
	baseURL string
	model   string
	http    *resty.Client
}

// GeminiConfig holds configuration for the Gemini caller.
type GeminiConfig struct {
	BaseURL string        // API base URL (default: GeminiBaseURL)
	Model   string        // Default model (default: gemini-2.5-flash)
	Timeout time.Duration // Per-call timeout (default: DefaultTimeout)
}

// NewGeminiCaller creates a new Gemini caller.
func NewGeminiCaller(cfg GeminiConfig) *GeminiCaller {
	return &GeminiCaller{
		baseURL: trimBase(pick(cfg.BaseURL, GeminiBaseURL)),
		model:   pick(cfg.Model, DefaultModels[Gemini]),
		http:    newRestyClient(cfg.Timeout),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		TopK            int     `json:"topK"`
		TopP            float64 `json:"topP"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Call implements relay.Caller.
func (c *GeminiCaller) Call(ctx context.Context, req relay.CallRequest) (string, error) {
	model := pick(req.Model, c.model)
	if req.Credential == "" {
		return "", missingCredential(Gemini, model)
	}

	body := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}}}
	body.GenerationConfig.Temperature = defaultTemperature
	body.GenerationConfig.TopK = 20
	body.GenerationConfig.TopP = 0.8
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens

	var out geminiResponse
	r := c.http.R().SetContext(ctx).
		SetQueryParam("key", req.Credential).
		SetBody(body).
		SetResult(&out)

	if _, err := execute(Gemini, model, r, http.MethodPost, c.baseURL+"/models/"+model+":generateContent"); err != nil {
		return "", err
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

var _ relay.Caller = (*GeminiCaller)(nil)
