package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZaguanLabs/relay"
)

// HuggingFaceCaller calls the Hugging Face inference API for a text generation model.
type HuggingFaceCaller struct {
	baseURL string
	model   string
	http    *resty.Client
}

// HuggingFaceConfig holds configuration for the Hugging Face caller.
type HuggingFaceConfig struct {
	BaseURL string        // API base URL (default: HuggingFaceBaseURL)
	Model   string        // Model path, e.g. "microsoft/DialoGPT-medium"
	Timeout time.Duration // Per-call timeout (default: DefaultTimeout)
}

// NewHuggingFaceCaller creates a new Hugging Face caller.
func NewHuggingFaceCaller(cfg HuggingFaceConfig) *HuggingFaceCaller {
	return &HuggingFaceCaller{
		baseURL: trimBase(pick(cfg.BaseURL, HuggingFaceBaseURL)),
		model:   pick(cfg.Model, DefaultModels[HuggingFace]),
		http:    newRestyClient(cfg.Timeout),
	}
}

type hfRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
		Temperature    float64 `json:"temperature"`
		ReturnFullText bool    `json:"return_full_text"`
	} `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error"`
}

// Call implements relay.Caller.
func (c *HuggingFaceCaller) Call(ctx context.Context, req relay.CallRequest) (string, error) {
	model := pick(req.Model, c.model)
	if req.Credential == "" {
		return "", missingCredential(HuggingFace, model)
	}

	body := hfRequest{Inputs: req.Prompt}
	body.Parameters.MaxNewTokens = req.MaxTokens
	body.Parameters.Temperature = defaultTemperature

	r := c.http.R().SetContext(ctx).
		SetAuthToken(req.Credential).
		SetBody(body)

	resp, err := execute(HuggingFace, model, r, http.MethodPost, c.baseURL+"/models/"+model)
	if err != nil {
		return "", err
	}

	return parseGeneration(model, resp.Body())
}

// parseGeneration accepts both the array and the object response shapes.
func parseGeneration(model string, raw []byte) (string, error) {
	var list []hfGeneration
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", nil
		}
		return list[0].GeneratedText, nil
	}

	var one hfGeneration
	if err := json.Unmarshal(raw, &one); err != nil {
		return "", &relay.ProviderError{Provider: HuggingFace, Model: model, Kind: relay.KindAPI, Message: "invalid response", Cause: err}
	}
	if one.Error != "" {
		return "", &relay.ProviderError{Provider: HuggingFace, Model: model, Kind: relay.KindAPI, Message: one.Error}
	}
	return one.GeneratedText, nil
}

var _ relay.Caller = (*HuggingFaceCaller)(nil)
