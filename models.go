package relay

import "unicode/utf8"

// DefaultModels lists the translation models, most capable first.
var DefaultModels = []string{
	"google/gemini-2.5-pro-exp-03-25",
	"qwen/qwen3-coder:free",
	"openai/gpt-oss-20b:free",
	"deepseek/deepseek-chat-v3-0324:free",
	"mistralai/mistral-small-3.2-24b-instruct:free",
	"google/gemma-3n-e2b-it:free",
	"mistralai/mistral-7b-instruct:free",
}

// SizeThreshold routes inputs longer than MinChars to the model at Index.
type SizeThreshold struct {
	MinChars int
	Index    int
}

// DefaultThresholds maps input sizes onto DefaultModels. Inputs at or below every threshold
// use the last model.
var DefaultThresholds = []SizeThreshold{
	{MinChars: 600000, Index: 0},
	{MinChars: 150000, Index: 1},
	{MinChars: 40000, Index: 2},
	{MinChars: 8000, Index: 3},
}

// ModelSelector picks the model candidate list for a request based on its size.
type ModelSelector struct {
	models     []string
	thresholds []SizeThreshold
}

// NewModelSelector creates a selector over models. Thresholds must be ordered by decreasing
// MinChars; indexes outside models are ignored.
func NewModelSelector(models []string, thresholds []SizeThreshold) *ModelSelector {
	if len(models) == 0 {
		models = DefaultModels
	}
	if thresholds == nil {
		thresholds = DefaultThresholds
	}
	return &ModelSelector{
		models:     append([]string(nil), models...),
		thresholds: append([]SizeThreshold(nil), thresholds...),
	}
}

// DefaultModelSelector returns a selector over DefaultModels.
func DefaultModelSelector() *ModelSelector {
	return NewModelSelector(DefaultModels, DefaultThresholds)
}

// Select returns every model, rotated so the one suited to text's length comes first.
// Length is measured in characters of the whole request.
func (s *ModelSelector) Select(text string) []string {
	n := utf8.RuneCountInString(text)

	start := len(s.models) - 1
	for _, th := range s.thresholds {
		if n > th.MinChars && th.Index >= 0 && th.Index < len(s.models) {
			start = th.Index
			break
		}
	}

	out := make([]string, 0, len(s.models))
	out = append(out, s.models[start:]...)
	out = append(out, s.models[:start]...)
	return out
}

// Models returns a copy of the configured models.
func (s *ModelSelector) Models() []string {
	return append([]string(nil), s.models...)
}
