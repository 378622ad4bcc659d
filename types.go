package relay

import "context"

// SourceAuto means the source language is detected by the model.
const SourceAuto = "auto"

// ModelNone marks output that no model or translator produced.
const ModelNone = "none"

// ContextType hints at what kind of content is being translated.
type ContextType string

const (
	ContextGeneral ContextType = "general"
	ContextChat    ContextType = "chat"
	ContextSummary ContextType = "summary"
	ContextNotes   ContextType = "notes"
	ContextQuiz    ContextType = "quiz"
	// ContextHTML marks a full HTML document; the result gets lang and dir attributes.
	ContextHTML ContextType = "html"
)

// CallRequest is one invocation of a provider endpoint.
type CallRequest struct {
	Prompt     string
	Credential string
	Model      string // Model hint; empty means the provider default
	MaxTokens  int
}

// Caller invokes a provider endpoint and normalizes its response to plain text.
type Caller interface {
	Call(ctx context.Context, req CallRequest) (string, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, req CallRequest) (string, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, req CallRequest) (string, error) {
	return f(ctx, req)
}

// TextTranslator is a generic fallback translation service.
type TextTranslator interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Chunk is a contiguous, boundary-respecting slice of a larger input.
type Chunk struct {
	Index int
	Text  string
}

// Attempt records the outcome of one call in a fallback chain.
type Attempt struct {
	Target     string // Provider, model or translator name
	Credential int    // Credential index within the provider, -1 when not applicable
	Kind       ErrorKind
	Err        error
}

// ChunkResult is the output of the chunk engine for one chunk.
type ChunkResult struct {
	Index     int
	Text      string
	ModelUsed string
	Attempts  []Attempt
}

// Degraded reports whether the chunk passed through untranslated.
func (r ChunkResult) Degraded() bool {
	return r.ModelUsed == ModelNone
}

// Request is an inbound translation request.
type Request struct {
	Text        string      `json:"text"`
	TargetLang  string      `json:"targetLang"`
	SourceLang  string      `json:"sourceLang,omitempty"`
	ContextType ContextType `json:"contextType,omitempty"`
}

// Result is the aggregated translation of a request.
type Result struct {
	TranslatedText string `json:"translatedText"`
	Cached         bool   `json:"cached"`
	ModelUsed      string `json:"modelUsed"`
	Degraded       bool   `json:"degraded,omitempty"` // Some chunk fell through untranslated
	Chunks         int    `json:"-"`
}

// Completion is the result of a single AI call.
type Completion struct {
	Text     string
	Provider string
	Model    string
	Attempts []Attempt
}
