package relay

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultTranslationProvider is the provider that serves translation models.
const DefaultTranslationProvider = "openrouter"

// DefaultMinOutputChars is the quality floor for model output on long inputs.
const DefaultMinOutputChars = 20

const maxTranslationTokens = 120000

// step is the transition taken after a model attempt.
type step int

const (
	stepNext step = iota
	stepBreakToFallback
	stepDone
)

// ChunkEngine translates one chunk through the model candidates, then through the fallback
// translators, and finally passes the chunk through unchanged. It never fails.
type ChunkEngine struct {
	registry    *Registry
	provider    string
	translators []TextTranslator
	retry       *RetryConfig
	minOutput   int
	logger      *zap.Logger
}

// EngineOption is a functional option for configuring the ChunkEngine.
type EngineOption func(*ChunkEngine)

// WithTranslationProvider names the registry provider used for model calls.
func WithTranslationProvider(name string) EngineOption {
	return func(e *ChunkEngine) {
		if name != "" {
			e.provider = strings.ToLower(name)
		}
	}
}

// WithFallbackTranslators sets the translators tried after the models, in order.
func WithFallbackTranslators(translators ...TextTranslator) EngineOption {
	return func(e *ChunkEngine) {
		e.translators = translators
	}
}

// WithModelRetry retries API failures of a single model call in place.
func WithModelRetry(cfg RetryConfig) EngineOption {
	return func(e *ChunkEngine) {
		e.retry = &cfg
	}
}

// WithMinOutputChars sets the quality floor for model output.
func WithMinOutputChars(n int) EngineOption {
	return func(e *ChunkEngine) {
		if n > 0 {
			e.minOutput = n
		}
	}
}

// WithEngineLogger sets the logger used for attempt reporting.
func WithEngineLogger(logger *zap.Logger) EngineOption {
	return func(e *ChunkEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewChunkEngine creates a ChunkEngine over the given registry.
func NewChunkEngine(registry *Registry, opts ...EngineOption) *ChunkEngine {
	e := &ChunkEngine{
		registry:  registry,
		provider:  DefaultTranslationProvider,
		minOutput: DefaultMinOutputChars,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TranslateChunk translates chunk into targetLang. Models are tried in candidate order on the
// translation provider's first credential. A network failure skips the remaining models. The
// result always carries text: on total failure it is the original chunk with ModelUsed "none".
func (e *ChunkEngine) TranslateChunk(ctx context.Context, chunk Chunk, sourceLang, targetLang string, contextType ContextType, candidates []string) ChunkResult {
	result := ChunkResult{Index: chunk.Index, Text: chunk.Text, ModelUsed: ModelNone}

	if p, err := e.registry.Resolve(e.provider); err == nil {
		caller := p.Caller
		if e.retry != nil {
			caller = NewRetryableCaller(caller, *e.retry)
		}
		prompt := BuildTranslationPrompt(chunk.Text, sourceLang, targetLang, contextType)
		budget := TranslationBudget(chunk.Text)

	models:
		for _, model := range candidates {
			if ctx.Err() != nil {
				return result
			}

			text, err := caller.Call(ctx, CallRequest{
				Prompt:     prompt,
				Credential: p.Credentials[0],
				Model:      model,
				MaxTokens:  budget,
			})
			if err != nil && ctx.Err() != nil {
				return result
			}

			text = strings.TrimSpace(text)
			kind := KindNone
			switch {
			case err != nil:
				kind = KindOf(err)
			case text == "":
				kind = KindEmpty
				err = &ProviderError{Provider: p.Name, Model: model, Kind: KindEmpty, Message: "empty translation"}
			case !e.passesQualityGate(chunk.Text, text):
				kind = KindShort
				err = &ProviderError{Provider: p.Name, Model: model, Kind: KindShort, Message: "translation too short"}
			}

			result.Attempts = append(result.Attempts, Attempt{Target: model, Credential: 0, Kind: kind, Err: err})

			switch transition(kind) {
			case stepDone:
				result.Text = text
				result.ModelUsed = model
				e.logger.Info("chunk translated",
					zap.Int("chunk", chunk.Index),
					zap.String("model", model),
				)
				return result
			case stepBreakToFallback:
				e.logger.Warn("translation provider unreachable, using fallback translators",
					zap.Int("chunk", chunk.Index),
					zap.String("model", model),
					zap.Error(err),
				)
				break models
			default:
				e.logger.Warn("model attempt failed",
					zap.Int("chunk", chunk.Index),
					zap.String("model", model),
					zap.Stringer("kind", kind),
					zap.Error(err),
				)
			}
		}
	}

	for _, tr := range e.translators {
		if ctx.Err() != nil {
			return result
		}

		text, err := tr.Translate(ctx, chunk.Text, sourceLang, targetLang)
		text = strings.TrimSpace(text)
		if err == nil && text == "" {
			err = &ProviderError{Provider: tr.Name(), Kind: KindEmpty, Message: "empty translation"}
		}
		if err != nil {
			result.Attempts = append(result.Attempts, Attempt{Target: tr.Name(), Credential: -1, Kind: KindOf(err), Err: err})
			e.logger.Warn("fallback translator failed",
				zap.Int("chunk", chunk.Index),
				zap.String("translator", tr.Name()),
				zap.Error(err),
			)
			continue
		}

		result.Attempts = append(result.Attempts, Attempt{Target: tr.Name(), Credential: -1, Kind: KindNone})
		result.Text = text
		result.ModelUsed = tr.Name()
		return result
	}

	e.logger.Warn("chunk left untranslated",
		zap.Int("chunk", chunk.Index),
		zap.Int("attempts", len(result.Attempts)),
	)
	return result
}

func transition(kind ErrorKind) step {
	switch kind {
	case KindNone:
		return stepDone
	case KindNetwork:
		return stepBreakToFallback
	default:
		return stepNext
	}
}

// passesQualityGate rejects outputs shorter than a quarter of the input, capped at minOutput
// characters, and always at least one character.
func (e *ChunkEngine) passesQualityGate(input, output string) bool {
	floor := utf8.RuneCountInString(input) / 4
	if floor > e.minOutput {
		floor = e.minOutput
	}
	if floor < 1 {
		floor = 1
	}
	return utf8.RuneCountInString(output) >= floor
}

// TranslationBudget estimates the output tokens needed to translate text.
func TranslationBudget(text string) int {
	budget := (utf8.RuneCountInString(text)+3)/4 + 200
	if budget < 256 {
		budget = 256
	}
	if budget > maxTranslationTokens {
		budget = maxTranslationTokens
	}
	return budget
}

// BuildTranslationPrompt builds the instruction prompt for one chunk.
func BuildTranslationPrompt(text, sourceLang, targetLang string, contextType ContextType) string {
	if sourceLang == "" {
		sourceLang = SourceAuto
	}
	if contextType == "" {
		contextType = ContextGeneral
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert translator. Translate the following text to %s (%s).\n", GetLanguageName(targetLang), targetLang)
	b.WriteString("Requirements:\n")
	b.WriteString("- Preserve formatting: headings, bullet lists, numbered lists, tables, and code blocks (```).\n")
	b.WriteString("- Keep special markers (e.g., \"<<ANSWER: A>>\") unchanged.\n")
	b.WriteString("- Preserve inline code, variable names, and file names exactly.\n")
	b.WriteString("- Do NOT add commentary or explain translations. Output only the translated text.\n")
	fmt.Fprintf(&b, "Content type: %s\n", contextType)
	fmt.Fprintf(&b, "Source language: %s\n", sourceLang)
	b.WriteString("-----\n")
	b.WriteString(text)
	return b.String()
}
