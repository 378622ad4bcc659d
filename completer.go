package relay

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultMaxOutputTokens is the output budget requested from each provider before it is
// capped by the provider's own limit.
const DefaultMaxOutputTokens = 40000

// DefaultMinCompletionChars is the shortest completion accepted as usable.
const DefaultMinCompletionChars = 2

// Completer answers single prompts by walking providers and their credentials in order until
// one returns usable text.
type Completer struct {
	registry  *Registry
	logger    *zap.Logger
	minChars  int
	maxOutput int
	plainText bool
}

// CompleterOption is a functional option for configuring the Completer.
type CompleterOption func(*Completer)

// WithCompleterLogger sets the logger used for attempt reporting.
func WithCompleterLogger(logger *zap.Logger) CompleterOption {
	return func(c *Completer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMinCompletionChars sets the shortest trimmed completion accepted as usable.
func WithMinCompletionChars(n int) CompleterOption {
	return func(c *Completer) {
		if n > 0 {
			c.minChars = n
		}
	}
}

// WithMaxOutputTokens sets the desired output budget before provider limits apply.
func WithMaxOutputTokens(n int) CompleterOption {
	return func(c *Completer) {
		if n > 0 {
			c.maxOutput = n
		}
	}
}

// WithPlainText strips markdown formatting from completions.
func WithPlainText(enabled bool) CompleterOption {
	return func(c *Completer) {
		c.plainText = enabled
	}
}

// NewCompleter creates a Completer over the given registry.
func NewCompleter(registry *Registry, opts ...CompleterOption) *Completer {
	c := &Completer{
		registry:  registry,
		logger:    zap.NewNop(),
		minChars:  DefaultMinCompletionChars,
		maxOutput: DefaultMaxOutputTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends prompt to the provider named by capability, then to every other configured
// provider in fallback order. The first usable response wins. When every credential of every
// provider fails, the error is an *ExhaustedError listing all attempts.
func (c *Completer) Complete(ctx context.Context, prompt, capability string) (*Completion, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	preferred, ok := c.registry.Lookup(capability)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCapability, capability)
	}

	var attempts []Attempt

	for _, name := range c.registry.Targets(preferred) {
		p, err := c.registry.Resolve(name)
		if err != nil {
			continue
		}

		maxTokens := SafeMaxTokens(prompt, c.maxOutput, p.MaxTokens)

		for i, cred := range p.Credentials {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			text, err := p.Caller.Call(ctx, CallRequest{
				Prompt:     prompt,
				Credential: cred,
				Model:      p.Model,
				MaxTokens:  maxTokens,
			})
			if err != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}

			kind := KindOf(err)
			if err == nil {
				if c.plainText {
					text = StripMarkdown(text)
				}
				text = strings.TrimSpace(text)
				switch {
				case text == "":
					kind = KindEmpty
					err = &ProviderError{Provider: p.Name, Model: p.Model, Kind: KindEmpty, Message: "empty response"}
				case utf8.RuneCountInString(text) < c.minChars:
					kind = KindShort
					err = &ProviderError{Provider: p.Name, Model: p.Model, Kind: KindShort, Message: "response too short"}
				}
			}

			if err == nil {
				attempts = append(attempts, Attempt{Target: p.Name, Credential: i, Kind: KindNone})
				c.logger.Info("completion succeeded",
					zap.String("provider", p.Name),
					zap.Int("credential", i),
					zap.String("model", p.Model),
				)
				return &Completion{Text: text, Provider: p.Name, Model: p.Model, Attempts: attempts}, nil
			}

			attempts = append(attempts, Attempt{Target: p.Name, Credential: i, Kind: kind, Err: err})
			c.logger.Warn("completion attempt failed",
				zap.String("provider", p.Name),
				zap.Int("credential", i),
				zap.String("model", p.Model),
				zap.Stringer("kind", kind),
				zap.Error(err),
			)
		}
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

// SafeMaxTokens caps desired so that the estimated prompt tokens plus the output fit within the
// provider limit, leaving a small buffer. A providerMax of zero means unlimited.
func SafeMaxTokens(prompt string, desired, providerMax int) int {
	if providerMax <= 0 {
		return desired
	}
	promptTokens := (len(prompt) + 3) / 4
	safe := providerMax - promptTokens - 16
	if desired < safe {
		safe = desired
	}
	if safe < 16 {
		safe = 16
	}
	return safe
}
