package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ZaguanLabs/relay"
)

// MockResponse is one scripted outcome.
type MockResponse struct {
	Text string
	Err  error
}

// MockCaller is a scriptable relay.Caller for testing. Responses are looked up by model, then
// by credential, then Default is used. Every call is recorded.
type MockCaller struct {
	ByModel      map[string]MockResponse
	ByCredential map[string]MockResponse
	Default      MockResponse
	// Translations maps prompt-embedded source texts to outputs; used when no script matches.
	Translations map[string]string

	mu    sync.Mutex
	calls []relay.CallRequest
}

// NewMockCaller creates a mock caller that answers every call with text.
func NewMockCaller(text string) *MockCaller {
	return &MockCaller{Default: MockResponse{Text: text}}
}

// Call implements relay.Caller.
func (m *MockCaller) Call(ctx context.Context, req relay.CallRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r, ok := m.ByModel[req.Model]; ok {
		return r.Text, r.Err
	}
	if r, ok := m.ByCredential[req.Credential]; ok {
		return r.Text, r.Err
	}
	for src, dst := range m.Translations {
		if strings.HasSuffix(req.Prompt, src) {
			return dst, nil
		}
	}
	return m.Default.Text, m.Default.Err
}

// Calls returns a copy of the recorded requests.
func (m *MockCaller) Calls() []relay.CallRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]relay.CallRequest(nil), m.calls...)
}

// CallCount returns the number of calls made.
func (m *MockCaller) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Models returns the model of every recorded call, in order.
func (m *MockCaller) Models() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Model
	}
	return out
}

// Reset clears the recorded calls.
func (m *MockCaller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// MockTranslator is a scriptable relay.TextTranslator for testing.
type MockTranslator struct {
	TranslatorName string
	Text           string
	Err            error

	mu    sync.Mutex
	count int
}

// NewMockTranslator creates a translator that always returns text.
func NewMockTranslator(name, text string) *MockTranslator {
	return &MockTranslator{TranslatorName: name, Text: text}
}

// NewFailingTranslator creates a translator that always fails with an API error.
func NewFailingTranslator(name string, status int) *MockTranslator {
	return &MockTranslator{TranslatorName: name, Err: relay.NewAPIError(name, "", status, fmt.Sprintf("%s unavailable", name))}
}

// Name implements relay.TextTranslator.
func (m *MockTranslator) Name() string { return m.TranslatorName }

// Translate implements relay.TextTranslator.
func (m *MockTranslator) Translate(ctx context.Context, _, _, _ string) (string, error) {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Text, m.Err
}

// CallCount returns the number of calls made.
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

var (
	_ relay.Caller         = (*MockCaller)(nil)
	_ relay.TextTranslator = (*MockTranslator)(nil)
)
