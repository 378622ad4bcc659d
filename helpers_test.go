package relay

import (
	"context"
	"strings"
	"sync"
)

// reply is one scripted outcome of a fake call.
type reply struct {
	text string
	err  error
}

// fakeCaller answers by model, then by credential, then with def. Calls are recorded.
type fakeCaller struct {
	byModel      map[string]reply
	byCredential map[string]reply
	def          reply
	translate    func(prompt string) string

	mu    sync.Mutex
	calls []CallRequest
}

func (f *fakeCaller) Call(ctx context.Context, req CallRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r, ok := f.byModel[req.Model]; ok {
		return r.text, r.err
	}
	if r, ok := f.byCredential[req.Credential]; ok {
		return r.text, r.err
	}
	if f.translate != nil {
		return f.translate(req.Prompt), nil
	}
	return f.def.text, f.def.err
}

func (f *fakeCaller) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Model
	}
	return out
}

func (f *fakeCaller) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// upperCaller "translates" the chunk text by upper-casing it.
func upperCaller() *fakeCaller {
	return &fakeCaller{translate: func(prompt string) string {
		return strings.ToUpper(promptText(prompt))
	}}
}

// promptText extracts the text to translate from a translation prompt.
func promptText(prompt string) string {
	const sep = "-----\n"
	if i := strings.LastIndex(prompt, sep); i >= 0 {
		return prompt[i+len(sep):]
	}
	return prompt
}

type fakeTranslator struct {
	name string
	text string
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeTranslator) Name() string { return f.name }

func (f *fakeTranslator) Translate(ctx context.Context, text, _, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.text, f.err
}

func (f *fakeTranslator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// translationRegistry registers caller as the default translation provider.
func translationRegistry(caller Caller) *Registry {
	return NewRegistry([]string{DefaultTranslationProvider}, []Provider{
		{Name: DefaultTranslationProvider, Credentials: []string{"key"}, Caller: caller},
	})
}

func apiErr(status int) error {
	return NewAPIError("test", "", status, "failed")
}

func netErr() error {
	return NewNetworkError("test", "", &dnsFailure{})
}

type dnsFailure struct{}

func (*dnsFailure) Error() string { return "lookup api.example: no such host" }
