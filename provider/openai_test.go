package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaguanLabs/relay"
)

func newChatServer(t *testing.T, status int, body string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		req["_auth"] = r.Header.Get("Authorization")
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestOpenAICaller_Call(t *testing.T) {
	srv, requests := newChatServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Bonjour"}}]}`)

	c := NewOpenAICaller(OpenAIConfig{Name: OpenRouter, BaseURL: srv.URL, Model: "default-model"})

	text, err := c.Call(context.Background(), relay.CallRequest{Prompt: "Hello", Credential: "key-1", Model: "m1", MaxTokens: 300})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if text != "Bonjour" {
		t.Errorf("text = %q, want Bonjour", text)
	}

	got := (*requests)[0]
	if got["model"] != "m1" {
		t.Errorf("model = %v, want m1", got["model"])
	}
	if got["max_tokens"] != float64(300) {
		t.Errorf("max_tokens = %v, want 300", got["max_tokens"])
	}
	if got["_auth"] != "Bearer key-1" {
		t.Errorf("authorization = %v", got["_auth"])
	}
}

func TestOpenAICaller_DefaultModel(t *testing.T) {
	srv, requests := newChatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)

	c := NewOpenAICaller(OpenAIConfig{Name: Groq, BaseURL: srv.URL, Model: DefaultModels[Groq]})
	if _, err := c.Call(context.Background(), relay.CallRequest{Prompt: "hi", Credential: "k"}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if (*requests)[0]["model"] != DefaultModels[Groq] {
		t.Errorf("model = %v, want %s", (*requests)[0]["model"], DefaultModels[Groq])
	}
}

func TestOpenAICaller_EmptyChoices(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusOK, `{"choices":[]}`)

	c := NewOpenAICaller(OpenAIConfig{Name: Together, BaseURL: srv.URL})
	text, err := c.Call(context.Background(), relay.CallRequest{Prompt: "hi", Credential: "k"})
	if err != nil || text != "" {
		t.Errorf("Call = %q, %v; want empty text and no error", text, err)
	}
}

func TestOpenAICaller_APIError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newChatServer(t, tt.status, `{"error":{"message":"nope","type":"error"}}`)
			c := NewOpenAICaller(OpenAIConfig{Name: OpenRouter, BaseURL: srv.URL})

			_, err := c.Call(context.Background(), relay.CallRequest{Prompt: "hi", Credential: "k", Model: "m"})

			var perr *relay.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if perr.Kind != relay.KindAPI {
				t.Errorf("kind = %v, want api", perr.Kind)
			}
			if perr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", perr.StatusCode, tt.status)
			}
			if perr.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", perr.Retryable, tt.retryable)
			}
		})
	}
}

func TestOpenAICaller_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewOpenAICaller(OpenAIConfig{Name: OpenRouter, BaseURL: base})
	_, err := c.Call(context.Background(), relay.CallRequest{Prompt: "hi", Credential: "k", Model: "m"})

	if kind := relay.KindOf(err); kind != relay.KindNetwork {
		t.Errorf("kind = %v, want network (err: %v)", kind, err)
	}
}

func TestOpenAICaller_MissingCredential(t *testing.T) {
	c := NewOpenAICaller(OpenAIConfig{Name: Groq, BaseURL: "http://127.0.0.1:1"})
	_, err := c.Call(context.Background(), relay.CallRequest{Prompt: "hi"})
	if relay.KindOf(err) != relay.KindAPI {
		t.Errorf("expected api error for missing credential, got %v", err)
	}
}

func TestOpenAICaller_ReusesClientPerCredential(t *testing.T) {
	c := NewOpenAICaller(OpenAIConfig{})
	if c.client("a") != c.client("a") {
		t.Error("expected the same client for the same credential")
	}
	if c.client("a") == c.client("b") {
		t.Error("expected distinct clients for distinct credentials")
	}
}

func TestOpenAICaller_HTTPClientTimeout(t *testing.T) {
	c := NewOpenAICaller(OpenAIConfig{})
	if c.httpClient == nil || c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("default client timeout = %v, want %v", c.httpClient, DefaultTimeout)
	}

	custom := &http.Client{}
	c = NewOpenAICaller(OpenAIConfig{HTTPClient: custom})
	if c.httpClient != custom {
		t.Error("expected the configured client to be used")
	}
}
