package relay

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed attempt. It is attached where the failure happens and travels
// with the error through every layer of a fallback chain.
type ErrorKind int

const (
	// KindNone means the attempt produced usable output.
	KindNone ErrorKind = iota
	// KindNetwork is a transport or DNS failure; the whole upstream is assumed unreachable.
	KindNetwork
	// KindAPI is a non-2xx response from a reachable endpoint.
	KindAPI
	// KindEmpty is a well-formed response without any text.
	KindEmpty
	// KindShort is a response whose text is below the quality threshold.
	KindShort
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	case KindEmpty:
		return "empty"
	case KindShort:
		return "short"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrNotConfigured is returned by the registry for providers that are unknown or have no
// credentials. Callers skip such providers silently.
var ErrNotConfigured = errors.New("provider not configured")

// ErrUnknownCapability is returned when a requested capability names no known provider.
var ErrUnknownCapability = errors.New("unknown capability")

// ErrEmptyPrompt is returned by the completer for blank prompts.
var ErrEmptyPrompt = errors.New("prompt is empty")

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a malformed inbound request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// ProviderError indicates a provider or translator failure.
type ProviderError struct {
	Provider   string
	Model      string
	Kind       ErrorKind
	StatusCode int // HTTP status when the endpoint answered
	Message    string
	Cause      error
	Retryable  bool // Whether the same call may be repeated in place
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString("provider error")
	if e.Provider != "" {
		b.WriteString(" (")
		b.WriteString(e.Provider)
		if e.Model != "" {
			b.WriteString("/")
			b.WriteString(e.Model)
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewAPIError builds a ProviderError for a non-2xx response.
// 429 and 5xx responses are retryable in place.
func NewAPIError(provider, model string, status int, body string) *ProviderError {
	msg := fmt.Sprintf("status %d", status)
	if body = strings.TrimSpace(body); body != "" {
		msg += " - " + abbreviate(body, 300)
	}
	return &ProviderError{
		Provider:   provider,
		Model:      model,
		Kind:       KindAPI,
		StatusCode: status,
		Message:    msg,
		Retryable:  status == http.StatusTooManyRequests || status >= 500,
	}
}

// NewNetworkError builds a ProviderError for a transport failure.
func NewNetworkError(provider, model string, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Model:    model,
		Kind:     KindNetwork,
		Message:  "request failed",
		Cause:    cause,
	}
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ErrorCode is the caller-facing classification of a terminal failure.
type ErrorCode string

const (
	CodeInvalidRequest ErrorCode = "invalid_request"
	CodeRateLimited    ErrorCode = "rate_limited"
	CodeUnauthorized   ErrorCode = "unauthorized"
	CodeUnavailable    ErrorCode = "unavailable"
)

// HTTPStatus maps the code to a response status.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ExhaustedError is the single terminal failure of the completer: every provider and
// credential was tried and none produced usable text.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all providers exhausted: no configured provider"
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("all providers exhausted after %d attempts, last: %v", len(e.Attempts), last.Err)
}

// Unwrap exposes the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Code derives the caller-facing code from the last attempt's status.
func (e *ExhaustedError) Code() ErrorCode {
	var perr *ProviderError
	if !errors.As(e.Unwrap(), &perr) {
		return CodeUnavailable
	}
	switch perr.StatusCode {
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	default:
		return CodeUnavailable
	}
}

// CodeOf classifies any error returned by the package.
func CodeOf(err error) ErrorCode {
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, ErrUnknownCapability) || errors.Is(err, ErrEmptyPrompt) {
		return CodeInvalidRequest
	}
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Code()
	}
	return CodeUnavailable
}

// KindOf returns the kind carried by err. Errors without a kind are classified by transport
// inspection.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	if IsNetworkError(err) {
		return KindNetwork
	}
	return KindAPI
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
