package relay

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for in-place retries of a single call.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig retries a rate-limited or failing endpoint twice, 600ms then 1.2s apart.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  600 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error may be retried in place. Only API-kind provider errors
// flagged retryable qualify; a network failure moves the chain on instead.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable && providerErr.Kind == KindAPI
	}

	return false
}

// RetryableCaller wraps a Caller with retry logic.
type RetryableCaller struct {
	caller Caller
	config RetryConfig
}

// NewRetryableCaller creates a caller that retries retryable failures in place.
func NewRetryableCaller(caller Caller, cfg RetryConfig) *RetryableCaller {
	return &RetryableCaller{
		caller: caller,
		config: cfg,
	}
}

// Call implements Caller with retry logic.
func (c *RetryableCaller) Call(ctx context.Context, req CallRequest) (string, error) {
	return WithRetry(ctx, c.config, func() (string, error) {
		return c.caller.Call(ctx, req)
	})
}
