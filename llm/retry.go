package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"redline-backend/logger"
)

const (
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = time.Second
)

// BackoffFunc returns the wait before the given retry (1 for the first retry)
type BackoffFunc func(retry int) time.Duration

// ExponentialBackoff doubles the wait on every retry, starting at initial
func ExponentialBackoff(initial time.Duration) BackoffFunc {
	return func(retry int) time.Duration {
		return initial << (retry - 1)
	}
}

// RetryingClient retries the wrapped client on errors and empty responses.
// When every attempt fails it returns an error wrapping ErrUnavailable.
type RetryingClient struct {
	next           Client
	maxAttempts    int
	backoff        BackoffFunc
	attemptTimeout time.Duration
}

// RetryOption is a functional option for RetryingClient
type RetryOption func(*RetryingClient)

// WithMaxAttempts sets the total number of attempts
func WithMaxAttempts(n int) RetryOption {
	return func(r *RetryingClient) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithBackoff sets the wait between attempts
func WithBackoff(b BackoffFunc) RetryOption {
	return func(r *RetryingClient) {
		if b != nil {
			r.backoff = b
		}
	}
}

// WithAttemptTimeout bounds each attempt separately. Zero means no bound
// beyond the caller's context.
func WithAttemptTimeout(d time.Duration) RetryOption {
	return func(r *RetryingClient) {
		r.attemptTimeout = d
	}
}

// NewRetryingClient wraps next
func NewRetryingClient(next Client, opts ...RetryOption) *RetryingClient {
	r := &RetryingClient{
		next:        next,
		maxAttempts: DefaultMaxAttempts,
		backoff:     ExponentialBackoff(DefaultInitialBackoff),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Complete implements Client
func (r *RetryingClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-timer.C:
			}
		}

		content, err := r.attempt(ctx, prompt)
		if err == nil && strings.TrimSpace(content) != "" {
			return content, nil
		}
		if err == nil {
			err = ErrEmptyResponse
		}
		lastErr = err
		logger.Warn("LLM attempt %d/%d failed: %v", attempt+1, r.maxAttempts, err)

		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, r.maxAttempts, lastErr)
}

func (r *RetryingClient) attempt(ctx context.Context, prompt Prompt) (string, error) {
	if r.attemptTimeout <= 0 {
		return r.next.Complete(ctx, prompt)
	}
	ctx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()
	return r.next.Complete(ctx, prompt)
}
