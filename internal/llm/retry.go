package llm

import (
	"context"
	"time"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

// RetryPolicy controls retries of remote model calls. Only transient remote
// failures are retried; format and input errors fail immediately.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy returns the standard policy for the given retry count.
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, BaseDelay: time.Second}
}

// Do runs fn, retrying up to MaxRetries times with exponential backoff when
// the failure is a remote-service error. The context cancels the backoff wait.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.BaseDelay << (attempt - 1)
			logger.Warn("retrying remote call",
				logger.String("operation", op),
				logger.Int("attempt", attempt),
				logger.String("delay", delay.String()),
				logger.Err(lastErr))

			select {
			case <-ctx.Done():
				return "", types.NewPipelineError(types.ErrRemoteService, "request canceled", ctx.Err())
			case <-time.After(delay):
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if code, ok := types.CodeOf(err); !ok || code != types.ErrRemoteService {
			return "", err
		}
	}

	return "", lastErr
}

// retryingClient decorates a Client with a RetryPolicy.
type retryingClient struct {
	inner  Client
	policy RetryPolicy
}

// WithRetry wraps client so every call goes through policy.
func WithRetry(client Client, policy RetryPolicy) Client {
	if policy.MaxRetries <= 0 {
		return client
	}
	return &retryingClient{inner: client, policy: policy}
}

func (c *retryingClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return c.policy.Do(ctx, "translate", func() (string, error) {
		return c.inner.Translate(ctx, text, targetLanguage)
	})
}

func (c *retryingClient) ExtractEntities(ctx context.Context, text, targetLanguage string) (string, error) {
	return c.policy.Do(ctx, "extract_entities", func() (string, error) {
		return c.inner.ExtractEntities(ctx, text, targetLanguage)
	})
}
