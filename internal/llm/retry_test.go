package llm

import (
	"context"
	"testing"
	"time"

	"pdf-translator/internal/types"
)

func testPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, BaseDelay: time.Millisecond}
}

func TestRetryPolicy_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		got, err := testPolicy(2).Do(ctx, "op", func() (string, error) {
			calls++
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("Do failed: %v", err)
		}
		if got != "ok" || calls != 1 {
			t.Errorf("expected one call returning ok, got %q after %d calls", got, calls)
		}
	})

	t.Run("transient failure retried until success", func(t *testing.T) {
		calls := 0
		got, err := testPolicy(2).Do(ctx, "op", func() (string, error) {
			calls++
			if calls < 3 {
				return "", types.NewPipelineError(types.ErrRemoteService, "timeout", nil)
			}
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("Do failed: %v", err)
		}
		if got != "ok" || calls != 3 {
			t.Errorf("expected success on third call, got %q after %d calls", got, calls)
		}
	})

	t.Run("retries exhausted returns last error", func(t *testing.T) {
		calls := 0
		_, err := testPolicy(2).Do(ctx, "op", func() (string, error) {
			calls++
			return "", types.NewPipelineError(types.ErrRemoteService, "timeout", nil)
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if calls != 3 {
			t.Errorf("expected 3 calls (1 + 2 retries), got %d", calls)
		}
		if code, ok := types.CodeOf(err); !ok || code != types.ErrRemoteService {
			t.Errorf("expected %s, got %v", types.ErrRemoteService, err)
		}
	})

	t.Run("format error not retried", func(t *testing.T) {
		calls := 0
		_, err := testPolicy(3).Do(ctx, "op", func() (string, error) {
			calls++
			return "", types.NewPipelineError(types.ErrModelResponseFormat, "not json", nil)
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if calls != 1 {
			t.Errorf("expected exactly 1 call, got %d", calls)
		}
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour}.Do(ctx, "op", func() (string, error) {
			calls++
			return "", types.NewPipelineError(types.ErrRemoteService, "timeout", nil)
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if calls != 1 {
			t.Errorf("expected 1 call before cancellation, got %d", calls)
		}
	})
}

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Translate(ctx context.Context, text, lang string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "translated", nil
}

func (c *countingClient) ExtractEntities(ctx context.Context, text, lang string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "{}", nil
}

func TestWithRetry(t *testing.T) {
	t.Run("zero retries returns client unchanged", func(t *testing.T) {
		inner := &countingClient{}
		if got := WithRetry(inner, testPolicy(0)); got != Client(inner) {
			t.Error("expected the original client back")
		}
	})

	t.Run("wraps both operations", func(t *testing.T) {
		inner := &countingClient{err: types.NewPipelineError(types.ErrRemoteService, "down", nil)}
		client := WithRetry(inner, testPolicy(1))

		if _, err := client.Translate(context.Background(), "x", "English"); err == nil {
			t.Fatal("expected an error")
		}
		if inner.calls != 2 {
			t.Errorf("expected 2 Translate attempts, got %d", inner.calls)
		}

		inner.calls = 0
		if _, err := client.ExtractEntities(context.Background(), "x", "English"); err == nil {
			t.Fatal("expected an error")
		}
		if inner.calls != 2 {
			t.Errorf("expected 2 ExtractEntities attempts, got %d", inner.calls)
		}
	})
}
