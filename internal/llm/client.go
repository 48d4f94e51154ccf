// Package llm provides the remote model clients used by the translation
// pipeline. Two providers are supported: Gemini and any OpenAI-compatible
// endpoint. Both are wrapped in a retry policy that only retries transient
// remote failures.
package llm

import (
	"context"

	"pdf-translator/internal/types"
)

// Client is the remote model capability the pipeline depends on. Translate
// returns a plain translation preserving line structure; ExtractEntities
// returns the raw model output for the structured-extraction prompt, which the
// caller parses as JSON.
type Client interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	ExtractEntities(ctx context.Context, text, targetLanguage string) (string, error)
}

// NewClient builds the Client for the configured provider, wrapped in the
// configured retry policy.
func NewClient(ctx context.Context, cfg *types.Config) (Client, error) {
	var (
		client Client
		err    error
	)

	switch cfg.Provider {
	case types.ProviderGemini:
		client, err = NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case types.ProviderOpenAI:
		client, err = NewOpenAIClient(ctx, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	default:
		return nil, types.NewPipelineErrorWithDetails(types.ErrConfig,
			"unknown provider", string(cfg.Provider), nil)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(client, DefaultRetryPolicy(cfg.MaxRetries)), nil
}
