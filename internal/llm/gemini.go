package llm

import (
	"context"
	"strings"

	genai "google.golang.org/genai"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

// GeminiClient calls the Gemini API for translation and entity extraction.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a GeminiClient for the given credential and model.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, types.NewPipelineError(types.ErrConfig, "missing Gemini API key", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, types.NewPipelineError(types.ErrConfig, "failed to create Gemini client", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Translate sends the translation prompt and returns the model's plain text.
func (g *GeminiClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return g.generate(ctx, translationPrompt(text, targetLanguage))
}

// ExtractEntities sends the structured-extraction prompt and returns the raw
// model output for the caller to parse.
func (g *GeminiClient) ExtractEntities(ctx context.Context, text, targetLanguage string) (string, error) {
	return g.generate(ctx, extractionPrompt(text, targetLanguage))
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", types.NewPipelineError(types.ErrRemoteService, "Gemini request failed", err)
	}

	out := res.Text()
	if strings.TrimSpace(out) == "" {
		return "", types.NewPipelineError(types.ErrRemoteService, "Gemini returned an empty response", nil)
	}

	logger.Debug("gemini response received",
		logger.String("model", g.model),
		logger.Int("length", len(out)))
	return out, nil
}
