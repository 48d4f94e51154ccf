package llm

import (
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

// OpenAIClient calls an OpenAI-compatible chat completion endpoint for
// translation and entity extraction. Any provider exposing the OpenAI wire
// format works through the BaseURL setting.
type OpenAIClient struct {
	chatModel model.BaseChatModel
	model     string
}

// NewOpenAIClient creates an OpenAIClient for the given endpoint and model.
func NewOpenAIClient(ctx context.Context, apiKey, baseURL, modelName string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, types.NewPipelineError(types.ErrConfig, "missing OpenAI API key", nil)
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		chatModelConfig.BaseURL = baseURL
	}

	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, types.NewPipelineError(types.ErrConfig, "failed to create chat model", err)
	}

	return &OpenAIClient{chatModel: chatModel, model: modelName}, nil
}

// Translate sends the translation prompt and returns the model's plain text.
func (o *OpenAIClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return o.generate(ctx, translationPrompt(text, targetLanguage))
}

// ExtractEntities sends the structured-extraction prompt and returns the raw
// model output for the caller to parse.
func (o *OpenAIClient) ExtractEntities(ctx context.Context, text, targetLanguage string) (string, error) {
	return o.generate(ctx, extractionPrompt(text, targetLanguage))
}

func (o *OpenAIClient) generate(ctx context.Context, prompt string) (string, error) {
	response, err := o.chatModel.Generate(ctx, []*schema.Message{
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", types.NewPipelineError(types.ErrRemoteService, "chat completion request failed", err)
	}

	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", types.NewPipelineError(types.ErrRemoteService, "model returned an empty response", nil)
	}

	logger.Debug("chat completion received",
		logger.String("model", o.model),
		logger.Int("length", len(response.Content)))
	return response.Content, nil
}
