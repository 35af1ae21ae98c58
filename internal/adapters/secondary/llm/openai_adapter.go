package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIAdapter implements the LLMPort interface for OpenAI-compatible chat endpoints
type OpenAIAdapter struct {
	client openai.Client
	config config.LLMConfig
	logger logger.Logger
}

// NewOpenAIAdapter creates a new OpenAIAdapter
func NewOpenAIAdapter(cfg config.LLMConfig, log logger.Logger) *OpenAIAdapter {
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIKey),
		option.WithRequestTimeout(config.Timeout(cfg.TimeoutSeconds, defaultTimeout)),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	log.Info("Initializing OpenAI adapter", "model", cfg.Model, "endpoint", cfg.Endpoint)

	return &OpenAIAdapter{
		client: openai.NewClient(opts...),
		config: cfg,
		logger: log,
	}
}

// Generate sends the prompt as a single user message
func (a *OpenAIAdapter) Generate(ctx context.Context, req ports.GenerationRequest) (ports.Generation, error) {
	a.logger.Info("Generating response with OpenAI", "model", a.config.Model)

	maxTokens := req.MaxNewTokens
	if maxTokens <= 0 {
		maxTokens = a.config.MaxNewTokens
	}

	res, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		Temperature:         openai.Float(a.config.Temperature),
	})
	if err != nil {
		a.logger.Error("OpenAI generation failed", "error", err)
		return ports.Generation{}, err
	}
	if len(res.Choices) == 0 {
		return ports.Generation{}, fmt.Errorf("openai returned no choices")
	}

	return ports.TextGeneration(res.Choices[0].Message.Content), nil
}

// GetModelInfo returns information about the current LLM model
func (a *OpenAIAdapter) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	return modelInfo("openai", a.config), nil
}
