package llm

import (
	"context"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

// LangChainAdapter implements the LLMPort interface on top of any langchaingo model
type LangChainAdapter struct {
	model    llms.Model
	provider string
	config   config.LLMConfig
	logger   logger.Logger
	// postprocess is applied to the raw completion before it is returned
	postprocess func(string) string
	stripPrompt bool
}

func newLangChainAdapter(model llms.Model, provider string, cfg config.LLMConfig, log logger.Logger) *LangChainAdapter {
	return &LangChainAdapter{
		model:    model,
		provider: provider,
		config:   cfg,
		logger:   log,
	}
}

// Generate runs the prompt as a single-turn completion
func (a *LangChainAdapter) Generate(ctx context.Context, req ports.GenerationRequest) (ports.Generation, error) {
	a.logger.Info("Generating response", "provider", a.provider, "model", a.config.Model)

	maxTokens := req.MaxNewTokens
	if maxTokens <= 0 {
		maxTokens = a.config.MaxNewTokens
	}
	opts := []llms.CallOption{
		llms.WithMaxTokens(maxTokens),
		llms.WithMaxLength(maxTokens),
		llms.WithTemperature(a.config.Temperature),
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, config.Timeout(a.config.TimeoutSeconds, defaultTimeout))
	defer cancel()

	start := time.Now()
	result, err := llms.GenerateFromSinglePrompt(timeoutCtx, a.model, req.Prompt, opts...)
	if err != nil {
		a.logger.Error("Generation failed", "provider", a.provider, "error", err)
		return ports.Generation{}, err
	}
	if a.stripPrompt {
		result = strings.TrimSpace(strings.TrimPrefix(result, req.Prompt))
	}
	if a.postprocess != nil {
		result = a.postprocess(result)
	}

	a.logger.Info("Generation completed", "provider", a.provider, "duration", time.Since(start), "length", len(result))
	return ports.TextGeneration(result), nil
}

// GetModelInfo returns information about the current LLM model
func (a *LangChainAdapter) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	return modelInfo(a.provider, a.config), nil
}
