package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/logger"
)

const defaultOllamaEndpoint = "http://localhost:11434"

var emptyThinkTags = regexp.MustCompile(`<think>\s*</think>`)

// NewOllamaAdapter creates an adapter for a local Ollama server
func NewOllamaAdapter(cfg config.LLMConfig, log logger.Logger) (*LangChainAdapter, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultOllamaEndpoint
	}
	log.Info("Initializing Ollama adapter", "endpoint", cfg.Endpoint, "model", cfg.Model)

	client, err := ollama.New(
		ollama.WithServerURL(cfg.Endpoint),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}

	adapter := newLangChainAdapter(client, "ollama", cfg, log)
	if strings.HasPrefix(cfg.Model, "qwen3") {
		adapter.postprocess = cleanThinkingTags
	}
	return adapter, nil
}

// cleanThinkingTags removes empty thinking tags from the response
func cleanThinkingTags(input string) string {
	return strings.TrimSpace(emptyThinkTags.ReplaceAllString(input, ""))
}
