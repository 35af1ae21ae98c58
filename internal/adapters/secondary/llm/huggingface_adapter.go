package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/huggingface"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/logger"
)

// NewHuggingFaceAdapter creates an adapter backed by the langchaingo Hugging Face client.
// The client needs a token; use the inference adapter for anonymous access.
// Endpoint is the API base URL here; the client appends /models/<model>.
func NewHuggingFaceAdapter(cfg config.LLMConfig, log logger.Logger) (*LangChainAdapter, error) {
	log.Info("Initializing Hugging Face adapter", "model", cfg.Model, "endpoint", cfg.Endpoint)

	opts := []huggingface.Option{
		huggingface.WithToken(cfg.HuggingFaceKey),
		huggingface.WithModel(cfg.Model),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, huggingface.WithURL(cfg.Endpoint))
	}

	client, err := huggingface.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize huggingface client: %w", err)
	}

	adapter := newLangChainAdapter(client, "huggingface-langchain", cfg, log)
	// The text-generation task echoes the prompt unless return_full_text is false,
	// which this client cannot send.
	adapter.stripPrompt = true
	return adapter, nil
}
