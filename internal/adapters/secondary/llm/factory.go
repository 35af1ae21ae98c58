// Package llm holds the text-generation backends.
package llm

import (
	"fmt"
	"time"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const defaultTimeout = 100 * time.Second

// New returns the backend for the configured provider
func New(cfg config.LLMConfig, log logger.Logger) (ports.LLMPort, error) {
	log = log.WithField("component", "llm")
	switch cfg.Provider {
	case "huggingface", "inference", "":
		if cfg.HuggingFaceKey == "" {
			log.Warn("HUGGINGFACEHUB_API_KEY is not set, using anonymous inference API")
		}
		return NewInferenceAdapter(cfg, log), nil
	case "huggingface-langchain":
		return NewHuggingFaceAdapter(cfg, log)
	case "ollama":
		return NewOllamaAdapter(cfg, log)
	case "openai":
		return NewOpenAIAdapter(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func modelInfo(provider string, cfg config.LLMConfig) map[string]interface{} {
	return map[string]interface{}{
		"name":         cfg.Model,
		"provider":     provider,
		"endpoint":     cfg.Endpoint,
		"maxNewTokens": cfg.MaxNewTokens,
		"temperature":  cfg.Temperature,
	}
}
