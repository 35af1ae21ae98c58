package scoring

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// New returns the scorer for the configured provider. Endpoint addresses the
// BERTScore service; the embedding provider talks to EmbeddingEndpoint instead.
func New(cfg config.ScoringConfig, log logger.Logger) (ports.ScorerPort, error) {
	log = log.WithField("component", "scoring")
	switch cfg.Provider {
	case "bertscore", "":
		return NewBERTScoreClient(cfg, log), nil
	case "embedding":
		endpoint := cfg.EmbeddingEndpoint
		if endpoint == "" {
			endpoint = defaultOllamaEndpoint
		}
		client, err := ollama.New(
			ollama.WithServerURL(endpoint),
			ollama.WithModel(cfg.EmbeddingModel),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
		}
		embedder, err := embeddings.NewEmbedder(client)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		return NewEmbeddingScorer(embedder, log), nil
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", cfg.Provider)
	}
}
