// Package websearch holds the web search provider adapters.
package websearch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const defaultTimeout = 15 * time.Second

// New returns the adapter for the configured provider
func New(cfg *config.SearchConfig, log logger.Logger) (ports.WebSearchPort, error) {
	log = log.WithField("component", "websearch")
	switch cfg.Provider {
	case "tavily", "":
		return NewTavilyAdapter(cfg, log), nil
	case "serpapi":
		return NewSerpAPIAdapter(cfg, log), nil
	case "brave":
		return NewBraveAdapter(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

func newHTTPClient(cfg *config.SearchConfig) *http.Client {
	return &http.Client{
		Timeout: config.Timeout(cfg.TimeoutSeconds, defaultTimeout),
	}
}

// truncate caps results at max; max <= 0 means no cap
func truncate(results []ports.SearchResult, max int) []ports.SearchResult {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
