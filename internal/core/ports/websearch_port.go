package ports

import (
	"context"

	"github.com/vibin/research-agent/internal/core/domain"
)

// SearchRequest describes a single web search
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// SearchResult represents a single search result item
type SearchResult struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score,omitempty"`
	// Content is nil when the provider returned no content field for the item
	Content *string `json:"content,omitempty"`
}

// Text returns the result content, or the missing-content placeholder
func (r SearchResult) Text() string {
	if r.Content == nil {
		return domain.MissingContentPlaceholder
	}
	return *r.Content
}

// WebSearchPort defines the interface for web search functionality
type WebSearchPort interface {
	// Search performs a web search and returns results in provider order
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)

	// Name returns the provider identifier (e.g. "tavily", "serpapi", "brave")
	Name() string
}
