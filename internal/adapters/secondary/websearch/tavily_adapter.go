package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const (
	tavilySearchURL = "https://api.tavily.com/search"
)

// tavilyRequest is the body of a Tavily search call
type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

// TavilySearchResponse represents the response from the Tavily Search API
type TavilySearchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content *string `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
	ResponseTime float64 `json:"response_time"`
}

// TavilyAdapter implements the WebSearchPort interface using the Tavily Search API
type TavilyAdapter struct {
	config     *config.SearchConfig
	logger     logger.Logger
	endpoint   string
	httpClient *http.Client
}

// NewTavilyAdapter creates a new TavilyAdapter
func NewTavilyAdapter(cfg *config.SearchConfig, log logger.Logger) *TavilyAdapter {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tavilySearchURL
	}
	return &TavilyAdapter{
		config:     cfg,
		logger:     log,
		endpoint:   endpoint,
		httpClient: newHTTPClient(cfg),
	}
}

// Name implements WebSearchPort
func (a *TavilyAdapter) Name() string { return "tavily" }

// Search performs a web search with the given query and returns results
func (a *TavilyAdapter) Search(ctx context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	a.logger.Info("Performing Tavily web search", "query", req.Query, "max_results", req.MaxResults)

	if a.config.TavilyAPIKey == "" {
		return nil, fmt.Errorf("tavily API key is not configured")
	}

	body, err := json.Marshal(tavilyRequest{
		Query:       req.Query,
		MaxResults:  req.MaxResults,
		SearchDepth: a.config.SearchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create tavily request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.TavilyAPIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		a.logger.Error("Tavily returned non-OK status", "status", resp.StatusCode, "body", string(errorBody))
		return nil, fmt.Errorf("tavily returned status %d", resp.StatusCode)
	}

	var tavilyResp TavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&tavilyResp); err != nil {
		return nil, fmt.Errorf("failed to parse tavily response: %w", err)
	}

	results := make([]ports.SearchResult, 0, len(tavilyResp.Results))
	for _, r := range tavilyResp.Results {
		results = append(results, ports.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Score:   r.Score,
			Content: r.Content,
		})
	}

	a.logger.Info("Tavily web search completed", "results_count", len(results), "response_time", tavilyResp.ResponseTime)
	return truncate(results, req.MaxResults), nil
}
