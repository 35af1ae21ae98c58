package websearch

import (
	"context"
	"fmt"
	"strconv"

	serpapi "github.com/serpapi/google-search-results-golang"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

// serpSearcher is the subset of the SerpAPI client the adapter needs
type serpSearcher interface {
	GetJSON() (serpapi.SearchResult, error)
}

// SerpAPIAdapter implements the WebSearchPort interface using SerpAPI
type SerpAPIAdapter struct {
	config    *config.SearchConfig
	logger    logger.Logger
	newClient func(parameters map[string]string, apiKey string) serpSearcher
}

// NewSerpAPIAdapter creates a new SerpAPIAdapter
func NewSerpAPIAdapter(cfg *config.SearchConfig, log logger.Logger) *SerpAPIAdapter {
	return &SerpAPIAdapter{
		config: cfg,
		logger: log,
		newClient: func(parameters map[string]string, apiKey string) serpSearcher {
			search := serpapi.NewGoogleSearch(parameters, apiKey)
			return &search
		},
	}
}

// Name implements WebSearchPort
func (a *SerpAPIAdapter) Name() string { return "serpapi" }

// Search performs a web search with the given query and returns results
func (a *SerpAPIAdapter) Search(ctx context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	a.logger.Info("Performing SerpAPI web search", "query", req.Query)

	if a.config.SerpAPIKey == "" {
		return nil, fmt.Errorf("SerpAPI key is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The API key goes as the second parameter, not in the map
	parameters := map[string]string{
		"q":             req.Query,
		"engine":        "google",
		"google_domain": "google.com",
		"gl":            "us",
		"hl":            "en",
	}
	if req.MaxResults > 0 {
		parameters["num"] = strconv.Itoa(req.MaxResults)
	}

	data, err := a.newClient(parameters, a.config.SerpAPIKey).GetJSON()
	if err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", err)
	}

	results := parseOrganicResults(data)
	a.logger.Info("SerpAPI web search completed", "results_count", len(results))
	return truncate(results, req.MaxResults), nil
}

// parseOrganicResults maps SerpAPI organic results; a result without a snippet has no content
func parseOrganicResults(data map[string]interface{}) []ports.SearchResult {
	organicResults, ok := data["organic_results"].([]interface{})
	if !ok {
		return []ports.SearchResult{}
	}

	results := make([]ports.SearchResult, 0, len(organicResults))
	for _, result := range organicResults {
		resultMap, ok := result.(map[string]interface{})
		if !ok {
			continue
		}
		searchResult := ports.SearchResult{
			Title: getStringValue(resultMap, "title"),
			URL:   getStringValue(resultMap, "link"),
		}
		if snippet, ok := resultMap["snippet"].(string); ok {
			searchResult.Content = &snippet
		}
		results = append(results, searchResult)
	}
	return results
}

// Helper function to safely extract string values from map
func getStringValue(data map[string]interface{}, key string) string {
	if value, ok := data[key]; ok {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	return ""
}
