package websearch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const (
	braveSearchBaseURL = "https://api.search.brave.com/res/v1/web/search"
	// Brave caps count at 20 per request
	braveMaxCount = 20
)

// BraveSearchResponse represents the response from Brave Search API
type BraveSearchResponse struct {
	Query struct {
		Original string `json:"original"`
	} `json:"query"`
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age,omitempty"`
		} `json:"results"`
		MoreResultsAvailable bool `json:"more_results_available"`
	} `json:"web"`
}

// BraveAdapter implements the WebSearchPort interface using Brave Search API
type BraveAdapter struct {
	config     *config.SearchConfig
	logger     logger.Logger
	endpoint   string
	httpClient *http.Client
}

// NewBraveAdapter creates a new BraveAdapter
func NewBraveAdapter(cfg *config.SearchConfig, log logger.Logger) *BraveAdapter {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = braveSearchBaseURL
	}
	return &BraveAdapter{
		config:     cfg,
		logger:     log,
		endpoint:   endpoint,
		httpClient: newHTTPClient(cfg),
	}
}

// Name implements WebSearchPort
func (a *BraveAdapter) Name() string { return "brave" }

// Search performs a web search with the given query and returns results
func (a *BraveAdapter) Search(ctx context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	a.logger.Info("Performing Brave web search", "query", req.Query)

	if a.config.BraveAPIKey == "" {
		return nil, fmt.Errorf("brave API key is not configured")
	}

	searchURL, err := url.Parse(a.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse brave search URL: %w", err)
	}

	count := req.MaxResults
	if count <= 0 || count > braveMaxCount {
		count = braveMaxCount
	}
	q := searchURL.Query()
	q.Set("q", req.Query)
	q.Set("count", strconv.Itoa(count))
	q.Set("offset", "0")
	searchURL.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create brave search request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	httpReq.Header.Set("X-Subscription-Token", a.config.BraveAPIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("brave search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		a.logger.Error("Brave Search returned non-OK status", "status", resp.StatusCode, "body", string(errorBody))
		return nil, fmt.Errorf("brave search returned status %d", resp.StatusCode)
	}

	// Setting Accept-Encoding by hand turns off transparent decompression
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var braveResp BraveSearchResponse
	if err := json.NewDecoder(reader).Decode(&braveResp); err != nil {
		return nil, fmt.Errorf("failed to parse brave search response: %w", err)
	}

	results := make([]ports.SearchResult, 0, len(braveResp.Web.Results))
	for _, r := range braveResp.Web.Results {
		result := ports.SearchResult{
			Title: r.Title,
			URL:   r.URL,
		}
		if r.Description != "" {
			description := r.Description
			result.Content = &description
		}
		results = append(results, result)
	}

	a.logger.Info("Brave web search completed", "results_count", len(results))
	return truncate(results, req.MaxResults), nil
}
