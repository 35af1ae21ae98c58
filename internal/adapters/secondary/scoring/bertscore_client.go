// Package scoring holds the semantic-similarity backends used by the evaluator.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const defaultTimeout = 60 * time.Second

// bertScoreResponse holds per-pair precision, recall and F1 in request order
type bertScoreResponse struct {
	Precision []float64 `json:"precision"`
	Recall    []float64 `json:"recall"`
	F1        []float64 `json:"f1"`
}

// BERTScoreClient implements ScorerPort against a BERTScore HTTP sidecar
type BERTScoreClient struct {
	endpoint   string
	logger     logger.Logger
	httpClient *http.Client
}

// NewBERTScoreClient creates a new BERTScoreClient
func NewBERTScoreClient(cfg config.ScoringConfig, log logger.Logger) *BERTScoreClient {
	return &BERTScoreClient{
		endpoint: strings.TrimRight(cfg.Endpoint, "/") + "/score",
		logger:   log,
		httpClient: &http.Client{
			Timeout: config.Timeout(cfg.TimeoutSeconds, defaultTimeout),
		},
	}
}

// Score implements ScorerPort
func (c *BERTScoreClient) Score(ctx context.Context, req ports.ScoreRequest) ([]ports.Score, error) {
	if len(req.Candidates) != len(req.References) {
		return nil, fmt.Errorf("got %d candidates and %d references", len(req.Candidates), len(req.References))
	}
	c.logger.Info("Requesting BERTScore", "pairs", len(req.Candidates), "model_type", req.ModelType)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("score request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Scorer returned non-OK status", "status", resp.StatusCode, "body", string(errorBody))
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var out bertScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse score response: %w", err)
	}
	if len(out.F1) != len(req.Candidates) || len(out.Precision) != len(out.F1) || len(out.Recall) != len(out.F1) {
		return nil, fmt.Errorf("scorer returned %d scores for %d pairs", len(out.F1), len(req.Candidates))
	}

	scores := make([]ports.Score, len(out.F1))
	for i := range out.F1 {
		scores[i] = ports.Score{Precision: out.Precision[i], Recall: out.Recall[i], F1: out.F1[i]}
	}
	return scores, nil
}
