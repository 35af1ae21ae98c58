package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

const inferenceBaseURL = "https://api-inference.huggingface.co/models/"

type inferenceParameters struct {
	MaxNewTokens   int      `json:"max_new_tokens"`
	Temperature    *float64 `json:"temperature,omitempty"`
	ReturnFullText bool     `json:"return_full_text"`
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

// InferenceAdapter calls the Hugging Face text-generation inference API directly.
// Unlike the langchaingo client it keeps the raw response shape, which may be a
// bare string, an object or a list of objects depending on the deployment.
type InferenceAdapter struct {
	config     config.LLMConfig
	url        string
	logger     logger.Logger
	httpClient *http.Client
}

// NewInferenceAdapter creates a new InferenceAdapter
func NewInferenceAdapter(cfg config.LLMConfig, log logger.Logger) *InferenceAdapter {
	url := cfg.Endpoint
	if url == "" {
		url = inferenceBaseURL + cfg.Model
	}
	log.Info("Initializing inference adapter", "url", url, "authenticated", cfg.HuggingFaceKey != "")

	return &InferenceAdapter{
		config: cfg,
		url:    url,
		logger: log,
		httpClient: &http.Client{
			Timeout: config.Timeout(cfg.TimeoutSeconds, defaultTimeout),
		},
	}
}

// Generate posts the prompt and decodes whichever shape the endpoint answers with
func (a *InferenceAdapter) Generate(ctx context.Context, req ports.GenerationRequest) (ports.Generation, error) {
	a.logger.Info("Generating response with inference API", "model", a.config.Model)

	maxTokens := req.MaxNewTokens
	if maxTokens <= 0 {
		maxTokens = a.config.MaxNewTokens
	}
	params := inferenceParameters{MaxNewTokens: maxTokens}
	if a.config.Temperature > 0 {
		t := a.config.Temperature
		params.Temperature = &t
	}

	body, err := json.Marshal(inferenceRequest{Inputs: req.Prompt, Parameters: params})
	if err != nil {
		return ports.Generation{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return ports.Generation{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.config.HuggingFaceKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.config.HuggingFaceKey)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return ports.Generation{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Generation{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		a.logger.Error("Received error response", "status", resp.Status, "body", truncateBody(raw))
		return ports.Generation{}, fmt.Errorf("received error response: %s", resp.Status)
	}

	return decodeGeneration(raw), nil
}

// decodeGeneration maps the response body onto a Generation. A list answer is
// reduced to its first object; anything unrecognised is GenerationUnknown.
func decodeGeneration(raw []byte) ports.Generation {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ports.Generation{Kind: ports.GenerationUnknown}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ports.TextGeneration(text)
	}

	var object map[string]any
	if err := json.Unmarshal(raw, &object); err == nil && object != nil {
		return ports.StructuredGeneration(object)
	}

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0] != nil {
		return ports.StructuredGeneration(list[0])
	}

	return ports.Generation{Kind: ports.GenerationUnknown}
}

// GetModelInfo returns information about the current LLM model
func (a *InferenceAdapter) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	info := modelInfo("inference", a.config)
	info["endpoint"] = a.url
	return info, nil
}

func truncateBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
