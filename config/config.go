package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrMissingCredential is returned by Validate when a required API key is absent
var ErrMissingCredential = errors.New("missing credential")

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Search    SearchConfig    `json:"search"`
	LLM       LLMConfig       `json:"llm"`
	Pipeline  PipelineConfig  `json:"pipeline"`
	Scoring   ScoringConfig   `json:"scoring"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port               int     `json:"port"`
	RequestsPerSecond  float64 `json:"requests_per_second"`
	Burst              int     `json:"burst"`
	RequestTimeoutSecs int     `json:"request_timeout_seconds"`
}

// SearchConfig holds configuration for the web search provider
type SearchConfig struct {
	Provider       string `json:"provider"` // "tavily", "serpapi" or "brave"
	Endpoint       string `json:"endpoint,omitempty"`
	TavilyAPIKey   string `json:"tavily_api_key,omitempty"`
	SerpAPIKey     string `json:"serpapi_key,omitempty"`
	BraveAPIKey    string `json:"brave_api_key,omitempty"`
	SearchDepth    string `json:"search_depth"`
	MaxResults     int    `json:"max_results"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// LLMConfig holds configuration for the generation backend
type LLMConfig struct {
	Provider       string  `json:"provider"` // "huggingface", "inference", "huggingface-langchain", "ollama" or "openai"
	Model          string  `json:"model,omitempty"`
	Endpoint       string  `json:"endpoint,omitempty"`
	HuggingFaceKey string  `json:"huggingface_api_key,omitempty"`
	OpenAIKey      string  `json:"openai_api_key,omitempty"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

// PipelineConfig selects a variant and optionally overrides parts of it
type PipelineConfig struct {
	Variant            string   `json:"variant"`
	PromptTemplate     string   `json:"prompt_template,omitempty"`
	FilterPolicy       string   `json:"filter_policy,omitempty"`
	CorruptionPatterns []string `json:"corruption_patterns,omitempty"`
	StructuredField    string   `json:"structured_field"`
}

// ScoringConfig holds configuration for the accuracy evaluator
type ScoringConfig struct {
	Provider          string `json:"provider"` // "bertscore" or "embedding"
	Endpoint          string `json:"endpoint"`
	Lang              string `json:"lang"`
	ModelType         string `json:"model_type"`
	EmbeddingModel    string `json:"embedding_model"`
	EmbeddingEndpoint string `json:"embedding_endpoint,omitempty"` // Ollama server; empty uses the client default
	ReferenceAnswer   string `json:"reference_answer"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled"`
	Endpoint    string `json:"endpoint"`
	Insecure    bool   `json:"insecure"`
	ServiceName string `json:"service_name"`
}

// Timeout converts a seconds setting into a duration, falling back when unset
func Timeout(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			RequestsPerSecond:  1,
			Burst:              5,
			RequestTimeoutSecs: 120,
		},
		Search: SearchConfig{
			Provider:       "tavily",
			SearchDepth:    "basic",
			MaxResults:     5,
			TimeoutSeconds: 15,
		},
		LLM: LLMConfig{
			Provider:       "huggingface",
			MaxNewTokens:   500,
			Temperature:    0.7,
			TimeoutSeconds: 100,
		},
		Pipeline: PipelineConfig{
			Variant:         VariantFactual,
			StructuredField: "generated_text",
		},
		Scoring: ScoringConfig{
			Provider:        "bertscore",
			Endpoint:        "http://localhost:8008",
			Lang:            "en",
			ModelType:       "microsoft/deberta-xlarge-mnli",
			EmbeddingModel:  "nomic-embed-text",
			ReferenceAnswer: DefaultReferenceAnswer,
			TimeoutSeconds:  60,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "research-agent",
		},
	}
}

// DefaultReferenceAnswer is the answer the evaluator compares against when none is given
const DefaultReferenceAnswer = "The common cold is a viral infection that affects the respiratory system, " +
	"typically caused by rhinovirus. Symptoms include congestion, sneezing, sore throat, and mild fatigue. " +
	"Treatment focuses on symptom relief, including decongestants, pain relievers, and hydration."

// ApplyEnv overrides credentials and a few common settings from the environment
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Search.TavilyAPIKey, "TAVILY_API_KEY")
	setFromEnv(&c.Search.SerpAPIKey, "SERPAPI_API_KEY")
	setFromEnv(&c.Search.BraveAPIKey, "BRAVE_API_KEY")
	setFromEnv(&c.LLM.HuggingFaceKey, "HUGGINGFACEHUB_API_KEY")
	setFromEnv(&c.LLM.OpenAIKey, "OPENAI_API_KEY")
	setFromEnv(&c.Search.Provider, "SEARCH_PROVIDER")
	setFromEnv(&c.LLM.Provider, "LLM_PROVIDER")
	setFromEnv(&c.LLM.Model, "LLM_MODEL")
	setFromEnv(&c.Pipeline.Variant, "PIPELINE_VARIANT")
	setFromEnv(&c.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the settings that must hold before the pipeline is built.
// A missing search credential is fatal.
func (c *Config) Validate() error {
	switch c.Search.Provider {
	case "tavily":
		if c.Search.TavilyAPIKey == "" {
			return fmt.Errorf("%w: TAVILY_API_KEY is not set", ErrMissingCredential)
		}
	case "serpapi":
		if c.Search.SerpAPIKey == "" {
			return fmt.Errorf("%w: SERPAPI_API_KEY is not set", ErrMissingCredential)
		}
	case "brave":
		if c.Search.BraveAPIKey == "" {
			return fmt.Errorf("%w: BRAVE_API_KEY is not set", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unknown search provider %q", c.Search.Provider)
	}

	// The inference API accepts anonymous calls, so generation keys stay optional.
	switch c.LLM.Provider {
	case "huggingface", "inference", "huggingface-langchain", "ollama", "openai":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.LLM.MaxNewTokens <= 0 {
		return fmt.Errorf("llm.max_new_tokens must be positive, got %d", c.LLM.MaxNewTokens)
	}
	if _, err := c.ResolveVariant(); err != nil {
		return err
	}
	return nil
}
