package ports

import (
	"context"
)

// GenerationRequest is a single text-generation call
type GenerationRequest struct {
	Prompt       string `json:"prompt"`
	MaxNewTokens int    `json:"max_new_tokens"`
}

// GenerationKind tells which shape a provider answered with
type GenerationKind int

const (
	// GenerationUnknown means the response matched neither known shape
	GenerationUnknown GenerationKind = iota
	// GenerationText means Text holds the plain generated text
	GenerationText
	// GenerationStructured means Fields holds a decoded JSON object
	GenerationStructured
)

// Generation is the raw output of the LLM backend
type Generation struct {
	Kind   GenerationKind
	Text   string
	Fields map[string]any
}

// TextGeneration wraps plain text output
func TextGeneration(text string) Generation {
	return Generation{Kind: GenerationText, Text: text}
}

// StructuredGeneration wraps a decoded JSON object
func StructuredGeneration(fields map[string]any) Generation {
	return Generation{Kind: GenerationStructured, Fields: fields}
}

// LLMPort defines the interface for interacting with the LLM backend
type LLMPort interface {
	// Generate runs the prompt through the model
	Generate(ctx context.Context, req GenerationRequest) (Generation, error)

	// GetModelInfo returns information about the current LLM model
	GetModelInfo(ctx context.Context) (map[string]interface{}, error)
}
