package config

import "fmt"

// Variant names
const (
	VariantFactual    = "factual"
	VariantStructured = "structured"
	VariantConcise    = "concise"
)

// Filter policy names
const (
	FilterStrict   = "strict"
	FilterNonBlank = "nonblank"
)

// DefaultCorruptionPatterns are substrings seen in garbled zephyr output
var DefaultCorruptionPatterns = []string{"--c2-", "( ( (", "< ( ("}

// Variant bundles the settings that distinguish one pipeline flavour from another
type Variant struct {
	Name               string   `json:"name"`
	Model              string   `json:"model"`
	PromptTemplate     string   `json:"prompt_template"`
	FilterPolicy       string   `json:"filter_policy"`
	CorruptionPatterns []string `json:"corruption_patterns"`
}

// Variants holds the built-in pipeline flavours keyed by name
var Variants = map[string]Variant{
	VariantFactual: {
		Name:  VariantFactual,
		Model: "HuggingFaceH4/zephyr-7b-beta",
		PromptTemplate: `You are an AI assistant providing highly accurate, factual answers.
Strictly base your response on the research data provided.
Avoid assumptions and provide structured, well-cited responses.

Research Data:
{{.research_data}}

Output a fact-checked, well-structured response.`,
		FilterPolicy:       FilterStrict,
		CorruptionPatterns: DefaultCorruptionPatterns,
	},
	VariantStructured: {
		Name:  VariantStructured,
		Model: "HuggingFaceH4/zephyr-7b-beta",
		PromptTemplate: `Based on the following research results, generate a structured, insightful answer:

Research Data:
{{.research_data}}

Ensure clarity, credibility, and a well-organized format.`,
		FilterPolicy:       FilterNonBlank,
		CorruptionPatterns: DefaultCorruptionPatterns,
	},
	VariantConcise: {
		Name:  VariantConcise,
		Model: "tiiuae/falcon-7b-instruct",
		PromptTemplate: `Based on the following research results, generate a structured, insightful answer.
Avoid excessive bullet points or repetitive information. Make the answer concise and readable.

Research Data:
{{.research_data}}

Format the answer with short paragraphs and use headings when necessary.`,
		FilterPolicy:       FilterNonBlank,
		CorruptionPatterns: []string{},
	},
}

// ResolveVariant returns the selected variant with explicit overrides applied
func (c *Config) ResolveVariant() (Variant, error) {
	name := c.Pipeline.Variant
	if name == "" {
		name = VariantFactual
	}
	base, ok := Variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown pipeline variant %q", name)
	}

	v := base
	v.CorruptionPatterns = append([]string(nil), base.CorruptionPatterns...)
	if c.LLM.Model != "" {
		v.Model = c.LLM.Model
	}
	if c.Pipeline.PromptTemplate != "" {
		v.PromptTemplate = c.Pipeline.PromptTemplate
	}
	if c.Pipeline.FilterPolicy != "" {
		v.FilterPolicy = c.Pipeline.FilterPolicy
	}
	if c.Pipeline.CorruptionPatterns != nil {
		v.CorruptionPatterns = append([]string(nil), c.Pipeline.CorruptionPatterns...)
	}

	switch v.FilterPolicy {
	case FilterStrict, FilterNonBlank:
	default:
		return Variant{}, fmt.Errorf("unknown filter policy %q", v.FilterPolicy)
	}
	return v, nil
}
