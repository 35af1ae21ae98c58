package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/vibin/research-agent/internal/core/domain"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
)

// StepDraft is the name of the generation step
const StepDraft = "draft"

// DefaultMaxNewTokens bounds the generated answer
const DefaultMaxNewTokens = 500

// DefaultStructuredField is where structured responses keep the generated text
const DefaultStructuredField = "generated_text"

// DraftOptions configures a DraftStep
type DraftOptions struct {
	PromptTemplate  string
	MaxNewTokens    int
	StructuredField string
	Detector        CorruptionDetector
}

// DraftStep asks the LLM for an answer grounded in the research data
type DraftStep struct {
	llm             ports.LLMPort
	template        prompts.PromptTemplate
	maxNewTokens    int
	structuredField string
	detector        CorruptionDetector
	logger          logger.Logger
	metrics         *metrics.Metrics
}

// NewPromptTemplate parses a Go-template prompt that may use {{.query}} and {{.research_data}}
func NewPromptTemplate(text string) (prompts.PromptTemplate, error) {
	if strings.TrimSpace(text) == "" {
		return prompts.PromptTemplate{}, fmt.Errorf("prompt template is empty")
	}
	tmpl := prompts.NewPromptTemplate(text, []string{"query", "research_data"})
	if _, err := tmpl.Format(map[string]any{"query": "q", "research_data": "d"}); err != nil {
		return prompts.PromptTemplate{}, fmt.Errorf("invalid prompt template: %w", err)
	}
	return tmpl, nil
}

// NewDraftStep creates a new DraftStep
func NewDraftStep(llm ports.LLMPort, opts DraftOptions, log logger.Logger, m *metrics.Metrics) (*DraftStep, error) {
	tmpl, err := NewPromptTemplate(opts.PromptTemplate)
	if err != nil {
		return nil, err
	}
	if opts.MaxNewTokens <= 0 {
		opts.MaxNewTokens = DefaultMaxNewTokens
	}
	if opts.StructuredField == "" {
		opts.StructuredField = DefaultStructuredField
	}
	if opts.Detector == nil {
		opts.Detector = NewPatternDetector(nil)
	}
	return &DraftStep{
		llm:             llm,
		template:        tmpl,
		maxNewTokens:    opts.MaxNewTokens,
		structuredField: opts.StructuredField,
		detector:        opts.Detector,
		logger:          log,
		metrics:         m,
	}, nil
}

// Name implements Step
func (s *DraftStep) Name() string { return StepDraft }

// Apply generates, sanitizes and validates an answer. It never fails: provider
// errors and corrupted output are replaced by sentinel answers.
func (s *DraftStep) Apply(ctx context.Context, state domain.ResearchState) (next domain.ResearchState) {
	s.logger.Info("Generating answer", "snippets", len(state.ResearchData))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("LLM backend panicked", "panic", fmt.Sprint(r))
			s.metrics.ObserveStep(StepDraft, metrics.OutcomeGenerationError)
			next = state.WithAnswerDraft(domain.FetchErrorSentinel)
		}
	}()

	prompt, err := s.template.Format(map[string]any{
		"query":         state.Query,
		"research_data": FormatResearchData(state.ResearchData),
	})
	if err != nil {
		s.logger.Error("Failed to render prompt", "error", err)
		s.metrics.ObserveStep(StepDraft, metrics.OutcomeGenerationError)
		return state.WithAnswerDraft(domain.FetchErrorSentinel)
	}

	gen, err := s.llm.Generate(ctx, ports.GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: s.maxNewTokens,
	})
	if err != nil {
		s.logger.Error("LLM backend error", "error", err)
		s.metrics.ObserveStep(StepDraft, metrics.OutcomeGenerationError)
		return state.WithAnswerDraft(domain.FetchErrorSentinel)
	}
	s.logger.Debug("Raw generation", "kind", gen.Kind, "text", gen.Text)

	text, ok := s.extract(gen)
	if !ok {
		s.logger.Warn("Unrecognized generation shape", "kind", gen.Kind)
		s.metrics.ObserveStep(StepDraft, metrics.OutcomeNoAnswer)
		return state.WithAnswerDraft(domain.NoAnswerSentinel)
	}

	answer := Sanitize(text)
	if answer == "" || s.detector.Corrupted(answer) {
		s.logger.Warn("Invalid AI response detected", "length", len(text))
		s.metrics.ObserveStep(StepDraft, metrics.OutcomeCorrupted)
		return state.WithAnswerDraft(domain.CorruptedAnswerSentinel)
	}

	s.metrics.ObserveStep(StepDraft, metrics.OutcomeOK)
	return state.WithAnswerDraft(answer)
}

// extract pulls the answer text out of either response shape. A structured
// response without the field yields "", which the corruption check rejects.
func (s *DraftStep) extract(gen ports.Generation) (string, bool) {
	switch gen.Kind {
	case ports.GenerationText:
		return gen.Text, true
	case ports.GenerationStructured:
		text, _ := gen.Fields[s.structuredField].(string)
		return text, true
	default:
		return "", false
	}
}

// FormatResearchData renders the snippets as a numbered list for the prompt
func FormatResearchData(data []string) string {
	var sb strings.Builder
	for i, snippet := range data {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("[%d] %s", i+1, snippet))
	}
	return sb.String()
}
