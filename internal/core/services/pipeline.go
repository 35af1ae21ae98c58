package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vibin/research-agent/internal/core/domain"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
	"github.com/vibin/research-agent/internal/telemetry"
)

// ErrEmptyQuery is returned by Execute for a blank query
var ErrEmptyQuery = errors.New("query must not be empty")

// Step is one node of the pipeline. Apply must return a new state and must not fail.
type Step interface {
	Name() string
	Apply(ctx context.Context, state domain.ResearchState) domain.ResearchState
}

// Run is the outcome of one pipeline execution
type Run struct {
	ID        string
	State     domain.ResearchState
	Answer    string
	StartedAt time.Time
	Duration  time.Duration
}

// Pipeline runs the research step and then the drafting step
type Pipeline struct {
	steps   []Step
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewPipeline wires research and draft in that fixed order
func NewPipeline(research, draft Step, log logger.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		steps:   []Step{research, draft},
		logger:  log,
		metrics: m,
	}
}

// Invoke passes state through every step in order and returns the terminal state
func (p *Pipeline) Invoke(ctx context.Context, state domain.ResearchState) domain.ResearchState {
	for _, step := range p.steps {
		stepCtx, span := telemetry.Tracer().Start(ctx, "pipeline."+step.Name())
		start := time.Now()

		state = step.Apply(stepCtx, state)

		p.metrics.ObserveStepDuration(step.Name(), time.Since(start))
		span.SetAttributes(
			attribute.Int("research.snippets", len(state.ResearchData)),
			attribute.Int("research.answer_length", len(state.AnswerDraft)),
		)
		span.End()
	}
	return state
}

// Execute runs the pipeline for query and returns the full run record
func (p *Pipeline) Execute(ctx context.Context, query string) (Run, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		p.metrics.ObserveRun("rejected")
		return Run{}, ErrEmptyQuery
	}

	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := p.logger.WithField("run_id", run.ID)

	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(attribute.String("research.run_id", run.ID))

	initial := domain.NewResearchState(query)
	log.Debug("Initial state", "state", initial)

	final := p.Invoke(ctx, initial)
	log.Debug("Final state", "state", final)

	run.State = final
	run.Answer = terminalAnswer(initial, final)
	run.Duration = time.Since(run.StartedAt)

	if domain.IsSentinel(run.Answer) {
		span.SetStatus(codes.Error, run.Answer)
		p.metrics.ObserveRun("degraded")
	} else {
		p.metrics.ObserveRun("completed")
	}
	log.Info("Pipeline run finished", "duration", run.Duration, "answer_length", len(run.Answer))
	return run, nil
}

// Run executes the pipeline and returns the answer text, which is never empty
func (p *Pipeline) Run(ctx context.Context, query string) string {
	run, err := p.Execute(ctx, query)
	if err != nil {
		return domain.EmptyQuerySentinel
	}
	return run.Answer
}

// terminalAnswer checks that the steps carried the state forward before reading the answer
func terminalAnswer(initial, final domain.ResearchState) string {
	if final.Query != initial.Query || len(final.ResearchData) == 0 {
		return fmt.Sprintf("%s Received query %q with %d research items.",
			domain.UnexpectedStatePrefix, final.Query, len(final.ResearchData))
	}
	if final.AnswerDraft == "" {
		return domain.NoAnswerSentinel
	}
	return final.AnswerDraft
}
