package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/core/domain"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
)

// stepFunc lets tests plug arbitrary behaviour into the engine
type stepFunc struct {
	name string
	fn   func(domain.ResearchState) domain.ResearchState
}

func (s stepFunc) Name() string { return s.name }

func (s stepFunc) Apply(_ context.Context, state domain.ResearchState) domain.ResearchState {
	return s.fn(state)
}

func newTestPipeline(t *testing.T, search ports.WebSearchPort, llm ports.LLMPort, m *metrics.Metrics) *Pipeline {
	t.Helper()
	v := config.Variants[config.VariantFactual]
	filter, err := NewFilterPolicy(v.FilterPolicy)
	require.NoError(t, err)

	research := NewResearchStep(search, filter, DefaultMaxResults, logger.Discard(), m)
	draft, err := NewDraftStep(llm, DraftOptions{
		PromptTemplate: v.PromptTemplate,
		Detector:       NewPatternDetector(v.CorruptionPatterns),
	}, logger.Discard(), m)
	require.NoError(t, err)

	return NewPipeline(research, draft, logger.Discard(), m)
}

func coldSnippets() []string {
	out := make([]string, 5)
	for i := range out {
		out[i] = fmt.Sprintf("Source %d: most colds clear up within seven to ten days with rest, fluids and over-the-counter relief.", i+1)
	}
	return out
}

func TestPipelineCommonColdEndToEnd(t *testing.T) {
	const answer = "Rest, stay hydrated and use saline sprays; symptoms usually resolve within ten days."
	snippets := coldSnippets()
	search := &fakeSearch{results: resultsOf(snippets...)}
	llm := &fakeLLM{gen: ports.TextGeneration(answer)}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	run, err := newTestPipeline(t, search, llm, m).Execute(context.Background(), "common cold treatment")
	require.NoError(t, err)

	assert.Equal(t, answer, run.Answer)
	assert.Equal(t, snippets, run.State.ResearchData)
	assert.Equal(t, "common cold treatment", run.State.Query)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())

	require.Len(t, llm.prompts, 1)
	for i, s := range snippets {
		assert.Contains(t, llm.prompts[0].Prompt, fmt.Sprintf("[%d] %s", i+1, s))
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("completed")))
}

func TestPipelineAnswerNeverEmpty(t *testing.T) {
	tests := []struct {
		name   string
		search *fakeSearch
		llm    *fakeLLM
		want   string
	}{
		{
			name:   "no search results still drafts",
			search: &fakeSearch{},
			llm:    &fakeLLM{gen: ports.TextGeneration("General advice.")},
			want:   "General advice.",
		},
		{
			name:   "search error still drafts",
			search: &fakeSearch{err: fmt.Errorf("quota exceeded")},
			llm:    &fakeLLM{gen: ports.TextGeneration("Fallback answer.")},
			want:   "Fallback answer.",
		},
		{
			name:   "corrupted generation",
			search: &fakeSearch{results: resultsOf(coldSnippets()...)},
			llm:    &fakeLLM{gen: ports.TextGeneration("--c2- --c2- --c2-")},
			want:   domain.CorruptedAnswerSentinel,
		},
		{
			name:   "generation error",
			search: &fakeSearch{results: resultsOf(coldSnippets()...)},
			llm:    &fakeLLM{err: fmt.Errorf("timeout")},
			want:   domain.FetchErrorSentinel,
		},
		{
			name:   "both adapters panic",
			search: &fakeSearch{panics: true},
			llm:    &fakeLLM{panics: true},
			want:   domain.FetchErrorSentinel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := newTestPipeline(t, tt.search, tt.llm, nil).Run(context.Background(), "common cold treatment")
			assert.Equal(t, tt.want, answer)
			assert.NotEmpty(t, answer)
			assert.Len(t, tt.llm.prompts, 1, "drafting must always run")
		})
	}
}

func TestPipelinePlaceholdersReachThePrompt(t *testing.T) {
	llm := &fakeLLM{gen: ports.TextGeneration("ok")}
	run, err := newTestPipeline(t, &fakeSearch{err: fmt.Errorf("down")}, llm, nil).Execute(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, []string{domain.SearchErrorPlaceholder}, run.State.ResearchData)
	assert.Contains(t, llm.prompts[0].Prompt, "[1] "+domain.SearchErrorPlaceholder)
}

func TestPipelineRejectsBlankQuery(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	search := &fakeSearch{}
	p := newTestPipeline(t, search, &fakeLLM{}, m)

	_, err := p.Execute(context.Background(), "  \t ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, domain.EmptyQuerySentinel, p.Run(context.Background(), ""))
	assert.Empty(t, search.got, "blank queries must not reach the provider")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("rejected")))
}

func TestPipelineTrimsQuery(t *testing.T) {
	search := &fakeSearch{results: resultsOf(coldSnippets()...)}
	p := newTestPipeline(t, search, &fakeLLM{gen: ports.TextGeneration("ok")}, nil)

	run, err := p.Execute(context.Background(), "  common cold  ")
	require.NoError(t, err)
	assert.Equal(t, "common cold", run.State.Query)
	assert.Equal(t, "common cold", search.got[0].Query)
}

func TestPipelineValidatesTerminalState(t *testing.T) {
	keep := stepFunc{name: "keep", fn: func(s domain.ResearchState) domain.ResearchState {
		return s.WithResearchData([]string{"data"})
	}}

	tests := []struct {
		name  string
		draft Step
		check func(t *testing.T, answer string)
	}{
		{
			name: "query rewritten",
			draft: stepFunc{name: "rewrite", fn: func(s domain.ResearchState) domain.ResearchState {
				return domain.ResearchState{Query: "other", ResearchData: s.ResearchData, AnswerDraft: "x"}
			}},
			check: func(t *testing.T, answer string) {
				assert.True(t, strings.HasPrefix(answer, domain.UnexpectedStatePrefix))
			},
		},
		{
			name: "research data dropped",
			draft: stepFunc{name: "drop", fn: func(s domain.ResearchState) domain.ResearchState {
				return domain.ResearchState{Query: s.Query, AnswerDraft: "x"}
			}},
			check: func(t *testing.T, answer string) {
				assert.True(t, strings.HasPrefix(answer, domain.UnexpectedStatePrefix))
			},
		},
		{
			name: "empty answer",
			draft: stepFunc{name: "noop", fn: func(s domain.ResearchState) domain.ResearchState {
				return s
			}},
			check: func(t *testing.T, answer string) {
				assert.Equal(t, domain.NoAnswerSentinel, answer)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			p := NewPipeline(keep, tt.draft, logger.Discard(), m)

			run, err := p.Execute(context.Background(), "q")
			require.NoError(t, err)
			tt.check(t, run.Answer)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("degraded")))
		})
	}
}

func TestPipelineInvokeOrder(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return stepFunc{name: name, fn: func(s domain.ResearchState) domain.ResearchState {
			order = append(order, name)
			return s
		}}
	}

	NewPipeline(step("research"), step("draft"), logger.Discard(), nil).
		Invoke(context.Background(), domain.NewResearchState("q"))

	assert.Equal(t, []string{"research", "draft"}, order)
}
