package services

import (
	"context"
	"fmt"

	"github.com/vibin/research-agent/internal/core/domain"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
)

// StepResearch is the name of the search step
const StepResearch = "research"

// DefaultMaxResults is how many results the research step asks for
const DefaultMaxResults = 5

// ResearchStep fills ResearchData from the web search provider
type ResearchStep struct {
	search     ports.WebSearchPort
	filter     FilterPolicy
	maxResults int
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewResearchStep creates a new ResearchStep
func NewResearchStep(search ports.WebSearchPort, filter FilterPolicy, maxResults int, log logger.Logger, m *metrics.Metrics) *ResearchStep {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &ResearchStep{
		search:     search,
		filter:     filter,
		maxResults: maxResults,
		logger:     log,
		metrics:    m,
	}
}

// Name implements Step
func (s *ResearchStep) Name() string { return StepResearch }

// Apply searches for state.Query and returns a state carrying the filtered snippets.
// It never fails: provider errors become the search-error placeholder.
func (s *ResearchStep) Apply(ctx context.Context, state domain.ResearchState) (next domain.ResearchState) {
	s.logger.Info("Researching", "query", state.Query, "provider", s.search.Name())

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Search provider panicked", "provider", s.search.Name(), "panic", fmt.Sprint(r))
			s.metrics.ObserveStep(StepResearch, metrics.OutcomeSearchError)
			next = state.WithResearchData([]string{domain.SearchErrorPlaceholder})
		}
	}()

	results, err := s.search.Search(ctx, ports.SearchRequest{
		Query:      state.Query,
		MaxResults: s.maxResults,
	})
	if err != nil {
		s.logger.Error("Search provider error", "provider", s.search.Name(), "error", err)
		s.metrics.ObserveStep(StepResearch, metrics.OutcomeSearchError)
		return state.WithResearchData([]string{domain.SearchErrorPlaceholder})
	}

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Text())
	}

	kept := applyFilter(s.filter, snippets)
	if len(kept) == 0 {
		s.logger.Warn("No useful search results found", "results", len(results), "filter", s.filter.Name())
		s.metrics.ObserveStep(StepResearch, metrics.OutcomeNoResults)
		return state.WithResearchData([]string{domain.NoResultsPlaceholder})
	}

	s.logger.Info("Research completed", "results", len(results), "kept", len(kept))
	s.metrics.ObserveStep(StepResearch, metrics.OutcomeOK)
	return state.WithResearchData(kept)
}
