package services

import (
	"context"

	"github.com/vibin/research-agent/internal/core/ports"
)

type fakeSearch struct {
	results []ports.SearchResult
	err     error
	panics  bool
	got     []ports.SearchRequest
}

func (f *fakeSearch) Name() string { return "fake" }

func (f *fakeSearch) Search(ctx context.Context, req ports.SearchRequest) ([]ports.SearchResult, error) {
	f.got = append(f.got, req)
	if f.panics {
		panic("search exploded")
	}
	return f.results, f.err
}

type fakeLLM struct {
	gen     ports.Generation
	err     error
	panics  bool
	prompts []ports.GenerationRequest
}

func (f *fakeLLM) Generate(ctx context.Context, req ports.GenerationRequest) (ports.Generation, error) {
	f.prompts = append(f.prompts, req)
	if f.panics {
		panic("llm exploded")
	}
	return f.gen, f.err
}

func (f *fakeLLM) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"name": "fake"}, nil
}

type fakeScorer struct {
	scores []ports.Score
	err    error
	got    ports.ScoreRequest
}

func (f *fakeScorer) Score(ctx context.Context, req ports.ScoreRequest) ([]ports.Score, error) {
	f.got = req
	return f.scores, f.err
}

func content(s string) *string { return &s }

func resultsOf(texts ...string) []ports.SearchResult {
	out := make([]ports.SearchResult, len(texts))
	for i, t := range texts {
		out[i] = ports.SearchResult{Title: "result", URL: "https://example.com", Content: content(t)}
	}
	return out
}
