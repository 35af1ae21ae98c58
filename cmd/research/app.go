package main

import (
	"fmt"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/adapters/secondary/llm"
	"github.com/vibin/research-agent/internal/adapters/secondary/scoring"
	"github.com/vibin/research-agent/internal/adapters/secondary/websearch"
	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/core/services"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
)

// app holds the wired components
type app struct {
	pipeline  *services.Pipeline
	evaluator *services.Evaluator
	llm       ports.LLMPort
}

// buildApp constructs adapters, steps and services from a validated config
func buildApp(cfg *config.Config, log logger.Logger, m *metrics.Metrics) (*app, error) {
	variant, err := cfg.ResolveVariant()
	if err != nil {
		return nil, err
	}
	log.Info("Using pipeline variant", "variant", variant.Name, "model", variant.Model, "filter", variant.FilterPolicy)

	search, err := websearch.New(&cfg.Search, log)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	llmCfg := cfg.LLM
	llmCfg.Model = variant.Model
	generator, err := llm.New(llmCfg, log)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	filter, err := services.NewFilterPolicy(variant.FilterPolicy)
	if err != nil {
		return nil, err
	}
	research := services.NewResearchStep(search, filter, cfg.Search.MaxResults, log.WithField("step", services.StepResearch), m)

	draft, err := services.NewDraftStep(generator, services.DraftOptions{
		PromptTemplate:  variant.PromptTemplate,
		MaxNewTokens:    cfg.LLM.MaxNewTokens,
		StructuredField: cfg.Pipeline.StructuredField,
		Detector:        services.NewPatternDetector(variant.CorruptionPatterns),
	}, log.WithField("step", services.StepDraft), m)
	if err != nil {
		return nil, fmt.Errorf("draft step: %w", err)
	}

	scorer, err := scoring.New(cfg.Scoring, log)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	return &app{
		pipeline:  services.NewPipeline(research, draft, log, m),
		evaluator: services.NewEvaluator(scorer, cfg.Scoring.Lang, cfg.Scoring.ModelType, log, m),
		llm:       generator,
	}, nil
}
