package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
)

// ErrNoScores is returned when the scorer answers without any score
var ErrNoScores = errors.New("scorer returned no scores")

// Evaluator measures answer quality against a reference answer.
// It is a standalone utility and takes no part in the pipeline.
type Evaluator struct {
	scorer    ports.ScorerPort
	lang      string
	modelType string
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewEvaluator creates a new Evaluator
func NewEvaluator(scorer ports.ScorerPort, lang, modelType string, log logger.Logger, m *metrics.Metrics) *Evaluator {
	return &Evaluator{
		scorer:    scorer,
		lang:      lang,
		modelType: modelType,
		logger:    log,
		metrics:   m,
	}
}

// Evaluate returns the mean F1 similarity of predicted against reference, in [0,1]
func (e *Evaluator) Evaluate(ctx context.Context, predicted, reference string) (float64, error) {
	e.logger.Info("Evaluating answer", "model_type", e.modelType)

	scores, err := e.scorer.Score(ctx, ports.ScoreRequest{
		Candidates: []string{predicted},
		References: []string{reference},
		Lang:       e.lang,
		ModelType:  e.modelType,
	})
	if err != nil {
		return 0, fmt.Errorf("score answer: %w", err)
	}
	if len(scores) == 0 {
		return 0, ErrNoScores
	}

	var sum float64
	for _, s := range scores {
		sum += s.F1
	}
	mean := clamp01(sum / float64(len(scores)))

	e.metrics.ObserveScore(mean)
	e.logger.Info("Evaluation finished", "f1", mean)
	return mean, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
