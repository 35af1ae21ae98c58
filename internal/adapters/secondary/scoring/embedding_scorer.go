package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/vibin/research-agent/internal/core/ports"
	"github.com/vibin/research-agent/internal/logger"
)

// EmbeddingScorer approximates BERTScore at sentence level: every sentence of the
// candidate is matched to its closest reference sentence and vice versa.
type EmbeddingScorer struct {
	embedder embeddings.Embedder
	logger   logger.Logger
}

// NewEmbeddingScorer creates a new EmbeddingScorer
func NewEmbeddingScorer(embedder embeddings.Embedder, log logger.Logger) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: embedder, logger: log}
}

// Score implements ScorerPort
func (s *EmbeddingScorer) Score(ctx context.Context, req ports.ScoreRequest) ([]ports.Score, error) {
	if len(req.Candidates) != len(req.References) {
		return nil, fmt.Errorf("got %d candidates and %d references", len(req.Candidates), len(req.References))
	}

	scores := make([]ports.Score, 0, len(req.Candidates))
	for i := range req.Candidates {
		score, err := s.scorePair(ctx, req.Candidates[i], req.References[i])
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}

func (s *EmbeddingScorer) scorePair(ctx context.Context, candidate, reference string) (ports.Score, error) {
	cand := splitSentences(candidate)
	ref := splitSentences(reference)
	if len(cand) == 0 || len(ref) == 0 {
		return ports.Score{}, nil
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, append(append([]string{}, cand...), ref...))
	if err != nil {
		return ports.Score{}, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(cand)+len(ref) {
		return ports.Score{}, fmt.Errorf("embedder returned %d vectors for %d sentences", len(vectors), len(cand)+len(ref))
	}
	candVecs, refVecs := vectors[:len(cand)], vectors[len(cand):]

	precision := greedyMatch(candVecs, refVecs)
	recall := greedyMatch(refVecs, candVecs)
	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	s.logger.Debug("Embedding score", "candidate_sentences", len(cand), "reference_sentences", len(ref), "f1", f1)
	return ports.Score{Precision: precision, Recall: recall, F1: f1}, nil
}

// greedyMatch averages, over from, the best cosine similarity found in to
func greedyMatch(from, to [][]float32) float64 {
	var sum float64
	for _, a := range from {
		best := 0.0
		for _, b := range to {
			if sim := cosine(a, b); sim > best {
				best = sim
			}
		}
		sum += best
	}
	return sum / float64(len(from))
}

// cosine returns the cosine similarity clamped to [0,1]
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, dot/(math.Sqrt(na)*math.Sqrt(nb))))
}

// splitSentences breaks text on sentence punctuation and newlines
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimFunc(p, func(r rune) bool { return unicode.IsSpace(r) || r == '-' || r == '*' || r == '#' })
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
