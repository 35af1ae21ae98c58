package ports

import "context"

// ScoreRequest pairs candidate texts with reference texts by index
type ScoreRequest struct {
	Candidates []string `json:"candidates"`
	References []string `json:"references"`
	Lang       string   `json:"lang"`
	ModelType  string   `json:"model_type"`
}

// Score holds the similarity of one candidate/reference pair
type Score struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ScorerPort is the semantic-similarity oracle used for answer evaluation
type ScorerPort interface {
	Score(ctx context.Context, req ScoreRequest) ([]Score, error)
}
