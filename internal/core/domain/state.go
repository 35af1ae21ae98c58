package domain

import "strings"

// Placeholders substituted into ResearchData so that it is never empty.
const (
	// MissingContentPlaceholder stands in for a search result without a content field
	MissingContentPlaceholder = "No content available."

	// NoResultsPlaceholder is used when filtering leaves no usable snippets
	NoResultsPlaceholder = "No relevant search results."

	// SearchErrorPlaceholder is used when the search provider fails
	SearchErrorPlaceholder = "Error fetching results"
)

// Sentinels substituted into AnswerDraft in place of a failed or corrupted answer.
const (
	NoAnswerSentinel        = "Error: No answer generated."
	CorruptedAnswerSentinel = "Error: The AI response was corrupted. Please try again."
	FetchErrorSentinel      = "Error fetching response."
	EmptyQuerySentinel      = "Error: Query must not be empty."
)

// ResearchState is the record threaded through the pipeline steps.
// Steps never modify a state in place; they return a new value.
type ResearchState struct {
	Query        string   `json:"query"`
	ResearchData []string `json:"research_data"`
	AnswerDraft  string   `json:"answer_draft"`
}

// NewResearchState creates the initial state for a query
func NewResearchState(query string) ResearchState {
	return ResearchState{
		Query:        query,
		ResearchData: []string{},
		AnswerDraft:  "",
	}
}

// WithResearchData returns a copy of the state holding the given snippets.
// The answer draft is reset because it no longer matches the research data.
func (s ResearchState) WithResearchData(data []string) ResearchState {
	return ResearchState{
		Query:        s.Query,
		ResearchData: cloneStrings(data),
		AnswerDraft:  "",
	}
}

// WithAnswerDraft returns a copy of the state holding the given answer
func (s ResearchState) WithAnswerDraft(answer string) ResearchState {
	return ResearchState{
		Query:        s.Query,
		ResearchData: cloneStrings(s.ResearchData),
		AnswerDraft:  answer,
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// UnexpectedStatePrefix starts the answer returned when a step broke the state contract
const UnexpectedStatePrefix = "Error: Unexpected final state structure."

// IsSentinel reports whether answer is a substituted failure answer rather than generated text
func IsSentinel(answer string) bool {
	switch answer {
	case NoAnswerSentinel, CorruptedAnswerSentinel, FetchErrorSentinel, EmptyQuerySentinel:
		return true
	}
	return strings.HasPrefix(answer, UnexpectedStatePrefix)
}
