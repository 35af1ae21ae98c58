package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResearchState(t *testing.T) {
	s := NewResearchState("common cold treatment")

	assert.Equal(t, "common cold treatment", s.Query)
	assert.NotNil(t, s.ResearchData)
	assert.Empty(t, s.ResearchData)
	assert.Empty(t, s.AnswerDraft)
}

func TestWithResearchDataCopiesAndResetsAnswer(t *testing.T) {
	data := []string{"first snippet", "second snippet"}
	s := NewResearchState("q").WithAnswerDraft("stale answer")

	next := s.WithResearchData(data)
	data[0] = "mutated"

	assert.Equal(t, "q", next.Query)
	assert.Equal(t, []string{"first snippet", "second snippet"}, next.ResearchData)
	assert.Empty(t, next.AnswerDraft)
	assert.Equal(t, "stale answer", s.AnswerDraft, "original state must not change")
}

func TestWithAnswerDraftCarriesResearchData(t *testing.T) {
	s := NewResearchState("q").WithResearchData([]string{"snippet"})

	next := s.WithAnswerDraft("answer")
	next.ResearchData[0] = "changed"

	assert.Equal(t, "answer", next.AnswerDraft)
	assert.Equal(t, []string{"snippet"}, s.ResearchData)
	assert.Empty(t, s.AnswerDraft)
}

func TestIsSentinel(t *testing.T) {
	for _, s := range []string{NoAnswerSentinel, CorruptedAnswerSentinel, FetchErrorSentinel, EmptyQuerySentinel} {
		assert.True(t, IsSentinel(s), s)
	}
	assert.True(t, IsSentinel(UnexpectedStatePrefix+" Received query \"\" with 0 research items."))
	assert.False(t, IsSentinel("Rest and fluids help most colds resolve within ten days."))
	assert.False(t, IsSentinel(""))
}
