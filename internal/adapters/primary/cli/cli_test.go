package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibin/research-agent/internal/core/domain"
)

type fakeRunner struct {
	answer  string
	queries []string
}

func (f *fakeRunner) Run(ctx context.Context, query string) string {
	f.queries = append(f.queries, query)
	return f.answer
}

func TestFormatterStructure(t *testing.T) {
	f := NewAnswerFormatter()
	out := f.Format("# Treatment\n## Home care\n- Rest\n* Fluids\n1. Saline spray\nSee [CDC](https://cdc.gov) **today** [2]\nNote: see a doctor if fever persists")

	assert.Contains(t, out, "Treatment")
	assert.NotContains(t, out, "# Treatment")
	assert.NotContains(t, out, "## Home care")
	assert.NotContains(t, out, "•")
	assert.Contains(t, out, "  - Rest")
	assert.Contains(t, out, "  - Fluids")
	assert.Contains(t, out, "1.")
	assert.Contains(t, out, "CDC (")
	assert.Contains(t, out, "https://cdc.gov")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "see a doctor if fever persists")
}

func TestFormatterKeepsBlankLines(t *testing.T) {
	out := NewAnswerFormatter().Format("Intro\n\n- item")
	assert.True(t, strings.HasPrefix(out, "Intro\n\n"), out)
}

func TestFormatterSentinel(t *testing.T) {
	out := NewAnswerFormatter().Format(domain.CorruptedAnswerSentinel)
	assert.Contains(t, out, domain.CorruptedAnswerSentinel)
}

func TestRunOnce(t *testing.T) {
	runner := &fakeRunner{answer: "Rest and fluids."}
	var buf bytes.Buffer

	answer, err := RunOnce(context.Background(), runner, "common cold", &buf)
	require.NoError(t, err)

	assert.Equal(t, "Rest and fluids.", answer)
	assert.Equal(t, []string{"common cold"}, runner.queries)
	assert.Contains(t, buf.String(), "Final Answer:")
	assert.Contains(t, buf.String(), "Rest and fluids.")
}

func typed(m model, s string) model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	return m
}

func TestModelSubmitsQuery(t *testing.T) {
	runner := &fakeRunner{answer: "Drink water."}
	m := newModel(context.Background(), runner, NewAnswerFormatter())
	assert.Contains(t, m.View(), QueryPrompt)

	m = typed(m, "  common cold ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	require.NotNil(t, cmd)
	assert.Equal(t, stateResearching, m.state)
	assert.Equal(t, "common cold", m.query)

	msg := researchCmd(context.Background(), runner, m.query)()
	next, _ = m.Update(msg)
	m = next.(model)

	assert.Equal(t, stateDone, m.state)
	assert.Equal(t, []string{"common cold"}, runner.queries)
	assert.Contains(t, m.View(), "Drink water.")
	assert.Contains(t, m.View(), "Final Answer:")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateInput, next.(model).state)
	assert.Equal(t, "Drink water.", next.(model).last)
}

func TestModelRejectsBlankQuery(t *testing.T) {
	runner := &fakeRunner{}
	m := newModel(context.Background(), runner, NewAnswerFormatter())

	m = typed(m, "   ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	assert.Nil(t, cmd)
	assert.Equal(t, stateInput, m.state)
	assert.Contains(t, m.View(), "Please type a query first.")
	assert.Empty(t, runner.queries)
}

func TestModelQuits(t *testing.T) {
	m := newModel(context.Background(), &fakeRunner{}, NewAnswerFormatter())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// blockingRunner holds each query until its context is cancelled
type blockingRunner struct {
	started   chan struct{}
	cancelled chan error
}

func (b *blockingRunner) Run(ctx context.Context, query string) string {
	close(b.started)
	<-ctx.Done()
	b.cancelled <- ctx.Err()
	return "late answer"
}

func TestRunCancelsQueryOnQuit(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), cancelled: make(chan error, 1)}
	in, keys := io.Pipe()
	defer keys.Close()

	go func() {
		_, _ = keys.Write([]byte("common cold"))
		_, _ = keys.Write([]byte("\r"))
		<-runner.started
		_, _ = keys.Write([]byte{0x03})
	}()

	var out bytes.Buffer
	answer, err := Run(context.Background(), runner, in, &out)
	require.NoError(t, err)
	assert.Empty(t, answer)

	select {
	case err := <-runner.cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("query was not cancelled after quit")
	}
}
