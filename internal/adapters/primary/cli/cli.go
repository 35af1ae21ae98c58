// Package cli is the terminal front end of the research agent.
package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive prompt and blocks until the user quits.
// It returns the last completed answer; a query still in flight on quit is cancelled.
func Run(ctx context.Context, runner Runner, in io.Reader, out io.Writer) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newModel(ctx, runner, NewAnswerFormatter()),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(model)
	if !ok {
		return "", nil
	}
	return m.last, nil
}

// RunOnce answers a single query without the interactive prompt
func RunOnce(ctx context.Context, runner Runner, query string, out io.Writer) (string, error) {
	answer := runner.Run(ctx, query)
	if _, err := fmt.Fprintf(out, "\nFinal Answer:\n%s\n", NewAnswerFormatter().Format(answer)); err != nil {
		return answer, err
	}
	return answer, nil
}
