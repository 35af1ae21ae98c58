package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// QueryPrompt is shown in front of the query input
const QueryPrompt = "Enter your research query: "

// -- Styles --
var (
	appStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("#25A065")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7D7D"))
)

// Runner answers a research query; the answer is never empty
type Runner interface {
	Run(ctx context.Context, query string) string
}

type state int

const (
	stateInput state = iota
	stateResearching
	stateDone
)

// answerMsg carries the pipeline result back into the update loop
type answerMsg struct {
	query  string
	answer string
}

// model is the bubbletea model for the interactive prompt
type model struct {
	ctx       context.Context
	runner    Runner
	formatter *AnswerFormatter

	state   state
	input   textinput.Model
	spinner spinner.Model

	query  string
	answer string
	hint   string
	// last is the most recent completed answer; it survives starting a new query
	last string
}

func newModel(ctx context.Context, runner Runner, formatter *AnswerFormatter) model {
	ti := textinput.New()
	ti.Prompt = QueryPrompt
	ti.Placeholder = "common cold treatment"
	ti.CharLimit = 0
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		ctx:       ctx,
		runner:    runner,
		formatter: formatter,
		state:     stateInput,
		input:     ti,
		spinner:   s,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}

		switch m.state {
		case stateInput:
			if msg.Type == tea.KeyEnter {
				query := strings.TrimSpace(m.input.Value())
				if query == "" {
					m.hint = "Please type a query first."
					return m, nil
				}
				m.query = query
				m.hint = ""
				m.input.Reset()
				m.state = stateResearching
				return m, tea.Batch(m.spinner.Tick, researchCmd(m.ctx, m.runner, query))
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd

		case stateDone:
			if msg.Type == tea.KeyEnter {
				m.state = stateInput
				m.answer = ""
				return m, textinput.Blink
			}
		}

	case answerMsg:
		m.answer = msg.answer
		m.last = msg.answer
		m.state = stateDone
		return m, nil

	case spinner.TickMsg:
		if m.state == stateResearching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m model) View() string {
	header := titleStyle.Render("Research Agent")

	var content string
	switch m.state {
	case stateInput:
		content = m.input.View()
		if m.hint != "" {
			content += "\n" + hintStyle.Render(m.hint)
		}
	case stateResearching:
		content = fmt.Sprintf("%s Researching %q...", m.spinner.View(), m.query)
	case stateDone:
		content = fmt.Sprintf("%s %s\n\n%s\n\n%s",
			labelStyle.Render("Query:"), m.query,
			labelStyle.Render("Final Answer:"),
			m.formatter.Format(m.answer))
	}

	footer := hintStyle.Render("enter: submit • esc: quit")
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", content, "", footer))
}

func researchCmd(ctx context.Context, runner Runner, query string) tea.Cmd {
	return func() tea.Msg {
		return answerMsg{query: query, answer: runner.Run(ctx, query)}
	}
}
