package cli

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vibin/research-agent/internal/core/domain"
)

var (
	h1Regex           = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	h2Regex           = regexp.MustCompile(`(?m)^#{2,}[ \t]+(.+)$`)
	bulletRegex       = regexp.MustCompile(`(?m)^[ \t]*[\*\-][ \t]+(.+)$`)
	numberedRegex     = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]+(.+)$`)
	markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRegex         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	noteRegex         = regexp.MustCompile(`(?im)^(Note|Warning|Tip|Important):(.*)$`)
	citationRegex     = regexp.MustCompile(`\[(\d+)\]`)
)

// AnswerFormatter renders a generated answer for the terminal
type AnswerFormatter struct {
	heading    lipgloss.Style
	subheading lipgloss.Style
	bullet     lipgloss.Style
	number     lipgloss.Style
	link       lipgloss.Style
	strong     lipgloss.Style
	note       lipgloss.Style
	citation   lipgloss.Style
	failure    lipgloss.Style
}

// NewAnswerFormatter creates a new AnswerFormatter
func NewAnswerFormatter() *AnswerFormatter {
	return &AnswerFormatter{
		heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("#25A065")).Bold(true).Underline(true),
		subheading: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		bullet:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		number:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		link:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		strong:     lipgloss.NewStyle().Bold(true),
		note:       lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")).Bold(true),
		citation:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7D7D")),
		failure:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")),
	}
}

// Format applies terminal styling to the markdown-ish structure models tend to emit.
// Sentinel answers are shown as errors and otherwise left alone.
func (f *AnswerFormatter) Format(answer string) string {
	if domain.IsSentinel(answer) {
		return f.failure.Render(answer)
	}

	result := answer
	result = f.formatHeadings(result)
	result = f.formatLists(result)
	result = f.formatInline(result)
	result = f.formatNotes(result)
	return strings.TrimRight(result, "\n")
}

// formatHeadings styles "# Heading" and deeper heading levels
func (f *AnswerFormatter) formatHeadings(message string) string {
	message = h2Regex.ReplaceAllStringFunc(message, func(match string) string {
		return f.subheading.Render(h2Regex.FindStringSubmatch(match)[1])
	})
	message = h1Regex.ReplaceAllStringFunc(message, func(match string) string {
		return f.heading.Render(h1Regex.FindStringSubmatch(match)[1])
	})
	return message
}

// formatLists renders "- item" and "* item" as styled "-" bullets and highlights list numbers
func (f *AnswerFormatter) formatLists(message string) string {
	message = bulletRegex.ReplaceAllStringFunc(message, func(match string) string {
		return "  " + f.bullet.Render("-") + " " + bulletRegex.FindStringSubmatch(match)[1]
	})
	message = numberedRegex.ReplaceAllStringFunc(message, func(match string) string {
		sub := numberedRegex.FindStringSubmatch(match)
		return "  " + f.number.Render(sub[1]+".") + " " + sub[2]
	})
	return message
}

// formatInline handles links, bold text and [n] citations of research snippets
func (f *AnswerFormatter) formatInline(message string) string {
	message = markdownLinkRegex.ReplaceAllStringFunc(message, func(match string) string {
		sub := markdownLinkRegex.FindStringSubmatch(match)
		return sub[1] + " (" + f.link.Render(sub[2]) + ")"
	})
	message = boldRegex.ReplaceAllStringFunc(message, func(match string) string {
		return f.strong.Render(boldRegex.FindStringSubmatch(match)[1])
	})
	message = citationRegex.ReplaceAllStringFunc(message, func(match string) string {
		return f.citation.Render(match)
	})
	return message
}

// formatNotes highlights note, warning, tip and important lines
func (f *AnswerFormatter) formatNotes(message string) string {
	return noteRegex.ReplaceAllStringFunc(message, func(match string) string {
		sub := noteRegex.FindStringSubmatch(match)
		return f.note.Render(sub[1]+":") + sub[2]
	})
}
