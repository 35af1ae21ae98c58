package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vibin/research-agent/config"
)

// minSnippetLength is the strict policy's lower bound, in characters
const minSnippetLength = 50

// FilterPolicy decides which search snippets are worth passing to the generator
type FilterPolicy interface {
	Name() string
	Keep(snippet string) bool
}

// StrictFilter drops placeholder snippets and anything 50 characters or shorter
type StrictFilter struct{}

func (StrictFilter) Name() string { return config.FilterStrict }

func (StrictFilter) Keep(snippet string) bool {
	return !strings.Contains(snippet, "No content") && utf8.RuneCountInString(snippet) > minSnippetLength
}

// NonBlankFilter keeps every snippet that has visible text
type NonBlankFilter struct{}

func (NonBlankFilter) Name() string { return config.FilterNonBlank }

func (NonBlankFilter) Keep(snippet string) bool {
	return strings.TrimSpace(snippet) != ""
}

// NewFilterPolicy maps a configured policy name to its implementation
func NewFilterPolicy(name string) (FilterPolicy, error) {
	switch name {
	case config.FilterStrict:
		return StrictFilter{}, nil
	case config.FilterNonBlank:
		return NonBlankFilter{}, nil
	default:
		return nil, fmt.Errorf("unknown filter policy %q", name)
	}
}

// applyFilter returns the snippets the policy keeps, preserving order
func applyFilter(policy FilterPolicy, snippets []string) []string {
	kept := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if policy.Keep(s) {
			kept = append(kept, s)
		}
	}
	return kept
}
