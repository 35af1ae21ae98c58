package services

import "strings"

// CorruptionDetector flags generated text that looks garbled or truncated.
// Detection is best-effort: a clean result is not a guarantee of a correct answer.
type CorruptionDetector interface {
	Corrupted(text string) bool
}

// DetectorFunc adapts a function to CorruptionDetector
type DetectorFunc func(text string) bool

func (f DetectorFunc) Corrupted(text string) bool { return f(text) }

// PatternDetector reports text containing the Unicode replacement character or
// any of a list of known garbage substrings
type PatternDetector struct {
	patterns []string
}

// NewPatternDetector creates a detector for the given substrings; empty patterns are ignored
func NewPatternDetector(patterns []string) *PatternDetector {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &PatternDetector{patterns: kept}
}

// Corrupted implements CorruptionDetector
func (d *PatternDetector) Corrupted(text string) bool {
	if strings.ContainsRune(text, '\uFFFD') {
		return true
	}
	for _, p := range d.patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
