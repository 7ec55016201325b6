package llm

import (
	"regexp"
	"strings"
)

// Phrases from the prompt templates that models occasionally echo back.
// Any line containing one of these is dropped.
var templateEchoPhrases = []string{
	"### Selected text",
	"### Document content",
	"### Theme requirements",
	"Selected text (primary focus)",
	"Document content (consider as a whole)",
	"Document content (for context)",
	"Theme requirements (if any)",
	"You are a professional text",
	"Produce the complete rewritten document",
	"Do not output any extra explanation",
}

var (
	enumeratedItem   = regexp.MustCompile(`^\d+\.`)
	excessiveNewline = regexp.MustCompile(`\n{3,}`)
)

// CleanGeneratedContent strips residual template artifacts a model may have
// echoed: fenced-code delimiters, template boundary phrases, markdown
// heading lines from the requirements block, and enumerated instruction
// items. Runs of three or more newlines collapse to exactly two. The
// function is pure.
func CleanGeneratedContent(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			continue
		}
		if enumeratedItem.MatchString(trimmed) {
			continue
		}
		if containsEchoPhrase(trimmed) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	out := strings.TrimSpace(strings.Join(cleaned, "\n"))
	return excessiveNewline.ReplaceAllString(out, "\n\n")
}

func containsEchoPhrase(line string) bool {
	for _, phrase := range templateEchoPhrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	return false
}
