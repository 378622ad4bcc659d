package relay

import (
	"regexp"
	"strings"
)

type markdownRule struct {
	re   *regexp.Regexp
	repl string
}

// Order matters: bold before italics, fenced blocks before inline code, rules before list markers.
var markdownRules = []markdownRule{
	{regexp.MustCompile(`\*\*(.*?)\*\*|__(.*?)__`), "${1}${2}"},
	{regexp.MustCompile(`\*(.*?)\*|_(.*?)_`), "${1}${2}"},
	{regexp.MustCompile(`(?m)^#+\s*(.*)$`), "${1}"},
	{regexp.MustCompile("```[\\s\\S]*?```"), ""},
	{regexp.MustCompile("`(.*?)`"), "${1}"},
	{regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`), ""},
	{regexp.MustCompile(`(?m)^[*\-+]\s*(.*)$`), "${1}"},
	{regexp.MustCompile(`(?m)^\d+\.\s*(.*)$`), "${1}"},
	{regexp.MustCompile(`(?m)^>\s*(.*)$`), "${1}"},
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// StripMarkdown reduces a model response to plain text: emphasis, headings, code, list
// markers, quotes and rules are removed, lines are trimmed and blank runs collapsed.
func StripMarkdown(text string) string {
	for _, rule := range markdownRules {
		text = rule.re.ReplaceAllString(text, rule.repl)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	return blankRuns.ReplaceAllString(text, "\n\n")
}
