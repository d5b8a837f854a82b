package pdftext

import (
	"regexp"
	"strings"
)

var runsOfSpace = regexp.MustCompile(`\s+`)

// Normalize cleans extracted page text for the rule pipeline: non-breaking
// spaces become regular spaces, line endings are unified, whitespace runs
// collapse to single spaces within each trimmed line, and empty lines are
// dropped. Deterministic: equal inputs always produce equal outputs.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = runsOfSpace.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
