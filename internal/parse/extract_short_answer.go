package parse

import (
	"regexp"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
)

var (
	shortExpectedRe = regexp.MustCompile(`(?i)(?:La respuesta correcta es|The correct answer is):\s*([^.\n]+)`)
	shortUserRe     = regexp.MustCompile(`(?i)(?:Respuesta|Answer):\s*([^.\n]+)`)
)

// extractShortAnswer parses the announced answer (comma-split into accepted
// variants) and the user's typed answer.
func extractShortAnswer(text string) model.ShortAnswerContent {
	content := model.ShortAnswerContent{Expected: []string{}}

	if expected := firstSubmatch(shortExpectedRe, text); expected != "" {
		for _, variant := range strings.Split(expected, ",") {
			if v := strings.TrimSpace(variant); v != "" {
				content.Expected = append(content.Expected, v)
			}
		}
	}

	if user := firstSubmatch(shortUserRe, text); user != "" {
		content.User = strPtr(strings.TrimSpace(user))
	}
	return content
}
