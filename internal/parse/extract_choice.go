package parse

import (
	"regexp"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
)

var (
	optionLineRe = regexp.MustCompile(`^([a-eA-E])\.\s*(.*)$`)
	// singleCorrectRe captures the announced letter for single_choice.
	singleCorrectRe = regexp.MustCompile(`(?i)(?:La respuesta correcta es|The correct answer is):\s*([a-eA-E])\b`)
	// multiCorrectTailRe captures the rest of the plural announcement line.
	multiCorrectTailRe = regexp.MustCompile(`(?i)(?:Las respuestas correctas son|The correct answers are):\s*([^.\n]+)`)
	optionKeyRe        = regexp.MustCompile(`\b([a-eA-E])\b`)
)

// scanOptions collects the lettered option list from the block. An option's
// text runs until the next option marker or the first answer announcement
// line; checkmark glyphs are stripped. Repeated keys (Moodle echoes the
// chosen option after the announcement) keep the first occurrence only.
func scanOptions(text string) []model.Option {
	options := make([]model.Option, 0, 5)
	seen := make(map[string]bool, 5)

	var key string
	var buf []string
	flush := func() {
		if key == "" {
			return
		}
		optText := stripGlyphs(strings.Join(buf, "\n"))
		if optText != "" && !seen[key] {
			seen[key] = true
			options = append(options, model.Option{Key: key, Text: optText})
		}
		key = ""
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if answerLineRe.MatchString(line) {
			break
		}
		if m := optionLineRe.FindStringSubmatch(line); m != nil {
			flush()
			key = strings.ToLower(m[1])
			buf = []string{m[2]}
			continue
		}
		if key != "" {
			buf = append(buf, line)
		}
	}
	flush()
	return options
}

// checkedKeys returns the option letters whose lines carry a checkmark
// glyph anywhere in the block, in line order, deduplicated.
func checkedKeys(text string) []string {
	keys := make([]string, 0, 2)
	seen := make(map[string]bool, 2)
	for _, line := range strings.Split(text, "\n") {
		if !hasCheckGlyph(line) {
			continue
		}
		m := optionLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		k := strings.ToLower(m[1])
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// extractSingleChoice parses options, the single announced correct letter
// and the user's checked option. The correct set is capped at one entry even
// when the announcement lists several.
func extractSingleChoice(text string) model.ChoiceContent {
	content := model.ChoiceContent{
		Options: scanOptions(text),
		Correct: []string{},
		User:    []string{},
	}

	if letter := firstSubmatch(singleCorrectRe, text); letter != "" {
		content.Correct = []string{strings.ToLower(letter)}
	} else if tail := firstSubmatch(multiCorrectTailRe, text); tail != "" {
		// Likely a misclassified multi_select; keep only the first letter.
		if keys := optionKeyRe.FindStringSubmatch(tail); keys != nil {
			content.Correct = []string{strings.ToLower(keys[1])}
		}
	}

	if checked := checkedKeys(text); len(checked) > 0 {
		content.User = checked[:1]
	}
	return content
}

// extractMultiSelect parses options, the announced correct letters and every
// checked option.
func extractMultiSelect(text string) model.ChoiceContent {
	content := model.ChoiceContent{
		Options: scanOptions(text),
		Correct: []string{},
		User:    []string{},
	}

	if tail := firstSubmatch(multiCorrectTailRe, text); tail != "" {
		for _, m := range optionKeyRe.FindAllStringSubmatch(tail, -1) {
			content.Correct = append(content.Correct, strings.ToLower(m[1]))
		}
	}

	content.User = checkedKeys(text)
	return content
}
