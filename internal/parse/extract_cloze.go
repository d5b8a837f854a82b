package parse

import (
	"regexp"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
)

var (
	blankLabelRe = regexp.MustCompile(`^([A-Za-z]{1,4})\s*:\s*(.*)$`)
	// blankAnswerRe pulls "LABEL: value" (or "LABEL → value") entries out of
	// the announced correct-answer section.
	blankAnswerRe   = regexp.MustCompile(`([A-Za-z]{1,4})\s*[:\-→]\s*([^,]+)`)
	clozeAnnounceRe = regexp.MustCompile(`(?is)(?:La respuesta correcta es|The correct answer is):\s*(.+)`)
)

// extractClozeLabeledBlanks scans for short labeled blanks ("TP: 12" and the
// like), keeping one record per label in first-seen order. A checkmark glyph
// on the value marks it as the user's answer rather than the expected one.
// A second pass over the announced correct-answer section fills expected
// values that are still missing.
func extractClozeLabeledBlanks(text string) model.ClozeBlanksContent {
	content := model.ClozeBlanksContent{Blanks: []model.LabeledBlank{}}
	index := make(map[string]int)

	add := func(label string, expected, user *string) {
		i, ok := index[label]
		if !ok {
			index[label] = len(content.Blanks)
			content.Blanks = append(content.Blanks, model.LabeledBlank{Label: label, Expected: expected, User: user})
			return
		}
		if expected != nil && content.Blanks[i].Expected == nil {
			content.Blanks[i].Expected = expected
		}
		if user != nil && content.Blanks[i].User == nil {
			content.Blanks[i].User = user
		}
	}

	// First pass: labeled lines in the body. A blank's value runs until the
	// next label line or an answer announcement.
	lines := strings.Split(text, "\n")
	var label string
	var buf []string
	flush := func() {
		if label == "" {
			return
		}
		raw := strings.Join(buf, "\n")
		value := stripGlyphs(raw)
		if value != "" {
			if hasCheckGlyph(raw) {
				add(label, nil, strPtr(value))
			} else {
				add(label, strPtr(value), nil)
			}
		}
		label = ""
		buf = nil
	}
	for _, line := range lines {
		if answerLineRe.MatchString(line) {
			flush()
			break
		}
		if m := blankLabelRe.FindStringSubmatch(line); m != nil {
			flush()
			label = m[1]
			buf = []string{m[2]}
			continue
		}
		if label != "" {
			buf = append(buf, line)
		}
	}
	flush()

	// Second pass: announced correct answers supply missing expected values.
	if announced := firstSubmatch(clozeAnnounceRe, text); announced != "" {
		for _, m := range blankAnswerRe.FindAllStringSubmatch(announced, -1) {
			value := strings.Trim(strings.TrimSpace(m[2]), `"'«»`)
			if value != "" {
				add(m[1], strPtr(value), nil)
			}
		}
	}
	return content
}
