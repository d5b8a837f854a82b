package parse

import (
	"regexp"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
)

// Answer announcement lines, shared across extractors. The source documents
// are Spanish Moodle exports, but English review pages use the same layout,
// so both phrasings are recognized.
var (
	answerSingleRe = regexp.MustCompile(`(?i)(?:La respuesta correcta es|The correct answer is):\s*`)
	answerMultiRe  = regexp.MustCompile(`(?i)(?:Las respuestas correctas son|The correct answers are):\s*`)
	// answerLineRe marks a line as an answer announcement, used as a
	// boundary when scanning options and sub-items.
	answerLineRe = regexp.MustCompile(`(?i)^(?:La respuesta|Las respuestas|The correct answer)`)
	// answerMultiLineRe anchors the plural announcement at a line start.
	// It ends sub-item scanning; the singular form stays inside an item
	// because there it labels that item's expected answer.
	answerMultiLineRe = regexp.MustCompile(`(?i)^(?:Las respuestas correctas son|The correct answers are):`)

	checkGlyphRe = regexp.MustCompile(`[☑☐✓✗✔]`)
)

// stripGlyphs removes checkmark glyphs and trims the result.
func stripGlyphs(s string) string {
	return strings.TrimSpace(checkGlyphRe.ReplaceAllString(s, ""))
}

func hasCheckGlyph(s string) bool {
	return strings.ContainsAny(s, "☑✓✔")
}

// ExtractContent parses the block text into the kind-specific content
// record. The dispatch is exhaustive over the closed kind set; the sentinel
// unknown (and any undeclared tag, which a valid rule table cannot produce)
// maps to the single explicit no-op fallback.
func ExtractContent(kind model.Kind, text string) any {
	switch kind {
	case model.KindSingleChoice:
		return extractSingleChoice(text)
	case model.KindMultiSelect:
		return extractMultiSelect(text)
	case model.KindMatching:
		return extractMatching(text)
	case model.KindNumeric:
		return extractNumeric(text)
	case model.KindShortAnswerText:
		return extractShortAnswer(text)
	case model.KindClozeLabeled:
		return extractClozeLabeledBlanks(text)
	case model.KindClozeTable:
		return model.ClozeTableContent{Table: nil}
	case model.KindMultipartShort:
		return extractMultipartShortAnswer(text)
	case model.KindExternalMediaRef:
		return model.MediaContent{ReferenceText: text}
	default:
		return model.EmptyContent{}
	}
}

// firstSubmatch returns the first capture group of re's first match in text,
// or "" when there is no match.
func firstSubmatch(re *regexp.Regexp, text string) string {
	groups := re.FindStringSubmatch(text)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

func strPtr(s string) *string { return &s }
