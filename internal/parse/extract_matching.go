package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pavelanni/examdoc/internal/model"
)

var (
	matchingAnnounceRe = regexp.MustCompile(`(?is)(?:La respuesta correcta es|The correct answer is):\s*(.+)`)
	domainHintRe       = regexp.MustCompile(`(?i)Asocia\s+las\s+siguientes\s+(\p{L}+)\s+con`)
	// matchingFooterRe recognizes the review-page footer lines that can
	// trail a pair announcement: timestamps, the grading status and the
	// score line. The announcement is cut at the first one.
	matchingFooterRe = regexp.MustCompile(`(?im)^(?:\d{1,2}/\d{1,2}/\d{2,4}\b.*|Se puntúa\b.*|Correcta|Incorrecta|Parcialmente correcta|Correct|Incorrect|Partially correct)\s*$`)
)

const pairMinLen = 3 // shorter sides are assumed to be stray glyph noise

// splitArrow splits "left → right" (or "->") into its sides, reporting
// whether an arrow was present.
func splitArrow(s string) (left, right string, ok bool) {
	idx := strings.Index(s, "→")
	width := len("→")
	if idx < 0 {
		idx = strings.Index(s, "->")
		width = len("->")
	}
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+width:], true
}

func trimPairSide(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'«»`)
}

// extractMatching parses the announced correct pairs and infers the user's
// pairs from adjacent lines where the second carries a checkmark glyph.
func extractMatching(text string) model.MatchingContent {
	content := model.MatchingContent{
		PairsUser:    []model.Pair{},
		PairsCorrect: []model.Pair{},
	}

	if announced := firstSubmatch(matchingAnnounceRe, text); announced != "" {
		if loc := matchingFooterRe.FindStringIndex(announced); loc != nil {
			announced = announced[:loc[0]]
		}
		// Pairs are comma-separated; a comma inside a pair's right side
		// produces a segment without an arrow, which is glued back onto
		// the previous pair.
		for _, seg := range strings.Split(announced, ",") {
			if left, right, ok := splitArrow(seg); ok {
				l, r := trimPairSide(left), trimPairSide(right)
				if l != "" && r != "" {
					content.PairsCorrect = append(content.PairsCorrect, model.Pair{Left: l, Right: r})
				}
				continue
			}
			if n := len(content.PairsCorrect); n > 0 {
				content.PairsCorrect[n-1].Right += ", " + trimPairSide(seg)
			}
		}
	}

	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if !hasCheckGlyph(lines[i]) {
			continue
		}
		left := stripGlyphs(lines[i-1])
		right := stripGlyphs(lines[i])
		if utf8.RuneCountInString(left) < pairMinLen || utf8.RuneCountInString(right) < pairMinLen {
			continue
		}
		pair := model.Pair{Left: left, Right: right}
		if !containsPair(content.PairsUser, pair) {
			content.PairsUser = append(content.PairsUser, pair)
		}
	}

	if hint := firstSubmatch(domainHintRe, text); hint != "" {
		content.DomainHint = strPtr(hint)
	}
	return content
}

func containsPair(pairs []model.Pair, p model.Pair) bool {
	for _, existing := range pairs {
		if existing == p {
			return true
		}
	}
	return false
}
