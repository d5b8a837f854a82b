package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
	"github.com/pavelanni/examdoc/internal/rules"
)

// Feedback openers, tried in order. These are structural Moodle phrases, not
// rule-table material: they introduce the instructor's feedback paragraph.
var feedbackRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)¡Correcto!.*`),
	regexp.MustCompile(`(?is)¡Incorrecto!.*`),
	regexp.MustCompile(`(?is)Efectivamente.*`),
	regexp.MustCompile(`(?is)No existe.*`),
}

// maxFeedbackLen guards against an opener swallowing the rest of the block.
const maxFeedbackLen = 500

// ExtractGrading pulls status, scores, penalty text and feedback from the
// block text using the table's patterns. Pure and total: anything that does
// not parse stays null. Awarded and max scores are set together or not at
// all.
func ExtractGrading(t *rules.Table, text string) *model.Grading {
	g := &model.Grading{}

	for _, sm := range t.Grading.StatusMarkers {
		if strings.Contains(text, sm.Marker) {
			status := rules.StatusDisplay(sm.Category)
			g.Status = &status
			break
		}
	}

	if t.Grading.AwardedMax != nil {
		if m := t.Grading.AwardedMax.FindStringSubmatch(text); len(m) >= 3 {
			awarded, errA := parseScore(m[1])
			max, errM := parseScore(m[2])
			if errA == nil && errM == nil {
				g.ScoreAwarded = &awarded
				g.ScoreMax = &max
			}
		}
	}

	for _, re := range t.Grading.PenaltyText {
		if !re.MatchString(text) {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if re.MatchString(line) {
				trimmed := strings.TrimSpace(line)
				g.PenaltyRuleText = &trimmed
				break
			}
		}
		break
	}

	for _, re := range feedbackRes {
		if m := re.FindString(text); m != "" {
			feedback := strings.TrimSpace(m)
			if len(feedback) < maxFeedbackLen {
				g.Feedback = &feedback
				break
			}
			// Over-broad capture: discard and try the next opener.
		}
	}

	return g
}

// parseScore parses a score literal, accepting "," as decimal separator.
func parseScore(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
