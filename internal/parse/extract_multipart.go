package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
)

var (
	itemStartRe    = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)
	itemExpectedRe = regexp.MustCompile(`(?i)(?:La respuesta correcta es|The correct answer is):\s*([^.\n]+)`)
	subitemRe      = regexp.MustCompile(`(?i)^([A-Za-z])\s*:\s*(.+)$`)
)

// extractMultipartShortAnswer parses numbered sub-items. Each item's text
// runs until the next numbered line or a top-level plural answer
// announcement; an embedded singular correct-answer label splits the item
// into prompt and expected, and single-letter labels inside the item become
// nested subitems.
func extractMultipartShortAnswer(text string) model.MultipartContent {
	content := model.MultipartContent{Items: []model.MultipartItem{}}

	var index int
	var buf []string
	flush := func() {
		if index == 0 {
			return
		}
		content.Items = append(content.Items, buildItem(index, strings.Join(buf, "\n")))
		index = 0
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if answerMultiLineRe.MatchString(line) {
			break
		}
		if m := itemStartRe.FindStringSubmatch(line); m != nil {
			flush()
			index, _ = strconv.Atoi(m[1])
			buf = []string{m[2]}
			continue
		}
		if index != 0 {
			buf = append(buf, line)
		}
	}
	flush()
	return content
}

func buildItem(index int, text string) model.MultipartItem {
	item := model.MultipartItem{
		Index:    index,
		Prompt:   strings.TrimSpace(text),
		Subitems: []model.Subitem{},
	}

	if loc := itemExpectedRe.FindStringSubmatchIndex(text); loc != nil {
		item.Expected = strPtr(strings.TrimSpace(text[loc[2]:loc[3]]))
		item.Prompt = strings.TrimSpace(text[:loc[0]])
	}

	for _, line := range strings.Split(text, "\n") {
		if m := subitemRe.FindStringSubmatch(line); m != nil {
			item.Subitems = append(item.Subitems, model.Subitem{
				Label:    m[1],
				Expected: strPtr(strings.TrimSpace(m[2])),
			})
		}
	}
	return item
}
