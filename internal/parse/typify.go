// Package parse turns a question block's text into a kind tag, a structured
// content record, grading fields and supplemental flags. Every function here
// is pure and total: missing structure yields empty or null fields, never an
// error.
package parse

import (
	"github.com/pavelanni/examdoc/internal/model"
	"github.com/pavelanni/examdoc/internal/rules"
)

// DetectKind evaluates the table's detectors against text in priority order
// and returns the kind of the first full match, or KindUnknown. Detector
// order inside the table is already priority-descending and stable.
func DetectKind(t *rules.Table, text string) model.Kind {
	for _, d := range t.Detectors {
		if d.Matches(text) {
			return model.Kind(d.Kind)
		}
	}
	return model.KindUnknown
}
