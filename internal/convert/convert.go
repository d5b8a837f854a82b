// Package convert assembles the canonical exam document from normalized
// page texts: segmentation, classification, extraction, grading, flags and
// optional asset rendering, in that order.
package convert

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pavelanni/examdoc/internal/model"
	"github.com/pavelanni/examdoc/internal/parse"
	"github.com/pavelanni/examdoc/internal/rules"
	"github.com/pavelanni/examdoc/internal/segment"
)

// AssetRenderer renders full-page images for one question. Implementations
// must name files deterministically and close them before returning.
type AssetRenderer interface {
	RenderPages(pages []int, questionID string) ([]model.Asset, error)
}

// Converter runs the conversion pipeline for one document at a time. The
// rule table is shared and read-only; a Converter itself keeps no state
// between documents, so one instance may serve a whole batch.
type Converter struct {
	rules    *rules.Table
	renderer AssetRenderer // nil disables asset capture
	logger   *slog.Logger
}

// New creates a Converter. renderer may be nil when asset capture is not
// wanted (flags are still computed).
func New(t *rules.Table, renderer AssetRenderer, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{rules: t, renderer: renderer, logger: logger}
}

// Convert builds the canonical document from normalized per-page texts.
// Per-question anomalies become Issue records or nulls; nothing in here
// fails the document.
func (c *Converter) Convert(fileName string, pages []string) *model.ExamDocument {
	doc := &model.ExamDocument{
		SchemaVersion: model.SchemaVersion,
		Source: model.Source{
			FileName:  fileName,
			DocType:   model.DocTypeAttemptReview,
			PageCount: len(pages),
		},
		Questions: []model.Question{},
		Issues:    []model.Issue{},
	}

	blocks := segment.Pages(pages, c.rules.PrimaryMarkers)
	c.logger.Info("segmented document", "file", fileName, "pages", len(pages), "blocks", len(blocks))

	for _, block := range blocks {
		kind := parse.DetectKind(c.rules, block.Text)
		grading := parse.ExtractGrading(c.rules, block.Text)

		// A block the classifier cannot place but that carries grading
		// signal is a grading footer the segmenter split off the previous
		// question: fold it back in instead of emitting a spurious entry.
		if kind == model.KindUnknown && grading.HasSignal() && len(doc.Questions) > 0 {
			prev := &doc.Questions[len(doc.Questions)-1]
			prev.Grading = grading
			c.logger.Debug("merged grading-only block into previous question",
				"question", prev.ID, "block_number", block.Number)
			continue
		}

		doc.Questions = append(doc.Questions, c.buildQuestion(kind, block, grading))
	}

	return doc
}

func (c *Converter) buildQuestion(kind model.Kind, block segment.Block, grading *model.Grading) model.Question {
	id := fmt.Sprintf("Q%d", block.Number)
	issues := []model.Issue{}

	if kind == model.KindUnknown {
		kind = model.KindShortAnswerText
		issues = append(issues, model.NewIssue(model.IssueNoCorrectAnswerFound, id,
			"question type could not be reliably detected; falling back to short_answer_text"))
	}

	content := parse.ExtractContent(kind, block.Text)
	flags := parse.DetectFlags(c.rules, block.Text, content)

	if kind == model.KindClozeTable {
		issues = append(issues, model.NewIssue(model.IssueTableStructureLost, id,
			"table structure is not recovered from text; see rendered page assets"))
	}
	if flags.MathOrSymbolsRisky {
		issues = append(issues, model.NewIssue(model.IssueMathTextLoss, id,
			"mathematical notation detected; the text layer may not preserve it faithfully"))
	}
	if kind == model.KindExternalMediaRef || flags.RequiresExternalMedia {
		issues = append(issues, model.NewIssue(model.IssueExternalMediaRequired, id,
			"question refers to external media the document does not contain"))
	}
	if grading != nil && grading.Status != nil && *grading.Status == rules.StatusPartial {
		issues = append(issues, model.NewIssue(model.IssuePartialScoringDetected, id,
			"partially correct status detected; awarded score may not reflect full credit"))
	}
	if choice, ok := content.(model.ChoiceContent); ok {
		for _, opt := range choice.Options {
			if utf8.RuneCountInString(strings.TrimSpace(opt.Text)) < c.rules.Flags.AssetRequired.OptionTextMinLen {
				issues = append(issues, model.NewIssue(model.IssueOptionsMissingText, id,
					fmt.Sprintf("option %q has no usable text; its content likely lives in an image", opt.Key)))
				break
			}
		}
		if grading.HasSignal() && len(choice.User) == 0 {
			issues = append(issues, model.NewIssue(model.IssueUserAnswerNotFound, id,
				"question was graded but the selected answer could not be located in the text"))
		}
	}

	if grading.Empty() {
		grading = nil
	}

	q := model.Question{
		ID:      id,
		Number:  block.Number,
		Kind:    kind,
		Stem:    model.Stem{Text: block.Text, Assets: []model.Asset{}},
		Grading: grading,
		Content: content,
		Raw:     model.Raw{BlockText: block.Text, Pages: block.Pages},
		Flags:   flags,
		Issues:  issues,
	}

	if flags.AssetRequired && c.renderer != nil {
		rendered, err := c.renderer.RenderPages(block.Pages, id)
		if err != nil {
			c.logger.Warn("asset rendering failed", "question", id, "error", err)
			q.Issues = append(q.Issues, model.Issue{
				Level: "error",
				Code:  model.IssueOptionsMissingText,
				Where: id,
				Msg:   fmt.Sprintf("page image rendering failed (%v); content the question shows only visually is not captured", err),
			})
		}
		q.Stem.Assets = append(q.Stem.Assets, rendered...)
	}

	return q
}
