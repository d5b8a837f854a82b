package report

import (
	"context"
	"strings"
	"testing"

	"github.com/pavelanni/examdoc/internal/i18n"
	"github.com/pavelanni/examdoc/internal/model"
)

func testContext(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := i18n.Init(lang); err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	return i18n.WithLocalizer(context.Background(), i18n.NewLocalizer(lang))
}

func testDocument() *model.ExamDocument {
	status := "Correcta"
	awarded, max := 1.0, 1.0
	return &model.ExamDocument{
		SchemaVersion: model.SchemaVersion,
		Source: model.Source{
			FileName:  "parcial1.pdf",
			DocType:   model.DocTypeAttemptReview,
			PageCount: 1,
		},
		Questions: []model.Question{
			{
				ID:     "Q1",
				Number: 1,
				Kind:   model.KindSingleChoice,
				Stem:   model.Stem{Text: "¿Capital de Francia?", Assets: []model.Asset{}},
				Grading: &model.Grading{
					Status:       &status,
					ScoreAwarded: &awarded,
					ScoreMax:     &max,
				},
				Content: model.ChoiceContent{
					Options: []model.Option{
						{Key: "a", Text: "Madrid"},
						{Key: "b", Text: "París"},
					},
					Correct: []string{"b"},
					User:    []string{"b"},
				},
				Raw:    model.Raw{BlockText: "...", Pages: []int{0}},
				Issues: []model.Issue{},
			},
		},
		Issues: []model.Issue{},
	}
}

func render(t *testing.T, doc *model.ExamDocument, lang string) string {
	t.Helper()
	var b strings.Builder
	if err := Write(testContext(t, lang), &b, doc, lang); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return b.String()
}

func TestWriteSingleChoice(t *testing.T) {
	out := render(t, testDocument(), "es")

	for _, want := range []string{
		"<title>parcial1</title>",
		`id="question-Q1"`,
		"que multichoice deferredfeedback correct",
		"Pregunta 1",
		"Correcta",
		"Se puntúa 1 sobre 1",
		"Seleccione una:",
		"París",
		`class="r1 correct"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report misses %q", want)
		}
	}
}

func TestWriteEscapesUserText(t *testing.T) {
	doc := testDocument()
	doc.Questions[0].Stem.Text = `<script>alert("x")</script>`
	out := render(t, doc, "es")

	if strings.Contains(out, "<script>") {
		t.Error("stem text was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped stem text in output")
	}
}

func TestWriteAssetsShownWhenRequired(t *testing.T) {
	doc := testDocument()
	doc.Questions[0].Flags.AssetRequired = true
	doc.Questions[0].Stem.Assets = []model.Asset{
		{Type: model.AssetFullPage, Page: 0, File: "Q1/page_0.png"},
	}
	out := render(t, doc, "es")

	if !strings.Contains(out, `src="./assets/Q1/page_0.png"`) {
		t.Error("expected asset image tag in report")
	}
}

func TestWriteStatusClasses(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"Correcta", "correct"},
		{"Incorrecta", "incorrect"},
		{"Parcialmente correcta", "partiallycorrect"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			doc := testDocument()
			doc.Questions[0].Grading.Status = &tt.status
			out := render(t, doc, "es")
			if !strings.Contains(out, "deferredfeedback "+tt.want+`"`) {
				t.Errorf("expected status class %q for status %q", tt.want, tt.status)
			}
		})
	}
}

func TestWriteEnglishLocale(t *testing.T) {
	out := render(t, testDocument(), "en")
	if !strings.Contains(out, "Question 1") {
		t.Error("expected English question heading")
	}
	if !strings.Contains(out, "Select one:") {
		t.Error("expected English choice prompt")
	}
}

func TestWriteOutcomeNotes(t *testing.T) {
	doc := testDocument()
	penalty := "Cada respuesta incorrecta descuenta un 25%"
	doc.Questions[0].Grading.PenaltyRuleText = &penalty
	doc.Questions[0].Issues = []model.Issue{
		model.NewIssue(model.IssueTableStructureLost, "Q1",
			"table structure is not recovered from text"),
	}
	out := render(t, doc, "es")

	for _, want := range []string{
		"Penalización",
		"Cada respuesta incorrecta descuenta un 25%",
		"Incidencias",
		"table structure is not recovered from text",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report misses %q", want)
		}
	}
}

func TestWriteCorrectAnswerLine(t *testing.T) {
	user := "udp"
	doc := testDocument()
	doc.Questions[0].Kind = model.KindShortAnswerText
	doc.Questions[0].Content = model.ShortAnswerContent{
		Expected: []string{"TCP", "tcp"},
		User:     &user,
	}
	out := render(t, doc, "es")

	if !strings.Contains(out, "Las respuestas correctas son: TCP, tcp") {
		t.Error("expected plural correct-answer line")
	}

	doc.Questions[0].Content = model.ShortAnswerContent{Expected: []string{"TCP"}, User: &user}
	out = render(t, doc, "es")
	if !strings.Contains(out, "La respuesta correcta es: TCP") {
		t.Error("expected singular correct-answer line")
	}
}

func TestWriteExternalMediaNote(t *testing.T) {
	doc := testDocument()
	doc.Questions[0].Flags.RequiresExternalMedia = true
	out := render(t, doc, "es")

	if !strings.Contains(out, "material externo") {
		t.Error("expected external media note")
	}
}

func TestWriteGeneratedFooter(t *testing.T) {
	out := render(t, testDocument(), "es")
	if !strings.Contains(out, "Generado el ") {
		t.Error("expected generated footer line")
	}
}

func TestWriteShortAnswer(t *testing.T) {
	doc := testDocument()
	user := "tcp"
	doc.Questions[0].Kind = model.KindShortAnswerText
	doc.Questions[0].Content = model.ShortAnswerContent{
		Expected: []string{"TCP", "tcp"},
		User:     &user,
	}
	out := render(t, doc, "es")

	if !strings.Contains(out, `value="tcp"`) {
		t.Error("expected user answer input")
	}
	if !strings.Contains(out, "d-inline correct") {
		t.Error("expected matching answer marked correct")
	}
}
