package parse

import (
	"strings"
	"testing"

	"github.com/pavelanni/examdoc/internal/rules"
)

func TestExtractGradingStatus(t *testing.T) {
	table := loadTable(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"correct", "Correcta\nSe puntúa 1,00 sobre 1,00", rules.StatusCorrect},
		{"incorrect", "Incorrecta\nSe puntúa 0,00 sobre 1,00", rules.StatusIncorrect},
		{"partial", "Parcialmente correcta\nSe puntúa 0,50 sobre 1,00", rules.StatusPartial},
		// "Incorrecta" contains "Correcta"; the marker order must still
		// resolve it to incorrect.
		{"incorrect not misread", "Incorrecta", rules.StatusIncorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ExtractGrading(table, tt.text)
			if g.Status == nil {
				t.Fatal("status is nil")
			}
			if *g.Status != tt.want {
				t.Errorf("status = %q, want %q", *g.Status, tt.want)
			}
		})
	}
}

func TestExtractGradingScores(t *testing.T) {
	table := loadTable(t)

	g := ExtractGrading(table, "Se puntúa 0,75 sobre 2,00")
	if g.ScoreAwarded == nil || g.ScoreMax == nil {
		t.Fatal("expected both scores set")
	}
	if *g.ScoreAwarded != 0.75 {
		t.Errorf("score_awarded = %v, want 0.75", *g.ScoreAwarded)
	}
	if *g.ScoreMax != 2 {
		t.Errorf("score_max = %v, want 2", *g.ScoreMax)
	}
}

func TestExtractGradingScoresAllOrNothing(t *testing.T) {
	table := loadTable(t)

	// No score pattern at all.
	g := ExtractGrading(table, "texto sin puntuación")
	if g.ScoreAwarded != nil || g.ScoreMax != nil {
		t.Errorf("expected both scores nil, got %v / %v", g.ScoreAwarded, g.ScoreMax)
	}
}

func TestExtractGradingPenaltyLine(t *testing.T) {
	table := loadTable(t)

	text := "Correcta\nCada respuesta errónea penaliza 0,25 puntos\nSe puntúa 1,00 sobre 1,00"
	g := ExtractGrading(table, text)
	if g.PenaltyRuleText == nil {
		t.Fatal("penalty_rule_text is nil")
	}
	if *g.PenaltyRuleText != "Cada respuesta errónea penaliza 0,25 puntos" {
		t.Errorf("penalty_rule_text = %q", *g.PenaltyRuleText)
	}
}

func TestExtractGradingFeedback(t *testing.T) {
	table := loadTable(t)

	g := ExtractGrading(table, "Tu respuesta\n¡Correcto! El protocolo es TCP.")
	if g.Feedback == nil {
		t.Fatal("feedback is nil")
	}
	if !strings.HasPrefix(*g.Feedback, "¡Correcto!") {
		t.Errorf("feedback = %q", *g.Feedback)
	}
}

func TestExtractGradingFeedbackTooLong(t *testing.T) {
	table := loadTable(t)

	// An opener that swallows half the document is discarded.
	text := "¡Correcto! " + strings.Repeat("relleno ", 100)
	g := ExtractGrading(table, text)
	if g.Feedback != nil {
		t.Errorf("expected over-long feedback discarded, got %d bytes", len(*g.Feedback))
	}
}

func TestExtractGradingNeverNilResult(t *testing.T) {
	table := loadTable(t)

	g := ExtractGrading(table, "")
	if g == nil {
		t.Fatal("ExtractGrading returned nil")
	}
	if !g.Empty() {
		t.Errorf("expected empty grading for empty text, got %+v", g)
	}
}
