package model

import (
	"encoding/json"
	"testing"
)

func TestQuestionContentRoundTrip(t *testing.T) {
	user := "3,2"
	q := Question{
		ID:     "Q1",
		Number: 1,
		Kind:   KindNumeric,
		Stem:   Stem{Text: "Calcula", Assets: []Asset{}},
		Content: NumericContent{
			Expected: []string{"3,14"},
			User:     &user,
			Format:   NumericFormat{DecimalSeparator: ","},
		},
		Raw:    Raw{BlockText: "Calcula", Pages: []int{0}},
		Issues: []Issue{},
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Question
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	content, ok := back.Content.(NumericContent)
	if !ok {
		t.Fatalf("content decoded as %T, want NumericContent", back.Content)
	}
	if len(content.Expected) != 1 || content.Expected[0] != "3,14" {
		t.Errorf("expected = %v", content.Expected)
	}
	if content.User == nil || *content.User != "3,2" {
		t.Errorf("user = %v", content.User)
	}
	if content.Format.DecimalSeparator != "," {
		t.Errorf("decimal_separator = %q", content.Format.DecimalSeparator)
	}
}

func TestQuestionContentTypedPerKind(t *testing.T) {
	tests := []struct {
		kind    Kind
		content any
		check   func(t *testing.T, got any)
	}{
		{
			kind:    KindSingleChoice,
			content: ChoiceContent{Options: []Option{{Key: "a", Text: "x"}}, Correct: []string{"a"}, User: []string{}},
			check: func(t *testing.T, got any) {
				c, ok := got.(ChoiceContent)
				if !ok {
					t.Fatalf("got %T", got)
				}
				if len(c.Options) != 1 || c.Options[0].Key != "a" {
					t.Errorf("options = %+v", c.Options)
				}
			},
		},
		{
			kind:    KindMatching,
			content: MatchingContent{PairsUser: []Pair{}, PairsCorrect: []Pair{{Left: "l", Right: "r"}}},
			check: func(t *testing.T, got any) {
				c, ok := got.(MatchingContent)
				if !ok {
					t.Fatalf("got %T", got)
				}
				if len(c.PairsCorrect) != 1 {
					t.Errorf("pairs_correct = %+v", c.PairsCorrect)
				}
			},
		},
		{
			kind:    KindExternalMediaRef,
			content: MediaContent{ReferenceText: "mira el vídeo"},
			check: func(t *testing.T, got any) {
				c, ok := got.(MediaContent)
				if !ok {
					t.Fatalf("got %T", got)
				}
				if c.ReferenceText != "mira el vídeo" {
					t.Errorf("reference_text = %q", c.ReferenceText)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			q := Question{
				ID: "Q1", Number: 1, Kind: tt.kind,
				Stem:    Stem{Assets: []Asset{}},
				Content: tt.content,
				Raw:     Raw{Pages: []int{0}},
				Issues:  []Issue{},
			}
			data, err := json.Marshal(q)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var back Question
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tt.check(t, back.Content)
		})
	}
}

func TestGradingHelpers(t *testing.T) {
	var g *Grading
	if g.HasSignal() {
		t.Error("nil grading must have no signal")
	}
	if !g.Empty() {
		t.Error("nil grading must be empty")
	}

	status := "Correcta"
	g = &Grading{Status: &status}
	if !g.HasSignal() {
		t.Error("status alone is a signal")
	}
	if g.Empty() {
		t.Error("grading with status is not empty")
	}

	max := 2.0
	g = &Grading{ScoreMax: &max}
	if g.HasSignal() {
		t.Error("score_max alone is not a merge signal")
	}
	if g.Empty() {
		t.Error("grading with score_max is not empty")
	}
}

func TestValidKind(t *testing.T) {
	for _, k := range Kinds {
		if !ValidKind(k) {
			t.Errorf("declared kind %q reported invalid", k)
		}
	}
	if ValidKind(KindUnknown) {
		t.Error("unknown sentinel must not be a valid persisted kind")
	}
}
