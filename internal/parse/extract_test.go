package parse

import (
	"reflect"
	"testing"

	"github.com/pavelanni/examdoc/internal/model"
)

func TestExtractSingleChoice(t *testing.T) {
	text := "a. Paris\nb. London\nc. Berlin\nThe correct answer is: b\nb. London ✓"
	got := extractSingleChoice(text)

	wantOptions := []model.Option{
		{Key: "a", Text: "Paris"},
		{Key: "b", Text: "London"},
		{Key: "c", Text: "Berlin"},
	}
	if !reflect.DeepEqual(got.Options, wantOptions) {
		t.Errorf("options = %+v, want %+v", got.Options, wantOptions)
	}
	if !reflect.DeepEqual(got.Correct, []string{"b"}) {
		t.Errorf("correct = %v, want [b]", got.Correct)
	}
	if !reflect.DeepEqual(got.User, []string{"b"}) {
		t.Errorf("user = %v, want [b]", got.User)
	}
}

func TestExtractSingleChoiceCapsCorrect(t *testing.T) {
	// Even when the source lists several letters the correct set keeps one.
	text := "a. Uno\nb. Dos\nc. Tres\nLas respuestas correctas son: a, c"
	got := extractSingleChoice(text)

	if len(got.Correct) != 1 {
		t.Fatalf("correct = %v, want exactly one entry", got.Correct)
	}
	if got.Correct[0] != "a" {
		t.Errorf("correct = %v, want [a]", got.Correct)
	}
}

func TestExtractSingleChoiceMultilineOption(t *testing.T) {
	text := "a. primera parte\nsegunda parte\nb. otra opción\nSeleccione una:"
	got := extractSingleChoice(text)

	if len(got.Options) != 2 {
		t.Fatalf("expected 2 options, got %+v", got.Options)
	}
	if got.Options[0].Text != "primera parte\nsegunda parte" {
		t.Errorf("option a text = %q", got.Options[0].Text)
	}
}

func TestExtractMultiSelect(t *testing.T) {
	text := "a. HTTP ☑\nb. FTP\nc. SSH ☑\nd. SMTP\nLas respuestas correctas son: a, c"
	got := extractMultiSelect(text)

	if len(got.Options) != 4 {
		t.Fatalf("expected 4 options, got %+v", got.Options)
	}
	// Glyphs must not leak into option text.
	if got.Options[0].Text != "HTTP" {
		t.Errorf("option a text = %q, want HTTP", got.Options[0].Text)
	}
	if !reflect.DeepEqual(got.Correct, []string{"a", "c"}) {
		t.Errorf("correct = %v, want [a c]", got.Correct)
	}
	if !reflect.DeepEqual(got.User, []string{"a", "c"}) {
		t.Errorf("user = %v, want [a c]", got.User)
	}
}

func TestExtractMatching(t *testing.T) {
	text := "Asocia las siguientes capas con su función\n" +
		"TCP\ntransporte ✓\n" +
		"La respuesta correcta es: TCP → transporte, IP → red, direccionamiento"
	got := extractMatching(text)

	wantCorrect := []model.Pair{
		{Left: "TCP", Right: "transporte"},
		// The stray no-arrow segment glues onto the previous pair's right side.
		{Left: "IP", Right: "red, direccionamiento"},
	}
	if !reflect.DeepEqual(got.PairsCorrect, wantCorrect) {
		t.Errorf("pairs_correct = %+v, want %+v", got.PairsCorrect, wantCorrect)
	}

	wantUser := []model.Pair{{Left: "TCP", Right: "transporte"}}
	if !reflect.DeepEqual(got.PairsUser, wantUser) {
		t.Errorf("pairs_user = %+v, want %+v", got.PairsUser, wantUser)
	}

	if got.DomainHint == nil || *got.DomainHint != "capas" {
		t.Errorf("domain_hint = %v, want capas", got.DomainHint)
	}
}

func TestExtractMatchingStopsAtFooterLines(t *testing.T) {
	// Timestamp, status and score lines after the announcement belong to
	// the review footer, not to the last pair's right side.
	text := "Asocia las siguientes capas con su función\n" +
		"La respuesta correcta es: TCP → transporte, IP → red\n" +
		"14/12/23 10:30\nIncorrecta\nSe puntúa 0,50 sobre 1,00"
	got := extractMatching(text)

	want := []model.Pair{
		{Left: "TCP", Right: "transporte"},
		{Left: "IP", Right: "red"},
	}
	if !reflect.DeepEqual(got.PairsCorrect, want) {
		t.Errorf("pairs_correct = %+v, want %+v", got.PairsCorrect, want)
	}
}

func TestExtractMatchingShortSidesIgnored(t *testing.T) {
	// Sides below the minimum length are glyph noise, not user pairs.
	text := "ab\nc ✓\nLa respuesta correcta es: uno → dos"
	got := extractMatching(text)
	if len(got.PairsUser) != 0 {
		t.Errorf("pairs_user = %+v, want empty", got.PairsUser)
	}
}

func TestExtractNumeric(t *testing.T) {
	text := "The correct answer is: 3,14\nRespuesta: 3,2"
	got := extractNumeric(text)

	if !reflect.DeepEqual(got.Expected, []string{"3,14"}) {
		t.Errorf("expected = %v, want [3,14]", got.Expected)
	}
	if got.User == nil || *got.User != "3,2" {
		t.Errorf("user = %v, want 3,2", got.User)
	}
	if got.Format.DecimalSeparator != "," {
		t.Errorf("decimal_separator = %q, want ,", got.Format.DecimalSeparator)
	}
}

func TestExtractNumericFormatHints(t *testing.T) {
	text := "Redondea a 2 decimales con una tolerancia de 0,5\nLa respuesta correcta es: 10"
	got := extractNumeric(text)

	if got.Format.DecimalSeparator != "." {
		t.Errorf("decimal_separator = %q, want .", got.Format.DecimalSeparator)
	}
	if got.Format.RoundDecimals == nil || *got.Format.RoundDecimals != 2 {
		t.Errorf("round_decimals = %v, want 2", got.Format.RoundDecimals)
	}
	if got.Format.Tolerance == nil || *got.Format.Tolerance != 0.5 {
		t.Errorf("tolerance = %v, want 0.5", got.Format.Tolerance)
	}
}

func TestExtractShortAnswer(t *testing.T) {
	text := "Define el protocolo\nRespuesta: tcp\nLa respuesta correcta es: TCP, Transmission Control Protocol"
	got := extractShortAnswer(text)

	want := []string{"TCP", "Transmission Control Protocol"}
	if !reflect.DeepEqual(got.Expected, want) {
		t.Errorf("expected = %v, want %v", got.Expected, want)
	}
	if got.User == nil || *got.User != "tcp" {
		t.Errorf("user = %v, want tcp", got.User)
	}
}

func TestExtractClozeLabeledBlanks(t *testing.T) {
	text := "Completa los tiempos\nTP: 12 ✓\nTR: \nLa respuesta correcta es: TP: 10, TR: 48"
	got := extractClozeLabeledBlanks(text)

	if len(got.Blanks) != 2 {
		t.Fatalf("blanks = %+v, want 2 entries", got.Blanks)
	}

	tp := got.Blanks[0]
	if tp.Label != "TP" {
		t.Fatalf("first blank label = %q, want TP", tp.Label)
	}
	if tp.User == nil || *tp.User != "12" {
		t.Errorf("TP user = %v, want 12", tp.User)
	}
	if tp.Expected == nil || *tp.Expected != "10" {
		t.Errorf("TP expected = %v, want 10", tp.Expected)
	}

	tr := got.Blanks[1]
	if tr.Label != "TR" {
		t.Fatalf("second blank label = %q, want TR", tr.Label)
	}
	if tr.Expected == nil || *tr.Expected != "48" {
		t.Errorf("TR expected = %v, want 48", tr.Expected)
	}
	if tr.User != nil {
		t.Errorf("TR user = %v, want nil", tr.User)
	}
}

func TestExtractMultipart(t *testing.T) {
	text := "1. Calcula el primer valor\nLa respuesta correcta es: 42\n" +
		"2. Indica los estados\na: listo\nb: bloqueado"
	got := extractMultipartShortAnswer(text)

	if len(got.Items) != 2 {
		t.Fatalf("items = %+v, want 2 entries", got.Items)
	}

	first := got.Items[0]
	if first.Index != 1 || first.Prompt != "Calcula el primer valor" {
		t.Errorf("item 1 = %+v", first)
	}
	if first.Expected == nil || *first.Expected != "42" {
		t.Errorf("item 1 expected = %v, want 42", first.Expected)
	}

	second := got.Items[1]
	if second.Index != 2 {
		t.Fatalf("item 2 index = %d", second.Index)
	}
	if len(second.Subitems) != 2 {
		t.Fatalf("item 2 subitems = %+v, want 2", second.Subitems)
	}
	if second.Subitems[0].Label != "a" || *second.Subitems[0].Expected != "listo" {
		t.Errorf("subitem a = %+v", second.Subitems[0])
	}
}

func TestExtractMultipartStopsAtPluralAnnouncement(t *testing.T) {
	text := "1. Primer valor\n2. Segundo valor\n" +
		"Las respuestas correctas son: 42, 7"
	got := extractMultipartShortAnswer(text)

	if len(got.Items) != 2 {
		t.Fatalf("items = %+v, want 2 entries", got.Items)
	}
	last := got.Items[1]
	if last.Prompt != "Segundo valor" {
		t.Errorf("item 2 prompt = %q, announcement must not be swallowed", last.Prompt)
	}
}

func TestExtractContentFallback(t *testing.T) {
	if _, ok := ExtractContent(model.KindUnknown, "whatever").(model.EmptyContent); !ok {
		t.Error("unknown kind must map to the empty content record")
	}
	media, ok := ExtractContent(model.KindExternalMediaRef, "mira el vídeo").(model.MediaContent)
	if !ok {
		t.Fatal("external media kind must produce MediaContent")
	}
	if media.ReferenceText != "mira el vídeo" {
		t.Errorf("reference_text = %q", media.ReferenceText)
	}
}
