// Package report renders a canonical exam document as a Moodle-style
// attempt review HTML page. Layout classes follow the Moodle quiz review
// markup so the page can reuse stock review stylesheets.
package report

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/pavelanni/examdoc/internal/i18n"
	"github.com/pavelanni/examdoc/internal/model"
)

// All markup lives in one template set; the Go side only builds view
// records, so every interpolated value gets the engine's contextual
// escaping.
const reviewHTML = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body class="path-mod-quiz">
<div id="page" class="container-fluid">
<h1>{{.Title}}</h1>
{{range .Questions}}{{template "question" .}}
{{end}}<div class="generated">{{.Generated}}</div>
</div>
</body>
</html>
{{define "question"}}<div id="question-{{.ID}}" class="{{.Classes}}">
<div class="info">
<h3 class="no">{{.Heading}}</h3>
{{if .Status}}<div class="state">{{.Status}}</div>
{{end}}{{if .Score}}<div class="grade">{{.Score}}</div>
{{end}}</div>
<div class="content">
<div class="formulation clearfix">
<h4 class="accesshide">{{.TextLabel}}</h4>
<div class="qtext"><p>{{range $i, $line := .StemLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
{{if .Assets}}<div class="question-assets">
{{range .Assets}}<img src="{{.Src}}" alt="{{.Alt}}" class="img-fluid">
{{end}}</div>
{{end}}</div>
{{if .MediaNote}}<div class="mediamessage">{{.MediaNote}}</div>
{{end}}{{with .Choice}}{{template "choice" .}}{{end}}{{with .Matching}}{{template "matching" .}}{{end}}{{with .Text}}{{template "textinput" .}}{{end}}{{with .Multipart}}{{template "multipart" .}}{{end}}{{with .Blanks}}{{template "blanks" .}}{{end}}</div>
</div>
{{if .HasOutcome}}<div class="outcome clearfix"><div class="feedback">
{{if .Feedback}}<div class="generalfeedback"><p>{{.Feedback}}</p></div>
{{end}}{{if .Penalty}}<div class="penalty"><b>{{.PenaltyLabel}}</b>: {{.Penalty}}</div>
{{end}}{{if .Issues}}<div class="issuenotes"><h5>{{.IssuesLabel}}</h5><ul>
{{range .Issues}}<li>{{.}}</li>
{{end}}</ul></div>
{{end}}</div></div>
{{end}}</div>{{end}}
{{define "choice"}}<fieldset class="ablock no-overflow">
<legend class="prompt h6 fw-normal">{{.Prompt}}</legend>
<div class="answer">
{{range .Rows}}<div class="{{.Class}}">
<input type="{{$.Input}}" disabled="disabled"{{if .Checked}} checked{{end}}>
<span class="answernumber">{{.Key}}. </span><p>{{.Text}}</p>
{{if .ShowIcon}}{{template "icon" .IconOK}}
{{end}}</div>
{{end}}</div>
</fieldset>
{{end}}
{{define "matching"}}<fieldset class="ablock no-overflow">
<div class="answer"><table class="generaltable"><tbody>
{{range .Rows}}<tr><td class="text">{{.Left}}</td><td class="control {{.Class}}">{{.Cell}}</td></tr>
{{end}}</tbody></table></div>
</fieldset>
{{end}}
{{define "textinput"}}<div class="ablock">
<label>{{.Label}} </label>
<span class="answer"><input type="text" value="{{.Value}}" size="30" class="{{.Class}}" readonly="readonly">{{if .ShowIcon}}{{template "icon" .IconOK}}{{end}}</span>
{{if .CorrectLine}}<div class="rightanswer">{{.CorrectLine}}</div>
{{end}}</div>
{{end}}
{{define "multipart"}}<div class="ablock">
{{range .Items}}<label>{{.Label}}</label>
<span class="answer"><input type="text" value="{{.Value}}" size="8" class="{{.Class}}" readonly="readonly">{{if .ShowIcon}}{{template "icon" .IconOK}}{{end}}</span><br>
{{end}}</div>
{{end}}
{{define "blanks"}}<div class="ablock">
{{range .Blanks}}<label>{{.Label}}: </label>
<span class="answer"><input type="text" value="{{.Value}}" size="12" class="{{.Class}}" readonly="readonly">{{if .ShowIcon}}{{template "icon" .IconOK}}{{end}}</span><br>
{{end}}</div>
{{end}}
{{define "icon"}}{{if .}}<i class="icon fa-regular fa-circle-check text-success fa-fw" role="img" aria-label="OK"></i>{{else}}<i class="icon fa-regular fa-circle-xmark text-danger fa-fw" role="img" aria-label="KO"></i>{{end}}{{end}}`

var reviewTmpl = template.Must(template.New("review").Parse(reviewHTML))

type pageView struct {
	Lang      string
	Title     string
	Questions []questionView
	Generated string
}

type questionView struct {
	ID        string
	Classes   string
	Heading   string
	Status    string
	Score     string
	TextLabel string
	StemLines []string
	Assets    []assetView
	MediaNote string

	Choice    *choiceView
	Matching  *matchingView
	Text      *textInputView
	Multipart *multipartView
	Blanks    *blanksView

	Feedback     string
	PenaltyLabel string
	Penalty      string
	IssuesLabel  string
	Issues       []string
	HasOutcome   bool
}

type assetView struct {
	Src string
	Alt string
}

type choiceView struct {
	Prompt string
	Input  string
	Rows   []choiceRow
}

type choiceRow struct {
	Class    string
	Checked  bool
	Key      string
	Text     string
	ShowIcon bool
	IconOK   bool
}

type matchingView struct {
	Rows []matchRow
}

type matchRow struct {
	Left  string
	Cell  string
	Class string
}

type textInputView struct {
	Label       string
	Value       string
	Class       string
	ShowIcon    bool
	IconOK      bool
	CorrectLine string
}

type multipartView struct {
	Items []inputItem
}

type blanksView struct {
	Blanks []inputItem
}

type inputItem struct {
	Label    string
	Value    string
	Class    string
	ShowIcon bool
	IconOK   bool
}

// Write renders the review page for doc to w. The report language comes
// from the localizer stored in ctx; Spanish is the default.
func Write(ctx context.Context, w io.Writer, doc *model.ExamDocument, lang string) error {
	title := strings.TrimSuffix(doc.Source.FileName, ".pdf")
	title = strings.TrimSuffix(title, ".PDF")
	if title == "" {
		title = i18n.T(ctx, "report.title")
	}

	page := pageView{
		Lang:  lang,
		Title: title,
		Generated: i18n.Td(ctx, "report.generated", map[string]any{
			"Date": time.Now().Format("2006-01-02 15:04"),
		}),
	}
	for i := range doc.Questions {
		page.Questions = append(page.Questions, buildQuestionView(ctx, &doc.Questions[i]))
	}

	if err := reviewTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	return nil
}

func buildQuestionView(ctx context.Context, q *model.Question) questionView {
	v := questionView{
		ID:        q.ID,
		Classes:   strings.TrimSpace(fmt.Sprintf("que %s deferredfeedback %s", kindToMoodleClass(q.Kind), statusToClass(q.Grading))),
		Heading:   i18n.Td(ctx, "report.question", map[string]any{"Number": q.Number}),
		Status:    statusText(ctx, q.Grading),
		Score:     formatScore(ctx, q.Grading),
		TextLabel: i18n.T(ctx, "report.question_text"),
		StemLines: strings.Split(q.Stem.Text, "\n"),
	}

	if q.Flags.AssetRequired {
		for _, a := range q.Stem.Assets {
			v.Assets = append(v.Assets, assetView{
				Src: "./assets/" + a.File,
				Alt: i18n.Td(ctx, "report.page_image", map[string]any{"Page": a.Page}),
			})
		}
	}
	if q.Flags.RequiresExternalMedia {
		v.MediaNote = i18n.T(ctx, "report.external_media")
	}

	switch c := q.Content.(type) {
	case model.ChoiceContent:
		v.Choice = buildChoiceView(ctx, c, q.Kind == model.KindMultiSelect)
	case model.MatchingContent:
		v.Matching = buildMatchingView(c)
	case model.NumericContent:
		v.Text = buildTextInputView(ctx, c.User, c.Expected)
	case model.ShortAnswerContent:
		v.Text = buildTextInputView(ctx, c.User, c.Expected)
	case model.MultipartContent:
		v.Multipart = buildMultipartView(c)
	case model.ClozeBlanksContent:
		v.Blanks = buildBlanksView(c)
	}

	if q.Grading != nil {
		if q.Grading.Feedback != nil {
			v.Feedback = *q.Grading.Feedback
		}
		if q.Grading.PenaltyRuleText != nil {
			v.PenaltyLabel = i18n.T(ctx, "report.penalty")
			v.Penalty = *q.Grading.PenaltyRuleText
		}
	}
	if len(q.Issues) > 0 {
		v.IssuesLabel = i18n.T(ctx, "report.issues")
		for _, is := range q.Issues {
			v.Issues = append(v.Issues, is.Msg)
		}
	}
	v.HasOutcome = v.Feedback != "" || v.Penalty != "" || len(v.Issues) > 0

	return v
}

func buildChoiceView(ctx context.Context, c model.ChoiceContent, multi bool) *choiceView {
	if len(c.Options) == 0 {
		return nil
	}
	view := &choiceView{Prompt: i18n.T(ctx, "report.select_one"), Input: "radio"}
	if multi {
		view.Prompt = i18n.T(ctx, "report.select_many")
		view.Input = "checkbox"
	}
	for _, opt := range c.Options {
		isCorrect := contains(c.Correct, opt.Key)
		isUser := contains(c.User, opt.Key)
		rowClass := "r0"
		if isCorrect {
			rowClass = "r1 correct"
		} else if isUser {
			rowClass = "r0 incorrect"
		}
		view.Rows = append(view.Rows, choiceRow{
			Class:    rowClass,
			Checked:  isUser,
			Key:      opt.Key,
			Text:     opt.Text,
			ShowIcon: isUser,
			IconOK:   isCorrect,
		})
	}
	return view
}

func buildMatchingView(c model.MatchingContent) *matchingView {
	if len(c.PairsCorrect) == 0 && len(c.PairsUser) == 0 {
		return nil
	}
	correctFor := make(map[string]string, len(c.PairsCorrect))
	for _, p := range c.PairsCorrect {
		correctFor[p.Left] = p.Right
	}

	view := &matchingView{}
	seen := make(map[string]bool)
	addRow := func(left, user string, hasUser bool) {
		want, known := correctFor[left]
		cell := want
		cls := "correct"
		if hasUser {
			cell = user
			if !known || user != want {
				cls = "incorrect"
			}
		}
		view.Rows = append(view.Rows, matchRow{Left: left, Cell: cell, Class: cls})
	}
	for _, p := range c.PairsUser {
		seen[p.Left] = true
		addRow(p.Left, p.Right, true)
	}
	for _, p := range c.PairsCorrect {
		if !seen[p.Left] {
			addRow(p.Left, "", false)
		}
	}
	return view
}

func buildTextInputView(ctx context.Context, user *string, expected []string) *textInputView {
	answered := user != nil
	correct := answered && contains(expected, *user)
	cls := "form-control d-inline"
	if correct {
		cls += " correct"
	} else if answered {
		cls += " incorrect"
	}
	view := &textInputView{
		Label:    i18n.T(ctx, "report.answer"),
		Value:    deref(user),
		Class:    cls,
		ShowIcon: answered,
		IconOK:   correct,
	}
	if len(expected) > 0 {
		label := i18n.T(ctx, "report.correct_answer")
		if len(expected) > 1 {
			label = i18n.T(ctx, "report.correct_answers")
		}
		view.CorrectLine = label + " " + strings.Join(expected, ", ")
	}
	return view
}

func buildMultipartView(c model.MultipartContent) *multipartView {
	if len(c.Items) == 0 {
		return nil
	}
	view := &multipartView{}
	for _, it := range c.Items {
		answered := it.User != nil
		correct := answered && it.Expected != nil && *it.User == *it.Expected
		view.Items = append(view.Items, inputItem{
			Label:    fmt.Sprintf("%d. %s", it.Index, it.Prompt),
			Value:    deref(it.User),
			Class:    inputClass(answered, correct),
			ShowIcon: answered,
			IconOK:   correct,
		})
	}
	return view
}

func buildBlanksView(c model.ClozeBlanksContent) *blanksView {
	if len(c.Blanks) == 0 {
		return nil
	}
	view := &blanksView{}
	for _, bl := range c.Blanks {
		answered := bl.User != nil
		correct := answered && bl.Expected != nil && *bl.User == *bl.Expected
		view.Blanks = append(view.Blanks, inputItem{
			Label:    bl.Label,
			Value:    deref(bl.User),
			Class:    inputClass(answered, correct),
			ShowIcon: answered,
			IconOK:   correct,
		})
	}
	return view
}

func inputClass(answered, correct bool) string {
	cls := "form-control d-inline mb-1"
	if correct {
		cls += " correct"
	} else if answered {
		cls += " incorrect"
	}
	return cls
}

func kindToMoodleClass(kind model.Kind) string {
	switch kind {
	case model.KindSingleChoice, model.KindMultiSelect:
		return "multichoice"
	case model.KindMatching:
		return "match"
	case model.KindNumeric:
		return "numerical"
	case model.KindClozeLabeled, model.KindClozeTable, model.KindExternalMediaRef:
		return "multianswer"
	default:
		return "shortanswer"
	}
}

func statusToClass(g *model.Grading) string {
	if g == nil || g.Status == nil {
		return ""
	}
	s := strings.ToLower(*g.Status)
	switch {
	case strings.Contains(s, "parcial") || strings.Contains(s, "partial"):
		return "partiallycorrect"
	case strings.Contains(s, "incorrect"):
		return "incorrect"
	case strings.Contains(s, "correct"):
		return "correct"
	}
	return ""
}

// statusText maps the recorded status onto the localized display string,
// falling back to the status as extracted when it fits no known category.
func statusText(ctx context.Context, g *model.Grading) string {
	switch statusToClass(g) {
	case "correct":
		return i18n.T(ctx, "report.status.correct")
	case "partiallycorrect":
		return i18n.T(ctx, "report.status.partial")
	case "incorrect":
		return i18n.T(ctx, "report.status.incorrect")
	}
	if g != nil && g.Status != nil {
		return *g.Status
	}
	return ""
}

func formatScore(ctx context.Context, g *model.Grading) string {
	if g == nil || g.ScoreAwarded == nil || g.ScoreMax == nil {
		return ""
	}
	return i18n.Td(ctx, "report.score", map[string]any{
		"Awarded": trimFloat(*g.ScoreAwarded),
		"Max":     trimFloat(*g.ScoreMax),
	})
}

// trimFloat formats a score without trailing zeros, matching the way
// Moodle prints "Se puntúa 1 sobre 2" rather than "1.00 sobre 2.00".
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
