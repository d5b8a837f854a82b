package model

// Option is one lettered choice in a choice question.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ChoiceContent is the content record for single_choice and multi_select.
// For single_choice, Correct holds at most one key.
type ChoiceContent struct {
	Options []Option `json:"options"`
	Correct []string `json:"correct"`
	User    []string `json:"user"`
}

// Pair is one left/right association in a matching question.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingContent is the content record for matching questions.
type MatchingContent struct {
	PairsUser    []Pair  `json:"pairs_user"`
	PairsCorrect []Pair  `json:"pairs_correct"`
	DomainHint   *string `json:"domain_hint"`
}

// NumericFormat describes how numbers in a numeric question are written.
type NumericFormat struct {
	DecimalSeparator string   `json:"decimal_separator"`
	RoundDecimals    *int     `json:"round_decimals"`
	Tolerance        *float64 `json:"tolerance"`
}

// NumericContent is the content record for numeric questions. Expected and
// User keep the source spelling (including "," separators); NumericFormat
// records how to interpret them.
type NumericContent struct {
	Expected []string      `json:"expected"`
	User     *string       `json:"user"`
	Format   NumericFormat `json:"numeric_format"`
}

// ShortAnswerContent is the content record for short_answer_text. Expected
// holds every accepted variant from the announcement line.
type ShortAnswerContent struct {
	Expected []string `json:"expected"`
	User     *string  `json:"user"`
}

// LabeledBlank is one labeled gap in a cloze_labeled_blanks question.
type LabeledBlank struct {
	Label    string  `json:"label"`
	Expected *string `json:"expected"`
	User     *string `json:"user"`
}

// ClozeBlanksContent is the content record for cloze_labeled_blanks.
type ClozeBlanksContent struct {
	Blanks []LabeledBlank `json:"blanks"`
}

// ClozeTableContent is the content record for cloze_table. Table structure
// is not recovered from text in v1; visual fidelity comes from assets.
type ClozeTableContent struct {
	Table any `json:"table"`
}

// Subitem is a lettered sub-answer inside a multipart item.
type Subitem struct {
	Label    string  `json:"label"`
	Expected *string `json:"expected"`
	User     *string `json:"user"`
}

// MultipartItem is one numbered sub-question of a multipart_short_answer.
type MultipartItem struct {
	Index    int       `json:"index"`
	Prompt   string    `json:"prompt"`
	Expected *string   `json:"expected"`
	User     *string   `json:"user"`
	Subitems []Subitem `json:"subitems"`
}

// MultipartContent is the content record for multipart_short_answer.
type MultipartContent struct {
	Items []MultipartItem `json:"items"`
}

// MediaContent is the content record for external_media_reference. The
// whole block is echoed; nothing structured is recoverable.
type MediaContent struct {
	ReferenceText string `json:"reference_text"`
}

// EmptyContent is the record produced for blocks whose kind yielded no
// structure at all.
type EmptyContent struct{}
