package model

// SchemaVersion is the canonical document schema version this build emits.
const SchemaVersion = "1.0"

// DocTypeAttemptReview is the only supported source document type in v1.
const DocTypeAttemptReview = "moodle_attempt_review"

// Kind is the closed set of question type tags.
type Kind string

const (
	KindSingleChoice     Kind = "single_choice"
	KindMultiSelect      Kind = "multi_select"
	KindMatching         Kind = "matching"
	KindNumeric          Kind = "numeric"
	KindShortAnswerText  Kind = "short_answer_text"
	KindMultipartShort   Kind = "multipart_short_answer"
	KindClozeLabeled     Kind = "cloze_labeled_blanks"
	KindClozeTable       Kind = "cloze_table"
	KindExternalMediaRef Kind = "external_media_reference"

	// KindUnknown is the classifier sentinel. It never appears in a
	// persisted Question; the assembler coerces it to KindShortAnswerText.
	KindUnknown Kind = "unknown"
)

// Kinds lists every persistable kind, in schema order.
var Kinds = []Kind{
	KindSingleChoice,
	KindMultiSelect,
	KindMatching,
	KindNumeric,
	KindShortAnswerText,
	KindMultipartShort,
	KindClozeLabeled,
	KindClozeTable,
	KindExternalMediaRef,
}

// ValidKind reports whether k is a persistable kind (the sentinel is not).
func ValidKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Source describes the file a document was converted from.
type Source struct {
	FileName  string `json:"file_name"`
	DocType   string `json:"doc_type"`
	PageCount int    `json:"page_count"`
}

// Asset is a rendered image capturing visual content the text pipeline
// cannot recover. v1 only captures whole pages, so BBox is always null.
type Asset struct {
	Type string     `json:"type"`
	Page int        `json:"page"`
	BBox []float64  `json:"bbox"`
	File string     `json:"file"`
}

// AssetFullPage is the only asset type produced in v1.
const AssetFullPage = "full_page"

// Stem is the question's visible prose plus any rendered assets.
type Stem struct {
	Text   string  `json:"text"`
	Assets []Asset `json:"assets"`
}

// Grading holds correction signals pulled from the block text. Every field
// is independently nullable; a nil *Grading means no signal was found.
type Grading struct {
	Status          *string  `json:"status"`
	ScoreAwarded    *float64 `json:"score_awarded"`
	ScoreMax        *float64 `json:"score_max"`
	PenaltyRuleText *string  `json:"penalty_rule_text"`
	Feedback        *string  `json:"feedback"`
}

// HasSignal reports whether any grading information was extracted. The
// assembler uses status or an awarded score to decide whether an otherwise
// unclassifiable block is a grading footer.
func (g *Grading) HasSignal() bool {
	if g == nil {
		return false
	}
	return g.Status != nil || g.ScoreAwarded != nil
}

// Empty reports whether every field is null.
func (g *Grading) Empty() bool {
	if g == nil {
		return true
	}
	return g.Status == nil && g.ScoreAwarded == nil && g.ScoreMax == nil &&
		g.PenaltyRuleText == nil && g.Feedback == nil
}

// Raw preserves the verbatim block for auditability regardless of how well
// extraction went.
type Raw struct {
	BlockText string `json:"block_text"`
	Pages     []int  `json:"pages"`
}

// Flags are independent boolean signals about supplemental handling.
type Flags struct {
	AssetRequired         bool `json:"asset_required"`
	MathOrSymbolsRisky    bool `json:"math_or_symbols_risky"`
	RequiresExternalMedia bool `json:"requires_external_media"`
}

// Question is the canonical per-question record.
type Question struct {
	ID      string   `json:"id"`
	Number  int      `json:"number"`
	Kind    Kind     `json:"kind"`
	Stem    Stem     `json:"stem"`
	Grading *Grading `json:"grading"`
	Content any      `json:"content"`
	Raw     Raw      `json:"raw"`
	Flags   Flags    `json:"flags"`
	Issues  []Issue  `json:"issues"`
}

// ExamDocument is the top-level canonical record.
type ExamDocument struct {
	SchemaVersion string     `json:"schema_version"`
	Source        Source     `json:"source"`
	Questions     []Question `json:"questions"`
	Issues        []Issue    `json:"issues"`
}
