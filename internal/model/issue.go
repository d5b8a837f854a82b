package model

// IssueCode identifies a known extraction weakness. The set is fixed so the
// rules file, the schema, and downstream reports stay in agreement.
type IssueCode string

const (
	IssueOptionsMissingText      IssueCode = "OPTIONS_MISSING_TEXT"
	IssueMathTextLoss            IssueCode = "MATH_TEXT_LOSS"
	IssueTableStructureLost      IssueCode = "TABLE_STRUCTURE_LOST"
	IssueNoCorrectAnswerFound    IssueCode = "NO_CORRECT_ANSWER_FOUND"
	IssueUserAnswerNotFound      IssueCode = "USER_ANSWER_NOT_FOUND"
	IssueExternalMediaRequired   IssueCode = "EXTERNAL_MEDIA_REQUIRED"
	IssuePartialScoringDetected  IssueCode = "PARTIAL_SCORING_DETECTED"
)

// Issue is a diagnostic record attached to a question or a document.
type Issue struct {
	Level string    `json:"level"`
	Code  IssueCode `json:"code"`
	Where string    `json:"where"`
	Msg   string    `json:"msg"`
}

// NewIssue builds a warn-level issue, the common case.
func NewIssue(code IssueCode, where, msg string) Issue {
	return Issue{Level: "warn", Code: code, Where: where, Msg: msg}
}
