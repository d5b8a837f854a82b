package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pavelanni/examdoc/internal/model"
)

var (
	numericExpectedRe = regexp.MustCompile(`(?i)(?:La respuesta correcta es|The correct answer is):\s*([-+]?\d+(?:[.,]\d+)?)`)
	numericUserRe     = regexp.MustCompile(`(?i)(?:Respuesta|Valor|Answer):\s*([-+]?\d+(?:[.,]\d+)?)`)
	roundDecimalsRe   = regexp.MustCompile(`(?i)redondea\s+a\s+(\d+)\s+decimal`)
	toleranceRe       = regexp.MustCompile(`(?i)tolerancia\s+de\s+([-+]?\d+(?:[.,]\d+)?)`)
)

// extractNumeric parses the expected value, the user's value and the
// numeric-format hints. Values keep their source spelling; a comma in the
// expected value marks "," as the document's decimal separator.
func extractNumeric(text string) model.NumericContent {
	content := model.NumericContent{
		Expected: []string{},
		Format:   model.NumericFormat{DecimalSeparator: "."},
	}

	if expected := firstSubmatch(numericExpectedRe, text); expected != "" {
		content.Expected = []string{expected}
		if strings.Contains(expected, ",") {
			content.Format.DecimalSeparator = ","
		}
	}

	if user := firstSubmatch(numericUserRe, text); user != "" {
		content.User = strPtr(user)
	}

	if digits := firstSubmatch(roundDecimalsRe, text); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			content.Format.RoundDecimals = &n
		}
	}

	if tol := firstSubmatch(toleranceRe, text); tol != "" {
		// Parse failure leaves tolerance null rather than failing the block.
		if f, err := strconv.ParseFloat(strings.ReplaceAll(tol, ",", "."), 64); err == nil {
			content.Format.Tolerance = &f
		}
	}
	return content
}
