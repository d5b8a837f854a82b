package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/pavelanni/examdoc/internal/model"
	"github.com/pavelanni/examdoc/internal/rules"
)

// DetectFlags computes the three supplemental flags for a block. Flags are
// independent; content is consulted only for the short-option-text signal,
// which is why extraction must run before flag detection.
func DetectFlags(t *rules.Table, text string, content any) model.Flags {
	var f model.Flags

	f.AssetRequired = assetRequired(t, text, content)

	for _, re := range t.Flags.MathOrSymbolsRisky.AnyRegex {
		if re.MatchString(text) {
			f.MathOrSymbolsRisky = true
			break
		}
	}

	for _, re := range t.Flags.RequiresExternalMedia.AnyRegex {
		if re.MatchString(text) {
			f.RequiresExternalMedia = true
			break
		}
	}

	return f
}

func assetRequired(t *rules.Table, text string, content any) bool {
	cfg := t.Flags.AssetRequired

	lower := strings.ToLower(text)
	for _, phrase := range cfg.AnyContains {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}

	for _, re := range cfg.AnyRegex {
		if re.MatchString(text) {
			return true
		}
	}

	// An option whose text is shorter than the minimum usually means the
	// real content was an image or symbol the text layer dropped.
	if choice, ok := content.(model.ChoiceContent); ok {
		for _, opt := range choice.Options {
			if utf8.RuneCountInString(strings.TrimSpace(opt.Text)) < cfg.OptionTextMinLen {
				return true
			}
		}
	}

	return false
}
