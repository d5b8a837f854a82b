// Package rules loads the declarative rule table driving segmentation,
// classification, grading extraction and flag detection. The table is loaded
// once at startup, fully compiled, and treated as immutable afterwards; a
// missing or malformed rules file is a fatal error, never a silent default.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed rules-1.0.yaml
var defaultRules []byte

// Marker is a compiled segmentation marker. Its regex captures the question
// number as group 1.
type Marker struct {
	Regex *regexp.Regexp
}

// Detector decides one question kind. Detectors run in priority order
// (descending, declaration order on ties); every condition in When must
// hold for the detector to match.
type Detector struct {
	Kind     string
	Priority int
	When     []Condition
}

// Matches reports whether every condition holds for text.
func (d Detector) Matches(text string) bool {
	for _, cond := range d.When {
		if !cond.Match(text) {
			return false
		}
	}
	return true
}

// StatusMarker maps one grading status category to its literal marker
// substring. Order in the rules file is significant: markers are tested
// top to bottom and the first hit wins.
type StatusMarker struct {
	Category string
	Marker   string
}

// StatusMarkers preserves the YAML document order of the status_markers map.
type StatusMarkers []StatusMarker

// UnmarshalYAML decodes the mapping while keeping document order, which a
// plain map would lose.
func (m *StatusMarkers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("status_markers must be a mapping (line %d)", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		cat := node.Content[i].Value
		switch cat {
		case "correct", "partial", "incorrect":
		default:
			return fmt.Errorf("unknown status category %q (line %d)", cat, node.Content[i].Line)
		}
		*m = append(*m, StatusMarker{Category: cat, Marker: node.Content[i+1].Value})
	}
	return nil
}

// Canonical display strings for grading status categories.
const (
	StatusCorrect   = "Correcta"
	StatusPartial   = "Parcialmente correcta"
	StatusIncorrect = "Incorrecta"
)

// StatusDisplay maps a status category to its canonical display string.
func StatusDisplay(category string) string {
	switch category {
	case "correct":
		return StatusCorrect
	case "partial":
		return StatusPartial
	case "incorrect":
		return StatusIncorrect
	}
	return ""
}

// GradingRules holds the grading extraction patterns.
type GradingRules struct {
	StatusMarkers StatusMarkers
	// AwardedMax captures (awarded, max) as two numeric groups; "," is an
	// accepted decimal separator in either group.
	AwardedMax *regexp.Regexp
	// PenaltyText patterns are tried in order; the first matching pattern
	// selects the containing line verbatim.
	PenaltyText []*regexp.Regexp
}

// AssetRequiredRules configures the asset_required flag.
type AssetRequiredRules struct {
	AnyContains      []string
	AnyRegex         []*regexp.Regexp
	OptionTextMinLen int
}

// RegexFlagRules configures a flag driven purely by regex matches.
type RegexFlagRules struct {
	AnyRegex []*regexp.Regexp
}

// FlagRules groups the three flag configurations.
type FlagRules struct {
	AssetRequired         AssetRequiredRules
	MathOrSymbolsRisky    RegexFlagRules
	RequiresExternalMedia RegexFlagRules
}

// Table is the fully compiled rule table.
type Table struct {
	Version        string
	PrimaryMarkers []Marker
	Detectors      []Detector // sorted by priority desc, stable
	Grading        GradingRules
	Flags          FlagRules
}

// KnownKinds returns the set of kinds declared by the detectors.
func (t *Table) KnownKinds() map[string]bool {
	kinds := make(map[string]bool, len(t.Detectors))
	for _, d := range t.Detectors {
		kinds[d.Kind] = true
	}
	return kinds
}

// raw mirrors the YAML layout before compilation.
type rawTable struct {
	Version      string `yaml:"version"`
	Segmentation struct {
		PrimaryMarkers []struct {
			Regex string `yaml:"regex"`
		} `yaml:"primary_markers"`
	} `yaml:"segmentation"`
	Typing struct {
		Detectors []struct {
			Kind     string      `yaml:"kind"`
			Priority int         `yaml:"priority"`
			When     []Condition `yaml:"when"`
		} `yaml:"detectors"`
	} `yaml:"typing"`
	Grading struct {
		StatusMarkers StatusMarkers `yaml:"status_markers"`
		ScoreRegex    struct {
			AwardedMax string `yaml:"awarded_max"`
		} `yaml:"score_regex"`
		PenaltyTextRegex []string `yaml:"penalty_text_regex"`
	} `yaml:"grading"`
	Flags struct {
		AssetRequired struct {
			AnyContains      []string `yaml:"any_contains"`
			AnyRegex         []string `yaml:"any_regex"`
			OptionTextMinLen int      `yaml:"option_text_minlen"`
		} `yaml:"asset_required"`
		MathOrSymbolsRisky struct {
			AnyRegex []string `yaml:"any_regex"`
		} `yaml:"math_or_symbols_risky"`
		RequiresExternalMedia struct {
			AnyRegex []string `yaml:"any_regex"`
		} `yaml:"requires_external_media"`
	} `yaml:"flags"`
}

// Load reads and compiles the rule table from path. An empty path loads the
// embedded default table.
func Load(path string) (*Table, error) {
	data := defaultRules
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
	}
	return Parse(data)
}

// Parse compiles a rule table from YAML bytes.
func Parse(data []byte) (*Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	t := &Table{Version: raw.Version}

	if len(raw.Segmentation.PrimaryMarkers) == 0 {
		return nil, fmt.Errorf("rules: no segmentation.primary_markers defined")
	}
	for i, m := range raw.Segmentation.PrimaryMarkers {
		re, err := regexp.Compile(m.Regex)
		if err != nil {
			return nil, fmt.Errorf("primary marker %d: %w", i, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("primary marker %d: pattern %q has no capture group for the question number", i, m.Regex)
		}
		t.PrimaryMarkers = append(t.PrimaryMarkers, Marker{Regex: re})
	}

	if len(raw.Typing.Detectors) == 0 {
		return nil, fmt.Errorf("rules: no typing.detectors defined")
	}
	for i, d := range raw.Typing.Detectors {
		if d.Kind == "" {
			return nil, fmt.Errorf("detector %d: missing kind", i)
		}
		if len(d.When) == 0 {
			return nil, fmt.Errorf("detector %d (%s): empty when clause", i, d.Kind)
		}
		t.Detectors = append(t.Detectors, Detector{
			Kind:     d.Kind,
			Priority: d.Priority,
			When:     d.When,
		})
	}
	// Stable sort keeps declaration order among equal priorities.
	sort.SliceStable(t.Detectors, func(i, j int) bool {
		return t.Detectors[i].Priority > t.Detectors[j].Priority
	})

	t.Grading.StatusMarkers = raw.Grading.StatusMarkers
	if raw.Grading.ScoreRegex.AwardedMax != "" {
		re, err := regexp.Compile(raw.Grading.ScoreRegex.AwardedMax)
		if err != nil {
			return nil, fmt.Errorf("grading.score_regex.awarded_max: %w", err)
		}
		if re.NumSubexp() < 2 {
			return nil, fmt.Errorf("grading.score_regex.awarded_max: pattern needs two capture groups")
		}
		t.Grading.AwardedMax = re
	}
	for i, p := range raw.Grading.PenaltyTextRegex {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("grading.penalty_text_regex %d: %w", i, err)
		}
		t.Grading.PenaltyText = append(t.Grading.PenaltyText, re)
	}

	ar := &t.Flags.AssetRequired
	ar.AnyContains = raw.Flags.AssetRequired.AnyContains
	ar.OptionTextMinLen = raw.Flags.AssetRequired.OptionTextMinLen
	if ar.OptionTextMinLen == 0 {
		ar.OptionTextMinLen = 2
	}
	// asset_required and requires_external_media match case-insensitively;
	// math_or_symbols_risky is deliberately case-sensitive.
	var err error
	if ar.AnyRegex, err = compileAll(raw.Flags.AssetRequired.AnyRegex, "flags.asset_required", true); err != nil {
		return nil, err
	}
	if t.Flags.MathOrSymbolsRisky.AnyRegex, err = compileAll(raw.Flags.MathOrSymbolsRisky.AnyRegex, "flags.math_or_symbols_risky", false); err != nil {
		return nil, err
	}
	if t.Flags.RequiresExternalMedia.AnyRegex, err = compileAll(raw.Flags.RequiresExternalMedia.AnyRegex, "flags.requires_external_media", true); err != nil {
		return nil, err
	}

	return t, nil
}

func compileAll(patterns []string, where string, caseInsensitive bool) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for i, p := range patterns {
		if caseInsensitive {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%s.any_regex %d: %w", where, i, err)
		}
		out = append(out, re)
	}
	return out, nil
}
