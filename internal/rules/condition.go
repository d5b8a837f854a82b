package rules

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Condition is one node of a detector's boolean condition tree. The tree is
// parsed into typed nodes at load time; evaluation is a single recursive
// walk with no interpretation of the rules source at match time.
type Condition struct {
	// Exactly one of the following groups is set, per the op field.
	op       condOp
	contains string
	regex    *regexp.Regexp
	minCount int
	subs     []Condition
}

type condOp int

const (
	opContains condOp = iota
	opRegex
	opRegexRepeated
	opAny
	opAll
)

// Match evaluates the condition against text.
func (c Condition) Match(text string) bool {
	switch c.op {
	case opContains:
		return strings.Contains(text, c.contains)
	case opRegex:
		return c.regex.MatchString(text)
	case opRegexRepeated:
		return len(c.regex.FindAllStringIndex(text, c.minCount)) >= c.minCount
	case opAny:
		for _, sub := range c.subs {
			if sub.Match(text) {
				return true
			}
		}
		return false
	case opAll:
		for _, sub := range c.subs {
			if !sub.Match(text) {
				return false
			}
		}
		return true
	}
	return false
}

// UnmarshalYAML decodes one condition node. A node is a mapping with exactly
// one of the keys contains, regex, regex_repeated, any, all; anything else
// is a load-time error so a typo in the rules file cannot silently become a
// never-matching rule.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("condition must be a single-key mapping (line %d)", node.Line)
	}
	key := node.Content[0].Value
	val := node.Content[1]

	switch key {
	case "contains":
		if err := val.Decode(&c.contains); err != nil {
			return fmt.Errorf("contains: %w", err)
		}
		if c.contains == "" {
			return fmt.Errorf("contains: empty substring (line %d)", node.Line)
		}
		c.op = opContains
	case "regex":
		var pattern string
		if err := val.Decode(&pattern); err != nil {
			return fmt.Errorf("regex: %w", err)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("regex %q: %w", pattern, err)
		}
		c.op = opRegex
		c.regex = re
	case "regex_repeated":
		var spec struct {
			Pattern  string `yaml:"pattern"`
			MinCount int    `yaml:"min_count"`
		}
		if err := val.Decode(&spec); err != nil {
			return fmt.Errorf("regex_repeated: %w", err)
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return fmt.Errorf("regex_repeated %q: %w", spec.Pattern, err)
		}
		if spec.MinCount < 1 {
			spec.MinCount = 1
		}
		c.op = opRegexRepeated
		c.regex = re
		c.minCount = spec.MinCount
	case "any", "all":
		var subs []Condition
		if err := val.Decode(&subs); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if len(subs) == 0 {
			return fmt.Errorf("%s: empty condition list (line %d)", key, node.Line)
		}
		if key == "any" {
			c.op = opAny
		} else {
			c.op = opAll
		}
		c.subs = subs
	default:
		return fmt.Errorf("unknown condition type %q (line %d)", key, node.Line)
	}
	return nil
}
