package predicate

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator combines title rule results within a pass.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
	OperatorNot Operator = "not"
)

// MatchType selects how a rule compares its value with a title.
type MatchType string

const (
	MatchContains MatchType = "contains"
	MatchEquals   MatchType = "equals"
	MatchRegex    MatchType = "regex"
)

// Rule is a single title comparison.
type Rule struct {
	Match MatchType `toml:"match"`
	Value string    `toml:"value"`

	re *regexp.Regexp
}

// Contains builds a substring rule.
func Contains(value string) Rule { return Rule{Match: MatchContains, Value: value} }

// Equals builds an exact-match rule.
func Equals(value string) Rule { return Rule{Match: MatchEquals, Value: value} }

// Regex builds a regular-expression rule.
func Regex(pattern string) Rule { return Rule{Match: MatchRegex, Value: pattern} }

// Title holds the rules of a title predicate.
type Title struct {
	Operator Operator `toml:"operator"`
	Rules    []Rule   `toml:"rules"`
}

func (t Title) operator() Operator {
	op := Operator(strings.ToLower(strings.TrimSpace(string(t.Operator))))
	if op == "" {
		return OperatorAnd
	}
	return op
}

func (r Rule) matchType() MatchType {
	return MatchType(strings.ToLower(strings.TrimSpace(string(r.Match))))
}

func (t *Title) compile() error {
	switch t.operator() {
	case OperatorAnd, OperatorOr, OperatorNot:
	default:
		return fmt.Errorf("unknown operator %q", t.Operator)
	}
	for i := range t.Rules {
		rule := &t.Rules[i]
		switch rule.matchType() {
		case MatchContains, MatchEquals:
		case MatchRegex:
			re, err := regexp.Compile(rule.Value)
			if err != nil {
				return fmt.Errorf("rule %d: compile %q: %w", i, rule.Value, err)
			}
			rule.re = re
		default:
			return fmt.Errorf("rule %d: unknown match type %q", i, rule.Match)
		}
	}
	return nil
}

func (t Title) match(title string) bool {
	literal := make([]bool, 0, len(t.Rules))
	patterns := make([]bool, 0, len(t.Rules))
	for _, rule := range t.Rules {
		switch rule.matchType() {
		case MatchContains:
			literal = append(literal, strings.Contains(title, rule.Value))
		case MatchEquals:
			literal = append(literal, title == rule.Value)
		case MatchRegex:
			patterns = append(patterns, rule.re != nil && rule.re.MatchString(title))
		}
	}
	op := t.operator()
	return combine(op, literal) && combine(op, patterns)
}

// combine folds a pass. An empty pass is true for every operator.
func combine(op Operator, results []bool) bool {
	if len(results) == 0 {
		return true
	}
	switch op {
	case OperatorOr:
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	case OperatorNot:
		for _, r := range results {
			if r {
				return false
			}
		}
		return true
	default:
		for _, r := range results {
			if !r {
				return false
			}
		}
		return true
	}
}
