// Package substitution sanitizes titles read from a names file before they
// become output file names.
//
// The steps run in a fixed order: trim, title-case, regex replacements (first
// match of each pattern), literal string replacements (every occurrence),
// removal of characters NTFS cannot store, and upper-casing of the first
// letter after a spaced en dash. Each optional step is enabled by default.
package substitution

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const invalidNTFSChars = `/?<>\:*|"`

var dashLowerPattern = regexp.MustCompile(`(\s[–-]\s)(\p{Ll})`)

// smallWords stay lower-case inside a title unless they open or close it.
var smallWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {},
	"en": {}, "for": {}, "if": {}, "in": {}, "of": {}, "on": {}, "or": {},
	"the": {}, "to": {}, "v": {}, "v.": {}, "via": {}, "vs": {}, "vs.": {},
}

// Rules is the profile representation of the substitution pipeline.
type Rules struct {
	TitleCase          *bool      `toml:"title_case"`
	RegularExpressions [][]string `toml:"regular_expressions"`
	Strings            [][]string `toml:"strings"`
	StripInvalidChars  *bool      `toml:"strip_invalid_chars"`
	FixCaseAfterDashes *bool      `toml:"fix_case_after_dashes"`
}

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// Engine applies compiled substitution rules.
type Engine struct {
	titleCase  bool
	strip      bool
	fixDashes  bool
	regexes    []replacement
	literals   [][2]string
	invalidSet string
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// New compiles rules. Every regex is compiled here so a malformed pattern is
// reported before any name is processed.
func New(rules Rules) (*Engine, error) {
	engine := &Engine{
		titleCase:  enabled(rules.TitleCase),
		strip:      enabled(rules.StripInvalidChars),
		fixDashes:  enabled(rules.FixCaseAfterDashes),
		invalidSet: invalidNTFSChars,
	}
	for i, pair := range rules.RegularExpressions {
		if len(pair) != 2 {
			return nil, fmt.Errorf("regular_expressions[%d]: expected [pattern, replacement], got %d values", i, len(pair))
		}
		re, err := regexp.Compile(pair[0])
		if err != nil {
			return nil, fmt.Errorf("regular_expressions[%d]: compile %q: %w", i, pair[0], err)
		}
		engine.regexes = append(engine.regexes, replacement{pattern: re, with: pair[1]})
	}
	for i, pair := range rules.Strings {
		if len(pair) != 2 {
			return nil, fmt.Errorf("strings[%d]: expected [from, to], got %d values", i, len(pair))
		}
		if pair[0] == "" {
			return nil, fmt.Errorf("strings[%d]: empty search string", i)
		}
		engine.literals = append(engine.literals, [2]string{pair[0], pair[1]})
	}
	return engine, nil
}

// Apply runs the pipeline over a single line. Blank input yields "".
func (e *Engine) Apply(input string) string {
	line := strings.TrimSpace(input)
	if line == "" {
		return ""
	}
	if e.titleCase {
		line = TitleCase(line)
	}
	for _, r := range e.regexes {
		line = replaceFirst(r.pattern, line, r.with)
	}
	for _, pair := range e.literals {
		line = strings.ReplaceAll(line, pair[0], pair[1])
	}
	if e.strip {
		line = strings.Map(func(r rune) rune {
			if strings.ContainsRune(e.invalidSet, r) {
				return -1
			}
			return r
		}, line)
	}
	if e.fixDashes && strings.ContainsRune(line, '–') {
		line = dashLowerPattern.ReplaceAllStringFunc(line, func(match string) string {
			last, size := utf8.DecodeLastRuneInString(match)
			return match[:len(match)-size] + string(unicode.ToUpper(last))
		})
	}
	return strings.TrimSpace(line)
}

func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	expanded := re.ExpandString(nil, template, s, loc)
	return s[:loc[0]] + string(expanded) + s[loc[1]:]
}

// TitleCase capitalizes each word except small connecting words in the
// middle of the title. Words that already carry interior capitals (such as
// "iPhone" or "NASA") are left untouched.
func TitleCase(s string) string {
	caser := cases.Title(language.English, cases.NoLower)
	words := strings.Fields(s)
	for i, word := range words {
		lower := strings.ToLower(word)
		first := i == 0 || strings.HasSuffix(words[i-1], ":")
		last := i == len(words)-1
		if _, small := smallWords[lower]; small && !first && !last {
			words[i] = lower
			continue
		}
		if hasInteriorUpper(word) {
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

func hasInteriorUpper(word string) bool {
	for i, r := range word {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
