package predicate

import (
	"fmt"
	"slices"
	"strings"

	"trackmux/internal/language"
)

// Kind selects which track attribute a predicate inspects.
type Kind string

const (
	KindNone     Kind = "none"
	KindIndex    Kind = "index"
	KindLanguage Kind = "language"
	KindTitle    Kind = "title"
)

// Candidate is the view of a track a predicate evaluates.
type Candidate struct {
	// Index is the 0-based position among real tracks (the general pseudo-track is not counted).
	Index    int
	Language string
	Title    string
}

// Predicate is a tagged track filter decoded from a profile.
type Predicate struct {
	Kind      Kind     `toml:"kind"`
	Indices   []int    `toml:"indices"`
	Languages []string `toml:"languages"`
	Title     Title    `toml:"title"`
}

// None returns a predicate that matches every track.
func None() Predicate { return Predicate{Kind: KindNone} }

// Index returns a predicate matching the given track positions.
func Index(indices ...int) Predicate { return Predicate{Kind: KindIndex, Indices: indices} }

// Language returns a predicate matching the given language codes.
func Language(codes ...string) Predicate { return Predicate{Kind: KindLanguage, Languages: codes} }

// TitleMatch returns a predicate combining rules with op.
func TitleMatch(op Operator, rules ...Rule) Predicate {
	return Predicate{Kind: KindTitle, Title: Title{Operator: op, Rules: rules}}
}

func (p Predicate) kind() Kind {
	if strings.TrimSpace(string(p.Kind)) == "" {
		return KindNone
	}
	return Kind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
}

// Compile validates the predicate and compiles its regex rules. It must
// succeed before Match is called.
func (p *Predicate) Compile() error {
	switch p.kind() {
	case KindNone:
		return nil
	case KindIndex:
		for _, idx := range p.Indices {
			if idx < 0 {
				return fmt.Errorf("index predicate: negative index %d", idx)
			}
		}
		return nil
	case KindLanguage:
		for _, code := range p.Languages {
			if !language.Valid(code) {
				return fmt.Errorf("language predicate: invalid language code %q", code)
			}
		}
		p.Languages = language.NormalizeList(p.Languages)
		return nil
	case KindTitle:
		if err := p.Title.compile(); err != nil {
			return fmt.Errorf("title predicate: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown predicate kind %q", p.Kind)
	}
}

// Match reports whether the candidate satisfies the predicate.
func (p Predicate) Match(c Candidate) bool {
	switch p.kind() {
	case KindIndex:
		return len(p.Indices) == 0 || slices.Contains(p.Indices, c.Index)
	case KindLanguage:
		if len(p.Languages) == 0 {
			return true
		}
		for _, code := range p.Languages {
			if language.Equivalent(code, c.Language) {
				return true
			}
		}
		return false
	case KindTitle:
		return p.Title.match(c.Title)
	default:
		return true
	}
}

// String renders a short description for logs and plan output.
func (p Predicate) String() string {
	switch p.kind() {
	case KindIndex:
		if len(p.Indices) == 0 {
			return "index(any)"
		}
		parts := make([]string, len(p.Indices))
		for i, idx := range p.Indices {
			parts[i] = fmt.Sprint(idx)
		}
		return "index(" + strings.Join(parts, ",") + ")"
	case KindLanguage:
		if len(p.Languages) == 0 {
			return "language(any)"
		}
		names := make([]string, len(p.Languages))
		for i, code := range p.Languages {
			names[i] = language.DisplayName(code)
		}
		return "language(" + strings.Join(names, ",") + ")"
	case KindTitle:
		return fmt.Sprintf("title(%s, %d rules)", p.Title.operator(), len(p.Title.Rules))
	default:
		return "none"
	}
}
